package migration

import (
	"context"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	netv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/romankudravcev/migration-service/internal/cluster"
)

// One handler per supported kind. Replication order between kinds is fixed
// in Run; within a kind the snapshot's listing order is preserved.

func namespaceHandler() kindHandler[corev1.Namespace] {
	return kindHandler[corev1.Namespace]{
		kind:  "Namespace",
		items: func(s *cluster.Snapshot) []corev1.Namespace { return s.Namespaces },
		identity: func(ns corev1.Namespace) (string, error) {
			// Cluster-scoped: identity is the bare name.
			return metaIdentity("Namespace", "", ns.Name)
		},
		sanitize: sanitizeNamespace,
		locate:   func(ns corev1.Namespace) (string, string) { return "", ns.Name },
		create: func(ctx context.Context, c *cluster.Cluster, ns corev1.Namespace) error {
			_, err := c.Clientset.CoreV1().Namespaces().Create(ctx, &ns, metav1.CreateOptions{})
			return err
		},
	}
}

func configMapHandler() kindHandler[corev1.ConfigMap] {
	return kindHandler[corev1.ConfigMap]{
		kind:  "ConfigMap",
		items: func(s *cluster.Snapshot) []corev1.ConfigMap { return s.ConfigMaps },
		identity: func(cm corev1.ConfigMap) (string, error) {
			return metaIdentity("ConfigMap", cm.Namespace, cm.Name)
		},
		sanitize: sanitizeConfigMap,
		locate:   func(cm corev1.ConfigMap) (string, string) { return cm.Namespace, cm.Name },
		create: func(ctx context.Context, c *cluster.Cluster, cm corev1.ConfigMap) error {
			_, err := c.Clientset.CoreV1().ConfigMaps(cm.Namespace).Create(ctx, &cm, metav1.CreateOptions{})
			return err
		},
	}
}

func secretHandler() kindHandler[corev1.Secret] {
	return kindHandler[corev1.Secret]{
		kind:  "Secret",
		items: func(s *cluster.Snapshot) []corev1.Secret { return s.Secrets },
		identity: func(secret corev1.Secret) (string, error) {
			return metaIdentity("Secret", secret.Namespace, secret.Name)
		},
		sanitize: sanitizeSecret,
		locate:   func(secret corev1.Secret) (string, string) { return secret.Namespace, secret.Name },
		create: func(ctx context.Context, c *cluster.Cluster, secret corev1.Secret) error {
			_, err := c.Clientset.CoreV1().Secrets(secret.Namespace).Create(ctx, &secret, metav1.CreateOptions{})
			return err
		},
	}
}

func deploymentHandler() kindHandler[appsv1.Deployment] {
	return kindHandler[appsv1.Deployment]{
		kind:  "Deployment",
		items: func(s *cluster.Snapshot) []appsv1.Deployment { return s.Deployments },
		identity: func(d appsv1.Deployment) (string, error) {
			return metaIdentity("Deployment", d.Namespace, d.Name)
		},
		sanitize: sanitizeDeployment,
		locate:   func(d appsv1.Deployment) (string, string) { return d.Namespace, d.Name },
		create: func(ctx context.Context, c *cluster.Cluster, d appsv1.Deployment) error {
			_, err := c.Clientset.AppsV1().Deployments(d.Namespace).Create(ctx, &d, metav1.CreateOptions{})
			return err
		},
	}
}

func serviceHandler() kindHandler[corev1.Service] {
	return kindHandler[corev1.Service]{
		kind:  "Service",
		items: func(s *cluster.Snapshot) []corev1.Service { return s.Services },
		identity: func(svc corev1.Service) (string, error) {
			return metaIdentity("Service", svc.Namespace, svc.Name)
		},
		sanitize: sanitizeService,
		locate:   func(svc corev1.Service) (string, string) { return svc.Namespace, svc.Name },
		create: func(ctx context.Context, c *cluster.Cluster, svc corev1.Service) error {
			_, err := c.Clientset.CoreV1().Services(svc.Namespace).Create(ctx, &svc, metav1.CreateOptions{})
			return err
		},
	}
}

func ingressHandler() kindHandler[netv1.Ingress] {
	return kindHandler[netv1.Ingress]{
		kind:  "Ingress",
		items: func(s *cluster.Snapshot) []netv1.Ingress { return s.Ingresses },
		identity: func(ing netv1.Ingress) (string, error) {
			return metaIdentity("Ingress", ing.Namespace, ing.Name)
		},
		sanitize: sanitizeIngress,
		locate:   func(ing netv1.Ingress) (string, string) { return ing.Namespace, ing.Name },
		create: func(ctx context.Context, c *cluster.Cluster, ing netv1.Ingress) error {
			_, err := c.Clientset.NetworkingV1().Ingresses(ing.Namespace).Create(ctx, &ing, metav1.CreateOptions{})
			return err
		},
	}
}

// customHandler covers the schema-less Traefik kinds; only the GVR and the
// snapshot accessor differ between them.
func customHandler(kind string, gvr schema.GroupVersionResource, items func(*cluster.Snapshot) []unstructured.Unstructured) kindHandler[unstructured.Unstructured] {
	return kindHandler[unstructured.Unstructured]{
		kind:  kind,
		items: items,
		identity: func(obj unstructured.Unstructured) (string, error) {
			return unstructuredIdentity(kind, obj)
		},
		sanitize: sanitizeUnstructured,
		locate:   func(obj unstructured.Unstructured) (string, string) { return obj.GetNamespace(), obj.GetName() },
		create: func(ctx context.Context, c *cluster.Cluster, obj unstructured.Unstructured) error {
			_, err := c.Dynamic.Resource(gvr).Namespace(obj.GetNamespace()).Create(ctx, &obj, metav1.CreateOptions{})
			return err
		},
	}
}

func middlewareHandler() kindHandler[unstructured.Unstructured] {
	return customHandler("Middleware", cluster.MiddlewareGVR,
		func(s *cluster.Snapshot) []unstructured.Unstructured { return s.Middlewares })
}

func ingressRouteHandler() kindHandler[unstructured.Unstructured] {
	return customHandler("IngressRoute", cluster.IngressRouteGVR,
		func(s *cluster.Snapshot) []unstructured.Unstructured { return s.IngressRoutes })
}
