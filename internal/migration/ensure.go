package migration

import (
	"context"
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/romankudravcev/migration-service/internal/cluster"
)

// Idempotent create-if-absent helpers for the proxy's own resources: an
// existence read first, "not found" proceeds to create, an existing
// resource is a no-op, and any other read failure is fatal to that single
// creation.

func ensureNamespace(ctx context.Context, c *cluster.Cluster, name string, logf LogFunc) error {
	_, err := c.Clientset.CoreV1().Namespaces().Get(ctx, name, metav1.GetOptions{})
	if err == nil {
		logf(fmt.Sprintf("Namespace %s already exists, skipping creation", name))
		return nil
	}
	if !apierrors.IsNotFound(err) {
		return fmt.Errorf("checking namespace %s: %w", name, err)
	}

	ns := &corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: name}}
	if _, err := c.Clientset.CoreV1().Namespaces().Create(ctx, ns, metav1.CreateOptions{}); err != nil {
		return fmt.Errorf("creating namespace %s: %w", name, err)
	}
	logf(fmt.Sprintf("Namespace created: %s", name))
	return nil
}

func ensureConfigMap(ctx context.Context, c *cluster.Cluster, namespace, name string, data map[string]string, logf LogFunc) error {
	_, err := c.Clientset.CoreV1().ConfigMaps(namespace).Get(ctx, name, metav1.GetOptions{})
	if err == nil {
		logf(fmt.Sprintf("ConfigMap %s already exists, skipping creation", identityKey(namespace, name)))
		return nil
	}
	if !apierrors.IsNotFound(err) {
		return fmt.Errorf("checking config map %s: %w", identityKey(namespace, name), err)
	}

	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Data:       data,
	}
	if _, err := c.Clientset.CoreV1().ConfigMaps(namespace).Create(ctx, cm, metav1.CreateOptions{}); err != nil {
		return fmt.Errorf("creating config map %s: %w", identityKey(namespace, name), err)
	}
	logf(fmt.Sprintf("ConfigMap created: %s", identityKey(namespace, name)))
	return nil
}

func ensureDeployment(ctx context.Context, c *cluster.Cluster, deployment *appsv1.Deployment, logf LogFunc) error {
	key := identityKey(deployment.Namespace, deployment.Name)

	_, err := c.Clientset.AppsV1().Deployments(deployment.Namespace).Get(ctx, deployment.Name, metav1.GetOptions{})
	if err == nil {
		logf(fmt.Sprintf("Deployment %s already exists, skipping creation", key))
		return nil
	}
	if !apierrors.IsNotFound(err) {
		return fmt.Errorf("checking deployment %s: %w", key, err)
	}

	if _, err := c.Clientset.AppsV1().Deployments(deployment.Namespace).Create(ctx, deployment, metav1.CreateOptions{}); err != nil {
		return fmt.Errorf("creating deployment %s: %w", key, err)
	}
	logf(fmt.Sprintf("Deployment created: %s", key))
	return nil
}

func ensureService(ctx context.Context, c *cluster.Cluster, service *corev1.Service, logf LogFunc) error {
	key := identityKey(service.Namespace, service.Name)

	_, err := c.Clientset.CoreV1().Services(service.Namespace).Get(ctx, service.Name, metav1.GetOptions{})
	if err == nil {
		logf(fmt.Sprintf("Service %s already exists, skipping creation", key))
		return nil
	}
	if !apierrors.IsNotFound(err) {
		return fmt.Errorf("checking service %s: %w", key, err)
	}

	if _, err := c.Clientset.CoreV1().Services(service.Namespace).Create(ctx, service, metav1.CreateOptions{}); err != nil {
		return fmt.Errorf("creating service %s: %w", key, err)
	}
	logf(fmt.Sprintf("Service created: %s", key))
	return nil
}

func ensureIngressRoute(ctx context.Context, c *cluster.Cluster, route *unstructured.Unstructured, logf LogFunc) error {
	namespace, name := route.GetNamespace(), route.GetName()
	key := identityKey(namespace, name)

	_, err := c.Dynamic.Resource(cluster.IngressRouteGVR).Namespace(namespace).Get(ctx, name, metav1.GetOptions{})
	if err == nil {
		logf(fmt.Sprintf("IngressRoute %s already exists, skipping creation", key))
		return nil
	}
	if !apierrors.IsNotFound(err) {
		return fmt.Errorf("checking ingress route %s: %w", key, err)
	}

	if _, err := c.Dynamic.Resource(cluster.IngressRouteGVR).Namespace(namespace).Create(ctx, route, metav1.CreateOptions{}); err != nil {
		return fmt.Errorf("creating ingress route %s: %w", key, err)
	}
	logf(fmt.Sprintf("IngressRoute created: %s", key))
	return nil
}
