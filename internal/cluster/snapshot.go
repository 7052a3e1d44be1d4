package cluster

import (
	"context"
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	netv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// Snapshot is a point-in-time inventory of one cluster's resources, grouped
// by kind in the cluster's listing order. It is loaded once at the start of
// a migration run and never written back to.
type Snapshot struct {
	Namespaces  []corev1.Namespace
	ConfigMaps  []corev1.ConfigMap
	Secrets     []corev1.Secret
	Deployments []appsv1.Deployment
	Services    []corev1.Service
	Ingresses   []netv1.Ingress

	// Traefik custom resources, kept as generic attribute mappings.
	Middlewares   []unstructured.Unstructured
	IngressRoutes []unstructured.Unstructured
}

// Snapshot bulk-lists every supported resource kind across all namespaces.
// Any list failure aborts the load: a partial snapshot would produce a
// wrong diff, so there is no per-kind error containment here.
func (c *Cluster) Snapshot(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}
	opts := metav1.ListOptions{}

	namespaces, err := c.Clientset.CoreV1().Namespaces().List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing namespaces: %w", err)
	}
	snap.Namespaces = namespaces.Items

	configMaps, err := c.Clientset.CoreV1().ConfigMaps(metav1.NamespaceAll).List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing config maps: %w", err)
	}
	snap.ConfigMaps = configMaps.Items

	secrets, err := c.Clientset.CoreV1().Secrets(metav1.NamespaceAll).List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing secrets: %w", err)
	}
	snap.Secrets = secrets.Items

	deployments, err := c.Clientset.AppsV1().Deployments(metav1.NamespaceAll).List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing deployments: %w", err)
	}
	snap.Deployments = deployments.Items

	services, err := c.Clientset.CoreV1().Services(metav1.NamespaceAll).List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing services: %w", err)
	}
	snap.Services = services.Items

	ingresses, err := c.Clientset.NetworkingV1().Ingresses(metav1.NamespaceAll).List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing ingresses: %w", err)
	}
	snap.Ingresses = ingresses.Items

	middlewares, err := c.Dynamic.Resource(MiddlewareGVR).List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing middlewares: %w", err)
	}
	snap.Middlewares = middlewares.Items

	ingressRoutes, err := c.Dynamic.Resource(IngressRouteGVR).List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing ingress routes: %w", err)
	}
	snap.IngressRoutes = ingressRoutes.Items

	return snap, nil
}
