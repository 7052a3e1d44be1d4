package migration

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/romankudravcev/migration-service/internal/cluster"
	"github.com/romankudravcev/migration-service/internal/manifest"
)

// proxyConfigMapName holds the forwarding target for the proxy workload.
const proxyConfigMapName = "http-proxy-config"

// fetchFunc downloads and splits a proxy manifest. Tests swap in a local one.
type fetchFunc func(ctx context.Context, url string) ([]manifest.Document, error)

// cutover redirects traffic served by the source cluster to the target:
// resolve the target's public entrypoint, stand up a proxy in the source
// cluster forwarding to it, then remove the source's other routing rules.
// The proxy deploy must complete before any deletion starts so there is
// never an instant with zero valid routes.
func cutover(ctx context.Context, source *cluster.Cluster, sourceSnap, targetSnap *cluster.Snapshot, opts ProxyOptions, fetch fetchFunc, report *Report, logf LogFunc) error {
	address, err := resolveEntrypoint(targetSnap.Services)
	if err != nil {
		return err
	}
	logf("Target cluster entrypoint: " + address)

	if err := deployProxy(ctx, source, address, opts, fetch, logf); err != nil {
		return fmt.Errorf("deploying proxy: %w", err)
	}

	decommissionRoutes(ctx, source, sourceSnap.IngressRoutes, opts.Namespace, report, logf)
	return nil
}

// resolveEntrypoint scans the target's service inventory for the first
// service with an assigned external load balancer address. A target with no
// such address is a failed precondition, not something to retry.
func resolveEntrypoint(services []corev1.Service) (string, error) {
	for _, svc := range services {
		for _, ingress := range svc.Status.LoadBalancer.Ingress {
			if ingress.IP != "" {
				return ingress.IP, nil
			}
			if ingress.Hostname != "" {
				return ingress.Hostname, nil
			}
		}
	}
	return "", errors.New("no service with an external load balancer address found in target cluster")
}

// deployProxy stands up the proxy construct in the given cluster: the
// reserved namespace, a config map carrying the forwarding target, and the
// proxy workload materialized from its manifest with the forwarding port
// applied. Any failure here aborts the cutover before decommissioning.
func deployProxy(ctx context.Context, c *cluster.Cluster, targetAddress string, opts ProxyOptions, fetch fetchFunc, logf LogFunc) error {
	if err := ensureNamespace(ctx, c, opts.Namespace, logf); err != nil {
		return err
	}

	data := map[string]string{
		"TARGET_URL": targetAddress,
		"PORT":       strconv.Itoa(opts.Port),
	}
	if err := ensureConfigMap(ctx, c, opts.Namespace, proxyConfigMapName, data, logf); err != nil {
		return err
	}

	docs, err := fetch(ctx, opts.ManifestURL)
	if err != nil {
		return fmt.Errorf("fetching proxy manifest: %w", err)
	}

	for _, doc := range docs {
		switch doc.Kind {
		case "Deployment":
			deployment, err := manifest.Deployment(doc, int32(opts.Port))
			if err != nil {
				return err
			}
			if err := ensureDeployment(ctx, c, deployment, logf); err != nil {
				return err
			}
		case "Service":
			service, err := manifest.Service(doc, int32(opts.Port))
			if err != nil {
				return err
			}
			if err := ensureService(ctx, c, service, logf); err != nil {
				return err
			}
		case "IngressRoute":
			route, err := manifest.IngressRoute(doc, opts.Port)
			if err != nil {
				return err
			}
			if err := ensureIngressRoute(ctx, c, route, logf); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported resource kind %q in proxy manifest", doc.Kind)
		}
	}
	return nil
}

// decommissionRoutes deletes every routing rule outside the reserved proxy
// namespace, leaving the proxy's own rule as the sole active route. A stuck
// rule is logged and skipped; it must not block the rest.
func decommissionRoutes(ctx context.Context, c *cluster.Cluster, routes []unstructured.Unstructured, proxyNamespace string, report *Report, logf LogFunc) {
	for _, route := range routes {
		namespace, name := route.GetNamespace(), route.GetName()
		if namespace == proxyNamespace {
			continue
		}

		key := identityKey(namespace, name)
		err := c.Dynamic.Resource(cluster.IngressRouteGVR).Namespace(namespace).Delete(ctx, name, metav1.DeleteOptions{})
		if err != nil && !apierrors.IsNotFound(err) {
			report.add(Outcome{Kind: "IngressRoute", Namespace: namespace, Name: name, Action: "failed", Error: err.Error()})
			logf(fmt.Sprintf("  ERROR deleting IngressRoute %s: %v", key, err))
			continue
		}
		report.add(Outcome{Kind: "IngressRoute", Namespace: namespace, Name: name, Action: "deleted"})
		logf("  IngressRoute deleted: " + key)
	}
}
