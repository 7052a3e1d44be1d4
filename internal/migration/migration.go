package migration

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/romankudravcev/migration-service/internal/cluster"
	"github.com/romankudravcev/migration-service/internal/manifest"
)

// ProxyOptions configures the traffic-cutover proxy stood up in the source
// cluster at the end of a run.
type ProxyOptions struct {
	// ManifestURL locates the multi-document YAML manifest describing the
	// proxy's deployment, service and routing rule.
	ManifestURL string
	// Port is the forwarding port applied to every port declared in the
	// proxy manifest.
	Port int
	// Namespace is the namespace reserved for the proxy's own resources,
	// spared during routing-rule decommissioning.
	Namespace string
}

// Run migrates the workload surface of the source cluster to the target,
// then cuts live traffic over to the target through a proxy left behind in
// the source cluster.
//
// Snapshot load failures abort before any mutation. Per-resource failures
// inside a replication stage are contained: they are logged, recorded in
// the returned Report, and do not stop the pipeline. A cutover failure is
// the run's terminal error even when replication partially succeeded.
func Run(ctx context.Context, source, target *cluster.Cluster, opts ProxyOptions, logf LogFunc) (*Report, error) {
	return run(ctx, source, target, opts, manifest.Fetch, logf)
}

func run(ctx context.Context, source, target *cluster.Cluster, opts ProxyOptions, fetch fetchFunc, logf LogFunc) (*Report, error) {
	logf("Loading cluster snapshots...")

	var sourceSnap, targetSnap *cluster.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap, err := source.Snapshot(gctx)
		if err != nil {
			return fmt.Errorf("loading source cluster snapshot: %w", err)
		}
		sourceSnap = snap
		return nil
	})
	g.Go(func() error {
		snap, err := target.Snapshot(gctx)
		if err != nil {
			return fmt.Errorf("loading target cluster snapshot: %w", err)
		}
		targetSnap = snap
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logf(fmt.Sprintf("Source snapshot: %d namespaces, %d deployments, %d services, %d ingress routes",
		len(sourceSnap.Namespaces), len(sourceSnap.Deployments), len(sourceSnap.Services), len(sourceSnap.IngressRoutes)))
	logf(fmt.Sprintf("Target snapshot: %d namespaces, %d deployments, %d services, %d ingress routes",
		len(targetSnap.Namespaces), len(targetSnap.Deployments), len(targetSnap.Services), len(targetSnap.IngressRoutes)))

	report := &Report{}

	// Namespaces first, then mounted config, then workloads, then the
	// routing layer that references them. A diff defect aborts its own
	// stage; the pipeline still advances.
	logf("")
	logf("=== Replicating resources ===")
	stages := []func() error{
		func() error { return replicate(ctx, namespaceHandler(), sourceSnap, targetSnap, target, report, logf) },
		func() error { return replicate(ctx, configMapHandler(), sourceSnap, targetSnap, target, report, logf) },
		func() error { return replicate(ctx, secretHandler(), sourceSnap, targetSnap, target, report, logf) },
		func() error { return replicate(ctx, deploymentHandler(), sourceSnap, targetSnap, target, report, logf) },
		func() error { return replicate(ctx, serviceHandler(), sourceSnap, targetSnap, target, report, logf) },
		func() error { return replicate(ctx, ingressHandler(), sourceSnap, targetSnap, target, report, logf) },
		func() error { return replicate(ctx, middlewareHandler(), sourceSnap, targetSnap, target, report, logf) },
		func() error { return replicate(ctx, ingressRouteHandler(), sourceSnap, targetSnap, target, report, logf) },
	}
	for _, stage := range stages {
		if err := stage(); err != nil {
			logf("ERROR: " + err.Error())
		}
	}

	logf("")
	logf("=== Cutting traffic over ===")
	if err := cutover(ctx, source, sourceSnap, targetSnap, opts, fetch, report, logf); err != nil {
		return report, fmt.Errorf("cutover: %w", err)
	}

	if failed := report.Failed(); len(failed) > 0 {
		logf(fmt.Sprintf("Migration finished with %d failed resources, inspect the log above", len(failed)))
	} else {
		logf("Migration finished")
	}
	return report, nil
}
