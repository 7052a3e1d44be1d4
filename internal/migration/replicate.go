package migration

import (
	"context"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"

	"github.com/romankudravcev/migration-service/internal/cluster"
)

// LogFunc receives one progress line. The engine reports per-resource
// outcomes through it so the job log is the run's audit trail.
type LogFunc func(string)

// Outcome records the result of one resource operation during a run.
type Outcome struct {
	Kind      string `json:"kind"`
	Namespace string `json:"namespace,omitempty"`
	Name      string `json:"name"`
	Action    string `json:"action"` // "created", "skipped", "deleted", "failed"
	Error     string `json:"error,omitempty"`
}

// Report collects the per-item outcomes of a migration run so callers and
// tests can see exactly which resources failed without parsing logs.
type Report struct {
	Outcomes []Outcome `json:"outcomes"`
}

func (r *Report) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Failed returns the outcomes that ended in failure.
func (r *Report) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Action == "failed" {
			failed = append(failed, o)
		}
	}
	return failed
}

// kindHandler bundles the kind-specific capabilities the generic replication
// pipeline needs: listing a snapshot's items, extracting identity,
// sanitizing, and creating against a cluster. The algorithm itself is the
// same for every kind.
type kindHandler[T any] struct {
	kind     string
	items    func(*cluster.Snapshot) []T
	identity func(T) (string, error)
	sanitize func(T) T
	locate   func(T) (namespace, name string)
	create   func(context.Context, *cluster.Cluster, T) error
}

// replicate diffs one kind between the two snapshots and creates each
// missing resource on the target. Per-item failures are recorded and logged
// but never abort the batch: partial success beats blocking a whole
// migration on one bad resource. The returned error covers only defects
// that invalidate the diff itself.
func replicate[T any](ctx context.Context, h kindHandler[T], source, target *cluster.Snapshot, targetCluster *cluster.Cluster, report *Report, logf LogFunc) error {
	missing, err := diff(h.items(source), h.items(target), h.identity)
	if err != nil {
		return fmt.Errorf("%s diff: %w", h.kind, err)
	}
	logf(fmt.Sprintf("%s: %d missing on target", h.kind, len(missing)))

	for _, item := range missing {
		clean := h.sanitize(item)
		namespace, name := h.locate(clean)

		err := h.create(ctx, targetCluster, clean)
		switch {
		case err == nil:
			report.add(Outcome{Kind: h.kind, Namespace: namespace, Name: name, Action: "created"})
			logf(fmt.Sprintf("  %s created: %s", h.kind, identityKey(namespace, name)))
		case apierrors.IsAlreadyExists(err):
			report.add(Outcome{Kind: h.kind, Namespace: namespace, Name: name, Action: "skipped"})
			logf(fmt.Sprintf("  %s already exists, skipped: %s", h.kind, identityKey(namespace, name)))
		default:
			report.add(Outcome{Kind: h.kind, Namespace: namespace, Name: name, Action: "failed", Error: err.Error()})
			logf(fmt.Sprintf("  ERROR creating %s %s: %v", h.kind, identityKey(namespace, name), err))
		}
	}
	return nil
}
