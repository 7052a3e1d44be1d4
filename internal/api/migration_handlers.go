package api

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/romankudravcev/migration-service/internal/cluster"
	"github.com/romankudravcev/migration-service/internal/migration"
)

// maxKubeconfigSize bounds each uploaded kubeconfig file.
const maxKubeconfigSize = 1 << 20

// MigrateHandler accepts two kubeconfig files ("file1" = source, "file2" =
// target), validates the credentials, and starts an async migration job.
// Unreadable credentials are rejected up front; everything past that runs
// best-effort with the job log as the per-resource record.
func (s *Server) MigrateHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(2 * maxKubeconfigSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	source, err := clusterFromForm(r, "file1", "source")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	target, err := clusterFromForm(r, "file2", "target")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	job := s.Jobs.Create("migration")

	go func() {
		report, err := migration.Run(context.Background(), source, target, s.Proxy, job.AppendLog)
		if report != nil {
			job.SetResult(report)
		}
		if err != nil {
			job.AppendLog("ERROR: " + err.Error())
			job.Fail(err.Error())
			return
		}
		job.Complete()
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"job_id": job.ID})
}

// clusterFromForm reads one uploaded kubeconfig and builds a cluster handle
// from it.
func clusterFromForm(r *http.Request, field, name string) (*cluster.Cluster, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("missing kubeconfig upload %q (%s cluster): %w", field, name, err)
	}
	defer file.Close()

	kubeconfig, err := io.ReadAll(io.LimitReader(file, maxKubeconfigSize))
	if err != nil {
		return nil, fmt.Errorf("reading kubeconfig upload %q (%s cluster): %w", field, name, err)
	}

	return cluster.New(name, kubeconfig)
}
