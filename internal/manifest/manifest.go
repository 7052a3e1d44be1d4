package manifest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	utilyaml "k8s.io/apimachinery/pkg/util/yaml"
	"sigs.k8s.io/yaml"
)

// Document is one document of a multi-document YAML manifest, tagged with
// its kind discriminator.
type Document struct {
	Kind string
	Raw  []byte
}

// Fetch downloads a multi-document YAML manifest from a URL and splits it
// into its documents. Fetch and parse failures are fatal to the operation
// that requested the manifest.
func Fetch(ctx context.Context, url string) ([]Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading manifest %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloading manifest %s: HTTP %d", url, resp.StatusCode)
	}

	return Parse(resp.Body)
}

// Parse splits a YAML stream into tagged documents. Documents without a
// kind are rejected: the manifest source is operator-controlled and a
// kind-less document is a configuration mistake, not something to skip.
func Parse(r io.Reader) ([]Document, error) {
	reader := utilyaml.NewYAMLReader(bufio.NewReader(r))

	var docs []Document
	for {
		raw, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading manifest document: %w", err)
		}
		if len(strings.TrimSpace(string(raw))) == 0 {
			continue
		}

		var typeMeta struct {
			Kind string `json:"kind"`
		}
		if err := yaml.Unmarshal(raw, &typeMeta); err != nil {
			return nil, fmt.Errorf("parsing manifest document: %w", err)
		}
		if typeMeta.Kind == "" {
			return nil, fmt.Errorf("manifest document %d has no kind", len(docs))
		}

		docs = append(docs, Document{Kind: typeMeta.Kind, Raw: raw})
	}

	return docs, nil
}
