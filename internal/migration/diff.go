package migration

import (
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// identityKey derives the set-membership key for a resource within one
// kind: "namespace:name", or the bare name for cluster-scoped kinds.
func identityKey(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + ":" + name
}

// metaIdentity validates and derives the identity key for a typed resource.
// A resource without a name is a defect in the snapshot and fails loudly
// rather than silently matching everything.
func metaIdentity(kind, namespace, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%s in snapshot has no name", kind)
	}
	return identityKey(namespace, name), nil
}

// unstructuredIdentity derives the identity key for a generic attribute
// mapping resource.
func unstructuredIdentity(kind string, obj unstructured.Unstructured) (string, error) {
	return metaIdentity(kind, obj.GetNamespace(), obj.GetName())
}

// diff returns the items of source whose identity is absent from target,
// preserving source order. Inputs are never mutated; duplicate identities
// within target collapse into the same set entry.
func diff[T any](source, target []T, identity func(T) (string, error)) ([]T, error) {
	present := make(map[string]struct{}, len(target))
	for _, item := range target {
		key, err := identity(item)
		if err != nil {
			return nil, err
		}
		present[key] = struct{}{}
	}

	var missing []T
	for _, item := range source {
		key, err := identity(item)
		if err != nil {
			return nil, err
		}
		if _, ok := present[key]; !ok {
			missing = append(missing, item)
		}
	}
	return missing, nil
}
