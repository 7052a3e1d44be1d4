package cluster

import (
	"fmt"

	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
)

// Traefik CRD coordinates used for the schema-less routing resources.
var (
	IngressRouteGVR = schema.GroupVersionResource{
		Group:    "traefik.containo.us",
		Version:  "v1alpha1",
		Resource: "ingressroutes",
	}
	MiddlewareGVR = schema.GroupVersionResource{
		Group:    "traefik.containo.us",
		Version:  "v1alpha1",
		Resource: "middlewares",
	}
)

// Cluster is a handle to one Kubernetes cluster. It is an explicit value
// passed into every operation so that multiple clusters can be used side
// by side within one process.
type Cluster struct {
	// Name identifies the cluster in logs ("source", "target").
	Name string

	Clientset kubernetes.Interface
	Dynamic   dynamic.Interface
}

// New builds a Cluster from raw kubeconfig bytes, typically the content of
// an uploaded kubeconfig file.
func New(name string, kubeconfig []byte) (*Cluster, error) {
	restConfig, err := clientcmd.RESTConfigFromKubeConfig(kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("loading kubeconfig for %s cluster: %w", name, err)
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("building clientset for %s cluster: %w", name, err)
	}

	dyn, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("building dynamic client for %s cluster: %w", name, err)
	}

	return &Cluster{Name: name, Clientset: clientset, Dynamic: dyn}, nil
}
