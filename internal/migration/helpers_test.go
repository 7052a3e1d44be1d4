package migration

import (
	"context"
	"testing"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	k8sfake "k8s.io/client-go/kubernetes/fake"

	"github.com/romankudravcev/migration-service/internal/cluster"
)

func discardLog(string) {}

// fakeCluster builds a cluster handle backed by fake clients, pre-loaded
// with the given typed and custom objects.
func fakeCluster(name string, typed []runtime.Object, custom ...runtime.Object) (*cluster.Cluster, *k8sfake.Clientset, *dynamicfake.FakeDynamicClient) {
	clientset := k8sfake.NewSimpleClientset(typed...)
	dyn := dynamicfake.NewSimpleDynamicClientWithCustomListKinds(
		runtime.NewScheme(),
		map[schema.GroupVersionResource]string{
			cluster.IngressRouteGVR: "IngressRouteList",
			cluster.MiddlewareGVR:   "MiddlewareList",
		},
		custom...,
	)
	return &cluster.Cluster{Name: name, Clientset: clientset, Dynamic: dyn}, clientset, dyn
}

func namespaceObj(name string) *corev1.Namespace {
	return &corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: name}}
}

func ingressRouteObj(namespace, name string, servicePort int64) *unstructured.Unstructured {
	return &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "traefik.containo.us/v1alpha1",
		"kind":       "IngressRoute",
		"metadata": map[string]interface{}{
			"name":            name,
			"namespace":       namespace,
			"resourceVersion": "1",
			"uid":             "uid-" + namespace + "-" + name,
		},
		"spec": map[string]interface{}{
			"entryPoints": []interface{}{"web"},
			"routes": []interface{}{
				map[string]interface{}{
					"match": "Host(`" + name + ".example.com`)",
					"kind":  "Rule",
					"services": []interface{}{
						map[string]interface{}{"name": name, "port": servicePort},
					},
				},
			},
		},
	}}
}

func loadSnapshot(t *testing.T, c *cluster.Cluster) *cluster.Snapshot {
	t.Helper()
	snap, err := c.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("loading snapshot: %v", err)
	}
	return snap
}

// loadBalancerService returns a service, optionally carrying an assigned
// external load balancer address in its status.
func loadBalancerService(namespace, name, ip string) *corev1.Service {
	svc := &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Spec: corev1.ServiceSpec{
			Type:  corev1.ServiceTypeLoadBalancer,
			Ports: []corev1.ServicePort{{Port: 80}},
		},
	}
	if ip != "" {
		svc.Status.LoadBalancer.Ingress = []corev1.LoadBalancerIngress{{IP: ip}}
	}
	return svc
}
