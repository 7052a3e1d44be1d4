package cluster

import (
	"context"
	"errors"
	"testing"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	k8sfake "k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"
)

func newTestCluster(typed []runtime.Object, custom ...runtime.Object) (*Cluster, *k8sfake.Clientset) {
	clientset := k8sfake.NewSimpleClientset(typed...)
	dyn := dynamicfake.NewSimpleDynamicClientWithCustomListKinds(
		runtime.NewScheme(),
		map[schema.GroupVersionResource]string{
			IngressRouteGVR: "IngressRouteList",
			MiddlewareGVR:   "MiddlewareList",
		},
		custom...,
	)
	return &Cluster{Name: "test", Clientset: clientset, Dynamic: dyn}, clientset
}

func TestSnapshot_ListsAllKinds(t *testing.T) {
	route := &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "traefik.containo.us/v1alpha1",
		"kind":       "IngressRoute",
		"metadata":   map[string]interface{}{"name": "api", "namespace": "ns1"},
	}}
	middleware := &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "traefik.containo.us/v1alpha1",
		"kind":       "Middleware",
		"metadata":   map[string]interface{}{"name": "strip", "namespace": "ns1"},
	}}

	c, _ := newTestCluster([]runtime.Object{
		&corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: "ns1"}},
		&corev1.ConfigMap{ObjectMeta: metav1.ObjectMeta{Name: "cfg", Namespace: "ns1"}},
		&corev1.Service{ObjectMeta: metav1.ObjectMeta{Name: "svc", Namespace: "ns1"}},
	}, route, middleware)

	snap, err := c.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}

	if len(snap.Namespaces) != 1 || snap.Namespaces[0].Name != "ns1" {
		t.Errorf("namespaces = %+v", snap.Namespaces)
	}
	if len(snap.ConfigMaps) != 1 || len(snap.Services) != 1 {
		t.Errorf("config maps = %d, services = %d, want 1 each", len(snap.ConfigMaps), len(snap.Services))
	}
	if len(snap.IngressRoutes) != 1 || snap.IngressRoutes[0].GetName() != "api" {
		t.Errorf("ingress routes = %+v", snap.IngressRoutes)
	}
	if len(snap.Middlewares) != 1 || snap.Middlewares[0].GetName() != "strip" {
		t.Errorf("middlewares = %+v", snap.Middlewares)
	}
}

func TestSnapshot_ListFailureIsFatal(t *testing.T) {
	c, clientset := newTestCluster(nil)
	clientset.PrependReactor("list", "secrets",
		func(k8stesting.Action) (bool, runtime.Object, error) {
			return true, nil, errors.New("cluster unreachable")
		})

	if _, err := c.Snapshot(context.Background()); err == nil {
		t.Error("Snapshot succeeded despite a list failure, want error")
	}
}

func TestNew_InvalidKubeconfig(t *testing.T) {
	if _, err := New("source", []byte("not a kubeconfig")); err == nil {
		t.Error("New accepted garbage kubeconfig bytes, want error")
	}
}

func TestNew_ValidKubeconfig(t *testing.T) {
	kubeconfig := []byte(`apiVersion: v1
kind: Config
clusters:
  - name: test
    cluster:
      server: https://127.0.0.1:6443
contexts:
  - name: test
    context:
      cluster: test
      user: admin
current-context: test
users:
  - name: admin
    user:
      token: secret
`)
	c, err := New("source", kubeconfig)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if c.Name != "source" || c.Clientset == nil || c.Dynamic == nil {
		t.Errorf("cluster handle incomplete: %+v", c)
	}
}
