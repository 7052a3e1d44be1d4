package migration

import (
	"reflect"
	"testing"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/types"
)

func TestSanitizeDeployment(t *testing.T) {
	replicas := int32(3)
	original := appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:            "web",
			Namespace:       "ns1",
			Labels:          map[string]string{"app": "web"},
			Annotations:     map[string]string{"note": "keep"},
			ResourceVersion: "12345",
			UID:             types.UID("aaaa-bbbb"),
			Generation:      4,
		},
		Spec: appsv1.DeploymentSpec{Replicas: &replicas},
		Status: appsv1.DeploymentStatus{
			ReadyReplicas: 3,
		},
	}

	clean := sanitizeDeployment(original)

	if clean.Name != "web" || clean.Namespace != "ns1" {
		t.Errorf("identity changed: %s/%s", clean.Namespace, clean.Name)
	}
	if !reflect.DeepEqual(clean.Labels, original.Labels) {
		t.Errorf("labels changed: %v", clean.Labels)
	}
	if !reflect.DeepEqual(clean.Annotations, original.Annotations) {
		t.Errorf("annotations changed: %v", clean.Annotations)
	}
	if !reflect.DeepEqual(clean.Spec, original.Spec) {
		t.Error("spec changed by sanitization")
	}
	if clean.ResourceVersion != "" || clean.UID != "" || clean.Generation != 0 {
		t.Errorf("cluster-assigned metadata survived: rv=%q uid=%q gen=%d",
			clean.ResourceVersion, clean.UID, clean.Generation)
	}
	if !reflect.DeepEqual(clean.Status, appsv1.DeploymentStatus{}) {
		t.Errorf("status survived: %+v", clean.Status)
	}
	if clean.APIVersion != "apps/v1" || clean.Kind != "Deployment" {
		t.Errorf("TypeMeta = %s/%s, want apps/v1 Deployment", clean.APIVersion, clean.Kind)
	}
}

func TestSanitizeConfigMap_KeepsData(t *testing.T) {
	original := corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: "cfg", Namespace: "ns1", ResourceVersion: "7"},
		Data:       map[string]string{"key": "value"},
		BinaryData: map[string][]byte{"bin": {0x1}},
	}

	clean := sanitizeConfigMap(original)

	if !reflect.DeepEqual(clean.Data, original.Data) || !reflect.DeepEqual(clean.BinaryData, original.BinaryData) {
		t.Error("config map payload changed by sanitization")
	}
	if clean.ResourceVersion != "" {
		t.Errorf("resourceVersion survived: %q", clean.ResourceVersion)
	}
}

func TestSanitizeSecret_KeepsType(t *testing.T) {
	original := corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: "creds", Namespace: "ns1", UID: "u1"},
		Type:       corev1.SecretTypeOpaque,
		Data:       map[string][]byte{"password": []byte("hunter2")},
	}

	clean := sanitizeSecret(original)

	if clean.Type != corev1.SecretTypeOpaque {
		t.Errorf("secret type changed: %s", clean.Type)
	}
	if !reflect.DeepEqual(clean.Data, original.Data) {
		t.Error("secret data changed by sanitization")
	}
	if clean.UID != "" {
		t.Errorf("uid survived: %q", clean.UID)
	}
}

func TestSanitizeUnstructured(t *testing.T) {
	original := unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "traefik.containo.us/v1alpha1",
		"kind":       "IngressRoute",
		"metadata": map[string]interface{}{
			"name":            "route",
			"namespace":       "ns1",
			"resourceVersion": "99",
			"uid":             "cccc-dddd",
			"labels":          map[string]interface{}{"app": "web"},
		},
		"spec": map[string]interface{}{
			"entryPoints": []interface{}{"web"},
		},
		"status": map[string]interface{}{"observed": true},
	}}

	clean := sanitizeUnstructured(original)

	// Input must not be mutated.
	if original.GetResourceVersion() != "99" {
		t.Error("sanitize mutated its input")
	}

	metadata := clean.Object["metadata"].(map[string]interface{})
	if _, ok := metadata["resourceVersion"]; ok {
		t.Error("resourceVersion survived sanitization")
	}
	if _, ok := metadata["uid"]; ok {
		t.Error("uid survived sanitization")
	}
	if _, ok := clean.Object["status"]; ok {
		t.Error("status survived sanitization")
	}
	if clean.GetName() != "route" || clean.GetNamespace() != "ns1" {
		t.Errorf("identity changed: %s/%s", clean.GetNamespace(), clean.GetName())
	}
	if !reflect.DeepEqual(clean.Object["spec"], original.Object["spec"]) {
		t.Error("spec changed by sanitization")
	}
}

func TestSanitizeUnstructured_NoOpWithoutFields(t *testing.T) {
	original := unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "traefik.containo.us/v1alpha1",
		"kind":       "Middleware",
		"metadata": map[string]interface{}{
			"name":      "strip-prefix",
			"namespace": "ns1",
		},
		"spec": map[string]interface{}{
			"stripPrefix": map[string]interface{}{"prefixes": []interface{}{"/api"}},
		},
	}}

	clean := sanitizeUnstructured(original)

	if !reflect.DeepEqual(clean.Object, original.Object) {
		t.Errorf("sanitize of an already-clean resource changed it:\ngot  %v\nwant %v",
			clean.Object, original.Object)
	}
}
