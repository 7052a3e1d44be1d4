package migration

import (
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	netv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// Sanitization strips the fields a cluster assigns on creation so that a
// resource listed from one cluster can be replayed into another: metadata is
// rebuilt keeping only name, namespace, labels and annotations (dropping
// resourceVersion, uid and friends), TypeMeta is normalized to its canonical
// value, status is dropped, and the kind-specific payload is kept verbatim.

func cleanMeta(meta metav1.ObjectMeta) metav1.ObjectMeta {
	return metav1.ObjectMeta{
		Name:        meta.Name,
		Namespace:   meta.Namespace,
		Labels:      meta.Labels,
		Annotations: meta.Annotations,
	}
}

func sanitizeNamespace(ns corev1.Namespace) corev1.Namespace {
	return corev1.Namespace{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "Namespace"},
		ObjectMeta: cleanMeta(ns.ObjectMeta),
		Spec:       ns.Spec,
	}
}

func sanitizeConfigMap(cm corev1.ConfigMap) corev1.ConfigMap {
	return corev1.ConfigMap{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "ConfigMap"},
		ObjectMeta: cleanMeta(cm.ObjectMeta),
		Immutable:  cm.Immutable,
		Data:       cm.Data,
		BinaryData: cm.BinaryData,
	}
}

func sanitizeSecret(secret corev1.Secret) corev1.Secret {
	return corev1.Secret{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "Secret"},
		ObjectMeta: cleanMeta(secret.ObjectMeta),
		Immutable:  secret.Immutable,
		Data:       secret.Data,
		Type:       secret.Type,
	}
}

func sanitizeDeployment(deployment appsv1.Deployment) appsv1.Deployment {
	return appsv1.Deployment{
		TypeMeta:   metav1.TypeMeta{APIVersion: "apps/v1", Kind: "Deployment"},
		ObjectMeta: cleanMeta(deployment.ObjectMeta),
		Spec:       deployment.Spec,
	}
}

func sanitizeService(service corev1.Service) corev1.Service {
	return corev1.Service{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "Service"},
		ObjectMeta: cleanMeta(service.ObjectMeta),
		Spec:       service.Spec,
	}
}

func sanitizeIngress(ingress netv1.Ingress) netv1.Ingress {
	return netv1.Ingress{
		TypeMeta:   metav1.TypeMeta{APIVersion: "networking.k8s.io/v1", Kind: "Ingress"},
		ObjectMeta: cleanMeta(ingress.ObjectMeta),
		Spec:       ingress.Spec,
	}
}

// sanitizeUnstructured removes the cluster-assigned metadata fields and the
// status subtree from a generic attribute mapping, leaving everything else
// untouched. It is a no-op on objects that already lack those fields.
func sanitizeUnstructured(obj unstructured.Unstructured) unstructured.Unstructured {
	clean := obj.DeepCopy()
	unstructured.RemoveNestedField(clean.Object, "metadata", "resourceVersion")
	unstructured.RemoveNestedField(clean.Object, "metadata", "uid")
	unstructured.RemoveNestedField(clean.Object, "status")
	return *clean
}
