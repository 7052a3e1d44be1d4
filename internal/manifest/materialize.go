package manifest

import (
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/util/intstr"
	"sigs.k8s.io/yaml"
)

// Deployment materializes a Deployment document, rewriting every declared
// container port to the given port.
func Deployment(doc Document, port int32) (*appsv1.Deployment, error) {
	var deployment appsv1.Deployment
	if err := yaml.Unmarshal(doc.Raw, &deployment); err != nil {
		return nil, fmt.Errorf("parsing Deployment manifest: %w", err)
	}

	containers := deployment.Spec.Template.Spec.Containers
	for i := range containers {
		for j := range containers[i].Ports {
			containers[i].Ports[j].ContainerPort = port
		}
	}

	return &deployment, nil
}

// Service materializes a Service document, rewriting every declared service
// port (and its target port) to the given port.
func Service(doc Document, port int32) (*corev1.Service, error) {
	var service corev1.Service
	if err := yaml.Unmarshal(doc.Raw, &service); err != nil {
		return nil, fmt.Errorf("parsing Service manifest: %w", err)
	}

	for i := range service.Spec.Ports {
		service.Spec.Ports[i].Port = port
		service.Spec.Ports[i].TargetPort = intstr.FromInt32(port)
	}

	return &service, nil
}

// IngressRoute materializes an IngressRoute document, rewriting the port of
// every service entry inside every route.
func IngressRoute(doc Document, port int) (*unstructured.Unstructured, error) {
	var obj map[string]interface{}
	if err := yaml.Unmarshal(doc.Raw, &obj); err != nil {
		return nil, fmt.Errorf("parsing IngressRoute manifest: %w", err)
	}

	route := &unstructured.Unstructured{Object: obj}
	if route.GetName() == "" {
		return nil, fmt.Errorf("IngressRoute manifest has no metadata.name")
	}

	spec, ok := obj["spec"].(map[string]interface{})
	if !ok {
		return route, nil
	}
	routes, ok := spec["routes"].([]interface{})
	if !ok {
		return route, nil
	}
	for _, r := range routes {
		routeMap, ok := r.(map[string]interface{})
		if !ok {
			continue
		}
		services, ok := routeMap["services"].([]interface{})
		if !ok {
			continue
		}
		for _, s := range services {
			if serviceMap, ok := s.(map[string]interface{}); ok {
				serviceMap["port"] = int64(port)
			}
		}
	}

	return route, nil
}
