package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"

	"github.com/opscart/k8s-probe-analyzer/pkg/models"
)

// APILister lists workloads through the Kubernetes API directly,
// for environments where shelling out to kubectl is not an option
type APILister struct {
	client kubernetes.Interface
}

func NewAPILister() (*APILister, error) {
	var kubeconfig string
	if home := homedir.HomeDir(); home != "" {
		kubeconfig = filepath.Join(home, ".kube", "config")
	}
	if env := os.Getenv("KUBECONFIG"); env != "" {
		kubeconfig = env
	}

	config, err := clientcmd.BuildConfigFromFlags("", kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to build config: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}

	return &APILister{client: clientset}, nil
}

// NewAPIListerWithClient creates a lister on an existing clientset
func NewAPIListerWithClient(client kubernetes.Interface) *APILister {
	return &APILister{client: client}
}

func (l *APILister) List(ctx context.Context, kind, namespace string) ([]*models.Workload, error) {
	switch kind {
	case models.KindDeployment:
		list, err := l.client.AppsV1().Deployments(namespace).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to list deployments: %w", err)
		}
		workloads := make([]*models.Workload, 0, len(list.Items))
		for i := range list.Items {
			item := &list.Items[i]
			workloads = append(workloads, fromPodSpec("Deployment", item.Namespace, item.Name, item.Spec.Template.Spec))
		}
		return workloads, nil

	case models.KindStatefulSet:
		list, err := l.client.AppsV1().StatefulSets(namespace).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to list statefulsets: %w", err)
		}
		workloads := make([]*models.Workload, 0, len(list.Items))
		for i := range list.Items {
			item := &list.Items[i]
			workloads = append(workloads, fromPodSpec("StatefulSet", item.Namespace, item.Name, item.Spec.Template.Spec))
		}
		return workloads, nil

	case models.KindDaemonSet:
		list, err := l.client.AppsV1().DaemonSets(namespace).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to list daemonsets: %w", err)
		}
		workloads := make([]*models.Workload, 0, len(list.Items))
		for i := range list.Items {
			item := &list.Items[i]
			workloads = append(workloads, fromPodSpec("DaemonSet", item.Namespace, item.Name, item.Spec.Template.Spec))
		}
		return workloads, nil

	default:
		return nil, fmt.Errorf("unsupported workload kind: %s", kind)
	}
}

func fromPodSpec(kind, namespace, name string, spec corev1.PodSpec) *models.Workload {
	workload := &models.Workload{
		Kind:      kind,
		Namespace: namespace,
		Name:      name,
	}

	for _, c := range spec.Containers {
		workload.Containers = append(workload.Containers, models.Container{
			Name:           c.Name,
			LivenessProbe:  fromCoreProbe(c.LivenessProbe),
			ReadinessProbe: fromCoreProbe(c.ReadinessProbe),
			StartupProbe:   fromCoreProbe(c.StartupProbe),
		})
	}

	return workload
}

// fromCoreProbe maps a typed probe. The typed API cannot distinguish
// an absent timeoutSeconds from zero, and zero is not a legal manifest
// value, so zero maps to missing.
func fromCoreProbe(p *corev1.Probe) *models.Probe {
	if p == nil {
		return nil
	}

	probe := &models.Probe{
		Exec: p.Exec != nil,
	}
	if p.TimeoutSeconds != 0 {
		timeout := p.TimeoutSeconds
		probe.TimeoutSeconds = &timeout
	}

	return probe
}
