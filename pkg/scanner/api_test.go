package scanner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/opscart/k8s-probe-analyzer/pkg/models"
)

func execProbe(timeoutSeconds int32) *corev1.Probe {
	return &corev1.Probe{
		ProbeHandler: corev1.ProbeHandler{
			Exec: &corev1.ExecAction{Command: []string{"cat", "/tmp/healthy"}},
		},
		TimeoutSeconds: timeoutSeconds,
	}
}

func httpProbe() *corev1.Probe {
	return &corev1.Probe{
		ProbeHandler: corev1.ProbeHandler{
			HTTPGet: &corev1.HTTPGetAction{Path: "/healthz", Port: intstr.FromInt32(8080)},
		},
	}
}

func deployment(namespace, name string, containers ...corev1.Container) *appsv1.Deployment {
	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Spec: appsv1.DeploymentSpec{
			Template: corev1.PodTemplateSpec{
				Spec: corev1.PodSpec{Containers: containers},
			},
		},
	}
}

func TestAPIListerMapsProbes(t *testing.T) {
	client := fake.NewSimpleClientset(deployment("prod", "api", corev1.Container{
		Name:           "app",
		LivenessProbe:  execProbe(0),
		ReadinessProbe: execProbe(3),
		StartupProbe:   httpProbe(),
	}))

	lister := NewAPIListerWithClient(client)
	workloads, err := lister.List(context.Background(), models.KindDeployment, "prod")
	assert.NoError(t, err)
	if !assert.Len(t, workloads, 1) {
		return
	}

	workload := workloads[0]
	assert.Equal(t, "Deployment", workload.Kind)
	assert.Equal(t, "prod", workload.Namespace)
	assert.Equal(t, "api", workload.Name)
	if !assert.Len(t, workload.Containers, 1) {
		return
	}

	app := workload.Containers[0]
	if assert.NotNil(t, app.LivenessProbe) {
		assert.True(t, app.LivenessProbe.Exec)
		assert.Nil(t, app.LivenessProbe.TimeoutSeconds, "unset timeout should map to nil")
	}
	if assert.NotNil(t, app.ReadinessProbe) {
		assert.True(t, app.ReadinessProbe.Exec)
		if assert.NotNil(t, app.ReadinessProbe.TimeoutSeconds) {
			assert.Equal(t, int32(3), *app.ReadinessProbe.TimeoutSeconds)
		}
	}
	if assert.NotNil(t, app.StartupProbe) {
		assert.False(t, app.StartupProbe.Exec)
	}
}

func TestAPIListerScopesNamespace(t *testing.T) {
	client := fake.NewSimpleClientset(
		deployment("prod", "api", corev1.Container{Name: "app", LivenessProbe: execProbe(0)}),
		deployment("staging", "api", corev1.Container{Name: "app", LivenessProbe: execProbe(0)}),
	)
	lister := NewAPIListerWithClient(client)

	scoped, err := lister.List(context.Background(), models.KindDeployment, "prod")
	assert.NoError(t, err)
	if assert.Len(t, scoped, 1) {
		assert.Equal(t, "prod", scoped[0].Namespace)
	}

	all, err := lister.List(context.Background(), models.KindDeployment, "")
	assert.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAPIListerWorkloadKinds(t *testing.T) {
	container := corev1.Container{Name: "app", LivenessProbe: execProbe(0)}
	client := fake.NewSimpleClientset(
		deployment("prod", "api", container),
		&appsv1.StatefulSet{
			ObjectMeta: metav1.ObjectMeta{Name: "db", Namespace: "data"},
			Spec: appsv1.StatefulSetSpec{
				Template: corev1.PodTemplateSpec{
					Spec: corev1.PodSpec{Containers: []corev1.Container{container}},
				},
			},
		},
		&appsv1.DaemonSet{
			ObjectMeta: metav1.ObjectMeta{Name: "agent", Namespace: "kube-system"},
			Spec: appsv1.DaemonSetSpec{
				Template: corev1.PodTemplateSpec{
					Spec: corev1.PodSpec{Containers: []corev1.Container{container}},
				},
			},
		},
	)
	lister := NewAPIListerWithClient(client)

	tests := []struct {
		kind     string
		wantKind string
		wantName string
	}{
		{models.KindDeployment, "Deployment", "api"},
		{models.KindStatefulSet, "StatefulSet", "db"},
		{models.KindDaemonSet, "DaemonSet", "agent"},
	}

	for _, tt := range tests {
		workloads, err := lister.List(context.Background(), tt.kind, "")
		assert.NoError(t, err, tt.kind)
		if assert.Len(t, workloads, 1, tt.kind) {
			assert.Equal(t, tt.wantKind, workloads[0].Kind)
			assert.Equal(t, tt.wantName, workloads[0].Name)
		}
	}
}

func TestAPIListerUnsupportedKind(t *testing.T) {
	lister := NewAPIListerWithClient(fake.NewSimpleClientset())

	_, err := lister.List(context.Background(), "cronjob", "")
	assert.Error(t, err)
}
