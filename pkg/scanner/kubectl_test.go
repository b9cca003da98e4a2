package scanner

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/opscart/k8s-probe-analyzer/pkg/models"
)

type fakeRunner struct {
	output []byte
	err    error

	gotName string
	gotArgs []string
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	r.gotName = name
	r.gotArgs = args
	if r.err != nil {
		return nil, r.err
	}
	return r.output, nil
}

const deploymentListJSON = `{
  "items": [
    {
      "kind": "Deployment",
      "metadata": {"namespace": "prod", "name": "api"},
      "spec": {"template": {"spec": {"containers": [
        {
          "name": "app",
          "livenessProbe": {"exec": {"command": ["cat", "/tmp/healthy"]}},
          "readinessProbe": {"httpGet": {"path": "/ready", "port": 8080}, "timeoutSeconds": 2}
        }
      ]}}}
    },
    {
      "kind": "Deployment",
      "metadata": {"namespace": "prod", "name": "worker"},
      "spec": {"template": {"spec": {"containers": [
        {
          "name": "worker",
          "livenessProbe": {"exec": {"command": ["pgrep", "worker"]}, "timeoutSeconds": 5}
        }
      ]}}}
    }
  ]
}`

func TestKubectlListerNamespacedArgs(t *testing.T) {
	runner := &fakeRunner{output: []byte(`{"items": []}`)}
	lister := NewKubectlListerWithRunner(runner, zerolog.Nop())

	if _, err := lister.List(context.Background(), models.KindDeployment, "prod"); err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if runner.gotName != "kubectl" {
		t.Errorf("Expected kubectl, got %s", runner.gotName)
	}
	want := []string{"get", "deployment", "-n", "prod", "-o", "json"}
	if !reflect.DeepEqual(runner.gotArgs, want) {
		t.Errorf("Expected args %v, got %v", want, runner.gotArgs)
	}
}

func TestKubectlListerAllNamespacesArgs(t *testing.T) {
	runner := &fakeRunner{output: []byte(`{"items": []}`)}
	lister := NewKubectlListerWithRunner(runner, zerolog.Nop())

	if _, err := lister.List(context.Background(), models.KindStatefulSet, ""); err != nil {
		t.Fatalf("List failed: %v", err)
	}

	want := []string{"get", "statefulset", "--all-namespaces", "-o", "json"}
	if !reflect.DeepEqual(runner.gotArgs, want) {
		t.Errorf("Expected args %v, got %v", want, runner.gotArgs)
	}
}

func TestKubectlListerParsesWorkloads(t *testing.T) {
	runner := &fakeRunner{output: []byte(deploymentListJSON)}
	lister := NewKubectlListerWithRunner(runner, zerolog.Nop())

	workloads, err := lister.List(context.Background(), models.KindDeployment, "prod")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(workloads) != 2 {
		t.Fatalf("Expected 2 workloads, got %d", len(workloads))
	}

	api := workloads[0]
	if api.Kind != "Deployment" {
		t.Errorf("Expected kind Deployment, got %s", api.Kind)
	}
	if api.Namespace != "prod" || api.Name != "api" {
		t.Errorf("Expected prod/api, got %s/%s", api.Namespace, api.Name)
	}
	if len(api.Containers) != 1 {
		t.Fatalf("Expected 1 container, got %d", len(api.Containers))
	}

	app := api.Containers[0]
	if app.LivenessProbe == nil || !app.LivenessProbe.Exec {
		t.Fatal("Expected exec liveness probe")
	}
	if app.LivenessProbe.TimeoutSeconds != nil {
		t.Error("Expected liveness probe without timeoutSeconds")
	}
	if app.ReadinessProbe == nil || app.ReadinessProbe.Exec {
		t.Fatal("Expected non-exec readiness probe")
	}
	if app.ReadinessProbe.TimeoutSeconds == nil || *app.ReadinessProbe.TimeoutSeconds != 2 {
		t.Error("Expected readiness probe timeoutSeconds 2")
	}
	if app.StartupProbe != nil {
		t.Error("Expected no startup probe")
	}

	worker := workloads[1].Containers[0]
	if worker.LivenessProbe.TimeoutSeconds == nil || *worker.LivenessProbe.TimeoutSeconds != 5 {
		t.Error("Expected worker liveness timeoutSeconds 5")
	}
}

func TestKubectlListerEmptyList(t *testing.T) {
	runner := &fakeRunner{output: []byte(`{"items": []}`)}
	lister := NewKubectlListerWithRunner(runner, zerolog.Nop())

	workloads, err := lister.List(context.Background(), models.KindDaemonSet, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(workloads) != 0 {
		t.Errorf("Expected 0 workloads, got %d", len(workloads))
	}
}

func TestKubectlListerCommandFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("connection refused")}
	lister := NewKubectlListerWithRunner(runner, zerolog.Nop())

	_, err := lister.List(context.Background(), models.KindDeployment, "")
	if err == nil {
		t.Fatal("Expected error from failed command")
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		t.Error("Command failure should not classify as parse error")
	}
}

func TestKubectlListerMalformedOutput(t *testing.T) {
	runner := &fakeRunner{output: []byte("error: the server doesn't have a resource type")}
	lister := NewKubectlListerWithRunner(runner, zerolog.Nop())

	_, err := lister.List(context.Background(), models.KindDaemonSet, "")
	if err == nil {
		t.Fatal("Expected error from malformed output")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Expected parse error, got %v", err)
	}
	if parseErr.Kind != models.KindDaemonSet {
		t.Errorf("Expected kind %s, got %s", models.KindDaemonSet, parseErr.Kind)
	}
}
