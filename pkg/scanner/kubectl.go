package scanner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/opscart/k8s-probe-analyzer/pkg/models"
)

// Runner executes a command and returns its stdout
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands on the host
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return nil, err
	}

	return stdout.Bytes(), nil
}

// KubectlLister lists workloads through kubectl, matching what an
// operator sees from their own kubeconfig context
type KubectlLister struct {
	runner Runner
	logger zerolog.Logger
}

func NewKubectlLister(logger zerolog.Logger) *KubectlLister {
	return &KubectlLister{
		runner: ExecRunner{},
		logger: logger,
	}
}

// NewKubectlListerWithRunner creates a lister with an injected command
// runner
func NewKubectlListerWithRunner(runner Runner, logger zerolog.Logger) *KubectlLister {
	return &KubectlLister{
		runner: runner,
		logger: logger,
	}
}

func (l *KubectlLister) List(ctx context.Context, kind, namespace string) ([]*models.Workload, error) {
	args := []string{"get", kind}
	if namespace != "" {
		args = append(args, "-n", namespace)
	} else {
		args = append(args, "--all-namespaces")
	}
	args = append(args, "-o", "json")

	l.logger.Debug().Str("command", "kubectl "+strings.Join(args, " ")).Msg("listing workloads")

	output, err := l.runner.Run(ctx, "kubectl", args...)
	if err != nil {
		return nil, fmt.Errorf("kubectl get %s failed: %w", kind, err)
	}

	workloads, err := parseWorkloadList(output)
	if err != nil {
		return nil, &ParseError{Kind: kind, Err: err}
	}

	return workloads, nil
}

// Wire shapes for kubectl get -o json output, reduced to the fields
// the probe checker reads. Pointer fields distinguish absent probe
// fields from zero values.
type workloadList struct {
	Items []workloadItem `json:"items"`
}

type workloadItem struct {
	Kind     string `json:"kind"`
	Metadata struct {
		Namespace string `json:"namespace"`
		Name      string `json:"name"`
	} `json:"metadata"`
	Spec struct {
		Template struct {
			Spec struct {
				Containers []containerItem `json:"containers"`
			} `json:"spec"`
		} `json:"template"`
	} `json:"spec"`
}

type containerItem struct {
	Name           string     `json:"name"`
	LivenessProbe  *probeItem `json:"livenessProbe"`
	ReadinessProbe *probeItem `json:"readinessProbe"`
	StartupProbe   *probeItem `json:"startupProbe"`
}

type probeItem struct {
	Exec           *execAction `json:"exec"`
	TimeoutSeconds *int32      `json:"timeoutSeconds"`
}

type execAction struct {
	Command []string `json:"command"`
}

func parseWorkloadList(data []byte) ([]*models.Workload, error) {
	var list workloadList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}

	workloads := make([]*models.Workload, 0, len(list.Items))
	for _, item := range list.Items {
		workloads = append(workloads, item.toWorkload())
	}

	return workloads, nil
}

func (item workloadItem) toWorkload() *models.Workload {
	workload := &models.Workload{
		Kind:      item.Kind,
		Namespace: item.Metadata.Namespace,
		Name:      item.Metadata.Name,
	}

	for _, c := range item.Spec.Template.Spec.Containers {
		workload.Containers = append(workload.Containers, models.Container{
			Name:           c.Name,
			LivenessProbe:  c.LivenessProbe.toProbe(),
			ReadinessProbe: c.ReadinessProbe.toProbe(),
			StartupProbe:   c.StartupProbe.toProbe(),
		})
	}

	return workload
}

func (p *probeItem) toProbe() *models.Probe {
	if p == nil {
		return nil
	}
	return &models.Probe{
		Exec:           p.Exec != nil,
		TimeoutSeconds: p.TimeoutSeconds,
	}
}
