package executor

import (
	"strings"
	"testing"

	"github.com/opscart/k8s-probe-analyzer/pkg/models"
)

func TestGenerateCommand(t *testing.T) {
	issue := &models.WorkloadProbeIssue{
		Kind:      "Deployment",
		Namespace: "prod",
		Name:      "api",
	}
	finding := models.ProbeFinding{
		Container:          "app",
		ProbeType:          models.ProbeTypeLiveness,
		RecommendedTimeout: 5,
	}

	got := GenerateCommand(issue, finding)
	want := `kubectl patch deployment api -n prod --type=strategic ` +
		`-p '{"spec":{"template":{"spec":{"containers":[{"name":"app","livenessProbe":{"timeoutSeconds":5}}]}}}}'`
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestGenerateCommandLowercasesKind(t *testing.T) {
	issue := &models.WorkloadProbeIssue{
		Kind:      "StatefulSet",
		Namespace: "data",
		Name:      "db",
	}
	finding := models.ProbeFinding{
		Container:          "db",
		ProbeType:          models.ProbeTypeReadiness,
		RecommendedTimeout: 5,
	}

	got := GenerateCommand(issue, finding)
	if !strings.HasPrefix(got, "kubectl patch statefulset db -n data ") {
		t.Errorf("Expected lowercase resource type, got %s", got)
	}
}

func TestGenerateCommandProbeTypes(t *testing.T) {
	issue := &models.WorkloadProbeIssue{
		Kind:      "Deployment",
		Namespace: "prod",
		Name:      "api",
	}

	tests := []struct {
		probeType string
		wantKey   string
	}{
		{models.ProbeTypeLiveness, `"livenessProbe":{"timeoutSeconds":3}`},
		{models.ProbeTypeReadiness, `"readinessProbe":{"timeoutSeconds":3}`},
		{models.ProbeTypeStartup, `"startupProbe":{"timeoutSeconds":3}`},
	}

	for _, tt := range tests {
		finding := models.ProbeFinding{
			Container:          "app",
			ProbeType:          tt.probeType,
			RecommendedTimeout: 3,
		}
		got := GenerateCommand(issue, finding)
		if !strings.Contains(got, tt.wantKey) {
			t.Errorf("Expected %s patch to contain %s, got %s", tt.probeType, tt.wantKey, got)
		}
	}
}

func TestGenerateCommandUnknownProbeType(t *testing.T) {
	issue := &models.WorkloadProbeIssue{
		Kind:      "Deployment",
		Namespace: "prod",
		Name:      "api",
	}
	finding := models.ProbeFinding{
		Container:          "app",
		ProbeType:          "execProbe",
		RecommendedTimeout: 5,
	}

	if got := GenerateCommand(issue, finding); got != "" {
		t.Errorf("Expected empty command for unknown probe type, got %s", got)
	}
}

func TestGenerateCommandsFlattensFindings(t *testing.T) {
	issues := []*models.WorkloadProbeIssue{
		{
			Kind:      "Deployment",
			Namespace: "prod",
			Name:      "api",
			Findings: []models.ProbeFinding{
				{Container: "app", ProbeType: models.ProbeTypeLiveness, RecommendedTimeout: 5},
				{Container: "app", ProbeType: models.ProbeTypeStartup, RecommendedTimeout: 5},
			},
		},
		{
			Kind:      "DaemonSet",
			Namespace: "kube-system",
			Name:      "agent",
			Findings: []models.ProbeFinding{
				{Container: "agent", ProbeType: models.ProbeTypeReadiness, RecommendedTimeout: 10},
			},
		},
	}

	commands := GenerateCommands(issues)
	if len(commands) != 3 {
		t.Fatalf("Expected 3 commands, got %d", len(commands))
	}
	if !strings.Contains(commands[0], "livenessProbe") {
		t.Errorf("Expected first command for liveness probe, got %s", commands[0])
	}
	if !strings.Contains(commands[1], "startupProbe") {
		t.Errorf("Expected second command for startup probe, got %s", commands[1])
	}
	if !strings.HasPrefix(commands[2], "kubectl patch daemonset agent -n kube-system ") {
		t.Errorf("Expected third command for daemonset, got %s", commands[2])
	}
	if !strings.Contains(commands[2], `"timeoutSeconds":10`) {
		t.Errorf("Expected configured timeout in command, got %s", commands[2])
	}
}
