// Package executor generates kubectl patch commands for probe findings.
// Commands are rendered for operator review, never executed here.
package executor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/opscart/k8s-probe-analyzer/pkg/models"
)

// Patch shapes for the strategic-merge payload. Struct order fixes the
// JSON key order so generated commands are stable.
type workloadPatch struct {
	Spec struct {
		Template struct {
			Spec struct {
				Containers []containerPatch `json:"containers"`
			} `json:"spec"`
		} `json:"template"`
	} `json:"spec"`
}

type containerPatch struct {
	Name           string        `json:"name"`
	LivenessProbe  *probeTimeout `json:"livenessProbe,omitempty"`
	ReadinessProbe *probeTimeout `json:"readinessProbe,omitempty"`
	StartupProbe   *probeTimeout `json:"startupProbe,omitempty"`
}

type probeTimeout struct {
	TimeoutSeconds int `json:"timeoutSeconds"`
}

// GenerateCommand returns the kubectl patch command that sets an
// explicit timeoutSeconds on one probe. Returns "" when no command
// can be generated.
func GenerateCommand(issue *models.WorkloadProbeIssue, finding models.ProbeFinding) string {
	patch, ok := buildPatch(finding)
	if !ok {
		return ""
	}

	payload, err := json.Marshal(patch)
	if err != nil {
		return ""
	}

	return fmt.Sprintf("kubectl patch %s %s -n %s --type=strategic -p '%s'",
		strings.ToLower(issue.Kind), issue.Name, issue.Namespace, payload)
}

// GenerateCommands flattens issues into one patch command per finding,
// in scan order.
func GenerateCommands(issues []*models.WorkloadProbeIssue) []string {
	var commands []string
	for _, issue := range issues {
		for _, finding := range issue.Findings {
			if cmd := GenerateCommand(issue, finding); cmd != "" {
				commands = append(commands, cmd)
			}
		}
	}
	return commands
}

func buildPatch(finding models.ProbeFinding) (workloadPatch, bool) {
	container := containerPatch{Name: finding.Container}
	timeout := &probeTimeout{TimeoutSeconds: finding.RecommendedTimeout}

	switch finding.ProbeType {
	case models.ProbeTypeLiveness:
		container.LivenessProbe = timeout
	case models.ProbeTypeReadiness:
		container.ReadinessProbe = timeout
	case models.ProbeTypeStartup:
		container.StartupProbe = timeout
	default:
		return workloadPatch{}, false
	}

	var patch workloadPatch
	patch.Spec.Template.Spec.Containers = []containerPatch{container}
	return patch, true
}
