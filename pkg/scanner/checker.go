package scanner

import "github.com/opscart/k8s-probe-analyzer/pkg/models"

// CheckWorkload reports whether a workload has exec probes missing an
// explicit timeoutSeconds, with one finding per such probe. Probe slots
// are checked in manifest order: liveness, readiness, startup.
func CheckWorkload(workload *models.Workload, defaultTimeout int) (bool, []models.ProbeFinding) {
	var findings []models.ProbeFinding

	for _, container := range workload.Containers {
		slots := []struct {
			probeType string
			probe     *models.Probe
		}{
			{models.ProbeTypeLiveness, container.LivenessProbe},
			{models.ProbeTypeReadiness, container.ReadinessProbe},
			{models.ProbeTypeStartup, container.StartupProbe},
		}

		for _, slot := range slots {
			if slot.probe == nil || !slot.probe.Exec {
				continue
			}
			if slot.probe.TimeoutSeconds != nil {
				continue
			}

			findings = append(findings, models.ProbeFinding{
				Container:          container.Name,
				ProbeType:          slot.probeType,
				RecommendedTimeout: defaultTimeout,
			})
		}
	}

	return len(findings) > 0, findings
}
