package recommender

import (
	"math"
	"sort"

	"github.com/opscart/k8s-probe-analyzer/pkg/models"
)

const (
	highImpactThreshold   = 50.0
	mediumImpactThreshold = 10.0

	// Probes slower than this cannot fit the 1s default timeout the
	// platform starts enforcing after the upgrade
	patchThresholdSeconds = 1.0

	timeoutHeadroomFactor = 1.2
)

// Calculate joins P99 durations with timeout violation percentages and
// produces prioritized timeout recommendations. Probes that never
// violated their timeout are dropped. The result is sorted by violation
// percentage descending; equal percentages keep the duration result
// order.
func Calculate(durations, violations *models.ProbeMetrics) []*models.Recommendation {
	var recommendations []*models.Recommendation

	for _, key := range durations.Keys() {
		p99, _ := durations.Get(key)

		violationPct, ok := violations.Get(key)
		if !ok {
			violationPct = 0
		}
		if violationPct == 0 {
			continue
		}

		recommendations = append(recommendations, &models.Recommendation{
			Namespace:           key.Namespace,
			Pod:                 key.Pod,
			Container:           key.Container,
			ProbeType:           key.ProbeType,
			P99Duration:         round2(p99),
			ViolationPercentage: round1(violationPct),
			CurrentImpact:       classifyImpact(violationPct),
			RecommendedTimeout:  RecommendedTimeout(p99),
			PatchRequired:       p99 > patchThresholdSeconds,
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].ViolationPercentage > recommendations[j].ViolationPercentage
	})

	return recommendations
}

// RecommendedTimeout derives a timeoutSeconds value from an observed
// P99 duration: 20% headroom, rounded down, plus one second, floored
// at one second.
func RecommendedTimeout(p99Seconds float64) int {
	timeout := int(math.Floor(p99Seconds*timeoutHeadroomFactor)) + 1
	if timeout < 1 {
		timeout = 1
	}
	return timeout
}

// classifyImpact tiers a probe by how often it exceeds its timeout.
// The raw percentage is used so values just over a boundary are not
// pushed onto it by display rounding.
func classifyImpact(violationPct float64) string {
	switch {
	case violationPct > highImpactThreshold:
		return models.ImpactHigh
	case violationPct > mediumImpactThreshold:
		return models.ImpactMedium
	default:
		return models.ImpactLow
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
