package models

import "time"

// Impact levels based on how often a probe exceeds its timeout
const (
	ImpactHigh   = "HIGH"
	ImpactMedium = "MEDIUM"
	ImpactLow    = "LOW"
)

// Recommendation represents a timeout recommendation for one probe.
// JSON field names match the report format consumed by the upgrade
// planning tooling.
type Recommendation struct {
	Namespace           string  `json:"namespace"`
	Pod                 string  `json:"pod"`
	Container           string  `json:"container"`
	ProbeType           string  `json:"probe_type"`
	P99Duration         float64 `json:"p99_duration"`
	ViolationPercentage float64 `json:"violation_percentage"`
	CurrentImpact       string  `json:"current_impact"`
	RecommendedTimeout  int     `json:"recommended_timeout"`
	PatchRequired       bool    `json:"patch_required"`

	// Storage metadata, not part of the report format
	ID        string    `json:"-"`
	RunID     string    `json:"-"`
	CreatedAt time.Time `json:"-"`
}

// AnalysisSummary counts recommendations by impact tier
type AnalysisSummary struct {
	Total        int `json:"total"`
	HighImpact   int `json:"high_impact"`
	MediumImpact int `json:"medium_impact"`
	LowImpact    int `json:"low_impact"`
}

// AnalysisReport is the JSON document written after each analysis run
type AnalysisReport struct {
	Timestamp       time.Time         `json:"timestamp"`
	Summary         AnalysisSummary   `json:"summary"`
	Recommendations []*Recommendation `json:"recommendations"`
}

// AnalysisRun records one persisted analysis run
type AnalysisRun struct {
	ID            string
	PrometheusURL string
	Summary       AnalysisSummary
	CreatedAt     time.Time
}
