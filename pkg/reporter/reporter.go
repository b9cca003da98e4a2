package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/opscart/k8s-probe-analyzer/pkg/models"
)

const reportFilePrefix = "prometheus-probe-analysis"

// topWorkloadCount limits the console detail section; the full list
// always goes to the report file
const topWorkloadCount = 10

// Reporter renders the analysis report to the console and to a
// timestamped JSON file
type Reporter struct {
	out io.Writer
	dir string
}

// New creates a reporter writing to stdout and the current directory
func New() *Reporter {
	return NewWithOutput(os.Stdout, ".")
}

// NewWithOutput creates a reporter that writes console output to out
// and report files under dir
func NewWithOutput(out io.Writer, dir string) *Reporter {
	return &Reporter{
		out: out,
		dir: dir,
	}
}

// Summarize counts recommendations by impact tier
func Summarize(recommendations []*models.Recommendation) models.AnalysisSummary {
	summary := models.AnalysisSummary{
		Total: len(recommendations),
	}

	for _, rec := range recommendations {
		switch rec.CurrentImpact {
		case models.ImpactHigh:
			summary.HighImpact++
		case models.ImpactMedium:
			summary.MediumImpact++
		case models.ImpactLow:
			summary.LowImpact++
		}
	}

	return summary
}

// Generate renders the console report and, when recommendations exist,
// writes the JSON report file. It returns the report file path, empty
// when no file was written.
func (r *Reporter) Generate(recommendations []*models.Recommendation) (string, error) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, strings.Repeat("=", 80))
	fmt.Fprintln(r.out, "PROMETHEUS-BASED PROBE ANALYSIS REPORT")
	fmt.Fprintln(r.out, "Exec Probe Timeout Enforcement Preparation")
	fmt.Fprintln(r.out, strings.Repeat("=", 80))
	fmt.Fprintln(r.out)

	if len(recommendations) == 0 {
		fmt.Fprintln(r.out, "✅ No probes exceeding 1s timeout threshold found!")
		fmt.Fprintln(r.out, "Your cluster appears ready for enforced exec probe timeouts")
		return "", nil
	}

	summary := Summarize(recommendations)

	fmt.Fprintln(r.out, "📊 SUMMARY")
	fmt.Fprintf(r.out, "  Total probes needing attention: %d\n", summary.Total)
	fmt.Fprintf(r.out, "  High impact (>50%% violations): %d\n", summary.HighImpact)
	fmt.Fprintf(r.out, "  Medium impact (10-50%% violations): %d\n", summary.MediumImpact)
	fmt.Fprintf(r.out, "  Low impact (<10%% violations): %d\n", summary.LowImpact)
	fmt.Fprintln(r.out)

	fmt.Fprintln(r.out, "🚨 TOP 10 CRITICAL WORKLOADS")
	fmt.Fprintln(r.out, strings.Repeat("-", 80))

	for i, rec := range recommendations {
		if i >= topWorkloadCount {
			break
		}
		fmt.Fprintf(r.out, "\n%d. %s/%s\n", i+1, rec.Namespace, rec.Pod)
		fmt.Fprintf(r.out, "   Container: %s\n", rec.Container)
		fmt.Fprintf(r.out, "   Probe Type: %s\n", rec.ProbeType)
		fmt.Fprintf(r.out, "   P99 Duration: %.2fs\n", rec.P99Duration)
		fmt.Fprintf(r.out, "   Violation Rate: %.1f%%\n", rec.ViolationPercentage)
		fmt.Fprintf(r.out, "   Recommended timeoutSeconds: %d\n", rec.RecommendedTimeout)
	}

	path, err := r.writeFile(recommendations, summary)
	if err != nil {
		return "", err
	}

	fmt.Fprintf(r.out, "\n📁 Detailed report saved to: %s\n", path)
	return path, nil
}

// writeFile persists the full recommendation list. Two runs within
// the same second share a filename and the later one wins; run
// identity for auditing lives in the history storage, not here.
func (r *Reporter) writeFile(recommendations []*models.Recommendation, summary models.AnalysisSummary) (string, error) {
	now := time.Now().UTC()

	report := &models.AnalysisReport{
		Timestamp:       now,
		Summary:         summary,
		Recommendations: recommendations,
	}

	filename := fmt.Sprintf("%s-%s.json", reportFilePrefix, now.Format("20060102-150405"))
	path := filepath.Join(r.dir, filename)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return path, nil
}
