package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/opscart/k8s-probe-analyzer/pkg/config"
	"github.com/opscart/k8s-probe-analyzer/pkg/datasource"
	"github.com/opscart/k8s-probe-analyzer/pkg/logging"
	"github.com/opscart/k8s-probe-analyzer/pkg/models"
	"github.com/opscart/k8s-probe-analyzer/pkg/recommender"
	"github.com/opscart/k8s-probe-analyzer/pkg/reporter"
	"github.com/opscart/k8s-probe-analyzer/pkg/storage"
)

var (
	// Analyze flags
	prometheusURL   string
	cloudMonitoring bool
	saveResults     bool
	verbose         bool

	// Global config
	cfg   *config.Config
	store storage.Store

	// History command vars
	historyLimit int
)

func main() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:   "probe-analyze",
		Short: "Analyze exec probe timings from Prometheus",
		Long:  `Query Prometheus for probe durations and timeout violations, and recommend timeoutSeconds values ahead of exec probe timeout enforcement.`,
		Run:   runAnalyze,
	}

	rootCmd.Flags().StringVar(&prometheusURL, "prometheus-url", cfg.PrometheusURL, "Prometheus server URL")
	rootCmd.Flags().BoolVar(&cloudMonitoring, "cloud-monitoring", false, "Use the managed cloud monitoring backend instead of Prometheus")
	rootCmd.Flags().BoolVar(&saveResults, "save", false, "Save the run to the analysis history database")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	// History command
	historyCmd := &cobra.Command{
		Use:   "history <namespace>",
		Short: "View past recommendations",
		Args:  cobra.ExactArgs(1),
		Run:   runHistory,
	}
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of recommendations to show")

	rootCmd.AddCommand(historyCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initStorage() error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must be set to use analysis history")
	}

	var err error
	store, err = storage.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	return nil
}

func newLogger() zerolog.Logger {
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	return logging.NewConsole("probe-analyze", level)
}

func runAnalyze(cmd *cobra.Command, args []string) {
	if cloudMonitoring {
		fmt.Fprintln(os.Stderr, "Error: cloud monitoring backend is not supported, use --prometheus-url")
		os.Exit(1)
	}

	logger := newLogger()

	if saveResults {
		if err := initStorage(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	source, err := datasource.NewPrometheusSource(prometheusURL, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("🔍 Querying Prometheus for probe metrics...")

	durations, durationsOK := queryProbeMetrics(logger, source.ProbeDurationsP99)
	violations, violationsOK := queryProbeMetrics(logger, source.TimeoutViolations)

	// One failed query still yields a (possibly incomplete) report;
	// losing both means there is nothing to analyze.
	if !durationsOK && !violationsOK {
		fmt.Fprintln(os.Stderr, "Error: no probe metrics available from Prometheus")
		os.Exit(1)
	}

	recommendations := recommender.Calculate(durations, violations)

	rep := reporter.New()
	if _, err := rep.Generate(recommendations); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if saveResults {
		saveRun(logger, recommendations)
	}
}

// queryProbeMetrics runs one bounded query. Transport failures degrade
// to an empty result so the run can continue; malformed responses
// abort instead of silently shrinking the report.
func queryProbeMetrics(logger zerolog.Logger, query func(context.Context) (*models.ProbeMetrics, error)) (*models.ProbeMetrics, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.QueryTimeout)
	defer cancel()

	metrics, err := query(ctx)
	if err != nil {
		if datasource.IsParseError(err) {
			fmt.Fprintf(os.Stderr, "Error: malformed response from Prometheus: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Error querying Prometheus: %v\n", err)
		logger.Warn().Err(err).Msg("query failed, continuing with empty result")
		return models.NewProbeMetrics(), false
	}

	return metrics, true
}

func saveRun(logger zerolog.Logger, recommendations []*models.Recommendation) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.QueryTimeout)
	defer cancel()

	run := &models.AnalysisRun{
		PrometheusURL: prometheusURL,
		Summary:       reporter.Summarize(recommendations),
	}

	if err := store.SaveRun(ctx, run, recommendations); err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] Failed to save analysis run: %v\n", err)
		return
	}

	logger.Debug().Str("run_id", run.ID).Msg("analysis run persisted")
	fmt.Printf("[INFO] Saved analysis run (ID: %s)\n", run.ID)
}

func runHistory(cmd *cobra.Command, args []string) {
	namespace := args[0]

	if err := initStorage(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	recommendations, err := store.ListRecommendations(ctx, namespace, historyLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(recommendations) == 0 {
		fmt.Printf("No recommendations found for namespace: %s\n", namespace)
		return
	}

	fmt.Printf("Recent recommendations for namespace '%s':\n\n", namespace)
	for i, rec := range recommendations {
		fmt.Printf("%d. %s/%s (ID: %s)\n", i+1, rec.Pod, rec.Container, rec.ID)
		fmt.Printf("   Probe Type: %s\n", rec.ProbeType)
		fmt.Printf("   P99 Duration: %.2fs\n", rec.P99Duration)
		fmt.Printf("   Violation Rate: %.1f%%\n", rec.ViolationPercentage)
		fmt.Printf("   Impact: %s\n", rec.CurrentImpact)
		fmt.Printf("   Recommended timeoutSeconds: %d\n", rec.RecommendedTimeout)
		fmt.Printf("   Created: %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Println()
	}
}
