package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/opscart/k8s-probe-analyzer/pkg/datasource"
	"github.com/opscart/k8s-probe-analyzer/pkg/logging"
)

// Manual smoke test for the Prometheus source. Needs a reachable
// Prometheus with probe metrics; run via: PROMETHEUS_URL=... go run ./cmd/test-prometheus
func main() {
	prometheusURL := "http://localhost:9090"
	if url := os.Getenv("PROMETHEUS_URL"); url != "" {
		prometheusURL = url
	}

	fmt.Println("[INFO] Connecting to Prometheus:", prometheusURL)

	logger := logging.NewConsole("test-prometheus", "info")
	source, err := datasource.NewPrometheusSource(prometheusURL, logger)
	if err != nil {
		fmt.Printf("[ERROR] Failed to create Prometheus source: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if !source.IsAvailable(ctx) {
		fmt.Println("[ERROR] Prometheus is not available")
		os.Exit(1)
	}
	fmt.Println("[INFO] Prometheus is available")

	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("Testing PrometheusSource probe metric queries")
	fmt.Println(strings.Repeat("=", 80) + "\n")

	fmt.Println("P99 probe durations (24h window):")
	fmt.Println(strings.Repeat("-", 40))
	durations, err := source.ProbeDurationsP99(ctx)
	if err != nil {
		fmt.Printf("  ERROR: %v\n", err)
	} else if durations.Len() == 0 {
		fmt.Println("  (no series returned)")
	} else {
		for _, key := range durations.Keys() {
			value, _ := durations.Get(key)
			fmt.Printf("  %s: %.2fs\n", key, value)
		}
	}

	fmt.Println("\nTimeout violation percentages (24h window):")
	fmt.Println(strings.Repeat("-", 40))
	violations, err := source.TimeoutViolations(ctx)
	if err != nil {
		fmt.Printf("  ERROR: %v\n", err)
	} else if violations.Len() == 0 {
		fmt.Println("  (no series returned)")
	} else {
		for _, key := range violations.Keys() {
			value, _ := violations.Get(key)
			fmt.Printf("  %s: %.1f%%\n", key, value)
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("[INFO] Test complete!")
}
