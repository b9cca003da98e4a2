package main

import (
	"context"
	"fmt"
	"os"

	"github.com/opscart/k8s-probe-analyzer/pkg/models"
	"github.com/opscart/k8s-probe-analyzer/pkg/storage"
)

// Manual smoke test for the Postgres store. Needs a reachable database;
// run via: DATABASE_URL=... go run ./cmd/test-postgres
func main() {
	dsn := "host=localhost port=5432 user=probeuser password=devpassword dbname=probeanalyzer sslmode=disable"
	if envDSN := os.Getenv("DATABASE_URL"); envDSN != "" {
		dsn = envDSN
	}

	fmt.Println("[INFO] Connecting to PostgreSQL...")
	store, err := storage.NewPostgresStore(dsn)
	if err != nil {
		fmt.Printf("[ERROR] Failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Ping(ctx); err != nil {
		fmt.Printf("[ERROR] Ping failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("[SUCCESS] Connected to PostgreSQL")

	// Test 1: Save an analysis run with recommendations
	fmt.Println("\n[TEST 1] Saving analysis run...")
	run := &models.AnalysisRun{
		PrometheusURL: "http://localhost:9090",
		Summary: models.AnalysisSummary{
			Total:        2,
			HighImpact:   1,
			MediumImpact: 1,
		},
	}
	recommendations := []*models.Recommendation{
		{
			Namespace:           "probe-test",
			Pod:                 "slow-app-666df6866b-k8zlr",
			Container:           "app",
			ProbeType:           models.ProbeTypeLiveness,
			P99Duration:         2.41,
			ViolationPercentage: 75.0,
			CurrentImpact:       models.ImpactHigh,
			RecommendedTimeout:  3,
			PatchRequired:       true,
		},
		{
			Namespace:           "probe-test",
			Pod:                 "flaky-app-594df877fc-b86vj",
			Container:           "app",
			ProbeType:           models.ProbeTypeReadiness,
			P99Duration:         0.83,
			ViolationPercentage: 12.5,
			CurrentImpact:       models.ImpactMedium,
			RecommendedTimeout:  1,
			PatchRequired:       false,
		},
	}

	if err := store.SaveRun(ctx, run, recommendations); err != nil {
		fmt.Printf("[ERROR] Save failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("[SUCCESS] Saved run %s with %d recommendation(s)\n", run.ID, len(recommendations))

	// Test 2: List recommendations by namespace
	fmt.Println("\n[TEST 2] Listing recommendations...")
	stored, err := store.ListRecommendations(ctx, "probe-test", 10)
	if err != nil {
		fmt.Printf("[ERROR] List failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("[SUCCESS] Found %d recommendation(s) in probe-test namespace\n", len(stored))
	for i, r := range stored {
		fmt.Printf("  %d. %s/%s %s - %.1f%% violations, timeoutSeconds: %d\n",
			i+1, r.Pod, r.Container, r.ProbeType, r.ViolationPercentage, r.RecommendedTimeout)
	}

	// Summary
	fmt.Println("\n" + "============================================================")
	fmt.Println("All tests passed!")
	fmt.Println("============================================================")
	fmt.Println("\nPostgreSQL Store is working correctly!")
	fmt.Println("  - Analysis runs: Save [OK]")
	fmt.Println("  - Recommendations: Save, List [OK]")
}
