package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/opscart/k8s-probe-analyzer/pkg/config"
	"github.com/opscart/k8s-probe-analyzer/pkg/executor"
	"github.com/opscart/k8s-probe-analyzer/pkg/logging"
	"github.com/opscart/k8s-probe-analyzer/pkg/models"
	"github.com/opscart/k8s-probe-analyzer/pkg/scanner"
)

var (
	applyChanges   bool
	namespace      string
	defaultTimeout int
	useKubectl     bool
	outputFormat   string
	verbose        bool

	cfg *config.Config
)

func main() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:   "probe-remediate",
		Short: "Find exec probes missing an explicit timeout",
		Long:  `Scan deployments, statefulsets, and daemonsets for exec probes without timeoutSeconds and report the workloads needing patches before exec probe timeouts are enforced.`,
		Run:   runRemediate,
	}

	rootCmd.Flags().BoolVar(&applyChanges, "apply", false, "Apply changes (default is dry-run)")
	rootCmd.Flags().StringVarP(&namespace, "namespace", "n", "", "Limit to specific namespace")
	rootCmd.Flags().IntVarP(&defaultTimeout, "timeout", "t", cfg.DefaultProbeTimeout, "Default timeout in seconds")
	rootCmd.Flags().BoolVar(&useKubectl, "use-kubectl", true, "List workloads via kubectl (false uses the Kubernetes API directly)")
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json, yaml, commands")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runRemediate(cmd *cobra.Command, args []string) {
	switch outputFormat {
	case "text", "json", "yaml", "commands":
	default:
		fmt.Fprintln(os.Stderr, "Error: output must be text, json, yaml, or commands")
		os.Exit(1)
	}

	if defaultTimeout < 1 {
		fmt.Fprintln(os.Stderr, "Error: timeout must be at least 1 second")
		os.Exit(1)
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger := logging.NewConsole("probe-remediate", level)

	lister, err := newLister(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Banner and progress lines only in text mode so the structured
	// outputs stay machine-readable.
	if outputFormat == "text" {
		printBanner()
	}

	ctx := context.Background()
	issues, err := scanner.New(lister, defaultTimeout, logger).Scan(ctx, namespace)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch outputFormat {
	case "json":
		outputJSON(issues)
	case "yaml":
		outputYAML(issues)
	case "commands":
		outputCommands(issues)
	default:
		scanner.PrintSummary(os.Stdout, issues)
	}
}

func newLister(logger zerolog.Logger) (scanner.WorkloadLister, error) {
	if useKubectl {
		return scanner.NewKubectlLister(logger), nil
	}
	return scanner.NewAPILister()
}

func printBanner() {
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Exec Probe Timeout Auto-Remediation")
	fmt.Println(strings.Repeat("=", 60))

	if applyChanges {
		fmt.Println("\n⚠️  Running in APPLY mode - changes will be made")
	} else {
		fmt.Println("\n🔍 Running in DRY RUN mode - no changes will be made")
	}

	fmt.Println("\nScanning for workloads needing updates...")
}

func outputJSON(issues []*models.WorkloadProbeIssue) {
	output := map[string]interface{}{
		"workloads": issues,
		"count":     len(issues),
		"timestamp": time.Now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(output); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}

func outputYAML(issues []*models.WorkloadProbeIssue) {
	output := map[string]interface{}{
		"workloads": issues,
		"count":     len(issues),
	}

	data, err := yaml.Marshal(output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding YAML: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(string(data))
}

func outputCommands(issues []*models.WorkloadProbeIssue) {
	for _, patchCmd := range executor.GenerateCommands(issues) {
		fmt.Println(patchCmd)
	}
}
