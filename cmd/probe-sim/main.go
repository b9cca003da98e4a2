package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/opscart/k8s-probe-analyzer/pkg/logging"
	"github.com/opscart/k8s-probe-analyzer/pkg/probesim"
)

var port int

func main() {
	rootCmd := &cobra.Command{
		Use:   "probe-sim",
		Short: "Fixture service with slow and flaky probe endpoints",
		Long:  `Serve deliberately slow, flaky, and slow-starting endpoints to exercise exec probe timeout behavior in a test cluster.`,
		Run:   runSim,
	}

	rootCmd.Flags().IntVar(&port, "port", 0, "HTTP listen port (overrides PORT)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runSim(cmd *cobra.Command, args []string) {
	cfg, err := probesim.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if cmd.Flags().Changed("port") {
		cfg.Port = port
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	logger := logging.New("probe-sim", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := probesim.New(cfg, logger).Run(ctx); err != nil {
		logger.Error().Err(err).Msg("server failed")
		os.Exit(1)
	}

	logger.Info().Msg("probe simulator stopped")
}
