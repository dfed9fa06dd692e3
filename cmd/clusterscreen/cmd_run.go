package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/screenlab/clusterscreen/internal/config"
	"github.com/screenlab/clusterscreen/internal/orchestration"
)

var (
	outputPath      string
	verbose         bool
	detectorFilters []string
	parallel        bool
	workers         int
	seed            int64
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <suite.yaml>",
		Short: "Run an evaluation suite",
		Long: `Run an evaluation suite from a YAML file.

The suite file names the dataset, its preparation, and the detectors to
sweep with their parameter grids. Relative dataset paths are resolved
against the suite file's directory.`,
		Args: cobra.ExactArgs(1),
		RunE: runCommandE,
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output JSON file for results")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output with per-detector progress")
	cmd.Flags().StringArrayVar(&detectorFilters, "detector", nil, "Filter detectors by name/type glob pattern (can be repeated)")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "Evaluate grid points concurrently")
	cmd.Flags().IntVar(&workers, "workers", 0, "Number of concurrent workers (default: 4, requires --parallel)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Bootstrap seed (overrides suite, negative for non-deterministic)")

	return cmd
}

func runCommandE(cmd *cobra.Command, args []string) error {
	suitePath := args[0]

	suite, err := config.Load(suitePath)
	if err != nil {
		return err
	}

	// CLI flags override the suite
	if parallel {
		suite.Parallel = true
	}
	if workers > 0 {
		suite.Workers = workers
	}
	if cmd.Flags().Changed("seed") {
		suite.Seed = seed
	}

	var opts []orchestration.RunnerOption
	if len(detectorFilters) > 0 {
		opts = append(opts, orchestration.WithDetectorFilters(detectorFilters...))
	}

	runner := orchestration.NewRunner(suite, opts...)
	if verbose {
		runner.OnProgress(progressReporter(cmd.OutOrStdout()))
	}

	outcome, err := runner.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to run suite: %w", err)
	}

	PrintSuiteOutcome(cmd.OutOrStdout(), outcome)

	if outputPath != "" {
		if err := writeOutcomeJSON(outputPath, outcome); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nResults written to %s\n", outputPath)
	}

	if n := outcome.Failures(); n > 0 {
		return &DetectorFailureError{
			Message: fmt.Sprintf("%d of %d detector(s) produced no valid configuration", n, len(outcome.Detectors)),
		}
	}
	return nil
}

func writeOutcomeJSON(path string, outcome *orchestration.SuiteOutcome) error {
	data, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}
