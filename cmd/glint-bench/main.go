// glint-bench runs the glint API microbenchmark suite.
package main

import (
	"fmt"
	"os"
	"regexp"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/glint-ml/glint"
	"github.com/glint-ml/glint/bench"
	"github.com/glint-ml/glint/benchmarks"
)

var titleStyle = lipgloss.NewStyle().Bold(true)

var (
	filterPattern string
	iterations    int
	deviceCount   int
	jsonOutput    bool
	listOnly      bool
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "glint-bench",
	Short: "Microbenchmarks for the glint array runtime API",
	Long: titleStyle.Render("glint-bench") + ` times dispatch and execution of glint API calls:
eager operations, compiled calls, multi-device maps, sparse conversions,
and partitioned execution. Each case reports pass, skip (hardware
precondition unmet), or error.

Examples:
  glint-bench                         Run the full suite
  glint-bench --filter 'pmap_.*'      Run only the pmap cases
  glint-bench --devices 8             Run with 8 logical devices
  glint-bench --list                  List reportable rows without running
  glint-bench --json > results.jsonl  Machine-readable output`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVarP(&filterPattern, "filter", "f", "", "regexp over row names")
	rootCmd.Flags().IntVarP(&iterations, "iterations", "n", bench.DefaultIterations, "measured iterations per row")
	rootCmd.Flags().IntVarP(&deviceCount, "devices", "d", 0, "logical device count (default from GLINT_DEVICE_COUNT or 1)")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "emit one JSON object per row")
	rootCmd.Flags().BoolVar(&listOnly, "list", false, "list matching rows without running")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log per-row measurements")
}

func run(cmd *cobra.Command, args []string) error {
	logger := log.New(os.Stderr)
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	var opts []glint.Option
	if deviceCount > 0 {
		opts = append(opts, glint.WithDeviceCount(deviceCount))
	}
	client := glint.New(opts...)
	defer client.Close()

	reg := bench.NewRegistry()
	benchmarks.RegisterAll(reg, client)

	if listOnly {
		return listRows(reg)
	}

	logger.Info("running suite", "devices", client.DeviceCount(), "iterations", iterations)

	runner := bench.NewRunner(bench.RunConfig{
		Iterations:       iterations,
		AvailableDevices: client.DeviceCount(),
		NamePattern:      filterPattern,
		Logger:           logger,
		// Drain every device between cases so unresolved dispatches from
		// one case cannot distort the next.
		AfterCase: func() {
			if err := client.Barrier(); err != nil {
				logger.Error("barrier failed", "err", err)
			}
		},
	})
	results, err := runner.Run(reg)
	if err != nil {
		return err
	}

	if jsonOutput {
		reporter := bench.NewJSONReporter(os.Stdout)
		for _, res := range results {
			reporter.ReportResult(res)
		}
	} else {
		reporter := bench.NewReporter(os.Stdout)
		for _, res := range results {
			reporter.ReportResult(res)
		}
		reporter.ReportSummary(bench.Summarize(results))
	}

	if s := bench.Summarize(results); s.Failed > 0 {
		return fmt.Errorf("%d of %d rows failed", s.Failed, s.Total)
	}
	return nil
}

func listRows(reg *bench.Registry) error {
	filter, err := regexp.Compile(filterPattern)
	if err != nil {
		return fmt.Errorf("invalid --filter pattern: %w", err)
	}
	for _, name := range reg.RowNames() {
		if filter.MatchString(name) {
			fmt.Println(name)
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
