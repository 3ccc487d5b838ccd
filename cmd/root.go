package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ossim/ossim/sim/run"
	"github.com/ossim/ossim/sim/trace"
)

var (
	logLevel      string // Log verbosity level
	outputFormat  string // "table" or "json"
	historyLevel  string // Run history level: none, runs, full
	historyHeader string // Path for the exported history header (YAML)
	historyData   string // Path for the exported history data (CSV)
	historyMax    int    // Most recent runs kept in the history; 0 keeps every run

	// history is shared by every command in one process so that the export
	// after a command sees every run it made.
	history *trace.History
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "ossim",
	Short: "Step-by-step simulator for disk scheduling, page replacement and CPU scheduling",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if outputFormat != "table" && outputFormat != "json" {
			logrus.Fatalf("Invalid output format %q; valid: table, json", outputFormat)
		}
		if !trace.IsValidTraceLevel(historyLevel) {
			logrus.Fatalf("Invalid history level %q; valid: none, runs, full", historyLevel)
		}
		if historyMax < 0 {
			logrus.Fatalf("--history-max must be >= 0, got %d", historyMax)
		}
		if (historyHeader == "") != (historyData == "") {
			logrus.Fatalf("--history-header and --history-data must be set together")
		}
		traceLevel := trace.TraceLevel(historyLevel)
		if historyHeader != "" && (traceLevel == trace.TraceLevelNone || traceLevel == "") {
			logrus.Warnf("--history-header set but --history-level is %q; the export will be empty", historyLevel)
		}
		history = newHistory()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if historyHeader == "" {
			return
		}
		if err := exportHistory(history, historyHeader, historyData); err != nil {
			logrus.Fatalf("Failed to export run history: %v", err)
		}
		logrus.Infof("Run history written to %s and %s", historyHeader, historyData)
	},
}

// newHistory builds a run history from the --history-level and --history-max flags.
func newHistory() *trace.History {
	return trace.NewHistory(trace.TraceConfig{
		Level:      trace.TraceLevel(historyLevel),
		MaxRecords: historyMax,
	})
}

// newRunner returns a runner recording into the process-wide history.
func newRunner() *run.Runner {
	return run.NewRunner(history)
}

// exportHistory writes the history as a YAML header plus CSV data file.
func exportHistory(h *trace.History, headerPath, dataPath string) error {
	records := h.Records()
	header := &trace.HistoryHeader{
		Version:   1,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Level:     h.Config().Level,
		NumRuns:   len(records),
	}
	return trace.ExportHistory(header, records, headerPath, dataPath)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags shared by every subcommand
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json)")
	rootCmd.PersistentFlags().StringVar(&historyLevel, "history-level", "runs", "Run history level (none, runs, full)")
	rootCmd.PersistentFlags().IntVar(&historyMax, "history-max", 1000, "Most recent runs kept in the run history (0 = unbounded)")
	rootCmd.PersistentFlags().StringVar(&historyHeader, "history-header", "", "Export run history header (YAML) to this path")
	rootCmd.PersistentFlags().StringVar(&historyData, "history-data", "", "Export run history data (CSV) to this path")
}
