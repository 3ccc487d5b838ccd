package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ossim/ossim/sim/workload"
)

var (
	scenarioPath      string   // Scenario YAML file
	presetName        string   // Built-in preset name
	runAlgorithm      string   // Algorithm override for `run`
	compareAlgorithms []string // Algorithm subset for `compare`

	// Generation flags
	genKind       string // Scenario kind to generate
	genSeed       int64  // Seed for random generation
	genCount      int    // Requests, references or processes
	genMaxTrack   int    // Disk: highest track
	genPageRange  int    // Paging: distinct pages
	genFrameCount int    // Paging: frames
	genOut        string // Output file (default stdout)
)

// loadScenario resolves --scenario or --preset; exactly one must be set.
func loadScenario() (*workload.ScenarioSpec, error) {
	switch {
	case scenarioPath != "" && presetName != "":
		return nil, fmt.Errorf("--scenario and --preset are mutually exclusive")
	case scenarioPath != "":
		spec, err := workload.LoadScenario(scenarioPath)
		if err != nil {
			return nil, err
		}
		logrus.Infof("Loaded scenario %q (%s) from %s", spec.Name, spec.Kind, scenarioPath)
		return spec, nil
	case presetName != "":
		return workload.Preset(presetName)
	}
	return nil, fmt.Errorf("one of --scenario or --preset is required")
}

// runCmd runs a scenario file or preset with one algorithm
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scenario file or built-in preset",
	Run: func(cmd *cobra.Command, args []string) {
		spec, err := loadScenario()
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		runAndPrint(spec, runAlgorithm)
	},
}

// compareCmd runs the same scenario through several algorithms side by side
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare algorithms on the same scenario",
	Run: func(cmd *cobra.Command, args []string) {
		spec, err := loadScenario()
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if cmd.Flags().Changed("algorithms") {
			spec.Algorithms = compareAlgorithms
		} else if len(spec.Algorithms) == 0 {
			spec.Algorithm = "" // compare every algorithm of the kind
		}

		cmp, err := newRunner().Compare(context.Background(), spec)
		if err != nil {
			logrus.Fatalf("Comparison failed: %v", err)
		}
		if outputFormat == "json" {
			err = writeJSON(os.Stdout, cmp)
		} else {
			_, err = fmt.Println(renderComparison(cmp))
		}
		if err != nil {
			logrus.Fatalf("Failed to write output: %v", err)
		}
	},
}

// generateCmd writes a seeded random scenario as YAML
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a random scenario (deterministic per seed)",
	Run: func(cmd *cobra.Command, args []string) {
		spec, err := workload.GenerateScenario(workload.GenerateConfig{
			Kind:       workload.Kind(genKind),
			Seed:       genSeed,
			Count:      genCount,
			MaxTrack:   genMaxTrack,
			PageRange:  genPageRange,
			FrameCount: genFrameCount,
		})
		if err != nil {
			logrus.Fatalf("Generation failed: %v", err)
		}
		data, err := yaml.Marshal(spec)
		if err != nil {
			logrus.Fatalf("Failed to encode scenario: %v", err)
		}
		if genOut == "" {
			fmt.Print(string(data))
			return
		}
		if err := os.WriteFile(genOut, data, 0644); err != nil {
			logrus.Fatalf("Failed to write %s: %v", genOut, err)
		}
		logrus.Infof("Scenario written to %s", genOut)
	},
}

// presetsCmd lists the built-in presets
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List built-in textbook scenarios",
	Run: func(cmd *cobra.Command, args []string) {
		if outputFormat == "json" {
			all := make([]*workload.ScenarioSpec, 0)
			for _, name := range workload.PresetNames() {
				spec, _ := workload.Preset(name)
				all = append(all, spec)
			}
			if err := writeJSON(os.Stdout, all); err != nil {
				logrus.Fatalf("Failed to write output: %v", err)
			}
			return
		}
		rows := [][]string{{"name", "kind", "default", "description"}}
		for _, name := range workload.PresetNames() {
			spec, _ := workload.Preset(name)
			rows = append(rows, []string{name, string(spec.Kind), spec.Algorithm, spec.Description})
		}
		fmt.Println(lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Presets"), renderTable(rows)))
	},
}

func init() {
	for _, c := range []*cobra.Command{runCmd, compareCmd} {
		c.Flags().StringVar(&scenarioPath, "scenario", "", "Path to a scenario YAML file")
		c.Flags().StringVar(&presetName, "preset", "", "Built-in preset name (see `ossim presets`)")
	}
	runCmd.Flags().StringVar(&runAlgorithm, "algorithm", "", "Algorithm to run (default: the scenario's algorithm)")
	compareCmd.Flags().StringSliceVar(&compareAlgorithms, "algorithms", nil, "Comma-separated algorithms to compare (default: all)")

	generateCmd.Flags().StringVar(&genKind, "kind", "", "Scenario kind (disk, paging, cpu)")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 42, "Seed for random generation")
	generateCmd.Flags().IntVar(&genCount, "count", 10, "Number of requests, references or processes")
	generateCmd.Flags().IntVar(&genMaxTrack, "max-track", 199, "Disk: highest track")
	generateCmd.Flags().IntVar(&genPageRange, "pages", 8, "Paging: number of distinct pages")
	generateCmd.Flags().IntVar(&genFrameCount, "frames", 3, "Paging: number of frames")
	generateCmd.Flags().StringVar(&genOut, "out", "", "Write the scenario to this file instead of stdout")
	_ = generateCmd.MarkFlagRequired("kind")

	rootCmd.AddCommand(runCmd, compareCmd, generateCmd, presetsCmd)
}
