// Package testutil provides shared test infrastructure for the simulators.
// It holds the golden dataset types and assertion helpers used by the
// sim/ test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one textbook scenario run with one algorithm.
// Scenario is kept raw so this package does not depend on the scenario types.
type GoldenTestCase struct {
	Name      string          `json:"name"`
	Algorithm string          `json:"algorithm"`
	Scenario  json.RawMessage `json:"scenario"`
	Metrics   GoldenMetrics   `json:"metrics"`
}

// GoldenMetrics holds the expected figures; only the fields of the scenario's kind are set.
type GoldenMetrics struct {
	// Disk
	TotalSeekTime int   `json:"total_seek_time,omitempty"`
	ServiceOrder  []int `json:"service_order,omitempty"`

	// Paging
	PageFaults  int      `json:"page_faults,omitempty"`
	Hits        int      `json:"hits,omitempty"`
	FinalFrames []string `json:"final_frames,omitempty"` // "" marks an empty frame

	// CPU
	AvgWaitingTime    float64  `json:"avg_waiting_time,omitempty"`
	AvgTurnaroundTime float64  `json:"avg_turnaround_time,omitempty"`
	Makespan          int64    `json:"makespan,omitempty"`
	CompletionOrder   []string `json:"completion_order,omitempty"`
}

// LoadGoldenDataset reads testdata/goldendataset.json at the repository root,
// located relative to this source file so it works from any test package.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok, "locating testutil source file")
	root := filepath.Join(filepath.Dir(thisFile), "..", "..", "..")

	data, err := os.ReadFile(filepath.Join(root, "testdata", "goldendataset.json"))
	require.NoError(t, err, "reading golden dataset")

	var dataset GoldenDataset
	require.NoError(t, json.Unmarshal(data, &dataset), "parsing golden dataset")
	require.NotEmpty(t, dataset.Tests, "golden dataset has no test cases")
	return &dataset
}

// AssertFloat64Equal fails the test when got differs from want by more than
// relTol relative to the larger magnitude.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	scale := math.Max(math.Abs(want), math.Abs(got))
	if scale == 0 {
		return
	}
	if rel := math.Abs(want-got) / scale; rel > relTol {
		t.Errorf("%s: got %v, want %v (relative diff %.3g)", name, got, want, rel)
	}
}
