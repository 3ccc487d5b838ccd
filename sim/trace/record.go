// Package trace provides run-history recording for completed simulations.
// It depends only on the root sim package and stores plain data.
package trace

import (
	"encoding/json"
	"time"
)

// RunRecord captures one completed simulation for the learner's history.
type RunRecord struct {
	RunID           int             `json:"run_id"`
	AlgorithmType   string          `json:"algorithm_type"` // "disk", "paging" or "cpu"
	AlgorithmName   string          `json:"algorithm_name"`
	InputData       json.RawMessage `json:"input_data,omitempty"`
	OutputData      json.RawMessage `json:"output_data,omitempty"`
	ExecutionTimeMs float64         `json:"execution_time_ms"` // wall clock around the engine call
	RecordedAt      time.Time       `json:"recorded_at"`
}
