package trace

import "github.com/ossim/ossim/sim"

// HistorySummary aggregates statistics over a run history.
type HistorySummary struct {
	TotalRuns       int
	RunsByType      map[string]int // algorithm type → count
	RunsByAlgorithm map[string]int // "type/name" → count
	MeanExecutionMs float64
	P90ExecutionMs  float64
	MaxExecutionMs  float64
}

// Summarize computes aggregate statistics from run records. Timings are rounded to microseconds.
// Safe for nil or empty input (returns zero-value fields).
func Summarize(records []RunRecord) *HistorySummary {
	summary := &HistorySummary{
		RunsByType:      make(map[string]int),
		RunsByAlgorithm: make(map[string]int),
	}
	if len(records) == 0 {
		return summary
	}

	summary.TotalRuns = len(records)
	times := make([]float64, len(records))
	for i, r := range records {
		summary.RunsByType[r.AlgorithmType]++
		summary.RunsByAlgorithm[r.AlgorithmType+"/"+r.AlgorithmName]++
		times[i] = r.ExecutionTimeMs
		if r.ExecutionTimeMs > summary.MaxExecutionMs {
			summary.MaxExecutionMs = r.ExecutionTimeMs
		}
	}
	summary.MeanExecutionMs = sim.Round(sim.CalculateMean(times), 3)
	summary.P90ExecutionMs = sim.Round(sim.CalculatePercentile(times, 90), 3)

	return summary
}
