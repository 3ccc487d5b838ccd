// Package run dispatches scenarios to the simulation engines, times each run
// and records it in the run history.
package run

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ossim/ossim/sim"
	"github.com/ossim/ossim/sim/cpu"
	"github.com/ossim/ossim/sim/disk"
	"github.com/ossim/ossim/sim/paging"
	"github.com/ossim/ossim/sim/trace"
	"github.com/ossim/ossim/sim/workload"
)

// Outcome is the result of running one algorithm over a scenario.
// Exactly one of Disk, Paging or CPU is set, matching Kind.
type Outcome struct {
	Kind            workload.Kind          `json:"kind"`
	Algorithm       string                 `json:"algorithm"`
	Disk            *disk.Result           `json:"disk,omitempty"`
	Paging          *paging.Result[string] `json:"paging,omitempty"`
	CPU             *cpu.Result            `json:"cpu,omitempty"`
	ExecutionTimeMs float64                `json:"execution_time_ms"`
	RunID           int                    `json:"run_id,omitempty"` // 0 when history is disabled
}

// MetricName names the figure Metric reports for a kind.
func MetricName(kind workload.Kind) string {
	switch kind {
	case workload.KindDisk:
		return "total_seek_time"
	case workload.KindPaging:
		return "page_faults"
	case workload.KindCPU:
		return "avg_waiting_time"
	}
	return ""
}

// Metric returns the headline figure used to rank algorithms. Lower is better.
func (o *Outcome) Metric() float64 {
	switch {
	case o.Disk != nil:
		return float64(o.Disk.TotalSeekTime)
	case o.Paging != nil:
		return float64(o.Paging.PageFaults)
	case o.CPU != nil:
		return o.CPU.AvgWaitingTime
	}
	return 0
}

// String summarizes the outcome on one line.
func (o *Outcome) String() string {
	switch {
	case o.Disk != nil:
		return o.Disk.String()
	case o.Paging != nil:
		return o.Paging.String()
	case o.CPU != nil:
		return fmt.Sprintf("%s: avg_wait=%.2f avg_turnaround=%.2f makespan=%d",
			o.CPU.Algorithm, o.CPU.AvgWaitingTime, o.CPU.AvgTurnaroundTime, o.CPU.Makespan)
	}
	return o.Algorithm
}

// Runner executes scenarios. A nil history disables recording.
// Safe for concurrent use when the history is.
type Runner struct {
	history *trace.History
	now     func() time.Time
}

// NewRunner creates a Runner that records into history.
func NewRunner(history *trace.History) *Runner {
	return &Runner{history: history, now: time.Now}
}

// History returns the history the runner records into (may be nil).
func (r *Runner) History() *trace.History {
	return r.history
}

// Run validates the scenario and simulates it with the named algorithm.
// An empty algorithm falls back to spec.Algorithm.
// Scenario and engine validation failures are reported as sim.InvalidInputError.
func (r *Runner) Run(spec *workload.ScenarioSpec, algorithm string) (*Outcome, error) {
	if spec == nil {
		return nil, sim.Invalidf("scenario is required")
	}
	if err := spec.Validate(); err != nil {
		return nil, sim.Invalidf("%v", err)
	}
	if algorithm == "" {
		algorithm = spec.Algorithm
	}
	if algorithm == "" {
		return nil, sim.Invalidf("no algorithm selected; valid: %v", workload.AlgorithmNames(spec.Kind))
	}

	outcome := &Outcome{Kind: spec.Kind, Algorithm: algorithm}
	var input any
	var err error
	start := r.now()
	switch spec.Kind {
	case workload.KindDisk:
		input = spec.Disk
		outcome.Disk, err = disk.Simulate(disk.Algorithm(algorithm), *spec.Disk)
	case workload.KindPaging:
		input = spec.Paging
		outcome.Paging, err = paging.Simulate(paging.Algorithm(algorithm), spec.Paging.ReferenceString, spec.Paging.FrameCount)
	case workload.KindCPU:
		input = spec.CPU
		outcome.CPU, err = cpu.Simulate(cpu.Algorithm(algorithm), spec.CPU.Processes, cpuOptions(spec.CPU.Options, algorithm))
	}
	elapsed := r.now().Sub(start)
	if err != nil {
		logrus.Debugf("%s/%s rejected: %v", spec.Kind, algorithm, err)
		return nil, err
	}
	outcome.ExecutionTimeMs = float64(elapsed.Microseconds()) / 1000

	logrus.Debugf("%s/%s finished in %.3fms: %s", spec.Kind, algorithm, outcome.ExecutionTimeMs, outcome)
	outcome.RunID = r.record(outcome, input)
	return outcome, nil
}

// cpuOptions fills in the Round Robin quantum when the scenario leaves it unset.
// The scenario itself is shared between comparison goroutines and is not modified.
func cpuOptions(opts cpu.Options, algorithm string) cpu.Options {
	if cpu.Algorithm(algorithm) == cpu.RoundRobin && opts.Quantum == 0 {
		logrus.Debugf("no quantum configured; using %d", cpu.DefaultQuantum)
		opts.Quantum = cpu.DefaultQuantum
	}
	return opts
}

func (r *Runner) record(o *Outcome, input any) int {
	if r.history == nil {
		return 0
	}
	rec := trace.RunRecord{
		AlgorithmType:   string(o.Kind),
		AlgorithmName:   o.Algorithm,
		ExecutionTimeMs: o.ExecutionTimeMs,
		RecordedAt:      r.now().UTC(),
	}
	if r.history.Config().Level == trace.TraceLevelFull {
		rec.InputData = marshalPayload(input)
		rec.OutputData = marshalPayload(o.result())
	}
	return r.history.Record(rec)
}

func (o *Outcome) result() any {
	switch {
	case o.Disk != nil:
		return o.Disk
	case o.Paging != nil:
		return o.Paging
	case o.CPU != nil:
		return o.CPU
	}
	return nil
}

// marshalPayload encodes v for the history; failures are logged and dropped.
func marshalPayload(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		logrus.Warnf("history payload not recorded: %v", err)
		return nil
	}
	return data
}
