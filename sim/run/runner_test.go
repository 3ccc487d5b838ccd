package run

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ossim/ossim/sim"
	"github.com/ossim/ossim/sim/trace"
	"github.com/ossim/ossim/sim/workload"
)

func TestRunner_Run_DiskPreset(t *testing.T) {
	// GIVEN a runner with full history and the textbook disk queue
	history := trace.NewHistory(trace.TraceConfig{Level: trace.TraceLevelFull})
	r := NewRunner(history)

	// WHEN run with its default algorithm (SSTF)
	o, err := r.Run(workload.ScenarioTextbookDisk(), "")
	require.NoError(t, err)

	// THEN the textbook total is produced and the run is recorded with payloads
	require.NotNil(t, o.Disk)
	assert.Equal(t, 236, o.Disk.TotalSeekTime)
	assert.InDelta(t, 236.0, o.Metric(), 1e-9)
	assert.GreaterOrEqual(t, o.ExecutionTimeMs, 0.0)
	assert.Equal(t, 1, o.RunID)

	records := history.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "disk", records[0].AlgorithmType)
	assert.Equal(t, "sstf", records[0].AlgorithmName)
	var out map[string]any
	require.NoError(t, json.Unmarshal(records[0].OutputData, &out))
	assert.EqualValues(t, 236, out["total_seek_time"])
	assert.Contains(t, string(records[0].InputData), `"initial_position":53`)
}

func TestRunner_Run_PagingAndCPU(t *testing.T) {
	r := NewRunner(nil)

	paging, err := r.Run(workload.ScenarioTextbookPaging(), "optimal")
	require.NoError(t, err)
	require.NotNil(t, paging.Paging)
	assert.Equal(t, 9, paging.Paging.PageFaults)
	assert.Zero(t, paging.RunID)

	cpuOutcome, err := r.Run(workload.ScenarioTextbookCPU(), "fcfs")
	require.NoError(t, err)
	require.NotNil(t, cpuOutcome.CPU)
	assert.InDelta(t, 5.75, cpuOutcome.Metric(), 1e-9)
	assert.Contains(t, cpuOutcome.String(), "avg_wait=5.75")
}

func TestRunner_Run_InvalidScenario_IsInvalidInput(t *testing.T) {
	r := NewRunner(nil)

	spec := workload.ScenarioTextbookDisk()
	spec.Kind = "tape"
	_, err := r.Run(spec, "")
	assert.True(t, sim.IsInvalidInput(err))

	_, err = r.Run(nil, "fcfs")
	assert.True(t, sim.IsInvalidInput(err))

	spec = workload.ScenarioTextbookDisk()
	spec.Algorithm = ""
	_, err = r.Run(spec, "")
	assert.ErrorContains(t, err, "no algorithm selected")
}

func TestRunner_Run_EngineRejection_NotRecorded(t *testing.T) {
	// GIVEN a request beyond the last track
	history := trace.NewHistory(trace.TraceConfig{Level: trace.TraceLevelRuns})
	r := NewRunner(history)
	spec := workload.ScenarioTextbookDisk()
	spec.Disk.Requests = append(spec.Disk.Requests, 500)

	// WHEN run
	_, err := r.Run(spec, "fcfs")

	// THEN the engine error surfaces unchanged and nothing is recorded
	assert.True(t, sim.IsInvalidInput(err))
	assert.ErrorContains(t, err, "exceeds maxTrack")
	assert.Zero(t, history.Len())
}

func TestRunner_Run_RunsLevel_OmitsPayloads(t *testing.T) {
	history := trace.NewHistory(trace.TraceConfig{Level: trace.TraceLevelRuns})
	_, err := NewRunner(history).Run(workload.ScenarioTextbookCPU(), "rr")
	require.NoError(t, err)

	records := history.Records()
	require.Len(t, records, 1)
	assert.Nil(t, records[0].InputData)
	assert.Equal(t, "rr", records[0].AlgorithmName)
}

func TestMetricName(t *testing.T) {
	assert.Equal(t, "total_seek_time", MetricName(workload.KindDisk))
	assert.Equal(t, "page_faults", MetricName(workload.KindPaging))
	assert.Equal(t, "avg_waiting_time", MetricName(workload.KindCPU))
	assert.Empty(t, MetricName("tape"))
}
