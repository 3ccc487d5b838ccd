package trace

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diskRun() RunRecord {
	return RunRecord{
		AlgorithmType:   "disk",
		AlgorithmName:   "sstf",
		InputData:       json.RawMessage(`{"requests":[98,183],"initial_position":53}`),
		OutputData:      json.RawMessage(`{"total_seek_time":160}`),
		ExecutionTimeMs: 0.25,
		RecordedAt:      time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestIsValidTraceLevel(t *testing.T) {
	for _, level := range []string{"", "none", "runs", "full"} {
		assert.True(t, IsValidTraceLevel(level), level)
	}
	assert.False(t, IsValidTraceLevel("decisions"))
	assert.False(t, IsValidTraceLevel("FULL"))
}

func TestHistory_Record_AssignsSequentialIDs(t *testing.T) {
	// GIVEN a history at full level
	h := NewHistory(TraceConfig{Level: TraceLevelFull})

	// WHEN two runs are recorded
	first := h.Record(diskRun())
	second := h.Record(diskRun())

	// THEN IDs start at 1 and increase, and payloads are kept
	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
	records := h.Records()
	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].RunID)
	assert.JSONEq(t, `{"total_seek_time":160}`, string(records[0].OutputData))
}

func TestHistory_LevelNone_RecordsNothing(t *testing.T) {
	h := NewHistory(TraceConfig{Level: TraceLevelNone})
	assert.Zero(t, h.Record(diskRun()))
	assert.Zero(t, h.Len())

	empty := NewHistory(TraceConfig{})
	assert.Zero(t, empty.Record(diskRun()))
	assert.Zero(t, empty.Len())
}

func TestHistory_LevelRuns_DropsPayloads(t *testing.T) {
	h := NewHistory(TraceConfig{Level: TraceLevelRuns})
	h.Record(diskRun())

	records := h.Records()
	require.Len(t, records, 1)
	assert.Nil(t, records[0].InputData)
	assert.Nil(t, records[0].OutputData)
	assert.Equal(t, "sstf", records[0].AlgorithmName)
}

func TestHistory_MaxRecords_DropsOldest(t *testing.T) {
	h := NewHistory(TraceConfig{Level: TraceLevelRuns, MaxRecords: 2})
	for i := 0; i < 5; i++ {
		h.Record(diskRun())
	}

	records := h.Records()
	require.Len(t, records, 2)
	assert.Equal(t, 4, records[0].RunID)
	assert.Equal(t, 5, records[1].RunID)
}

func TestHistory_Records_ReturnsCopy(t *testing.T) {
	h := NewHistory(TraceConfig{Level: TraceLevelRuns})
	h.Record(diskRun())

	records := h.Records()
	records[0].AlgorithmName = "mutated"

	assert.Equal(t, "sstf", h.Records()[0].AlgorithmName)
}

func TestHistory_ConcurrentRecord_UniqueIDs(t *testing.T) {
	// GIVEN a history shared by many goroutines
	h := NewHistory(TraceConfig{Level: TraceLevelRuns})
	const workers = 50

	// WHEN they record concurrently
	var wg sync.WaitGroup
	ids := make(chan int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- h.Record(diskRun())
		}()
	}
	wg.Wait()
	close(ids)

	// THEN every run gets a distinct ID
	seen := make(map[int]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers)
	assert.Equal(t, workers, h.Len())
}
