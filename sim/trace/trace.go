package trace

import "sync"

// TraceLevel controls how much of each run the history keeps.
type TraceLevel string

const (
	// TraceLevelNone disables recording.
	TraceLevelNone TraceLevel = "none"
	// TraceLevelRuns keeps run metadata and timing but drops input/output payloads.
	TraceLevelRuns TraceLevel = "runs"
	// TraceLevelFull keeps everything, including input and output payloads.
	TraceLevelFull TraceLevel = "full"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone: true,
	TraceLevelRuns: true,
	TraceLevelFull: true,
	"":             true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls history collection behavior.
type TraceConfig struct {
	Level TraceLevel
	// MaxRecords bounds the history; the oldest records are dropped first. 0 = unbounded.
	MaxRecords int
}

// History collects run records (goroutine-safe).
type History struct {
	mu      sync.Mutex
	config  TraceConfig
	records []RunRecord
	nextID  int
}

// NewHistory creates a History ready for recording.
func NewHistory(config TraceConfig) *History {
	return &History{
		config:  config,
		records: make([]RunRecord, 0),
		nextID:  1,
	}
}

// Config returns the configuration the history was created with.
func (h *History) Config() TraceConfig {
	return h.config
}

// Record appends a run record, assigns its RunID and returns it.
// Returns 0 when recording is disabled.
func (h *History) Record(record RunRecord) int {
	if h.config.Level == TraceLevelNone || h.config.Level == "" {
		return 0
	}
	if h.config.Level == TraceLevelRuns {
		record.InputData = nil
		record.OutputData = nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	record.RunID = h.nextID
	h.nextID++
	h.records = append(h.records, record)
	if h.config.MaxRecords > 0 && len(h.records) > h.config.MaxRecords {
		h.records = h.records[len(h.records)-h.config.MaxRecords:]
	}
	return record.RunID
}

// Records returns a copy of all recorded runs in recording order.
func (h *History) Records() []RunRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	result := make([]RunRecord, len(h.records))
	copy(result, h.records)
	return result
}

// Len returns the number of records currently held.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.records)
}
