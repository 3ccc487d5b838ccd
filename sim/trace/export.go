package trace

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// HistoryHeader captures metadata for an exported history.
type HistoryHeader struct {
	Version   int        `yaml:"history_version"`
	CreatedAt string     `yaml:"created_at,omitempty"`
	Level     TraceLevel `yaml:"level"`
	NumRuns   int        `yaml:"num_runs"`
}

// ExportedHistory combines header and records for a complete history file pair.
type ExportedHistory struct {
	Header  HistoryHeader
	Records []RunRecord
}

// CSV column headers for exported history data.
var historyColumns = []string{
	"run_id", "algorithm_type", "algorithm_name", "execution_time_ms",
	"recorded_at", "input_data", "output_data",
}

// ExportHistory writes the history header (YAML) and data (CSV) to separate files.
// Input and output payloads are stored as compact JSON in their CSV cells.
func ExportHistory(header *HistoryHeader, records []RunRecord, headerPath, dataPath string) error {
	headerData, err := yaml.Marshal(header)
	if err != nil {
		return fmt.Errorf("marshaling history header: %w", err)
	}
	if err := os.WriteFile(headerPath, headerData, 0644); err != nil {
		return fmt.Errorf("writing history header: %w", err)
	}

	file, err := os.Create(dataPath)
	if err != nil {
		return fmt.Errorf("creating history data file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	if err := writer.Write(historyColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.RunID),
			r.AlgorithmType,
			r.AlgorithmName,
			strconv.FormatFloat(r.ExecutionTimeMs, 'f', -1, 64),
			r.RecordedAt.UTC().Format(time.RFC3339Nano),
			string(r.InputData),
			string(r.OutputData),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", r.RunID, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing history data: %w", err)
	}
	return nil
}

// LoadHistory reads a history header (YAML) and data (CSV).
func LoadHistory(headerPath, dataPath string) (*ExportedHistory, error) {
	headerData, err := os.ReadFile(headerPath)
	if err != nil {
		return nil, fmt.Errorf("reading history header: %w", err)
	}
	var header HistoryHeader
	if err := yaml.Unmarshal(headerData, &header); err != nil {
		return nil, fmt.Errorf("parsing history header: %w", err)
	}

	file, err := os.Open(dataPath)
	if err != nil {
		return nil, fmt.Errorf("opening history data: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	var records []RunRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}
		if len(row) < len(historyColumns) {
			return nil, fmt.Errorf("CSV row has %d columns, expected %d", len(row), len(historyColumns))
		}
		r, err := parseRunRecord(row)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	return &ExportedHistory{Header: header, Records: records}, nil
}

func parseRunRecord(row []string) (*RunRecord, error) {
	runID, err := strconv.Atoi(row[0])
	if err != nil {
		return nil, fmt.Errorf("parsing run_id %q: %w", row[0], err)
	}
	execMs, err := strconv.ParseFloat(row[3], 64)
	if err != nil {
		return nil, fmt.Errorf("run %d: parsing execution_time_ms %q: %w", runID, row[3], err)
	}
	recordedAt, err := time.Parse(time.RFC3339Nano, row[4])
	if err != nil {
		return nil, fmt.Errorf("run %d: parsing recorded_at %q: %w", runID, row[4], err)
	}
	r := &RunRecord{
		RunID:           runID,
		AlgorithmType:   row[1],
		AlgorithmName:   row[2],
		ExecutionTimeMs: execMs,
		RecordedAt:      recordedAt,
	}
	if row[5] != "" {
		if !json.Valid([]byte(row[5])) {
			return nil, fmt.Errorf("run %d: input_data is not valid JSON", runID)
		}
		r.InputData = json.RawMessage(row[5])
	}
	if row[6] != "" {
		if !json.Valid([]byte(row[6])) {
			return nil, fmt.Errorf("run %d: output_data is not valid JSON", runID)
		}
		r.OutputData = json.RawMessage(row[6])
	}
	return r, nil
}
