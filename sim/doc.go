// Package sim holds the shared pieces of the ossim teaching engine.
//
// # Reading Guide
//
// The engine is three independent algorithm families, each a pure function from
// input parameters to a complete trace:
//   - sim/disk/: disk head scheduling (FCFS, SSTF, SCAN, C-SCAN, LOOK, C-LOOK)
//   - sim/paging/: page replacement (FIFO, LRU, Optimal, Clock)
//   - sim/cpu/: CPU dispatch (FCFS, SJF, SRTF, Round Robin, Priority)
//
// Every Simulate call allocates its own state and returns it to the caller; nothing
// is shared between calls, so callers may run simulations concurrently.
//
// # Architecture
//
// This package defines what the engines share:
//   - errors.go: InvalidInputError, the only error kind the engines return
//   - metrics_utils.go: ratio, mean and rounding helpers used to normalize summaries
//   - rng.go: partitioned seeded RNG used by random workload generation
//
// Surrounding packages build on the engines without the engines knowing about them:
//   - sim/workload/: YAML scenario specs, presets and seeded generation
//   - sim/run/: scenario dispatch, timing, run history and comparisons
//   - sim/trace/: run-history records and export
//   - sim/replay/: paced frame playback with cancellation
package sim
