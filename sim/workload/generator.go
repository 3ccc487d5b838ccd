package workload

import (
	"fmt"
	"strconv"

	"github.com/ossim/ossim/sim"
	"github.com/ossim/ossim/sim/cpu"
	"github.com/ossim/ossim/sim/disk"
)

// GenerateConfig parameterizes random scenario generation.
// Zero-valued ranges fall back to the defaults below.
type GenerateConfig struct {
	Kind  Kind
	Seed  int64
	Count int // requests, references or processes

	MaxTrack   int // disk: tracks are drawn from [0, MaxTrack]
	PageRange  int // paging: pages are drawn from [0, PageRange)
	FrameCount int // paging
	MaxArrival int64
	MaxBurst   int64
	MaxPrio    int
}

// Generation defaults.
const (
	defaultCount      = 10
	defaultMaxTrack   = 199
	defaultPageRange  = 8
	defaultFrameCount = 3
	defaultMaxArrival = 10
	defaultMaxBurst   = 10
	defaultMaxPrio    = 5
)

func (c *GenerateConfig) applyDefaults() {
	if c.Count == 0 {
		c.Count = defaultCount
	}
	if c.MaxTrack == 0 {
		c.MaxTrack = defaultMaxTrack
	}
	if c.PageRange == 0 {
		c.PageRange = defaultPageRange
	}
	if c.FrameCount == 0 {
		c.FrameCount = defaultFrameCount
	}
	if c.MaxArrival == 0 {
		c.MaxArrival = defaultMaxArrival
	}
	if c.MaxBurst == 0 {
		c.MaxBurst = defaultMaxBurst
	}
	if c.MaxPrio == 0 {
		c.MaxPrio = defaultMaxPrio
	}
}

// GenerateScenario creates a random scenario of the configured kind.
// Deterministic given the same config and seed. The returned spec passes Validate.
func GenerateScenario(cfg GenerateConfig) (*ScenarioSpec, error) {
	cfg.applyDefaults()
	if !validKinds[cfg.Kind] {
		return nil, fmt.Errorf("unknown kind %q; valid: disk, paging, cpu", cfg.Kind)
	}
	if cfg.Count < 0 {
		return nil, fmt.Errorf("count must be non-negative, got %d", cfg.Count)
	}
	if cfg.MaxTrack < 0 || cfg.PageRange < 0 || cfg.FrameCount < 0 ||
		cfg.MaxArrival < 0 || cfg.MaxBurst < 0 || cfg.MaxPrio < 0 {
		return nil, fmt.Errorf("generation ranges must be non-negative")
	}

	// Create partitioned RNG for deterministic generation
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(cfg.Seed))
	spec := &ScenarioSpec{
		Version: CurrentVersion,
		Name:    fmt.Sprintf("random-%s-%d", cfg.Kind, cfg.Seed),
		Kind:    cfg.Kind,
	}

	switch cfg.Kind {
	case KindDisk:
		r := rng.ForSubsystem(sim.SubsystemDisk)
		requests := make([]int, cfg.Count)
		for i := range requests {
			requests[i] = r.Intn(cfg.MaxTrack + 1)
		}
		dir := disk.Up
		if r.Intn(2) == 1 {
			dir = disk.Down
		}
		spec.Disk = &disk.Input{
			Requests:        requests,
			InitialPosition: r.Intn(cfg.MaxTrack + 1),
			MaxTrack:        cfg.MaxTrack,
			Direction:       dir,
		}
	case KindPaging:
		r := rng.ForSubsystem(sim.SubsystemPaging)
		refs := make([]string, cfg.Count)
		for i := range refs {
			refs[i] = strconv.Itoa(r.Intn(cfg.PageRange))
		}
		spec.Paging = &PagingSpec{ReferenceString: refs, FrameCount: cfg.FrameCount}
	case KindCPU:
		r := rng.ForSubsystem(sim.SubsystemCPU)
		procs := make([]cpu.Process, cfg.Count)
		for i := range procs {
			procs[i] = cpu.Process{
				ID:          fmt.Sprintf("P%d", i+1),
				ArrivalTime: r.Int63n(cfg.MaxArrival + 1),
				BurstTime:   1 + r.Int63n(cfg.MaxBurst),
				Priority:    1 + r.Intn(cfg.MaxPrio),
			}
		}
		spec.CPU = &CPUSpec{Processes: procs, Options: cpu.Options{Quantum: cpu.DefaultQuantum}}
	}
	return spec, nil
}
