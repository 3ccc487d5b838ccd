package workload

import (
	"fmt"
	"sort"

	"github.com/ossim/ossim/sim/cpu"
	"github.com/ossim/ossim/sim/disk"
)

// Built-in textbook presets.
// Each returns a fresh, valid ScenarioSpec ready for the runner.

// ScenarioTextbookDisk is the classic eight-request queue with the head at 53.
func ScenarioTextbookDisk() *ScenarioSpec {
	return &ScenarioSpec{
		Version: CurrentVersion, Name: "textbook-disk", Kind: KindDisk, Algorithm: string(disk.SSTF),
		Description: "queue 98 183 37 122 14 124 65 67, head at 53, 200 tracks",
		Disk: &disk.Input{
			Requests:        []int{98, 183, 37, 122, 14, 124, 65, 67},
			InitialPosition: 53,
			MaxTrack:        199,
			Direction:       disk.Up,
		},
	}
}

// ScenarioTextbookPaging is the twenty-reference string with three frames.
func ScenarioTextbookPaging() *ScenarioSpec {
	return &ScenarioSpec{
		Version: CurrentVersion, Name: "textbook-paging", Kind: KindPaging, Algorithm: "lru",
		Description: "7 0 1 2 0 3 0 4 2 3 0 3 2 1 2 0 1 7 0 1 with 3 frames",
		Paging: &PagingSpec{
			ReferenceString: labels(7, 0, 1, 2, 0, 3, 0, 4, 2, 3, 0, 3, 2, 1, 2, 0, 1, 7, 0, 1),
			FrameCount:      3,
		},
	}
}

// ScenarioBelady is the reference string on which FIFO faults more with four frames than three.
func ScenarioBelady(frames int) *ScenarioSpec {
	return &ScenarioSpec{
		Version: CurrentVersion, Name: "belady", Kind: KindPaging, Algorithm: "fifo",
		Description: fmt.Sprintf("1 2 3 4 1 2 5 1 2 3 4 5 with %d frames", frames),
		Paging: &PagingSpec{
			ReferenceString: labels(1, 2, 3, 4, 1, 2, 5, 1, 2, 3, 4, 5),
			FrameCount:      frames,
		},
	}
}

// ScenarioTextbookCPU is the four-process workload arriving one tick apart.
func ScenarioTextbookCPU() *ScenarioSpec {
	return &ScenarioSpec{
		Version: CurrentVersion, Name: "textbook-cpu", Kind: KindCPU, Algorithm: string(cpu.RoundRobin),
		Description: "P1..P4 arriving at 0..3 with bursts 5 3 8 2, quantum 2",
		CPU: &CPUSpec{
			Processes: []cpu.Process{
				{ID: "P1", ArrivalTime: 0, BurstTime: 5, Priority: 3},
				{ID: "P2", ArrivalTime: 1, BurstTime: 3, Priority: 1},
				{ID: "P3", ArrivalTime: 2, BurstTime: 8, Priority: 4},
				{ID: "P4", ArrivalTime: 3, BurstTime: 2, Priority: 2},
			},
			Options: cpu.Options{Quantum: cpu.DefaultQuantum},
		},
	}
}

// ScenarioStarvation is a priority workload in which a low-priority job starves without aging.
func ScenarioStarvation(ageWeight float64) *ScenarioSpec {
	procs := []cpu.Process{{ID: "low", ArrivalTime: 0, BurstTime: 2, Priority: 10}}
	for i := 0; i < 6; i++ {
		procs = append(procs, cpu.Process{
			ID: fmt.Sprintf("high%d", i), ArrivalTime: int64(i * 2), BurstTime: 3, Priority: 1,
		})
	}
	return &ScenarioSpec{
		Version: CurrentVersion, Name: "starvation", Kind: KindCPU, Algorithm: string(cpu.Priority),
		Description: fmt.Sprintf("one low-priority job behind a stream of urgent ones, age weight %g", ageWeight),
		CPU:         &CPUSpec{Processes: procs, Options: cpu.Options{AgeWeight: ageWeight}},
	}
}

// presets maps preset names to constructors with their default parameters.
var presets = map[string]func() *ScenarioSpec{
	"textbook-disk":   ScenarioTextbookDisk,
	"textbook-paging": ScenarioTextbookPaging,
	"belady-3":        func() *ScenarioSpec { return ScenarioBelady(3) },
	"belady-4":        func() *ScenarioSpec { return ScenarioBelady(4) },
	"textbook-cpu":    ScenarioTextbookCPU,
	"starvation":      func() *ScenarioSpec { return ScenarioStarvation(0) },
	"starvation-aged": func() *ScenarioSpec { return ScenarioStarvation(0.5) },
}

// PresetNames returns the built-in preset names, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset returns a fresh copy of the named built-in scenario.
func Preset(name string) (*ScenarioSpec, error) {
	build, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q; valid: %v", name, PresetNames())
	}
	spec := build()
	spec.Name = name
	return spec, nil
}

func labels(pages ...int) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = fmt.Sprint(p)
	}
	return out
}
