// Package replay turns a simulation outcome into ordered frames that a
// visualization can step through or play back at a fixed pace.
package replay

import (
	"github.com/ossim/ossim/sim/cpu"
	"github.com/ossim/ossim/sim/disk"
	"github.com/ossim/ossim/sim/paging"
	"github.com/ossim/ossim/sim/run"
	"github.com/ossim/ossim/sim/workload"
)

// Frame is one step of an animation. Exactly one of Disk, Paging or CPU is set.
type Frame struct {
	Index     int                  `json:"index"`
	Total     int                  `json:"total"`
	Kind      workload.Kind        `json:"kind"`
	Algorithm string               `json:"algorithm"`
	Disk      *disk.Movement       `json:"disk,omitempty"`
	Paging    *paging.Step[string] `json:"paging,omitempty"`
	CPU       *CPUFrame            `json:"cpu,omitempty"`

	// Cumulative is the running headline figure: seek distance so far,
	// faults so far, or the clock at the end of the slice.
	Cumulative float64 `json:"cumulative"`
}

// CPUFrame is one Gantt slice plus the process that finished at its end, if any.
type CPUFrame struct {
	cpu.Interval
	Finished string `json:"finished,omitempty"`
}

// Frames converts an outcome into its frame sequence. Nil yields no frames.
func Frames(o *run.Outcome) []Frame {
	if o == nil {
		return nil
	}
	var frames []Frame
	switch {
	case o.Disk != nil:
		total := 0
		for i := range o.Disk.Movements {
			m := o.Disk.Movements[i]
			if !m.Wrap {
				total += m.Distance()
			}
			frames = append(frames, Frame{Disk: &m, Cumulative: float64(total)})
		}
	case o.Paging != nil:
		faults := 0
		for i := range o.Paging.Steps {
			s := o.Paging.Steps[i]
			if s.Fault {
				faults++
			}
			frames = append(frames, Frame{Paging: &s, Cumulative: float64(faults)})
		}
	case o.CPU != nil:
		for _, iv := range o.CPU.Schedule {
			f := &CPUFrame{Interval: iv}
			if m, ok := o.CPU.PerProcess[iv.ProcessID]; ok && m.CompletionTime == iv.End {
				f.Finished = iv.ProcessID
			}
			frames = append(frames, Frame{CPU: f, Cumulative: float64(iv.End)})
		}
	}
	for i := range frames {
		frames[i].Index = i
		frames[i].Total = len(frames)
		frames[i].Kind = o.Kind
		frames[i].Algorithm = o.Algorithm
	}
	return frames
}
