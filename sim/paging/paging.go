// Package paging simulates page replacement over a fixed set of frames and
// records the frame contents after every reference.
package paging

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ossim/ossim/sim"
)

// Algorithm names a page replacement policy.
type Algorithm string

const (
	FIFO    Algorithm = "fifo"
	LRU     Algorithm = "lru"
	Optimal Algorithm = "optimal"
	Clock   Algorithm = "clock"
)

var algorithms = []Algorithm{FIFO, LRU, Optimal, Clock}

// validAlgorithms maps accepted policy names.
var validAlgorithms = map[Algorithm]bool{
	FIFO:    true,
	LRU:     true,
	Optimal: true,
	Clock:   true,
}

// Algorithms returns the registered policies in presentation order.
func Algorithms() []Algorithm {
	return append([]Algorithm(nil), algorithms...)
}

// IsValidAlgorithm returns true if name is a registered replacement policy.
func IsValidAlgorithm(name string) bool {
	return validAlgorithms[Algorithm(name)]
}

// Frame is one frame slot. An unoccupied frame holds the zero page.
type Frame[T comparable] struct {
	Page     T
	Occupied bool
}

// Page returns an occupied frame holding p.
func Page[T comparable](p T) Frame[T] {
	return Frame[T]{Page: p, Occupied: true}
}

// MarshalJSON encodes an empty frame as null and an occupied one as its page.
func (f Frame[T]) MarshalJSON() ([]byte, error) {
	if !f.Occupied {
		return []byte("null"), nil
	}
	return json.Marshal(f.Page)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (f *Frame[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = Frame[T]{}
		return nil
	}
	var p T
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*f = Page(p)
	return nil
}

func (f Frame[T]) String() string {
	if !f.Occupied {
		return "-"
	}
	return fmt.Sprint(f.Page)
}

// Step records the outcome of one reference.
type Step[T comparable] struct {
	Position int        `json:"position"`
	Page     T          `json:"page"`
	Frames   []Frame[T] `json:"frames"` // state after the reference is applied
	Fault    bool       `json:"fault"`
	Slot     int        `json:"slot"` // slot hit, filled or overwritten
	Replaced bool       `json:"replaced"`
	Victim   *T         `json:"victim,omitempty"` // evicted page; nil unless Replaced
}

// Result is the complete trace of a page replacement simulation.
type Result[T comparable] struct {
	Algorithm  Algorithm `json:"algorithm"`
	FrameCount int       `json:"frame_count"`
	Steps      []Step[T] `json:"steps"`
	PageFaults int       `json:"page_faults"`
	Hits       int       `json:"hits"`
	HitRatio   float64   `json:"hit_ratio"`
}

// FinalFrames returns the frame state after the last reference, or all-empty
// frames if the reference string was empty.
func (r *Result[T]) FinalFrames() []Frame[T] {
	if len(r.Steps) == 0 {
		return make([]Frame[T], r.FrameCount)
	}
	return r.Steps[len(r.Steps)-1].Frames
}

func (r *Result[T]) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: faults=%d hits=%d [", r.Algorithm, r.PageFaults, r.Hits)
	for i, f := range r.FinalFrames() {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(f.String())
	}
	sb.WriteString("]")
	return sb.String()
}

// Simulate runs algorithm over referenceString with frameCount frames.
// Invalid input fails with *sim.InvalidInputError.
func Simulate[T comparable](algorithm Algorithm, referenceString []T, frameCount int) (*Result[T], error) {
	if !IsValidAlgorithm(string(algorithm)) {
		return nil, sim.Invalidf("unknown page replacement algorithm %q; valid: fifo, lru, optimal, clock", algorithm)
	}
	if frameCount < 1 {
		return nil, sim.Invalidf("frameCount must be >= 1, got %d", frameCount)
	}

	frames := make([]Frame[T], frameCount)
	policy := newReplacer(algorithm, referenceString, frames)
	resident := make(map[T]int, frameCount)
	filled := 0

	res := &Result[T]{
		Algorithm:  algorithm,
		FrameCount: frameCount,
		Steps:      make([]Step[T], 0, len(referenceString)),
	}
	for pos, page := range referenceString {
		step := Step[T]{Position: pos, Page: page}
		if slot, ok := resident[page]; ok {
			policy.hit(slot, pos)
			step.Slot = slot
			res.Hits++
		} else {
			step.Fault = true
			res.PageFaults++
			var slot int
			if filled < frameCount {
				slot = filled
				filled++
			} else {
				slot = policy.victim(pos)
				step.Replaced = true
				victim := frames[slot].Page
				step.Victim = &victim
				delete(resident, frames[slot].Page)
			}
			frames[slot] = Page(page)
			resident[page] = slot
			policy.loaded(slot, pos)
			step.Slot = slot
		}
		step.Frames = append([]Frame[T](nil), frames...)
		res.Steps = append(res.Steps, step)
	}
	res.HitRatio = sim.Ratio(res.Hits, len(referenceString))
	return res, nil
}
