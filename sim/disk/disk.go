// Package disk computes disk head schedules: the order in which pending track
// requests are serviced, every head movement, and the total seek distance.
//
// Simulate is a pure function; it never reorders or retains the caller's slices.
package disk

import (
	"fmt"
	"strings"

	"github.com/ossim/ossim/sim"
)

// Algorithm names a disk scheduling policy.
type Algorithm string

const (
	FCFS  Algorithm = "fcfs"
	SSTF  Algorithm = "sstf"
	SCAN  Algorithm = "scan"
	CSCAN Algorithm = "c-scan"
	LOOK  Algorithm = "look"
	CLOOK Algorithm = "c-look"
)

// algorithms lists every registered policy in presentation order.
var algorithms = []Algorithm{FCFS, SSTF, SCAN, CSCAN, LOOK, CLOOK}

// Algorithms returns the registered policies in presentation order.
func Algorithms() []Algorithm {
	return append([]Algorithm(nil), algorithms...)
}

// IsValidAlgorithm returns true if name is a registered disk policy.
func IsValidAlgorithm(name string) bool {
	_, ok := policyFor(Algorithm(name))
	return ok
}

// Direction is the initial sweep direction for SCAN-family policies.
type Direction string

const (
	Up   Direction = "up"   // toward MaxTrack
	Down Direction = "down" // toward track 0
)

// Input is everything a disk simulation depends on.
type Input struct {
	Requests        []int     `json:"requests" yaml:"requests"`
	InitialPosition int       `json:"initial_position" yaml:"initial_position"`
	MaxTrack        int       `json:"max_track" yaml:"max_track"`
	Direction       Direction `json:"direction,omitempty" yaml:"direction,omitempty"` // empty means Up
}

// Movement is one head move from one track to another.
type Movement struct {
	From int `json:"from"`
	To   int `json:"to"`
	// Service is true when the head stops at To to service a request; false for
	// sweeps to a disk edge.
	Service bool `json:"service"`
	// Wrap marks a return jump that is not charged as seek distance.
	Wrap bool `json:"wrap,omitempty"`
}

// Distance returns the absolute track distance covered by the movement.
func (m Movement) Distance() int {
	if m.To > m.From {
		return m.To - m.From
	}
	return m.From - m.To
}

// Result is the complete trace of a disk simulation.
type Result struct {
	Algorithm     Algorithm  `json:"algorithm"`
	Direction     Direction  `json:"direction"`
	Movements     []Movement `json:"movements"`
	Order         []int      `json:"order"` // request tracks in service order
	TotalSeekTime int        `json:"total_seek_time"`
	// AverageSeekTime is TotalSeekTime per serviced request (0 with no requests).
	AverageSeekTime float64 `json:"average_seek_time"`
}

// Simulate runs algorithm over in and returns the full head trace.
// Invalid input fails with *sim.InvalidInputError naming the offending value.
func Simulate(algorithm Algorithm, in Input) (*Result, error) {
	policy, ok := policyFor(algorithm)
	if !ok {
		return nil, sim.Invalidf("unknown disk algorithm %q; valid: %s", algorithm, validNames())
	}
	dir, err := validate(in)
	if err != nil {
		return nil, err
	}

	h := &head{
		pos: in.InitialPosition,
		res: &Result{
			Algorithm: algorithm,
			Direction: dir,
			Movements: make([]Movement, 0, len(in.Requests)+2),
			Order:     make([]int, 0, len(in.Requests)),
		},
	}
	if len(in.Requests) > 0 {
		policy(h, append([]int(nil), in.Requests...), in.MaxTrack, dir)
	}
	h.res.AverageSeekTime = sim.Ratio(h.res.TotalSeekTime, len(in.Requests))
	return h.res, nil
}

func validate(in Input) (Direction, error) {
	if in.MaxTrack <= 0 {
		return "", sim.Invalidf("maxTrack must be > 0, got %d", in.MaxTrack)
	}
	if in.InitialPosition < 0 || in.InitialPosition > in.MaxTrack {
		return "", sim.Invalidf("initialPosition %d outside [0, %d]", in.InitialPosition, in.MaxTrack)
	}
	for _, r := range in.Requests {
		if r < 0 {
			return "", sim.Invalidf("request %d is below track 0", r)
		}
		if r > in.MaxTrack {
			return "", sim.Invalidf("request %d exceeds maxTrack %d", r, in.MaxTrack)
		}
	}
	switch in.Direction {
	case "", Up:
		return Up, nil
	case Down:
		return Down, nil
	default:
		return "", sim.Invalidf("unknown direction %q; valid: up, down", in.Direction)
	}
}

func validNames() string {
	names := make([]string, len(algorithms))
	for i, a := range algorithms {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}

// head tracks the current position and appends movements to the result.
type head struct {
	pos int
	res *Result
}

// service moves to track and services the request there. Duplicates produce
// zero-length movements.
func (h *head) service(track int) {
	h.move(Movement{From: h.pos, To: track, Service: true})
}

// sweep moves to a disk edge without servicing anything.
func (h *head) sweep(track int) {
	if track == h.pos {
		return
	}
	h.move(Movement{From: h.pos, To: track})
}

// wrap jumps to track without charging seek distance.
func (h *head) wrap(track int) {
	if track == h.pos {
		return
	}
	h.move(Movement{From: h.pos, To: track, Wrap: true})
}

// jumpService jumps to track without charging seek distance and services the
// request there.
func (h *head) jumpService(track int) {
	h.move(Movement{From: h.pos, To: track, Service: true, Wrap: true})
}

func (h *head) move(m Movement) {
	h.res.Movements = append(h.res.Movements, m)
	if !m.Wrap {
		h.res.TotalSeekTime += m.Distance()
	}
	if m.Service {
		h.res.Order = append(h.res.Order, m.To)
	}
	h.pos = m.To
}

func (r *Result) String() string {
	return fmt.Sprintf("%s: %d movements, seek=%d", r.Algorithm, len(r.Movements), r.TotalSeekTime)
}
