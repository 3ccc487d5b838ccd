// Package cpu builds CPU dispatch timelines (Gantt intervals) and per-process
// waiting/turnaround metrics for arrival/burst workloads.
package cpu

import (
	"math"
	"sort"

	"github.com/ossim/ossim/sim"
)

// Algorithm names a CPU scheduling policy.
type Algorithm string

const (
	FCFS       Algorithm = "fcfs"
	SJF        Algorithm = "sjf"  // non-preemptive shortest job first
	SRTF       Algorithm = "srtf" // preemptive shortest remaining time first
	RoundRobin Algorithm = "rr"
	Priority   Algorithm = "priority" // non-preemptive, lower value first
)

var algorithms = []Algorithm{FCFS, SJF, SRTF, RoundRobin, Priority}

var validAlgorithms = map[Algorithm]bool{
	FCFS:       true,
	SJF:        true,
	SRTF:       true,
	RoundRobin: true,
	Priority:   true,
}

// Algorithms returns the registered policies in presentation order.
func Algorithms() []Algorithm {
	return append([]Algorithm(nil), algorithms...)
}

// IsValidAlgorithm returns true if name is a registered CPU policy.
func IsValidAlgorithm(name string) bool {
	return validAlgorithms[Algorithm(name)]
}

// DefaultQuantum is the Round Robin time slice used when none is configured.
const DefaultQuantum int64 = 2

// Process is one unit of CPU work.
type Process struct {
	ID          string `json:"id" yaml:"id"`
	ArrivalTime int64  `json:"arrival" yaml:"arrival"`
	BurstTime   int64  `json:"burst" yaml:"burst"`
	Priority    int    `json:"priority,omitempty" yaml:"priority,omitempty"` // lower is more urgent
}

// Options tunes the policies that need parameters.
type Options struct {
	Quantum   int64   `json:"quantum,omitempty" yaml:"quantum,omitempty"`       // Round Robin time slice
	AgeWeight float64 `json:"age_weight,omitempty" yaml:"age_weight,omitempty"` // priority aging rate per time unit (0 = none)
}

// Interval is one span during which a single process holds the CPU.
type Interval struct {
	ProcessID string `json:"process_id"`
	Start     int64  `json:"start"`
	End       int64  `json:"end"`
}

// ProcessMetrics summarizes one process's run.
type ProcessMetrics struct {
	ArrivalTime    int64 `json:"arrival"`
	BurstTime      int64 `json:"burst"`
	StartTime      int64 `json:"start"` // first dispatch
	CompletionTime int64 `json:"completion"`
	WaitingTime    int64 `json:"waiting_time"`    // turnaround - burst
	TurnaroundTime int64 `json:"turnaround_time"` // completion - arrival
	ResponseTime   int64 `json:"response_time"`   // first dispatch - arrival
}

// Result is the complete trace of a CPU scheduling simulation.
type Result struct {
	Algorithm  Algorithm                 `json:"algorithm"`
	Quantum    int64                     `json:"quantum,omitempty"`
	Schedule   []Interval                `json:"schedule"`
	PerProcess map[string]ProcessMetrics `json:"per_process"`
	// Order lists process IDs in completion order.
	Order             []string `json:"order"`
	AvgWaitingTime    float64  `json:"avg_waiting_time"`
	AvgTurnaroundTime float64  `json:"avg_turnaround_time"`
	AvgResponseTime   float64  `json:"avg_response_time"`
	// Makespan runs from time 0 to the last completion.
	Makespan        int64   `json:"makespan"`
	IdleTime        int64   `json:"idle_time"`
	Utilization     float64 `json:"utilization"`
	Throughput      float64 `json:"throughput"` // completions per time unit
	ContextSwitches int     `json:"context_switches"`
}

// job is the mutable per-run state of one process.
type job struct {
	Process
	seq        int // position in stable arrival order
	remaining  int64
	started    bool
	firstStart int64
}

// Simulate dispatches processes under algorithm and returns the Gantt timeline
// with per-process metrics. Invalid input fails with *sim.InvalidInputError.
func Simulate(algorithm Algorithm, processes []Process, opts Options) (*Result, error) {
	if !IsValidAlgorithm(string(algorithm)) {
		return nil, sim.Invalidf("unknown cpu algorithm %q; valid: fcfs, sjf, srtf, rr, priority", algorithm)
	}
	if err := validate(algorithm, processes, opts); err != nil {
		return nil, err
	}

	res := &Result{
		Algorithm:  algorithm,
		Schedule:   make([]Interval, 0, len(processes)),
		PerProcess: make(map[string]ProcessMetrics, len(processes)),
		Order:      make([]string, 0, len(processes)),
	}
	if algorithm == RoundRobin {
		res.Quantum = opts.Quantum
	}

	jobs := make([]*job, len(processes))
	for i, p := range processes {
		jobs[i] = &job{Process: p, remaining: p.BurstTime}
	}
	// Stable: simultaneous arrivals keep submission order.
	sort.SliceStable(jobs, func(i, j int) bool { return jobs[i].ArrivalTime < jobs[j].ArrivalTime })
	for i, j := range jobs {
		j.seq = i
	}

	dispatch(newPolicy(algorithm, opts), jobs, res)
	summarize(jobs, res)
	return res, nil
}

// dispatch runs the single-pass loop: admit arrivals, let the policy order the
// ready queue, run the head job for as long as the policy allows, repeat until
// every job completes.
func dispatch(p policy, jobs []*job, res *Result) {
	var rq readyQueue
	next, done := 0, 0
	clock := int64(0)
	admit := func(upTo int64) {
		for next < len(jobs) && jobs[next].ArrivalTime <= upTo {
			rq.Enqueue(jobs[next])
			next++
		}
	}

	for done < len(jobs) {
		admit(clock)
		if rq.Len() == 0 {
			// idle until the next arrival
			clock = jobs[next].ArrivalTime
			continue
		}
		rq.Reorder(func(js []*job) { p.order.orderQueue(js, clock) })
		j := rq.Dequeue()

		run := j.remaining
		if p.quantum > 0 && run > p.quantum {
			run = p.quantum
		}
		if p.preemptOnArrival && next < len(jobs) && jobs[next].ArrivalTime < clock+run {
			run = jobs[next].ArrivalTime - clock
		}

		if !j.started {
			j.started = true
			j.firstStart = clock
		}
		res.appendInterval(j.ID, clock, clock+run)
		clock += run
		j.remaining -= run

		// Arrivals during the slice queue ahead of the preempted job.
		admit(clock)
		if j.remaining > 0 {
			rq.Enqueue(j)
			continue
		}
		done++
		res.Order = append(res.Order, j.ID)
		res.PerProcess[j.ID] = ProcessMetrics{
			ArrivalTime:    j.ArrivalTime,
			BurstTime:      j.BurstTime,
			StartTime:      j.firstStart,
			CompletionTime: clock,
			TurnaroundTime: clock - j.ArrivalTime,
			WaitingTime:    clock - j.ArrivalTime - j.BurstTime,
			ResponseTime:   j.firstStart - j.ArrivalTime,
		}
	}
}

// appendInterval adds [start, end) to the schedule, extending the last interval
// when the same process keeps the CPU.
func (r *Result) appendInterval(id string, start, end int64) {
	if n := len(r.Schedule); n > 0 {
		last := &r.Schedule[n-1]
		if last.ProcessID == id && last.End == start {
			last.End = end
			return
		}
	}
	r.Schedule = append(r.Schedule, Interval{ProcessID: id, Start: start, End: end})
}

func summarize(jobs []*job, res *Result) {
	if len(jobs) == 0 {
		return
	}
	waiting := make([]int64, len(jobs))
	turnaround := make([]int64, len(jobs))
	response := make([]int64, len(jobs))
	var busy int64
	for i, j := range jobs {
		m := res.PerProcess[j.ID]
		waiting[i], turnaround[i], response[i] = m.WaitingTime, m.TurnaroundTime, m.ResponseTime
		busy += j.BurstTime
	}
	res.AvgWaitingTime = sim.CalculateMean(waiting)
	res.AvgTurnaroundTime = sim.CalculateMean(turnaround)
	res.AvgResponseTime = sim.CalculateMean(response)
	res.Makespan = res.Schedule[len(res.Schedule)-1].End
	res.IdleTime = res.Makespan - busy
	res.Utilization = sim.Ratio(busy, res.Makespan)
	res.Throughput = sim.Ratio(int64(len(jobs)), res.Makespan)
	res.ContextSwitches = len(res.Schedule) - 1
}

func validate(algorithm Algorithm, processes []Process, opts Options) error {
	seen := make(map[string]bool, len(processes))
	for i, p := range processes {
		if p.ID == "" {
			return sim.Invalidf("processes[%d]: id must not be empty", i)
		}
		if seen[p.ID] {
			return sim.Invalidf("duplicate process id %s", p.ID)
		}
		seen[p.ID] = true
		if p.ArrivalTime < 0 {
			return sim.Invalidf("process %s: arrival time %d must be >= 0", p.ID, p.ArrivalTime)
		}
		if p.BurstTime <= 0 {
			return sim.Invalidf("process %s: burst time %d must be > 0", p.ID, p.BurstTime)
		}
	}
	if algorithm == RoundRobin && opts.Quantum <= 0 {
		return sim.Invalidf("round robin quantum must be > 0, got %d", opts.Quantum)
	}
	if math.IsNaN(opts.AgeWeight) || math.IsInf(opts.AgeWeight, 0) || opts.AgeWeight < 0 {
		return sim.Invalidf("age weight must be a finite number >= 0, got %v", opts.AgeWeight)
	}
	return nil
}
