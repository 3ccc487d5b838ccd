package cpu

import "sort"

// queueOrder reorders the ready queue before each dispatch decision.
// Implementations sort in place with sort.SliceStable and fall back to arrival
// order (job.seq) so every decision is deterministic.
type queueOrder interface {
	orderQueue(jobs []*job, clock int64)
}

// fcfsOrder preserves enqueue order (no-op).
type fcfsOrder struct{}

func (fcfsOrder) orderQueue(_ []*job, _ int64) {}

// shortestFirst sorts by remaining time (ascending), then by arrival order.
// Before a job has run its remaining time equals its burst, so the same order
// serves SJF and SRTF.
type shortestFirst struct{}

func (shortestFirst) orderQueue(jobs []*job, _ int64) {
	sort.SliceStable(jobs, func(i, j int) bool {
		if jobs[i].remaining != jobs[j].remaining {
			return jobs[i].remaining < jobs[j].remaining
		}
		return jobs[i].seq < jobs[j].seq
	})
}

// priorityOrder sorts by effective priority (ascending; lower is more urgent),
// then by arrival order.
type priorityOrder struct {
	policy PriorityPolicy
}

func (p priorityOrder) orderQueue(jobs []*job, clock int64) {
	// Float != comparison is exact for StaticPriority; AgingPriority values differ
	// by AgeWeight multiples and ties fall through to arrival order.
	sort.SliceStable(jobs, func(i, j int) bool {
		pi, pj := p.policy.Compute(jobs[i].Process, clock), p.policy.Compute(jobs[j].Process, clock)
		if pi != pj {
			return pi < pj
		}
		return jobs[i].seq < jobs[j].seq
	})
}

// PriorityPolicy computes the effective priority of a waiting process.
// Lower values are dispatched first. Implementations MUST NOT modify the process.
type PriorityPolicy interface {
	Compute(p Process, clock int64) float64
}

// StaticPriority uses the process's declared priority unchanged.
type StaticPriority struct{}

func (StaticPriority) Compute(p Process, _ int64) float64 {
	return float64(p.Priority)
}

// AgingPriority improves a process's priority the longer it has been waiting,
// so low-priority work cannot starve.
// Formula: Priority - AgeWeight * (clock - ArrivalTime)
type AgingPriority struct {
	AgeWeight float64
}

func (a AgingPriority) Compute(p Process, clock int64) float64 {
	age := float64(clock - p.ArrivalTime)
	return float64(p.Priority) - a.AgeWeight*age
}

// policy describes how a named algorithm drives the dispatch loop.
type policy struct {
	order queueOrder
	// quantum caps each dispatch; 0 runs the job to completion.
	quantum int64
	// preemptOnArrival re-evaluates the running job whenever a process arrives.
	preemptOnArrival bool
}

func newPolicy(a Algorithm, opts Options) policy {
	switch a {
	case SJF:
		return policy{order: shortestFirst{}}
	case SRTF:
		return policy{order: shortestFirst{}, preemptOnArrival: true}
	case RoundRobin:
		return policy{order: fcfsOrder{}, quantum: opts.Quantum}
	case Priority:
		if opts.AgeWeight > 0 {
			return policy{order: priorityOrder{policy: AgingPriority{AgeWeight: opts.AgeWeight}}}
		}
		return policy{order: priorityOrder{policy: StaticPriority{}}}
	default:
		return policy{order: fcfsOrder{}}
	}
}
