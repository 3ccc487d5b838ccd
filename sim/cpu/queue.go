// Implements the ready queue, which holds every arrived process waiting for the CPU.
// Processes are enqueued on arrival and again when preempted.

package cpu

import "fmt"

// readyQueue is a FIFO queue of jobs waiting to be dispatched.
// Ordering policies reorder it in place before each dispatch decision.
type readyQueue struct {
	queue []*job
}

// Enqueue adds a job to the back of the ready queue.
func (rq *readyQueue) Enqueue(j *job) {
	rq.queue = append(rq.queue, j)
}

// Len returns the number of jobs in the queue.
func (rq *readyQueue) Len() int {
	return len(rq.queue)
}

// Reorder applies fn to the queue contents, allowing in-place reordering.
// fn MUST NOT change the slice length.
func (rq *readyQueue) Reorder(fn func([]*job)) {
	if fn == nil {
		panic("Reorder: fn must not be nil")
	}
	n := len(rq.queue)
	fn(rq.queue)
	if len(rq.queue) != n {
		panic(fmt.Sprintf("Reorder: fn changed queue length from %d to %d", n, len(rq.queue)))
	}
}

// Dequeue removes and returns the job at the front of the queue.
// Returns nil if the queue is empty.
func (rq *readyQueue) Dequeue() *job {
	if len(rq.queue) == 0 {
		return nil
	}
	j := rq.queue[0]
	rq.queue = rq.queue[1:]
	return j
}
