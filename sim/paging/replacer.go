package paging

import "math"

// replacer decides which occupied slot to evict once every frame is full.
type replacer interface {
	// loaded is called after slot receives a new page at reference position pos.
	loaded(slot, pos int)
	// hit is called when the page in slot is referenced again at pos.
	hit(slot, pos int)
	// victim returns the slot to overwrite at pos. Every slot is occupied.
	victim(pos int) int
}

func newReplacer[T comparable](a Algorithm, refs []T, frames []Frame[T]) replacer {
	switch a {
	case LRU:
		return &lruReplacer{lastUsed: make([]int, len(frames))}
	case Optimal:
		return &optimalReplacer[T]{refs: refs, frames: frames}
	case Clock:
		return &clockReplacer{referenced: make([]bool, len(frames))}
	default:
		return &fifoReplacer{size: len(frames)}
	}
}

// fifoReplacer evicts in load order with a circular pointer. Filling empty
// slots does not move the pointer; slots fill from 0 upward, so the pointer
// starts at the oldest page.
type fifoReplacer struct {
	next int
	size int
}

func (f *fifoReplacer) loaded(int, int) {}
func (f *fifoReplacer) hit(int, int)    {}

func (f *fifoReplacer) victim(int) int {
	slot := f.next
	f.next = (f.next + 1) % f.size
	return slot
}

// lruReplacer evicts the slot referenced longest ago; ties go to the smallest slot.
type lruReplacer struct {
	lastUsed []int
}

func (l *lruReplacer) loaded(slot, pos int) { l.lastUsed[slot] = pos }
func (l *lruReplacer) hit(slot, pos int)    { l.lastUsed[slot] = pos }

func (l *lruReplacer) victim(int) int {
	best := 0
	for slot := 1; slot < len(l.lastUsed); slot++ {
		if l.lastUsed[slot] < l.lastUsed[best] {
			best = slot
		}
	}
	return best
}

// optimalReplacer evicts the page whose next use lies furthest in the future,
// treating pages that never recur as infinitely far; ties go to the smallest slot.
type optimalReplacer[T comparable] struct {
	refs   []T
	frames []Frame[T]
}

func (o *optimalReplacer[T]) loaded(int, int) {}
func (o *optimalReplacer[T]) hit(int, int)    {}

func (o *optimalReplacer[T]) victim(pos int) int {
	best, bestNext := 0, -1
	for slot, f := range o.frames {
		next := o.nextUse(f.Page, pos)
		if next > bestNext {
			best, bestNext = slot, next
		}
	}
	return best
}

// nextUse returns the index of the first reference to page strictly after pos,
// or math.MaxInt if there is none.
func (o *optimalReplacer[T]) nextUse(page T, pos int) int {
	for i := pos + 1; i < len(o.refs); i++ {
		if o.refs[i] == page {
			return i
		}
	}
	return math.MaxInt
}

// clockReplacer is second-chance FIFO: the hand skips, and clears, slots whose
// reference bit is set.
type clockReplacer struct {
	referenced []bool
	hand       int
}

func (c *clockReplacer) loaded(slot, _ int) { c.referenced[slot] = true }
func (c *clockReplacer) hit(slot, _ int)    { c.referenced[slot] = true }

func (c *clockReplacer) victim(int) int {
	for c.referenced[c.hand] {
		c.referenced[c.hand] = false
		c.hand = (c.hand + 1) % len(c.referenced)
	}
	slot := c.hand
	c.hand = (c.hand + 1) % len(c.referenced)
	return slot
}
