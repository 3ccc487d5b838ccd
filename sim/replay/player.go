package replay

import (
	"context"
	"time"
)

// Play emits frames in order, one per interval. The first frame is emitted
// immediately. A non-positive interval emits everything without pausing.
// Returns ctx.Err() when cancelled, or the first error from emit.
func Play(ctx context.Context, frames []Frame, interval time.Duration, emit func(Frame) error) error {
	if len(frames) == 0 {
		return ctx.Err()
	}
	if interval <= 0 {
		for _, f := range frames {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := emit(f); err != nil {
				return err
			}
		}
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i, f := range frames {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(f); err != nil {
			return err
		}
	}
	return nil
}

// Cursor steps back and forth through a frame sequence.
// Not safe for concurrent use.
type Cursor struct {
	frames []Frame
	pos    int // index of the current frame; -1 before the first Next
}

// NewCursor creates a cursor positioned before the first frame.
func NewCursor(frames []Frame) *Cursor {
	return &Cursor{frames: frames, pos: -1}
}

// Next advances and returns the new current frame; false at the end.
func (c *Cursor) Next() (Frame, bool) {
	if c.pos+1 >= len(c.frames) {
		return Frame{}, false
	}
	c.pos++
	return c.frames[c.pos], true
}

// Prev steps back and returns the new current frame; false at the first frame.
func (c *Cursor) Prev() (Frame, bool) {
	if c.pos <= 0 {
		return Frame{}, false
	}
	c.pos--
	return c.frames[c.pos], true
}

// Current returns the current frame; false before the first Next.
func (c *Cursor) Current() (Frame, bool) {
	if c.pos < 0 || c.pos >= len(c.frames) {
		return Frame{}, false
	}
	return c.frames[c.pos], true
}

// Reset moves the cursor back before the first frame.
func (c *Cursor) Reset() {
	c.pos = -1
}

// Len returns the number of frames.
func (c *Cursor) Len() int {
	return len(c.frames)
}
