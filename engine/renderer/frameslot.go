package renderer

import (
	"fmt"
	"time"
)

// SlotState tracks where a frame slot is in its lifecycle.
type SlotState int

const (
	// SlotIdle means the slot's previous work has fully retired.
	SlotIdle SlotState = iota
	// SlotRecording means the producer currently owns the slot's command
	// target.
	SlotRecording
	// SlotSubmitted means GPU work is in flight and the slot's fence has not
	// signaled yet.
	SlotSubmitted
)

// CompletionFence is a CPU-observable completion signal for a submitted
// batch of work. The Vulkan backend backs it with a VkFence; tests use a
// fake.
type CompletionFence interface {
	// Wait blocks until the fence signals or the timeout elapses, reporting
	// whether it signaled.
	Wait(timeout time.Duration) bool
	// Reset returns the fence to the unsignaled state.
	Reset() error
}

// FrameSlot is one of the ring's reusable per-frame execution contexts. The
// backend hangs its own resources (command buffer, semaphores, per-slot
// buffers) off the slot index.
type FrameSlot struct {
	Index int
	Fence CompletionFence

	state SlotState
}

func (s *FrameSlot) State() SlotState {
	return s.state
}

// MarkSubmitted transitions the slot to Submitted after its commands are on
// the queue.
func (s *FrameSlot) MarkSubmitted() {
	s.state = SlotSubmitted
}

// SlotRing bounds the number of frames in flight to the number of slots.
// All calls come from the single producer goroutine; the ring itself does no
// locking.
type SlotRing struct {
	slots   []*FrameSlot
	timeout time.Duration
}

func NewSlotRing(fences []CompletionFence, timeout time.Duration) *SlotRing {
	ring := &SlotRing{
		slots:   make([]*FrameSlot, len(fences)),
		timeout: timeout,
	}
	for i, f := range fences {
		ring.slots[i] = &FrameSlot{Index: i, Fence: f}
	}
	return ring
}

// Acquire selects the slot for frameNumber and blocks until its previous
// submission has retired, then resets the fence and hands the slot to the
// producer for recording. A timed-out wait is a lost device; the caller
// treats the error as fatal.
func (r *SlotRing) Acquire(frameNumber uint64) (*FrameSlot, error) {
	slot := r.slots[frameNumber%uint64(len(r.slots))]

	if slot.state == SlotSubmitted {
		if !slot.Fence.Wait(r.timeout) {
			return nil, fmt.Errorf("render fence wait for slot %d exceeded %v", slot.Index, r.timeout)
		}
		if err := slot.Fence.Reset(); err != nil {
			return nil, err
		}
		slot.state = SlotIdle
	}

	slot.state = SlotRecording
	return slot, nil
}

// InFlight counts the slots whose GPU work has not retired.
func (r *SlotRing) InFlight() int {
	n := 0
	for _, s := range r.slots {
		if s.state == SlotSubmitted {
			n++
		}
	}
	return n
}

// Len returns the number of slots.
func (r *SlotRing) Len() int {
	return len(r.slots)
}

// WaitIdle blocks until every submitted slot's fence has signaled, leaving
// each retired fence reset so the slot can be submitted again. Called before
// swapchain recreation and at shutdown before the teardown stack is flushed.
func (r *SlotRing) WaitIdle() error {
	for _, s := range r.slots {
		if s.state != SlotSubmitted {
			continue
		}
		if !s.Fence.Wait(r.timeout) {
			return fmt.Errorf("shutdown fence wait for slot %d exceeded %v", s.Index, r.timeout)
		}
		if err := s.Fence.Reset(); err != nil {
			return err
		}
		s.state = SlotIdle
	}
	return nil
}
