package renderer

import (
	"sync"
	"testing"
	"time"
)

// fakeFence is a CPU-only fence double. Signal may come from another
// goroutine, standing in for GPU completion.
type fakeFence struct {
	mu       sync.Mutex
	signaled bool
	ch       chan struct{}
	resets   int
}

func newFakeFence() *fakeFence {
	return &fakeFence{ch: make(chan struct{})}
}

func (f *fakeFence) Signal() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.signaled {
		f.signaled = true
		close(f.ch)
	}
}

func (f *fakeFence) Wait(timeout time.Duration) bool {
	f.mu.Lock()
	if f.signaled {
		f.mu.Unlock()
		return true
	}
	ch := f.ch
	f.mu.Unlock()

	select {
	case <-ch:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (f *fakeFence) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signaled = false
	f.ch = make(chan struct{})
	f.resets++
	return nil
}

func newTestRing(timeout time.Duration) (*SlotRing, []*fakeFence) {
	fences := []*fakeFence{newFakeFence(), newFakeFence()}
	ring := NewSlotRing([]CompletionFence{fences[0], fences[1]}, timeout)
	return ring, fences
}

func TestSlotRing_AcquireSelectsByModulo(t *testing.T) {
	ring, _ := newTestRing(time.Second)

	for _, frame := range []uint64{0, 1, 5, 6} {
		slot, err := ring.Acquire(frame)
		if err != nil {
			t.Fatalf("Acquire(%d): %v", frame, err)
		}
		if want := int(frame % 2); slot.Index != want {
			t.Errorf("Acquire(%d) slot index = %d, want %d", frame, slot.Index, want)
		}
		if slot.State() != SlotRecording {
			t.Errorf("Acquire(%d) state = %v, want Recording", frame, slot.State())
		}
	}
}

func TestSlotRing_SameSlotBlocksUntilFenceSignals(t *testing.T) {
	ring, fences := newTestRing(5 * time.Second)

	slot0, err := ring.Acquire(0)
	if err != nil {
		t.Fatal(err)
	}
	slot0.MarkSubmitted()

	// Frame 2 maps to the same slot and must not proceed while slot 0's
	// work is still in flight.
	acquired := make(chan *FrameSlot)
	go func() {
		s, err := ring.Acquire(2)
		if err != nil {
			t.Error(err)
		}
		acquired <- s
	}()

	select {
	case <-acquired:
		t.Fatal("Acquire(2) returned before the frame-0 fence signaled")
	case <-time.After(50 * time.Millisecond):
	}

	fences[0].Signal()

	select {
	case s := <-acquired:
		if s.Index != 0 {
			t.Errorf("slot index = %d, want 0", s.Index)
		}
		if fences[0].resets != 1 {
			t.Errorf("fence resets = %d, want 1", fences[0].resets)
		}
	case <-time.After(time.Second):
		t.Fatal("Acquire(2) still blocked after the fence signaled")
	}
}

func TestSlotRing_InFlightNeverExceedsSlotCount(t *testing.T) {
	ring, fences := newTestRing(5 * time.Second)

	s0, _ := ring.Acquire(0)
	s0.MarkSubmitted()
	s1, _ := ring.Acquire(1)
	s1.MarkSubmitted()

	if got := ring.InFlight(); got != 2 {
		t.Fatalf("InFlight = %d, want 2", got)
	}

	// The third frame reuses slot 0 and must retire it first, keeping the
	// bound at the slot count.
	fences[0].Signal()
	s2, err := ring.Acquire(2)
	if err != nil {
		t.Fatal(err)
	}
	if got := ring.InFlight(); got != 1 {
		t.Errorf("InFlight after reuse = %d, want 1", got)
	}
	s2.MarkSubmitted()
	if got := ring.InFlight(); got > ring.Len() {
		t.Errorf("InFlight = %d exceeds slot count %d", got, ring.Len())
	}
}

func TestSlotRing_AcquireTimeoutIsAnError(t *testing.T) {
	ring, _ := newTestRing(20 * time.Millisecond)

	s0, _ := ring.Acquire(0)
	s0.MarkSubmitted()

	if _, err := ring.Acquire(2); err == nil {
		t.Error("Acquire after timeout returned nil error")
	}
}

func TestSlotRing_WaitIdleRetiresSubmittedSlots(t *testing.T) {
	ring, fences := newTestRing(time.Second)

	s0, _ := ring.Acquire(0)
	s0.MarkSubmitted()
	s1, _ := ring.Acquire(1)
	s1.MarkSubmitted()

	fences[0].Signal()
	fences[1].Signal()

	if err := ring.WaitIdle(); err != nil {
		t.Fatalf("WaitIdle: %v", err)
	}
	if got := ring.InFlight(); got != 0 {
		t.Errorf("InFlight after WaitIdle = %d, want 0", got)
	}
}
