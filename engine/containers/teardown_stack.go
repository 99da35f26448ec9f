package containers

// TeardownStack records deferred teardown actions for GPU-backed resources
// and executes them in reverse registration order. A view created from an
// image must be destroyed before the image, which must go before the memory
// that backs it; reverse order preserves that chain without the stack knowing
// anything about the resources themselves.
//
// The stack performs no synchronization: the caller must make sure the GPU is
// idle before flushing. Pushing after a flush is a programming error.
type TeardownStack struct {
	actions []func()
	flushed bool
}

// Create a new TeardownStack
func NewTeardownStack() *TeardownStack {
	return &TeardownStack{
		actions: make([]func(), 0, 32),
	}
}

// Push appends a teardown action to be run on Flush.
func (ts *TeardownStack) Push(action func()) {
	ts.actions = append(ts.actions, action)
}

// Flush executes all pending actions in reverse order of registration and
// clears the stack. A second Flush is a no-op.
func (ts *TeardownStack) Flush() {
	if ts.flushed {
		return
	}
	for i := len(ts.actions) - 1; i >= 0; i-- {
		ts.actions[i]()
	}
	ts.actions = nil
	ts.flushed = true
}

// Len returns the number of pending actions.
func (ts *TeardownStack) Len() int {
	return len(ts.actions)
}
