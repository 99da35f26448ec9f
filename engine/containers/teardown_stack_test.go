package containers

import (
	"testing"
)

func TestTeardownStack_FlushReversesOrder(t *testing.T) {
	tests := []struct {
		name string
		push []string
		want []string
	}{
		{
			name: "three actions run in reverse",
			push: []string{"A", "B", "C"},
			want: []string{"C", "B", "A"},
		},
		{
			name: "single action",
			push: []string{"only"},
			want: []string{"only"},
		},
		{
			name: "empty stack",
			push: nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := NewTeardownStack()
			var got []string
			for _, label := range tt.push {
				label := label
				ts.Push(func() { got = append(got, label) })
			}
			ts.Flush()

			if len(got) != len(tt.want) {
				t.Fatalf("executed %d actions, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("execution order[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTeardownStack_SecondFlushIsNoop(t *testing.T) {
	ts := NewTeardownStack()
	calls := 0
	ts.Push(func() { calls++ })

	ts.Flush()
	ts.Flush()

	if calls != 1 {
		t.Errorf("action ran %d times, want 1", calls)
	}
}

func TestTeardownStack_Len(t *testing.T) {
	ts := NewTeardownStack()
	if ts.Len() != 0 {
		t.Fatalf("new stack Len = %d, want 0", ts.Len())
	}
	ts.Push(func() {})
	ts.Push(func() {})
	if ts.Len() != 2 {
		t.Errorf("Len = %d, want 2", ts.Len())
	}
	ts.Flush()
	if ts.Len() != 0 {
		t.Errorf("Len after flush = %d, want 0", ts.Len())
	}
}

// Later-registered resources may alias earlier ones; this mirrors the
// view-before-image-before-memory chain the stack exists for.
func TestTeardownStack_AliasedResourceChain(t *testing.T) {
	ts := NewTeardownStack()

	memoryAlive := true
	imageAlive := true

	ts.Push(func() { memoryAlive = false })
	ts.Push(func() {
		if !memoryAlive {
			t.Error("image torn down after its backing memory")
		}
		imageAlive = false
	})
	ts.Push(func() {
		if !imageAlive {
			t.Error("view torn down after its image")
		}
	})

	ts.Flush()

	if memoryAlive || imageAlive {
		t.Error("flush left resources alive")
	}
}
