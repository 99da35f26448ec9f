package math

import "testing"

func TestClamp(t *testing.T) {
	tests := []struct {
		name         string
		v, low, high uint32
		want         uint32
	}{
		{"inside", 5, 1, 10, 5},
		{"below", 0, 1, 10, 1},
		{"above", 20, 1, 10, 10},
		{"at low", 1, 1, 10, 1},
		{"at high", 10, 1, 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.v, tt.low, tt.high); got != tt.want {
				t.Errorf("Clamp(%d, %d, %d) = %d, want %d", tt.v, tt.low, tt.high, got, tt.want)
			}
		})
	}
}

func TestClampFloat(t *testing.T) {
	if got := Clamp(-0.5, 0.0, 1.0); got != 0.0 {
		t.Errorf("Clamp(-0.5, 0, 1) = %v, want 0", got)
	}
}
