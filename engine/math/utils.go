package math

import "golang.org/x/exp/constraints"

// Clamp returns `v` limited to the range [low, high]. Works for any ordered
// numeric type; the swapchain uses it to keep extents inside device bounds.
func Clamp[T constraints.Ordered](v, low, high T) T {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
