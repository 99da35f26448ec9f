package vulkan

import (
	vk "github.com/goki/vulkan"
)

// OverlayRenderer is the hook for drawing extra passes, debug UI and the
// like, after the scene but inside the same render pass. Implementations
// must only record into cmd, never submit.
type OverlayRenderer interface {
	Draw(cmd vk.CommandBuffer, extent vk.Extent2D)
}
