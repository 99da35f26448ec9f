package scene

import (
	stdmath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/diazflack01/vulkan-playground/engine/renderer/metadata"
)

/**
 * @brief A free-moving camera. Moves happen along world axes so the
 * controls stay predictable while debugging scene layouts.
 */
type Camera struct {
	/** @brief NOTE: Do not set this directly, use Move* or SetPosition. */
	Position mgl32.Vec3

	isDirty bool
	view    mgl32.Mat4
}

func NewCamera() *Camera {
	camera := &Camera{}
	camera.Reset()
	return camera
}

func (c *Camera) Reset() {
	c.Position = mgl32.Vec3{0, -6, -10}
	c.isDirty = true
	c.view = mgl32.Ident4()
}

func (c *Camera) SetPosition(position mgl32.Vec3) {
	c.Position = position
	c.isDirty = true
}

// View returns the camera view matrix, rebuilding it only after a move.
func (c *Camera) View() mgl32.Mat4 {
	if c.isDirty {
		c.view = mgl32.Translate3D(c.Position.X(), c.Position.Y(), c.Position.Z())
		c.isDirty = false
	}
	return c.view
}

// Projection returns a perspective projection for the given aspect ratio,
// flipped on Y so clip space matches Vulkan conventions.
func (c *Camera) Projection(aspect float32) mgl32.Mat4 {
	proj := mgl32.Perspective(mgl32.DegToRad(70.0), aspect, 0.1, 200.0)
	proj[5] *= -1
	return proj
}

// UniformData packs the camera into its GPU layout for the given aspect
// ratio.
func (c *Camera) UniformData(aspect float32) metadata.GPUCameraData {
	view := c.View()
	proj := c.Projection(aspect)
	return metadata.GPUCameraData{
		View:     view,
		Proj:     proj,
		ViewProj: proj.Mul4(view),
	}
}

func (c *Camera) MoveForward(amount float32) {
	c.Position = c.Position.Add(mgl32.Vec3{0, 0, amount})
	c.isDirty = true
}

func (c *Camera) MoveBackward(amount float32) {
	c.Position = c.Position.Add(mgl32.Vec3{0, 0, -amount})
	c.isDirty = true
}

func (c *Camera) MoveLeft(amount float32) {
	c.Position = c.Position.Add(mgl32.Vec3{amount, 0, 0})
	c.isDirty = true
}

func (c *Camera) MoveRight(amount float32) {
	c.Position = c.Position.Add(mgl32.Vec3{-amount, 0, 0})
	c.isDirty = true
}

func (c *Camera) MoveUp(amount float32) {
	c.Position = c.Position.Add(mgl32.Vec3{0, -amount, 0})
	c.isDirty = true
}

func (c *Camera) MoveDown(amount float32) {
	c.Position = c.Position.Add(mgl32.Vec3{0, amount, 0})
	c.isDirty = true
}

// AmbientPulse is the slow sine used for the flashing ambient color in the
// scene parameters, keyed off the frame counter.
func AmbientPulse(frameNumber uint64) float32 {
	return float32(stdmath.Sin(float64(frameNumber) / 120.0))
}
