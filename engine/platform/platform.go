package platform

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/diazflack01/vulkan-playground/engine/core"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

// Platform owns the window and the raw input state. Input only mutates
// state here; the engine reads it between ticks, never inside the frame
// protocol.
type Platform struct {
	Window *glfw.Window

	keys    [glfw.KeyLast + 1]bool
	resized bool
	fbW     uint32
	fbH     uint32
}

func New() (*Platform, error) {
	return &Platform{}, nil
}

func (p *Platform) Startup(applicationName string, x, y, width, height uint32) error {
	if err := glfw.Init(); err != nil {
		core.LogFatal("failed to initialize glfw: %s", err)
		return err
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // Required for Vulkan.

	window, err := glfw.CreateWindow(int(width), int(height), applicationName, nil, nil)
	if err != nil {
		core.LogFatal("failed to create window: %s", err)
		return err
	}
	p.Window = window

	p.Window.SetKeyCallback(p.keyCallback)
	p.Window.SetFramebufferSizeCallback(p.framebufferSizeCallback)
	p.Window.SetPos(int(x), int(y))
	p.Window.Show()

	return nil
}

func (p *Platform) Shutdown() error {
	glfw.Terminate()
	return nil
}

// PumpMessages processes pending window events. Called once per tick, before
// the frame protocol runs.
func (p *Platform) PumpMessages() {
	glfw.PollEvents()
}

// GetRequiredExtensionNames returns the instance extensions the windowing
// system needs for surface creation.
func (p *Platform) GetRequiredExtensionNames() []string {
	return p.Window.GetRequiredInstanceExtensions()
}

// KeyDown reports whether the key is currently held.
func (p *Platform) KeyDown(key glfw.Key) bool {
	if key < 0 || int(key) >= len(p.keys) {
		return false
	}
	return p.keys[key]
}

func (p *Platform) ShouldClose() bool {
	return p.Window.ShouldClose()
}

// ConsumeResize reports and clears a pending framebuffer resize.
func (p *Platform) ConsumeResize() (uint32, uint32, bool) {
	if !p.resized {
		return 0, 0, false
	}
	p.resized = false
	return p.fbW, p.fbH, true
}

func (p *Platform) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key < 0 || int(key) >= len(p.keys) {
		return
	}
	switch action {
	case glfw.Press:
		p.keys[key] = true
	case glfw.Release:
		p.keys[key] = false
	}
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
	}
}

func (p *Platform) framebufferSizeCallback(w *glfw.Window, width, height int) {
	p.resized = true
	p.fbW = uint32(width)
	p.fbH = uint32(height)
}
