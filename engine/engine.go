package engine

import (
	stdmath "math"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/diazflack01/vulkan-playground/engine/assets"
	"github.com/diazflack01/vulkan-playground/engine/config"
	"github.com/diazflack01/vulkan-playground/engine/core"
	"github.com/diazflack01/vulkan-playground/engine/platform"
	"github.com/diazflack01/vulkan-playground/engine/renderer"
	"github.com/diazflack01/vulkan-playground/engine/renderer/metadata"
	"github.com/diazflack01/vulkan-playground/engine/renderer/vulkan"
	"github.com/diazflack01/vulkan-playground/engine/scene"
)

const (
	cameraSpeed = 12.0
	// Shared vertex stage; materials only differ in their fragment shader.
	vertexShaderName = "tri_mesh.vert"
)

type Engine struct {
	cfg          *config.Config
	platform     *platform.Platform
	assetManager *assets.AssetManager
	renderer     *vulkan.VulkanRenderer

	scene   *scene.Scene
	camera  *scene.Camera
	batcher *renderer.DrawBatcher

	clock       *core.Clock
	isRunning   bool
	isSuspended bool
	lastTime    float64
	statsTimer  float64
}

func New(cfg *config.Config) (*Engine, error) {
	p, err := platform.New()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	am, err := assets.NewAssetManager()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	return &Engine{
		cfg:          cfg,
		platform:     p,
		assetManager: am,
		renderer:     vulkan.New(p, cfg.Renderer),
		scene:        scene.New(),
		camera:       scene.NewCamera(),
		clock:        core.NewClock(),
		isRunning:    true,
	}, nil
}

func (e *Engine) Initialize() error {
	if err := core.MetricsInitialize(); err != nil {
		return err
	}

	if err := e.platform.Startup(e.cfg.Window.Title,
		e.cfg.Window.X, e.cfg.Window.Y,
		e.cfg.Window.Width, e.cfg.Window.Height); err != nil {
		return err
	}

	if err := e.assetManager.Initialize(e.cfg.Renderer.ShaderDir); err != nil {
		return err
	}

	if err := e.renderer.Initialize(e.cfg.Window.Title, e.cfg.Window.Width, e.cfg.Window.Height); err != nil {
		return err
	}

	scene.BuildDemoScene(e.scene)
	if err := e.uploadScene(); err != nil {
		return err
	}

	e.batcher = renderer.NewDrawBatcher(e.scene.Drawables())
	e.batcher.Sort()

	e.camera.Reset()
	return nil
}

// uploadScene pushes every registered mesh to the GPU and builds one
// pipeline per material.
func (e *Engine) uploadScene() error {
	for _, mesh := range e.scene.Meshes() {
		if err := e.renderer.UploadMesh(mesh, e.scene.Vertices(mesh)); err != nil {
			return err
		}
	}

	vertCode, err := e.assetManager.LoadShaderModule(vertexShaderName)
	if err != nil {
		return err
	}
	for _, material := range e.scene.Materials() {
		fragCode, err := e.assetManager.LoadShaderModule(material.Name + ".frag")
		if err != nil {
			return err
		}
		if err := e.renderer.CreateMaterialPipeline(material, vertCode, fragCode); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) Run() error {
	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	for e.isRunning {
		e.platform.PumpMessages()
		if e.platform.ShouldClose() {
			e.isRunning = false
			break
		}

		if width, height, ok := e.platform.ConsumeResize(); ok {
			if width == 0 || height == 0 {
				core.LogInfo("Window minimized, suspending rendering.")
				e.isSuspended = true
			} else {
				if e.isSuspended {
					core.LogInfo("Window restored, resuming rendering.")
					e.isSuspended = false
				}
				e.renderer.Resized(width, height)
			}
		}

		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		e.lastTime = currentTime

		if e.isSuspended {
			continue
		}

		e.updateCamera(float32(delta))

		if err := e.renderer.DrawFrame(e.frameInput(), e.batcher); err != nil {
			core.LogFatal("draw frame failed, shutting down: %s", err)
		}

		core.MetricsUpdate(delta)
		e.statsTimer += delta
		if e.statsTimer >= 1.0 {
			e.statsTimer = 0
			core.LogDebug("frame %d: %.1f fps, %.2f ms avg", e.renderer.FrameNumber, core.MetricsFPS(), core.MetricsFrameTime())
		}
	}

	return nil
}

// frameInput assembles the GPU-visible data for the next frame: camera
// matrices, scene parameters and the pulsing clear color.
func (e *Engine) frameInput() *vulkan.FrameInput {
	pulse := scene.AmbientPulse(e.renderer.FrameNumber)
	flash := float32(stdmath.Abs(float64(pulse)))

	return &vulkan.FrameInput{
		Camera: e.camera.UniformData(e.renderer.Aspect()),
		Scene: metadata.GPUSceneData{
			AmbientColor: mgl32.Vec4{pulse, 0, 1 - pulse, 1},
			SunDirection: mgl32.Vec4{0.2, -1.0, 0.3, 0},
			SunColor:     mgl32.Vec4{1, 1, 1, 1},
			FogColor:     mgl32.Vec4{0.1, 0.1, 0.1, 1},
			FogDistances: mgl32.Vec4{50, 150, 0, 0},
		},
		ClearColor: [4]float32{0.0, 0.0, flash, 1.0},
	}
}

func (e *Engine) updateCamera(delta float32) {
	amount := cameraSpeed * delta
	if e.platform.KeyDown(glfw.KeyW) {
		e.camera.MoveForward(amount)
	}
	if e.platform.KeyDown(glfw.KeyS) {
		e.camera.MoveBackward(amount)
	}
	if e.platform.KeyDown(glfw.KeyA) {
		e.camera.MoveLeft(amount)
	}
	if e.platform.KeyDown(glfw.KeyD) {
		e.camera.MoveRight(amount)
	}
	if e.platform.KeyDown(glfw.KeySpace) {
		e.camera.MoveUp(amount)
	}
	if e.platform.KeyDown(glfw.KeyLeftShift) {
		e.camera.MoveDown(amount)
	}
}

func (e *Engine) Shutdown() error {
	if err := e.renderer.Shutdown(); err != nil {
		core.LogError(err.Error())
	}
	if err := e.assetManager.Shutdown(); err != nil {
		core.LogError(err.Error())
	}
	return e.platform.Shutdown()
}
