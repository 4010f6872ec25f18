package warpfx

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/ditho/warpfx/render/core"
	"github.com/ditho/warpfx/render/gpu"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// ClientModule opens a window and renders warp effects on the GPU.
type ClientModule struct {
	WindowWidth  int
	WindowHeight int
	WindowTitle  string
	ClearColor   core.Color
}

type clientState struct {
	window *WindowState
	gpu    *GpuState
	device *gpu.Device
	clear  wgpu.Color
}

func (mod ClientModule) Install(app *App, cmd *Commands) {
	ensureSingleRenderer(app, string(RendererWGPU))
	ensureWindowResource(app, mod.WindowWidth, mod.WindowHeight, mod.WindowTitle)
	window := Resource[WindowState](app)

	gpuState, err := createGpuState(window)
	if err != nil {
		app.Logger().Errorf("ClientModule: %v", err)
		panic(err)
	}
	device, err := gpu.NewDevice(gpuState.device, gpuState.queue, gpuState.surfaceConfig.Format)
	if err != nil {
		app.Logger().Errorf("ClientModule: %v", err)
		panic(err)
	}
	device.SetLogger(app.Logger())

	cam := Resource[CameraState](app)
	if cam == nil {
		cam = NewCameraState()
		cmd.AddResources(cam)
	}
	cam.Aspect = window.Aspect()

	state := &clientState{
		window: window,
		gpu:    gpuState,
		device: device,
		clear: wgpu.Color{
			R: float64(mod.ClearColor.R),
			G: float64(mod.ClearColor.G),
			B: float64(mod.ClearColor.B),
			A: float64(mod.ClearColor.A),
		},
	}
	cmd.AddResources(state, &RenderDevice{Device: device})

	app.UseSystem(
		System(windowEventsSystem).
			InStage(PreUpdate),
	)
	app.UseSystem(
		System(beginFrameSystem).
			InStage(PreRender),
	)
	app.UseSystem(
		System(presentSystem).
			InStage(PostRender),
	)
	app.OnShutdown(func() {
		state.release()
	})
}

func windowEventsSystem(state *clientState, cam *CameraState, app *App) {
	glfw.PollEvents()
	if state.window.ShouldClose() {
		app.Quit()
		return
	}
	if state.window.pollSize() {
		state.gpu.resize(state.window.WindowWidth, state.window.WindowHeight)
		cam.Aspect = state.window.Aspect()
	}
}

func beginFrameSystem(state *clientState, cam *CameraState) {
	state.device.BeginFrame(cam.ViewProjection(), cam.LayerMask)
}

func presentSystem(state *clientState, app *App) {
	if state.window.WindowWidth <= 0 || state.window.WindowHeight <= 0 {
		return
	}
	if err := state.gpu.present(state.clear, state.device.Encode); err != nil {
		app.Logger().Warnf("present: %v", err)
	}
}

func (s *clientState) release() {
	s.device.Release()
	s.gpu.release()
	s.window.destroy()
}
