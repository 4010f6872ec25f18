package warpfx

import "github.com/ditho/warpfx/render/core"

// RendererName identifies a concrete renderer module.
// Keep names aligned with ensureSingleRenderer tags.
type RendererName string

const (
	RendererWGPU     RendererName = "wgpu"
	RendererHeadless RendererName = "headless"
)

// ensureWindowResource guarantees a single shared WindowState resource exists.
// If missing, it creates one with provided overrides or sensible defaults.
func ensureWindowResource(app *App, width, height int, title string) {
	if Resource[WindowState](app) != nil {
		return
	}
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	if title == "" {
		title = "Warp"
	}
	ws, err := createWindowState(width, height, title)
	if err != nil {
		app.Logger().Errorf("Window: %v", err)
		panic(err)
	}
	app.addResources(ws)
	app.Logger().Infof("Created shared window (%dx%d) '%s'", width, height, title)
}

// UseWGPU installs the windowed GPU renderer.
func (app *App) UseWGPU(width, height int, title string) *App {
	app.Logger().Infof("Renderer selected: %s", RendererWGPU)
	app.UseModules(ClientModule{
		WindowWidth:  width,
		WindowHeight: height,
		WindowTitle:  title,
		ClearColor:   core.Black,
	})
	return app
}

// UseHeadless installs the recording renderer.
func (app *App) UseHeadless() *App {
	app.UseModules(HeadlessModule{})
	return app
}
