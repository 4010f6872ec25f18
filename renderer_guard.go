package warpfx

import (
	"fmt"

	"github.com/ditho/warpfx/render/core"
)

// RenderDevice is the device resource effects draw through.
type RenderDevice struct {
	core.Device
}

// RendererTag marks that a renderer has been installed into the App.
type RendererTag struct {
	Name string
}

// ensureSingleRenderer panics if a different renderer is already installed.
func ensureSingleRenderer(app *App, name string) {
	if app == nil {
		panic("ensureSingleRenderer: app is nil")
	}
	if tag := Resource[RendererTag](app); tag != nil {
		if tag.Name != name {
			app.Logger().Errorf("Multiple renderers installed: %s and %s", tag.Name, name)
			panic(fmt.Sprintf("Multiple renderers installed: %s and %s", tag.Name, name))
		}
		return
	}
	app.addResources(&RendererTag{Name: name})
}

// HeadlessModule renders into a core.RecordingDevice. Nothing reaches a
// GPU; draws are kept for inspection.
type HeadlessModule struct {
	// KeepDraws retains draws across frames instead of clearing them at
	// the start of each frame.
	KeepDraws bool
}

func (mod HeadlessModule) Install(app *App, cmd *Commands) {
	ensureSingleRenderer(app, string(RendererHeadless))

	recorder := core.NewRecordingDevice()
	cmd.AddResources(&RenderDevice{Device: recorder})
	if Resource[CameraState](app) == nil {
		cmd.AddResources(NewCameraState())
	}

	if !mod.KeepDraws {
		app.UseSystem(
			System(func(dev *RenderDevice) {
				if rec, ok := dev.Device.(*core.RecordingDevice); ok {
					rec.Reset()
				}
			}).InStage(Prelude),
		)
	}
	app.Logger().Infof("Renderer selected: headless")
}

// Recorder returns the recording device behind a headless app.
func (dev *RenderDevice) Recorder() (*core.RecordingDevice, bool) {
	rec, ok := dev.Device.(*core.RecordingDevice)
	return rec, ok
}
