// Command warpview shows warp effects from a scene file in a window, or
// renders them headless for a fixed number of frames.
package main

import (
	_ "embed"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	warpfx "github.com/ditho/warpfx"
	"github.com/ditho/warpfx/render/core"
)

//go:embed warp.wgsl
var defaultShader string

func main() {
	scenePath := flag.String("scene", "", "Scene file (.json, .yaml). Empty shows a single default warp.")
	shaderPath := flag.String("shader", "", "WGSL file used for warps that name no shader.")
	headless := flag.Bool("headless", false, "Render without a window.")
	frames := flag.Int("frames", 120, "Frames to render in headless mode.")
	save := flag.String("save", "", "Write the spawned scene back out to this file on exit.")
	debug := flag.Bool("debug", false, "Enable debug logging.")
	width := flag.Int("width", 1280, "Window width.")
	height := flag.Int("height", 720, "Window height.")
	flag.Parse()

	if err := run(*scenePath, *shaderPath, *headless, *frames, *save, *debug, *width, *height); err != nil {
		fmt.Fprintln(os.Stderr, "warpview:", err)
		os.Exit(1)
	}
}

func run(scenePath, shaderPath string, headless bool, frames int, save string, debug bool, width, height int) error {
	timeModule := warpfx.TimeModule{}
	if headless {
		timeModule.FixedStep = time.Second / 60
	}

	app := warpfx.NewAppBuilder().
		UseModule(
			warpfx.LoggingModule{Prefix: "warpview", Debug: debug},
			timeModule,
			warpfx.AssetServerModule{},
			warpfx.WarpModule{},
			warpfx.TimelineModule{},
			warpfx.LifecycleModule{},
		).
		Build()

	if headless {
		app.UseHeadless()
	} else {
		app.UseWGPU(width, height, "warpview")
		app.UseModules(warpfx.InputModule{}, warpfx.FlyingCameraModule{})
		app.UseSystem(
			warpfx.System(controlsSystem).
				InStage(warpfx.Update),
		)
	}

	server := warpfx.Resource[warpfx.AssetServer](app)
	fallback, err := loadFallbackShader(server, shaderPath)
	if err != nil {
		return err
	}

	def := warpfx.SceneDef{Warps: []warpfx.WarpDef{warpfx.DefaultWarpDef()}}
	def.Warps[0].Name = "Warp"
	baseDir := "."
	if scenePath != "" {
		def, err = warpfx.LoadScene(scenePath)
		if err != nil {
			return err
		}
		baseDir = filepath.Dir(scenePath)
	}

	for i := range def.Warps {
		def.Warps[i].Config.Shader = fallback
	}
	warpfx.SpawnScene(app.Commands(), server, def, baseDir)
	app.FlushCommands()

	if save != "" {
		app.OnQuit(func() {
			if err := warpfx.SaveScene(save, warpfx.CaptureScene(app.Commands(), server)); err != nil {
				app.Logger().Errorf("save scene: %v", err)
			}
		})
	}

	if headless {
		app.RunFrames(frames)
		if dev := warpfx.Resource[warpfx.RenderDevice](app); dev != nil {
			if rec, ok := dev.Recorder(); ok {
				app.Logger().Infof("Rendered %d frames, %d draws in the last one", frames, len(rec.Draws))
			}
		}
		return nil
	}
	app.Run()
	return nil
}

func loadFallbackShader(server *warpfx.AssetServer, path string) (*core.Shader, error) {
	if path == "" {
		_, shader := server.CreateShader("warp.wgsl", defaultShader, warpfx.WarpParams...)
		return shader, nil
	}
	_, shader, err := server.LoadShader(path, warpfx.WarpParams...)
	return shader, err
}

// controlsSystem: Escape quits, P pauses the clock, E toggles every warp,
// Minus and Equal scale the warp speed, Up and Down double or halve the
// line count, R rewinds the timeline and Left/Right scrub it.
func controlsSystem(input *warpfx.Input, t *warpfx.Time, d *warpfx.Director, app *warpfx.App, cmd *warpfx.Commands) {
	if input.JustPressed[warpfx.KeyEscape] {
		app.Quit()
	}
	if input.JustPressed[warpfx.KeyP] {
		if t.Playing {
			t.Pause()
		} else {
			t.Resume()
		}
	}

	switch {
	case input.JustPressed[warpfx.KeyR]:
		d.Scrub(0)
	case input.JustPressed[warpfx.KeyLeft]:
		d.ScrubTo(d.Time()-scrubStep, scrubDuration, nil)
	case input.JustPressed[warpfx.KeyRight]:
		d.ScrubTo(d.Time()+scrubStep, scrubDuration, nil)
	}

	speed := float32(1)
	switch {
	case input.JustPressed[warpfx.KeyEqual]:
		speed = 1.25
	case input.JustPressed[warpfx.KeyMinus]:
		speed = 0.8
	}
	lines := 1.0
	switch {
	case input.JustPressed[warpfx.KeyUp]:
		lines = 2
	case input.JustPressed[warpfx.KeyDown]:
		lines = 0.5
	}
	toggle := input.JustPressed[warpfx.KeyE]
	if speed == 1 && lines == 1 && !toggle {
		return
	}
	warpfx.MakeQuery1[warpfx.WarpComponent](cmd).Map(func(eid warpfx.EntityId, wc *warpfx.WarpComponent) bool {
		wc.Config.Speed *= speed
		wc.Config.LineCount = int(float64(wc.Config.LineCount) * lines)
		if toggle {
			wc.Enabled = !wc.Enabled
		}
		return true
	})
}

const (
	scrubStep     = 1.0
	scrubDuration = 0.25
)
