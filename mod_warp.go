package warpfx

import (
	"github.com/go-gl/mathgl/mgl32"
)

// WarpComponent attaches a warp effect to an entity. The entity's
// TransformComponent, if any, places the effect.
type WarpComponent struct {
	Config  WarpConfig
	Layer   int
	Enabled bool
}

func NewWarpComponent(cfg WarpConfig) WarpComponent {
	return WarpComponent{Config: cfg, Enabled: true}
}

// WarpState owns one WarpEffect per entity. Effects are created the first
// frame their entity is seen and torn down when the entity or its
// WarpComponent goes away.
type WarpState struct {
	effects map[EntityId]*WarpEffect
}

func (s *WarpState) Effect(eid EntityId) (*WarpEffect, bool) {
	e, ok := s.effects[eid]
	return e, ok
}

func (s *WarpState) Len() int { return len(s.effects) }

// TimeControlFor lets a timeline bind to an entity's effect.
func (s *WarpState) TimeControlFor(eid EntityId) (TimeControl, bool) {
	e, ok := s.effects[eid]
	if !ok {
		return nil, false
	}
	return e, true
}

func (s *WarpState) release(eid EntityId) {
	if e, ok := s.effects[eid]; ok {
		e.Teardown()
		delete(s.effects, eid)
	}
}

type WarpModule struct{}

func (WarpModule) Install(app *App, cmd *Commands) {
	state := &WarpState{effects: make(map[EntityId]*WarpEffect)}
	cmd.AddResources(state)

	app.UseSystem(
		System(warpSyncSystem).
			InStage(PostUpdate),
	)
	app.UseSystem(
		System(warpRenderSystem).
			InStage(Render),
	)

	app.OnRemove(func(eid EntityId, components []any) {
		for _, c := range components {
			if _, ok := c.(WarpComponent); ok {
				state.release(eid)
				return
			}
		}
	})
}

// warpSyncSystem is the edit hook: it validates component configs in
// place, pushes changes into the effects and follows Enabled.
func warpSyncSystem(state *WarpState, dev *RenderDevice, app *App, cmd *Commands) {
	seen := make(map[EntityId]struct{}, len(state.effects))

	MakeQuery1[WarpComponent](cmd).Map(func(eid EntityId, wc *WarpComponent) bool {
		seen[eid] = struct{}{}
		wc.Config.Validate()

		effect, ok := state.effects[eid]
		if !ok {
			effect = NewWarpEffect(dev.Device, wc.Config, WithLogger(app.Logger()))
			state.effects[eid] = effect
			app.Logger().Debugf("warp: effect created for entity %d", eid)
		} else if effect.Config() != wc.Config {
			effect.Configure(wc.Config)
		}

		if wc.Enabled && !effect.Active() {
			effect.Activate()
		} else if !wc.Enabled && effect.Active() {
			effect.Deactivate()
		}
		return true
	})

	for eid := range state.effects {
		if _, ok := seen[eid]; !ok {
			state.release(eid)
		}
	}
}

// warpRenderSystem runs late in the frame, after every other system has
// moved things, and draws each active effect once.
func warpRenderSystem(state *WarpState, t *Time, cmd *Commands) {
	MakeQuery2[WarpComponent, TransformComponent](cmd).Map(func(eid EntityId, wc *WarpComponent, tr *TransformComponent) bool {
		effect, ok := state.effects[eid]
		if !ok {
			return true
		}
		ctx := FrameContext{
			Time:    t.Seconds(),
			Playing: t.Playing,
			Layer:   wc.Layer,
		}
		if tr != nil {
			ctx.Transform = tr.ObjectToWorld()
		} else {
			ctx.Transform = mgl32.Ident4()
		}
		effect.Tick(ctx)
		return true
	}, TransformComponent{})
}
