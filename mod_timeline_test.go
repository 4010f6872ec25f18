package warpfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanema/gween/ease"
)

// controlProbe records what a director does to its target.
type controlProbe struct {
	calls []string
	times []float64
}

func (p *controlProbe) StartControl() { p.calls = append(p.calls, "start") }
func (p *controlProbe) StopControl()  { p.calls = append(p.calls, "stop") }
func (p *controlProbe) SetTime(t float64) {
	p.calls = append(p.calls, "set")
	p.times = append(p.times, t)
}

func staticResolve(tr *ControlTrack) TimeControl { return tr.Target }

func TestControlClip_LocalTime(t *testing.T) {
	clip := &ControlClip{Start: 2, Duration: 4, ClipIn: 1}
	assert.InDelta(t, 1, clip.LocalTime(2), 1e-9)
	assert.InDelta(t, 3, clip.LocalTime(4), 1e-9)
	assert.InDelta(t, 1, clip.LocalTime(0), 1e-9, "before the clip holds at ClipIn")

	fast := &ControlClip{Start: 0, Duration: 4, Speed: 2}
	assert.InDelta(t, 6, fast.LocalTime(3), 1e-9)

	eased := &ControlClip{Start: 0, Duration: 4, Ease: ease.InQuad}
	assert.InDelta(t, 0, eased.LocalTime(0), 1e-5)
	assert.InDelta(t, 1, eased.LocalTime(2), 1e-5)
	assert.InDelta(t, 4, eased.LocalTime(4), 1e-5)
}

func TestDirector_EnterInsideLeave(t *testing.T) {
	probe := &controlProbe{}
	d := NewDirector()
	d.BindTarget("warp", probe).AddClip(&ControlClip{Start: 1, Duration: 2, ClipIn: 10})

	d.Scrub(0.5)
	d.Evaluate(staticResolve)
	assert.Empty(t, probe.calls)

	d.Scrub(1.5)
	d.Evaluate(staticResolve)
	d.Scrub(2)
	d.Evaluate(staticResolve)
	d.Scrub(3.5)
	d.Evaluate(staticResolve)

	assert.Equal(t, []string{"start", "set", "set", "stop"}, probe.calls)
	assert.InDeltaSlice(t, []float64{10.5, 11}, probe.times, 1e-9)
}

func TestDirector_BackToBackClipsHandOver(t *testing.T) {
	probe := &controlProbe{}
	d := NewDirector()
	d.BindTarget("warp", probe).
		AddClip(&ControlClip{Start: 0, Duration: 1}).
		AddClip(&ControlClip{Start: 1, Duration: 1, ClipIn: 5})

	d.Scrub(0.5)
	d.Evaluate(staticResolve)
	d.Scrub(1.5)
	d.Evaluate(staticResolve)

	assert.Equal(t, []string{"start", "set", "stop", "start", "set"}, probe.calls)
	assert.InDelta(t, 5.5, probe.times[1], 1e-9)
}

func TestDirector_PlayAndWrap(t *testing.T) {
	probe := &controlProbe{}
	d := NewDirector()
	d.BindTarget("warp", probe).AddClip(&ControlClip{Start: 0, Duration: 1})

	d.Wrap = WrapLoop
	d.Play()
	d.advance(0.75, staticResolve)
	d.advance(0.5, staticResolve)
	assert.InDelta(t, 0.25, d.Time(), 1e-6)
	assert.True(t, d.Playing())

	d.Wrap = WrapHold
	d.advance(2, staticResolve)
	assert.InDelta(t, 1, d.Time(), 1e-9)
	assert.False(t, d.Playing())
}

func TestDirector_WrapHoldKeepsTarget(t *testing.T) {
	probe := &controlProbe{}
	d := NewDirector()
	d.Wrap = WrapHold
	d.BindTarget("warp", probe).AddClip(&ControlClip{Start: 0, Duration: 1, ClipIn: 7})

	d.Play()
	for i := 0; i < 5; i++ {
		d.advance(0.4, staticResolve)
		d.Evaluate(staticResolve)
	}

	assert.False(t, d.Playing())
	assert.NotContains(t, probe.calls, "stop")
	assert.InDelta(t, 8, probe.times[len(probe.times)-1], 1e-6, "held at the clip end")

	d.Scrub(2)
	d.Evaluate(staticResolve)
	assert.Equal(t, "stop", probe.calls[len(probe.calls)-1], "moving off the end releases it")
}

func TestTimelineModule_WrapHoldKeepsEffectTime(t *testing.T) {
	app, rec := newHeadlessApp(t, TimelineModule{})
	eid := spawnWarp(app, 1)

	d := Resource[Director](app)
	d.Wrap = WrapHold
	d.BindEntity("warp", eid).AddClip(&ControlClip{Start: 0, Duration: 0.25, ClipIn: 7})
	d.Play()

	for i := 0; i < 6; i++ {
		app.Step()
	}

	effect, _ := Resource[WarpState](app).Effect(eid)
	assert.Equal(t, TimeControlled, effect.TimeControlState())
	require.Len(t, rec.Draws, 1)
	assert.InDelta(t, 7.25+TimeBias, rec.Draws[0].Params[ParamLocalTime].X(), 1e-4)
}

func TestDirector_WrapNoneStops(t *testing.T) {
	probe := &controlProbe{}
	d := NewDirector()
	d.Wrap = WrapNone
	d.BindTarget("warp", probe).AddClip(&ControlClip{Start: 0, Duration: 1})

	d.Play()
	d.advance(0.5, staticResolve)
	d.Evaluate(staticResolve)
	d.advance(1, staticResolve)
	d.Evaluate(staticResolve)

	assert.Equal(t, []string{"start", "set", "stop"}, probe.calls)
	assert.Equal(t, float64(0), d.Time())
	assert.False(t, d.Playing())
}

func TestDirector_ScrubTo(t *testing.T) {
	d := NewDirector()
	d.ScrubTo(2, 1, nil)

	d.advance(0.5, staticResolve)
	assert.InDelta(t, 1, d.Time(), 1e-5)
	d.advance(0.5, staticResolve)
	assert.InDelta(t, 2, d.Time(), 1e-5)
	d.advance(0.5, staticResolve)
	assert.InDelta(t, 2, d.Time(), 1e-5, "the scrub is over and the director is not playing")
}

func TestDirector_StopReleasesActiveClips(t *testing.T) {
	probe := &controlProbe{}
	d := NewDirector()
	d.BindTarget("warp", probe).AddClip(&ControlClip{Start: 0, Duration: 5})

	d.Scrub(1)
	d.Evaluate(staticResolve)
	d.Stop(staticResolve)
	d.Evaluate(staticResolve)

	assert.Equal(t, []string{"start", "set", "stop"}, probe.calls)
}

func TestDirector_PreviewOfWarpIsEmpty(t *testing.T) {
	e, _ := newTestEffect(1)
	d := NewDirector()
	d.BindTarget("warp", e)
	d.BindTarget("unbound", nil)

	assert.Empty(t, d.Preview(staticResolve).Entries)
}

func TestTimelineModule_DrivesWarpEntity(t *testing.T) {
	app, rec := newHeadlessApp(t, TimelineModule{})
	eid := spawnWarp(app, 1)

	d := Resource[Director](app)
	require.NotNil(t, d)
	d.BindEntity("warp", eid).AddClip(&ControlClip{Start: 0, Duration: 10, ClipIn: 3})
	d.Play()

	// frame 1 creates the effect; the clip has the target from then on
	app.Step()
	app.Step()

	effect, ok := Resource[WarpState](app).Effect(eid)
	require.True(t, ok)
	assert.Equal(t, TimeControlled, effect.TimeControlState())
	require.Len(t, rec.Draws, 1)
	assert.InDelta(t, 3+0.2+TimeBias, rec.Draws[0].Params[ParamLocalTime].X(), 1e-4)

	d.Stop(TrackResolver(app))
	assert.Equal(t, TimeFree, effect.TimeControlState())
	app.Step()
	assert.InDelta(t, 0.3+TimeBias, rec.Draws[0].Params[ParamLocalTime].X(), 1e-4)
}

func TestTrackResolver(t *testing.T) {
	app, _ := newHeadlessApp(t, TimelineModule{})
	resolve := TrackResolver(app)

	probe := &controlProbe{}
	assert.Same(t, probe, resolve(&ControlTrack{Target: probe}))
	assert.Nil(t, resolve(&ControlTrack{}))
	assert.Nil(t, resolve(&ControlTrack{Entity: 42, Bound: true}))
}
