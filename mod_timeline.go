package warpfx

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ControlClip drives a target's clock for a window of director time.
// Inside the window the target sees ClipIn plus the elapsed clip time
// scaled by Speed, remapped through Ease when one is set.
type ControlClip struct {
	Start    float64
	Duration float64
	ClipIn   float64
	Speed    float64 // zero means 1
	Ease     ease.TweenFunc

	active bool
}

func (c *ControlClip) End() float64 { return c.Start + c.Duration }

func (c *ControlClip) contains(t float64) bool {
	return t >= c.Start && t < c.End()
}

func (c *ControlClip) speed() float64 {
	if c.Speed == 0 {
		return 1
	}
	return c.Speed
}

// LocalTime maps director time t to the clip's local time.
func (c *ControlClip) LocalTime(t float64) float64 {
	offset := math.Max(0, t-c.Start)
	span := c.Duration * c.speed()
	if c.Ease == nil || c.Duration <= 0 {
		return c.ClipIn + offset*c.speed()
	}
	tween := gween.New(float32(c.ClipIn), float32(c.ClipIn+span), float32(c.Duration), c.Ease)
	v, _ := tween.Set(float32(offset))
	return float64(v)
}

// ControlTrack binds clips to one target. Target wins over Entity; an
// Entity binding is resolved each frame through the WarpState.
type ControlTrack struct {
	Name   string
	Target TimeControl
	Entity EntityId
	Bound  bool
	Clips  []*ControlClip
}

func (tr *ControlTrack) AddClip(clip *ControlClip) *ControlTrack {
	tr.Clips = append(tr.Clips, clip)
	return tr
}

type WrapMode int

const (
	WrapHold WrapMode = iota
	WrapLoop
	WrapNone
)

// Director plays control tracks against a playhead. It can run from the
// engine clock or be scrubbed by hand.
type Director struct {
	Tracks   []*ControlTrack
	Wrap     WrapMode
	Duration float64 // zero: end of the last clip

	time    float64
	playing bool
	stopped bool
	held    bool // parked at the end by WrapHold
	scrub   *gween.Tween
}

func NewDirector() *Director {
	return &Director{}
}

// BindTarget adds a track driving target.
func (d *Director) BindTarget(name string, target TimeControl) *ControlTrack {
	tr := &ControlTrack{Name: name, Target: target}
	d.Tracks = append(d.Tracks, tr)
	return tr
}

// BindEntity adds a track driving the warp effect on eid.
func (d *Director) BindEntity(name string, eid EntityId) *ControlTrack {
	tr := &ControlTrack{Name: name, Entity: eid, Bound: true}
	d.Tracks = append(d.Tracks, tr)
	return tr
}

func (d *Director) Time() float64 { return d.time }
func (d *Director) Playing() bool { return d.playing }
func (d *Director) Pause()        { d.playing = false }

func (d *Director) Play() {
	d.playing = true
	d.stopped = false
	d.held = false
}

// Scrub jumps the playhead to t. The jump is applied on the next
// evaluation.
func (d *Director) Scrub(t float64) {
	d.scrub = nil
	d.stopped = false
	d.held = false
	d.time = math.Max(0, t)
}

// ScrubTo animates the playhead to t over duration seconds of engine time.
func (d *Director) ScrubTo(t float64, duration float32, easing ease.TweenFunc) {
	if easing == nil {
		easing = ease.Linear
	}
	d.stopped = false
	d.held = false
	d.scrub = gween.New(float32(d.time), float32(math.Max(0, t)), duration, easing)
}

// Stop rewinds, stops playback and releases every controlled target.
func (d *Director) Stop(resolve func(*ControlTrack) TimeControl) {
	d.playing = false
	d.stopped = true
	d.held = false
	d.scrub = nil
	d.time = 0
	for _, tr := range d.Tracks {
		target := resolve(tr)
		for _, c := range tr.Clips {
			if c.active {
				c.active = false
				if target != nil {
					target.StopControl()
				}
			}
		}
	}
}

func (d *Director) length() float64 {
	if d.Duration > 0 {
		return d.Duration
	}
	var end float64
	for _, tr := range d.Tracks {
		for _, c := range tr.Clips {
			end = math.Max(end, c.End())
		}
	}
	return end
}

// advance moves the playhead by dt seconds.
func (d *Director) advance(dt float32, resolve func(*ControlTrack) TimeControl) {
	if d.scrub != nil {
		v, done := d.scrub.Update(dt)
		d.time = float64(v)
		if done {
			d.scrub = nil
		}
		return
	}
	if !d.playing {
		return
	}

	d.time += float64(dt)
	length := d.length()
	if length <= 0 || d.time < length {
		return
	}
	switch d.Wrap {
	case WrapLoop:
		d.time = math.Mod(d.time, length)
	case WrapHold:
		d.time = length
		d.playing = false
		d.held = true
	case WrapNone:
		d.Stop(resolve)
	}
}

// covers reports whether the playhead is inside c. A held director keeps
// the clips ending at the playhead.
func (d *Director) covers(c *ControlClip) bool {
	if c.contains(d.time) {
		return true
	}
	return d.held && c.Duration > 0 && d.time == c.End()
}

// Evaluate applies the playhead to every track. Clips being left release
// their target before clips being entered take it, so back to back clips
// hand over cleanly.
func (d *Director) Evaluate(resolve func(*ControlTrack) TimeControl) {
	if d.stopped {
		return
	}
	for _, tr := range d.Tracks {
		target := resolve(tr)
		if target == nil {
			continue
		}
		for _, c := range tr.Clips {
			if c.active && !d.covers(c) {
				c.active = false
				target.StopControl()
			}
		}
		for _, c := range tr.Clips {
			if !d.covers(c) {
				continue
			}
			if !c.active {
				c.active = true
				target.StartControl()
			}
			target.SetTime(c.LocalTime(d.time))
		}
	}
}

// PropertyList collects what timeline targets expose for preview.
type PropertyList struct {
	Entries []PropertyEntry
}

type PropertyEntry struct {
	Target any
	Name   string
}

func (p *PropertyList) AddProperty(target any, name string) {
	p.Entries = append(p.Entries, PropertyEntry{Target: target, Name: name})
}

// Preview gathers the animatable properties of every bound target.
func (d *Director) Preview(resolve func(*ControlTrack) TimeControl) *PropertyList {
	props := &PropertyList{}
	for _, tr := range d.Tracks {
		if pp, ok := resolve(tr).(PropertyPreview); ok {
			pp.GatherProperties(props)
		}
	}
	return props
}

type TimelineModule struct{}

func (TimelineModule) Install(app *App, cmd *Commands) {
	if Resource[Director](app) == nil {
		cmd.AddResources(NewDirector())
	}
	app.UseSystem(
		System(timelineSystem).
			InStage(PreRender),
	)
}

// TrackResolver returns the function that finds a track's target inside
// app.
func TrackResolver(app *App) func(*ControlTrack) TimeControl {
	return func(tr *ControlTrack) TimeControl {
		if tr.Target != nil {
			return tr.Target
		}
		if !tr.Bound {
			return nil
		}
		state := Resource[WarpState](app)
		if state == nil {
			return nil
		}
		if tc, ok := state.TimeControlFor(tr.Entity); ok {
			return tc
		}
		return nil
	}
}

func timelineSystem(d *Director, t *Time, app *App) {
	resolve := TrackResolver(app)
	d.advance(t.DeltaSeconds(), resolve)
	d.Evaluate(resolve)
}
