package warpfx

// TimeControlState tells whether an external scrubber owns the effect's
// clock.
type TimeControlState int

const (
	TimeFree TimeControlState = iota
	TimeControlled
)

func (s TimeControlState) String() string {
	if s == TimeControlled {
		return "controlled"
	}
	return "free"
}

// timeControl holds the override injected by a timeline. The held value is
// only meaningful in TimeControlled.
type timeControl struct {
	state TimeControlState
	held  float32
}

func (tc *timeControl) set(t float64) {
	tc.state = TimeControlled
	tc.held = float32(t)
}

func (tc *timeControl) reset() {
	tc.state = TimeFree
	tc.held = 0
}

// resolve returns the effective local time for a frame.
func (tc timeControl) resolve(ctx FrameContext) float32 {
	if tc.state == TimeControlled {
		return tc.held
	}
	if ctx.Playing {
		return ctx.Time
	}
	return 0
}

// TimeControl is implemented by anything a timeline can scrub.
type TimeControl interface {
	StartControl()
	StopControl()
	SetTime(t float64)
}

// PropertyCollector receives the animatable properties a previewed
// target wants the timeline to save and restore.
type PropertyCollector interface {
	AddProperty(target any, name string)
}

// PropertyPreview is implemented by timeline targets that expose
// animatable properties for preview.
type PropertyPreview interface {
	GatherProperties(collector PropertyCollector)
}
