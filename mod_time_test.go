package warpfx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeModule_FixedStep(t *testing.T) {
	app := NewAppBuilder().UseModule(TimeModule{FixedStep: 250 * time.Millisecond}).Build()
	clock := Resource[Time](app)
	start := clock.Time

	app.Step()
	app.Step()
	assert.Equal(t, 500*time.Millisecond, clock.Elapsed)
	assert.Equal(t, float32(0.25), clock.DeltaSeconds())
	assert.Equal(t, float32(0.5), clock.Seconds())
	assert.Equal(t, start.Add(500*time.Millisecond), clock.Time)

	clock.Pause()
	app.Step()
	assert.Equal(t, 500*time.Millisecond, clock.Elapsed, "a paused clock keeps its time")
	assert.Equal(t, 250*time.Millisecond, clock.Dt, "frames still tick while paused")

	clock.Resume()
	app.Step()
	assert.Equal(t, 750*time.Millisecond, clock.Elapsed)
}

func TestTimeModule_WallClock(t *testing.T) {
	app := NewAppBuilder().UseModule(TimeModule{StartPaused: true}).Build()
	clock := Resource[Time](app)
	assert.False(t, clock.Playing)

	now := clock.Time
	clock.now = func() time.Time {
		now = now.Add(40 * time.Millisecond)
		return now
	}
	app.Step()
	assert.Equal(t, 40*time.Millisecond, clock.Dt)
	assert.Zero(t, clock.Elapsed)
}
