package warpfx

import (
	"time"
)

// Time is the engine clock. Elapsed only advances while Playing; a paused
// app still renders, which is how edit-mode previews run.
type Time struct {
	Time    time.Time
	Dt      time.Duration
	Elapsed time.Duration
	Playing bool

	fixedStep time.Duration
	now       func() time.Time
}

func (t *Time) DeltaSeconds() float32 { return float32(t.Dt.Seconds()) }

// Seconds is the running time fed to effects.
func (t *Time) Seconds() float32 { return float32(t.Elapsed.Seconds()) }

func (t *Time) Pause()  { t.Playing = false }
func (t *Time) Resume() { t.Playing = true }

type TimeModule struct {
	// FixedStep advances the clock by a constant amount per frame instead
	// of wall time. Used for headless and deterministic runs.
	FixedStep time.Duration
	// StartPaused installs the clock in edit-mode preview.
	StartPaused bool
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Time{
		Time:      time.Now(),
		Playing:   !mod.StartPaused,
		fixedStep: mod.FixedStep,
		now:       time.Now,
	})
	app.UseSystem(
		System(timeSystem).
			InStage(Prelude),
	)
}

func timeSystem(t *Time) {
	if t.fixedStep > 0 {
		t.Dt = t.fixedStep
		t.Time = t.Time.Add(t.fixedStep)
	} else {
		now := t.now()
		t.Dt = now.Sub(t.Time)
		t.Time = now
	}

	if t.Playing {
		t.Elapsed += t.Dt
	}
}
