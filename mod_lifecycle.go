package warpfx

// LifetimeComponent removes its entity once TimeLeft seconds of play time
// have passed. A warp effect on the entity is torn down with it.
type LifetimeComponent struct {
	TimeLeft float32
}

type LifecycleModule struct{}

func (mod LifecycleModule) Install(app *App, cmd *Commands) {
	app.UseSystem(
		System(lifetimeSystem).
			InStage(PostUpdate),
	)
}

func lifetimeSystem(time *Time, cmd *Commands) {
	dt := time.DeltaSeconds()
	if !time.Playing || dt <= 0 {
		return
	}
	logger := cmd.App().Logger()
	MakeQuery1[LifetimeComponent](cmd).Map(func(eid EntityId, lt *LifetimeComponent) bool {
		lt.TimeLeft -= dt
		if lt.TimeLeft <= 0 {
			logger.Debugf("Lifecycle removing entity %v", eid)
			cmd.RemoveEntity(eid)
		}
		return true
	})
}
