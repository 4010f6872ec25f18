package warpfx

import (
	"fmt"
	"reflect"
	"runtime"
)

type systemFn any

type Module interface {
	Install(app *App, cmd *Commands)
}

type App struct {
	stages    []Stage
	systems   map[string][]systemFn
	resources map[reflect.Type]any
	ecs       *Ecs

	removeObservers []func(EntityId, []any)
	quitHooks       []func()
	shutdownHooks   []func()
	quit            bool
	stopped         bool
	frame           uint64

	// Command Buffering
	pendingAdditions    []pendingAdd
	pendingRemovals     []EntityId
	pendingCompAdds     []pendingCompAdd
	pendingCompRemovals []pendingCompAdd
}

type pendingAdd struct {
	eid        EntityId
	components []any
}

type pendingCompAdd struct {
	eid        EntityId
	components []any
}

// NewApp returns an app with the default stages and no modules.
func NewApp() *App {
	return NewAppBuilder().Build()
}

func (app *App) Commands() *Commands {
	return &Commands{
		app: app,
	}
}

func (app *App) UseModules(modules ...Module) *App {
	cmd := app.Commands()
	for _, module := range modules {
		module.Install(app, cmd)
	}
	return app
}

// Run ticks frames until Quit is called.
func (app *App) Run() {
	app.Logger().Infof("Running %d stages", len(app.stages))
	for !app.quit {
		app.Step()
	}
	app.shutdown()
}

// RunFrames ticks exactly n frames, then shuts down. Used for headless
// rendering and tests.
func (app *App) RunFrames(n int) {
	for i := 0; i < n && !app.quit; i++ {
		app.Step()
	}
	app.shutdown()
}

// Step runs every stage once.
func (app *App) Step() {
	for _, stage := range app.stages {
		for _, system := range app.systems[stage.Name] {
			app.callSystem(system)
		}
		app.FlushCommands()
	}
	app.frame++
}

func (app *App) Frame() uint64 { return app.frame }

func (app *App) Quit() { app.quit = true }

// shutdown runs the quit hooks while the world is intact, removes every
// live entity so removal observers can release what they own, then runs
// the shutdown hooks in reverse order.
func (app *App) shutdown() {
	if app.stopped {
		return
	}
	app.stopped = true
	for _, fn := range app.quitHooks {
		fn()
	}
	for eid := range app.ecs.entityIndex {
		app.pendingRemovals = append(app.pendingRemovals, eid)
	}
	app.FlushCommands()
	for i := len(app.shutdownHooks) - 1; i >= 0; i-- {
		app.shutdownHooks[i]()
	}
}

// OnQuit registers fn to run once when the app stops, before any entity
// is removed.
func (app *App) OnQuit(fn func()) {
	app.quitHooks = append(app.quitHooks, fn)
}

// OnShutdown registers fn to run once when the app stops, after every
// entity has been removed.
func (app *App) OnShutdown(fn func()) {
	app.shutdownHooks = append(app.shutdownHooks, fn)
}

// OnRemove registers fn to be called with the components of every entity
// right before it is removed.
func (app *App) OnRemove(fn func(eid EntityId, components []any)) {
	app.removeObservers = append(app.removeObservers, fn)
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// Resource returns the resource of type T, or nil if none was installed.
func Resource[T any](app *App) *T {
	var zero T
	if res, ok := app.resources[reflect.TypeOf(zero)]; ok {
		return res.(*T)
	}
	return nil
}

var typeOfCommands = reflect.TypeOf(Commands{})
var typeOfApp = reflect.TypeOf(App{})

func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		if argType.Kind() != reflect.Pointer {
			app.unresolved(systemValue, systemType, argType)
		}
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if underlyingType == typeOfApp {
			args[i] = reflect.ValueOf(app)
		} else if resource, argIsResource := app.resources[underlyingType]; argIsResource {
			args[i] = reflect.ValueOf(resource)
		} else {
			app.unresolved(systemValue, systemType, argType)
		}
	}
	systemValue.Call(args)
}

func (app *App) unresolved(systemValue reflect.Value, systemType reflect.Type, argType reflect.Type) {
	msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
		runtime.FuncForPC(systemValue.Pointer()).Name(),
		fmt.Sprint(systemType),
		fmt.Sprint(argType),
	)
	app.Logger().Errorf("%s", msg)
	panic(msg)
}

func (app *App) FlushCommands() {
	if len(app.pendingAdditions) == 0 && len(app.pendingRemovals) == 0 &&
		len(app.pendingCompAdds) == 0 && len(app.pendingCompRemovals) == 0 {
		return
	}

	// Removals first so we don't add to dead entities
	for _, eid := range app.pendingRemovals {
		if !app.ecs.hasEntity(eid) {
			continue
		}
		if len(app.removeObservers) > 0 {
			comps := app.ecs.allComponents(eid)
			for _, fn := range app.removeObservers {
				fn(eid, comps)
			}
		}
		app.ecs.removeEntity(eid)
	}
	app.pendingRemovals = app.pendingRemovals[:0]

	for _, add := range app.pendingAdditions {
		app.ecs.insertEntity(add.eid, add.components...)
	}
	app.pendingAdditions = app.pendingAdditions[:0]

	for _, add := range app.pendingCompAdds {
		if app.ecs.hasEntity(add.eid) {
			app.ecs.addComponents(add.eid, add.components...)
		}
	}
	app.pendingCompAdds = app.pendingCompAdds[:0]

	for _, rem := range app.pendingCompRemovals {
		if app.ecs.hasEntity(rem.eid) {
			app.ecs.removeComponents(rem.eid, rem.components...)
		}
	}
	app.pendingCompRemovals = app.pendingCompRemovals[:0]
}
