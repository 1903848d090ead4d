// Package engine owns everything a simulation run needs: the reference cache,
// the pool of target cache instances, the tracker, and the energy model.
package engine

import (
	"github.com/sarchlab/hbsim/config"
	"github.com/sarchlab/hbsim/energy"
	"github.com/sarchlab/hbsim/epoch"
	"github.com/sarchlab/hbsim/hooking"
	"github.com/sarchlab/hbsim/mem/cache"
	"github.com/sarchlab/hbsim/stats"
	"github.com/sarchlab/hbsim/tracker"
)

// An Engine receives the events of a program and keeps the statistics of
// both architectures.
//
// An Engine is not safe for concurrent use. Callers that share it between
// goroutines must serialize the calls.
type Engine struct {
	cfg    config.Config
	tables energy.Tables
	model  energy.Model
	params [tracker.NumArchs]energy.ArchParams

	reference *cache.Cache
	epochs    *epoch.Controller
	tracker   *tracker.Tracker
}

// New creates an engine. It fails if the configuration is invalid.
func New(cfg config.Config, tables energy.Tables) (*Engine, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	model, err := energy.NewModel(cfg.EnergyModel)
	if err != nil {
		return nil, err
	}

	reference, err := cfg.ReferenceBuilder().Build("reference")
	if err != nil {
		return nil, err
	}

	epochs, err := epoch.NewController(
		"target", cfg.TargetBuilder(), cfg.EpochMarker)
	if err != nil {
		return nil, err
	}

	t := tracker.MakeBuilder().
		WithReference(reference).
		WithTarget(epochs).
		WithTrackLoads(cfg.TrackLoads).
		WithTrackStores(cfg.TrackStores).
		WithReportThreshold(stats.HitMiss{cfg.MissThreshold, cfg.HitThreshold}).
		Build()

	e := &Engine{
		cfg:       cfg,
		tables:    tables,
		model:     model,
		reference: reference,
		epochs:    epochs,
		tracker:   t,
	}

	e.params[tracker.Reference] = tables.Reference.Params
	e.params[tracker.Target] = tables.Target.Params

	return e, nil
}

// OnAccess replays an instruction.
func (e *Engine) OnAccess(a tracker.Access) tracker.AccessResult {
	return e.tracker.OnAccess(a)
}

// OnEnter tells the engine that the program entered a routine. It returns
// true if a new epoch started.
func (e *Engine) OnEnter(routine string) bool {
	return e.epochs.OnEnter(routine)
}

// AcceptHook attaches a hook to the tracker and the epoch controller.
func (e *Engine) AcceptHook(h hooking.Hook) {
	e.tracker.AcceptHook(h)
	e.epochs.AcceptHook(h)
}

// Config returns the configuration of the run.
func (e *Engine) Config() config.Config {
	return e.cfg
}

// Tables returns the power and latency tables.
func (e *Engine) Tables() energy.Tables {
	return e.tables
}

// Model returns the energy model.
func (e *Engine) Model() energy.Model {
	return e.model
}

// Params returns the cost parameters of an architecture. They come with the
// tables.
func (e *Engine) Params(arch tracker.Arch) energy.ArchParams {
	return e.params[arch]
}

// Reference returns the reference cache.
func (e *Engine) Reference() *cache.Cache {
	return e.reference
}

// Epochs returns the controller of the target cache instances.
func (e *Engine) Epochs() *epoch.Controller {
	return e.epochs
}

// Tracker returns the tracker.
func (e *Engine) Tracker() *tracker.Tracker {
	return e.tracker
}

// Caches returns the reference cache followed by every target instance.
func (e *Engine) Caches() []*cache.Cache {
	caches := []*cache.Cache{e.reference}
	return append(caches, e.epochs.Instances()...)
}

// FindCache returns the cache with the given name.
func (e *Engine) FindCache(name string) (*cache.Cache, bool) {
	for _, c := range e.Caches() {
		if c.Name() == name {
			return c, true
		}
	}

	return nil, false
}

// EnergyInput collects what the energy model needs from the final counters.
// Target misses are summed over every epoch.
func (e *Engine) EnergyInput() energy.Input {
	return energy.Input{
		Reference: energy.ArchInput{
			Params:       e.params[tracker.Reference],
			LineSize:     e.reference.LineSize(),
			Tables:       e.tables.Reference,
			Instructions: e.tracker.Counters(tracker.Reference),
			LoadMisses:   e.reference.Misses(cache.AccessLoad),
			StoreMisses:  e.reference.Misses(cache.AccessStore),
		},
		Target: energy.ArchInput{
			Params:       e.params[tracker.Target],
			LineSize:     e.epochs.Live().LineSize(),
			Tables:       e.tables.Target,
			Instructions: e.tracker.Counters(tracker.Target),
			LoadMisses:   e.epochs.Counters(cache.AccessLoad).Misses(),
			StoreMisses:  e.epochs.Counters(cache.AccessStore).Misses(),
		},
		TargetFloor: energy.DefaultTargetFloor,
	}
}
