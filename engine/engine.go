// Package engine is the root of the engine: it owns the render systems,
// their windows, the scene managers and the resource groups.
package engine

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/scaffold/engine/containers"
	"github.com/spaghettifunk/scaffold/engine/core"
	"github.com/spaghettifunk/scaffold/engine/render"
	"github.com/spaghettifunk/scaffold/engine/renderer"
	"github.com/spaghettifunk/scaffold/engine/resources"
	"github.com/spaghettifunk/scaffold/engine/scene"
)

// number of frame times kept to smooth the frame time
const eventTimesCount = 60

type Stage uint8

const (
	// Root is created, no render system started yet
	EngineStageUninitialized Stage = iota
	// Render system started, windows can be created
	EngineStageInitialized
	// At least one frame was rendered
	EngineStageRunning
	// Root was shut down, nothing can be used anymore
	EngineStageShutdown
)

// Root implements render.Root.
type Root struct {
	currentStage Stage

	plugins []renderer.System
	active  renderer.System

	windowDefaults WindowConfig
	windows        []render.RenderWindow

	sceneManagers map[string]*scene.Manager
	groups        *resources.GroupManager
	meshes        *resources.MeshManager

	clock      *core.Clock
	metrics    *core.Metrics
	eventTimes *containers.RingQueue[float64]
	lastTime   float64
}

// NewRoot creates the root with the given render system plugins. When the
// plugins file lists render systems, only those are available, in the
// listed order.
func NewRoot(cfg RootConfig, plugins ...renderer.System) (*Root, error) {
	if cfg.LogFilename != "" {
		if err := core.LogConfigure(core.LogOptions{Filename: cfg.LogFilename, Level: cfg.LogLevel}); err != nil {
			return nil, err
		}
	}
	core.LogInfo("*-*-* Creating root")

	available, err := selectPlugins(cfg.PluginsFilename, plugins)
	if err != nil {
		return nil, err
	}

	windowDefaults := DefaultWindowConfig()
	if cfg.ConfigFilename != "" {
		if windowDefaults, err = LoadWindowConfig(cfg.ConfigFilename); err != nil {
			return nil, err
		}
	}

	groups := resources.NewGroupManager()
	return &Root{
		currentStage:   EngineStageUninitialized,
		plugins:        available,
		windowDefaults: windowDefaults,
		sceneManagers:  make(map[string]*scene.Manager),
		groups:         groups,
		meshes:         resources.NewMeshManager(groups),
		clock:          core.NewClock(),
		metrics:        core.NewMetrics(),
		eventTimes:     containers.NewRingQueue[float64](eventTimesCount),
	}, nil
}

func selectPlugins(path string, plugins []renderer.System) ([]renderer.System, error) {
	for _, p := range plugins {
		core.LogInfo("Installing plugin: %s", p.Name())
	}
	if path == "" {
		return plugins, nil
	}
	names, err := LoadPlugins(path)
	if err != nil {
		return nil, err
	}
	if names == nil {
		core.LogWarn("plugins file %s not found, using every registered render system", path)
		return plugins, nil
	}

	byName := make(map[string]renderer.System, len(plugins))
	for _, p := range plugins {
		byName[p.Name()] = p
	}
	out := make([]renderer.System, 0, len(names))
	for _, n := range names {
		p, ok := byName[n]
		if !ok {
			core.LogWarn("plugin %s listed in %s is not registered", n, path)
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *Root) Stage() Stage {
	return r.currentStage
}

func (r *Root) AvailableRenderers() []render.RenderSystem {
	out := make([]render.RenderSystem, len(r.plugins))
	for i, p := range r.plugins {
		out[i] = p
	}
	return out
}

// SetRenderSystem selects one of the available render systems.
func (r *Root) SetRenderSystem(rs render.RenderSystem) error {
	if rs == nil {
		return fmt.Errorf("render system cannot be nil: %w", core.ErrInvalidParams)
	}
	for _, p := range r.plugins {
		if p.Name() == rs.Name() {
			if r.active != nil && r.active != p && r.currentStage != EngineStageUninitialized {
				return fmt.Errorf("render system %q already started: %w", r.active.Name(), core.ErrInvalidState)
			}
			r.active = p
			return nil
		}
	}
	return fmt.Errorf("render system %q: %w", rs.Name(), core.ErrUnknownRenderSystem)
}

func (r *Root) RenderSystem() renderer.System {
	return r.active
}

// Initialise starts the selected render system. With autoCreateWindow a
// window is created from the configured defaults and returned, otherwise
// the returned window is nil.
func (r *Root) Initialise(autoCreateWindow bool, windowTitle string, customCapabilities string) (render.RenderWindow, error) {
	if r.currentStage == EngineStageShutdown {
		return nil, fmt.Errorf("root already shut down: %w", core.ErrInvalidState)
	}
	if r.active == nil {
		return nil, core.ErrNoRenderSystem
	}
	if r.currentStage == EngineStageUninitialized {
		if err := r.active.Initialise(customCapabilities); err != nil {
			return nil, fmt.Errorf("failed to initialise %s: %w", r.active.Name(), err)
		}
		r.currentStage = EngineStageInitialized
		r.clock.Start()
		r.lastTime = 0
		core.LogInfo("*-*-* Root initialised with %s", r.active.Name())
	}
	if !autoCreateWindow {
		return nil, nil
	}

	d := r.windowDefaults
	name := windowTitle
	if name == "" {
		name = d.Name
	}
	return r.CreateRenderWindow(name, d.Width, d.Height, d.Fullscreen, d.Params)
}

func (r *Root) CreateRenderWindow(name string, width, height uint32, fullscreen bool, params render.NameValuePairList) (render.RenderWindow, error) {
	if r.currentStage != EngineStageInitialized && r.currentStage != EngineStageRunning {
		return nil, fmt.Errorf("cannot create window %q: %w", name, core.ErrNotInitialised)
	}
	for _, w := range r.windows {
		if w.Name() == name {
			return nil, fmt.Errorf("render window %q: %w", name, core.ErrDuplicateName)
		}
	}
	w, err := r.active.CreateRenderWindow(name, width, height, fullscreen, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create render window %q: %w", name, err)
	}
	r.windows = append(r.windows, w)
	return w, nil
}

func (r *Root) RenderWindows() []render.RenderWindow {
	return append([]render.RenderWindow(nil), r.windows...)
}

func (r *Root) CreateSceneManager(sceneType render.SceneType, name string) (render.SceneManager, error) {
	if name == "" {
		return nil, fmt.Errorf("scene manager name cannot be empty: %w", core.ErrInvalidParams)
	}
	if _, ok := r.sceneManagers[name]; ok {
		return nil, fmt.Errorf("scene manager %q: %w", name, core.ErrDuplicateName)
	}
	sm := scene.NewManager(sceneType, name, r.meshes)
	r.sceneManagers[name] = sm
	core.LogDebug("Created %s scene manager %s", sceneType, name)
	return sm, nil
}

func (r *Root) SceneManager(name string) (*scene.Manager, bool) {
	sm, ok := r.sceneManagers[name]
	return sm, ok
}

func (r *Root) DestroySceneManager(name string) error {
	if _, ok := r.sceneManagers[name]; !ok {
		return fmt.Errorf("scene manager %q: %w", name, core.ErrItemNotFound)
	}
	delete(r.sceneManagers, name)
	return nil
}

// RenderOneFrame updates every open, auto-updated window and records the
// frame time.
func (r *Root) RenderOneFrame() error {
	if r.currentStage != EngineStageInitialized && r.currentStage != EngineStageRunning {
		return fmt.Errorf("cannot render a frame: %w", core.ErrNotInitialised)
	}
	r.currentStage = EngineStageRunning

	for _, w := range r.windows {
		if w.IsClosed() || !w.IsAutoUpdated() {
			continue
		}
		if err := w.Update(true); err != nil {
			return fmt.Errorf("failed to update window %q: %w", w.Name(), err)
		}
	}

	r.clock.Update()
	now := r.clock.Elapsed()
	delta := now - r.lastTime
	r.lastTime = now
	r.eventTimes.Push(delta)
	if r.metrics.Update(delta) {
		fps, frameTime := r.metrics.Frame()
		core.LogDebug("FPS: %.0f, average frame time: %.3f ms", fps, frameTime)
	}
	return nil
}

// ClearEventTimes drops the frame time history, for instance after a
// long pause between frames.
func (r *Root) ClearEventTimes() {
	r.metrics.Reset()
	r.eventTimes.Clear()
	if r.clock.Running() {
		r.clock.Start()
	}
	r.lastTime = 0
}

// SmoothedFrameTime is the average of the recent frame times, in seconds.
func (r *Root) SmoothedFrameTime() float64 {
	times := r.eventTimes.Values()
	if len(times) == 0 {
		return 0
	}
	sum := 0.0
	for _, t := range times {
		sum += t
	}
	return sum / float64(len(times))
}

func (r *Root) Metrics() *core.Metrics {
	return r.metrics
}

func (r *Root) PumpMessages() {
	if r.active != nil && r.currentStage != EngineStageShutdown {
		r.active.PumpMessages()
	}
}

func (r *Root) ResourceGroupManager() render.ResourceGroupManager {
	return r.groups
}

func (r *Root) ResourceGroups() *resources.GroupManager {
	return r.groups
}

func (r *Root) MeshManager() *resources.MeshManager {
	return r.meshes
}

// Shutdown destroys windows and scene managers, stops the resource
// watchers and shuts the render system down. It can be called twice.
func (r *Root) Shutdown() error {
	if r.currentStage == EngineStageShutdown {
		return nil
	}
	core.LogInfo("*-*-* Shutting down root")

	var errs []error
	for _, w := range r.windows {
		if err := w.Destroy(); err != nil {
			errs = append(errs, err)
		}
	}
	r.windows = nil
	r.sceneManagers = make(map[string]*scene.Manager)

	if err := r.groups.Shutdown(); err != nil {
		errs = append(errs, err)
	}
	if r.active != nil && r.currentStage != EngineStageUninitialized {
		if err := r.active.Shutdown(); err != nil {
			errs = append(errs, err)
		}
	}
	r.clock.Stop()
	r.currentStage = EngineStageShutdown
	return errors.Join(errs...)
}
