// Package framework frames a program that renders a 3D scene: it selects a
// render system, opens a window and drives a per-frame action until the
// window is closed.
package framework

import (
	"context"
	"errors"
	"fmt"

	"github.com/spaghettifunk/scaffold/engine/core"
	"github.com/spaghettifunk/scaffold/engine/render"
)

// Initiator holds everything needed to initialise the framework.
type Initiator struct {
	// Configuration and logging
	CustomCapabilities string
	ConfigFilename     string
	PluginsFilename    string
	LogFilename        string

	// Window initialisation
	WindowName   string
	SizeX        uint32
	SizeY        uint32
	Fullscreen   bool
	AutoWindow   bool
	WindowParams render.NameValuePairList
}

// Framework is the render context. It owns the engine root and the window.
type Framework struct {
	root         render.Root
	window       render.RenderWindow
	renderSystem render.RenderSystem
	ready        bool
}

// New selects the first available render system and initialises the root
// without an automatic window unless the initiator asks for one. When no
// render system is available the framework is returned not ready.
func New(root render.Root, initiator *Initiator) (*Framework, error) {
	if root == nil || initiator == nil {
		return nil, fmt.Errorf("framework.New: root and initiator are required: %w", core.ErrInvalidParams)
	}
	f := &Framework{root: root, ready: true}

	if err := f.setupRenderSystems(); err != nil {
		return nil, err
	}

	if f.ready {
		w, err := f.root.Initialise(initiator.AutoWindow, initiator.WindowName, initiator.CustomCapabilities)
		if err != nil {
			return nil, fmt.Errorf("failed to initialise root: %w", err)
		}
		if w != nil {
			f.window = w
		}
	}
	return f, nil
}

// setupRenderSystems must be performed before any window is created.
func (f *Framework) setupRenderSystems() error {
	renderSystems := f.root.AvailableRenderers()

	if len(renderSystems) == 0 {
		core.LogError("No render systems found!")
		f.ready = false
		return nil
	}
	// just snag the first one on the list
	f.renderSystem = renderSystems[0]

	if err := f.root.SetRenderSystem(f.renderSystem); err != nil {
		return fmt.Errorf("failed to select render system %q: %w", f.renderSystem.Name(), err)
	}
	core.LogInfo("Render System Selected: %s", f.renderSystem.Name())
	return nil
}

// CreateWindow creates the render window described by the initiator. It
// does nothing but log when the framework is not ready.
func (f *Framework) CreateWindow(initiator *Initiator) error {
	if !f.ready {
		core.LogWarn("Not ready...not creating a window.")
		return nil
	}

	w, err := f.root.CreateRenderWindow(
		initiator.WindowName,
		initiator.SizeX,
		initiator.SizeY,
		initiator.Fullscreen,
		initiator.WindowParams)
	if err != nil {
		return fmt.Errorf("failed to create window %q: %w", initiator.WindowName, err)
	}
	f.window = w

	core.LogInfo("Window %s created!", initiator.WindowName)
	return nil
}

// RunWindow pumps window events and runs the action once per iteration
// until the window is closed, the context is cancelled, or the action
// reports it is done. An error returned by the action stops the loop and
// is returned as is.
func (f *Framework) RunWindow(ctx context.Context, action Action) error {
	if !f.ready {
		core.LogWarn("Not ready...not running the window.")
		return nil
	}
	if f.window == nil {
		return fmt.Errorf("cannot run the window: %w", core.ErrNoRenderWindow)
	}
	if action == nil {
		return fmt.Errorf("cannot run the window without an action: %w", core.ErrInvalidParams)
	}

	finisher, _ := action.(Finisher)
	for !f.window.IsClosed() {
		if ctx.Err() != nil {
			core.LogInfo("Run loop cancelled: %s", context.Cause(ctx))
			return nil
		}

		f.root.PumpMessages()
		// pumping events may close the window
		if f.window.IsClosed() {
			break
		}
		if err := action.Run(); err != nil {
			return err
		}

		if finisher != nil && finisher.Done() {
			core.LogDebug("Action done, leaving the run loop.")
			return nil
		}
	}
	return nil
}

// Close destroys the window and shuts the root down. Every engine object
// obtained through the framework is invalid afterwards.
func (f *Framework) Close() error {
	var errs []error
	if f.window != nil {
		if err := f.window.Destroy(); err != nil {
			errs = append(errs, err)
		}
		f.window = nil
	}
	if f.root != nil {
		if err := f.root.Shutdown(); err != nil {
			errs = append(errs, err)
		}
		f.root = nil
	}
	f.renderSystem = nil
	f.ready = false
	return errors.Join(errs...)
}

// Ready reports whether a render system was found and the root initialised.
func (f *Framework) Ready() bool {
	return f.ready
}

func (f *Framework) Root() render.Root {
	return f.root
}

func (f *Framework) Window() render.RenderWindow {
	return f.window
}

func (f *Framework) RenderSystem() render.RenderSystem {
	return f.renderSystem
}
