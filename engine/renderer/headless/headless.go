// Package headless is a render system drawing into off-screen windows. It
// needs no display and is what tests and batch runs use.
package headless

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/spaghettifunk/scaffold/engine/core"
	"github.com/spaghettifunk/scaffold/engine/render"
	"github.com/spaghettifunk/scaffold/engine/renderer"
)

const Name = "Headless Software Rendering Subsystem"

// Window parameters understood by CreateRenderWindow.
const (
	// ParamMaxFrames closes the window after that many presented frames.
	ParamMaxFrames = "maxFrames"
	// ParamSnapshot is a .png or .bmp file the last frame is written to
	// when the window is destroyed.
	ParamSnapshot = "snapshot"
)

type System struct {
	initialised bool
	windows     []*Window
}

func New() *System {
	return &System{}
}

func (s *System) Name() string {
	return Name
}

func (s *System) Initialise(customCapabilities string) error {
	if customCapabilities != "" {
		core.LogDebug("%s ignores custom capabilities %s", Name, customCapabilities)
	}
	s.initialised = true
	return nil
}

func (s *System) CreateRenderWindow(name string, width, height uint32, fullscreen bool, params render.NameValuePairList) (render.RenderWindow, error) {
	if !s.initialised {
		return nil, fmt.Errorf("%s: %w", Name, core.ErrNotInitialised)
	}
	w := &Window{}
	if v, ok := params[ParamMaxFrames]; ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("window param %s=%q: %w", ParamMaxFrames, v, core.ErrInvalidParams)
		}
		w.maxFrames = n
	}
	if v, ok := params[ParamSnapshot]; ok {
		switch strings.ToLower(filepath.Ext(v)) {
		case ".png", ".bmp":
			w.snapshot = v
		default:
			return nil, fmt.Errorf("window param %s=%q: only .png and .bmp: %w", ParamSnapshot, v, core.ErrInvalidParams)
		}
	}

	base, err := renderer.NewWindow(name, width, height, fullscreen, w.present)
	if err != nil {
		return nil, err
	}
	w.Window = base
	s.windows = append(s.windows, w)
	core.LogInfo("Created headless window %s (%dx%d)", name, width, height)
	return w, nil
}

// PumpMessages has nothing to do: headless windows get no events.
func (s *System) PumpMessages() {}

func (s *System) Shutdown() error {
	var errs []error
	for _, w := range s.windows {
		if err := w.Destroy(); err != nil {
			errs = append(errs, err)
		}
	}
	s.windows = nil
	s.initialised = false
	return errors.Join(errs...)
}

// Window is an off-screen render window.
type Window struct {
	*renderer.Window

	maxFrames uint64
	snapshot  string
}

func (w *Window) present(frame *image.RGBA) error {
	// the base counter is bumped after present returns
	if w.maxFrames > 0 && w.FramesPresented()+1 >= w.maxFrames {
		w.Close()
	}
	return nil
}

// Destroy writes the snapshot, when one was asked for, then releases the
// window.
func (w *Window) Destroy() error {
	if w.Destroyed() {
		return nil
	}
	var snapErr error
	if w.snapshot != "" {
		snapErr = writeSnapshot(w.snapshot, w.Frame())
		if snapErr == nil {
			core.LogInfo("Snapshot of window %s written to %s", w.Name(), w.snapshot)
		}
	}
	return errors.Join(snapErr, w.Window.Destroy())
}

func writeSnapshot(path string, frame *image.RGBA) (err error) {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if strings.ToLower(filepath.Ext(path)) == ".bmp" {
		return bmp.Encode(f, frame)
	}
	return png.Encode(f, frame)
}
