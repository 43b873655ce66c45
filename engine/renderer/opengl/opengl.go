// Package opengl shows the software framebuffer in a native GLFW window
// through a legacy OpenGL 2.1 context.
package opengl

import (
	"errors"
	"fmt"
	"image"
	"strconv"

	"github.com/go-gl/gl/v2.1/gl"

	"github.com/spaghettifunk/scaffold/engine/core"
	"github.com/spaghettifunk/scaffold/engine/platform"
	"github.com/spaghettifunk/scaffold/engine/render"
	"github.com/spaghettifunk/scaffold/engine/renderer"
)

const Name = "OpenGL Rendering Subsystem"

// Window parameters understood by CreateRenderWindow.
const (
	ParamVSync = "vsync"
	ParamFSAA  = "FSAA"
)

type System struct {
	initialised bool
	glLoaded    bool
	windows     []*Window
}

func New() *System {
	return &System{}
}

func (s *System) Name() string {
	return Name
}

func (s *System) Initialise(customCapabilities string) error {
	if s.initialised {
		return nil
	}
	if customCapabilities != "" {
		core.LogDebug("%s ignores custom capabilities %s", Name, customCapabilities)
	}
	if err := platform.Init(); err != nil {
		return err
	}
	s.initialised = true
	return nil
}

func (s *System) CreateRenderWindow(name string, width, height uint32, fullscreen bool, params render.NameValuePairList) (render.RenderWindow, error) {
	if !s.initialised {
		return nil, fmt.Errorf("%s: %w", Name, core.ErrNotInitialised)
	}
	cfg := platform.WindowConfig{
		Title:      name,
		Width:      width,
		Height:     height,
		Fullscreen: fullscreen,
	}
	if v, ok := params[ParamVSync]; ok {
		vsync, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("window param %s=%q: %w", ParamVSync, v, core.ErrInvalidParams)
		}
		cfg.VSync = vsync
	}
	if v, ok := params[ParamFSAA]; ok {
		samples, err := strconv.Atoi(v)
		if err != nil || samples < 0 {
			return nil, fmt.Errorf("window param %s=%q: %w", ParamFSAA, v, core.ErrInvalidParams)
		}
		cfg.Samples = samples
	}

	p := platform.New()
	if err := p.Startup(cfg); err != nil {
		return nil, err
	}
	if !s.glLoaded {
		if err := gl.Init(); err != nil {
			_ = p.Shutdown()
			return nil, fmt.Errorf("failed to load OpenGL: %w", err)
		}
		s.glLoaded = true
		core.LogInfo("OpenGL version %s", gl.GoStr(gl.GetString(gl.VERSION)))
	}

	fbw, fbh := p.FramebufferSize()
	w := &Window{platform: p}
	base, err := renderer.NewWindow(name, uint32(fbw), uint32(fbh), fullscreen, w.present)
	if err != nil {
		_ = p.Shutdown()
		return nil, err
	}
	w.Window = base
	p.SetResizeCallback(func(width, height int) {
		if width > 0 && height > 0 {
			base.Resize(uint32(width), uint32(height))
		}
	})
	s.windows = append(s.windows, w)
	core.LogInfo("Created OpenGL window %s (%dx%d)", name, fbw, fbh)
	return w, nil
}

func (s *System) PumpMessages() {
	if !s.initialised {
		return
	}
	platform.PumpMessages()
	for _, w := range s.windows {
		if !w.IsClosed() && w.platform.ShouldClose() {
			w.Close()
		}
	}
}

func (s *System) Shutdown() error {
	if !s.initialised {
		return nil
	}
	var errs []error
	for _, w := range s.windows {
		if err := w.Destroy(); err != nil {
			errs = append(errs, err)
		}
	}
	s.windows = nil
	platform.Terminate()
	s.initialised = false
	return errors.Join(errs...)
}

// Window is a native window presenting the software framebuffer.
type Window struct {
	*renderer.Window
	platform *platform.Platform
}

func (w *Window) present(frame *image.RGBA) error {
	if w.platform.ShouldClose() {
		return nil
	}
	size := frame.Bounds().Size()
	w.platform.MakeContextCurrent()
	gl.Viewport(0, 0, int32(size.X), int32(size.Y))
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	// rows of the framebuffer go top to bottom
	gl.RasterPos2f(-1, 1)
	gl.PixelZoom(1, -1)
	gl.DrawPixels(int32(size.X), int32(size.Y), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(frame.Pix))
	w.platform.SwapBuffers()
	return nil
}

func (w *Window) IsClosed() bool {
	return w.Window.IsClosed() || w.platform.ShouldClose()
}

func (w *Window) Destroy() error {
	if w.Destroyed() {
		return nil
	}
	return errors.Join(w.Window.Destroy(), w.platform.Shutdown())
}
