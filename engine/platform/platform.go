package platform

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/scaffold/engine/core"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

// WindowConfig describes the native window to open.
type WindowConfig struct {
	Title      string
	PosX       int
	PosY       int
	Width      uint32
	Height     uint32
	Fullscreen bool
	// Samples is the multisampling hint, 0 disables it.
	Samples int
	VSync   bool
}

type Platform struct {
	Window   *glfw.Window
	onResize func(width, height int)
}

func New() *Platform {
	return &Platform{
		Window: nil,
	}
}

// Init starts GLFW. It must be called once before any window is created.
func Init() error {
	if err := glfw.Init(); err != nil {
		core.LogError("failed to initialize glfw: %s", err)
		return err
	}
	return nil
}

// Terminate destroys the remaining windows and stops GLFW.
func Terminate() {
	glfw.Terminate()
}

func (p *Platform) Startup(cfg WindowConfig) error {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.Samples, cfg.Samples)

	var monitor *glfw.Monitor
	if cfg.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}
	window, err := glfw.CreateWindow(int(cfg.Width), int(cfg.Height), cfg.Title, monitor, nil)
	if err != nil {
		core.LogError("failed to create window: %s", err)
		return fmt.Errorf("failed to create window %q: %w", cfg.Title, err)
	}
	window.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	p.Window = window

	p.Window.SetKeyCallback(keyCallback)
	p.Window.SetFramebufferSizeCallback(p.framebufferSizeCallback)
	if monitor == nil {
		p.Window.SetPos(cfg.PosX, cfg.PosY)
	}
	p.Window.Show()

	return nil
}

// SetResizeCallback is called with the new framebuffer size on resizes.
func (p *Platform) SetResizeCallback(fn func(width, height int)) {
	p.onResize = fn
}

// FramebufferSize is the window size in pixels.
func (p *Platform) FramebufferSize() (int, int) {
	return p.Window.GetFramebufferSize()
}

func (p *Platform) MakeContextCurrent() {
	p.Window.MakeContextCurrent()
}

func (p *Platform) SwapBuffers() {
	p.Window.SwapBuffers()
}

func (p *Platform) ShouldClose() bool {
	return p.Window == nil || p.Window.ShouldClose()
}

// Shutdown destroys the window of the platform.
func (p *Platform) Shutdown() error {
	if p.Window != nil {
		p.Window.Destroy()
		p.Window = nil
	}
	return nil
}

// PumpMessages processes the pending events of every window.
func PumpMessages() {
	glfw.PollEvents()
}

func keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
	}
}

func (p *Platform) framebufferSizeCallback(w *glfw.Window, width, height int) {
	if p.onResize != nil {
		p.onResize(width, height)
	}
}
