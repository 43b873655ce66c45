// Package renderer holds what every render system shares: the window
// framebuffer, its viewports and the software rasteriser drawing into it.
package renderer

import (
	"fmt"
	"image"
	"sort"

	"github.com/spaghettifunk/scaffold/engine/core"
	"github.com/spaghettifunk/scaffold/engine/render"
)

// PresentFunc shows a finished frame. It is called by SwapBuffers.
type PresentFunc func(frame *image.RGBA) error

// Window is the base render window embedded by the render systems.
type Window struct {
	name       string
	width      uint32
	height     uint32
	fullscreen bool

	active      bool
	autoUpdated bool
	closed      bool
	destroyed   bool

	viewports []*Viewport
	frame     *image.RGBA
	depth     []float32
	present   PresentFunc

	framesPresented uint64
	lastTriangles   int
}

// NewWindow creates a window with a framebuffer of the given size.
// present may be nil for windows that are never shown.
func NewWindow(name string, width, height uint32, fullscreen bool, present PresentFunc) (*Window, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("window %q size %dx%d: %w", name, width, height, core.ErrInvalidParams)
	}
	w := &Window{
		name:        name,
		fullscreen:  fullscreen,
		active:      true,
		autoUpdated: true,
		present:     present,
	}
	w.allocate(width, height)
	return w, nil
}

func (w *Window) allocate(width, height uint32) {
	w.width = width
	w.height = height
	w.frame = image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	w.depth = make([]float32, int(width)*int(height))
	for _, vp := range w.viewports {
		vp.updateDimensions(width, height)
	}
}

func (w *Window) Name() string {
	return w.name
}

func (w *Window) Width() uint32 {
	return w.width
}

func (w *Window) Height() uint32 {
	return w.height
}

func (w *Window) Fullscreen() bool {
	return w.fullscreen
}

// AddViewport adds a viewport at the given z-order. Viewports are
// rendered from the lowest z-order up.
func (w *Window) AddViewport(cam render.Camera, zOrder int, left, top, width, height float32) (render.Viewport, error) {
	if cam == nil {
		return nil, fmt.Errorf("viewport needs a camera: %w", core.ErrInvalidParams)
	}
	if !inUnitRange(left) || !inUnitRange(top) || !inUnitRange(width) || !inUnitRange(height) {
		return nil, fmt.Errorf("viewport geometry (%g, %g, %g, %g) not relative: %w", left, top, width, height, core.ErrInvalidParams)
	}
	for _, vp := range w.viewports {
		if vp.zOrder == zOrder {
			return nil, fmt.Errorf("viewport with z-order %d in window %q: %w", zOrder, w.name, core.ErrDuplicateName)
		}
	}

	vp := newViewport(cam, zOrder, left, top, width, height)
	vp.updateDimensions(w.width, w.height)
	w.viewports = append(w.viewports, vp)
	sort.Slice(w.viewports, func(i, j int) bool {
		return w.viewports[i].zOrder < w.viewports[j].zOrder
	})
	core.LogDebug("Viewport for camera %s added to window %s at z-order %d (%dx%d)", cam.Name(), w.name, zOrder, vp.actualWidth, vp.actualHeight)
	return vp, nil
}

func inUnitRange(v float32) bool {
	return v >= 0 && v <= 1
}

// RemoveViewport removes the viewport at the given z-order.
func (w *Window) RemoveViewport(zOrder int) error {
	for i, vp := range w.viewports {
		if vp.zOrder == zOrder {
			w.viewports = append(w.viewports[:i], w.viewports[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("viewport with z-order %d in window %q: %w", zOrder, w.name, core.ErrItemNotFound)
}

// Viewports returns the viewports sorted by z-order.
func (w *Window) Viewports() []*Viewport {
	return append([]*Viewport(nil), w.viewports...)
}

func (w *Window) SetActive(active bool) {
	w.active = active
}

func (w *Window) IsActive() bool {
	return w.active
}

func (w *Window) SetAutoUpdated(autoUpdate bool) {
	w.autoUpdated = autoUpdate
}

func (w *Window) IsAutoUpdated() bool {
	return w.autoUpdated
}

// Update renders every auto-updated viewport into the framebuffer.
func (w *Window) Update(swapBuffers bool) error {
	if w.closed {
		return fmt.Errorf("window %q: %w", w.name, core.ErrWindowClosed)
	}
	if !w.active {
		return nil
	}
	w.lastTriangles = 0
	for _, vp := range w.viewports {
		if !vp.autoUpdated {
			continue
		}
		w.lastTriangles += w.renderViewport(vp)
	}
	if swapBuffers {
		return w.SwapBuffers()
	}
	return nil
}

// SwapBuffers presents the current framebuffer.
func (w *Window) SwapBuffers() error {
	if w.closed {
		return fmt.Errorf("window %q: %w", w.name, core.ErrWindowClosed)
	}
	if w.present != nil {
		if err := w.present(w.frame); err != nil {
			return fmt.Errorf("window %q failed to present: %w", w.name, err)
		}
	}
	w.framesPresented++
	return nil
}

// Resize reallocates the framebuffer and recomputes viewport sizes.
func (w *Window) Resize(width, height uint32) {
	if width == 0 || height == 0 || (width == w.width && height == w.height) {
		return
	}
	w.allocate(width, height)
	core.LogDebug("Window %s resized to %dx%d", w.name, width, height)
}

// Close marks the window closed, further updates fail.
func (w *Window) Close() {
	w.closed = true
}

func (w *Window) IsClosed() bool {
	return w.closed
}

// Destroy releases the framebuffer. Destroying twice is a no-op.
func (w *Window) Destroy() error {
	if w.destroyed {
		return nil
	}
	w.destroyed = true
	w.closed = true
	w.viewports = nil
	core.LogDebug("Window %s destroyed after %d frames", w.name, w.framesPresented)
	return nil
}

func (w *Window) Destroyed() bool {
	return w.destroyed
}

// Frame is the framebuffer the viewports render into.
func (w *Window) Frame() *image.RGBA {
	return w.frame
}

func (w *Window) FramesPresented() uint64 {
	return w.framesPresented
}

// LastTriangleCount is the number of triangles drawn by the last Update.
func (w *Window) LastTriangleCount() int {
	return w.lastTriangles
}
