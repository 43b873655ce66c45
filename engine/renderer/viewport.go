package renderer

import (
	"github.com/spaghettifunk/scaffold/engine/render"
)

// Viewport is a rectangle of a window. Its geometry is kept relative to
// the window and converted to pixels whenever the window size changes.
type Viewport struct {
	camera render.Camera
	zOrder int

	/** @brief Relative geometry, in [0, 1]. */
	left, top, width, height float32

	actualLeft, actualTop, actualWidth, actualHeight int

	autoUpdated bool
	background  render.ColourValue
}

func newViewport(cam render.Camera, zOrder int, left, top, width, height float32) *Viewport {
	return &Viewport{
		camera:      cam,
		zOrder:      zOrder,
		left:        left,
		top:         top,
		width:       width,
		height:      height,
		autoUpdated: true,
		background:  render.NewColourValue(0, 0, 0),
	}
}

func round(v float32) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}

func (vp *Viewport) updateDimensions(windowWidth, windowHeight uint32) {
	ww, wh := float32(windowWidth), float32(windowHeight)
	vp.actualLeft = round(vp.left * ww)
	vp.actualTop = round(vp.top * wh)
	vp.actualWidth = round(vp.width * ww)
	vp.actualHeight = round(vp.height * wh)
}

func (vp *Viewport) Camera() render.Camera {
	return vp.camera
}

func (vp *Viewport) ZOrder() int {
	return vp.zOrder
}

func (vp *Viewport) ActualLeft() int {
	return vp.actualLeft
}

func (vp *Viewport) ActualTop() int {
	return vp.actualTop
}

func (vp *Viewport) ActualWidth() int {
	return vp.actualWidth
}

func (vp *Viewport) ActualHeight() int {
	return vp.actualHeight
}

func (vp *Viewport) SetAutoUpdated(autoUpdate bool) {
	vp.autoUpdated = autoUpdate
}

func (vp *Viewport) IsAutoUpdated() bool {
	return vp.autoUpdated
}

func (vp *Viewport) SetBackgroundColour(c render.ColourValue) {
	vp.background = c
}

func (vp *Viewport) BackgroundColour() render.ColourValue {
	return vp.background
}
