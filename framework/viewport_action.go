package framework

import (
	"github.com/spaghettifunk/scaffold/engine/core"
	"github.com/spaghettifunk/scaffold/engine/render"
)

type viewportDimensions struct {
	height, width, top, left float32
	zOrder                   uint16
}

type clipDistances struct {
	near, far float32
}

// BasicViewportAction sets up an empty scene with one camera rendering into
// one viewport, and renders a frame each time it runs.
//
// All engine references held here are borrowed from the root; they are only
// valid until the framework is closed.
type BasicViewportAction struct {
	BaseAction

	root   render.Root
	window render.RenderWindow

	sceneManager  render.SceneManager
	rootSceneNode render.SceneNode
	cameraNode    render.SceneNode
	mainCamera    render.Camera
	viewport      render.Viewport

	sceneManagerName string
	sceneName        string
	cameraName       string
	namesAreSet      bool

	dimensions optional[viewportDimensions]
	clipping   optional[clipDistances]

	autoUpdate              bool
	viewportBackgroundColor render.ColourValue

	aspectRatio float32
}

// NewBasicViewportAction takes the root and window of the framework. The
// viewport auto-updates and clears to magenta by default.
func NewBasicViewportAction(f *Framework) *BasicViewportAction {
	return NewBasicViewportActionFor(f.Root(), f.Window())
}

// NewBasicViewportActionFor builds the action on an explicit root and window.
func NewBasicViewportActionFor(root render.Root, window render.RenderWindow) *BasicViewportAction {
	return &BasicViewportAction{
		root:                    root,
		window:                  window,
		autoUpdate:              true,
		viewportBackgroundColor: render.NewColourValue(1, 0, 1),
	}
}

// SetActionNames sets the scene manager, scene and camera names.
func (a *BasicViewportAction) SetActionNames(sceneManagerName, sceneName, cameraName string) {
	a.sceneManagerName = sceneManagerName
	a.sceneName = sceneName
	a.cameraName = cameraName
	a.namesAreSet = true
}

// SetViewportDimensions sets the viewport geometry, relative to the window.
func (a *BasicViewportAction) SetViewportDimensions(height, width, top, left float32, zOrder uint16) {
	a.dimensions = some(viewportDimensions{
		height: height,
		width:  width,
		top:    top,
		left:   left,
		zOrder: zOrder,
	})
}

// SetClippingPlaneDimensions sets the near and far clipping plane distances.
func (a *BasicViewportAction) SetClippingPlaneDimensions(near, far float32) {
	a.clipping = some(clipDistances{near: near, far: far})
}

// SetAutoUpdate controls whether the viewport and the window auto-update.
func (a *BasicViewportAction) SetAutoUpdate(autoUpdate bool) {
	a.autoUpdate = autoUpdate
}

func (a *BasicViewportAction) SetBackgroundColour(c render.ColourValue) {
	a.viewportBackgroundColor = c
}

// Ready reports whether the names, the dimensions and the clipping planes
// have all been provided.
func (a *BasicViewportAction) Ready() bool {
	return a.haveNamesBeenSet() && a.haveViewportDimensionsBeenSet() && a.haveClipPlaneDistancesBeenSet()
}

func (a *BasicViewportAction) haveNamesBeenSet() bool {
	return a.namesAreSet && a.sceneManagerName != "" && a.sceneName != "" && a.cameraName != ""
}

// offsets may be zero, width and height may not
func (a *BasicViewportAction) haveViewportDimensionsBeenSet() bool {
	d, ok := a.dimensions.get()
	return ok && d.width != 0 && d.height != 0
}

// zero is a legitimate value here; the camera validates the distances
func (a *BasicViewportAction) haveClipPlaneDistancesBeenSet() bool {
	_, ok := a.clipping.get()
	return ok
}

// SceneSetup creates the scene manager, the camera and its node, and the
// viewport. Nothing happens, beyond a log line, when the action is not
// ready or there is no render window. Calling it twice fails in the engine because the scene manager
// name is already taken.
func (a *BasicViewportAction) SceneSetup() error {
	if !a.Ready() {
		core.LogWarn("Viewport action not ready...not setting up the scene.")
		return nil
	}
	if a.root == nil || a.window == nil {
		core.LogWarn("No render window...not setting up scene %s.", a.sceneName)
		return nil
	}
	d, _ := a.dimensions.get()
	clip, _ := a.clipping.get()

	var err error

	// set up node structure
	if a.sceneManager, err = a.root.CreateSceneManager(render.SceneTypeGeneric, a.sceneManagerName); err != nil {
		return err
	}
	a.rootSceneNode = a.sceneManager.RootSceneNode()
	if a.cameraNode, err = a.rootSceneNode.CreateChildSceneNode(a.cameraName + "Node"); err != nil {
		return err
	}

	// create camera
	if a.mainCamera, err = a.sceneManager.CreateCamera(a.cameraName); err != nil {
		return err
	}
	if err = a.cameraNode.AttachObject(a.mainCamera); err != nil {
		return err
	}

	// create the viewport
	if a.viewport, err = a.window.AddViewport(a.mainCamera, int(d.zOrder), d.left, d.top, d.width, d.height); err != nil {
		return err
	}
	a.viewport.SetAutoUpdated(a.autoUpdate)
	a.viewport.SetBackgroundColour(a.viewportBackgroundColor)

	// the actual sizes are integers, divide as floats
	a.aspectRatio = float32(a.viewport.ActualWidth()) / float32(a.viewport.ActualHeight())
	a.mainCamera.SetAspectRatio(a.aspectRatio)

	if err = setClipDistances(a.mainCamera, clip.near, clip.far); err != nil {
		return err
	}

	// activate the window
	a.window.SetActive(true)
	a.window.SetAutoUpdated(a.autoUpdate)

	core.LogInfo("Scene %s set up with camera %s (aspect ratio %.3f)", a.sceneName, a.cameraName, a.aspectRatio)
	return nil
}

// Run renders one frame. SceneSetup must have run before.
func (a *BasicViewportAction) Run() error {
	if err := a.window.Update(false); err != nil {
		return err
	}
	if err := a.window.SwapBuffers(); err != nil {
		return err
	}
	return a.root.RenderOneFrame()
}

// setClipDistances applies the pair in the order that keeps near below far
// against the camera's current far distance.
func setClipDistances(cam render.Camera, near, far float32) error {
	if near >= cam.FarClipDistance() {
		if err := cam.SetFarClipDistance(far); err != nil {
			return err
		}
		return cam.SetNearClipDistance(near)
	}
	if err := cam.SetNearClipDistance(near); err != nil {
		return err
	}
	return cam.SetFarClipDistance(far)
}

// Release drops every engine reference. The engine keeps ownership of the
// objects, nothing is destroyed.
func (a *BasicViewportAction) Release() {
	a.root = nil
	a.window = nil
	a.sceneManager = nil
	a.rootSceneNode = nil
	a.cameraNode = nil
	a.mainCamera = nil
	a.viewport = nil
}

// AspectRatio is the viewport actual width over its actual height, as
// computed by SceneSetup.
func (a *BasicViewportAction) AspectRatio() float32 {
	return a.aspectRatio
}

func (a *BasicViewportAction) SceneName() string {
	return a.sceneName
}

func (a *BasicViewportAction) SceneManager() render.SceneManager {
	return a.sceneManager
}

func (a *BasicViewportAction) RootSceneNode() render.SceneNode {
	return a.rootSceneNode
}

func (a *BasicViewportAction) CameraNode() render.SceneNode {
	return a.cameraNode
}

func (a *BasicViewportAction) Camera() render.Camera {
	return a.mainCamera
}

func (a *BasicViewportAction) Viewport() render.Viewport {
	return a.viewport
}
