package framework

import (
	"fmt"

	"github.com/spaghettifunk/scaffold/engine/core"
	"github.com/spaghettifunk/scaffold/engine/render"
)

// calls records every engine call made through the doubles below, in order.
type calls []string

func (c *calls) add(format string, args ...interface{}) {
	*c = append(*c, fmt.Sprintf(format, args...))
}

type fakeRenderSystem struct{ name string }

func (rs *fakeRenderSystem) Name() string { return rs.name }

type fakeRoot struct {
	log *calls

	renderers     []render.RenderSystem
	selected      render.RenderSystem
	initialised   bool
	sceneManagers map[string]*fakeSceneManager
	window        *fakeWindow
	resources     *fakeResourceManager
	pumps         int
	frames        int
	// closeOnPump closes the window during that PumpMessages call, 0 never
	closeOnPump int
	shutdown      bool
}

func newFakeRoot(renderers ...string) *fakeRoot {
	log := &calls{}
	r := &fakeRoot{
		log:           log,
		sceneManagers: map[string]*fakeSceneManager{},
		resources:     &fakeResourceManager{log: log, groups: map[string]bool{}},
	}
	for _, name := range renderers {
		r.renderers = append(r.renderers, &fakeRenderSystem{name: name})
	}
	return r
}

func (r *fakeRoot) AvailableRenderers() []render.RenderSystem { return r.renderers }

func (r *fakeRoot) SetRenderSystem(rs render.RenderSystem) error {
	r.log.add("SetRenderSystem(%s)", rs.Name())
	r.selected = rs
	return nil
}

func (r *fakeRoot) Initialise(auto bool, title, caps string) (render.RenderWindow, error) {
	r.log.add("Initialise(%t)", auto)
	r.initialised = true
	return nil, nil
}

func (r *fakeRoot) CreateRenderWindow(name string, w, h uint32, fs bool, params render.NameValuePairList) (render.RenderWindow, error) {
	r.log.add("CreateRenderWindow(%s,%d,%d)", name, w, h)
	r.window = newFakeWindow(r.log, name, w, h)
	return r.window, nil
}

func (r *fakeRoot) CreateSceneManager(t render.SceneType, name string) (render.SceneManager, error) {
	r.log.add("CreateSceneManager(%s)", name)
	if _, ok := r.sceneManagers[name]; ok {
		return nil, fmt.Errorf("scene manager %q: %w", name, core.ErrDuplicateName)
	}
	sm := &fakeSceneManager{log: r.log, name: name}
	sm.root = &fakeNode{log: r.log, name: "root"}
	r.sceneManagers[name] = sm
	return sm, nil
}

func (r *fakeRoot) RenderOneFrame() error {
	r.log.add("RenderOneFrame")
	r.frames++
	return nil
}

func (r *fakeRoot) ClearEventTimes() {}

func (r *fakeRoot) PumpMessages() {
	r.log.add("PumpMessages")
	r.pumps++
	if r.closeOnPump > 0 && r.pumps == r.closeOnPump && r.window != nil {
		r.window.closed = true
	}
}

func (r *fakeRoot) ResourceGroupManager() render.ResourceGroupManager { return r.resources }

func (r *fakeRoot) Shutdown() error {
	r.shutdown = true
	return nil
}

type fakeWindow struct {
	log           *calls
	name          string
	width, height uint32
	active        bool
	autoUpdated   bool
	viewports     []*fakeViewport
	destroyed     bool
	closed        bool

	// closedAfter is the number of IsClosed queries answered with false
	closedAfter int
	queries     int
}

func newFakeWindow(log *calls, name string, w, h uint32) *fakeWindow {
	return &fakeWindow{log: log, name: name, width: w, height: h, closedAfter: -1}
}

func (w *fakeWindow) Name() string   { return w.name }
func (w *fakeWindow) Width() uint32  { return w.width }
func (w *fakeWindow) Height() uint32 { return w.height }

func (w *fakeWindow) AddViewport(cam render.Camera, z int, left, top, width, height float32) (render.Viewport, error) {
	w.log.add("AddViewport(%s,%d)", cam.Name(), z)
	vp := &fakeViewport{
		cam:    cam,
		z:      z,
		width:  int(width * float32(w.width)),
		height: int(height * float32(w.height)),
	}
	w.viewports = append(w.viewports, vp)
	return vp, nil
}

func (w *fakeWindow) SetActive(active bool) {
	w.log.add("SetActive(%t)", active)
	w.active = active
}
func (w *fakeWindow) IsActive() bool { return w.active }
func (w *fakeWindow) SetAutoUpdated(auto bool) {
	w.log.add("SetAutoUpdated(%t)", auto)
	w.autoUpdated = auto
}
func (w *fakeWindow) IsAutoUpdated() bool { return w.autoUpdated }
func (w *fakeWindow) Update(swap bool) error {
	w.log.add("Update(%t)", swap)
	if w.closed {
		return fmt.Errorf("window %q: %w", w.name, core.ErrWindowClosed)
	}
	return nil
}
func (w *fakeWindow) SwapBuffers() error {
	w.log.add("SwapBuffers")
	return nil
}
func (w *fakeWindow) IsClosed() bool {
	if w.closed {
		return true
	}
	if w.closedAfter < 0 {
		return false
	}
	closed := w.queries >= w.closedAfter
	w.queries++
	return closed
}
func (w *fakeWindow) Destroy() error {
	w.destroyed = true
	return nil
}

type fakeViewport struct {
	cam           render.Camera
	z             int
	width, height int
	autoUpdated   bool
	background    render.ColourValue
}

func (v *fakeViewport) Camera() render.Camera                   { return v.cam }
func (v *fakeViewport) ZOrder() int                             { return v.z }
func (v *fakeViewport) ActualLeft() int                         { return 0 }
func (v *fakeViewport) ActualTop() int                          { return 0 }
func (v *fakeViewport) ActualWidth() int                        { return v.width }
func (v *fakeViewport) ActualHeight() int                       { return v.height }
func (v *fakeViewport) SetAutoUpdated(auto bool)                { v.autoUpdated = auto }
func (v *fakeViewport) IsAutoUpdated() bool                     { return v.autoUpdated }
func (v *fakeViewport) SetBackgroundColour(c render.ColourValue) { v.background = c }
func (v *fakeViewport) BackgroundColour() render.ColourValue    { return v.background }

type fakeSceneManager struct {
	log  *calls
	name string
	root *fakeNode
}

func (sm *fakeSceneManager) Name() string                    { return sm.name }
func (sm *fakeSceneManager) Type() render.SceneType          { return render.SceneTypeGeneric }
func (sm *fakeSceneManager) RootSceneNode() render.SceneNode { return sm.root }
func (sm *fakeSceneManager) CreateCamera(name string) (render.Camera, error) {
	sm.log.add("CreateCamera(%s)", name)
	return &fakeCamera{log: sm.log, name: name, near: 100, far: 100000}, nil
}
func (sm *fakeSceneManager) CreateEntity(mesh string) (render.Entity, error) {
	return nil, core.ErrItemNotFound
}
func (sm *fakeSceneManager) CreateManualObject(name string) (render.ManualObject, error) {
	return nil, core.ErrInvalidState
}

type fakeNode struct {
	log      *calls
	name     string
	attached []render.MovableObject
	x, y, z  float32
}

func (n *fakeNode) Name() string { return n.name }
func (n *fakeNode) CreateChildSceneNode(name string) (render.SceneNode, error) {
	n.log.add("CreateChildSceneNode(%s)", name)
	return &fakeNode{log: n.log, name: name}, nil
}
func (n *fakeNode) AttachObject(obj render.MovableObject) error {
	n.log.add("AttachObject(%s)", obj.Name())
	n.attached = append(n.attached, obj)
	if c, ok := obj.(*fakeCamera); ok {
		c.parent = n
	}
	return nil
}
func (n *fakeNode) Translate(x, y, z float32)   { n.x, n.y, n.z = n.x+x, n.y+y, n.z+z }
func (n *fakeNode) Position() (x, y, z float32) { return n.x, n.y, n.z }

type fakeCamera struct {
	log       *calls
	name      string
	parent    render.SceneNode
	aspect    float32
	near, far float32
}

func (c *fakeCamera) Name() string                       { return c.name }
func (c *fakeCamera) ParentSceneNode() render.SceneNode  { return c.parent }
func (c *fakeCamera) SetAspectRatio(r float32)           { c.log.add("SetAspectRatio"); c.aspect = r }
func (c *fakeCamera) AspectRatio() float32               { return c.aspect }
func (c *fakeCamera) NearClipDistance() float32          { return c.near }
func (c *fakeCamera) FarClipDistance() float32           { return c.far }
func (c *fakeCamera) SetNearClipDistance(d float32) error {
	c.log.add("SetNearClipDistance(%g)", d)
	if d <= 0 || d >= c.far {
		return fmt.Errorf("near clip distance %g: %w", d, core.ErrInvalidClipDistance)
	}
	c.near = d
	return nil
}
func (c *fakeCamera) SetFarClipDistance(d float32) error {
	c.log.add("SetFarClipDistance(%g)", d)
	if d <= c.near {
		return fmt.Errorf("far clip distance %g: %w", d, core.ErrInvalidClipDistance)
	}
	c.far = d
	return nil
}

type fakeResourceManager struct {
	log    *calls
	groups map[string]bool
}

func (m *fakeResourceManager) CreateResourceGroup(name string) error {
	m.log.add("CreateResourceGroup(%s)", name)
	if m.groups[name] {
		return fmt.Errorf("resource group %q: %w", name, core.ErrDuplicateName)
	}
	m.groups[name] = true
	return nil
}

func (m *fakeResourceManager) AddResourceLocation(path, locType, group string, recursive bool) error {
	m.log.add("AddResourceLocation(%s,%s,%s,%t)", path, locType, group, recursive)
	return nil
}

func (m *fakeResourceManager) InitialiseResourceGroup(name string) error {
	m.log.add("InitialiseResourceGroup(%s)", name)
	return nil
}

func (m *fakeResourceManager) LoadResourceGroup(name string) error {
	m.log.add("LoadResourceGroup(%s)", name)
	return nil
}
