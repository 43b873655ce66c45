package renderer

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/scaffold/engine/core"
	"github.com/spaghettifunk/scaffold/engine/render"
	"github.com/spaghettifunk/scaffold/engine/resources"
	"github.com/spaghettifunk/scaffold/engine/scene"
)

var (
	blue  = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	red   = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	green = color.RGBA{R: 0, G: 255, B: 0, A: 255}
)

type testScene struct {
	sm     *scene.Manager
	meshes *resources.MeshManager
	camera *scene.Camera
}

func newTestScene(t *testing.T) *testScene {
	t.Helper()
	mm := resources.NewMeshManager(nil)
	sm := scene.NewManager(render.SceneTypeGeneric, "Scene", mm)
	rc, err := sm.CreateCamera("MainCamera")
	require.NoError(t, err)
	cam := rc.(*scene.Camera)
	require.NoError(t, cam.SetNearClipDistance(1))
	require.NoError(t, cam.SetFarClipDistance(100))
	require.NoError(t, sm.RootSceneNode().AttachObject(cam))
	return &testScene{sm: sm, meshes: mm, camera: cam}
}

// addTriangle places a flat triangle around the z axis at the given depth.
func (s *testScene) addTriangle(t *testing.T, name string, z float32, c render.ColourValue) {
	t.Helper()
	mo, err := s.sm.CreateManualObject(name)
	require.NoError(t, err)
	require.NoError(t, mo.Begin("BaseWhiteNoLighting", render.OperationTypeTriangleList))
	for _, p := range [][2]float32{{-1, -1}, {1, -1}, {0, 1}} {
		mo.Position(p[0]*-z/5, p[1]*-z/5, z)
		mo.Colour(c)
	}
	mo.Triangle(0, 1, 2)
	require.NoError(t, mo.End())
	require.NoError(t, s.sm.RootSceneNode().AttachObject(mo))
}

func newTestWindow(t *testing.T, present PresentFunc) *Window {
	t.Helper()
	w, err := NewWindow("Test", 64, 48, false, present)
	require.NoError(t, err)
	return w
}

func TestNewWindowInvalidSize(t *testing.T) {
	_, err := NewWindow("Bad", 0, 48, false, nil)
	assert.ErrorIs(t, err, core.ErrInvalidParams)
}

func TestViewportActualDimensions(t *testing.T) {
	s := newTestScene(t)
	w, err := NewWindow("Test", 800, 600, false, nil)
	require.NoError(t, err)

	vp, err := w.AddViewport(s.camera, 100, 0.06, 0.06, 0.88, 0.88)
	require.NoError(t, err)
	assert.Equal(t, 48, vp.ActualLeft())
	assert.Equal(t, 36, vp.ActualTop())
	assert.Equal(t, 704, vp.ActualWidth())
	assert.Equal(t, 528, vp.ActualHeight())
	assert.True(t, vp.IsAutoUpdated())
	assert.Equal(t, 100, vp.ZOrder())

	w.Resize(400, 300)
	assert.Equal(t, 352, vp.ActualWidth())
	assert.Equal(t, 264, vp.ActualHeight())
}

func TestAddViewportErrors(t *testing.T) {
	s := newTestScene(t)
	w := newTestWindow(t, nil)

	_, err := w.AddViewport(nil, 0, 0, 0, 1, 1)
	assert.ErrorIs(t, err, core.ErrInvalidParams)
	_, err = w.AddViewport(s.camera, 0, 0, 0, 1.5, 1)
	assert.ErrorIs(t, err, core.ErrInvalidParams)

	_, err = w.AddViewport(s.camera, 10, 0, 0, 1, 1)
	require.NoError(t, err)
	_, err = w.AddViewport(s.camera, 10, 0, 0, 0.5, 0.5)
	assert.ErrorIs(t, err, core.ErrDuplicateName)

	_, err = w.AddViewport(s.camera, 5, 0, 0, 0.5, 0.5)
	require.NoError(t, err)
	vps := w.Viewports()
	require.Len(t, vps, 2)
	assert.Equal(t, 5, vps[0].ZOrder())
	assert.Equal(t, 10, vps[1].ZOrder())

	require.NoError(t, w.RemoveViewport(5))
	assert.ErrorIs(t, w.RemoveViewport(5), core.ErrItemNotFound)
}

func TestUpdateDrawsTriangle(t *testing.T) {
	s := newTestScene(t)
	s.addTriangle(t, "Near", -5, render.NewColourValue(1, 0, 0))
	w := newTestWindow(t, nil)

	vp, err := w.AddViewport(s.camera, 0, 0, 0, 1, 1)
	require.NoError(t, err)
	vp.SetBackgroundColour(render.NewColourValue(0, 0, 1))

	require.NoError(t, w.Update(false))
	assert.Equal(t, 1, w.LastTriangleCount())
	assert.Equal(t, red, w.Frame().RGBAAt(32, 24))
	assert.Equal(t, blue, w.Frame().RGBAAt(0, 0))
	assert.Zero(t, w.FramesPresented(), "update without swap does not present")
}

func TestDepthTest(t *testing.T) {
	s := newTestScene(t)
	// the far triangle is added last so it is drawn over the near one
	// without a depth test
	s.addTriangle(t, "Near", -5, render.NewColourValue(1, 0, 0))
	s.addTriangle(t, "Far", -10, render.NewColourValue(0, 1, 0))
	w := newTestWindow(t, nil)
	_, err := w.AddViewport(s.camera, 0, 0, 0, 1, 1)
	require.NoError(t, err)

	require.NoError(t, w.Update(false))
	assert.Equal(t, 2, w.LastTriangleCount())
	assert.Equal(t, red, w.Frame().RGBAAt(32, 24))
}

func TestTrianglesBehindCameraAreRejected(t *testing.T) {
	s := newTestScene(t)
	s.addTriangle(t, "Behind", 5, render.NewColourValue(0, 1, 0))
	w := newTestWindow(t, nil)
	_, err := w.AddViewport(s.camera, 0, 0, 0, 1, 1)
	require.NoError(t, err)

	require.NoError(t, w.Update(false))
	assert.Zero(t, w.LastTriangleCount())
	assert.NotEqual(t, green, w.Frame().RGBAAt(32, 24))
}

func TestViewportOnlyClearsItsRegion(t *testing.T) {
	s := newTestScene(t)
	w := newTestWindow(t, nil)
	vp, err := w.AddViewport(s.camera, 0, 0.5, 0, 0.5, 1)
	require.NoError(t, err)
	vp.SetBackgroundColour(render.NewColourValue(0, 1, 0))

	require.NoError(t, w.Update(false))
	assert.Equal(t, green, w.Frame().RGBAAt(40, 10))
	assert.Equal(t, color.RGBA{}, w.Frame().RGBAAt(10, 10))

	vp.SetAutoUpdated(false)
	vp.SetBackgroundColour(render.NewColourValue(0, 0, 1))
	require.NoError(t, w.Update(false))
	assert.Equal(t, green, w.Frame().RGBAAt(40, 10), "viewports not auto-updated are skipped")
}

func TestSwapBuffersPresents(t *testing.T) {
	var presented []*image.RGBA
	w := newTestWindow(t, func(frame *image.RGBA) error {
		presented = append(presented, frame)
		return nil
	})

	require.NoError(t, w.Update(true))
	require.NoError(t, w.SwapBuffers())
	assert.Len(t, presented, 2)
	assert.Equal(t, uint64(2), w.FramesPresented())
	assert.Same(t, w.Frame(), presented[0])
}

func TestInactiveWindowIsNotRendered(t *testing.T) {
	s := newTestScene(t)
	s.addTriangle(t, "Near", -5, render.NewColourValue(1, 0, 0))
	w := newTestWindow(t, nil)
	_, err := w.AddViewport(s.camera, 0, 0, 0, 1, 1)
	require.NoError(t, err)

	w.SetActive(false)
	require.NoError(t, w.Update(false))
	assert.Zero(t, w.LastTriangleCount())
	assert.Equal(t, color.RGBA{}, w.Frame().RGBAAt(32, 24))
}

func TestClosedWindow(t *testing.T) {
	w := newTestWindow(t, nil)
	w.Close()
	assert.True(t, w.IsClosed())
	assert.ErrorIs(t, w.Update(false), core.ErrWindowClosed)
	assert.ErrorIs(t, w.SwapBuffers(), core.ErrWindowClosed)

	require.NoError(t, w.Destroy())
	require.NoError(t, w.Destroy())
	assert.True(t, w.Destroyed())
}

func TestToByte(t *testing.T) {
	assert.Equal(t, uint8(0), toByte(-1))
	assert.Equal(t, uint8(255), toByte(2))
	assert.Equal(t, uint8(128), toByte(0.5))
	assert.Equal(t, 3, round(2.5))
}
