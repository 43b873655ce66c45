package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/scaffold/engine/core"
	"github.com/spaghettifunk/scaffold/engine/math"
	"github.com/spaghettifunk/scaffold/engine/render"
	"github.com/spaghettifunk/scaffold/engine/resources"
)

func newTestManager(t *testing.T) (*Manager, *resources.GroupManager, *resources.MeshManager) {
	t.Helper()
	gm := resources.NewGroupManager()
	mm := resources.NewMeshManager(gm)
	t.Cleanup(func() { _ = gm.Shutdown() })
	return NewManager(render.SceneTypeGeneric, "Scene", mm), gm, mm
}

func buildTriangle(t *testing.T, mo render.ManualObject) {
	t.Helper()
	require.NoError(t, mo.Begin("BaseWhiteNoLighting", render.OperationTypeTriangleList))
	mo.Position(0, 1, 0)
	mo.Colour(render.NewColourValue(1, 0, 0))
	mo.Position(-1, -1, 0)
	mo.Position(1, -1, 0)
	mo.Triangle(0, 1, 2)
	require.NoError(t, mo.End())
}

func TestChildNodes(t *testing.T) {
	sm, _, _ := newTestManager(t)

	child, err := sm.RootSceneNode().CreateChildSceneNode("CameraNode")
	require.NoError(t, err)
	assert.Equal(t, "CameraNode", child.Name())

	_, err = sm.RootSceneNode().CreateChildSceneNode("CameraNode")
	assert.ErrorIs(t, err, core.ErrDuplicateName)

	a, err := sm.RootSceneNode().CreateChildSceneNode("")
	require.NoError(t, err)
	b, err := sm.RootSceneNode().CreateChildSceneNode("")
	require.NoError(t, err)
	assert.NotEmpty(t, a.Name())
	assert.NotEqual(t, a.Name(), b.Name())
	assert.Len(t, sm.Root().Children(), 3)
}

func TestNodeWorldTranslation(t *testing.T) {
	sm, _, _ := newTestManager(t)
	parent, err := sm.Root().CreateChild("Parent")
	require.NoError(t, err)
	child, err := parent.CreateChild("Child")
	require.NoError(t, err)

	parent.Translate(1, 2, 3)
	child.Translate(0, 0, -30)
	child.Translate(1, 0, 0)

	x, y, z := child.Position()
	assert.Equal(t, []float32{1, 0, -30}, []float32{x, y, z})

	world := math.NewVec3Zero().Transform(child.WorldMatrix())
	assert.True(t, world.Compare(math.NewVec3(2, 2, -27), 1e-5), "got %v", world)
}

func TestAttachObject(t *testing.T) {
	sm, _, _ := newTestManager(t)
	cam, err := sm.CreateCamera("MainCamera")
	require.NoError(t, err)
	assert.Nil(t, cam.ParentSceneNode())

	node, err := sm.RootSceneNode().CreateChildSceneNode("CameraNode")
	require.NoError(t, err)
	require.NoError(t, node.AttachObject(cam))
	assert.Equal(t, node, cam.ParentSceneNode())

	other, err := sm.RootSceneNode().CreateChildSceneNode("Other")
	require.NoError(t, err)
	assert.ErrorIs(t, other.AttachObject(cam), core.ErrAlreadyAttached)

	n := node.(*Node)
	require.NoError(t, n.DetachObject("MainCamera"))
	assert.Nil(t, cam.ParentSceneNode())
	assert.ErrorIs(t, n.DetachObject("MainCamera"), core.ErrItemNotFound)
}

type foreignObject struct{}

func (foreignObject) Name() string                      { return "foreign" }
func (foreignObject) ParentSceneNode() render.SceneNode { return nil }

func TestAttachForeignObject(t *testing.T) {
	sm, _, _ := newTestManager(t)
	assert.ErrorIs(t, sm.RootSceneNode().AttachObject(foreignObject{}), core.ErrInvalidParams)
}

func TestCameraClipDistances(t *testing.T) {
	sm, _, _ := newTestManager(t)
	cam, err := sm.CreateCamera("MainCamera")
	require.NoError(t, err)

	_, err = sm.CreateCamera("MainCamera")
	assert.ErrorIs(t, err, core.ErrDuplicateName)

	assert.ErrorIs(t, cam.SetNearClipDistance(0), core.ErrInvalidClipDistance)
	assert.ErrorIs(t, cam.SetNearClipDistance(-1), core.ErrInvalidClipDistance)

	require.NoError(t, cam.SetNearClipDistance(1.5))
	require.NoError(t, cam.SetFarClipDistance(3000))
	assert.Equal(t, float32(1.5), cam.NearClipDistance())
	assert.Equal(t, float32(3000), cam.FarClipDistance())

	assert.ErrorIs(t, cam.SetFarClipDistance(1), core.ErrInvalidClipDistance)
	assert.ErrorIs(t, cam.SetNearClipDistance(3000), core.ErrInvalidClipDistance)
	assert.Equal(t, float32(1.5), cam.NearClipDistance())
}

func TestCameraMatrices(t *testing.T) {
	sm, _, _ := newTestManager(t)
	rc, err := sm.CreateCamera("MainCamera")
	require.NoError(t, err)
	cam := rc.(*Camera)
	cam.SetAspectRatio(1)
	require.NoError(t, cam.SetNearClipDistance(1))
	require.NoError(t, cam.SetFarClipDistance(100))

	assert.True(t, cam.ViewMatrix().Compare(math.NewMat4Identity(), 1e-6), "detached camera sees from the origin")

	node, err := sm.Root().CreateChild("CameraNode")
	require.NoError(t, err)
	require.NoError(t, node.AttachObject(cam))
	node.Translate(0, 0, 5)
	assert.Equal(t, sm, cam.SceneManager())

	p := math.NewVec3Zero().Transform(cam.ViewMatrix())
	assert.True(t, p.Compare(math.NewVec3(0, 0, -5), 1e-5), "got %v", p)

	// a point on the near plane ends up at depth -1
	clip := math.NewVec4(0, 0, -1, 1).Transform(cam.ProjectionMatrix())
	assert.InDelta(t, -1, clip.Z/clip.W, 1e-5)
	clip = math.NewVec4(0, 0, -100, 1).Transform(cam.ProjectionMatrix())
	assert.InDelta(t, 1, clip.Z/clip.W, 1e-4)
	assert.InDelta(t, math.DegToRad(45), cam.FOVy(), 1e-6)
}

func TestManualObject(t *testing.T) {
	sm, _, mm := newTestManager(t)
	mo, err := sm.CreateManualObject("Triangle")
	require.NoError(t, err)
	_, err = sm.CreateManualObject("Triangle")
	assert.ErrorIs(t, err, core.ErrDuplicateName)

	assert.ErrorIs(t, mo.ConvertToMesh("TriangleMesh"), core.ErrInvalidState)
	assert.ErrorIs(t, mo.Begin("m", render.OperationTypeLineList), core.ErrInvalidParams)
	assert.ErrorIs(t, mo.End(), core.ErrInvalidState)

	buildTriangle(t, mo)
	require.NoError(t, mo.ConvertToMesh("TriangleMesh"))

	mesh, ok := mm.Get("TriangleMesh")
	require.True(t, ok)
	assert.Equal(t, render.DefaultResourceGroup, mesh.Group)
	assert.Equal(t, "BaseWhiteNoLighting", mesh.Material)
	assert.Equal(t, 1, mesh.TriangleCount())
	assert.Equal(t, math.NewVec4(1, 0, 0, 1), mesh.Vertices[0].Colour)
	assert.Equal(t, math.NewVec4(1, 1, 1, 1), mesh.Vertices[1].Colour)

	assert.ErrorIs(t, mo.ConvertToMesh("TriangleMesh"), core.ErrDuplicateName)
}

func TestManualObjectBadIndices(t *testing.T) {
	sm, _, _ := newTestManager(t)
	mo, err := sm.CreateManualObject("")
	require.NoError(t, err)
	assert.NotEmpty(t, mo.Name())

	require.NoError(t, mo.Begin("m", render.OperationTypeTriangleList))
	mo.Position(0, 0, 0)
	mo.Triangle(0, 1, 2)
	assert.ErrorIs(t, mo.End(), core.ErrInvalidParams)
}

func TestCreateEntity(t *testing.T) {
	sm, gm, _ := newTestManager(t)

	_, err := sm.CreateEntity("Missing.mesh")
	assert.ErrorIs(t, err, core.ErrItemNotFound)

	mo, err := sm.CreateManualObject("Triangle")
	require.NoError(t, err)
	buildTriangle(t, mo)
	require.NoError(t, mo.ConvertToMesh("TriangleMesh"))

	e1, err := sm.CreateEntity("TriangleMesh")
	require.NoError(t, err)
	e2, err := sm.CreateEntity("TriangleMesh")
	require.NoError(t, err)
	assert.Equal(t, "TriangleMesh", e1.MeshName())
	assert.NotEqual(t, e1.Name(), e2.Name())

	dir := t.TempDir()
	data := "triangles = [[0, 1, 2]]\n" +
		"[[vertices]]\nposition = [0.0, 0.0, 0.0]\n" +
		"[[vertices]]\nposition = [1.0, 0.0, 0.0]\n" +
		"[[vertices]]\nposition = [0.0, 1.0, 0.0]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Tri.mesh"), []byte(data), 0o644))
	require.NoError(t, gm.CreateResourceGroup("Meshes"))
	require.NoError(t, gm.AddResourceLocation(dir, render.FileSystemLocation, "Meshes", false))

	_, err = sm.CreateEntity("Tri.mesh")
	assert.ErrorIs(t, err, core.ErrItemNotFound, "uninitialised groups are not searched")

	require.NoError(t, gm.InitialiseResourceGroup("Meshes"))
	e3, err := sm.CreateNamedEntity("Tri", "Tri.mesh")
	require.NoError(t, err)
	assert.Equal(t, 1, e3.Mesh().TriangleCount())
	_, err = sm.CreateNamedEntity("Tri", "Tri.mesh")
	assert.ErrorIs(t, err, core.ErrDuplicateName)
}

func TestVisitRenderables(t *testing.T) {
	sm, _, _ := newTestManager(t)
	mo, err := sm.CreateManualObject("Triangle")
	require.NoError(t, err)
	buildTriangle(t, mo)
	require.NoError(t, mo.ConvertToMesh("TriangleMesh"))

	cam, err := sm.CreateCamera("MainCamera")
	require.NoError(t, err)
	require.NoError(t, sm.RootSceneNode().AttachObject(cam))

	var positions []math.Vec3
	for i := 0; i < 3; i++ {
		e, err := sm.CreateEntity("TriangleMesh")
		require.NoError(t, err)
		node, err := sm.RootSceneNode().CreateChildSceneNode("")
		require.NoError(t, err)
		node.Translate(float32(i), 0, -30)
		require.NoError(t, node.AttachObject(e))
		positions = append(positions, math.NewVec3(float32(i), 0, -30))
	}
	// an entity that is never attached is not drawn
	_, err = sm.CreateEntity("TriangleMesh")
	require.NoError(t, err)

	var got []math.Vec3
	sm.VisitRenderables(func(mesh *resources.Mesh, world math.Mat4) {
		assert.Equal(t, "TriangleMesh", mesh.Name)
		got = append(got, math.NewVec3Zero().Transform(world))
	})
	require.Len(t, got, 3)
	for i := range positions {
		assert.True(t, got[i].Compare(positions[i], 1e-5))
	}
}
