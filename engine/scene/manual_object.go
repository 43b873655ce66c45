package scene

import (
	"fmt"

	"github.com/spaghettifunk/scaffold/engine/core"
	"github.com/spaghettifunk/scaffold/engine/math"
	"github.com/spaghettifunk/scaffold/engine/render"
	"github.com/spaghettifunk/scaffold/engine/resources"
)

var white = math.NewVec4(1, 1, 1, 1)

// ManualObject builds a single triangle list section by hand. Between
// Begin and End vertices are added with Position; Colour applies to the
// last added vertex.
type ManualObject struct {
	name    string
	meshes  *resources.MeshManager
	parent  *Node
	dynamic bool

	building bool
	material string
	vertices []math.Vertex3D
	indices  []uint32

	// the last section closed with End
	section *resources.Mesh
}

func (mo *ManualObject) Name() string {
	return mo.name
}

func (mo *ManualObject) ParentSceneNode() render.SceneNode {
	if mo.parent == nil {
		return nil
	}
	return mo.parent
}

func (mo *ManualObject) setParent(n *Node) {
	mo.parent = n
}

func (mo *ManualObject) SetDynamic(dynamic bool) {
	mo.dynamic = dynamic
}

func (mo *ManualObject) Dynamic() bool {
	return mo.dynamic
}

func (mo *ManualObject) Begin(materialName string, op render.OperationType) error {
	if mo.building {
		return fmt.Errorf("manual object %q: begin called twice: %w", mo.name, core.ErrInvalidState)
	}
	if op != render.OperationTypeTriangleList {
		return fmt.Errorf("manual object %q: operation %d: %w", mo.name, op, core.ErrInvalidParams)
	}
	mo.building = true
	mo.material = materialName
	mo.vertices = mo.vertices[:0]
	mo.indices = mo.indices[:0]
	return nil
}

func (mo *ManualObject) Position(x, y, z float32) {
	if !mo.building {
		core.LogWarn("manual object %s: position outside begin/end ignored", mo.name)
		return
	}
	mo.vertices = append(mo.vertices, math.Vertex3D{Position: math.NewVec3(x, y, z), Colour: white})
}

func (mo *ManualObject) Colour(c render.ColourValue) {
	if !mo.building || len(mo.vertices) == 0 {
		core.LogWarn("manual object %s: colour without a vertex ignored", mo.name)
		return
	}
	mo.vertices[len(mo.vertices)-1].Colour = math.NewVec4(c.R, c.G, c.B, c.A)
}

func (mo *ManualObject) Triangle(i0, i1, i2 uint32) {
	if !mo.building {
		core.LogWarn("manual object %s: triangle outside begin/end ignored", mo.name)
		return
	}
	mo.indices = append(mo.indices, i0, i1, i2)
}

// End closes the section. Indices must reference added vertices.
func (mo *ManualObject) End() error {
	if !mo.building {
		return fmt.Errorf("manual object %q: end without begin: %w", mo.name, core.ErrInvalidState)
	}
	mo.building = false
	section := &resources.Mesh{
		Name:     mo.name,
		Group:    render.DefaultResourceGroup,
		Material: mo.material,
		Vertices: append([]math.Vertex3D(nil), mo.vertices...),
		Indices:  append([]uint32(nil), mo.indices...),
	}
	if err := resources.ValidateMesh(section); err != nil {
		return err
	}
	mo.section = section
	return nil
}

// ConvertToMesh registers a copy of the geometry as a mesh of the default
// resource group, to be instanced by entities.
func (mo *ManualObject) ConvertToMesh(meshName string) error {
	if mo.section == nil {
		return fmt.Errorf("manual object %q has no geometry: %w", mo.name, core.ErrInvalidState)
	}
	if mo.meshes == nil {
		return fmt.Errorf("manual object %q: no mesh manager: %w", mo.name, core.ErrInvalidState)
	}
	mesh := &resources.Mesh{
		Name:     meshName,
		Group:    render.DefaultResourceGroup,
		Material: mo.section.Material,
		Vertices: append([]math.Vertex3D(nil), mo.section.Vertices...),
		Indices:  append([]uint32(nil), mo.section.Indices...),
	}
	if err := mo.meshes.Create(mesh); err != nil {
		return err
	}
	core.LogDebug("Manual object %s converted to mesh %s (%d triangles)", mo.name, meshName, mesh.TriangleCount())
	return nil
}

func (mo *ManualObject) renderMesh() *resources.Mesh {
	return mo.section
}
