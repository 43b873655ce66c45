package scene

import (
	"github.com/spaghettifunk/scaffold/engine/render"
	"github.com/spaghettifunk/scaffold/engine/resources"
)

// renderable is an object with geometry the rasteriser can draw.
type renderable interface {
	attachable
	renderMesh() *resources.Mesh
}

// Entity is an instance of a shared mesh.
type Entity struct {
	name   string
	mesh   *resources.Mesh
	parent *Node
}

func (e *Entity) Name() string {
	return e.name
}

func (e *Entity) MeshName() string {
	return e.mesh.Name
}

func (e *Entity) Mesh() *resources.Mesh {
	return e.mesh
}

func (e *Entity) ParentSceneNode() render.SceneNode {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

func (e *Entity) setParent(n *Node) {
	e.parent = n
}

func (e *Entity) renderMesh() *resources.Mesh {
	return e.mesh
}
