// Package scene implements the scene graph: managers, nodes and the
// objects attached to them.
package scene

import (
	"fmt"

	"github.com/spaghettifunk/scaffold/engine/core"
	"github.com/spaghettifunk/scaffold/engine/math"
	"github.com/spaghettifunk/scaffold/engine/render"
	"github.com/spaghettifunk/scaffold/engine/resources"
)

// Manager owns a scene graph and every object created through it.
// It is not safe for concurrent use.
type Manager struct {
	name      string
	sceneType render.SceneType
	meshes    *resources.MeshManager

	root    *Node
	nodes   map[string]struct{}
	cameras map[string]*Camera
	objects map[string]attachable
}

// NewManager creates a scene manager resolving meshes from the given
// registry.
func NewManager(sceneType render.SceneType, name string, meshes *resources.MeshManager) *Manager {
	m := &Manager{
		name:      name,
		sceneType: sceneType,
		meshes:    meshes,
		nodes:     make(map[string]struct{}),
		cameras:   make(map[string]*Camera),
		objects:   make(map[string]attachable),
	}
	rootName := name + "_RootSceneNode"
	m.nodes[rootName] = struct{}{}
	m.root = newNode(m, rootName, nil)
	return m
}

func (m *Manager) Name() string {
	return m.name
}

func (m *Manager) Type() render.SceneType {
	return m.sceneType
}

func (m *Manager) RootSceneNode() render.SceneNode {
	return m.root
}

func (m *Manager) Root() *Node {
	return m.root
}

func (m *Manager) registerNode(name string) error {
	if _, ok := m.nodes[name]; ok {
		return fmt.Errorf("scene node %q: %w", name, core.ErrDuplicateName)
	}
	m.nodes[name] = struct{}{}
	return nil
}

func (m *Manager) CreateCamera(name string) (render.Camera, error) {
	if name == "" {
		return nil, fmt.Errorf("camera name cannot be empty: %w", core.ErrInvalidParams)
	}
	if _, ok := m.cameras[name]; ok {
		return nil, fmt.Errorf("camera %q: %w", name, core.ErrDuplicateName)
	}
	cam := newCamera(name)
	m.cameras[name] = cam
	return cam, nil
}

// Camera returns a camera created by this manager.
func (m *Manager) Camera(name string) (*Camera, bool) {
	c, ok := m.cameras[name]
	return c, ok
}

// CreateEntity instances a mesh under a generated name.
func (m *Manager) CreateEntity(meshName string) (render.Entity, error) {
	return m.CreateNamedEntity(generateName("entity"), meshName)
}

// CreateNamedEntity instances a mesh, loading it from the resource groups
// on first use.
func (m *Manager) CreateNamedEntity(name, meshName string) (*Entity, error) {
	if _, ok := m.objects[name]; ok {
		return nil, fmt.Errorf("entity %q: %w", name, core.ErrDuplicateName)
	}
	if m.meshes == nil {
		return nil, fmt.Errorf("mesh %q: %w", meshName, core.ErrItemNotFound)
	}
	mesh, err := m.meshes.Load(meshName)
	if err != nil {
		return nil, fmt.Errorf("failed to create entity from mesh %q: %w", meshName, err)
	}
	e := &Entity{name: name, mesh: mesh}
	m.objects[name] = e
	return e, nil
}

func (m *Manager) CreateManualObject(name string) (render.ManualObject, error) {
	if name == "" {
		name = generateName("manual")
	}
	if _, ok := m.objects[name]; ok {
		return nil, fmt.Errorf("manual object %q: %w", name, core.ErrDuplicateName)
	}
	mo := &ManualObject{name: name, meshes: m.meshes}
	m.objects[name] = mo
	return mo, nil
}

// Object returns an entity or manual object by name.
func (m *Manager) Object(name string) (render.MovableObject, bool) {
	o, ok := m.objects[name]
	return o, ok
}

// VisitRenderables calls fn for every attached object with geometry,
// with the world matrix of its node.
func (m *Manager) VisitRenderables(fn func(mesh *resources.Mesh, world math.Mat4)) {
	m.root.walk(func(n *Node) {
		if len(n.objects) == 0 {
			return
		}
		world := n.WorldMatrix()
		for _, o := range n.objects {
			r, ok := o.(renderable)
			if !ok {
				continue
			}
			if mesh := r.renderMesh(); mesh != nil {
				fn(mesh, world)
			}
		}
	})
}
