package scene

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spaghettifunk/scaffold/engine/core"
	"github.com/spaghettifunk/scaffold/engine/math"
	"github.com/spaghettifunk/scaffold/engine/render"
)

// attachable is implemented by every movable object of this package.
type attachable interface {
	render.MovableObject
	setParent(n *Node)
}

// Node is a scene node. Its transform is relative to its parent.
type Node struct {
	name      string
	manager   *Manager
	parent    *Node
	children  []*Node
	objects   []attachable
	transform *math.Transform
}

func newNode(m *Manager, name string, parent *Node) *Node {
	n := &Node{
		name:      name,
		manager:   m,
		parent:    parent,
		transform: math.TransformCreate(),
	}
	if parent != nil {
		n.transform.Parent = parent.transform
	}
	return n
}

func generateName(kind string) string {
	return fmt.Sprintf("Unnamed_%s_%s", kind, uuid.NewString())
}

func (n *Node) Name() string {
	return n.name
}

// CreateChildSceneNode creates a child node, generating a name when none is given.
func (n *Node) CreateChildSceneNode(name string) (render.SceneNode, error) {
	return n.CreateChild(name)
}

// CreateChild is CreateChildSceneNode returning the concrete node.
func (n *Node) CreateChild(name string) (*Node, error) {
	if name == "" {
		name = generateName("node")
	}
	if err := n.manager.registerNode(name); err != nil {
		return nil, err
	}
	child := newNode(n.manager, name, n)
	n.children = append(n.children, child)
	return child, nil
}

// AttachObject attaches a movable object created by the same scene manager.
func (n *Node) AttachObject(obj render.MovableObject) error {
	a, ok := obj.(attachable)
	if !ok || a == nil {
		return fmt.Errorf("object %T cannot be attached: %w", obj, core.ErrInvalidParams)
	}
	if a.ParentSceneNode() != nil {
		return fmt.Errorf("object %q: %w", a.Name(), core.ErrAlreadyAttached)
	}
	a.setParent(n)
	n.objects = append(n.objects, a)
	return nil
}

// DetachObject removes an attached object from the node.
func (n *Node) DetachObject(name string) error {
	for i, o := range n.objects {
		if o.Name() == name {
			o.setParent(nil)
			n.objects = append(n.objects[:i], n.objects[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("object %q on node %q: %w", name, n.name, core.ErrItemNotFound)
}

func (n *Node) Translate(x, y, z float32) {
	n.transform.Translate(math.NewVec3(x, y, z))
}

func (n *Node) SetPosition(x, y, z float32) {
	n.transform.SetPosition(math.NewVec3(x, y, z))
}

func (n *Node) Position() (x, y, z float32) {
	p := n.transform.Position
	return p.X, p.Y, p.Z
}

// Yaw rotates the node around its local y axis.
func (n *Node) Yaw(radians float32) {
	n.transform.Rotate(math.NewQuatFromAxisAngle(math.NewVec3Up(), radians, true))
}

// Pitch rotates the node around its local x axis.
func (n *Node) Pitch(radians float32) {
	n.transform.Rotate(math.NewQuatFromAxisAngle(math.NewVec3(1, 0, 0), radians, true))
}

func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) Children() []*Node {
	return n.children
}

func (n *Node) AttachedObjects() []render.MovableObject {
	out := make([]render.MovableObject, len(n.objects))
	for i, o := range n.objects {
		out[i] = o
	}
	return out
}

// WorldMatrix is the transform from node space to world space.
func (n *Node) WorldMatrix() math.Mat4 {
	return n.transform.GetWorld()
}

func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.walk(fn)
	}
}
