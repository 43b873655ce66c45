package scene

import (
	"fmt"

	"github.com/spaghettifunk/scaffold/engine/core"
	"github.com/spaghettifunk/scaffold/engine/math"
	"github.com/spaghettifunk/scaffold/engine/render"
)

const (
	DefaultNearClipDistance float32 = 100
	DefaultFarClipDistance  float32 = 100000
	DefaultFOVy             float32 = 45
)

// Camera looks down the negative z axis of the node it is attached to.
type Camera struct {
	name        string
	parent      *Node
	aspectRatio float32
	fovY        float32
	near        float32
	far         float32
}

func newCamera(name string) *Camera {
	return &Camera{
		name:        name,
		aspectRatio: 4.0 / 3.0,
		fovY:        math.DegToRad(DefaultFOVy),
		near:        DefaultNearClipDistance,
		far:         DefaultFarClipDistance,
	}
}

func (c *Camera) Name() string {
	return c.name
}

func (c *Camera) ParentSceneNode() render.SceneNode {
	if c.parent == nil {
		return nil
	}
	return c.parent
}

func (c *Camera) setParent(n *Node) {
	c.parent = n
}

func (c *Camera) SetAspectRatio(ratio float32) {
	c.aspectRatio = ratio
}

func (c *Camera) AspectRatio() float32 {
	return c.aspectRatio
}

// SetNearClipDistance fails unless 0 < distance < far.
func (c *Camera) SetNearClipDistance(distance float32) error {
	if distance <= 0 {
		return fmt.Errorf("near clip distance %g must be greater than zero: %w", distance, core.ErrInvalidClipDistance)
	}
	if distance >= c.far {
		return fmt.Errorf("near clip distance %g must be less than the far one (%g): %w", distance, c.far, core.ErrInvalidClipDistance)
	}
	c.near = distance
	return nil
}

func (c *Camera) NearClipDistance() float32 {
	return c.near
}

// SetFarClipDistance fails unless distance > near.
func (c *Camera) SetFarClipDistance(distance float32) error {
	if distance <= c.near {
		return fmt.Errorf("far clip distance %g must be greater than the near one (%g): %w", distance, c.near, core.ErrInvalidClipDistance)
	}
	c.far = distance
	return nil
}

func (c *Camera) FarClipDistance() float32 {
	return c.far
}

// SetFOVy sets the vertical field of view, in radians.
func (c *Camera) SetFOVy(radians float32) {
	c.fovY = radians
}

func (c *Camera) FOVy() float32 {
	return c.fovY
}

// ViewMatrix transforms world space into camera space.
func (c *Camera) ViewMatrix() math.Mat4 {
	if c.parent == nil {
		return math.NewMat4Identity()
	}
	return c.parent.WorldMatrix().Inverse()
}

func (c *Camera) ProjectionMatrix() math.Mat4 {
	return math.NewMat4Perspective(c.fovY, c.aspectRatio, c.near, c.far)
}

// SceneManager is the manager that owns the node the camera is attached
// to, nil while detached.
func (c *Camera) SceneManager() *Manager {
	if c.parent == nil {
		return nil
	}
	return c.parent.manager
}
