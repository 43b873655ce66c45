package testbed

import (
	"fmt"

	"github.com/spaghettifunk/scaffold/engine/core"
	"github.com/spaghettifunk/scaffold/engine/render"
)

// GridDepth is the distance of the grid in front of the origin.
const GridDepth float32 = -30

// GridOffset is where entity i of count sits on both the x and y axes,
// so the row is centred on the origin.
func GridOffset(i, count int) float32 {
	return float32(1+i*2) - float32(count)
}

// PopulateGrid instances the mesh count times into unnamed children of
// parent, along the diagonal at GridDepth.
func PopulateGrid(sm render.SceneManager, parent render.SceneNode, meshName string, count int) ([]render.SceneNode, error) {
	if count < 0 {
		return nil, fmt.Errorf("grid of %d entities: %w", count, core.ErrInvalidParams)
	}
	nodes := make([]render.SceneNode, 0, count)
	for i := 0; i < count; i++ {
		entity, err := sm.CreateEntity(meshName)
		if err != nil {
			return nil, err
		}
		node, err := parent.CreateChildSceneNode("")
		if err != nil {
			return nil, err
		}
		if err := node.AttachObject(entity); err != nil {
			return nil, err
		}
		offset := GridOffset(i, count)
		node.Translate(offset, offset, GridDepth)
		nodes = append(nodes, node)
	}
	return nodes, nil
}
