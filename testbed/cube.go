// Package testbed builds the demo scene: a cube mesh made by hand and a
// diagonal row of cubes instancing it.
package testbed

import (
	"fmt"

	"github.com/spaghettifunk/scaffold/engine/core"
	"github.com/spaghettifunk/scaffold/engine/render"
)

const (
	CubeMaterial = "BaseWhiteNoLighting"
	// CubeSize is half the edge of the cube.
	CubeSize float32 = 0.7
)

// corners of the cube and their colours, back face first
var cubeVertices = [8]struct {
	x, y, z float32
	colour  render.ColourValue
}{
	{-1, 1, -1, render.NewColourValue(0, 1, 0)},
	{1, 1, -1, render.NewColourValue(1, 1, 0)},
	{1, -1, -1, render.NewColourValue(1, 0, 0)},
	{-1, -1, -1, render.NewColourValue(0, 0, 0)},
	{-1, 1, 1, render.NewColourValue(0, 1, 1)},
	{1, 1, 1, render.NewColourValue(1, 1, 1)},
	{1, -1, 1, render.NewColourValue(1, 0, 1)},
	{-1, -1, 1, render.NewColourValue(0, 0, 1)},
}

var cubeTriangles = [12][3]uint32{
	// back / front
	{0, 1, 2}, {2, 3, 0}, {4, 6, 5}, {6, 4, 7},
	// top / bottom
	{0, 4, 5}, {5, 1, 0}, {2, 6, 7}, {7, 3, 2},
	// left / right
	{0, 7, 4}, {7, 0, 3}, {1, 5, 6}, {6, 2, 1},
}

/**
 * @brief Builds a coloured cube as a manual object and registers it as a
 * mesh entities can instance.
 *
 * @param sm The scene manager creating the manual object.
 * @param objectName The name of the manual object.
 * @param meshName The name the mesh is registered under.
 */
func CreateCubeMesh(sm render.SceneManager, objectName, meshName string) (render.ManualObject, error) {
	mo, err := sm.CreateManualObject(objectName)
	if err != nil {
		return nil, err
	}
	mo.SetDynamic(false)

	if err := mo.Begin(CubeMaterial, render.OperationTypeTriangleList); err != nil {
		return nil, err
	}
	for _, v := range cubeVertices {
		mo.Position(v.x*CubeSize, v.y*CubeSize, v.z*CubeSize)
		mo.Colour(v.colour)
	}
	for _, t := range cubeTriangles {
		mo.Triangle(t[0], t[1], t[2])
	}
	if err := mo.End(); err != nil {
		return nil, err
	}

	if err := mo.ConvertToMesh(meshName); err != nil {
		return nil, fmt.Errorf("failed to convert %s to mesh %s: %w", objectName, meshName, err)
	}
	core.LogDebug("Cube mesh %s created", meshName)
	return mo, nil
}
