package resources

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/scaffold/engine/core"
	"github.com/spaghettifunk/scaffold/engine/math"
)

// meshFile is the on disk layout of a .mesh file:
//
//	material = "BaseWhiteNoLighting"
//	triangles = [[0, 1, 2], [2, 3, 0]]
//
//	[[vertices]]
//	position = [-0.7, 0.7, -0.7]
//	colour = [0.0, 1.0, 0.0, 1.0]
type meshFile struct {
	Material  string       `toml:"material"`
	Vertices  []meshVertex `toml:"vertices"`
	Triangles [][]uint32   `toml:"triangles"`
}

type meshVertex struct {
	Position []float32 `toml:"position"`
	Colour   []float32 `toml:"colour"`
}

// MeshFileLoader reads .mesh files into the mesh manager.
type MeshFileLoader struct {
	meshes *MeshManager
}

func (l *MeshFileLoader) Load(name, group, path string) (*Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	mesh, err := DecodeMesh(name, data)
	if err != nil {
		return nil, err
	}
	mesh.Group = group
	if err := l.meshes.Create(mesh); err != nil {
		return nil, err
	}
	return &Resource{
		Name:     name,
		Group:    group,
		FullPath: path,
		Type:     ResourceTypeMesh,
		DataSize: uint64(len(data)),
		Data:     mesh,
	}, nil
}

func (l *MeshFileLoader) Unload(res *Resource) error {
	if res == nil {
		return nil
	}
	l.meshes.Remove(res.Name)
	return nil
}

// DecodeMesh parses the TOML mesh format.
func DecodeMesh(name string, data []byte) (*Mesh, error) {
	var mf meshFile
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&mf); err != nil {
		return nil, fmt.Errorf("mesh %q: %w", name, err)
	}

	mesh := &Mesh{
		Name:     name,
		Material: mf.Material,
		Vertices: make([]math.Vertex3D, 0, len(mf.Vertices)),
		Indices:  make([]uint32, 0, len(mf.Triangles)*3),
	}
	for i, v := range mf.Vertices {
		if len(v.Position) != 3 {
			return nil, fmt.Errorf("mesh %q vertex %d: position needs 3 components: %w", name, i, core.ErrInvalidParams)
		}
		colour := math.NewVec4(1, 1, 1, 1)
		switch len(v.Colour) {
		case 0:
		case 3:
			colour = math.NewVec4(v.Colour[0], v.Colour[1], v.Colour[2], 1)
		case 4:
			colour = math.NewVec4(v.Colour[0], v.Colour[1], v.Colour[2], v.Colour[3])
		default:
			return nil, fmt.Errorf("mesh %q vertex %d: colour needs 3 or 4 components: %w", name, i, core.ErrInvalidParams)
		}
		mesh.Vertices = append(mesh.Vertices, math.Vertex3D{
			Position: math.NewVec3(v.Position[0], v.Position[1], v.Position[2]),
			Colour:   colour,
		})
	}
	for i, t := range mf.Triangles {
		if len(t) != 3 {
			return nil, fmt.Errorf("mesh %q triangle %d: needs 3 indices: %w", name, i, core.ErrInvalidParams)
		}
		mesh.Indices = append(mesh.Indices, t...)
	}
	if err := ValidateMesh(mesh); err != nil {
		return nil, err
	}
	return mesh, nil
}
