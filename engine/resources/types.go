package resources

import "github.com/spaghettifunk/scaffold/engine/math"

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Unknown resource type, nothing can load these. */
	ResourceTypeNone ResourceType = iota
	/** @brief Mesh resource type. */
	ResourceTypeMesh
	/** @brief Custom resource type. Used by loaders outside the core engine. */
	ResourceTypeCustom
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeMesh:
		return "mesh"
	case ResourceTypeCustom:
		return "custom"
	default:
		return "none"
	}
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The name of the resource, unique within its group. */
	Name string
	/** @brief The resource group the resource was loaded into. */
	Group string
	/** @brief The full file path of the resource. */
	FullPath string
	Type     ResourceType
	/** @brief The size of the resource data in bytes. */
	DataSize uint64
	/** @brief The resource data. */
	Data interface{}
}

// GroupStatus is the lifecycle state of a resource group.
type GroupStatus uint8

const (
	GroupStatusUninitialised GroupStatus = iota
	GroupStatusInitialised
	GroupStatusLoaded
)

func (s GroupStatus) String() string {
	switch s {
	case GroupStatusInitialised:
		return "initialised"
	case GroupStatusLoaded:
		return "loaded"
	default:
		return "uninitialised"
	}
}

// Location is a place resources of a group are searched in.
type Location struct {
	Path      string
	Type      string
	Recursive bool
}

/**
 * @brief A named collection of triangles with coloured vertices.
 */
type Mesh struct {
	Name     string
	Group    string
	Material string
	Vertices []math.Vertex3D
	/** @brief Triangle list, three indices per triangle. */
	Indices []uint32
}

// TriangleCount is the number of triangles in the index list.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}
