package resources

import (
	"fmt"
	"sort"
	"sync"

	"github.com/spaghettifunk/scaffold/engine/core"
)

// MeshManager is the registry of meshes available to scene managers.
// Meshes come from mesh files in resource groups or from manual objects.
type MeshManager struct {
	mutex  sync.RWMutex
	meshes map[string]*Mesh
	groups *GroupManager
}

// NewMeshManager creates the registry and registers the mesh file loader
// with the group manager.
func NewMeshManager(groups *GroupManager) *MeshManager {
	mm := &MeshManager{
		meshes: make(map[string]*Mesh),
		groups: groups,
	}
	if groups != nil {
		groups.RegisterLoader(ResourceTypeMesh, &MeshFileLoader{meshes: mm})
	}
	return mm
}

// Create registers a mesh. Names are unique across groups.
func (mm *MeshManager) Create(mesh *Mesh) error {
	if err := ValidateMesh(mesh); err != nil {
		return err
	}
	mm.mutex.Lock()
	defer mm.mutex.Unlock()
	if _, ok := mm.meshes[mesh.Name]; ok {
		return fmt.Errorf("mesh %q: %w", mesh.Name, core.ErrDuplicateName)
	}
	mm.meshes[mesh.Name] = mesh
	return nil
}

func (mm *MeshManager) Get(name string) (*Mesh, bool) {
	mm.mutex.RLock()
	defer mm.mutex.RUnlock()
	m, ok := mm.meshes[name]
	return m, ok
}

// Load returns the named mesh, loading it from the resource groups when
// it is not in memory yet.
func (mm *MeshManager) Load(name string) (*Mesh, error) {
	if m, ok := mm.Get(name); ok {
		return m, nil
	}
	if mm.groups == nil {
		return nil, fmt.Errorf("mesh %q: %w", name, core.ErrItemNotFound)
	}
	if _, err := mm.groups.LoadResource(name); err != nil {
		return nil, err
	}
	if m, ok := mm.Get(name); ok {
		return m, nil
	}
	return nil, fmt.Errorf("mesh %q: %w", name, core.ErrItemNotFound)
}

func (mm *MeshManager) Remove(name string) {
	mm.mutex.Lock()
	defer mm.mutex.Unlock()
	delete(mm.meshes, name)
}

// Names lists the registered meshes, sorted.
func (mm *MeshManager) Names() []string {
	mm.mutex.RLock()
	defer mm.mutex.RUnlock()
	out := make([]string, 0, len(mm.meshes))
	for n := range mm.meshes {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// ValidateMesh checks the index list describes whole triangles over
// existing vertices.
func ValidateMesh(mesh *Mesh) error {
	if mesh == nil || mesh.Name == "" {
		return fmt.Errorf("mesh needs a name: %w", core.ErrInvalidParams)
	}
	if len(mesh.Indices)%3 != 0 {
		return fmt.Errorf("mesh %q has %d indices, not a triangle list: %w", mesh.Name, len(mesh.Indices), core.ErrInvalidParams)
	}
	for _, i := range mesh.Indices {
		if int(i) >= len(mesh.Vertices) {
			return fmt.Errorf("mesh %q index %d out of range (%d vertices): %w", mesh.Name, i, len(mesh.Vertices), core.ErrInvalidParams)
		}
	}
	return nil
}
