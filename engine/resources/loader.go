package resources

import (
	"path/filepath"
	"strings"
)

// Loader reads one kind of resource from disk.
type Loader interface {
	Load(name, group, path string) (*Resource, error)
	Unload(*Resource) error
}

func determineResourceType(path string) ResourceType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mesh":
		return ResourceTypeMesh
	default:
		return ResourceTypeNone
	}
}
