package resources

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/spaghettifunk/scaffold/engine/core"
	"github.com/spaghettifunk/scaffold/engine/render"
)

type resourceGroup struct {
	name      string
	status    GroupStatus
	locations []Location
	// resource name -> full path
	index  map[string]string
	loaded map[string]*Resource
}

func newResourceGroup(name string) *resourceGroup {
	return &resourceGroup{
		name:   name,
		index:  make(map[string]string),
		loaded: make(map[string]*Resource),
	}
}

// GroupManager keeps track of named resource groups, the directories they
// are read from and the resources loaded from them. It is safe for
// concurrent use; the filesystem watcher updates the indexes in the
// background once a group is initialised.
type GroupManager struct {
	mutex   sync.RWMutex
	groups  map[string]*resourceGroup
	order   []string
	loaders map[ResourceType]Loader

	watcher *watcher
}

// NewGroupManager creates a manager holding only the default group, which
// is already initialised.
func NewGroupManager() *GroupManager {
	gm := &GroupManager{
		groups:  make(map[string]*resourceGroup),
		loaders: make(map[ResourceType]Loader),
	}
	def := newResourceGroup(render.DefaultResourceGroup)
	def.status = GroupStatusInitialised
	gm.groups[def.name] = def
	gm.order = append(gm.order, def.name)
	return gm
}

// RegisterLoader sets the loader used for every resource of the given type.
func (gm *GroupManager) RegisterLoader(resourceType ResourceType, loader Loader) {
	gm.mutex.Lock()
	defer gm.mutex.Unlock()
	gm.loaders[resourceType] = loader
}

func (gm *GroupManager) CreateResourceGroup(name string) error {
	if name == "" {
		return fmt.Errorf("resource group name cannot be empty: %w", core.ErrInvalidParams)
	}
	gm.mutex.Lock()
	defer gm.mutex.Unlock()

	if _, ok := gm.groups[name]; ok {
		return fmt.Errorf("resource group %q: %w", name, core.ErrDuplicateName)
	}
	gm.createGroupLocked(name)
	core.LogDebug("Creating resource group %s", name)
	return nil
}

func (gm *GroupManager) createGroupLocked(name string) *resourceGroup {
	g := newResourceGroup(name)
	gm.groups[name] = g
	gm.order = append(gm.order, name)
	return g
}

// AddResourceLocation registers a directory under the group; the group is
// created when it does not exist. Only filesystem locations are supported.
func (gm *GroupManager) AddResourceLocation(path, locationType, group string, recursive bool) error {
	if locationType != render.FileSystemLocation {
		return fmt.Errorf("location type %q: %w", locationType, core.ErrUnsupportedResource)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resource location %q: %w", path, err)
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("resource location %q: %w", path, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("resource location %q is not a directory: %w", path, core.ErrInvalidParams)
	}

	gm.mutex.Lock()
	defer gm.mutex.Unlock()

	g, ok := gm.groups[group]
	if !ok {
		g = gm.createGroupLocked(group)
	}
	loc := Location{Path: abs, Type: locationType, Recursive: recursive}
	g.locations = append(g.locations, loc)

	// an initialised group indexes new locations straight away
	if g.status != GroupStatusUninitialised {
		if err := gm.indexLocationLocked(g, loc); err != nil {
			return err
		}
	}
	core.LogInfo("Added resource location '%s' of type '%s' to resource group '%s'%s",
		abs, locationType, group, map[bool]string{true: " with recursive option", false: ""}[recursive])
	return nil
}

// InitialiseResourceGroup indexes every file of the group locations and
// starts watching them for changes.
func (gm *GroupManager) InitialiseResourceGroup(name string) error {
	gm.mutex.Lock()
	defer gm.mutex.Unlock()

	g, ok := gm.groups[name]
	if !ok {
		return fmt.Errorf("resource group %q: %w", name, core.ErrItemNotFound)
	}
	if g.status != GroupStatusUninitialised {
		core.LogDebug("Resource group %s already initialised", name)
		return nil
	}
	for _, loc := range g.locations {
		if err := gm.indexLocationLocked(g, loc); err != nil {
			return err
		}
	}
	g.status = GroupStatusInitialised
	core.LogInfo("Initialised resource group %s with %d resources", name, len(g.index))
	return nil
}

func (gm *GroupManager) indexLocationLocked(g *resourceGroup, loc Location) error {
	if err := gm.watchLocationLocked(g.name, loc); err != nil {
		core.LogWarn("not watching %s: %s", loc.Path, err)
	}

	if !loc.Recursive {
		entries, err := os.ReadDir(loc.Path)
		if err != nil {
			return fmt.Errorf("failed to index %q: %w", loc.Path, err)
		}
		for _, e := range entries {
			if !e.IsDir() {
				gm.indexFileLocked(g, filepath.Join(loc.Path, e.Name()))
			}
		}
		return nil
	}

	return filepath.WalkDir(loc.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			gm.indexFileLocked(g, path)
		}
		return nil
	})
}

func (gm *GroupManager) indexFileLocked(g *resourceGroup, path string) {
	name := filepath.Base(path)
	if existing, ok := g.index[name]; ok && existing != path {
		core.LogWarn("Resource %s in group %s found at %s and %s, keeping the first", name, g.name, existing, path)
		return
	}
	g.index[name] = path
}

// LoadResourceGroup loads every indexed resource that has a loader.
func (gm *GroupManager) LoadResourceGroup(name string) error {
	gm.mutex.Lock()
	defer gm.mutex.Unlock()

	g, ok := gm.groups[name]
	if !ok {
		return fmt.Errorf("resource group %q: %w", name, core.ErrItemNotFound)
	}
	if g.status == GroupStatusUninitialised {
		return fmt.Errorf("resource group %q: %w", name, core.ErrResourceGroupNotReady)
	}

	names := make([]string, 0, len(g.index))
	for n := range g.index {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, n := range names {
		if _, done := g.loaded[n]; done {
			continue
		}
		if _, err := gm.loadLocked(g, n); err != nil {
			if errors.Is(err, core.ErrUnsupportedResource) {
				continue
			}
			return err
		}
	}
	g.status = GroupStatusLoaded
	core.LogInfo("Loaded resource group %s (%d resources)", name, len(g.loaded))
	return nil
}

func (gm *GroupManager) loadLocked(g *resourceGroup, name string) (*Resource, error) {
	path, ok := g.index[name]
	if !ok {
		return nil, fmt.Errorf("resource %q in group %q: %w", name, g.name, core.ErrItemNotFound)
	}
	t := determineResourceType(path)
	loader, ok := gm.loaders[t]
	if !ok {
		return nil, fmt.Errorf("resource %q: %w", name, core.ErrUnsupportedResource)
	}
	res, err := loader.Load(name, g.name, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %q from group %q: %w", name, g.name, err)
	}
	g.loaded[name] = res
	core.LogDebug("Loaded %s resource %s", t, name)
	return res, nil
}

// UnloadResourceGroup unloads the loaded resources, keeping the index.
func (gm *GroupManager) UnloadResourceGroup(name string) error {
	gm.mutex.Lock()
	defer gm.mutex.Unlock()

	g, ok := gm.groups[name]
	if !ok {
		return fmt.Errorf("resource group %q: %w", name, core.ErrItemNotFound)
	}
	var errs []error
	for n, res := range g.loaded {
		if err := gm.unloadLocked(res); err != nil {
			errs = append(errs, err)
		}
		delete(g.loaded, n)
	}
	if g.status == GroupStatusLoaded {
		g.status = GroupStatusInitialised
	}
	return errors.Join(errs...)
}

func (gm *GroupManager) unloadLocked(res *Resource) error {
	loader, ok := gm.loaders[res.Type]
	if !ok {
		return nil
	}
	return loader.Unload(res)
}

// LoadResource loads a resource by name from the first initialised group
// that indexes it. Already loaded resources are returned as is.
func (gm *GroupManager) LoadResource(name string) (*Resource, error) {
	gm.mutex.Lock()
	defer gm.mutex.Unlock()

	for _, gn := range gm.order {
		g := gm.groups[gn]
		if g.status == GroupStatusUninitialised {
			continue
		}
		if res, ok := g.loaded[name]; ok {
			return res, nil
		}
		if _, ok := g.index[name]; ok {
			return gm.loadLocked(g, name)
		}
	}
	return nil, fmt.Errorf("resource %q: %w", name, core.ErrItemNotFound)
}

// Find returns the group and the path of an indexed resource.
func (gm *GroupManager) Find(name string) (group string, path string, ok bool) {
	gm.mutex.RLock()
	defer gm.mutex.RUnlock()

	for _, gn := range gm.order {
		g := gm.groups[gn]
		if p, found := g.index[name]; found {
			return gn, p, true
		}
	}
	return "", "", false
}

func (gm *GroupManager) ResourceGroupExists(name string) bool {
	gm.mutex.RLock()
	defer gm.mutex.RUnlock()
	_, ok := gm.groups[name]
	return ok
}

func (gm *GroupManager) Status(name string) (GroupStatus, error) {
	gm.mutex.RLock()
	defer gm.mutex.RUnlock()
	g, ok := gm.groups[name]
	if !ok {
		return GroupStatusUninitialised, fmt.Errorf("resource group %q: %w", name, core.ErrItemNotFound)
	}
	return g.status, nil
}

// Locations returns a copy of the locations registered under the group.
func (gm *GroupManager) Locations(name string) []Location {
	gm.mutex.RLock()
	defer gm.mutex.RUnlock()
	g, ok := gm.groups[name]
	if !ok {
		return nil
	}
	return append([]Location(nil), g.locations...)
}

// Shutdown stops the filesystem watcher and unloads every group.
func (gm *GroupManager) Shutdown() error {
	gm.mutex.Lock()
	w := gm.watcher
	gm.watcher = nil
	names := append([]string(nil), gm.order...)
	gm.mutex.Unlock()

	var errs []error
	if w != nil {
		if err := w.close(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, n := range names {
		if err := gm.UnloadResourceGroup(n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
