package framework

import (
	"github.com/spaghettifunk/scaffold/engine/core"
	"github.com/spaghettifunk/scaffold/engine/render"
)

// MeshLoader loads a directory of resources into a resource group so the
// engine can use the meshes it contains.
type MeshLoader struct {
	manager render.ResourceGroupManager

	resourceGroupName     string
	resourceDirectoryPath string
	recursiveSearch       bool
}

// NewMeshLoader targets the directory rdPath, loaded into the group rgName,
// searching sub-directories when rSearch is true.
func NewMeshLoader(manager render.ResourceGroupManager, rgName, rdPath string, rSearch bool) *MeshLoader {
	return &MeshLoader{
		manager:               manager,
		resourceGroupName:     rgName,
		resourceDirectoryPath: rdPath,
		recursiveSearch:       rSearch,
	}
}

// SetResourceTarget changes the group, the directory and the recursion flag.
func (ml *MeshLoader) SetResourceTarget(rgName, rdPath string, rSearch bool) {
	ml.resourceGroupName = rgName
	ml.resourceDirectoryPath = rdPath
	ml.recursiveSearch = rSearch
}

// LoadResourceDirectory creates the group, registers the directory under it,
// then initialises and loads the group. The first failing step is returned
// and the previous ones are not rolled back. Loading the same group twice
// fails on creation.
func (ml *MeshLoader) LoadResourceDirectory() error {
	if err := ml.manager.CreateResourceGroup(ml.resourceGroupName); err != nil {
		return err
	}
	if err := ml.manager.AddResourceLocation(ml.resourceDirectoryPath, render.FileSystemLocation, ml.resourceGroupName, ml.recursiveSearch); err != nil {
		return err
	}
	if err := ml.manager.InitialiseResourceGroup(ml.resourceGroupName); err != nil {
		return err
	}
	if err := ml.manager.LoadResourceGroup(ml.resourceGroupName); err != nil {
		return err
	}
	core.LogInfo("Resource group %s loaded from %s", ml.resourceGroupName, ml.resourceDirectoryPath)
	return nil
}

func (ml *MeshLoader) ResourceGroupName() string {
	return ml.resourceGroupName
}

func (ml *MeshLoader) ResourceDirectoryPath() string {
	return ml.resourceDirectoryPath
}

func (ml *MeshLoader) RecursiveSearch() bool {
	return ml.recursiveSearch
}
