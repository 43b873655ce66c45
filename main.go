/*
This is an example of application that will use the
framework package to render a few cubes
*/
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/scaffold/engine"
	"github.com/spaghettifunk/scaffold/engine/core"
	"github.com/spaghettifunk/scaffold/engine/render"
	"github.com/spaghettifunk/scaffold/engine/renderer/headless"
	"github.com/spaghettifunk/scaffold/engine/renderer/opengl"
	"github.com/spaghettifunk/scaffold/framework"
	"github.com/spaghettifunk/scaffold/testbed"
)

func main() {
	var width, height float32 = 0.88, 0.88
	left := (1.0 - width) * 0.5
	top := (1.0 - height) * 0.5

	initiator := &framework.Initiator{
		AutoWindow:         false,
		ConfigFilename:     "",
		CustomCapabilities: "",
		Fullscreen:         false,
		LogFilename:        "framework.log",
		PluginsFilename:    "",
		SizeX:              800,
		SizeY:              600,
		WindowName:         "Framework Window",
		WindowParams: render.NameValuePairList{
			"FSAA":  "0",
			"vsync": "true",
		},
	}

	root, err := engine.NewRoot(engine.RootConfig{
		PluginsFilename: initiator.PluginsFilename,
		ConfigFilename:  initiator.ConfigFilename,
		LogFilename:     initiator.LogFilename,
		LogLevel:        core.LogLevelInfo,
	}, opengl.New(), headless.New())
	if err != nil {
		panic(err)
	}
	defer core.LogClose()

	f, err := framework.New(root, initiator)
	if err != nil {
		panic(err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			core.LogError("failed to shut down: %s", err)
		}
	}()

	if err := f.CreateWindow(initiator); err != nil {
		panic(err)
	}

	bva := framework.NewBasicViewportAction(f)
	defer bva.Release()
	bva.SetActionNames("Basic Scene Manager", "Wood Block Scene", "Wood Block Camera")
	bva.SetClippingPlaneDimensions(1.5, 3000.0)
	bva.SetViewportDimensions(height, width, top, left, 100)
	if err := bva.SceneSetup(); err != nil {
		panic(err)
	}

	ml := framework.NewMeshLoader(root.ResourceGroupManager(), "WoodBlockResources", "./meshes", false)
	if err := ml.LoadResourceDirectory(); err != nil {
		panic(err)
	}

	// add meshes to scene
	if sm := bva.SceneManager(); sm != nil {
		if err := populate(sm, bva.RootSceneNode()); err != nil {
			panic(err)
		}
		root.ClearEventTimes()
	}

	// signal context to capture system calls
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if err := f.RunWindow(ctx, bva); err != nil {
		panic(err)
	}
}

func populate(sm render.SceneManager, rootNode render.SceneNode) error {
	entity, err := sm.CreateEntity("Cube.mesh")
	if err != nil {
		return err
	}
	node, err := rootNode.CreateChildSceneNode("")
	if err != nil {
		return err
	}
	if err := node.AttachObject(entity); err != nil {
		return err
	}
	node.Translate(0, 0, -10.0)

	if _, err := testbed.CreateCubeMesh(sm, "Cube", "MeshCube"); err != nil {
		return err
	}
	_, err = testbed.PopulateGrid(sm, rootNode, "MeshCube", 5)
	return err
}
