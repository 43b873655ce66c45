//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the framework window with the cube scene.
func (Run) Framework() error {
	fmt.Println("Run framework...")
	if _, err := executeCmd("go", withArgs("run", "main.go"), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs every test of the module.
func (Run) Tests() error {
	mg.Deps(Build.Binary)
	if _, err := executeCmd("go", withArgs("test", "-race", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the tests of the packages that need no display.
func (Run) HeadlessTests() error {
	pkgs := []string{"./framework/...", "./testbed/...", "./engine", "./engine/core/...", "./engine/math/...",
		"./engine/render/...", "./engine/resources/...", "./engine/scene/...", "./engine/renderer", "./engine/renderer/headless/..."}
	if _, err := executeCmd("go", withArgs(append([]string{"test"}, pkgs...)...), withStream()); err != nil {
		return err
	}
	return nil
}
