//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the testbed in a window with the OpenGL renderer.
func (Run) Sample() error {
	fmt.Println("Run sample...")
	if _, err := executeCmd("go", withArgs("run", "main.go", "-config", "deimos.toml"), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the testbed for a few frames on the headless renderer.
func (Run) Headless() error {
	mg.Deps(Build.Test)
	fmt.Println("Run headless...")
	if _, err := executeCmd("go", withArgs("run", "main.go", "-config", "deimos.toml", "-headless", "120"), withStream()); err != nil {
		return err
	}
	return nil
}
