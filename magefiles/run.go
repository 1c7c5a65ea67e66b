//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Compiles the shaders and runs the app.
func (Run) App() error {
	if err := buildShaders(); err != nil {
		return err
	}
	fmt.Println("Run planogram...")
	return run(true, "go", "run", ".")
}

// Prints the generated polygon without opening a window.
func (Run) Dump() error {
	return run(true, "go", "run", ".", "-dump")
}
