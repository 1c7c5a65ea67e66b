//go:build mage

package main

import (
	"fmt"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// run executes command, streaming its output when asked to or when mage runs
// verbose. A quiet failure prints what the command wrote.
func run(stream bool, command string, args ...string) error {
	fmt.Printf("Executing: %s %s\n", command, strings.Join(args, " "))
	if stream || mg.Verbose() {
		if err := sh.RunV(command, args...); err != nil {
			return fmt.Errorf("error executing %s: %w", command, err)
		}
		return nil
	}
	out, err := sh.Output(command, args...)
	if err != nil {
		fmt.Println("... failed command output:")
		fmt.Println(out)
		return fmt.Errorf("error executing %s: %w", command, err)
	}
	return nil
}
