//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"

	"github.com/hdl-tools/logical/internal/taskfile"
)

// Default target to run when none is specified
var Default = All

// Aliases matches the names logical-task accepts
var Aliases = map[string]interface{}{
	"fmt":  Format,
	"lint": Clippy,
	"vet":  Clippy,
}

// delegate runs the built-in target's command with output attached to the
// terminal, so mage and logical-task never disagree on what a target does.
func delegate(name string) error {
	target, err := taskfile.Builtin().Lookup(name)
	if err != nil {
		return err
	}
	return sh.RunV(target.Command[0], target.Command[1:]...)
}

// Format rewrites all Go sources with gofmt
func Format() error { return delegate("format") }

// Clippy runs go vet on every package
func Clippy() error { return delegate("clippy") }

// Test runs the test suite
func Test() error { return delegate("test") }

// Build compiles every package
func Build() error { return delegate("build") }

// Run simulates the full adder
func Run() error { return delegate("run") }

// Doc serves the package documentation locally
func Doc() error { return delegate("doc") }

// All runs the linter, then the tests
func All() {
	mg.SerialDeps(Clippy, Test)
}
