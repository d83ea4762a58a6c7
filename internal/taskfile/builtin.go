// Package taskfile assembles the runner's Taskfile from the built-in
// targets and an optional task file in YAML, JSONC or HCL.
package taskfile

import "github.com/hdl-tools/logical/internal/model"

// DefaultTarget is run when no target is named.
const DefaultTarget = "all"

// Builtin returns the seven targets every checkout of the project has.
// Each call returns a fresh copy that callers may modify.
func Builtin() *model.Taskfile {
	tf := model.NewTaskfile()
	tf.Default = DefaultTarget

	tf.Add(&model.Target{
		Name:        "format",
		Description: "Reformat source files in place",
		Command:     []string{"go", "fmt", "./..."},
		Effects:     model.EffectRewritesSource,
	})
	tf.Add(&model.Target{
		Name:        "clippy",
		Description: "Run static lints",
		Command:     []string{"go", "vet", "./..."},
		Effects:     model.EffectNone,
	})
	tf.Add(&model.Target{
		Name:        "test",
		Description: "Run the test suite",
		Command:     []string{"go", "test", "./..."},
		Effects:     model.EffectNone,
	})
	tf.Add(&model.Target{
		Name:        "build",
		Description: "Compile all packages",
		Command:     []string{"go", "build", "./..."},
		Effects:     model.EffectWritesArtifacts,
	})
	tf.Add(&model.Target{
		Name:        "run",
		Description: "Build and run the full adder demo",
		Command:     []string{"go", "run", "./cmd/logical", "fulladder"},
		Effects:     model.EffectWritesArtifacts,
	})
	tf.Add(&model.Target{
		Name:        "doc",
		Description: "Serve the package documentation and open a browser",
		Command:     []string{"go", "run", "golang.org/x/pkgsite/cmd/pkgsite@latest", "-open", "."},
		Effects:     model.EffectWritesArtifacts,
	})
	tf.Add(&model.Target{
		Name:        "all",
		Description: "Lint, then test",
		Deps:        []string{"clippy", "test"},
		Effects:     model.EffectNone,
	})
	return tf
}
