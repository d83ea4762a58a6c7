// Package executor runs one delegated command, either on the host or in
// a container, and reports its exit code.
package executor

import (
	"context"
	"io"
	"os"
	"sort"
	"strings"
)

// Exit codes the executors produce themselves. They follow the shell's
// conventions so that scripts wrapping the runner see familiar values.
const (
	// ExitNotExecutable is returned when the program exists but cannot be
	// executed.
	ExitNotExecutable = 126

	// ExitNotFound is returned when the program does not exist.
	ExitNotFound = 127

	// exitSignalBase is added to the signal number of a child killed by a
	// signal.
	exitSignalBase = 128

	// ExitInterrupted is returned when the context was cancelled while the
	// command ran (Ctrl-C).
	ExitInterrupted = 130
)

// Command is one argv to run. Args is used exactly as given.
type Command struct {
	// Target is the name of the target the command belongs to.
	Target string

	Args []string

	// Env is added to the inherited environment, overriding duplicates.
	Env map[string]string

	// Dir is the working directory. Empty means the current directory.
	Dir string
}

// Executor runs commands.
//
// Execute returns the command's exit code. A non-nil error means the
// command did not run to completion (not found, interrupted, daemon
// failure); the code is then the executor's best description of that
// failure. A command that ran and exited non-zero returns its code and a
// nil error.
type Executor interface {
	Name() string
	Execute(ctx context.Context, cmd Command) (int, error)
}

// Streams bundles where command output goes.
type Streams struct {
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultStreams writes to the process's own stdout and stderr.
func DefaultStreams() Streams {
	return Streams{Stdout: os.Stdout, Stderr: os.Stderr}
}

// mergeEnv appends extra to base in key order. Later entries win when the
// child process reads its environment, so extra overrides base.
func mergeEnv(base []string, extra map[string]string) []string {
	if len(extra) == 0 {
		return base
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(base)+len(keys))
	for _, kv := range base {
		name, _, _ := strings.Cut(kv, "=")
		if _, overridden := extra[name]; overridden {
			continue
		}
		env = append(env, kv)
	}
	for _, k := range keys {
		env = append(env, k+"="+extra[k])
	}
	return env
}
