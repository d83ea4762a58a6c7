package executor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"syscall"

	"github.com/magefile/mage/sh"
)

// Host runs commands as child processes of the runner.
type Host struct {
	streams Streams
}

// NewHost returns a Host that connects children to the given streams.
// Stdin is always inherited so interactive tools keep working.
func NewHost(streams Streams) *Host {
	return &Host{streams: streams}
}

// Name implements Executor.
func (h *Host) Name() string {
	return "host"
}

// Execute implements Executor. Cancelling ctx kills the child.
func (h *Host) Execute(ctx context.Context, c Command) (int, error) {
	if len(c.Args) == 0 {
		return 1, fmt.Errorf("target %q: empty command", c.Target)
	}

	cmd := exec.CommandContext(ctx, c.Args[0], c.Args[1:]...)
	cmd.Dir = c.Dir
	cmd.Env = mergeEnv(os.Environ(), c.Env)
	cmd.Stdin = os.Stdin
	cmd.Stdout = h.streams.Stdout
	cmd.Stderr = h.streams.Stderr

	err := cmd.Run()
	switch {
	case err == nil:
		return 0, nil
	case ctx.Err() != nil:
		return ExitInterrupted, fmt.Errorf("target %q interrupted: %w", c.Target, ctx.Err())
	case errors.Is(err, fs.ErrPermission):
		return ExitNotExecutable, fmt.Errorf("target %q: cannot execute %s: %w", c.Target, c.Args[0], err)
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return ExitNotFound, fmt.Errorf("target %q: cannot run %s: %w", c.Target, c.Args[0], err)
	case sh.CmdRan(err):
		// The child exited on its own; its status is the result.
		return sh.ExitStatus(err), nil
	}

	// Killed by a signal we did not send: report it as a shell would.
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return exitSignalBase + int(ws.Signal()), nil
		}
	}
	code := sh.ExitStatus(err)
	if code <= 0 {
		code = 1
	}
	return code, fmt.Errorf("target %q: %w", c.Target, err)
}
