package executor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/hdl-tools/logical/internal/docker"
)

// Container runs commands in throwaway containers with the workspace
// bind-mounted. The client must already be connected.
type Container struct {
	client    *docker.Client
	image     string
	workspace string
	workdir   string
	runID     string
	streams   Streams
	now       func() time.Time
}

// ContainerOptions configures a Container executor.
type ContainerOptions struct {
	Image string

	// Workspace is the host directory to mount. It is made absolute.
	Workspace string

	// Workdir is the mount point inside the container.
	Workdir string

	RunID   string
	Streams Streams
}

// NewContainer validates opts and returns a Container executor.
func NewContainer(cli *docker.Client, opts ContainerOptions) (*Container, error) {
	if opts.Image == "" {
		return nil, fmt.Errorf("container image must not be empty")
	}
	workspace, err := filepath.Abs(opts.Workspace)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace %q: %w", opts.Workspace, err)
	}
	if !filepath.IsAbs(opts.Workdir) {
		return nil, fmt.Errorf("container workdir %q must be absolute", opts.Workdir)
	}
	return &Container{
		client:    cli,
		image:     opts.Image,
		workspace: workspace,
		workdir:   opts.Workdir,
		runID:     opts.RunID,
		streams:   opts.Streams,
		now:       time.Now,
	}, nil
}

// Name implements Executor.
func (c *Container) Name() string {
	return "container"
}

// Execute implements Executor. A relative Dir is resolved under the
// container's workdir.
func (c *Container) Execute(ctx context.Context, cmd Command) (int, error) {
	workdir := c.workdir
	if cmd.Dir != "" {
		rel, err := filepath.Rel(c.workspace, absUnder(c.workspace, cmd.Dir))
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return 1, fmt.Errorf("target %q: directory %q is outside the workspace", cmd.Target, cmd.Dir)
		}
		workdir = filepath.ToSlash(filepath.Join(c.workdir, rel))
	}

	code, err := docker.RunStep(ctx, c.client, docker.Step{
		Image:     c.image,
		Args:      cmd.Args,
		Env:       cmd.Env,
		Workspace: c.workspace,
		Workdir:   workdir,
		Labels: docker.StepLabels{
			Target:    cmd.Target,
			RunID:     c.runID,
			Workspace: c.workspace,
			CreatedAt: c.now(),
		},
		Stdout: c.streams.Stdout,
		Stderr: c.streams.Stderr,
	})
	if err != nil && ctx.Err() != nil {
		return ExitInterrupted, fmt.Errorf("target %q interrupted: %w", cmd.Target, ctx.Err())
	}
	if err != nil {
		if code == 0 {
			code = 1
		}
		return code, err
	}
	return code, nil
}

func absUnder(base, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(base, dir)
}
