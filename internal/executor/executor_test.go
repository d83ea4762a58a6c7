package executor

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdl-tools/logical/internal/docker"
)

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}
}

func TestMergeEnv(t *testing.T) {
	base := []string{"PATH=/usr/bin", "GOFLAGS=-mod=mod", "HOME=/root"}

	assert.Equal(t, base, mergeEnv(base, nil))

	got := mergeEnv(base, map[string]string{"GOFLAGS": "-count=1", "CGO_ENABLED": "0"})
	assert.Equal(t, []string{"PATH=/usr/bin", "HOME=/root", "CGO_ENABLED=0", "GOFLAGS=-count=1"}, got)
}

func TestHost_Execute(t *testing.T) {
	requireUnix(t)

	var stdout, stderr bytes.Buffer
	h := NewHost(Streams{Stdout: &stdout, Stderr: &stderr})
	assert.Equal(t, "host", h.Name())

	t.Run("success streams output", func(t *testing.T) {
		stdout.Reset()
		code, err := h.Execute(context.Background(), Command{
			Target: "echo",
			Args:   []string{"sh", "-c", "echo out; echo err >&2"},
		})
		require.NoError(t, err)
		assert.Equal(t, 0, code)
		assert.Equal(t, "out\n", stdout.String())
		assert.Equal(t, "err\n", stderr.String())
	})

	t.Run("exit code passes through", func(t *testing.T) {
		code, err := h.Execute(context.Background(), Command{Target: "fail", Args: []string{"sh", "-c", "exit 3"}})
		require.NoError(t, err)
		assert.Equal(t, 3, code)
	})

	t.Run("arguments are not expanded", func(t *testing.T) {
		stdout.Reset()
		code, err := h.Execute(context.Background(), Command{
			Target: "literal",
			Args:   []string{"printf", "%s", "$HOME *"},
		})
		require.NoError(t, err)
		assert.Equal(t, 0, code)
		assert.Equal(t, "$HOME *", stdout.String())
	})

	t.Run("env and dir", func(t *testing.T) {
		stdout.Reset()
		dir := t.TempDir()
		code, err := h.Execute(context.Background(), Command{
			Target: "env",
			Args:   []string{"sh", "-c", `printf "%s %s" "$LOGICAL_TEST" "$(basename "$(pwd -P)")"`},
			Env:    map[string]string{"LOGICAL_TEST": "yes"},
			Dir:    dir,
		})
		require.NoError(t, err)
		assert.Equal(t, 0, code)
		assert.Equal(t, "yes "+filepath.Base(dir), stdout.String())
	})

	t.Run("program not found", func(t *testing.T) {
		code, err := h.Execute(context.Background(), Command{Target: "nope", Args: []string{"logical-no-such-program"}})
		assert.Error(t, err)
		assert.Equal(t, ExitNotFound, code)
	})

	t.Run("program not executable", func(t *testing.T) {
		script := filepath.Join(t.TempDir(), "build.sh")
		require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nexit 0\n"), 0o644))

		code, err := h.Execute(context.Background(), Command{Target: "noexec", Args: []string{script}})
		assert.Error(t, err)
		assert.Equal(t, ExitNotExecutable, code)
	})

	t.Run("killed by signal", func(t *testing.T) {
		code, err := h.Execute(context.Background(), Command{
			Target: "killed",
			Args:   []string{"sh", "-c", "kill -TERM $$"},
		})
		require.NoError(t, err)
		assert.Equal(t, 128+15, code)
	})

	t.Run("empty command", func(t *testing.T) {
		_, err := h.Execute(context.Background(), Command{Target: "empty"})
		assert.Error(t, err)
	})

	t.Run("cancellation", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		code, err := h.Execute(ctx, Command{Target: "sleep", Args: []string{"sleep", "5"}})
		assert.Error(t, err)
		assert.Equal(t, ExitInterrupted, code)
	})
}

// fakeDaemon records the container the executor asks for and exits with
// a fixed status.
type fakeDaemon struct {
	client.APIClient

	cfg      *container.Config
	host     *container.HostConfig
	exitCode int64
}

func (f *fakeDaemon) ContainerCreate(_ context.Context, cfg *container.Config, host *container.HostConfig, _ *network.NetworkingConfig, _ *ocispec.Platform, _ string) (container.CreateResponse, error) {
	f.cfg, f.host = cfg, host
	return container.CreateResponse{ID: "step"}, nil
}

func (f *fakeDaemon) ContainerWait(context.Context, string, container.WaitCondition) (<-chan container.WaitResponse, <-chan error) {
	res := make(chan container.WaitResponse, 1)
	res <- container.WaitResponse{StatusCode: f.exitCode}
	return res, make(chan error)
}

func (f *fakeDaemon) ContainerStart(context.Context, string, container.StartOptions) error {
	return nil
}

func (f *fakeDaemon) ContainerLogs(context.Context, string, container.LogsOptions) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(nil)), nil
}

func (f *fakeDaemon) ContainerRemove(context.Context, string, container.RemoveOptions) error {
	return nil
}

func TestContainer_Execute(t *testing.T) {
	workspace := t.TempDir()
	fake := &fakeDaemon{exitCode: 1}

	c, err := NewContainer(docker.NewClientFromAPI(fake), ContainerOptions{
		Image:     "golang:1.25",
		Workspace: workspace,
		Workdir:   "/workspace",
		RunID:     "r1",
		Streams:   Streams{Stdout: io.Discard, Stderr: io.Discard},
	})
	require.NoError(t, err)
	assert.Equal(t, "container", c.Name())

	code, err := c.Execute(context.Background(), Command{Target: "clippy", Args: []string{"go", "vet", "./..."}})
	require.NoError(t, err)
	assert.Equal(t, 1, code)
	assert.Equal(t, "golang:1.25", fake.cfg.Image)
	assert.Equal(t, "/workspace", fake.cfg.WorkingDir)
	assert.Equal(t, "clippy", fake.cfg.Labels[docker.LabelTarget])
	assert.Equal(t, "r1", fake.cfg.Labels[docker.LabelRunID])
	assert.Equal(t, workspace, fake.host.Mounts[0].Source)

	require.NoError(t, os.Mkdir(filepath.Join(workspace, "cmd"), 0o755))
	_, err = c.Execute(context.Background(), Command{Target: "run", Args: []string{"go", "run", "."}, Dir: "cmd"})
	require.NoError(t, err)
	assert.Equal(t, "/workspace/cmd", fake.cfg.WorkingDir)

	_, err = c.Execute(context.Background(), Command{Target: "escape", Args: []string{"ls"}, Dir: ".."})
	assert.Error(t, err)
}

func TestNewContainer_Validation(t *testing.T) {
	cli := docker.NewClientFromAPI(&fakeDaemon{})

	_, err := NewContainer(cli, ContainerOptions{Workspace: ".", Workdir: "/workspace"})
	assert.Error(t, err, "image is required")

	_, err = NewContainer(cli, ContainerOptions{Image: "alpine", Workspace: ".", Workdir: "workspace"})
	assert.Error(t, err, "workdir must be absolute")
}
