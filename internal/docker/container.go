// container.go implements the lifecycle of step containers: one container
// per executed target, removed as soon as the target finishes.
//
// All runner-owned containers carry the "logical-task.managed-by" label,
// which is how ListManagedContainers and Prune tell them apart from
// unrelated containers on the same host.
package docker

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/hdl-tools/logical/internal/model"
)

// ContainerInfo is the subset of a Docker container summary the runner
// cares about.
type ContainerInfo struct {
	ID     string
	Name   string
	State  string
	Labels map[string]string
}

// Step describes one delegated command to run in a container.
type Step struct {
	// Image is the image reference. It is pulled when not present locally.
	Image string

	// Args is the argv, used as the container command without a shell.
	Args []string

	// Env holds extra environment variables.
	Env map[string]string

	// Workspace is the host directory bind-mounted at Workdir.
	Workspace string

	// Workdir is the mount point and working directory in the container.
	Workdir string

	Labels StepLabels

	Stdout io.Writer
	Stderr io.Writer
}

// RunStep creates a container for s, streams its output, waits for it to
// exit and removes it. The returned code is the container's exit status;
// err is set only when the container could not be run to completion.
func RunStep(ctx context.Context, cli *Client, s Step) (int, error) {
	if len(s.Args) == 0 {
		return 0, fmt.Errorf("step %q has no command", s.Labels.Target)
	}

	id, err := createStep(ctx, cli, s)
	if err != nil {
		return 0, err
	}
	// Remove even when ctx was cancelled; a leftover would otherwise
	// need a manual prune.
	defer func() {
		_ = cli.Inner().ContainerRemove(context.WithoutCancel(ctx), id, container.RemoveOptions{Force: true})
	}()

	// Register the wait before starting so a fast exit is not missed.
	waitCh, errCh := cli.Inner().ContainerWait(ctx, id, container.WaitConditionNextExit)

	if err := cli.Inner().ContainerStart(ctx, id, container.StartOptions{}); err != nil {
		return 0, model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to start container for target %q", s.Labels.Target),
			err,
		)
	}

	logs, err := cli.Inner().ContainerLogs(ctx, id, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     true,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to attach to container logs: %w", err)
	}
	defer logs.Close()

	copied := make(chan error, 1)
	go func() {
		// Without a TTY the daemon multiplexes stdout and stderr into one
		// stream; stdcopy splits them again.
		_, err := stdcopy.StdCopy(writerOrDiscard(s.Stdout), writerOrDiscard(s.Stderr), logs)
		copied <- err
	}()

	select {
	case res := <-waitCh:
		if copyErr := <-copied; copyErr != nil && ctx.Err() == nil {
			return int(res.StatusCode), fmt.Errorf("failed to read container output: %w", copyErr)
		}
		if res.Error != nil && res.Error.Message != "" {
			return int(res.StatusCode), fmt.Errorf("container wait: %s", res.Error.Message)
		}
		return int(res.StatusCode), nil
	case err := <-errCh:
		return 0, fmt.Errorf("failed waiting for container: %w", err)
	}
}

// createStep creates the container, pulling the image once if the daemon
// does not have it.
func createStep(ctx context.Context, cli *Client, s Step) (string, error) {
	cfg := &container.Config{
		Image:      s.Image,
		Cmd:        s.Args,
		Env:        envList(s.Env),
		WorkingDir: s.Workdir,
		Labels:     BuildLabels(s.Labels),
	}
	hostCfg := &container.HostConfig{
		Mounts: []mount.Mount{{
			Type:   mount.TypeBind,
			Source: s.Workspace,
			Target: s.Workdir,
		}},
	}

	created, err := cli.Inner().ContainerCreate(ctx, cfg, hostCfg, nil, nil, "")
	if cerrdefs.IsNotFound(err) {
		if pullErr := pullImage(ctx, cli, s.Image); pullErr != nil {
			return "", pullErr
		}
		created, err = cli.Inner().ContainerCreate(ctx, cfg, hostCfg, nil, nil, "")
	}
	if err != nil {
		return "", model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to create container from image %q", s.Image),
			err,
		)
	}
	return created.ID, nil
}

// pullImage pulls ref and drains the progress stream, which the daemon
// requires before the pull counts as done.
func pullImage(ctx context.Context, cli *Client, ref string) error {
	rc, err := cli.Inner().ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to pull image %q", ref),
			err,
		)
	}
	defer rc.Close()
	if _, err := io.Copy(io.Discard, rc); err != nil {
		return fmt.Errorf("failed to pull image %q: %w", ref, err)
	}
	return nil
}

// ListManagedContainers returns every runner-owned container, including
// stopped ones, ordered by name.
func ListManagedContainers(ctx context.Context, cli *Client) ([]ContainerInfo, error) {
	// Filter server-side rather than listing everything.
	filterArgs := filters.NewArgs(
		filters.Arg("label", LabelManagedBy+"="+ManagedByValue),
	)

	containers, err := cli.Inner().ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filterArgs,
	})
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitDockerNotRunning,
			"failed to list Docker containers",
			err,
		)
	}

	result := make([]ContainerInfo, 0, len(containers))
	for _, c := range containers {
		result = append(result, containerToInfo(c))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// containerToInfo strips the leading "/" Docker puts on container names.
func containerToInfo(c container.Summary) ContainerInfo {
	name := ""
	if len(c.Names) > 0 {
		name = strings.TrimPrefix(c.Names[0], "/")
	}
	return ContainerInfo{
		ID:     c.ID,
		Name:   name,
		State:  c.State,
		Labels: c.Labels,
	}
}

// Prune force-removes runner-owned containers. Running containers are
// skipped unless all is set, since they may belong to a run in progress.
// It returns the removed containers.
func Prune(ctx context.Context, cli *Client, all bool) ([]ContainerInfo, error) {
	containers, err := ListManagedContainers(ctx, cli)
	if err != nil {
		return nil, err
	}

	var removed []ContainerInfo
	for _, c := range containers {
		if c.State == "running" && !all {
			continue
		}
		if err := RemoveContainer(ctx, cli, c.ID); err != nil {
			return removed, err
		}
		removed = append(removed, c)
	}
	return removed, nil
}

// RemoveContainer force-removes a container by its ID.
func RemoveContainer(ctx context.Context, cli *Client, containerID string) error {
	err := cli.Inner().ContainerRemove(ctx, containerID, container.RemoveOptions{
		Force: true,
	})
	if err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to remove container %q", containerID),
			err,
		)
	}
	return nil
}

func envList(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	list := make([]string, 0, len(keys))
	for _, k := range keys {
		list = append(list, k+"="+env[k])
	}
	return list
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
