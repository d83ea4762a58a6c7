// Package cli — run.go implements the root command's action: running
// targets.
//
// The run flow:
//  1. Load the task set (built-ins merged with the task file, if any)
//  2. Pick the executor: the host, or a container when an image is set
//  3. Attach history and metrics as step observers
//  4. Run the plan, stopping at the first failing step
//  5. Print a JSON summary when --json is set
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hdl-tools/logical/internal/docker"
	"github.com/hdl-tools/logical/internal/executor"
	"github.com/hdl-tools/logical/internal/history"
	"github.com/hdl-tools/logical/internal/metrics"
	"github.com/hdl-tools/logical/internal/model"
	"github.com/hdl-tools/logical/internal/runner"
	"github.com/hdl-tools/logical/internal/taskfile"
)

// runFlags holds the flags that only apply when running targets.
type runFlags struct {
	// dryRun prints the planned commands without executing them.
	dryRun bool

	// container overrides container.image from the config file.
	container string

	// noHistory disables the history observer for this invocation.
	noHistory bool
}

// runSummary is the JSON document printed after a run with --json.
type runSummary struct {
	RunID    string             `json:"runId"`
	Source   string             `json:"source,omitempty"`
	Steps    []model.StepResult `json:"steps"`
	ExitCode int                `json:"exitCode"`
	Failed   string             `json:"failedTarget,omitempty"`
}

// loadTasks resolves the task set for the working directory. The
// returned path is empty when only the built-in targets are in use.
func loadTasks() (*model.Taskfile, string, string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, "", "", model.WrapCLIError(model.ExitGeneralError, "failed to determine working directory", err)
	}
	tf, source, err := taskfile.Resolve(dir, taskFile)
	if err != nil {
		return nil, "", "", model.WrapCLIError(model.ExitConfigError, "failed to load task file", err)
	}
	return tf, source, dir, nil
}

// runTargets executes the named targets, or the default target when
// names is empty.
func runTargets(ctx context.Context, out io.Writer, flags *runFlags, names []string) error {
	tf, source, dir, err := loadTasks()
	if err != nil {
		return err
	}
	if source != "" {
		VerboseLog("Loaded task file %s", source)
	}

	runID := history.NewRunID(time.Now())
	log := logger.With("run", runID)

	ex, cleanup, err := newExecutor(ctx, flags, dir, runID)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := runner.Options{
		Logger: log,
		DryRun: flags.dryRun,
		Out:    out,
		Dir:    dir,
	}

	if !flags.dryRun && !flags.noHistory && cfg.HistoryEnabled() {
		store, err := history.Open(resolvePath(dir, cfg.History.Path), runID)
		if err != nil {
			return model.WrapCLIError(model.ExitHistoryError, "failed to open history database", err)
		}
		defer store.Close()
		opts.Observers = append(opts.Observers, runner.ObserverFunc(store.Record))
		VerboseLog("Recording history in %s", cfg.History.Path)
	}

	var m *metrics.Metrics
	if !flags.dryRun && cfg.Metrics.Textfile != "" {
		m = metrics.New()
		opts.Observers = append(opts.Observers, m)
	}

	results, runErr := runner.New(tf, ex, opts).Run(ctx, names...)

	if m != nil && len(results) > 0 {
		path := resolvePath(dir, cfg.Metrics.Textfile)
		if err := m.WriteTextfile(path); err != nil {
			log.Warn("failed to write metrics", "path", path, "error", err)
		}
	}

	if errors.Is(runErr, model.ErrUnknownTarget) {
		return model.WrapCLIError(model.ExitUnknownTarget, "unknown target", runErr)
	}

	if IsJSONOutput() && !flags.dryRun {
		summary := runSummary{
			RunID:    runID,
			Source:   source,
			Steps:    results,
			ExitCode: ExitCode(runErr),
		}
		if summary.Steps == nil {
			summary.Steps = []model.StepResult{}
		}
		var exitErr *runner.ExitError
		if errors.As(runErr, &exitErr) {
			summary.Failed = exitErr.Target
		}
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
	}

	return runErr
}

// newExecutor returns the host executor, or a container executor when an
// image is configured. The cleanup function releases the Docker client.
func newExecutor(ctx context.Context, flags *runFlags, dir, runID string) (executor.Executor, func(), error) {
	image := flags.container
	if image == "" {
		image = cfg.Container.Image
	}
	if image == "" || flags.dryRun {
		return executor.NewHost(executor.DefaultStreams()), func() {}, nil
	}

	VerboseLog("Connecting to Docker for image %s", image)
	cli, err := docker.NewClient()
	if err != nil {
		return nil, nil, model.WrapCLIError(model.ExitDockerNotRunning, "failed to create Docker client", err)
	}
	if err := cli.Ping(ctx); err != nil {
		cli.Close()
		return nil, nil, err
	}

	ex, err := executor.NewContainer(cli, executor.ContainerOptions{
		Image:     image,
		Workspace: dir,
		Workdir:   cfg.Container.Workdir,
		RunID:     runID,
		Streams:   executor.DefaultStreams(),
	})
	if err != nil {
		cli.Close()
		return nil, nil, model.WrapCLIError(model.ExitConfigError, "invalid container settings", err)
	}
	return ex, func() { cli.Close() }, nil
}

// resolvePath makes a config path absolute relative to dir.
func resolvePath(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// completeTargets offers target names for shell completion.
func completeTargets(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	tf, _, _, err := loadTasks()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var names []string
	for _, name := range tf.Names() {
		if strings.HasPrefix(name, toComplete) {
			names = append(names, name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
