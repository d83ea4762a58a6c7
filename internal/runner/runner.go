// Package runner sequences targets: it plans the requested targets with
// their dependencies and executes each command in turn, stopping at the
// first failure.
package runner

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hdl-tools/logical/internal/executor"
	"github.com/hdl-tools/logical/internal/logging"
	"github.com/hdl-tools/logical/internal/model"
)

// Observer receives every finished step, successful or not. An observer
// error is logged and never changes the outcome of a run.
type Observer interface {
	Observe(result model.StepResult) error
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(result model.StepResult) error

// Observe implements Observer.
func (f ObserverFunc) Observe(result model.StepResult) error {
	return f(result)
}

// ExitError reports the step that stopped a run. Code is the delegated
// command's exit status, which the CLI exits with unchanged.
type ExitError struct {
	Target string
	Code   int

	// Err is set when the command did not run to completion.
	Err error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("target %q failed (exit code %d): %v", e.Target, e.Code, e.Err)
	}
	return fmt.Sprintf("target %q failed with exit code %d", e.Target, e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Options configures a Runner. The zero value is usable.
type Options struct {
	Logger    logging.Logger
	Observers []Observer

	// DryRun prints each planned command to Out instead of running it.
	DryRun bool
	Out    io.Writer

	// Dir is the working directory for every command.
	Dir string
}

// Runner executes plans from one Taskfile through one Executor.
type Runner struct {
	tasks     *model.Taskfile
	exec      executor.Executor
	logger    logging.Logger
	observers []Observer
	dryRun    bool
	out       io.Writer
	dir       string
	now       func() time.Time
}

// New creates a Runner. tf must already be validated.
func New(tf *model.Taskfile, ex executor.Executor, opts Options) *Runner {
	r := &Runner{
		tasks:     tf,
		exec:      ex,
		logger:    opts.Logger,
		observers: opts.Observers,
		dryRun:    opts.DryRun,
		out:       opts.Out,
		dir:       opts.Dir,
		now:       time.Now,
	}
	if r.logger == nil {
		r.logger = logging.NewNop()
	}
	if r.out == nil {
		r.out = io.Discard
	}
	return r
}

// Plan returns the targets Run would visit, in order. Alias targets
// without a command are included.
func (r *Runner) Plan(names ...string) ([]*model.Target, error) {
	return r.tasks.Plan(names...)
}

// Run plans names (the default target when empty) and executes every
// command in order. Steps run strictly one after another; a step starts
// only after the previous one exited with code 0.
//
// It returns the results of the steps that ran. When a step fails the
// error is an *ExitError and no later step is started.
func (r *Runner) Run(ctx context.Context, names ...string) ([]model.StepResult, error) {
	plan, err := r.Plan(names...)
	if err != nil {
		return nil, err
	}

	var results []model.StepResult
	for _, target := range plan {
		if !target.HasCommand() {
			r.logger.Debug("alias target reached", "target", target.Name, "deps", target.Deps)
			continue
		}

		if r.dryRun {
			fmt.Fprintln(r.out, target.CommandLine())
			continue
		}

		if err := ctx.Err(); err != nil {
			return results, &ExitError{Target: target.Name, Code: executor.ExitInterrupted, Err: err}
		}

		result := r.runStep(ctx, target)
		results = append(results, result)
		r.notify(result)

		if !result.Succeeded() {
			code := result.ExitCode
			if code == 0 {
				code = 1
			}
			return results, &ExitError{Target: target.Name, Code: code, Err: result.Err}
		}
	}
	return results, nil
}

func (r *Runner) runStep(ctx context.Context, target *model.Target) model.StepResult {
	log := r.logger.With("target", target.Name, "executor", r.exec.Name())
	log.Info("running", "command", target.CommandLine(), "effects", target.Effects.String())

	started := r.now()
	code, err := r.exec.Execute(ctx, executor.Command{
		Target: target.Name,
		Args:   target.Command,
		Env:    target.Env,
		Dir:    r.dir,
	})
	result := model.StepResult{
		Target:    target.Name,
		Command:   target.CommandLine(),
		ExitCode:  code,
		StartedAt: started,
		Duration:  r.now().Sub(started),
		Executor:  r.exec.Name(),
		Err:       err,
	}

	switch {
	case err != nil:
		log.Error("step did not complete", "exitCode", code, "error", err)
	case code != 0:
		log.Warn("step failed", "exitCode", code, "duration", result.Duration)
	default:
		log.Info("step finished", "duration", result.Duration)
	}
	return result
}

func (r *Runner) notify(result model.StepResult) {
	for _, o := range r.observers {
		if err := o.Observe(result); err != nil {
			r.logger.Warn("step observer failed", "target", result.Target, "error", err)
		}
	}
}
