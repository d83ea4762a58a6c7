package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Effect describes what a target changes on disk. The runner never acts
// on it; it is metadata shown by `list` and recorded in history.
type Effect string

const (
	// EffectNone marks report-only targets such as linting or testing.
	EffectNone Effect = "none"

	// EffectRewritesSource marks targets that modify source files in place,
	// such as the formatter.
	EffectRewritesSource Effect = "rewrites-source"

	// EffectWritesArtifacts marks targets that produce build outputs,
	// binaries or documentation.
	EffectWritesArtifacts Effect = "writes-artifacts"
)

// String returns the string representation of Effect.
func (e Effect) String() string {
	return string(e)
}

// IsValid checks whether the Effect value is one of the predefined values.
func (e Effect) IsValid() bool {
	switch e {
	case EffectNone, EffectRewritesSource, EffectWritesArtifacts:
		return true
	default:
		return false
	}
}

// IsMutating returns true for effects that change the working tree.
func (e Effect) IsMutating() bool {
	return e == EffectRewritesSource || e == EffectWritesArtifacts
}

// ParseEffect converts a string to an Effect. The empty string maps to
// EffectNone so that task files may omit the field.
func ParseEffect(s string) (Effect, error) {
	if s == "" {
		return EffectNone, nil
	}
	effect := Effect(strings.ToLower(s))
	if !effect.IsValid() {
		return "", fmt.Errorf("invalid effect: %q (valid: none, rewrites-source, writes-artifacts)", s)
	}
	return effect, nil
}

// Target is one named entry of a Taskfile.
//
// Command is passed to the executor exactly as written: the runner never
// splits, expands or rewrites arguments. Deps run before Command, in
// declaration order.
type Target struct {
	// Name is the unique identifier used on the command line.
	Name string `json:"name" yaml:"name"`

	// Description is a one-line summary shown by `list`.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Command is the argv of the delegated process. Empty for pure
	// aliases such as `all`.
	Command []string `json:"command,omitempty" yaml:"command,omitempty"`

	// Deps lists targets that must complete successfully first.
	Deps []string `json:"deps,omitempty" yaml:"deps,omitempty"`

	// Env holds extra environment variables for Command. The process
	// also inherits the runner's environment.
	Env map[string]string `json:"env,omitempty" yaml:"env,omitempty"`

	// Effects declares what the target changes on disk.
	Effects Effect `json:"effects" yaml:"effects"`
}

// nameRegex validates target names: lowercase, starting with a letter,
// followed by letters, digits, hyphens or underscores.
var nameRegex = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// ValidateName checks if the given name is a valid target name.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("target name must not be empty")
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("invalid target name %q: must start with a lowercase letter and contain only lowercase letters, digits, '-' or '_'", name)
	}
	return nil
}

// Validate checks the target on its own. Cross-target checks (missing
// deps, cycles) live in Taskfile.Validate.
func (t *Target) Validate() error {
	if err := ValidateName(t.Name); err != nil {
		return err
	}
	if len(t.Command) == 0 && len(t.Deps) == 0 {
		return fmt.Errorf("target %q: needs a command or at least one dependency", t.Name)
	}
	if len(t.Command) > 0 && t.Command[0] == "" {
		return fmt.Errorf("target %q: command program must not be empty", t.Name)
	}
	if t.Effects == "" {
		t.Effects = EffectNone
	}
	if !t.Effects.IsValid() {
		return fmt.Errorf("target %q: invalid effects %q", t.Name, t.Effects)
	}
	return nil
}

// HasCommand reports whether the target runs a process of its own.
func (t *Target) HasCommand() bool {
	return len(t.Command) > 0
}

// CommandLine renders Command for display. Arguments containing spaces
// are quoted; the result is never executed.
func (t *Target) CommandLine() string {
	parts := make([]string, len(t.Command))
	for i, arg := range t.Command {
		if arg == "" || strings.ContainsAny(arg, " \t\"'") {
			parts[i] = fmt.Sprintf("%q", arg)
		} else {
			parts[i] = arg
		}
	}
	return strings.Join(parts, " ")
}

// StepResult is the outcome of one executed target.
type StepResult struct {
	// Target is the name of the target that ran.
	Target string `json:"target"`

	// Command is the display form of the argv that ran.
	Command string `json:"command"`

	// ExitCode is the delegated process's exit status. 0 on success.
	ExitCode int `json:"exitCode"`

	// StartedAt is when the process was started.
	StartedAt time.Time `json:"startedAt"`

	// Duration is the wall time of the process.
	Duration time.Duration `json:"duration"`

	// Executor names where the command ran ("host" or "container").
	Executor string `json:"executor"`

	// Err is set when the process could not be started or was killed.
	Err error `json:"-"`
}

// Succeeded reports whether the step completed with exit code 0.
func (r *StepResult) Succeeded() bool {
	return r.Err == nil && r.ExitCode == 0
}

// RunRecord is a StepResult as persisted in the history store.
type RunRecord struct {
	// ID is the store's row identifier.
	ID int64 `json:"id"`

	// RunID groups the steps of one CLI invocation.
	RunID string `json:"runId"`

	Target     string    `json:"target"`
	Command    string    `json:"command"`
	ExitCode   int       `json:"exitCode"`
	StartedAt  time.Time `json:"startedAt"`
	DurationMS int64     `json:"durationMs"`
	Executor   string    `json:"executor"`
}

// ExitCode defines the CLI's own exit codes. A failing delegated command
// is not listed here: its exit code is passed through unchanged.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitConfigError indicates the config or task file could not be
	// loaded or failed validation.
	ExitConfigError ExitCode = 2

	// ExitDockerNotRunning indicates the Docker daemon is not accessible
	// while --container was requested.
	ExitDockerNotRunning ExitCode = 3

	// ExitUnknownTarget indicates a target named on the command line does
	// not exist.
	ExitUnknownTarget ExitCode = 4

	// ExitHistoryError indicates the history database could not be opened
	// or queried.
	ExitHistoryError ExitCode = 5
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
