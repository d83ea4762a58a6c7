// Package cli implements the cobra-based CLI for logical-task.
//
// The root command runs targets given as positional arguments. Auxiliary
// subcommands (list, history, prune) are defined in their own files within
// this package. This file defines the root command, the global flags and
// the error-to-exit-code translation.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hdl-tools/logical/internal/config"
	"github.com/hdl-tools/logical/internal/logging"
	"github.com/hdl-tools/logical/internal/model"
	"github.com/hdl-tools/logical/internal/runner"
)

// Global flag variables shared across all subcommands. They are bound to
// persistent flags on the root command.
var (
	// jsonOutput switches command output (and errors) to JSON.
	jsonOutput bool

	// verbose forces debug-level logging regardless of the config file.
	verbose bool

	// taskFile selects a task file instead of discovery in the working
	// directory.
	taskFile string

	// configFile selects a config file instead of .logical-task.yaml.
	configFile string
)

// State prepared by the root command's PersistentPreRunE for every
// subcommand.
var (
	cfg                   = config.Default()
	logger logging.Logger = logging.NewNop()
)

// Version, Commit and Date are injected from the main package at build
// time.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates the root cobra command with all subcommands
// registered.
func NewRootCommand() *cobra.Command {
	flags := &runFlags{}

	rootCmd := &cobra.Command{
		Use:   "logical-task [flags] [TARGET...]",
		Short: "Run the project's build, lint, test and documentation targets",
		Long: `logical-task runs named targets, each of which delegates to one toolchain
command. Dependencies run first, one step at a time, and the first failing
step stops the run with that step's own exit code.

Built-in targets: all (default), format, clippy, test, build, run, doc.
A tasks.yaml, tasks.jsonc or tasks.hcl file in the working directory can
override them or add new ones.

Examples:
  logical-task
  logical-task clippy test
  logical-task --dry-run all
  logical-task --container golang:1.25 test`,

		// Targets are positional arguments; any name is accepted here and
		// checked against the task set at run time.
		Args: cobra.ArbitraryArgs,

		// Error output is handled by Execute (text or JSON).
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTargets(cmd.Context(), cmd.OutOrStdout(), flags, args)
		},
		ValidArgsFunction: completeTargets,
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&taskFile, "file", "f", "", "Task file to load (default: discover tasks.{yaml,yml,jsonc,json,hcl})")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: "+config.FileName+")")

	rootCmd.Flags().BoolVarP(&flags.dryRun, "dry-run", "n", false, "Print the commands that would run, without running them")
	rootCmd.Flags().StringVar(&flags.container, "container", "", "Run each step in a container from `IMAGE`")
	rootCmd.Flags().BoolVar(&flags.noHistory, "no-history", false, "Do not record steps in the history database")

	rootCmd.AddCommand(NewListCommand())
	rootCmd.AddCommand(NewHistoryCommand())
	rootCmd.AddCommand(NewPruneCommand())

	return rootCmd
}

// setup loads the config file and builds the logger. Flags override the
// file: --verbose forces debug level.
func setup() error {
	dir, err := os.Getwd()
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to determine working directory", err)
	}

	loaded, err := config.Resolve(dir, configFile)
	if err != nil {
		return model.WrapCLIError(model.ExitConfigError, "invalid configuration", err)
	}
	cfg = loaded

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	zl, err := logging.New(logging.Options{Level: level, Format: cfg.Log.Format})
	if err != nil {
		return model.WrapCLIError(model.ExitConfigError, "invalid logging configuration", err)
	}
	logger = zl
	return nil
}

// Execute runs the root command and translates errors into exit codes.
// This is the main entry point called from main.go.
//
// SIGINT and SIGTERM cancel the command's context, which stops the
// running step.
func Execute(rootCmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err == nil {
		return
	}
	printError(os.Stderr, err)
	os.Exit(ExitCode(err))
}

// ExitCode maps an error returned by a command to the process exit code.
//
// A failed step exits with the delegated command's own code. CLIError
// carries the runner's own codes; anything else is a general error.
func ExitCode(err error) int {
	if err == nil {
		return int(model.ExitSuccess)
	}

	var exitErr *runner.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		return int(cliErr.Code)
	}

	return int(model.ExitGeneralError)
}

// printError writes err in the format selected by --json. Errors always
// go to stderr because stdout carries command output.
func printError(w io.Writer, err error) {
	message := err.Error()
	var underlying error

	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		message = cliErr.Message
		underlying = cliErr.Err
	}

	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message":  message,
				"exitCode": ExitCode(err),
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	if underlying != nil {
		fmt.Fprintf(w, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(w, "Error: %s\n", message)
	}
}

// VerboseLog emits a debug message. It is visible with --verbose or when
// the config sets log.level to debug.
func VerboseLog(format string, args ...interface{}) {
	logger.Debug(fmt.Sprintf(format, args...))
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}
