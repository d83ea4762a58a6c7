// Package cli — list.go implements the "logical-task list" command.
//
// The list command displays every target known to the runner: the
// built-in ones merged with the task file, if one was found. Each target
// is shown with what it runs (its command, or its dependencies for an
// alias) and its declared effects, as a text table or JSON.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hdl-tools/logical/internal/model"
)

// listFlags holds the flag values for the list command.
type listFlags struct {
	// mutating limits the output to targets that change files on disk.
	mutating bool
}

// NewListCommand creates the "list" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewListCommand() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"targets"},
		Short:   "List all targets",
		Long: `List every target with what it runs and what it changes on disk.

The default target is marked with an asterisk.

Examples:
  logical-task list
  logical-task list --mutating
  logical-task list --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().BoolVar(&flags.mutating, "mutating", false,
		"Show only targets that rewrite sources or write artifacts")

	return cmd
}

// runList loads the task set and prints it.
func runList(out io.Writer, flags *listFlags) error {
	tf, source, _, err := loadTasks()
	if err != nil {
		return err
	}
	if source != "" {
		VerboseLog("Loaded task file %s", source)
	}

	targets := make([]*model.Target, 0, len(tf.Targets))
	for _, name := range tf.Names() {
		t := tf.Targets[name]
		if flags.mutating && !t.Effects.IsMutating() {
			continue
		}
		targets = append(targets, t)
	}
	VerboseLog("Listing %d of %d targets", len(targets), len(tf.Targets))

	return printListResult(out, tf.Default, source, targets)
}

// printListResult outputs the targets in text or JSON format,
// depending on the global --json flag.
func printListResult(out io.Writer, defaultTarget, source string, targets []*model.Target) error {
	if IsJSONOutput() {
		return printListResultJSON(out, defaultTarget, source, targets)
	}
	printListResultText(out, defaultTarget, targets)
	return nil
}

// listTargetJSON is the JSON output structure for a single target.
type listTargetJSON struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Command     []string `json:"command"`
	Deps        []string `json:"deps"`
	Effects     string   `json:"effects"`
	Default     bool     `json:"default"`
}

// printListResultJSON outputs the target list as structured JSON under a
// top-level "targets" key.
func printListResultJSON(out io.Writer, defaultTarget, source string, targets []*model.Target) error {
	type resultJSON struct {
		Default string           `json:"default"`
		Source  string           `json:"source"`
		Targets []listTargetJSON `json:"targets"`
	}

	result := resultJSON{
		Default: defaultTarget,
		Source:  source,
		Targets: make([]listTargetJSON, 0, len(targets)),
	}
	if result.Source == "" {
		result.Source = "builtin"
	}

	for _, t := range targets {
		entry := listTargetJSON{
			Name:        t.Name,
			Description: t.Description,
			Command:     append([]string{}, t.Command...),
			Deps:        append([]string{}, t.Deps...),
			Effects:     t.Effects.String(),
			Default:     t.Name == defaultTarget,
		}
		result.Targets = append(result.Targets, entry)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

// printListResultText outputs the target list as a text table:
//
//	NAME       EFFECTS            RUNS
//	all *      none               -> clippy, test
//	clippy     none               go vet ./...
func printListResultText(out io.Writer, defaultTarget string, targets []*model.Target) {
	if len(targets) == 0 {
		fmt.Fprintln(out, "No targets found.")
		return
	}

	fmt.Fprintf(out, "%-12s %-18s %s\n", "NAME", "EFFECTS", "RUNS")
	for _, t := range targets {
		name := t.Name
		if name == defaultTarget {
			name += " *"
		}
		fmt.Fprintf(out, "%-12s %-18s %s\n", name, t.Effects.String(), FormatTargetAction(t))
	}
}

// FormatTargetAction describes what a target does in one line: its
// command, its dependencies prefixed with an arrow, or both.
//
// Example:
//
//	{Command: [go vet ./...]}                 → "go vet ./..."
//	{Deps: [clippy test]}                     → "-> clippy, test"
//	{Command: [go run .], Deps: [build]}      → "go run . (after build)"
func FormatTargetAction(t *model.Target) string {
	deps := strings.Join(t.Deps, ", ")
	switch {
	case t.HasCommand() && len(t.Deps) > 0:
		return fmt.Sprintf("%s (after %s)", t.CommandLine(), deps)
	case t.HasCommand():
		return t.CommandLine()
	case len(t.Deps) > 0:
		return "-> " + deps
	default:
		return "-"
	}
}
