// Package cli — history.go implements the "logical-task history" command.
//
// Every executed step is recorded in a SQLite database (see
// internal/history). This command shows the most recent steps, newest
// first, optionally for one target only.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hdl-tools/logical/internal/history"
	"github.com/hdl-tools/logical/internal/model"
)

// historyFlags holds the flag values for the history command.
type historyFlags struct {
	target string
	limit  int
}

// NewHistoryCommand creates the "history" cobra command.
func NewHistoryCommand() *cobra.Command {
	flags := &historyFlags{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently executed steps",
		Long: `Show the most recent steps recorded in the history database.

Examples:
  logical-task history
  logical-task history --target test --limit 5
  logical-task history --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.target, "target", "", "Show only steps of this target")
	cmd.Flags().IntVar(&flags.limit, "limit", history.DefaultLimit, "Maximum number of steps to show")

	return cmd
}

func runHistory(out io.Writer, flags *historyFlags) error {
	if flags.limit <= 0 {
		return model.NewCLIError(model.ExitGeneralError, fmt.Sprintf("invalid --limit %d: must be positive", flags.limit))
	}

	dir, err := os.Getwd()
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to determine working directory", err)
	}
	path := resolvePath(dir, cfg.History.Path)

	// Reading must not create an empty database as a side effect.
	var records []model.RunRecord
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		VerboseLog("No history database at %s", path)
	} else {
		store, err := history.Open(path, "")
		if err != nil {
			return model.WrapCLIError(model.ExitHistoryError, "failed to open history database", err)
		}
		defer store.Close()

		records, err = store.List(flags.target, flags.limit)
		if err != nil {
			return model.WrapCLIError(model.ExitHistoryError, "failed to read history", err)
		}
	}

	if IsJSONOutput() {
		return printHistoryJSON(out, records)
	}
	printHistoryText(out, records)
	return nil
}

func printHistoryJSON(out io.Writer, records []model.RunRecord) error {
	type resultJSON struct {
		Steps []model.RunRecord `json:"steps"`
	}
	result := resultJSON{Steps: records}
	if result.Steps == nil {
		result.Steps = []model.RunRecord{}
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

// printHistoryText prints one row per step:
//
//	STARTED              TARGET     EXIT  DURATION  EXECUTOR   COMMAND
//	2026-10-19 09:12:03  clippy     0     1.2s      host       go vet ./...
func printHistoryText(out io.Writer, records []model.RunRecord) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No history recorded.")
		return
	}

	fmt.Fprintf(out, "%-20s %-10s %-5s %-9s %-10s %s\n",
		"STARTED", "TARGET", "EXIT", "DURATION", "EXECUTOR", "COMMAND")
	for _, r := range records {
		fmt.Fprintf(out, "%-20s %-10s %-5d %-9s %-10s %s\n",
			r.StartedAt.Format(time.DateTime),
			r.Target,
			r.ExitCode,
			FormatDuration(r.DurationMS),
			r.Executor,
			r.Command,
		)
	}
}

// FormatDuration renders a millisecond count for the history table,
// rounded to a tenth of a second above one second.
//
// Example:
//
//	250    → "250ms"
//	1249   → "1.2s"
//	61000  → "1m1s"
func FormatDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	if d < time.Second {
		return d.String()
	}
	return d.Round(100 * time.Millisecond).String()
}
