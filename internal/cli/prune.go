// Package cli — prune.go implements the "logical-task prune" command.
//
// Container steps remove their container when they finish. A killed
// runner can leave some behind; prune finds them by the
// "logical-task.managed-by" label and force-removes them.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hdl-tools/logical/internal/docker"
)

type pruneFlags struct {
	// all also removes containers that are still running.
	all bool
}

// NewPruneCommand creates the "prune" cobra command.
func NewPruneCommand() *cobra.Command {
	flags := &pruneFlags{}

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove containers left behind by interrupted runs",
		Long: `Remove step containers created by logical-task.

Running containers are kept unless --all is given, since they may belong
to a run in progress.

Examples:
  logical-task prune
  logical-task prune --all`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrune(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().BoolVar(&flags.all, "all", false, "Also remove running containers")

	return cmd
}

func runPrune(ctx context.Context, out io.Writer, flags *pruneFlags) error {
	cli, err := docker.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	if err := cli.Ping(ctx); err != nil {
		return err
	}
	VerboseLog("Connected to Docker daemon")

	removed, err := docker.Prune(ctx, cli, flags.all)
	if err != nil {
		return err
	}
	VerboseLog("Removed %d containers", len(removed))

	return printPruneResult(out, removed)
}

type pruneContainerJSON struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Target string `json:"target"`
	RunID  string `json:"runId"`
	State  string `json:"state"`
}

func printPruneResult(out io.Writer, removed []docker.ContainerInfo) error {
	if IsJSONOutput() {
		result := struct {
			Removed []pruneContainerJSON `json:"removed"`
		}{Removed: make([]pruneContainerJSON, 0, len(removed))}

		for _, c := range removed {
			result.Removed = append(result.Removed, pruneContainerJSON{
				ID:     c.ID,
				Name:   c.Name,
				Target: c.Labels[docker.LabelTarget],
				RunID:  c.Labels[docker.LabelRunID],
				State:  c.State,
			})
		}
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(removed) == 0 {
		fmt.Fprintln(out, "No containers to remove.")
		return nil
	}
	for _, c := range removed {
		fmt.Fprintf(out, "Removed %s (target %s, state %s)\n",
			shortID(c.ID), c.Labels[docker.LabelTarget], c.State)
	}
	return nil
}

// shortID truncates a container ID to the 12 characters Docker shows.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
