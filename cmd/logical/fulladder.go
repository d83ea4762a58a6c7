package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/hdl-tools/logical/internal/demo"
)

func newFullAdderCommand() *cobra.Command {
	var delay time.Duration

	cmd := &cobra.Command{
		Use:   "fulladder",
		Short: "Simulate a full adder and check it against its truth table",
		Long: `Simulate a one-bit full adder built from two half adders and an OR gate.

Each input combination is printed as "x + y + c = <carry><sum>". The
command fails if any row differs from the truth table.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFullAdder(cmd.OutOrStdout(), delay)
		},
	}
	cmd.Flags().DurationVar(&delay, "delay", 0, "Pause between rows")
	return cmd
}

func runFullAdder(out io.Writer, delay time.Duration) error {
	fa, err := demo.NewFullAdder()
	if err != nil {
		return err
	}

	mismatches := 0
	for i, row := range demo.TruthTable {
		if i > 0 && delay > 0 {
			time.Sleep(delay)
		}
		cout, sum := fa.Add(row.X, row.Y, row.C)
		fmt.Fprintf(out, "%s + %s + %s = %s%s\n", row.X, row.Y, row.C, cout, sum)
		if cout != row.CarryOut || sum != row.Sum {
			mismatches++
		}
	}
	if mismatches > 0 {
		return fmt.Errorf("%d of %d rows differ from the truth table", mismatches, len(demo.TruthTable))
	}
	return nil
}
