// Package main is the entry point for the logical demo binary.
//
// It drives the reference circuits in internal/demo: a full adder checked
// against its truth table, and two waveform traces written as VCD files
// for GTKWave.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "logical",
		Short:         "Run the logic simulator's reference circuits",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newFullAdderCommand())
	rootCmd.AddCommand(newVCDCommand())
	return rootCmd
}
