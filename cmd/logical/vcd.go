package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hdl-tools/logical/internal/demo"
	"github.com/hdl-tools/logical/internal/vcd"
)

type vcdFlags struct {
	out     string
	circuit string
	steps   int
}

func newVCDCommand() *cobra.Command {
	flags := &vcdFlags{}

	cmd := &cobra.Command{
		Use:   "vcd",
		Short: "Write a waveform trace as a VCD file",
		Long: `Simulate a reference circuit and write its waveforms as a VCD file.

Circuits:
  feedback  XOR whose output feeds back through a multiplexer
  counter   16-bit register counting up from all ones

Examples:
  logical vcd --out feedback.vcd
  logical vcd --circuit counter --steps 90 --out counter.vcd`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVCD(cmd.OutOrStdout(), flags)
		},
	}
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "VCD file to write (required)")
	cmd.Flags().StringVar(&flags.circuit, "circuit", "feedback", "Circuit to trace: feedback or counter")
	cmd.Flags().IntVar(&flags.steps, "steps", 90, "Number of samples to record")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func runVCD(out io.Writer, flags *vcdFlags) error {
	if flags.steps < 0 {
		return fmt.Errorf("invalid --steps %d: must not be negative", flags.steps)
	}

	d := vcd.New(flags.circuit)
	switch flags.circuit {
	case "feedback":
		f, err := demo.NewFeedback()
		if err != nil {
			return err
		}
		if err := f.Trace(d, flags.steps); err != nil {
			return err
		}
	case "counter":
		if err := demo.TraceCounter(d, flags.steps); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown circuit %q (valid: feedback, counter)", flags.circuit)
	}

	if err := d.Dump(flags.out); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %d time units to %s\n", d.Now(), flags.out)
	return nil
}
