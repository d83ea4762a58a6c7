package demo

import (
	"github.com/hdl-tools/logical/internal/logic"
	"github.com/hdl-tools/logical/internal/vcd"
)

// CounterWidth is the register width of the counter trace.
const CounterWidth = 16

// TraceCounter records a register named "count" in d. It first holds each
// non-binary fill value (Z, U, X, W, D) for one tick, then loads all ones
// and increments steps times, wrapping through zero.
func TraceCounter(d *vcd.Dumper, steps int) error {
	for _, fill := range []logic.Ieee1164{logic.Z, logic.U, logic.X, logic.W, logic.D, logic.S1} {
		if err := d.Vector("count", logic.Filled(fill, CounterWidth)); err != nil {
			return err
		}
		d.Tick()
	}

	count := logic.Filled(logic.S1, CounterWidth)
	for range steps {
		count = count.Incr()
		if err := d.Vector("count", count); err != nil {
			return err
		}
		d.Tick()
	}
	return nil
}
