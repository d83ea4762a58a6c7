package demo

import (
	"fmt"

	"github.com/hdl-tools/logical/internal/circuit"
	"github.com/hdl-tools/logical/internal/gates"
	"github.com/hdl-tools/logical/internal/logic"
	"github.com/hdl-tools/logical/internal/models"
	"github.com/hdl-tools/logical/internal/netlist"
	"github.com/hdl-tools/logical/internal/vcd"
)

// Feedback is an XOR whose second input is fed back from its own output
// through a multiplexer. While Select is 0 the mux passes the constant
// input; once Select is 1 the loop closes and the XOR oscillates whenever
// Input is 1.
type Feedback struct {
	Input  *models.Switch[logic.Ieee1164]
	Select *models.Switch[logic.Ieee1164]
	Output *models.Led[logic.Ieee1164]
	Xor    *gates.Binary
	Mux    *gates.Mux

	circuit *circuit.Circuit
}

// NewFeedback wires the feedback circuit.
func NewFeedback() (*Feedback, error) {
	f := &Feedback{
		Input:  models.NewSwitch(logic.S1),
		Select: models.NewSwitch(logic.S0),
		Output: models.NewLed(logic.U),
		Xor:    gates.NewXor(),
		Mux:    gates.NewMux(),
	}
	constant := models.NewSwitch(logic.S1)

	f.circuit = circuit.New(f.Xor, f.Mux)
	for _, ports := range [][]*gates.Port{
		{f.Input.Out, f.Xor.A},
		{constant.Out, f.Mux.A},
		{f.Select.Out, f.Mux.S},
		{f.Mux.B, f.Output.In, f.Xor.Y},
		{f.Mux.Y, f.Xor.B},
	} {
		s, err := netlist.NewSignal(ports...)
		if err != nil {
			return nil, fmt.Errorf("failed to wire feedback circuit: %w", err)
		}
		f.circuit.Add(s)
	}
	return f, nil
}

// Trace runs the circuit for steps samples and records the XOR's ports
// in d. Input toggles every 20 samples. Each sample spans two circuit
// ticks and two dump timestamps.
func (f *Feedback) Trace(d *vcd.Dumper, steps int) error {
	f.circuit.Run(3)
	f.Select.Set(logic.S1)
	f.circuit.Tick()

	val := f.Input.Value()
	for i := range steps {
		if err := d.Ports("xor", f.Xor.Ports()); err != nil {
			return err
		}
		f.circuit.Run(2)
		d.Tick()
		d.Tick()
		if i%20 == 0 {
			val = val.Not()
			f.Input.Set(val)
		}
	}
	return nil
}
