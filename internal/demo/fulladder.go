// Package demo builds the reference circuits run by the logical binary.
package demo

import (
	"fmt"

	"github.com/hdl-tools/logical/internal/circuit"
	"github.com/hdl-tools/logical/internal/gates"
	"github.com/hdl-tools/logical/internal/logic"
	"github.com/hdl-tools/logical/internal/models"
	"github.com/hdl-tools/logical/internal/netlist"
)

// settleTicks covers the longest path of the adder: input signal, first
// half adder, its sum signal, second half adder, carry signal, OR gate and
// output signal. Signals and gates share a tick, so four are enough.
const settleTicks = 4

// FullAdder is a one-bit full adder built from two half adders and an OR
// gate.
type FullAdder struct {
	X, Y, C *models.Switch[logic.Ieee1164]
	S, Cout *models.Led[logic.Ieee1164]

	circuit *circuit.Circuit
}

// NewFullAdder wires the adder.
func NewFullAdder() (*FullAdder, error) {
	and1, xor1 := gates.NewAnd(), gates.NewXor()
	and2, xor2 := gates.NewAnd(), gates.NewXor()
	or := gates.NewOr()

	fa := &FullAdder{
		X:    models.NewSwitch(logic.S0),
		Y:    models.NewSwitch(logic.S0),
		C:    models.NewSwitch(logic.S0),
		S:    models.NewLed(logic.U),
		Cout: models.NewLed(logic.U),
	}

	wires := []struct {
		name  string
		ports []*gates.Port
	}{
		{"x", []*gates.Port{fa.X.Out, and1.A, xor1.A}},
		{"y", []*gates.Port{fa.Y.Out, and1.B, xor1.B}},
		{"ha1_carry", []*gates.Port{and1.Y, or.A}},
		{"ha1_sum", []*gates.Port{xor1.Y, and2.A, xor2.A}},
		{"cin", []*gates.Port{fa.C.Out, and2.B, xor2.B}},
		{"ha2_carry", []*gates.Port{and2.Y, or.B}},
		{"cout", []*gates.Port{or.Y, fa.Cout.In}},
		{"sum", []*gates.Port{xor2.Y, fa.S.In}},
	}

	fa.circuit = circuit.New()
	for _, w := range wires {
		s, err := netlist.NewSignal(w.ports...)
		if err != nil {
			return nil, fmt.Errorf("failed to wire %s: %w", w.name, err)
		}
		fa.circuit.Add(s)
	}
	fa.circuit.Add(and1, and2, xor1, xor2, or)
	return fa, nil
}

// Add drives the inputs and returns carry and sum once the network has
// settled.
func (fa *FullAdder) Add(x, y, c logic.Ieee1164) (cout, sum logic.Ieee1164) {
	fa.X.Set(x)
	fa.Y.Set(y)
	fa.C.Set(c)
	fa.circuit.Run(settleTicks)
	return fa.Cout.Value(), fa.S.Value()
}

// Row is one line of the full adder truth table.
type Row struct {
	X, Y, C  logic.Ieee1164
	Sum      logic.Ieee1164
	CarryOut logic.Ieee1164
}

// TruthTable lists the expected results for all eight input combinations.
var TruthTable = [8]Row{
	{logic.S0, logic.S0, logic.S0, logic.S0, logic.S0},
	{logic.S0, logic.S0, logic.S1, logic.S1, logic.S0},
	{logic.S0, logic.S1, logic.S0, logic.S1, logic.S0},
	{logic.S0, logic.S1, logic.S1, logic.S0, logic.S1},
	{logic.S1, logic.S0, logic.S0, logic.S1, logic.S0},
	{logic.S1, logic.S0, logic.S1, logic.S0, logic.S1},
	{logic.S1, logic.S1, logic.S0, logic.S0, logic.S1},
	{logic.S1, logic.S1, logic.S1, logic.S1, logic.S1},
}
