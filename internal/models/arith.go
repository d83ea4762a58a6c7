package models

import (
	"github.com/hdl-tools/logical/internal/logic"
	"github.com/hdl-tools/logical/internal/netlist"
)

// Add is a combinational adder. S is the wrapping sum of A and B; any
// undefined input bit makes the whole sum U.
type Add struct {
	A, B *netlist.Port[logic.Vector]
	S    *netlist.Port[logic.Vector]
}

// NewAdd returns an adder whose ports all have the given width.
// It panics if width is outside 1..logic.MaxWidth.
func NewAdd(width int) *Add {
	return &Add{
		A: netlist.NewInput(logic.NewVector(width)),
		B: netlist.NewInput(logic.NewVector(width)),
		S: netlist.NewOutput(logic.NewVector(width)),
	}
}

// Update implements netlist.Updater.
func (a *Add) Update() {
	sum, err := a.A.Value().Add(a.B.Value())
	if err != nil {
		sum = logic.Filled(logic.X, a.S.Value().Width())
	}
	_ = a.S.Write(sum)
}

// TwosComplement negates A: Y = NOT A + 1.
type TwosComplement struct {
	A *netlist.Port[logic.Vector]
	Y *netlist.Port[logic.Vector]
}

// NewTwosComplement returns a negator of the given width.
// It panics if width is outside 1..logic.MaxWidth.
func NewTwosComplement(width int) *TwosComplement {
	return &TwosComplement{
		A: netlist.NewInput(logic.NewVector(width)),
		Y: netlist.NewOutput(logic.NewVector(width)),
	}
}

// Update implements netlist.Updater.
func (c *TwosComplement) Update() {
	_ = c.Y.Write(c.A.Value().Not().Incr())
}
