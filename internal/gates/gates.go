// Package gates provides the basic single-bit logic gates.
//
// Every gate owns its ports: A and B (or only A) are inputs, Y is the
// output. Update reads the inputs and drives Y; connect the ports to
// netlist signals to build a network.
package gates

import (
	"github.com/hdl-tools/logical/internal/logic"
	"github.com/hdl-tools/logical/internal/netlist"
)

// Port is the port type used by all gates.
type Port = netlist.Port[logic.Ieee1164]

// drive writes a gate's own output port. Outputs are created by the gate
// constructors, so the write is always allowed.
func drive(p *Port, v logic.Ieee1164) {
	_ = p.Write(v)
}

// Binary is a two-input gate.
type Binary struct {
	A, B *Port
	Y    *Port
	name string
	op   func(a, b logic.Ieee1164) logic.Ieee1164
}

func newBinary(name string, op func(a, b logic.Ieee1164) logic.Ieee1164) *Binary {
	return &Binary{
		A:    netlist.NewInput(logic.U),
		B:    netlist.NewInput(logic.U),
		Y:    netlist.NewOutput(logic.U),
		name: name,
		op:   op,
	}
}

// NewAnd returns a gate computing a AND b.
func NewAnd() *Binary { return newBinary("and", logic.Ieee1164.And) }

// NewNand returns a gate computing NOT (a AND b).
func NewNand() *Binary {
	return newBinary("nand", func(a, b logic.Ieee1164) logic.Ieee1164 { return a.And(b).Not() })
}

// NewOr returns a gate computing a OR b.
func NewOr() *Binary { return newBinary("or", logic.Ieee1164.Or) }

// NewNor returns a gate computing NOT (a OR b).
func NewNor() *Binary {
	return newBinary("nor", func(a, b logic.Ieee1164) logic.Ieee1164 { return a.Or(b).Not() })
}

// NewXor returns a gate computing a XOR b.
func NewXor() *Binary { return newBinary("xor", logic.Ieee1164.Xor) }

// NewXnor returns a gate computing NOT (a XOR b).
func NewXnor() *Binary {
	return newBinary("xnor", func(a, b logic.Ieee1164) logic.Ieee1164 { return a.Xor(b).Not() })
}

// Name returns the gate kind, e.g. "nand".
func (g *Binary) Name() string { return g.name }

// Update implements netlist.Updater.
func (g *Binary) Update() {
	drive(g.Y, g.op(g.A.Value(), g.B.Value()))
}

// Ports lists the gate's ports in declaration order.
func (g *Binary) Ports() []netlist.Named[logic.Ieee1164] {
	return []netlist.Named[logic.Ieee1164]{{Name: "a", Port: g.A}, {Name: "b", Port: g.B}, {Name: "y", Port: g.Y}}
}

// Unary is a one-input gate.
type Unary struct {
	A, Y *Port
	name string
	op   func(a logic.Ieee1164) logic.Ieee1164
}

func newUnary(name string, op func(a logic.Ieee1164) logic.Ieee1164) *Unary {
	return &Unary{
		A:    netlist.NewInput(logic.U),
		Y:    netlist.NewOutput(logic.U),
		name: name,
		op:   op,
	}
}

// NewBuffer returns a gate that drives its input strongly: 0/L become 0,
// 1/H become 1, U stays U and everything else becomes X.
func NewBuffer() *Unary {
	return newUnary("buffer", func(a logic.Ieee1164) logic.Ieee1164 { return a.Not().Not() })
}

// NewInverter returns a NOT gate.
func NewInverter() *Unary { return newUnary("inverter", logic.Ieee1164.Not) }

// NewWeakBuffer returns a buffer whose output is a weak drive (L, H or W).
func NewWeakBuffer() *Unary {
	return newUnary("weak_buffer", func(a logic.Ieee1164) logic.Ieee1164 { return weaken(a.Not().Not()) })
}

// NewWeakInverter returns an inverter whose output is a weak drive.
func NewWeakInverter() *Unary {
	return newUnary("weak_inverter", func(a logic.Ieee1164) logic.Ieee1164 { return weaken(a.Not()) })
}

func weaken(v logic.Ieee1164) logic.Ieee1164 {
	if p, ok := v.Value(); ok {
		return logic.Weak(p)
	}
	return v
}

// Name returns the gate kind, e.g. "inverter".
func (g *Unary) Name() string { return g.name }

// Update implements netlist.Updater.
func (g *Unary) Update() {
	drive(g.Y, g.op(g.A.Value()))
}

// Ports lists the gate's ports in declaration order.
func (g *Unary) Ports() []netlist.Named[logic.Ieee1164] {
	return []netlist.Named[logic.Ieee1164]{{Name: "a", Port: g.A}, {Name: "y", Port: g.Y}}
}
