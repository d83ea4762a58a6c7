package gates

import (
	"github.com/hdl-tools/logical/internal/logic"
	"github.com/hdl-tools/logical/internal/netlist"
)

// Mux is a 2:1 multiplexer. S at 1/H selects B, 0/L selects A, anything
// else drives X.
type Mux struct {
	A, B, S *Port
	Y       *Port
}

// NewMux returns a multiplexer with all inputs uninitialized.
func NewMux() *Mux {
	return &Mux{
		A: netlist.NewInput(logic.U),
		B: netlist.NewInput(logic.U),
		S: netlist.NewInput(logic.U),
		Y: netlist.NewOutput(logic.U),
	}
}

// Update implements netlist.Updater.
func (m *Mux) Update() {
	s := m.S.Value()
	switch {
	case s.Is1H():
		drive(m.Y, m.B.Value())
	case s.Is0L():
		drive(m.Y, m.A.Value())
	default:
		drive(m.Y, logic.X)
	}
}

// Ports lists the multiplexer's ports.
func (m *Mux) Ports() []netlist.Named[logic.Ieee1164] {
	return []netlist.Named[logic.Ieee1164]{
		{Name: "a", Port: m.A},
		{Name: "b", Port: m.B},
		{Name: "s", Port: m.S},
		{Name: "y", Port: m.Y},
	}
}

// TriBuffer passes A through while S is 1/H and releases the wire (Z)
// while S is 0/L. Any other select value drives X.
type TriBuffer struct {
	A, S *Port
	Y    *Port
}

// NewTriBuffer returns a tri-state buffer with all inputs uninitialized.
func NewTriBuffer() *TriBuffer {
	return &TriBuffer{
		A: netlist.NewInput(logic.U),
		S: netlist.NewInput(logic.U),
		Y: netlist.NewOutput(logic.U),
	}
}

// Update implements netlist.Updater.
func (b *TriBuffer) Update() {
	s := b.S.Value()
	switch {
	case s.Is1H():
		drive(b.Y, b.A.Value())
	case s.Is0L():
		drive(b.Y, logic.Z)
	default:
		drive(b.Y, logic.X)
	}
}

// Ports lists the buffer's ports.
func (b *TriBuffer) Ports() []netlist.Named[logic.Ieee1164] {
	return []netlist.Named[logic.Ieee1164]{
		{Name: "a", Port: b.A},
		{Name: "s", Port: b.S},
		{Name: "y", Port: b.Y},
	}
}
