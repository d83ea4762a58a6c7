package models

import (
	"fmt"

	"github.com/hdl-tools/logical/internal/logic"
	"github.com/hdl-tools/logical/internal/netlist"
)

const (
	romSize      = 1024
	romAddrWidth = 10
	romDataWidth = 8
)

// Rom1kx8 is a 1024 x 8 bit read-only memory with active-low chip select
// and output enable.
//
// Data is X while either control input is undefined, Z while either is
// high, and the addressed byte otherwise. An undefined address also
// yields X.
type Rom1kx8 struct {
	Memory [romSize]byte

	Addr          *netlist.Port[logic.Vector]
	Data          *netlist.Port[logic.Vector]
	NChipSelect   *netlist.Port[logic.Ieee1164]
	NOutputEnable *netlist.Port[logic.Ieee1164]
}

// NewRom1kx8 returns a ROM preloaded with contents. Missing bytes are zero.
func NewRom1kx8(contents []byte) (*Rom1kx8, error) {
	if len(contents) > romSize {
		return nil, fmt.Errorf("rom image has %d bytes, capacity is %d", len(contents), romSize)
	}
	r := &Rom1kx8{
		Addr:          netlist.NewInput(logic.NewVector(romAddrWidth)),
		Data:          netlist.NewOutput(logic.NewVector(romDataWidth)),
		NChipSelect:   netlist.NewInput(logic.U),
		NOutputEnable: netlist.NewInput(logic.U),
	}
	copy(r.Memory[:], contents)
	return r, nil
}

// Update implements netlist.Updater.
func (r *Rom1kx8) Update() {
	ncs := r.NChipSelect.Value()
	noe := r.NOutputEnable.Value()

	var out logic.Vector
	switch {
	case ncs.IsUXZ() || noe.IsUXZ():
		out = logic.Filled(logic.X, romDataWidth)
	case ncs.Is1H() || noe.Is1H():
		out = logic.Filled(logic.Z, romDataWidth)
	default:
		addr, err := r.Addr.Value().Uint64()
		if err != nil || addr >= romSize {
			out = logic.Filled(logic.X, romDataWidth)
			break
		}
		out, _ = logic.FromUint64(uint64(r.Memory[addr]), romDataWidth)
	}
	_ = r.Data.Write(out)
}
