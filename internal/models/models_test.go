package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdl-tools/logical/internal/logic"
	"github.com/hdl-tools/logical/internal/netlist"
)

func TestSwitchToLed(t *testing.T) {
	sw := NewSwitch(logic.S0)
	led := NewLed(logic.U)
	s, err := netlist.NewSignal(sw.Out, led.In)
	require.NoError(t, err)

	s.Update()
	assert.Equal(t, logic.S0, led.Value())

	sw.Set(logic.S1)
	assert.Equal(t, logic.S1, sw.Value())
	assert.Equal(t, logic.S0, led.Value())
	s.Update()
	assert.Equal(t, logic.S1, led.Value())
}

func TestVectorInput(t *testing.T) {
	in, err := NewVectorInput(4)
	require.NoError(t, err)
	assert.True(t, in.Out.Value().IsOnly(logic.U))

	require.NoError(t, in.SetUint64(9))
	assert.Equal(t, "1001", in.Out.Value().String())
	assert.ErrorIs(t, in.SetUint64(16), logic.ErrOverflow)

	assert.ErrorIs(t, in.Set(logic.NewVector(5)), logic.ErrWidthMismatch)
	require.NoError(t, in.Set(logic.Filled(logic.Z, 4)))
	assert.Equal(t, "ZZZZ", in.Out.Value().String())

	_, err = NewVectorInput(0)
	assert.ErrorIs(t, err, logic.ErrInvalidWidth)

	v, err := logic.ParseVector("01")
	require.NoError(t, err)
	assert.Equal(t, v, NewVectorInputOf(v).Out.Value())
}

func TestAdd(t *testing.T) {
	a, err := NewVectorInput(8)
	require.NoError(t, err)
	b, err := NewVectorInput(8)
	require.NoError(t, err)
	add := NewAdd(8)
	led := NewLed(logic.NewVector(8))

	sa, err := netlist.NewSignal(a.Out, add.A)
	require.NoError(t, err)
	sb, err := netlist.NewSignal(b.Out, add.B)
	require.NoError(t, err)
	ss, err := netlist.NewSignal(add.S, led.In)
	require.NoError(t, err)

	step := func() {
		sa.Update()
		sb.Update()
		add.Update()
		ss.Update()
	}

	step()
	assert.True(t, led.Value().IsOnly(logic.U))

	require.NoError(t, a.SetUint64(250))
	require.NoError(t, b.SetUint64(10))
	step()
	got, err := led.Value().Uint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), got)
}

func TestTwosComplement(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"0001", "1111"},
		{"0000", "0000"},
		{"0110", "1010"},
		{"1000", "1000"},
		{"01Z0", "UUUU"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := NewTwosComplement(4)
			v, err := logic.ParseVector(tt.input)
			require.NoError(t, err)
			c.A = netlist.NewInput(v)
			c.Update()
			assert.Equal(t, tt.expected, c.Y.Value().String())
		})
	}
}

func TestRom1kx8_DefaultZero(t *testing.T) {
	rom, err := NewRom1kx8(nil)
	require.NoError(t, err)
	for _, b := range rom.Memory {
		assert.Zero(t, b)
	}

	_, err = NewRom1kx8(make([]byte, 1025))
	assert.Error(t, err)
}

func TestRom1kx8_ReadOut(t *testing.T) {
	image := make([]byte, 1024)
	for i := range image {
		image[i] = byte(i)
	}
	rom, err := NewRom1kx8(image)
	require.NoError(t, err)

	addr, err := NewVectorInput(10)
	require.NoError(t, err)
	data := NewLed(logic.NewVector(8))
	enable := NewSwitch(logic.S0)

	sigEnable, err := netlist.NewSignal(enable.Out, rom.NOutputEnable, rom.NChipSelect)
	require.NoError(t, err)
	sigAddr, err := netlist.NewSignal(addr.Out, rom.Addr)
	require.NoError(t, err)
	sigData, err := netlist.NewSignal(rom.Data, data.In)
	require.NoError(t, err)

	sigEnable.Update()
	for i := range uint64(1024) {
		require.NoError(t, addr.SetUint64(i))
		sigAddr.Update()
		rom.Update()
		sigData.Update()

		got, err := data.Value().Uint64()
		require.NoError(t, err)
		require.Equal(t, i&0xFF, got)
	}
}

func TestRom1kx8_Control(t *testing.T) {
	tests := []struct {
		name     string
		ncs, noe logic.Ieee1164
		addr     string
		expected string
	}{
		{"enabled", logic.S0, logic.L, "0000000011", "00000011"},
		{"chip deselected", logic.S1, logic.S0, "0000000011", "ZZZZZZZZ"},
		{"output disabled", logic.S0, logic.H, "0000000011", "ZZZZZZZZ"},
		{"undefined select", logic.Z, logic.S0, "0000000011", "XXXXXXXX"},
		{"undefined enable", logic.S0, logic.U, "0000000011", "XXXXXXXX"},
		{"undefined over high", logic.X, logic.S1, "0000000011", "XXXXXXXX"},
		{"undefined address", logic.S0, logic.S0, "00000000X1", "XXXXXXXX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rom, err := NewRom1kx8([]byte{0, 1, 2, 3})
			require.NoError(t, err)
			addr, err := logic.ParseVector(tt.addr)
			require.NoError(t, err)
			rom.Addr = netlist.NewInput(addr)
			rom.NChipSelect = netlist.NewInput(tt.ncs)
			rom.NOutputEnable = netlist.NewInput(tt.noe)

			rom.Update()
			assert.Equal(t, tt.expected, rom.Data.Value().String())
		})
	}
}
