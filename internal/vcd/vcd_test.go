package vcd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdl-tools/logical/internal/gates"
	"github.com/hdl-tools/logical/internal/logic"
)

func fixedDumper(module string) *Dumper {
	d := New(module)
	d.Date = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return d
}

func TestDumper_WriteTo(t *testing.T) {
	d := fixedDumper("top")
	require.NoError(t, d.Wire("clk", logic.S0))
	require.NoError(t, d.Wire("en", logic.U))
	d.Tick()
	require.NoError(t, d.Wire("clk", logic.S1))
	require.NoError(t, d.Wire("en", logic.U)) // unchanged, not recorded
	d.Tick()
	d.Tick()

	var buf bytes.Buffer
	n, err := d.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	expected := strings.Join([]string{
		"$date",
		"    Fri, 01 Mar 2024 12:00:00 UTC",
		"$end",
		"$version",
		"    logical VCD dumper",
		"$end",
		"$timescale 1ps $end",
		"$scope module top $end",
		"$var wire 1 ! clk $end",
		"$var wire 1 \" en $end",
		"$upscope $end",
		"$enddefinitions $end",
		"#0",
		"$dumpvars",
		"0!",
		"u\"",
		"$end",
		"#1",
		"1!",
		"#3",
		"",
	}, "\n")
	assert.Equal(t, expected, buf.String())
}

func TestDumper_Vector(t *testing.T) {
	d := fixedDumper("regs")
	v, err := logic.ParseVector("01ZH")
	require.NoError(t, err)
	require.NoError(t, d.Vector("data", v))

	wide := logic.NewVector(8)
	assert.ErrorIs(t, d.Vector("data", wide), ErrWidthChanged)

	var buf bytes.Buffer
	_, err = d.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "$var reg 4 ! data $end\n")
	assert.Contains(t, buf.String(), "b01zh !\n")
}

func TestDumper_KindChanged(t *testing.T) {
	d := fixedDumper("mixed")
	require.NoError(t, d.Wire("a", logic.S0))
	d.Tick()

	one, err := logic.FromUint64(1, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, d.Vector("a", one), ErrKindChanged)

	require.NoError(t, d.Vector("b", one))
	assert.ErrorIs(t, d.Wire("b", logic.S1), ErrKindChanged)

	var buf bytes.Buffer
	_, err = d.WriteTo(&buf)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "b1!")
	assert.Contains(t, buf.String(), "$var wire 1 ! a $end\n")
	assert.Contains(t, buf.String(), "$var reg 1 \" b $end\n")
}

func TestDumper_IdentifiersExhausted(t *testing.T) {
	d := fixedDumper("big")
	count := int(lastIdent - firstIdent + 1)
	for i := 0; i < count; i++ {
		require.NoError(t, d.Wire("w"+strings.Repeat("x", i), logic.S0))
	}
	err := d.Wire("one-too-many", logic.S0)
	assert.ErrorIs(t, err, ErrIdentifiersExhausted)

	// known names still work
	require.NoError(t, d.Wire("w", logic.S1))
}

func TestDumper_Ports(t *testing.T) {
	g := gates.NewXor()
	d := fixedDumper("xor")
	require.NoError(t, d.Ports("x0", g.Ports()))

	var buf bytes.Buffer
	_, err := d.WriteTo(&buf)
	require.NoError(t, err)
	for _, name := range []string{"x0.a", "x0.b", "x0.y"} {
		assert.Contains(t, buf.String(), " "+name+" $end")
	}
}

func TestDumper_Dump(t *testing.T) {
	d := fixedDumper("file")
	require.NoError(t, d.Wire("a", logic.S1))
	path := filepath.Join(t.TempDir(), "out.vcd")
	require.NoError(t, d.Dump(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "$date\n"))
	assert.Contains(t, string(data), "1!\n")

	err = d.Dump(filepath.Join(t.TempDir(), "missing", "out.vcd"))
	assert.Error(t, err)
}

func TestValueRune(t *testing.T) {
	got := ""
	for _, v := range logic.Values {
		got += string(valueRune(v))
	}
	assert.Equal(t, "ux01zwlh-", got)
}
