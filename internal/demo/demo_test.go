package demo

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdl-tools/logical/internal/logic"
	"github.com/hdl-tools/logical/internal/vcd"
)

func TestFullAdder_TruthTable(t *testing.T) {
	fa, err := NewFullAdder()
	require.NoError(t, err)

	for _, row := range TruthTable {
		name := row.X.String() + row.Y.String() + row.C.String()
		t.Run(name, func(t *testing.T) {
			cout, sum := fa.Add(row.X, row.Y, row.C)
			assert.Equal(t, row.Sum, sum)
			assert.Equal(t, row.CarryOut, cout)
		})
	}
}

func TestFullAdder_WeakInputs(t *testing.T) {
	fa, err := NewFullAdder()
	require.NoError(t, err)

	cout, sum := fa.Add(logic.H, logic.L, logic.H)
	assert.Equal(t, logic.S1, cout)
	assert.Equal(t, logic.S0, sum)
}

func TestFeedback_Trace(t *testing.T) {
	f, err := NewFeedback()
	require.NoError(t, err)

	d := vcd.New("feedback")
	require.NoError(t, f.Trace(d, 90))
	assert.Equal(t, uint64(180), d.Now())

	var buf bytes.Buffer
	_, err = d.WriteTo(&buf)
	require.NoError(t, err)
	out := buf.String()
	for _, name := range []string{"xor.a", "xor.b", "xor.y"} {
		assert.Contains(t, out, " "+name+" $end")
	}
	assert.True(t, strings.HasSuffix(out, "#180\n"))
}

func TestTraceCounter(t *testing.T) {
	d := vcd.New("counter")
	require.NoError(t, TraceCounter(d, 3))
	assert.Equal(t, uint64(9), d.Now())

	var buf bytes.Buffer
	_, err := d.WriteTo(&buf)
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "$var reg 16 ")
	assert.Contains(t, out, "b1111111111111111 ")
	assert.Contains(t, out, "b0000000000000000 ")
	assert.Contains(t, out, "b0000000000000010 ")
	assert.Contains(t, out, "bzzzzzzzzzzzzzzzz ")
}
