package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseIeee1164 covers every accepted character, both cases, and the
// three spellings of don't care.
func TestParseIeee1164(t *testing.T) {
	tests := []struct {
		input    rune
		expected Ieee1164
	}{
		{'u', U}, {'U', U},
		{'x', X}, {'X', X},
		{'0', S0}, {'1', S1},
		{'z', Z}, {'Z', Z},
		{'w', W}, {'W', W},
		{'l', L}, {'L', L},
		{'h', H}, {'H', H},
		{'-', D}, {'*', D}, {'d', D}, {'D', D},
	}

	for _, tt := range tests {
		t.Run(string(tt.input), func(t *testing.T) {
			got, err := ParseIeee1164(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseIeee1164_Invalid(t *testing.T) {
	for _, r := range "2abq ?" {
		_, err := ParseIeee1164(r)
		assert.ErrorIs(t, err, ErrInvalidChar, "rune %q", r)
	}
}

// TestIeee1164_RuneRoundTrip verifies that rendering and parsing agree for
// all nine values.
func TestIeee1164_RuneRoundTrip(t *testing.T) {
	for _, v := range Values {
		got, err := ParseIeee1164(v.Rune())
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
	assert.Equal(t, "0", S0.String())
	assert.Equal(t, "-", D.String())
	assert.Equal(t, '?', Ieee1164(42).Rune())
}

func TestIeee1164_ZeroValueIsUninitialized(t *testing.T) {
	var v Ieee1164
	assert.Equal(t, U, v)
}

func TestIeee1164_Commutative(t *testing.T) {
	for _, a := range Values {
		for _, b := range Values {
			assert.Equal(t, a.And(b), b.And(a), "and %s %s", a, b)
			assert.Equal(t, a.Or(b), b.Or(a), "or %s %s", a, b)
			assert.Equal(t, a.Xor(b), b.Xor(a), "xor %s %s", a, b)
			assert.Equal(t, a.Resolve(b), b.Resolve(a), "resolve %s %s", a, b)
		}
	}
}

func TestIeee1164_Dominance(t *testing.T) {
	for _, v := range Values {
		assert.Equal(t, S0, S0.And(v), "0 and %s", v)
		assert.Equal(t, S0, L.And(v), "L and %s", v)
		assert.Equal(t, S1, S1.Or(v), "1 or %s", v)
		assert.Equal(t, S1, H.Or(v), "H or %s", v)
		assert.Equal(t, U, U.Resolve(v), "U resolve %s", v)
		if v != D {
			assert.Equal(t, v, Z.Resolve(v), "Z resolve %s", v)
		}
	}
}

func TestIeee1164_Resolve(t *testing.T) {
	tests := []struct {
		a, b, expected Ieee1164
	}{
		{S0, S1, X},
		{S0, L, S0},
		{S1, H, S1},
		{L, H, W},
		{H, H, H},
		{Z, Z, Z},
		{W, L, W},
		{D, S1, X},
	}

	for _, tt := range tests {
		t.Run(tt.a.String()+tt.b.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Resolve(tt.b))
		})
	}
}

func TestIeee1164_Not(t *testing.T) {
	tests := []struct {
		input, expected Ieee1164
	}{
		{U, U}, {X, X}, {S0, S1}, {S1, S0}, {Z, X}, {W, X}, {L, S1}, {H, S0}, {D, X},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.input.Not(), "not %s", tt.input)
	}
}

func TestIeee1164_Xor(t *testing.T) {
	assert.Equal(t, S1, S0.Xor(H))
	assert.Equal(t, S0, H.Xor(S1))
	assert.Equal(t, X, Z.Xor(S1))
	assert.Equal(t, U, U.Xor(S0))
}

func TestIeee1164_Predicates(t *testing.T) {
	for _, v := range []Ieee1164{U, X, Z, W, D} {
		assert.True(t, v.IsUXZ(), v.String())
		assert.False(t, v.Is01(), v.String())
	}
	assert.True(t, S0.Is0L())
	assert.True(t, L.Is0L())
	assert.True(t, S1.Is1H())
	assert.True(t, H.Is1H())
	assert.False(t, L.Is01())
	assert.False(t, H.IsUXZ())
}

func TestIeee1164_ValueAndDrives(t *testing.T) {
	assert.Equal(t, S0, Strong(ValueZero))
	assert.Equal(t, S1, Strong(ValueOne))
	assert.Equal(t, X, Strong(ValueUnknown))
	assert.Equal(t, L, Weak(ValueZero))
	assert.Equal(t, H, Weak(ValueOne))
	assert.Equal(t, W, Weak(ValueUnknown))

	for _, v := range []Value{ValueZero, ValueOne, ValueUnknown} {
		got, ok := Strong(v).Value()
		require.True(t, ok)
		assert.Equal(t, v, got)
		got, ok = Weak(v).Value()
		require.True(t, ok)
		assert.Equal(t, v, got)
	}

	for _, v := range []Ieee1164{U, Z, D} {
		_, ok := v.Value()
		assert.False(t, ok, v.String())
	}
}

func TestValue_Operations(t *testing.T) {
	zero, one, unk := ValueZero, ValueOne, ValueUnknown

	assert.Equal(t, zero, zero.And(unk))
	assert.Equal(t, one, one.And(one))
	assert.Equal(t, unk, one.And(unk))

	assert.Equal(t, one, unk.Or(one))
	assert.Equal(t, zero, zero.Or(zero))
	assert.Equal(t, unk, zero.Or(unk))

	assert.Equal(t, one, zero.Xor(one))
	assert.Equal(t, zero, one.Xor(one))
	assert.Equal(t, unk, unk.Xor(zero))

	assert.Equal(t, one, zero.Not())
	assert.Equal(t, unk, unk.Not())

	assert.Equal(t, one, one.Resolve(one))
	assert.Equal(t, unk, one.Resolve(zero))

	assert.Equal(t, "0", zero.String())
	assert.Equal(t, "1", one.String())
	assert.Equal(t, "U", unk.String())
}
