package logic

import (
	"fmt"
	"unicode"
)

// Ieee1164 is a single IEEE 1164 logic value.
//
// The zero value is U (uninitialized), which is what every port holds
// before anything drives it. The constant order matches the rows and
// columns of the truth tables below:
//
//	U X 0 1 Z W L H -
type Ieee1164 uint8

const (
	// U is uninitialized: an unknown or invalid value.
	U Ieee1164 = iota
	// X is a conflict between two strong values.
	X
	// S0 is a strong 0.
	S0
	// S1 is a strong 1.
	S1
	// Z is high impedance: nothing drives the wire.
	Z
	// W is a conflict between two weak values.
	W
	// L is a weak 0.
	L
	// H is a weak 1.
	H
	// D is don't care.
	D
)

// numValues is the number of distinct Ieee1164 values.
const numValues = 9

// Values lists every Ieee1164 value in table order.
var Values = [numValues]Ieee1164{U, X, S0, S1, Z, W, L, H, D}

// Strong returns the strong drive of v.
func Strong(v Value) Ieee1164 {
	switch v {
	case ValueZero:
		return S0
	case ValueOne:
		return S1
	default:
		return X
	}
}

// Weak returns the weak drive of v.
func Weak(v Value) Ieee1164 {
	switch v {
	case ValueZero:
		return L
	case ValueOne:
		return H
	default:
		return W
	}
}

// ParseIeee1164 converts a character to an Ieee1164 value. Letters are
// case-insensitive; '*', '-' and 'd' all mean don't care.
func ParseIeee1164(r rune) (Ieee1164, error) {
	switch unicode.ToLower(r) {
	case 'u':
		return U, nil
	case 'x':
		return X, nil
	case '0':
		return S0, nil
	case '1':
		return S1, nil
	case 'z':
		return Z, nil
	case 'w':
		return W, nil
	case 'l':
		return L, nil
	case 'h':
		return H, nil
	case '*', '-', 'd':
		return D, nil
	}
	return U, fmt.Errorf("%w: %q", ErrInvalidChar, r)
}

var runes = [numValues]rune{'U', 'X', '0', '1', 'Z', 'W', 'L', 'H', '-'}

// Rune returns the canonical character of the value.
func (v Ieee1164) Rune() rune {
	if int(v) >= numValues {
		return '?'
	}
	return runes[v]
}

// String implements fmt.Stringer.
func (v Ieee1164) String() string {
	return string(v.Rune())
}

// Value returns the three-valued payload of a strong or weak drive.
// The second result is false for U, Z and D.
func (v Ieee1164) Value() (Value, bool) {
	switch v {
	case S0, L:
		return ValueZero, true
	case S1, H:
		return ValueOne, true
	case X, W:
		return ValueUnknown, true
	}
	return ValueUnknown, false
}

var andTable = [numValues][numValues]Ieee1164{
	//U  X  0   1   Z  W  L   H   -
	{U, U, S0, U, U, U, S0, U, U},        // U
	{U, X, S0, X, X, X, S0, X, X},        // X
	{S0, S0, S0, S0, S0, S0, S0, S0, S0}, // 0
	{U, X, S0, S1, X, X, S0, S1, X},      // 1
	{U, X, S0, X, X, X, S0, X, X},        // Z
	{U, X, S0, X, X, X, S0, X, X},        // W
	{S0, S0, S0, S0, S0, S0, S0, S0, S0}, // L
	{U, X, S0, S1, X, X, S0, S1, X},      // H
	{U, X, S0, X, X, X, S0, X, X},        // -
}

var orTable = [numValues][numValues]Ieee1164{
	//U  X  0   1   Z  W  L   H   -
	{U, U, U, S1, U, U, U, S1, U},        // U
	{U, X, X, S1, X, X, X, S1, X},        // X
	{U, X, S0, S1, X, X, S0, S1, X},      // 0
	{S1, S1, S1, S1, S1, S1, S1, S1, S1}, // 1
	{U, X, X, S1, X, X, X, S1, X},        // Z
	{U, X, X, S1, X, X, X, S1, X},        // W
	{U, X, S0, S1, X, X, S0, S1, X},      // L
	{S1, S1, S1, S1, S1, S1, S1, S1, S1}, // H
	{U, X, X, S1, X, X, X, S1, X},        // -
}

var xorTable = [numValues][numValues]Ieee1164{
	//U  X  0   1   Z  W  L   H   -
	{U, U, U, U, U, U, U, U, U},     // U
	{U, X, X, X, X, X, X, X, X},     // X
	{U, X, S0, S1, X, X, S0, S1, X}, // 0
	{U, X, S1, S0, X, X, S1, S0, X}, // 1
	{U, X, X, X, X, X, X, X, X},     // Z
	{U, X, X, X, X, X, X, X, X},     // W
	{U, X, S0, S1, X, X, S0, S1, X}, // L
	{U, X, S1, S0, X, X, S1, S0, X}, // H
	{U, X, X, X, X, X, X, X, X},     // -
}

var resolveTable = [numValues][numValues]Ieee1164{
	//U  X  0   1   Z   W  L  H  -
	{U, U, U, U, U, U, U, U, U},      // U
	{U, X, X, X, X, X, X, X, X},      // X
	{U, X, S0, X, S0, S0, S0, S0, X}, // 0
	{U, X, X, S1, S1, S1, S1, S1, X}, // 1
	{U, X, S0, S1, Z, W, L, H, X},    // Z
	{U, X, S0, S1, W, W, W, W, X},    // W
	{U, X, S0, S1, L, W, L, W, X},    // L
	{U, X, S0, S1, H, W, W, H, X},    // H
	{U, X, X, X, X, X, X, X, X},      // -
}

// And is the IEEE 1164 AND. A 0 or L on either side always wins.
func (v Ieee1164) And(o Ieee1164) Ieee1164 { return andTable[v][o] }

// Or is the IEEE 1164 OR. A 1 or H on either side always wins.
func (v Ieee1164) Or(o Ieee1164) Ieee1164 { return orTable[v][o] }

// Xor is the IEEE 1164 XOR.
func (v Ieee1164) Xor(o Ieee1164) Ieee1164 { return xorTable[v][o] }

// Not inverts 0/L to 1 and 1/H to 0. U stays U, everything else becomes X.
func (v Ieee1164) Not() Ieee1164 {
	switch v {
	case U:
		return U
	case S0, L:
		return S1
	case S1, H:
		return S0
	}
	return X
}

// Resolve combines two drivers of the same wire. Strong beats weak, weak
// beats Z, and any disagreement at equal strength produces X or W.
func (v Ieee1164) Resolve(o Ieee1164) Ieee1164 { return resolveTable[v][o] }

// IsUXZ reports whether the value carries no defined 0 or 1, i.e. it is
// one of U, X, Z, W or D.
func (v Ieee1164) IsUXZ() bool { return !(v.Is1H() || v.Is0L()) }

// Is01 reports whether the value is a strong 0 or 1.
func (v Ieee1164) Is01() bool { return v == S0 || v == S1 }

// Is1H reports whether the value is a strong or weak 1.
func (v Ieee1164) Is1H() bool { return v == S1 || v == H }

// Is0L reports whether the value is a strong or weak 0.
func (v Ieee1164) Is0L() bool { return v == S0 || v == L }
