package logic

import (
	"fmt"
	"math/bits"
	"strings"
)

// MaxWidth is the widest Vector that can be represented.
const MaxWidth = 64

// Vector is a fixed-width sequence of Ieee1164 bits. Bit 0 is the least
// significant bit; String and ParseVector use MSB-first order.
//
// Internally every logic value owns one bitmask, and each bit position is
// set in exactly one of the nine masks. Vectors are values: assignment
// copies, and == compares width and content.
type Vector struct {
	masks [numValues]uint64
	width uint8
}

func widthMask(width uint8) uint64 {
	if width >= MaxWidth {
		return ^uint64(0)
	}
	return 1<<width - 1
}

func checkWidth(width int) error {
	if width < 1 || width > MaxWidth {
		return fmt.Errorf("%w: %d (valid: 1-%d)", ErrInvalidWidth, width, MaxWidth)
	}
	return nil
}

// Filled returns a vector of the given width with every bit set to value.
// It panics if width is outside 1..MaxWidth.
func Filled(value Ieee1164, width int) Vector {
	if err := checkWidth(width); err != nil {
		panic(err)
	}
	v := Vector{width: uint8(width)}
	v.masks[value] = widthMask(v.width)
	return v
}

// NewVector returns an uninitialized (all U) vector.
// It panics if width is outside 1..MaxWidth.
func NewVector(width int) Vector {
	return Filled(U, width)
}

// FromUint64 builds a fully defined vector from an unsigned integer.
// It fails with ErrOverflow if value needs more than width bits.
func FromUint64(value uint64, width int) (Vector, error) {
	if err := checkWidth(width); err != nil {
		return Vector{}, err
	}
	if bits.Len64(value) > width {
		return Vector{}, fmt.Errorf("%w: %d in %d bits", ErrOverflow, value, width)
	}
	v := Vector{width: uint8(width)}
	v.masks[S1] = value
	v.masks[S0] = ^value & widthMask(v.width)
	return v, nil
}

// FromBits builds a vector whose most significant bit is bits[0].
func FromBits(values []Ieee1164) (Vector, error) {
	if err := checkWidth(len(values)); err != nil {
		return Vector{}, err
	}
	v := Vector{width: uint8(len(values))}
	for i, b := range values {
		v.masks[b] |= 1 << (len(values) - i - 1)
	}
	return v, nil
}

// ParseVector parses an MSB-first string such as "01ZX" or "uuhl".
func ParseVector(s string) (Vector, error) {
	values := make([]Ieee1164, 0, len(s))
	for _, r := range s {
		b, err := ParseIeee1164(r)
		if err != nil {
			return Vector{}, err
		}
		values = append(values, b)
	}
	return FromBits(values)
}

// Width returns the number of bits.
func (v Vector) Width() int {
	return int(v.width)
}

func (v Vector) at(i int) Ieee1164 {
	for _, val := range Values {
		if v.masks[val]>>i&1 == 1 {
			return val
		}
	}
	return U
}

// Get returns bit i (0 is the least significant bit). The second result
// is false when i is out of range.
func (v Vector) Get(i int) (Ieee1164, bool) {
	if i < 0 || i >= int(v.width) {
		return U, false
	}
	return v.at(i), true
}

// Set assigns bit i. Out of range indexes are ignored.
func (v *Vector) Set(i int, value Ieee1164) {
	if i < 0 || i >= int(v.width) {
		return
	}
	bit := uint64(1) << i
	for idx := range v.masks {
		v.masks[idx] &^= bit
	}
	v.masks[value] |= bit
}

// SetAll assigns value to every bit.
func (v *Vector) SetAll(value Ieee1164) {
	v.masks = [numValues]uint64{}
	v.masks[value] = widthMask(v.width)
}

// Resize changes the width. Growing fills the new upper bits with fill.
// Shrinking cuts the upper bits off and returns them as a separate vector;
// the second result reports whether such a part was produced.
func (v *Vector) Resize(width int, fill Ieee1164) (Vector, bool) {
	if err := checkWidth(width); err != nil {
		panic(err)
	}
	old := v.width
	nw := uint8(width)
	switch {
	case nw == old:
		return Vector{}, false
	case nw > old:
		grown := widthMask(nw) &^ widthMask(old)
		for idx := range v.masks {
			v.masks[idx] &^= grown
		}
		v.masks[fill] |= grown
		v.width = nw
		return Vector{}, false
	default:
		cut := Vector{width: old - nw}
		for idx := range v.masks {
			cut.masks[idx] = (v.masks[idx] & widthMask(old)) >> nw
			v.masks[idx] &= widthMask(nw)
		}
		v.width = nw
		return cut, true
	}
}

// SetWidth resizes the vector, filling new bits with U.
func (v *Vector) SetWidth(width int) {
	v.Resize(width, U)
}

// Contains reports whether at least one bit equals value.
func (v Vector) Contains(value Ieee1164) bool {
	return v.masks[value] != 0
}

// IsOnly reports whether every bit equals value.
func (v Vector) IsOnly(value Ieee1164) bool {
	return v.masks[value] == widthMask(v.width)
}

// HasUXZ reports whether any bit is U, X, Z, W or D.
func (v Vector) HasUXZ() bool {
	return v.masks[U]|v.masks[X]|v.masks[Z]|v.masks[W]|v.masks[D] != 0
}

// Is01 reports whether every bit is a strong 0 or 1.
func (v Vector) Is01() bool {
	return v.masks[S0]|v.masks[S1] == widthMask(v.width)
}

// Uint64 returns the unsigned value of the vector. Weak levels count as
// their logic value. It fails with ErrUndefined if any bit is U, X, Z, W or D.
func (v Vector) Uint64() (uint64, error) {
	if v.HasUXZ() {
		return 0, fmt.Errorf("%w: %s", ErrUndefined, v)
	}
	return v.masks[S1] | v.masks[H], nil
}

// SetUint64 replaces the content with value, keeping the width.
func (v *Vector) SetUint64(value uint64) error {
	nv, err := FromUint64(value, int(v.width))
	if err != nil {
		return err
	}
	*v = nv
	return nil
}

func (v Vector) sameWidth(o Vector) error {
	if v.width != o.width {
		return fmt.Errorf("%w: %d vs %d", ErrWidthMismatch, v.width, o.width)
	}
	return nil
}

// zip applies op bit by bit. Vectors made only of strong 0 and 1 take the
// word-wide fast path.
func (v Vector) zip(o Vector, op func(a, b Ieee1164) Ieee1164, fast func(a, b uint64) uint64) Vector {
	out := Vector{width: v.width}
	if fast != nil && v.Is01() && o.Is01() {
		one := fast(v.masks[S1], o.masks[S1]) & widthMask(v.width)
		out.masks[S1] = one
		out.masks[S0] = ^one & widthMask(v.width)
		return out
	}
	for i := 0; i < int(v.width); i++ {
		out.masks[op(v.at(i), o.at(i))] |= 1 << i
	}
	return out
}

// And is the bitwise IEEE 1164 AND of two vectors of equal width.
func (v Vector) And(o Vector) (Vector, error) {
	if err := v.sameWidth(o); err != nil {
		return Vector{}, err
	}
	return v.zip(o, Ieee1164.And, func(a, b uint64) uint64 { return a & b }), nil
}

// Or is the bitwise IEEE 1164 OR of two vectors of equal width.
func (v Vector) Or(o Vector) (Vector, error) {
	if err := v.sameWidth(o); err != nil {
		return Vector{}, err
	}
	return v.zip(o, Ieee1164.Or, func(a, b uint64) uint64 { return a | b }), nil
}

// Xor is the bitwise IEEE 1164 XOR of two vectors of equal width.
func (v Vector) Xor(o Vector) (Vector, error) {
	if err := v.sameWidth(o); err != nil {
		return Vector{}, err
	}
	return v.zip(o, Ieee1164.Xor, func(a, b uint64) uint64 { return a ^ b }), nil
}

// Not inverts every bit.
func (v Vector) Not() Vector {
	out := Vector{width: v.width}
	for i := 0; i < int(v.width); i++ {
		out.masks[v.at(i).Not()] |= 1 << i
	}
	return out
}

// Resolve combines two drivers bit by bit. Vectors of different widths
// cannot share a wire; the result is then all X in the receiver's width.
func (v Vector) Resolve(o Vector) Vector {
	if v.width != o.width {
		return Filled(X, int(v.width))
	}
	return v.zip(o, Ieee1164.Resolve, nil)
}

// Add returns the wrapping sum. If either operand has undefined bits the
// result is all U.
func (v Vector) Add(o Vector) (Vector, error) {
	if err := v.sameWidth(o); err != nil {
		return Vector{}, err
	}
	a, errA := v.Uint64()
	b, errB := o.Uint64()
	if errA != nil || errB != nil {
		return NewVector(int(v.width)), nil
	}
	sum, _ := FromUint64((a+b)&widthMask(v.width), int(v.width))
	return sum, nil
}

// Incr returns v+1, wrapping at the width. Undefined input gives all U.
func (v Vector) Incr() Vector {
	a, err := v.Uint64()
	if err != nil {
		return NewVector(int(v.width))
	}
	out, _ := FromUint64((a+1)&widthMask(v.width), int(v.width))
	return out
}

// Compare orders two fully defined vectors of equal width numerically.
func (v Vector) Compare(o Vector) (int, error) {
	if err := v.sameWidth(o); err != nil {
		return 0, err
	}
	a, err := v.Uint64()
	if err != nil {
		return 0, err
	}
	b, err := o.Uint64()
	if err != nil {
		return 0, err
	}
	switch {
	case a < b:
		return -1, nil
	case a > b:
		return 1, nil
	}
	return 0, nil
}

// Equal reports whether both vectors have the same width and bits.
func (v Vector) Equal(o Vector) bool {
	return v == o
}

// String renders the vector MSB first.
func (v Vector) String() string {
	var sb strings.Builder
	sb.Grow(int(v.width))
	for i := int(v.width) - 1; i >= 0; i-- {
		sb.WriteRune(v.at(i).Rune())
	}
	return sb.String()
}
