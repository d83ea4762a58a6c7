package logic

import (
	"fmt"
	"math/bits"
)

// Integer is an unsigned value of a fixed bit width. Drivers of an integer
// wire are OR-ed together.
type Integer struct {
	value uint64
	width uint8
}

// NewInteger returns a zero Integer of the given width.
func NewInteger(width int) (Integer, error) {
	if err := checkWidth(width); err != nil {
		return Integer{}, err
	}
	return Integer{width: uint8(width)}, nil
}

// IntegerOf returns an Integer holding value. It fails with ErrOverflow if
// value needs more than width bits.
func IntegerOf(value uint64, width int) (Integer, error) {
	if err := checkWidth(width); err != nil {
		return Integer{}, err
	}
	if bits.Len64(value) > width {
		return Integer{}, fmt.Errorf("%w: %d in %d bits", ErrOverflow, value, width)
	}
	return Integer{value: value, width: uint8(width)}, nil
}

// Width returns the bit width. The zero Integer has width 0.
func (i Integer) Width() int { return int(i.width) }

// Uint64 returns the stored value.
func (i Integer) Uint64() uint64 { return i.value }

// SetWidth changes the width, truncating the value when shrinking.
func (i *Integer) SetWidth(width int) error {
	if err := checkWidth(width); err != nil {
		return err
	}
	i.width = uint8(width)
	i.value &= widthMask(i.width)
	return nil
}

// Combine ORs two integers of the same width.
func (i Integer) Combine(o Integer) (Integer, error) {
	if i.width != o.width {
		return Integer{}, fmt.Errorf("%w: %d vs %d", ErrWidthMismatch, i.width, o.width)
	}
	return Integer{value: i.value | o.value, width: i.width}, nil
}

// Resolve is Combine for wires whose widths were checked when they were
// connected. On a mismatch the receiver is returned unchanged.
func (i Integer) Resolve(o Integer) Integer {
	r, err := i.Combine(o)
	if err != nil {
		return i
	}
	return r
}

func (i Integer) String() string {
	return fmt.Sprintf("%d'd%d", i.width, i.value)
}
