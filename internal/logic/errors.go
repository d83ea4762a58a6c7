package logic

import "errors"

var (
	// ErrInvalidChar is returned when a character is not an IEEE 1164 value.
	ErrInvalidChar = errors.New("invalid ieee1164 character")

	// ErrInvalidWidth is returned for widths outside 1..MaxWidth.
	ErrInvalidWidth = errors.New("invalid vector width")

	// ErrWidthMismatch is returned when two operands have different widths.
	ErrWidthMismatch = errors.New("width mismatch")

	// ErrOverflow is returned when an integer does not fit the target width.
	ErrOverflow = errors.New("value does not fit width")

	// ErrUndefined is returned when a numeric view is requested of a value
	// that contains U, X, Z, W or D bits.
	ErrUndefined = errors.New("value has undefined bits")
)
