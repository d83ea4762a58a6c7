package logic

// Value is three-valued logic: Zero, One or Unknown.
// It is the payload of a strong or weak Ieee1164 drive.
type Value uint8

const (
	// ValueZero is a logical 0.
	ValueZero Value = iota
	// ValueOne is a logical 1.
	ValueOne
	// ValueUnknown is a conflicting or undetermined value.
	ValueUnknown
)

// String renders the value as '0', '1' or 'U'.
func (v Value) String() string {
	switch v {
	case ValueZero:
		return "0"
	case ValueOne:
		return "1"
	default:
		return "U"
	}
}

// And returns 0 if either side is 0, 1 if both are 1, otherwise Unknown.
func (v Value) And(o Value) Value {
	switch {
	case v == ValueZero || o == ValueZero:
		return ValueZero
	case v == ValueOne && o == ValueOne:
		return ValueOne
	default:
		return ValueUnknown
	}
}

// Or returns 1 if either side is 1, 0 if both are 0, otherwise Unknown.
func (v Value) Or(o Value) Value {
	switch {
	case v == ValueOne || o == ValueOne:
		return ValueOne
	case v == ValueZero && o == ValueZero:
		return ValueZero
	default:
		return ValueUnknown
	}
}

// Xor is Unknown if either side is Unknown.
func (v Value) Xor(o Value) Value {
	switch {
	case v == ValueUnknown || o == ValueUnknown:
		return ValueUnknown
	case v == o:
		return ValueZero
	default:
		return ValueOne
	}
}

// Not inverts 0 and 1 and keeps Unknown.
func (v Value) Not() Value {
	switch v {
	case ValueZero:
		return ValueOne
	case ValueOne:
		return ValueZero
	default:
		return ValueUnknown
	}
}

// Resolve keeps equal values and turns any disagreement into Unknown.
func (v Value) Resolve(o Value) Value {
	if v == o {
		return v
	}
	return ValueUnknown
}
