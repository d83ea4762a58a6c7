// Package logic implements the value types of the digital network simulator.
//
// Ieee1164 is the nine-valued logic of the IEEE 1164 standard: uninitialized,
// strong and weak drives of 0, 1 and unknown, high impedance and don't care.
// Value is the underlying three-valued logic (0, 1, unknown) that a strong or
// weak drive carries.
//
// Vector packs up to 64 Ieee1164 bits into one bitmask per logic value, so
// that operations on fully defined (0/1) vectors reduce to machine word
// arithmetic. Integer is a plain unsigned value with a bit width, resolved by
// OR-ing drivers together.
//
// All types implement Resolve, which describes how two values driven onto the
// same wire combine into one. Resolve is commutative.
package logic
