// Package models contains components above single gates: stimulus sources,
// probes, arithmetic blocks and memories.
package models

import (
	"fmt"

	"github.com/hdl-tools/logical/internal/logic"
	"github.com/hdl-tools/logical/internal/netlist"
)

// Switch is a manually operated source. It drives Out with whatever value
// was last set.
type Switch[T any] struct {
	Out *netlist.Port[T]
}

// NewSwitch returns a switch driving initial.
func NewSwitch[T any](initial T) *Switch[T] {
	return &Switch[T]{Out: netlist.NewOutput(initial)}
}

// Set changes the driven value.
func (s *Switch[T]) Set(v T) {
	_ = s.Out.Write(v)
}

// Value returns the driven value.
func (s *Switch[T]) Value() T {
	return s.Out.Value()
}

// Led is a probe: it shows the value its signal writes into In.
type Led[T any] struct {
	In *netlist.Port[T]
}

// NewLed returns a probe showing initial until its signal first updates.
func NewLed[T any](initial T) *Led[T] {
	return &Led[T]{In: netlist.NewInput(initial)}
}

// Value returns the last value seen.
func (l *Led[T]) Value() T {
	return l.In.Value()
}

// VectorInput is a switch bank driving a fixed-width vector.
type VectorInput struct {
	Out *netlist.Port[logic.Vector]
}

// NewVectorInput returns a vector source of the given width, initially
// all U.
func NewVectorInput(width int) (*VectorInput, error) {
	if width < 1 || width > logic.MaxWidth {
		return nil, fmt.Errorf("%w: %d", logic.ErrInvalidWidth, width)
	}
	return &VectorInput{Out: netlist.NewOutput(logic.NewVector(width))}, nil
}

// NewVectorInputOf returns a vector source driving v.
func NewVectorInputOf(v logic.Vector) *VectorInput {
	return &VectorInput{Out: netlist.NewOutput(v)}
}

// Set drives v. The width cannot change once the source is wired.
func (in *VectorInput) Set(v logic.Vector) error {
	if cur := in.Out.Value(); cur.Width() != v.Width() {
		return fmt.Errorf("%w: %d vs %d", logic.ErrWidthMismatch, v.Width(), cur.Width())
	}
	return in.Out.Write(v)
}

// SetUint64 drives the binary representation of n.
func (in *VectorInput) SetUint64(n uint64) error {
	v, err := logic.FromUint64(n, in.Out.Value().Width())
	if err != nil {
		return err
	}
	return in.Out.Write(v)
}
