package netlist

import (
	"fmt"
	"sync"
)

// Direction tells a Signal whether a port drives the wire, reads it, or both.
type Direction uint8

const (
	// Input ports receive the resolved value of their signal.
	Input Direction = iota + 1
	// Output ports drive their signal.
	Output
	// InOut ports drive their signal and receive the resolved value.
	InOut
)

// String implements fmt.Stringer.
func (d Direction) String() string {
	switch d {
	case Input:
		return "in"
	case Output:
		return "out"
	case InOut:
		return "inout"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// Drives reports whether a port of this direction contributes to its signal.
func (d Direction) Drives() bool { return d == Output || d == InOut }

// Receives reports whether a port of this direction is written by its signal.
func (d Direction) Receives() bool { return d == Input || d == InOut }

// Port holds one value of a component's interface. Its direction is fixed
// at construction. All methods are safe for concurrent use.
type Port[T any] struct {
	mu        sync.RWMutex
	value     T
	dir       Direction
	connected bool
}

// NewPort creates a port with an initial value. It panics on an unknown
// direction.
func NewPort[T any](dir Direction, initial T) *Port[T] {
	if dir != Input && dir != Output && dir != InOut {
		panic(fmt.Sprintf("netlist: invalid port %s", dir))
	}
	return &Port[T]{value: initial, dir: dir}
}

// NewInput is shorthand for NewPort(Input, initial).
func NewInput[T any](initial T) *Port[T] { return NewPort(Input, initial) }

// NewOutput is shorthand for NewPort(Output, initial).
func NewOutput[T any](initial T) *Port[T] { return NewPort(Output, initial) }

// NewInOut is shorthand for NewPort(InOut, initial).
func NewInOut[T any](initial T) *Port[T] { return NewPort(InOut, initial) }

// Direction returns the direction the port was created with.
func (p *Port[T]) Direction() Direction { return p.dir }

// Read returns the current value. Output ports cannot be read.
func (p *Port[T]) Read() (T, error) {
	if p.dir == Output {
		var zero T
		return zero, fmt.Errorf("%w: read from %s port", ErrDirection, p.dir)
	}
	return p.load(), nil
}

// Write replaces the current value. Input ports cannot be written.
func (p *Port[T]) Write(v T) error {
	if p.dir == Input {
		return fmt.Errorf("%w: write to %s port", ErrDirection, p.dir)
	}
	p.store(v)
	return nil
}

// Value returns the current value regardless of direction. It is meant for
// probes and tracers that observe a circuit from outside.
func (p *Port[T]) Value() T { return p.load() }

// Connected reports whether the port is attached to a signal.
func (p *Port[T]) Connected() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.connected
}

func (p *Port[T]) load() T {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.value
}

func (p *Port[T]) store(v T) {
	p.mu.Lock()
	p.value = v
	p.mu.Unlock()
}

// attach marks the port as connected. It fails if it already was.
func (p *Port[T]) attach() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.connected {
		return false
	}
	p.connected = true
	return true
}

func (p *Port[T]) detach() {
	p.mu.Lock()
	p.connected = false
	p.mu.Unlock()
}

// Named pairs a port with the name a component gives it.
type Named[T any] struct {
	Name string
	Port *Port[T]
}
