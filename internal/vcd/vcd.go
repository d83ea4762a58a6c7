// Package vcd records simulation values and writes them as a Value Change
// Dump (IEEE 1364) that waveform viewers such as GTKWave can display.
//
// A Dumper samples named wires and vectors at the current timestamp; Tick
// moves time forward by one picosecond. Only changes are recorded, so
// sampling a signal that kept its value costs nothing in the output.
package vcd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/hdl-tools/logical/internal/logic"
	"github.com/hdl-tools/logical/internal/netlist"
)

const (
	firstIdent = '!'
	lastIdent  = '~'
)

var (
	// ErrIdentifiersExhausted is returned when a dumper has no single
	// character identifier left for a new variable.
	ErrIdentifiersExhausted = errors.New("vcd: ran out of identifiers")

	// ErrWidthChanged is returned when a name is sampled with a different
	// width than it was declared with.
	ErrWidthChanged = errors.New("vcd: variable width changed")

	// ErrKindChanged is returned when a name declared as a wire is
	// sampled as a vector, or the other way round.
	ErrKindChanged = errors.New("vcd: variable kind changed")
)

type varKind string

const (
	kindWire varKind = "wire"
	kindReg  varKind = "reg"
)

type variable struct {
	kind  varKind
	width int
	ident byte
	name  string
	last  string
}

type change struct {
	v     *variable
	value string
}

// Dumper collects value changes for one module scope. It is not safe for
// concurrent use.
type Dumper struct {
	// Date is written into the header. New sets it to the current time.
	Date time.Time

	module  string
	now     uint64
	next    byte
	vars    []*variable
	byName  map[string]*variable
	changes map[uint64][]change
	times   []uint64
}

// New returns a dumper for a module scope.
func New(module string) *Dumper {
	return &Dumper{
		Date:    time.Now(),
		module:  module,
		next:    firstIdent,
		byName:  make(map[string]*variable),
		changes: make(map[uint64][]change),
	}
}

// Now returns the current timestamp in picoseconds.
func (d *Dumper) Now() uint64 { return d.now }

// Tick advances the timestamp by one.
func (d *Dumper) Tick() { d.now++ }

func (d *Dumper) lookup(name string, kind varKind, width int) (*variable, error) {
	if v, ok := d.byName[name]; ok {
		if v.kind != kind {
			return nil, fmt.Errorf("%w: %s declared as %s, sampled as %s", ErrKindChanged, name, v.kind, kind)
		}
		if v.width != width {
			return nil, fmt.Errorf("%w: %s declared with %d bits, sampled with %d", ErrWidthChanged, name, v.width, width)
		}
		return v, nil
	}
	if d.next > lastIdent {
		return nil, fmt.Errorf("%w: cannot declare %s", ErrIdentifiersExhausted, name)
	}
	v := &variable{kind: kind, width: width, ident: d.next, name: name}
	d.next++
	d.vars = append(d.vars, v)
	d.byName[name] = v
	return v, nil
}

func (d *Dumper) record(v *variable, value string) {
	if v.last == value {
		return
	}
	v.last = value
	if _, ok := d.changes[d.now]; !ok {
		d.times = append(d.times, d.now)
	}
	d.changes[d.now] = append(d.changes[d.now], change{v: v, value: value})
}

// Wire samples a single-bit value.
func (d *Dumper) Wire(name string, value logic.Ieee1164) error {
	v, err := d.lookup(name, kindWire, 1)
	if err != nil {
		return err
	}
	d.record(v, string(valueRune(value)))
	return nil
}

// Vector samples a multi-bit value, declared as a register.
func (d *Dumper) Vector(name string, value logic.Vector) error {
	v, err := d.lookup(name, kindReg, value.Width())
	if err != nil {
		return err
	}
	var sb strings.Builder
	sb.WriteByte('b')
	for i := value.Width() - 1; i >= 0; i-- {
		bit, _ := value.Get(i)
		sb.WriteRune(valueRune(bit))
	}
	d.record(v, sb.String())
	return nil
}

// Ports samples every port of a component. Names are prefixed with
// prefix and a dot unless prefix is empty.
func (d *Dumper) Ports(prefix string, ports []netlist.Named[logic.Ieee1164]) error {
	for _, p := range ports {
		name := p.Name
		if prefix != "" {
			name = prefix + "." + p.Name
		}
		if err := d.Wire(name, p.Port.Value()); err != nil {
			return err
		}
	}
	return nil
}

// valueRune maps IEEE 1164 values to the characters GTKWave understands.
func valueRune(v logic.Ieee1164) rune {
	switch v {
	case logic.S0:
		return '0'
	case logic.S1:
		return '1'
	case logic.X:
		return 'x'
	case logic.Z:
		return 'z'
	case logic.U:
		return 'u'
	case logic.W:
		return 'w'
	case logic.L:
		return 'l'
	case logic.H:
		return 'h'
	default:
		return '-'
	}
}

func (c change) line() string {
	if c.v.kind == kindWire {
		return c.value + string(c.v.ident)
	}
	return c.value + " " + string(c.v.ident)
}

// WriteTo writes the complete dump. It implements io.WriterTo.
func (d *Dumper) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)

	fmt.Fprintf(bw, "$date\n    %s\n$end\n", d.Date.Format(time.RFC1123))
	fmt.Fprintf(bw, "$version\n    logical VCD dumper\n$end\n")
	fmt.Fprintf(bw, "$timescale 1ps $end\n")
	fmt.Fprintf(bw, "$scope module %s $end\n", d.module)
	for _, v := range d.vars {
		fmt.Fprintf(bw, "$var %s %d %c %s $end\n", v.kind, v.width, v.ident, v.name)
	}
	fmt.Fprintf(bw, "$upscope $end\n")
	fmt.Fprintf(bw, "$enddefinitions $end\n")

	fmt.Fprintf(bw, "#0\n$dumpvars\n")
	for _, c := range d.changes[0] {
		fmt.Fprintln(bw, c.line())
	}
	fmt.Fprintf(bw, "$end\n")

	last := uint64(0)
	for _, t := range d.times {
		if t == 0 {
			continue
		}
		fmt.Fprintf(bw, "#%d\n", t)
		for _, c := range d.changes[t] {
			fmt.Fprintln(bw, c.line())
		}
		last = t
	}
	if d.now > last {
		fmt.Fprintf(bw, "#%d\n", d.now)
	}

	err := bw.Flush()
	return cw.n, err
}

// Dump writes the dump to a file, replacing it if it exists.
func (d *Dumper) Dump(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := d.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
