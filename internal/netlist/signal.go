package netlist

import (
	"fmt"
	"slices"
	"sync"

	"github.com/hdl-tools/logical/internal/logic"
)

// Updater is anything a circuit steps once per tick.
type Updater interface {
	Update()
}

// Resolver is a value type that knows how two drivers of one wire combine.
type Resolver[T any] interface {
	Resolve(T) T
}

// widther is implemented by values with a bit width, such as logic.Vector.
type widther interface {
	Width() int
}

// Signal connects ports that carry values of type T.
type Signal[T Resolver[T]] struct {
	mu      sync.Mutex
	drivers []*Port[T]
	readers []*Port[T]
}

// NewSignal returns a signal connected to the given ports.
func NewSignal[T Resolver[T]](ports ...*Port[T]) (*Signal[T], error) {
	s := &Signal[T]{}
	for _, p := range ports {
		if err := s.Connect(p); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Connect attaches a port. Output and InOut ports become drivers, Input and
// InOut ports become readers. A port can belong to one signal only, and all
// ports of a signal must have the same width when T has one.
func (s *Signal[T]) Connect(p *Port[T]) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkWidth(p); err != nil {
		return err
	}
	if !p.attach() {
		return ErrAlreadyConnected
	}
	if p.dir.Drives() {
		s.drivers = append(s.drivers, p)
	}
	if p.dir.Receives() {
		s.readers = append(s.readers, p)
	}
	return nil
}

func (s *Signal[T]) checkWidth(p *Port[T]) error {
	w, ok := any(p.load()).(widther)
	if !ok || w.Width() == 0 {
		return nil
	}
	for _, other := range slices.Concat(s.drivers, s.readers) {
		ow, ok := any(other.load()).(widther)
		if !ok || ow.Width() == 0 {
			continue
		}
		if ow.Width() != w.Width() {
			return fmt.Errorf("%w: port has %d bits, signal has %d", logic.ErrWidthMismatch, w.Width(), ow.Width())
		}
		return nil
	}
	return nil
}

// Disconnect detaches a port. It reports whether the port was part of the
// signal. A disconnected port keeps its last value.
func (s *Signal[T]) Disconnect(p *Port[T]) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	if i := slices.Index(s.drivers, p); i >= 0 {
		s.drivers = slices.Delete(s.drivers, i, i+1)
		found = true
	}
	if i := slices.Index(s.readers, p); i >= 0 {
		s.readers = slices.Delete(s.readers, i, i+1)
		found = true
	}
	if found {
		p.detach()
	}
	return found
}

// Len returns the number of connected ports. An InOut port counts once.
func (s *Signal[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.drivers)
	for _, r := range s.readers {
		if r.dir == Input {
			n++
		}
	}
	return n
}

// Update resolves all driver values and writes the result into every
// reader. Without drivers the readers keep their value.
func (s *Signal[T]) Update() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.drivers) == 0 {
		return
	}
	r := s.drivers[0].load()
	for _, d := range s.drivers[1:] {
		r = r.Resolve(d.load())
	}
	for _, p := range s.readers {
		p.store(r)
	}
}
