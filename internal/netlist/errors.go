package netlist

import "errors"

var (
	// ErrDirection is returned when a port is read or written against its
	// direction.
	ErrDirection = errors.New("port direction does not allow this access")

	// ErrAlreadyConnected is returned when a port that already belongs to a
	// signal is connected again.
	ErrAlreadyConnected = errors.New("port is already connected")
)
