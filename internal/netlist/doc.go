// Package netlist wires components together.
//
// A Port is one typed value on a component's boundary. A Signal is a wire:
// on every Update it resolves the values of all ports that drive it and
// writes the result into all ports that read from it. Anything that can be
// stepped by a circuit implements Updater.
//
// Ports belong to at most one signal. Signals hold strong references to
// their ports; a port leaves a signal only through Disconnect.
package netlist
