// Package circuit steps a network of components and signals.
package circuit

import "github.com/hdl-tools/logical/internal/netlist"

// Circuit is an ordered list of updaters. One tick updates every member
// once, in the order they were added. Values propagate one hop per tick,
// so a network of depth n needs n ticks to settle.
type Circuit struct {
	updaters []netlist.Updater
	ticks    uint64
}

// New returns a circuit containing the given updaters.
func New(updaters ...netlist.Updater) *Circuit {
	c := &Circuit{}
	c.Add(updaters...)
	return c
}

// Add appends updaters. Nil entries are skipped.
func (c *Circuit) Add(updaters ...netlist.Updater) {
	for _, u := range updaters {
		if u != nil {
			c.updaters = append(c.updaters, u)
		}
	}
}

// Len returns the number of updaters.
func (c *Circuit) Len() int { return len(c.updaters) }

// Ticks returns how many ticks have run.
func (c *Circuit) Ticks() uint64 { return c.ticks }

// Tick updates every member once.
func (c *Circuit) Tick() {
	for _, u := range c.updaters {
		u.Update()
	}
	c.ticks++
}

// Run ticks n times.
func (c *Circuit) Run(n int) {
	for range n {
		c.Tick()
	}
}

// Update implements netlist.Updater so circuits can be nested.
func (c *Circuit) Update() { c.Tick() }
