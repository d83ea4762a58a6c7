package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownTarget is returned when a requested or referenced target does
// not exist.
var ErrUnknownTarget = errors.New("unknown target")

// ErrCycle is returned when targets depend on each other in a loop.
var ErrCycle = errors.New("dependency cycle")

// Taskfile is the complete set of targets known to the runner.
type Taskfile struct {
	// Targets maps target names to their definitions.
	Targets map[string]*Target `json:"targets" yaml:"targets"`

	// Default is run when no target is named on the command line.
	Default string `json:"default,omitempty" yaml:"default,omitempty"`
}

// NewTaskfile returns an empty Taskfile.
func NewTaskfile() *Taskfile {
	return &Taskfile{Targets: make(map[string]*Target)}
}

// Add registers a target, replacing any target with the same name.
func (tf *Taskfile) Add(t *Target) {
	if tf.Targets == nil {
		tf.Targets = make(map[string]*Target)
	}
	tf.Targets[t.Name] = t
}

// Lookup returns the named target.
func (tf *Taskfile) Lookup(name string) (*Target, error) {
	t, ok := tf.Targets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownTarget, name, strings.Join(tf.Names(), ", "))
	}
	return t, nil
}

// Names returns all target names in sorted order.
func (tf *Taskfile) Names() []string {
	names := make([]string, 0, len(tf.Targets))
	for name := range tf.Targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks every target, every dependency reference and the
// default target, and rejects dependency cycles.
func (tf *Taskfile) Validate() error {
	for _, name := range tf.Names() {
		t := tf.Targets[name]
		if t.Name != name {
			return fmt.Errorf("target registered as %q is named %q", name, t.Name)
		}
		if err := t.Validate(); err != nil {
			return err
		}
		for _, dep := range t.Deps {
			if _, ok := tf.Targets[dep]; !ok {
				return fmt.Errorf("target %q: %w: dependency %q", name, ErrUnknownTarget, dep)
			}
		}
	}
	if tf.Default != "" {
		if _, ok := tf.Targets[tf.Default]; !ok {
			return fmt.Errorf("default target: %w: %q", ErrUnknownTarget, tf.Default)
		}
	}
	_, err := tf.Plan(tf.Names()...)
	return err
}

// Plan returns the targets to execute for the given names, in order.
//
// Dependencies come before their dependents, in declaration order, depth
// first. Every target appears at most once even if several requested
// targets share it. With no names the default target is planned.
func (tf *Taskfile) Plan(names ...string) ([]*Target, error) {
	if len(names) == 0 {
		if tf.Default == "" {
			return nil, fmt.Errorf("no target given and no default target defined")
		}
		names = []string{tf.Default}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(tf.Targets))
	var plan []*Target
	var path []string

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w: %s -> %s", ErrCycle, strings.Join(path, " -> "), name)
		}
		t, err := tf.Lookup(name)
		if err != nil {
			return err
		}
		state[name] = visiting
		path = append(path, name)
		for _, dep := range t.Deps {
			if err := visit(dep); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[name] = done
		plan = append(plan, t)
		return nil
	}

	for _, name := range names {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return plan, nil
}

// Merge overlays other onto tf. Targets in other replace targets with the
// same name wholesale; a non-empty other.Default replaces tf.Default.
func (tf *Taskfile) Merge(other *Taskfile) {
	if other == nil {
		return
	}
	for _, t := range other.Targets {
		tf.Add(t)
	}
	if other.Default != "" {
		tf.Default = other.Default
	}
}
