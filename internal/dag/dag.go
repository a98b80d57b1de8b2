// Package dag orders values by their dependencies.
//
// Sort is stable: a node moves ahead of nodes added before it only when it is
// one of their dependencies, directly or transitively.
package dag

import (
	"fmt"
	"slices"
	"strings"
)

// Graph is a dependency graph over values keyed by name.
type Graph[T any] struct {
	values map[string]T
	order  []string            // insertion order
	deps   map[string][]string // node -> nodes it depends on
}

// New creates an empty graph.
func New[T any]() *Graph[T] {
	return &Graph[T]{
		values: make(map[string]T),
		deps:   make(map[string][]string),
	}
}

// Add adds a node, or replaces the value of an existing one.
func (g *Graph[T]) Add(id string, v T) {
	if _, ok := g.values[id]; !ok {
		g.order = append(g.order, id)
	}
	g.values[id] = v
}

// Has reports whether id was added.
func (g *Graph[T]) Has(id string) bool {
	_, ok := g.values[id]
	return ok
}

// Len returns the number of nodes.
func (g *Graph[T]) Len() int {
	return len(g.order)
}

// DependOn records that id must come after dep. Both nodes must exist.
func (g *Graph[T]) DependOn(id, dep string) error {
	if !g.Has(id) {
		return fmt.Errorf("node %q does not exist", id)
	}
	if !g.Has(dep) {
		return fmt.Errorf("node %q does not exist", dep)
	}
	if id == dep {
		return fmt.Errorf("self-loop detected: %s", id)
	}
	if !slices.Contains(g.deps[id], dep) {
		g.deps[id] = append(g.deps[id], dep)
	}
	return nil
}

// Dependencies returns what id depends on, in the order they were recorded.
func (g *Graph[T]) Dependencies(id string) []string {
	return slices.Clone(g.deps[id])
}

// CycleError reports a dependency cycle. Path starts and ends on the same node.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "cycle detected: " + strings.Join(e.Path, " -> ")
}

const (
	unvisited = iota
	visiting
	done
)

// Sort returns the values with every dependency ahead of its dependents.
// A cycle yields *CycleError.
func (g *Graph[T]) Sort() ([]T, error) {
	state := make(map[string]int, len(g.order))
	out := make([]T, 0, len(g.order))
	var stack []string

	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case done:
			return nil
		case visiting:
			start := slices.Index(stack, id)
			path := append(slices.Clone(stack[start:]), id)
			return &CycleError{Path: path}
		}

		state[id] = visiting
		stack = append(stack, id)
		for _, dep := range g.deps[id] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = done

		out = append(out, g.values[id])
		return nil
	}

	for _, id := range g.order {
		if err := visit(id); err != nil {
			return nil, err
		}
	}
	return out, nil
}
