package dag

import (
	"errors"
	"fmt"
)

// ErrCycle is returned by DetectCycles when the graph is not acyclic.
var ErrCycle = errors.New("cycle detected")

// CycleError names the vertex at which a cycle was closed.
type CycleError[K comparable] struct {
	Node K
}

func (e *CycleError[K]) Error() string {
	return fmt.Sprintf("cycle detected involving node '%v'", e.Node)
}

func (e *CycleError[K]) Unwrap() error {
	return ErrCycle
}

// New creates and returns an initialized, empty Graph.
func New[K comparable]() *Graph[K] {
	return &Graph[K]{
		nodes: make(map[K]*node[K]),
	}
}

// AddNode adds a vertex with the given ID. Adding an existing ID does nothing.
func (g *Graph[K]) AddNode(id K) {
	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = &node[K]{id: id}
	g.order = append(g.order, id)
}

// Len returns the number of vertices.
func (g *Graph[K]) Len() int {
	return len(g.nodes)
}

// AddEdge records that `from` depends on `to`. Both vertices must exist.
// Self edges are accepted and reported as cycles by DetectCycles. Repeated
// edges are stored once.
func (g *Graph[K]) AddEdge(from, to K) error {
	fromNode, ok := g.nodes[from]
	if !ok {
		return fmt.Errorf("source node not found: %v", from)
	}
	if _, ok := g.nodes[to]; !ok {
		return fmt.Errorf("destination node not found: %v", to)
	}

	for _, d := range fromNode.deps {
		if d == to {
			return nil
		}
	}
	fromNode.deps = append(fromNode.deps, to)
	return nil
}

// DetectCycles checks the graph for any cycles. It returns a *CycleError,
// which wraps ErrCycle, naming the first vertex found to close a cycle.
func (g *Graph[K]) DetectCycles() error {
	// Classic three-colour depth-first search:
	// white: unvisited, gray: on the current path, black: fully explored.
	const (
		white = iota
		gray
		black
	)
	color := make(map[K]int, len(g.nodes))

	var visit func(n *node[K]) error
	visit = func(n *node[K]) error {
		switch color[n.id] {
		case black:
			return nil
		case gray:
			return &CycleError[K]{Node: n.id}
		}

		color[n.id] = gray
		for _, dep := range n.deps {
			if err := visit(g.nodes[dep]); err != nil {
				return err
			}
		}
		color[n.id] = black
		return nil
	}

	for _, id := range g.order {
		if err := visit(g.nodes[id]); err != nil {
			return err
		}
	}
	return nil
}
