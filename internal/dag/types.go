package dag

// Graph is a collection of vertices and their dependencies. It is not safe for
// concurrent mutation.
type Graph[K comparable] struct {
	// nodes stores all vertices, keyed by their ID.
	nodes map[K]*node[K]
	// order remembers insertion order so traversals are deterministic.
	order []K
}

// node represents a single vertex in the graph. It is un-exported to
// enforce interaction with the graph via the public API.
type node[K comparable] struct {
	id K
	// deps holds the vertices this one depends on, in edge insertion order.
	deps []K
}
