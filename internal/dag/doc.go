// Package dag provides the dependency graph used by the finalizer to reject
// cyclic node graphs. Vertices are identified by any comparable key and edges
// point from a dependent to the vertex it depends on.
package dag
