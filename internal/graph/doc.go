// Package graph is the authoring model of a node graph and its finalizer.
//
// A Graph is a mutable set of nodes, keyed by interned NodeIDs, and the
// directed Connections between their slots. Every graph starts with two
// reserved nodes: InputID, an implicit source of run-context information, and
// OutputID, an implicit sink with a single input slot.
//
// Authoring is purely structural. Insert and Connect never consult the node
// type catalog, so several malformed nodes can be authored before a single
// validation pass. Finalize resolves every node against a catalog, checks slot
// arity and broadcast compatibility of every connection, rejects cycles, and
// returns an immutable FinalizedGraph ready for evaluation.
//
// # Single producer per input
//
// An input address accepts at most one connection. Connect refuses a second
// producer instead of silently shadowing the first one, and the persisted form
// is rejected on load when it carries two connections into the same input.
package graph
