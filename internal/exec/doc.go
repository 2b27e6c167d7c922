// Package exec evaluates finalized node graphs.
//
// Evaluation is a memoized recursive solve: each node is computed at most once
// per run, after the producers of its connected inputs. Values crossing a
// connection are broadcast from the producer's declared output type to the
// consumer's declared input type. Literal input values are trusted and passed
// through unchanged. Any failure aborts the run and no partial results are
// returned.
package exec
