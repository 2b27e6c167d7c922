package graph

import (
	"fmt"
	"math/rand/v2"
	"unique"
)

const (
	idLength   = 16
	idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// NodeID is an interned node identifier. Equal identifiers compare equal with
// == at pointer cost. The zero NodeID is not a valid identifier.
type NodeID struct {
	h unique.Handle[string]
}

var (
	// InputID identifies the implicit graph-input source.
	InputID = NewID("_input")
	// OutputID identifies the implicit graph-output sink.
	OutputID = NewID("_output")
)

// NewID interns s as a NodeID.
func NewID(s string) NodeID {
	return NodeID{h: unique.Make(s)}
}

// IsZero reports whether id is the zero NodeID.
func (id NodeID) IsZero() bool {
	return id == NodeID{}
}

func (id NodeID) String() string {
	if id.IsZero() {
		return ""
	}
	return id.h.Value()
}

// MarshalText implements encoding.TextMarshaler.
func (id NodeID) MarshalText() ([]byte, error) {
	if id.IsZero() {
		return nil, fmt.Errorf("cannot marshal empty node id")
	}
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *NodeID) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		return fmt.Errorf("empty node id")
	}
	*id = NewID(string(text))
	return nil
}

// randomID draws a 16-character alphanumeric identifier.
func randomID(rng *rand.Rand) string {
	b := make([]byte, idLength)
	for i := range b {
		b[i] = idAlphabet[rng.IntN(len(idAlphabet))]
	}
	return string(b)
}
