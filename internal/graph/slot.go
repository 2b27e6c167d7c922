package graph

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// SlotState tells where an input slot gets its value from.
type SlotState int

const (
	// Unset slots have no value. Evaluating them fails.
	Unset SlotState = iota
	// Connected slots receive their value through an incoming connection.
	Connected
	// Literal slots carry a fixed value baked into the node.
	Literal
)

func (s SlotState) String() string {
	switch s {
	case Unset:
		return "None"
	case Connected:
		return "Connected"
	case Literal:
		return "Value"
	}
	return fmt.Sprintf("SlotState(%d)", int(s))
}

// SlotValue is the state of one input slot. Exactly one of its variants holds.
type SlotValue struct {
	state SlotState
	value cty.Value
}

// UnsetSlot returns an Unset slot value.
func UnsetSlot() SlotValue { return SlotValue{state: Unset} }

// ConnectedSlot returns a Connected slot value.
func ConnectedSlot() SlotValue { return SlotValue{state: Connected} }

// LiteralSlot returns a slot holding v.
func LiteralSlot(v cty.Value) SlotValue { return SlotValue{state: Literal, value: v} }

// State returns the variant held by s.
func (s SlotValue) State() SlotState { return s.state }

// Value returns the literal held by s. ok is false for other variants.
func (s SlotValue) Value() (v cty.Value, ok bool) {
	if s.state != Literal {
		return cty.NilVal, false
	}
	return s.value, true
}

// Equal reports whether two slot values hold the same variant and literal.
func (s SlotValue) Equal(o SlotValue) bool {
	if s.state != o.state {
		return false
	}
	if s.state != Literal {
		return true
	}
	return valuesEqual(s.value, o.value)
}

func (s SlotValue) String() string {
	if s.state == Literal {
		return fmt.Sprintf("Value(%s)", s.value.GoString())
	}
	return s.state.String()
}

// MarshalJSON encodes the slot as "Connected", "None" or {"Value": v}.
func (s SlotValue) MarshalJSON() ([]byte, error) {
	switch s.state {
	case Unset, Connected:
		return sonic.ConfigStd.Marshal(s.state.String())
	case Literal:
		v, err := encodeValue(s.value)
		if err != nil {
			return nil, fmt.Errorf("encoding literal slot: %w", err)
		}
		return sonic.ConfigStd.Marshal(map[string]json.RawMessage{"Value": v})
	}
	return nil, fmt.Errorf("invalid slot state %d", int(s.state))
}

// UnmarshalJSON decodes the forms produced by MarshalJSON.
func (s *SlotValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var tag string
		if err := sonic.ConfigStd.Unmarshal(data, &tag); err != nil {
			return err
		}
		switch tag {
		case "None":
			*s = UnsetSlot()
		case "Connected":
			*s = ConnectedSlot()
		default:
			return fmt.Errorf("unknown slot value %q", tag)
		}
		return nil
	}

	var tagged map[string]json.RawMessage
	if err := sonic.ConfigStd.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("slot value must be \"Connected\", \"None\" or {\"Value\": ...}: %w", err)
	}
	raw, ok := tagged["Value"]
	if !ok || len(tagged) != 1 {
		return fmt.Errorf("slot value object must have the single key \"Value\"")
	}
	v, err := decodeValue(raw)
	if err != nil {
		return err
	}
	*s = LiteralSlot(v)
	return nil
}

func encodeValue(v cty.Value) (json.RawMessage, error) {
	if isNilValue(v) {
		return json.RawMessage("null"), nil
	}
	return ctyjson.SimpleJSONValue{Value: v}.MarshalJSON()
}

func decodeValue(raw json.RawMessage) (cty.Value, error) {
	var sv ctyjson.SimpleJSONValue
	if err := sv.UnmarshalJSON(raw); err != nil {
		return cty.NilVal, fmt.Errorf("decoding value: %w", err)
	}
	return sv.Value, nil
}

// valuesEqual compares values by their persisted form, which is what
// survives a round trip.
func valuesEqual(a, b cty.Value) bool {
	if isNilValue(a) || isNilValue(b) {
		return isNilValue(a) && isNilValue(b)
	}
	ja, errA := encodeValue(a)
	jb, errB := encodeValue(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(ja, jb)
}

func isNilValue(v cty.Value) bool {
	return v.Type() == cty.NilType
}
