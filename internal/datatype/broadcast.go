package datatype

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/osmium/internal/runctx"
	"github.com/zclconf/go-cty/cty"
)

var (
	// ErrCannotBroadcast means the pair lies outside the Broadcasts relation.
	// Finalize rejects such connections, so seeing it at run time is an
	// internal invariant breach.
	ErrCannotBroadcast = errors.New("can not broadcast")

	// ErrInvalidValue means a value does not have the shape of its declared type.
	ErrInvalidValue = errors.New("can not turn value into concrete data type")
)

// BroadcastError describes a failed coercion between two data types.
type BroadcastError struct {
	From, To DataType
	Err      error
}

func (e *BroadcastError) Error() string {
	if errors.Is(e.Err, ErrCannotBroadcast) {
		return fmt.Sprintf("can not broadcast %s to %s", e.From, e.To)
	}
	return fmt.Sprintf("broadcasting %s to %s: %v", e.From, e.To, e.Err)
}

func (e *BroadcastError) Unwrap() error {
	return e.Err
}

// Broadcast coerces v from one data type into another. Textures are sized by
// the run context. Identity pairs return v unchanged without inspecting it.
func Broadcast(v cty.Value, from, to DataType, rc runctx.Context) (cty.Value, error) {
	if !Broadcasts(from, to) {
		return cty.NilVal, &BroadcastError{From: from, To: to, Err: ErrCannotBroadcast}
	}
	if from == to {
		return v, nil
	}

	out, err := coerce(v, from, to, rc)
	if err != nil {
		return cty.NilVal, &BroadcastError{From: from, To: to, Err: err}
	}
	return out, nil
}

func coerce(v cty.Value, from, to DataType, rc runctx.Context) (cty.Value, error) {
	switch from {
	case Scalar:
		s, err := ScalarOf(v)
		if err != nil {
			return cty.NilVal, err
		}
		c := Channel(s)
		px := Pixel{c, c, c, 255}
		switch to {
		case Vec2:
			return VecValue(s, s), nil
		case Vec3:
			return VecValue(s, s, s), nil
		case Color:
			return ColorValue(px), nil
		case Texture:
			return UniformTexture(px, rc.Pixels()), nil
		}

	case Vec3:
		rgb, err := Vec3Of(v)
		if err != nil {
			return cty.NilVal, err
		}
		px := Pixel{Channel(rgb[0]), Channel(rgb[1]), Channel(rgb[2]), 255}
		switch to {
		case Color:
			return ColorValue(px), nil
		case Texture:
			return UniformTexture(px, rc.Pixels()), nil
		}

	case Color:
		px, err := ColorOf(v)
		if err != nil {
			return cty.NilVal, err
		}
		switch to {
		case Vec3:
			return VecValue(float64(px[0])/255, float64(px[1])/255, float64(px[2])/255), nil
		case Texture:
			return UniformTexture(px, rc.Pixels()), nil
		}
	}

	return cty.NilVal, ErrCannotBroadcast
}
