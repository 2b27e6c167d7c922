package datatype

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math"

	"github.com/zclconf/go-cty/cty"
)

// TextureEncoding is the encoding used for Texture values.
var TextureEncoding = base64.RawStdEncoding

// Pixel is a single RGBA pixel.
type Pixel [4]uint8

// Channel converts a unit-interval float into a byte channel by truncation.
// Values outside [0, 1] saturate and NaN maps to zero.
func Channel(f float64) uint8 {
	v := 255 * f
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}

// ScalarValue builds a Scalar value.
func ScalarValue(f float64) cty.Value {
	return cty.NumberFloatVal(f)
}

// VecValue builds a Vec2 or Vec3 value from its components.
func VecValue(components ...float64) cty.Value {
	elems := make([]cty.Value, len(components))
	for i, c := range components {
		elems[i] = cty.NumberFloatVal(c)
	}
	return cty.TupleVal(elems)
}

// ColorValue builds a Color value from a pixel.
func ColorValue(p Pixel) cty.Value {
	return cty.TupleVal([]cty.Value{
		cty.NumberIntVal(int64(p[0])),
		cty.NumberIntVal(int64(p[1])),
		cty.NumberIntVal(int64(p[2])),
		cty.NumberIntVal(int64(p[3])),
	})
}

// TextureValue builds a Texture value from raw RGBA bytes.
func TextureValue(raw []byte) cty.Value {
	return cty.StringVal(TextureEncoding.EncodeToString(raw))
}

// UniformTexture builds a Texture of n copies of p.
func UniformTexture(p Pixel, n int) cty.Value {
	if n < 0 {
		n = 0
	}
	return TextureValue(bytes.Repeat(p[:], n))
}

// ScalarOf extracts a Scalar from v.
func ScalarOf(v cty.Value) (float64, error) {
	if err := concrete(v); err != nil {
		return 0, err
	}
	if !v.Type().Equals(cty.Number) {
		return 0, fmt.Errorf("%w: expected number, got %s", ErrInvalidValue, v.Type().FriendlyName())
	}
	f, _ := v.AsBigFloat().Float64()
	return f, nil
}

// Vec3Of extracts the three components of a Vec3 value.
func Vec3Of(v cty.Value) ([3]float64, error) {
	var out [3]float64
	nums, err := numbers(v, 3)
	if err != nil {
		return out, err
	}
	copy(out[:], nums)
	return out, nil
}

// ColorOf extracts the pixel of a Color value. Every channel must be an
// integer in [0, 255].
func ColorOf(v cty.Value) (Pixel, error) {
	var p Pixel
	if err := sequence(v, 4); err != nil {
		return p, err
	}
	for i, e := range v.AsValueSlice() {
		if err := concrete(e); err != nil {
			return p, err
		}
		if !e.Type().Equals(cty.Number) {
			return p, fmt.Errorf("%w: color channel %d is %s, not a number", ErrInvalidValue, i, e.Type().FriendlyName())
		}
		bf := e.AsBigFloat()
		n, acc := bf.Int64()
		if !bf.IsInt() || acc != 0 || n < 0 || n > 255 {
			return p, fmt.Errorf("%w: color channel %d is %s, not a byte", ErrInvalidValue, i, bf.Text('g', -1))
		}
		p[i] = uint8(n)
	}
	return p, nil
}

// TextureOf decodes the raw RGBA bytes of a Texture value.
func TextureOf(v cty.Value) ([]byte, error) {
	if err := concrete(v); err != nil {
		return nil, err
	}
	if !v.Type().Equals(cty.String) {
		return nil, fmt.Errorf("%w: expected texture string, got %s", ErrInvalidValue, v.Type().FriendlyName())
	}
	raw, err := TextureEncoding.DecodeString(v.AsString())
	if err != nil {
		return nil, fmt.Errorf("%w: decoding texture: %v", ErrInvalidValue, err)
	}
	return raw, nil
}

func concrete(v cty.Value) error {
	if !v.IsKnown() || v.IsNull() {
		return fmt.Errorf("%w: value is null or unknown", ErrInvalidValue)
	}
	return nil
}

func sequence(v cty.Value, n int) error {
	if err := concrete(v); err != nil {
		return err
	}
	ty := v.Type()
	if !ty.IsTupleType() && !ty.IsListType() {
		return fmt.Errorf("%w: expected %d-element sequence, got %s", ErrInvalidValue, n, ty.FriendlyName())
	}
	if l := v.LengthInt(); l != n {
		return fmt.Errorf("%w: expected %d elements, got %d", ErrInvalidValue, n, l)
	}
	return nil
}

func numbers(v cty.Value, n int) ([]float64, error) {
	if err := sequence(v, n); err != nil {
		return nil, err
	}
	out := make([]float64, 0, n)
	for i, e := range v.AsValueSlice() {
		if err := concrete(e); err != nil {
			return nil, err
		}
		if !e.Type().Equals(cty.Number) {
			return nil, fmt.Errorf("%w: element %d is %s, not a number", ErrInvalidValue, i, e.Type().FriendlyName())
		}
		f, _ := e.AsBigFloat().Float64()
		out = append(out, f)
	}
	return out, nil
}
