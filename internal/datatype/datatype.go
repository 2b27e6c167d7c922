package datatype

import (
	"fmt"
	"strings"
)

// DataType is the type carried by a slot. It has no payload and is used purely
// for compatibility checks.
type DataType int

const (
	Scalar DataType = iota
	Vec2
	Vec3
	Color
	Texture
)

var names = [...]string{
	Scalar:  "Scalar",
	Vec2:    "Vec2",
	Vec3:    "Vec3",
	Color:   "Color",
	Texture: "Texture",
}

// All returns every data type in declaration order.
func All() []DataType {
	return []DataType{Scalar, Vec2, Vec3, Color, Texture}
}

// Valid reports whether d is one of the declared data types.
func (d DataType) Valid() bool {
	return d >= Scalar && d <= Texture
}

func (d DataType) String() string {
	if !d.Valid() {
		return fmt.Sprintf("DataType(%d)", int(d))
	}
	return names[d]
}

// Parse resolves a data type name. Matching is case-insensitive so that both
// manifest keywords ("vec3") and catalog names ("Vec3") are accepted.
func Parse(s string) (DataType, error) {
	for i, name := range names {
		if strings.EqualFold(name, s) {
			return DataType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown data type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d DataType) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid data type %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *DataType) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Broadcasts reports whether a value of type from can be coerced into type to.
//
// Every type broadcasts to itself, Scalar broadcasts to every type, and Vec3
// and Color broadcast to each other and to Texture. All other pairs are
// incompatible.
func Broadcasts(from, to DataType) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	switch {
	case from == to:
		return true
	case from == Scalar:
		return true
	case from == Vec3:
		return to == Color || to == Texture
	case from == Color:
		return to == Vec3 || to == Texture
	}
	return false
}
