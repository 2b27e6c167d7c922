// Package datatype defines the closed set of slot data types and the
// broadcasting algebra that coerces values between compatible types.
//
// Values travel through the engine as cty.Value:
//
//	Scalar   number
//	Vec2     tuple of 2 numbers
//	Vec3     tuple of 3 numbers in [0, 1]
//	Color    tuple of 4 integers in [0, 255] (RGBA)
//	Texture  string: unpadded standard base64 over width*height RGBA pixels
//
// The relation answered by Broadcasts gates connections at finalize time;
// Broadcast performs the coercion at run time and is only defined for pairs
// inside that relation.
package datatype
