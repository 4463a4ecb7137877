// Package colorspace converts color channels between sRGB and linear light.
//
// Both directions work on the 0–255 channel scale used by the rasterizer, so
// converted values can be interpolated and quantized like any other channel.
package colorspace

import "math"

const (
	// encodeThreshold is where the linear→sRGB curve switches from the
	// linear segment to the power segment.
	encodeThreshold = 0.0031308
	// decodeThreshold is the matching point on the sRGB side.
	decodeThreshold = 0.04045
)

// ToLinear decodes an sRGB channel value in [0, 255] to linear light on the
// same scale.
func ToLinear(c float64) float64 {
	s := c / 255
	var l float64
	if s <= decodeThreshold {
		l = s / 12.92
	} else {
		l = math.Pow((s+0.055)/1.055, 2.4)
	}
	return l * 255
}

// ToSRGB encodes a linear channel value in [0, 255] to sRGB on the same scale.
func ToSRGB(c float64) float64 {
	l := c / 255
	var s float64
	if l <= encodeThreshold {
		s = 12.92 * l
	} else {
		s = 1.055*math.Pow(l, 1/2.4) - 0.055
	}
	return s * 255
}

// Identity leaves a channel unchanged. Used where a conversion is optional.
func Identity(c float64) float64 { return c }

// Encoder returns ToSRGB when srgb is set and Identity otherwise.
func Encoder(srgb bool) func(float64) float64 {
	if srgb {
		return ToSRGB
	}
	return Identity
}
