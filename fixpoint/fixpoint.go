// Package fixpoint converts between float64 values and the S16.15 fixed
// point words used by the board firmware.
package fixpoint

import "math"

// FracBits is the number of fractional bits in the firmware's native
// numeric format (the ARM `accum` type, S16.15).
const FracBits = 15

const scale = 1 << FracBits

// Resolution is the smallest representable step, 2^-FracBits.
const Resolution = 1.0 / scale

// Bits encodes a real value as an S16.15 word. The value is multiplied
// by 2^15 and rounded to the nearest integer. Magnitudes beyond the
// int32 range saturate to math.MaxInt32 or math.MinInt32 rather than
// wrapping. The result is the two's-complement bit pattern as a uint32,
// ready to be written into a memory region word.
func Bits(x float64) uint32 {
	scaled := math.Round(x * scale)

	switch {
	case scaled > math.MaxInt32:
		return uint32(int32(math.MaxInt32))
	case scaled < math.MinInt32:
		minWord := int32(math.MinInt32)
		return uint32(minWord)
	}

	return uint32(int32(scaled))
}

// Value decodes an S16.15 word back into a float64.
func Value(w uint32) float64 {
	return float64(int32(w)) / scale
}
