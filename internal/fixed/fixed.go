// Package fixed provides the saturating integer arithmetic the tick engine
// runs on. Membrane potentials are int16 accumulators, synaptic weights are
// int8 values with 7 fractional bits (Q0.7). All operations clamp at the
// representable range instead of wrapping; a wrapped potential would flip
// sign and corrupt spike timing.
package fixed

import "math"

// FracBits is the number of fractional bits in a quantized weight.
const FracBits = 7

// SatAdd16 returns a+b clamped to the int16 range.
func SatAdd16(a, b int16) int16 {
	sum := int32(a) + int32(b)
	if sum > math.MaxInt16 {
		return math.MaxInt16
	}
	if sum < math.MinInt16 {
		return math.MinInt16
	}
	return int16(sum)
}

// SatSub16 returns a-b clamped to the int16 range.
func SatSub16(a, b int16) int16 {
	diff := int32(a) - int32(b)
	if diff > math.MaxInt16 {
		return math.MaxInt16
	}
	if diff < math.MinInt16 {
		return math.MinInt16
	}
	return int16(diff)
}

// MulQ7 multiplies a raw int16 sample by a Q0.7 weight and rescales the
// product back into the sample's domain, clamping to the int16 range.
// Rounding is toward negative infinity (arithmetic shift), matching the
// truncating fixed-point pipeline the weights were quantized for.
func MulQ7(sample int16, weight int8) int16 {
	product := (int32(sample) * int32(weight)) >> FracBits
	if product > math.MaxInt16 {
		return math.MaxInt16
	}
	if product < math.MinInt16 {
		return math.MinInt16
	}
	return int16(product)
}

// Clamp16 clamps a wide intermediate value to the int16 range.
func Clamp16(v int32) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}
