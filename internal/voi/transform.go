package voi

import "math"

// Apply maps every raw sample of buf into 8-bit grayscale using the given
// window and level and returns a freshly allocated buffer with the same
// row-major layout. See ApplyInto for the mapping rules.
func Apply(buf *PixelBuffer, window, level int) []uint8 {
	return ApplyInto(make([]uint8, len(buf.Data)), buf, window, level)
}

// ApplyInto is Apply writing into dst, which is grown if needed and returned.
// Passing the previous output buffer back in makes repeated invocations
// allocation-free, which keeps slider dragging cheap.
//
// The clamp bounds are low = level - window/2 and high = level + window/2,
// computed with real division so the span stays symmetric around the level.
// Samples are clamped into [low, high] and linearly rescaled to 0..255 with
// rounding only at the final quantization step. A collapsed span (high <=
// low, reachable only when window <= 0, which State forbids but this function
// still guards) produces an all-zero image rather than dividing by zero.
func ApplyInto(dst []uint8, buf *PixelBuffer, window, level int) []uint8 {
	n := len(buf.Data)
	if cap(dst) < n {
		dst = make([]uint8, n)
	}
	dst = dst[:n]

	low := float64(level) - float64(window)/2
	high := float64(level) + float64(window)/2
	if high <= low {
		for i := range dst {
			dst[i] = 0
		}
		return dst
	}

	// Dividing by the span before scaling keeps exact halves exact (e.g. a
	// sample at the level midpoint quantizes to 128, not 127), which a
	// premultiplied 255/span factor does not guarantee.
	span := high - low
	for i, raw := range buf.Data {
		v := float64(raw)
		if v < low {
			v = low
		} else if v > high {
			v = high
		}
		out := math.Round((v - low) / span * 255)
		if out < 0 {
			out = 0
		} else if out > 255 {
			out = 255
		}
		dst[i] = uint8(out)
	}
	return dst
}
