// Package voi implements value-of-interest windowing: the mapping from raw
// multi-bit-depth pixel samples to displayable 8-bit grayscale, the inference
// of valid window/level ranges from bit depth, and the named presets used to
// jump to common tissue contrasts.
package voi

// PixelBuffer holds the raw samples of a single image frame in row-major
// order. Samples are widened to int32 so that signed and unsigned stored
// representations share one type. The buffer is captured once per loaded file
// and never mutated; windowing reads it and writes its output elsewhere.
type PixelBuffer struct {
	Rows       int
	Cols       int
	BitsStored int
	Signed     bool
	Data       []int32
}

// At returns the sample at the given row and column.
func (b *PixelBuffer) At(row, col int) int32 {
	return b.Data[row*b.Cols+col]
}

// Len returns the number of samples in the buffer.
func (b *PixelBuffer) Len() int {
	return len(b.Data)
}
