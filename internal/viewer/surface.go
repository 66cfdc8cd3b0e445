package viewer

// DisplaySurface receives the freshly windowed display buffer after every
// change: a new image, a window/level adjustment, a preset. The buffer is
// borrowed; it is reused on the next change and must be copied if kept.
type DisplaySurface interface {
	Present(display []uint8, rows, cols int)
}

// SurfaceFunc adapts a function to the DisplaySurface interface.
type SurfaceFunc func(display []uint8, rows, cols int)

// Present calls f.
func (f SurfaceFunc) Present(display []uint8, rows, cols int) {
	f(display, rows, cols)
}

type noopSurface struct{}

func (noopSurface) Present([]uint8, int, int) {}
