// Package render turns windowed display buffers into images: grayscale
// frames for export, burned-in annotations, and ANSI half-block previews
// for the terminal.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// GrayImage wraps a row-major 8-bit display buffer into a grayscale image.
// The buffer is used directly, not copied.
func GrayImage(display []uint8, rows, cols int) (*image.Gray, error) {
	if rows <= 0 || cols <= 0 || len(display) != rows*cols {
		return nil, fmt.Errorf("display buffer holds %d samples for %dx%d image", len(display), cols, rows)
	}
	return &image.Gray{
		Pix:    display,
		Stride: cols,
		Rect:   image.Rect(0, 0, cols, rows),
	}, nil
}

// Annotate burns the given lines into the top-left corner of src, white
// over a one-pixel shadow so they stay legible against any windowing.
func Annotate(src image.Image, lines []string) *image.RGBA {
	bounds := src.Bounds()
	img := image.NewRGBA(bounds)
	draw.Copy(img, bounds.Min, src, bounds, draw.Src, nil)

	face := basicfont.Face7x13
	margin := 4

	passes := []struct {
		dx, dy int
		col    color.RGBA
	}{
		{1, 1, color.RGBA{A: 255}},
		{0, 0, color.RGBA{255, 255, 255, 255}},
	}

	for i, line := range lines {
		baseline := margin + i*face.Height + face.Ascent
		for _, pass := range passes {
			drawer := &font.Drawer{
				Dst:  img,
				Src:  image.NewUniform(pass.col),
				Face: face,
				Dot: fixed.Point26_6{
					X: fixed.I(margin + pass.dx),
					Y: fixed.I(baseline + pass.dy),
				},
			}
			drawer.DrawString(line)
		}
	}
	return img
}

// Export encodes img to w as png or jpeg. Quality applies to jpeg only.
func Export(w io.Writer, img image.Image, format string, quality int) error {
	switch format {
	case "png":
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("encode png: %w", err)
		}
	case "jpeg", "jpg":
		if err := jpeg.Encode(w, img, &jpeg.Options{Quality: quality}); err != nil {
			return fmt.Errorf("encode jpeg: %w", err)
		}
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
	return nil
}

// ExportFile writes img to path in the given format.
func ExportFile(path string, img image.Image, format string, quality int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := Export(f, img, format, quality); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return nil
}
