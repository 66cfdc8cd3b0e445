package render

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
)

// Preview renders img as ANSI half-block cells, fitting inside maxCols by
// maxRows terminal cells while preserving aspect ratio. Each cell shows two
// vertically stacked pixels through the upper-half-block glyph, so a cell
// grid of maxCols x maxRows displays up to maxCols x 2*maxRows pixels.
func Preview(img image.Image, maxCols, maxRows int) string {
	if img == nil || maxCols <= 0 || maxRows <= 0 {
		return ""
	}
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW == 0 || srcH == 0 {
		return ""
	}

	scaleX := float64(maxCols) / float64(srcW)
	scaleY := float64(maxRows*2) / float64(srcH)
	scale := scaleX
	if scaleY < scale {
		scale = scaleY
	}

	w := int(float64(srcW) * scale)
	h := int(float64(srcH) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	scaled := image.NewGray(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(scaled, scaled.Bounds(), img, bounds, draw.Src, nil)

	var b strings.Builder
	for y := 0; y < h; y += 2 {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < w; x++ {
			top := scaled.GrayAt(x, y).Y
			bottom := uint8(0)
			if y+1 < h {
				bottom = scaled.GrayAt(x, y+1).Y
			}
			cell := lipgloss.NewStyle().
				Foreground(grayColor(top)).
				Background(grayColor(bottom)).
				Render("▀")
			b.WriteString(cell)
		}
	}
	return b.String()
}

func grayColor(v uint8) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", v, v, v))
}
