package voi

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// EstimateWindow derives a window/level pair from the sample distribution of
// buf: the window spans the 1st to 99th percentile and the level sits at the
// midpoint of that span. Trimming one percent at each end keeps isolated hot
// or dead pixels from flattening the contrast of everything else.
//
// The result is an estimate, not a state: callers still clamp it through
// State.Set. A constant buffer yields the minimum window of 1.
func EstimateWindow(buf *PixelBuffer) (window, level int) {
	if buf == nil || len(buf.Data) == 0 {
		return DefaultWindow, DefaultLevel
	}

	x := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		x[i] = float64(v)
	}
	sort.Float64s(x)

	p1 := stat.Quantile(0.01, stat.Empirical, x, nil)
	p99 := stat.Quantile(0.99, stat.Empirical, x, nil)

	window = int(math.Round(p99 - p1))
	if window < 1 {
		window = 1
	}
	level = int(math.Round((p99 + p1) / 2))
	return window, level
}
