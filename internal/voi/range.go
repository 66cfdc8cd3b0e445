package voi

import (
	"math"
	"strconv"
	"strings"
)

// Fallback window/level applied when a dataset carries no usable
// WindowCenter/WindowWidth. These values are kept as-is even when they fall
// outside the range inferred for a low bit depth; see InferRange.
const (
	DefaultWindow = 2000
	DefaultLevel  = 1000
)

// State holds the current window/level pair together with the valid range for
// both values. Window is the span of raw intensities mapped to the full
// display range, Level the intensity mapped to mid-gray. The zero value is
// not usable; obtain a State from InferRange.
type State struct {
	Window int
	Level  int

	WindowMin int
	WindowMax int
	LevelMin  int
	LevelMax  int
}

// InferRange derives the valid window/level range from the stored bit depth
// and picks initial values from the dataset-supplied center/width strings.
//
// The range follows the sample value space: a window may span the whole range
// (but never collapse below 1), and the level may sit anywhere in the upper
// or lower half of it. When both center and width parse as decimal numbers
// the initial values are their rounded integers; otherwise the fixed
// application default (2000/1000) is used. That default is intentionally not
// clamped into the inferred range: for very low bit depths it can exceed
// LevelMax, which mirrors the behavior users of the desktop viewers expect.
func InferRange(bitsStored int, center, width string) State {
	maxValue := 1<<bitsStored - 1

	s := State{
		WindowMin: 1,
		WindowMax: maxValue,
		LevelMax:  maxValue / 2,
	}
	s.LevelMin = -s.LevelMax

	c, cerr := parseDecimal(center)
	w, werr := parseDecimal(width)
	if cerr == nil && werr == nil {
		s.Window = int(math.Round(w))
		s.Level = int(math.Round(c))
		return s
	}

	s.Window = DefaultWindow
	s.Level = DefaultLevel
	return s
}

// Set clamps window and level into the valid range and stores them. Setting
// values already out of range silently pins them to the nearest bound, so the
// State invariants hold after every call.
func (s *State) Set(window, level int) {
	s.Window = clamp(window, s.WindowMin, s.WindowMax)
	s.Level = clamp(level, s.LevelMin, s.LevelMax)
}

// parseDecimal parses a DICOM decimal string. Values may carry surrounding
// whitespace from fixed-width encodings.
func parseDecimal(v string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(v), 64)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
