package voi

import "testing"

func TestInferRange_NoEmbeddedMetadata(t *testing.T) {
	s := InferRange(16, "", "")

	if s.WindowMin != 1 {
		t.Errorf("Expected WindowMin 1, got %d", s.WindowMin)
	}
	if s.WindowMax != 65535 {
		t.Errorf("Expected WindowMax 65535, got %d", s.WindowMax)
	}
	if s.LevelMin != -32767 {
		t.Errorf("Expected LevelMin -32767, got %d", s.LevelMin)
	}
	if s.LevelMax != 32767 {
		t.Errorf("Expected LevelMax 32767, got %d", s.LevelMax)
	}
	if s.Window != DefaultWindow {
		t.Errorf("Expected fallback window %d, got %d", DefaultWindow, s.Window)
	}
	if s.Level != DefaultLevel {
		t.Errorf("Expected fallback level %d, got %d", DefaultLevel, s.Level)
	}
}

func TestInferRange_InitialValues(t *testing.T) {
	tests := []struct {
		name       string
		bitsStored int
		center     string
		width      string
		wantWindow int
		wantLevel  int
	}{
		{
			name:       "embedded metadata",
			bitsStored: 16,
			center:     "1000.0",
			width:      "2000.0",
			wantWindow: 2000,
			wantLevel:  1000,
		},
		{
			name:       "fractional values round to nearest",
			bitsStored: 16,
			center:     "40.6",
			width:      "79.4",
			wantWindow: 79,
			wantLevel:  41,
		},
		{
			name:       "negative center",
			bitsStored: 16,
			center:     "-600",
			width:      "1500",
			wantWindow: 1500,
			wantLevel:  -600,
		},
		{
			name:       "padded decimal strings",
			bitsStored: 16,
			center:     " 50 ",
			width:      " 350 ",
			wantWindow: 350,
			wantLevel:  50,
		},
		{
			name:       "non-numeric center falls back",
			bitsStored: 16,
			center:     "bogus",
			width:      "2000",
			wantWindow: DefaultWindow,
			wantLevel:  DefaultLevel,
		},
		{
			name:       "missing width falls back",
			bitsStored: 16,
			center:     "1000",
			width:      "",
			wantWindow: DefaultWindow,
			wantLevel:  DefaultLevel,
		},
		{
			name:       "both missing falls back",
			bitsStored: 12,
			center:     "",
			width:      "",
			wantWindow: DefaultWindow,
			wantLevel:  DefaultLevel,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := InferRange(tc.bitsStored, tc.center, tc.width)
			if s.Window != tc.wantWindow {
				t.Errorf("Window = %d, want %d", s.Window, tc.wantWindow)
			}
			if s.Level != tc.wantLevel {
				t.Errorf("Level = %d, want %d", s.Level, tc.wantLevel)
			}
		})
	}
}

// Low bit depths keep the fixed fallback even though it exceeds the inferred
// range. This is long-standing viewer behavior, kept on purpose; the
// out-of-range initial values get pinned on the first Set call.
func TestInferRange_FallbackExceedsLowBitDepthRange(t *testing.T) {
	s := InferRange(8, "", "")

	if s.WindowMax != 255 {
		t.Errorf("Expected WindowMax 255, got %d", s.WindowMax)
	}
	if s.LevelMax != 127 {
		t.Errorf("Expected LevelMax 127, got %d", s.LevelMax)
	}
	if s.Window != DefaultWindow {
		t.Errorf("Expected window to stay at fallback %d, got %d", DefaultWindow, s.Window)
	}
	if s.Level != DefaultLevel {
		t.Errorf("Expected level to stay at fallback %d, got %d", DefaultLevel, s.Level)
	}
}

func TestState_Set(t *testing.T) {
	tests := []struct {
		name       string
		window     int
		level      int
		wantWindow int
		wantLevel  int
	}{
		{name: "in range", window: 500, level: 100, wantWindow: 500, wantLevel: 100},
		{name: "window below min", window: 0, level: 0, wantWindow: 1, wantLevel: 0},
		{name: "window above max", window: 70000, level: 0, wantWindow: 65535, wantLevel: 0},
		{name: "level below min", window: 100, level: -40000, wantWindow: 100, wantLevel: -32767},
		{name: "level above max", window: 100, level: 40000, wantWindow: 100, wantLevel: 32767},
		{name: "negative window", window: -5, level: 10, wantWindow: 1, wantLevel: 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := InferRange(16, "", "")
			s.Set(tc.window, tc.level)
			if s.Window != tc.wantWindow {
				t.Errorf("Window = %d, want %d", s.Window, tc.wantWindow)
			}
			if s.Level != tc.wantLevel {
				t.Errorf("Level = %d, want %d", s.Level, tc.wantLevel)
			}
		})
	}
}
