package synth

import (
	"path/filepath"
	"testing"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"
)

func stringValue(t *testing.T, ds dicom.Dataset, tg tag.Tag) string {
	t.Helper()
	el, err := ds.FindElementByTag(tg)
	if err != nil {
		t.Fatalf("FindElementByTag(%v) failed: %v", tg, err)
	}
	values, ok := el.Value.GetValue().([]string)
	if !ok || len(values) == 0 {
		t.Fatalf("Expected string values for %v, got %v", tg, el.Value)
	}
	return values[0]
}

func intValue(t *testing.T, ds dicom.Dataset, tg tag.Tag) int {
	t.Helper()
	el, err := ds.FindElementByTag(tg)
	if err != nil {
		t.Fatalf("FindElementByTag(%v) failed: %v", tg, err)
	}
	values, ok := el.Value.GetValue().([]int)
	if !ok || len(values) == 0 {
		t.Fatalf("Expected int values for %v, got %v", tg, el.Value)
	}
	return values[0]
}

func rawPixels(t *testing.T, ds dicom.Dataset) []uint16 {
	t.Helper()
	el, err := ds.FindElementByTag(tag.PixelData)
	if err != nil {
		t.Fatalf("FindElementByTag(PixelData) failed: %v", err)
	}
	info := dicom.MustGetPixelDataInfo(el.Value)
	if len(info.Frames) != 1 {
		t.Fatalf("Expected 1 frame, got %d", len(info.Frames))
	}
	native, ok := info.Frames[0].NativeData.(*frame.NativeFrame[uint16])
	if !ok {
		t.Fatalf("Expected uint16 native frame, got %T", info.Frames[0].NativeData)
	}
	return native.RawData
}

func TestBuildDataset_Defaults(t *testing.T) {
	ds, err := BuildDataset(Options{})
	if err != nil {
		t.Fatalf("BuildDataset failed: %v", err)
	}

	if got := stringValue(t, ds, tag.PatientName); got != "VIEWER^TEST" {
		t.Errorf("Expected default patient name VIEWER^TEST, got %q", got)
	}
	if got := stringValue(t, ds, tag.Modality); got != "CT" {
		t.Errorf("Expected default modality CT, got %q", got)
	}
	if got := intValue(t, ds, tag.Rows); got != 64 {
		t.Errorf("Expected 64 rows, got %d", got)
	}
	if got := intValue(t, ds, tag.BitsStored); got != 16 {
		t.Errorf("Expected 16 bits stored, got %d", got)
	}
	if got := len(rawPixels(t, ds)); got != 64*64 {
		t.Errorf("Expected %d pixels, got %d", 64*64, got)
	}

	// Window hints are opt-in.
	if _, err := ds.FindElementByTag(tag.WindowCenter); err == nil {
		t.Error("Expected no WindowCenter element by default")
	}
}

func TestBuildDataset_WindowHints(t *testing.T) {
	ds, err := BuildDataset(Options{WindowCenter: "40.5", WindowWidth: "400"})
	if err != nil {
		t.Fatalf("BuildDataset failed: %v", err)
	}

	if got := stringValue(t, ds, tag.WindowCenter); got != "40.5" {
		t.Errorf("Expected WindowCenter 40.5, got %q", got)
	}
	if got := stringValue(t, ds, tag.WindowWidth); got != "400" {
		t.Errorf("Expected WindowWidth 400, got %q", got)
	}
}

func TestBuildDataset_Omit(t *testing.T) {
	ds, err := BuildDataset(Options{Omit: []string{"patientid", "PixelData"}})
	if err != nil {
		t.Fatalf("BuildDataset failed: %v", err)
	}

	if _, err := ds.FindElementByTag(tag.PatientID); err == nil {
		t.Error("Expected PatientID to be omitted")
	}
	if _, err := ds.FindElementByTag(tag.PixelData); err == nil {
		t.Error("Expected PixelData to be omitted")
	}
	if _, err := ds.FindElementByTag(tag.PatientName); err != nil {
		t.Errorf("Expected PatientName to survive omission list: %v", err)
	}
}

func TestBuildDataset_UniformValue(t *testing.T) {
	tests := []struct {
		name     string
		value    int
		bits     int
		expected uint16
	}{
		{"midrange", 1000, 16, 1000},
		{"zero", 0, 16, 0},
		{"clamped to bit depth", 70000, 16, 65535},
		{"clamped to 12 bits", 5000, 12, 4095},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := BuildDataset(Options{Rows: 8, Cols: 8, BitsStored: tt.bits, Value: tt.value})
			if err != nil {
				t.Fatalf("BuildDataset failed: %v", err)
			}
			for i, v := range rawPixels(t, ds) {
				if v != tt.expected {
					t.Fatalf("Pixel %d: expected %d, got %d", i, tt.expected, v)
				}
			}
		})
	}
}

func TestBuildDataset_GradientDeterministic(t *testing.T) {
	opts := Options{Rows: 32, Cols: 32, Value: -1, Seed: 7}

	first, err := BuildDataset(opts)
	if err != nil {
		t.Fatalf("BuildDataset failed: %v", err)
	}
	second, err := BuildDataset(opts)
	if err != nil {
		t.Fatalf("BuildDataset failed: %v", err)
	}

	a, b := rawPixels(t, first), rawPixels(t, second)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Pixel %d differs between runs with the same seed: %d vs %d", i, a[i], b[i])
		}
	}

	// The pattern is a centered gradient: the middle outranks the corner.
	center := a[16*32+16]
	corner := a[0]
	if center <= corner {
		t.Errorf("Expected center pixel %d to be brighter than corner pixel %d", center, corner)
	}
}

func TestBuildDataset_RejectsBadBitDepth(t *testing.T) {
	for _, bits := range []int{4, 7, 17, 32} {
		if _, err := BuildDataset(Options{BitsStored: bits}); err == nil {
			t.Errorf("Expected error for bits stored %d", bits)
		}
	}
}

func TestWriteFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synthetic.dcm")

	opts := Options{
		Rows:         32,
		Cols:         32,
		BitsStored:   12,
		Value:        300,
		PatientName:  "ROUNDTRIP^TEST",
		StudyDate:    "20240315",
		WindowCenter: "600",
		WindowWidth:  "2000",
	}
	if err := WriteFile(path, opts); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	ds, err := dicom.ParseFile(path, nil)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}

	if got := stringValue(t, ds, tag.PatientName); got != "ROUNDTRIP^TEST" {
		t.Errorf("Expected patient name ROUNDTRIP^TEST, got %q", got)
	}
	if got := stringValue(t, ds, tag.StudyDate); got != "20240315" {
		t.Errorf("Expected study date 20240315, got %q", got)
	}
	if got := intValue(t, ds, tag.Rows); got != 32 {
		t.Errorf("Expected 32 rows, got %d", got)
	}
	if got := stringValue(t, ds, tag.WindowCenter); got != "600" {
		t.Errorf("Expected WindowCenter 600, got %q", got)
	}

	pixels := rawPixels(t, ds)
	if len(pixels) != 32*32 {
		t.Fatalf("Expected %d pixels, got %d", 32*32, len(pixels))
	}
	for i, v := range pixels {
		if v != 300 {
			t.Fatalf("Pixel %d: expected 300, got %d", i, v)
		}
	}
}
