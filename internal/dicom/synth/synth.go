// Package synth writes small synthetic DICOM files. The viewer itself never
// generates data; synth exists so tests, the e2e suite and the gen-sample
// subcommand have deterministic files to load without shipping clinical data.
package synth

import (
	"fmt"
	"math"
	randv2 "math/rand/v2"
	"os"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// Options controls the generated file. The zero value produces a complete
// 64x64 16-bit file with a gradient test pattern.
type Options struct {
	Rows       int
	Cols       int
	BitsStored int

	// Value fills every pixel with a constant when >= 0; negative values
	// select the gradient-plus-noise test pattern.
	Value int
	Seed  uint64

	PatientName  string
	PatientID    string
	Modality     string
	StudyDate    string
	WindowCenter string
	WindowWidth  string

	// Omit drops the named attributes from the file, including PixelData.
	// Names are matched case-insensitively.
	Omit []string
}

func (o Options) withDefaults() Options {
	if o.Rows == 0 {
		o.Rows = 64
	}
	if o.Cols == 0 {
		o.Cols = 64
	}
	if o.BitsStored == 0 {
		o.BitsStored = 16
	}
	if o.PatientName == "" {
		o.PatientName = "VIEWER^TEST"
	}
	if o.PatientID == "" {
		o.PatientID = "VT0001"
	}
	if o.Modality == "" {
		o.Modality = "CT"
	}
	if o.StudyDate == "" {
		o.StudyDate = "20240102"
	}
	return o
}

// BuildDataset assembles an in-memory dataset for opts.
func BuildDataset(opts Options) (dicom.Dataset, error) {
	opts = opts.withDefaults()
	if opts.BitsStored < 8 || opts.BitsStored > 16 {
		return dicom.Dataset{}, fmt.Errorf("bits stored must be 8..16, got %d", opts.BitsStored)
	}

	omitted := make(map[string]bool, len(opts.Omit))
	for _, name := range opts.Omit {
		omitted[strings.ToLower(name)] = true
	}

	type namedElement struct {
		name string
		elem *dicom.Element
	}

	candidates := []namedElement{
		{"TransferSyntaxUID", mustNewElement(tag.TransferSyntaxUID, []string{"1.2.840.10008.1.2.1"})},
		{"SOPClassUID", mustNewElement(tag.SOPClassUID, []string{"1.2.840.10008.5.1.4.1.1.7"})},
		{"SOPInstanceUID", mustNewElement(tag.SOPInstanceUID, []string{sopInstanceUID(opts.Seed)})},
		{"PatientName", mustNewElement(tag.PatientName, []string{opts.PatientName})},
		{"PatientID", mustNewElement(tag.PatientID, []string{opts.PatientID})},
		{"Modality", mustNewElement(tag.Modality, []string{opts.Modality})},
		{"StudyDate", mustNewElement(tag.StudyDate, []string{opts.StudyDate})},
		{"StudyDescription", mustNewElement(tag.StudyDescription, []string{"Synthetic viewer study"})},
		{"Rows", mustNewElement(tag.Rows, []int{opts.Rows})},
		{"Columns", mustNewElement(tag.Columns, []int{opts.Cols})},
		{"BitsAllocated", mustNewElement(tag.BitsAllocated, []int{16})},
		{"BitsStored", mustNewElement(tag.BitsStored, []int{opts.BitsStored})},
		{"HighBit", mustNewElement(tag.HighBit, []int{opts.BitsStored - 1})},
		{"PixelRepresentation", mustNewElement(tag.PixelRepresentation, []int{0})},
		{"SamplesPerPixel", mustNewElement(tag.SamplesPerPixel, []int{1})},
		{"PhotometricInterpretation", mustNewElement(tag.PhotometricInterpretation, []string{"MONOCHROME2"})},
	}
	if opts.WindowCenter != "" {
		candidates = append(candidates, namedElement{"WindowCenter", mustNewElement(tag.WindowCenter, []string{opts.WindowCenter})})
	}
	if opts.WindowWidth != "" {
		candidates = append(candidates, namedElement{"WindowWidth", mustNewElement(tag.WindowWidth, []string{opts.WindowWidth})})
	}

	var elements []*dicom.Element
	for _, c := range candidates {
		if omitted[strings.ToLower(c.name)] {
			continue
		}
		elements = append(elements, c.elem)
	}

	if !omitted["pixeldata"] {
		elements = append(elements, pixelDataElement(opts))
	}

	return dicom.Dataset{Elements: elements}, nil
}

// WriteFile writes the synthetic file for opts at path.
func WriteFile(path string, opts Options) error {
	ds, err := BuildDataset(opts)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	// VR verification stays off so tests can plant deliberately malformed
	// values, e.g. a non-numeric WindowCenter.
	if err := dicom.Write(f, ds, dicom.SkipVRVerification()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// pixelDataElement generates the uint16 frame for opts.
func pixelDataElement(opts Options) *dicom.Element {
	rows, cols := opts.Rows, opts.Cols
	maxValue := 1<<opts.BitsStored - 1

	nativeFrame := frame.NewNativeFrame[uint16](16, rows, cols, rows*cols, 1)

	if opts.Value >= 0 {
		fill := uint16(min(opts.Value, maxValue))
		for i := range nativeFrame.RawData {
			nativeFrame.RawData[i] = fill
		}
	} else {
		// Radial gradient with layered noise, bright at the center. Close
		// enough to a real acquisition for windowing to produce structure.
		rng := randv2.New(randv2.NewPCG(opts.Seed, opts.Seed))
		centerX, centerY := float64(cols)/2, float64(rows)/2
		maxDist := math.Sqrt(centerX*centerX + centerY*centerY)
		span := float64(maxValue)

		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				dx := float64(x) - centerX
				dy := float64(y) - centerY
				dist := math.Sqrt(dx*dx+dy*dy) / maxDist

				intensity := (1.0-dist)*span*0.7 + (rng.Float64()-0.5)*span*0.2
				clamped := math.Max(0, math.Min(span, intensity))
				nativeFrame.RawData[y*cols+x] = uint16(clamped)
			}
		}
	}

	info := dicom.PixelDataInfo{
		Frames: []*frame.Frame{
			{
				Encapsulated: false,
				NativeData:   nativeFrame,
			},
		},
	}
	return mustNewElement(tag.PixelData, info)
}

func sopInstanceUID(seed uint64) string {
	return fmt.Sprintf("1.2.826.0.1.3680043.8.498.%d", seed+1)
}

// mustNewElement creates a new DICOM element, panicking on error.
func mustNewElement(t tag.Tag, value interface{}) *dicom.Element {
	elem, err := dicom.NewElement(t, value)
	if err != nil {
		panic(fmt.Sprintf("failed to create element %v: %v", t, err))
	}
	return elem
}
