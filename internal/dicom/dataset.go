package dicom

import (
	"fmt"
	"strconv"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/mrsinham/dicomview/internal/util"
	"github.com/mrsinham/dicomview/internal/voi"
)

// DefaultBitsStored is assumed when a dataset does not declare BitsStored.
const DefaultBitsStored = 16

// Dataset wraps a parsed DICOM dataset with name-keyed access. One Dataset
// describes exactly one loaded file; the viewer replaces it wholesale on each
// load and never mutates it apart from Put.
type Dataset struct {
	raw dicom.Dataset
}

// NewDataset wraps an already parsed dataset.
func NewDataset(raw dicom.Dataset) *Dataset {
	return &Dataset{raw: raw}
}

// Has reports whether the named attribute is present. Presence only: an
// element carrying an empty value still counts. Names that resolve to no
// known attribute report false.
func (d *Dataset) Has(name string) bool {
	info, err := util.GetAttributeByName(name)
	if err != nil {
		return false
	}
	_, err = d.raw.FindElementByTag(info.Tag)
	return err == nil
}

// String returns the first string value of the named attribute.
func (d *Dataset) String(name string) (string, bool) {
	info, err := util.GetAttributeByName(name)
	if err != nil {
		return "", false
	}
	el, err := d.raw.FindElementByTag(info.Tag)
	if err != nil {
		return "", false
	}
	return firstString(el)
}

// Put inserts a string element for the named attribute. Values are stored
// as given; no validation or normalization is applied. Used for the
// user-supplied replacements of missing attributes.
func (d *Dataset) Put(name, value string) error {
	info, err := util.GetAttributeByName(name)
	if err != nil {
		return err
	}
	el, err := dicom.NewElement(info.Tag, []string{value})
	if err != nil {
		return fmt.Errorf("build element %s: %w", name, err)
	}
	d.raw.Elements = append(d.raw.Elements, el)
	return nil
}

// BitsStored returns the declared bit depth, or DefaultBitsStored when the
// dataset does not declare one.
func (d *Dataset) BitsStored() int {
	if v, ok := d.intByTag(tag.BitsStored); ok && v > 0 {
		return v
	}
	return DefaultBitsStored
}

// WindowCenter returns the embedded window center as its raw decimal string,
// or "" when absent. Multi-valued centers yield the first value.
func (d *Dataset) WindowCenter() string {
	return d.stringByTag(tag.WindowCenter)
}

// WindowWidth returns the embedded window width as its raw decimal string,
// or "" when absent.
func (d *Dataset) WindowWidth() string {
	return d.stringByTag(tag.WindowWidth)
}

// Pixels extracts the raw pixel buffer. The samples of the first frame are
// widened to int32; signed datasets (PixelRepresentation 1) are
// reinterpreted from their stored two's-complement form at the declared bit
// depth. Encapsulated (compressed) and multi-sample (color) pixel data are
// not displayable here and return ErrUnsupported.
func (d *Dataset) Pixels() (*voi.PixelBuffer, error) {
	el, err := d.raw.FindElementByTag(tag.PixelData)
	if err != nil {
		return nil, fmt.Errorf("%w: dataset has no PixelData", ErrUnsupported)
	}
	if el.Value.ValueType() != dicom.PixelData {
		return nil, fmt.Errorf("%w: PixelData element has unexpected type", ErrUnsupported)
	}
	info := dicom.MustGetPixelDataInfo(el.Value)
	if info.IsEncapsulated {
		return nil, fmt.Errorf("%w: encapsulated transfer syntaxes are not displayed", ErrUnsupported)
	}
	if len(info.Frames) == 0 {
		return nil, fmt.Errorf("%w: PixelData holds no frames", ErrUnsupported)
	}

	rows, ok := d.intByTag(tag.Rows)
	if !ok {
		return nil, fmt.Errorf("%w: dataset does not declare Rows", ErrUnsupported)
	}
	cols, ok := d.intByTag(tag.Columns)
	if !ok {
		return nil, fmt.Errorf("%w: dataset does not declare Columns", ErrUnsupported)
	}

	bits := d.BitsStored()
	signed := d.signed()

	// Single-image viewer: only the first frame is displayed.
	fr := info.Frames[0]
	if fr.Encapsulated {
		return nil, fmt.Errorf("%w: encapsulated frame", ErrUnsupported)
	}

	data := make([]int32, 0, rows*cols)
	switch nd := fr.NativeData.(type) {
	case *frame.NativeFrame[uint8]:
		data = widenSamples(data, nd.RawData, bits, signed)
	case *frame.NativeFrame[uint16]:
		data = widenSamples(data, nd.RawData, bits, signed)
	case *frame.NativeFrame[uint32]:
		data = widenSamples(data, nd.RawData, bits, signed)
	default:
		return nil, fmt.Errorf("%w: unrecognized native frame type", ErrUnsupported)
	}

	if len(data) != rows*cols {
		// More samples than pixels means interleaved color channels.
		return nil, fmt.Errorf("%w: %d samples for %dx%d grayscale image", ErrUnsupported, len(data), rows, cols)
	}

	return &voi.PixelBuffer{
		Rows:       rows,
		Cols:       cols,
		BitsStored: bits,
		Signed:     signed,
		Data:       data,
	}, nil
}

// MetadataItem is one (attribute, value) pair of the display summary.
type MetadataItem struct {
	Name  string
	Value string
}

// metadataAttributes lists the summary attributes in display order.
var metadataAttributes = []string{
	"PatientName",
	"PatientID",
	"Modality",
	"StudyDate",
	"StudyDescription",
	"SeriesDescription",
	"Manufacturer",
}

// Metadata returns the human-readable summary shown in the status bar, the
// export overlay and -describe output. Absent attributes are skipped;
// geometry is appended from the image description elements.
func (d *Dataset) Metadata() []MetadataItem {
	var items []MetadataItem
	for _, name := range metadataAttributes {
		if v, ok := d.String(name); ok && v != "" {
			items = append(items, MetadataItem{Name: name, Value: v})
		}
	}
	if rows, ok := d.intByTag(tag.Rows); ok {
		if cols, ok := d.intByTag(tag.Columns); ok {
			items = append(items, MetadataItem{
				Name:  "Dimensions",
				Value: strconv.Itoa(cols) + "x" + strconv.Itoa(rows),
			})
		}
	}
	items = append(items, MetadataItem{Name: "BitsStored", Value: strconv.Itoa(d.BitsStored())})
	if v := d.WindowCenter(); v != "" {
		items = append(items, MetadataItem{Name: "WindowCenter", Value: v})
	}
	if v := d.WindowWidth(); v != "" {
		items = append(items, MetadataItem{Name: "WindowWidth", Value: v})
	}
	return items
}

func (d *Dataset) signed() bool {
	v, ok := d.intByTag(tag.PixelRepresentation)
	return ok && v == 1
}

func (d *Dataset) stringByTag(t tag.Tag) string {
	el, err := d.raw.FindElementByTag(t)
	if err != nil {
		return ""
	}
	s, _ := firstString(el)
	return s
}

func (d *Dataset) intByTag(t tag.Tag) (int, bool) {
	el, err := d.raw.FindElementByTag(t)
	if err != nil {
		return 0, false
	}
	vals, ok := el.Value.GetValue().([]int)
	if !ok || len(vals) == 0 {
		return 0, false
	}
	return vals[0], true
}

func firstString(el *dicom.Element) (string, bool) {
	vals, ok := el.Value.GetValue().([]string)
	if !ok || len(vals) == 0 {
		return "", true // present but not a string value
	}
	return vals[0], true
}

// widenSamples converts raw unsigned samples to int32, applying the
// two's-complement reinterpretation for signed pixel representations.
func widenSamples[T uint8 | uint16 | uint32](dst []int32, src []T, bits int, signed bool) []int32 {
	signBit := int64(1) << (bits - 1)
	span := int64(1) << bits
	for _, v := range src {
		s := int64(v)
		if signed && s >= signBit {
			s -= span
		}
		dst = append(dst, int32(s))
	}
	return dst
}
