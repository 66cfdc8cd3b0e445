// Package viewer drives the single-image viewing pipeline: load a file,
// validate its required attributes, let the user resolve what is missing,
// then window the pixels onto a display surface. All operations run on the
// caller's goroutine; the frontends serialize access.
package viewer

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mrsinham/dicomview/internal/dicom"
	"github.com/mrsinham/dicomview/internal/voi"
)

// ErrAborted reports that the user rejected an incomplete file. Nothing is
// committed: the previously displayed image, if any, stays current.
var ErrAborted = errors.New("load aborted")

// AdjustStep is the window/level increment of one arrow-key press.
const AdjustStep = 100

// Viewer owns the currently displayed image and its windowing state.
type Viewer struct {
	loader   *dicom.Loader
	surface  DisplaySurface
	decide   DecisionHandler
	log      zerolog.Logger
	required []string

	path       string
	dataset    *dicom.Dataset
	pixels     *voi.PixelBuffer
	state      voi.State
	validation dicom.ValidationResult
	display    []uint8
}

// New returns a viewer presenting to surface and resolving missing
// attributes through decide. A nil surface discards frames; a nil decide
// rejects every incomplete file.
func New(loader *dicom.Loader, surface DisplaySurface, decide DecisionHandler, logger zerolog.Logger) *Viewer {
	if surface == nil {
		surface = noopSurface{}
	}
	if decide == nil {
		decide = rejectAll{}
	}
	return &Viewer{
		loader:   loader,
		surface:  surface,
		decide:   decide,
		log:      logger,
		required: dicom.DefaultRequiredElements,
	}
}

// SetRequiredElements replaces the attribute names validated on load.
func (v *Viewer) SetRequiredElements(names []string) {
	v.required = names
}

// LoadFile runs the full pipeline for path. On any failure the viewer is
// left exactly as it was: the new image is committed only once its pixels
// are extracted and windowed. Callers distinguish user rejection with
// errors.Is(err, ErrAborted) and undisplayable files with dicom.ErrUnsupported.
func (v *Viewer) LoadFile(path string) error {
	ds, err := v.loader.Load(path)
	if err != nil {
		return err
	}

	validation := dicom.Validate(ds, v.required)
	if !validation.Valid {
		v.log.Warn().Str("path", path).Strs("missing", validation.Missing).Msg("required attributes missing")

		res := v.decide.ResolveMissing(path, validation.Missing)
		switch res.Decision {
		case Abort:
			v.log.Info().Str("path", path).Msg("load aborted by user")
			return fmt.Errorf("%w: %s", ErrAborted, path)
		case Provide:
			for _, name := range validation.Missing {
				value, ok := res.Values[name]
				if !ok || value == "" {
					continue
				}
				if err := ds.Put(name, value); err != nil {
					return fmt.Errorf("apply provided value for %s: %w", name, err)
				}
			}
			// Values only cover string attributes; anything still missing,
			// PixelData in particular, is viewed as-is like Continue.
			validation = dicom.Validate(ds, v.required)
		case Continue:
		}
	}

	pixels, err := ds.Pixels()
	if err != nil {
		return err
	}

	state := voi.InferRange(pixels.BitsStored, ds.WindowCenter(), ds.WindowWidth())

	v.path = path
	v.dataset = ds
	v.pixels = pixels
	v.state = state
	v.validation = validation
	v.refresh()

	v.log.Info().
		Str("path", path).
		Int("rows", pixels.Rows).
		Int("cols", pixels.Cols).
		Int("window", state.Window).
		Int("level", state.Level).
		Msg("image loaded")
	return nil
}

// SetWindowLevel applies the given window and level, clamped to the
// image's inferred range. Ignored while no image is loaded.
func (v *Viewer) SetWindowLevel(window, level int) {
	if v.pixels == nil {
		return
	}
	v.state.Set(window, level)
	v.refresh()
}

// StepWindow widens or narrows the window by delta, clamped.
func (v *Viewer) StepWindow(delta int) {
	if v.pixels == nil {
		return
	}
	v.state.Set(v.state.Window+delta, v.state.Level)
	v.refresh()
}

// StepLevel raises or lowers the level by delta, clamped.
func (v *Viewer) StepLevel(delta int) {
	if v.pixels == nil {
		return
	}
	v.state.Set(v.state.Window, v.state.Level+delta)
	v.refresh()
}

// ApplyPreset switches to the named windowing preset. It reports false for
// unknown presets and while no image is loaded.
func (v *Viewer) ApplyPreset(name string) bool {
	if v.pixels == nil {
		return false
	}
	preset, ok := voi.GetPreset(name)
	if !ok {
		return false
	}
	v.state.Set(preset.Window, preset.Level)
	v.refresh()
	v.log.Debug().Str("preset", preset.Name).Int("window", v.state.Window).Int("level", v.state.Level).Msg("preset applied")
	return true
}

// AutoWindow estimates a window and level from the pixel distribution and
// applies them. Ignored while no image is loaded.
func (v *Viewer) AutoWindow() {
	if v.pixels == nil {
		return
	}
	window, level := voi.EstimateWindow(v.pixels)
	v.state.Set(window, level)
	v.refresh()
}

// refresh rewindows the pixels into the display buffer and presents it.
func (v *Viewer) refresh() {
	v.display = voi.ApplyInto(v.display, v.pixels, v.state.Window, v.state.Level)
	v.surface.Present(v.display, v.pixels.Rows, v.pixels.Cols)
}

// HasImage reports whether an image is currently displayed.
func (v *Viewer) HasImage() bool {
	return v.pixels != nil
}

// Path returns the path of the displayed image, or "".
func (v *Viewer) Path() string {
	return v.path
}

// State returns the current windowing state.
func (v *Viewer) State() voi.State {
	return v.state
}

// Validation returns the validation result of the displayed image. The
// missing list is non-empty when the user chose to continue anyway.
func (v *Viewer) Validation() dicom.ValidationResult {
	return v.validation
}

// Metadata returns the displayed image's summary, or nil without an image.
func (v *Viewer) Metadata() []dicom.MetadataItem {
	if v.dataset == nil {
		return nil
	}
	return v.dataset.Metadata()
}

// Display returns the current display buffer and its dimensions. The
// buffer is borrowed: the next windowing change overwrites it.
func (v *Viewer) Display() ([]uint8, int, int) {
	if v.pixels == nil {
		return nil, 0, 0
	}
	return v.display, v.pixels.Rows, v.pixels.Cols
}
