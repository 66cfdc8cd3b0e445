// Package dicom loads DICOM files into datasets the viewer can window and
// validate. It wraps the suyashkumar/dicom parser with the error
// classification the UI needs and exposes typed access to the handful of
// attributes the viewing pipeline consumes.
package dicom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/suyashkumar/dicom"
)

// Load failure classification. The UI shows a different message per kind,
// nothing else branches on them.
var (
	// ErrNotFound reports that the path does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrNotDICOM reports that the file exists but is not a parseable DICOM stream.
	ErrNotDICOM = errors.New("not a DICOM file")
	// ErrRead reports an I/O failure while reading the file.
	ErrRead = errors.New("read failed")
	// ErrUnsupported reports a valid DICOM file the viewer cannot display,
	// such as encapsulated pixel data or color images.
	ErrUnsupported = errors.New("unsupported image data")
)

// dicmMagic sits at byte offset 128 of every part-10 DICOM file.
var dicmMagic = []byte("DICM")

// Loader parses DICOM files from disk.
type Loader struct {
	log zerolog.Logger
}

// NewLoader returns a Loader logging through the given logger.
func NewLoader(logger zerolog.Logger) *Loader {
	return &Loader{log: logger}
}

// Load parses the file at path into a Dataset. Failures are classified:
// errors.Is(err, ErrNotFound) for missing paths, ErrNotDICOM for files that
// are not valid DICOM, ErrRead for other I/O errors. The returned dataset
// holds every parsed element; pixel data stays untouched until Pixels is
// called.
func (l *Loader) Load(path string) (*Dataset, error) {
	if err := sniffDICOM(path); err != nil {
		return nil, err
	}

	ds, err := dicom.ParseFile(path, nil)
	if err != nil {
		// The magic matched, so the stream claimed to be DICOM and the
		// parser rejected its contents.
		l.log.Warn().Str("path", path).Err(err).Msg("parse rejected file")
		return nil, fmt.Errorf("%w: %s: %v", ErrNotDICOM, path, err)
	}

	l.log.Debug().Str("path", path).Int("elements", len(ds.Elements)).Msg("loaded dataset")
	return &Dataset{raw: ds}, nil
}

// sniffDICOM checks the part-10 preamble without parsing the whole file.
func sniffDICOM(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("%w: %s: %v", ErrRead, path, err)
	}
	defer func() { _ = f.Close() }()

	header := make([]byte, 132)
	if _, err := io.ReadFull(f, header); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: %s: shorter than a DICOM preamble", ErrNotDICOM, path)
		}
		return fmt.Errorf("%w: %s: %v", ErrRead, path, err)
	}
	if !bytes.Equal(header[128:132], dicmMagic) {
		return fmt.Errorf("%w: %s: missing DICM marker", ErrNotDICOM, path)
	}
	return nil
}
