// Package prefs persists viewer preferences between sessions. Window and
// level are per-image viewing state and are never stored here.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Defaults applied to missing or invalid fields.
const (
	DefaultExportFormat = "png"
	DefaultJPEGQuality  = 90
)

// Preferences holds the persisted settings.
type Preferences struct {
	// DICOMDirectory is the starting directory of the open dialog and the
	// default target of directory scans.
	DICOMDirectory string
	// ExportFormat selects the still-image export encoding, png or jpeg.
	ExportFormat string
	// JPEGQuality applies to jpeg exports only, 1..100.
	JPEGQuality int
}

// preferencesYAML mirrors Preferences for YAML serialization.
type preferencesYAML struct {
	DICOMDirectory string `yaml:"dicom_directory"`
	ExportFormat   string `yaml:"export_format"`
	JPEGQuality    int    `yaml:"jpeg_quality"`
}

// Default returns the out-of-the-box preferences. The DICOM directory
// follows the desktop convention of a Documents folder under the user's
// home, falling back to the working directory when home is unknown.
func Default() Preferences {
	dir := "."
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, "Documents")
	}
	return Preferences{
		DICOMDirectory: dir,
		ExportFormat:   DefaultExportFormat,
		JPEGQuality:    DefaultJPEGQuality,
	}
}

// DefaultPath returns the per-user preferences file location.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, "dicomview", "preferences.yaml"), nil
}

// Load reads preferences from path. A missing file is not an error and
// yields the defaults; a present but unreadable or malformed file is.
// Missing or out-of-range fields are individually reset to their defaults,
// so older preference files keep working.
func Load(path string) (Preferences, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Preferences{}, fmt.Errorf("read preferences %s: %w", path, err)
	}

	var raw preferencesYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Preferences{}, fmt.Errorf("parse preferences %s: %w", path, err)
	}

	p := Preferences{
		DICOMDirectory: raw.DICOMDirectory,
		ExportFormat:   raw.ExportFormat,
		JPEGQuality:    raw.JPEGQuality,
	}
	return p.normalized(), nil
}

// Save writes p to path, creating parent directories as needed.
func Save(path string, p Preferences) error {
	p = p.normalized()
	raw := preferencesYAML{
		DICOMDirectory: p.DICOMDirectory,
		ExportFormat:   p.ExportFormat,
		JPEGQuality:    p.JPEGQuality,
	}

	data, err := yaml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write preferences %s: %w", path, err)
	}
	return nil
}

func (p Preferences) normalized() Preferences {
	defaults := Default()
	if p.DICOMDirectory == "" {
		p.DICOMDirectory = defaults.DICOMDirectory
	}
	switch p.ExportFormat {
	case "png", "jpeg":
	case "jpg":
		p.ExportFormat = "jpeg"
	default:
		p.ExportFormat = DefaultExportFormat
	}
	if p.JPEGQuality < 1 || p.JPEGQuality > 100 {
		p.JPEGQuality = DefaultJPEGQuality
	}
	return p
}
