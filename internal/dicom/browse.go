package dicom

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// ScanDirectory returns the paths of the DICOM files directly inside dir,
// sorted by name. Files are recognized by the DICM marker in their preamble,
// not by extension; clinical exports frequently carry none. Unreadable
// entries are skipped.
func ScanDirectory(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if hasDICMMarker(path) {
			files = append(files, path)
		}
	}

	sort.Strings(files)
	return files, nil
}

func hasDICMMarker(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	header := make([]byte, 132)
	if _, err := io.ReadFull(f, header); err != nil {
		return false
	}
	return bytes.Equal(header[128:132], dicmMagic)
}
