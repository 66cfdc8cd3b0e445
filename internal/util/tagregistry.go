// Package util provides attribute name resolution for the viewer.
package util

import (
	"fmt"
	"strings"

	"github.com/suyashkumar/dicom/pkg/tag"
)

// AttributeInfo describes one DICOM attribute the viewer works with by name.
type AttributeInfo struct {
	Name string
	Tag  tag.Tag
}

// attributeRegistry maps lowercase attribute names to their info. It covers
// the attributes the viewing pipeline touches; anything else resolves through
// the full dictionary of the dicom library.
var attributeRegistry = map[string]AttributeInfo{
	// Identity
	"patientname":      {Name: "PatientName", Tag: tag.PatientName},
	"patientid":        {Name: "PatientID", Tag: tag.PatientID},
	"patientbirthdate": {Name: "PatientBirthDate", Tag: tag.PatientBirthDate},
	"patientsex":       {Name: "PatientSex", Tag: tag.PatientSex},

	// Study and series
	"modality":          {Name: "Modality", Tag: tag.Modality},
	"studydate":         {Name: "StudyDate", Tag: tag.StudyDate},
	"studydescription":  {Name: "StudyDescription", Tag: tag.StudyDescription},
	"seriesdescription": {Name: "SeriesDescription", Tag: tag.SeriesDescription},
	"institutionname":   {Name: "InstitutionName", Tag: tag.InstitutionName},
	"manufacturer":      {Name: "Manufacturer", Tag: tag.Manufacturer},

	// Image description
	"rows":                {Name: "Rows", Tag: tag.Rows},
	"columns":             {Name: "Columns", Tag: tag.Columns},
	"bitsstored":          {Name: "BitsStored", Tag: tag.BitsStored},
	"bitsallocated":       {Name: "BitsAllocated", Tag: tag.BitsAllocated},
	"pixelrepresentation": {Name: "PixelRepresentation", Tag: tag.PixelRepresentation},
	"pixeldata":           {Name: "PixelData", Tag: tag.PixelData},

	// Windowing
	"windowcenter": {Name: "WindowCenter", Tag: tag.WindowCenter},
	"windowwidth":  {Name: "WindowWidth", Tag: tag.WindowWidth},
}

// GetAttributeByName resolves an attribute name to its tag.
// The lookup is case-insensitive. Names outside the curated registry fall
// back to the library's full tag dictionary; unknown names produce an error
// with the closest registered name as a suggestion (Levenshtein distance).
func GetAttributeByName(name string) (AttributeInfo, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))

	if info, ok := attributeRegistry[normalized]; ok {
		return info, nil
	}

	// The registry only covers the common names; the dictionary knows the
	// rest of the standard.
	if info, err := tag.FindByName(strings.TrimSpace(name)); err == nil {
		return AttributeInfo{Name: name, Tag: info.Tag}, nil
	}

	suggestion := findClosestAttributeName(normalized)
	if suggestion != "" {
		return AttributeInfo{}, fmt.Errorf("unknown attribute %q, did you mean %q?", name, suggestion)
	}
	return AttributeInfo{}, fmt.Errorf("unknown attribute %q", name)
}

// findClosestAttributeName finds the closest registered name using
// Levenshtein distance. Returns empty string if nothing is close (distance > 5).
func findClosestAttributeName(input string) string {
	const maxDistance = 5
	bestDistance := maxDistance + 1
	var bestMatch string

	for key, info := range attributeRegistry {
		distance := levenshteinDistance(input, key)
		if distance < bestDistance {
			bestDistance = distance
			bestMatch = info.Name
		}
	}

	if bestDistance <= maxDistance {
		return bestMatch
	}
	return ""
}

// levenshteinDistance calculates the minimum number of single-character edits
// (insertions, deletions, or substitutions) required to change one string
// into the other.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
	}

	for i := 0; i <= len(a); i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len(b); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}
