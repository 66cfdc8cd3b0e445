package util

import (
	"strings"
	"testing"

	"github.com/suyashkumar/dicom/pkg/tag"
)

func TestGetAttributeByName_Registered(t *testing.T) {
	tests := []struct {
		name        string
		expectedTag tag.Tag
	}{
		{"PatientName", tag.PatientName},
		{"PatientID", tag.PatientID},
		{"PatientBirthDate", tag.PatientBirthDate},
		{"PatientSex", tag.PatientSex},
		{"Modality", tag.Modality},
		{"StudyDate", tag.StudyDate},
		{"StudyDescription", tag.StudyDescription},
		{"SeriesDescription", tag.SeriesDescription},
		{"InstitutionName", tag.InstitutionName},
		{"Manufacturer", tag.Manufacturer},
		{"Rows", tag.Rows},
		{"Columns", tag.Columns},
		{"BitsStored", tag.BitsStored},
		{"PixelRepresentation", tag.PixelRepresentation},
		{"PixelData", tag.PixelData},
		{"WindowCenter", tag.WindowCenter},
		{"WindowWidth", tag.WindowWidth},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			info, err := GetAttributeByName(tc.name)
			if err != nil {
				t.Fatalf("GetAttributeByName(%q) returned error: %v", tc.name, err)
			}
			if info.Tag != tc.expectedTag {
				t.Errorf("GetAttributeByName(%q).Tag = %v, want %v", tc.name, info.Tag, tc.expectedTag)
			}
			if info.Name != tc.name {
				t.Errorf("GetAttributeByName(%q).Name = %q, want %q", tc.name, info.Name, tc.name)
			}
		})
	}
}

func TestGetAttributeByName_DictionaryFallback(t *testing.T) {
	// Not in the curated registry, but part of the standard dictionary.
	names := []string{
		"AccessionNumber",
		"ProtocolName",
		"BodyPartExamined",
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			info, err := GetAttributeByName(name)
			if err != nil {
				t.Fatalf("GetAttributeByName(%q) returned error: %v", name, err)
			}
			if info.Tag == (tag.Tag{}) {
				t.Errorf("GetAttributeByName(%q) resolved to the zero tag", name)
			}
		})
	}
}

func TestGetAttributeByName_Invalid(t *testing.T) {
	invalidNames := []string{
		"InvalidAttributeName",
		"NotAnAttribute",
		"",
		"   ",
	}

	for _, name := range invalidNames {
		t.Run(name, func(t *testing.T) {
			_, err := GetAttributeByName(name)
			if err == nil {
				t.Errorf("GetAttributeByName(%q) should return error", name)
			}
		})
	}
}

func TestGetAttributeByName_Suggestion(t *testing.T) {
	tests := []struct {
		typo       string
		suggestion string
	}{
		{"PatientNam", "PatientName"},
		{"PatinetName", "PatientName"},
		{"Manufacurer", "Manufacturer"},
		{"WindowCentre", "WindowCenter"},
	}

	for _, tc := range tests {
		t.Run(tc.typo, func(t *testing.T) {
			_, err := GetAttributeByName(tc.typo)
			if err == nil {
				t.Fatalf("GetAttributeByName(%q) should return error", tc.typo)
			}
			if !strings.Contains(err.Error(), tc.suggestion) {
				t.Errorf("Error for %q should suggest %q, got: %v", tc.typo, tc.suggestion, err)
			}
		})
	}
}

func TestGetAttributeByName_CaseInsensitive(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"patientname", "PatientName"},
		{"PATIENTNAME", "PatientName"},
		{"pAtIeNtNaMe", "PatientName"},
		{"windowcenter", "WindowCenter"},
		{"WINDOWWIDTH", "WindowWidth"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			info, err := GetAttributeByName(tc.input)
			if err != nil {
				t.Fatalf("GetAttributeByName(%q) returned error: %v", tc.input, err)
			}
			if info.Name != tc.expected {
				t.Errorf("GetAttributeByName(%q).Name = %q, want %q", tc.input, info.Name, tc.expected)
			}
		})
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"PatientName", "PatinetName", 2}, // transposition counts as 2 in standard Levenshtein
	}

	for _, tc := range tests {
		t.Run(tc.a+"_"+tc.b, func(t *testing.T) {
			result := levenshteinDistance(tc.a, tc.b)
			if result != tc.expected {
				t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tc.a, tc.b, result, tc.expected)
			}
		})
	}
}
