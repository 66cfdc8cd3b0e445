package tests

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/mrsinham/dicomview/internal/util"
)

// TestUtil_AttributeResolution tests name-to-tag resolution with registered
// names, dictionary fallbacks and typos.
func TestUtil_AttributeResolution(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantTag   tag.Tag
		wantError bool
	}{
		{name: "registered", input: "PatientName", wantTag: tag.PatientName},
		{name: "registered_lowercase", input: "patientname", wantTag: tag.PatientName},
		{name: "registered_windowing", input: "WindowCenter", wantTag: tag.WindowCenter},
		{name: "dictionary_fallback", input: "AccessionNumber", wantTag: tag.AccessionNumber},
		{name: "unknown", input: "NotAnAttribute", wantError: true},
		{name: "empty", input: "", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := util.GetAttributeByName(tt.input)

			if tt.wantError {
				if err == nil {
					t.Errorf("Expected error for %q, got %+v", tt.input, info)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetAttributeByName(%q) failed: %v", tt.input, err)
			}
			if info.Tag != tt.wantTag {
				t.Errorf("Expected tag %v for %q, got %v", tt.wantTag, tt.input, info.Tag)
			}
		})
	}
}

// TestUtil_AttributeSuggestion tests that typos produce a usable suggestion.
func TestUtil_AttributeSuggestion(t *testing.T) {
	_, err := util.GetAttributeByName("PatinetName")
	if err == nil {
		t.Fatal("Expected an error for the typo")
	}
	if !strings.Contains(err.Error(), "PatientName") {
		t.Errorf("Expected the error to suggest PatientName, got: %v", err)
	}
	t.Logf("✓ Typo suggestion: %v", err)
}

// TestUtil_GeneratePatientName tests the synthetic name format and
// determinism under a fixed seed.
func TestUtil_GeneratePatientName(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 42))

	name := util.GeneratePatientName("M", rng)
	if !strings.Contains(name, "^") {
		t.Errorf("Expected LASTNAME^FIRSTNAME, got %q", name)
	}

	again := util.GeneratePatientName("M", rand.New(rand.NewPCG(42, 42)))
	if name != again {
		t.Errorf("Expected the same name for the same seed, got %q and %q", name, again)
	}
	t.Logf("✓ Generated name: %s", name)
}

// TestUtil_GeneratePatientID tests the synthetic identifier format.
func TestUtil_GeneratePatientID(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 42))

	id := util.GeneratePatientID(rng)
	if !strings.HasPrefix(id, "PID") || len(id) != 9 {
		t.Errorf("Expected PID followed by six digits, got %q", id)
	}
	for _, r := range id[3:] {
		if r < '0' || r > '9' {
			t.Errorf("Expected digits after the prefix, got %q", id)
		}
	}
	t.Logf("✓ Generated identifier: %s", id)
}
