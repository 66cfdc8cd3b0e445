package util

import (
	"math/rand/v2"
	"strings"
	"testing"
)

func TestGeneratePatientName_Format(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 42))

	for i := 0; i < 50; i++ {
		name := GeneratePatientName("M", rng)
		parts := strings.Split(name, "^")
		if len(parts) != 2 {
			t.Fatalf("Expected LASTNAME^FIRSTNAME, got %q", name)
		}
		if parts[0] == "" || parts[1] == "" {
			t.Errorf("Expected non-empty name components, got %q", name)
		}
	}
}

func TestGeneratePatientName_SexSelectsPool(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))

	male := make(map[string]bool)
	for _, n := range maleFirstNames {
		male[n] = true
	}

	for i := 0; i < 50; i++ {
		name := GeneratePatientName("M", rng)
		first := strings.Split(name, "^")[1]
		if !male[first] {
			t.Errorf("Expected a male first name, got %q", first)
		}
	}

	for i := 0; i < 50; i++ {
		name := GeneratePatientName("F", rng)
		first := strings.Split(name, "^")[1]
		if male[first] {
			t.Errorf("Expected a female first name, got %q", first)
		}
	}
}

func TestGeneratePatientName_Deterministic(t *testing.T) {
	a := GeneratePatientName("F", rand.New(rand.NewPCG(99, 99)))
	b := GeneratePatientName("F", rand.New(rand.NewPCG(99, 99)))
	if a != b {
		t.Errorf("Expected identical names for the same seed, got %q and %q", a, b)
	}
}

func TestGeneratePatientID_Format(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 42))

	for i := 0; i < 20; i++ {
		id := GeneratePatientID(rng)
		if len(id) != 9 || !strings.HasPrefix(id, "PID") {
			t.Errorf("Expected PID followed by six digits, got %q", id)
		}
	}
}

func TestGenerate_NilRNG(t *testing.T) {
	if name := GeneratePatientName("M", nil); name == "" {
		t.Error("Expected a name from the default RNG")
	}
	if id := GeneratePatientID(nil); id == "" {
		t.Error("Expected an identifier from the default RNG")
	}
}
