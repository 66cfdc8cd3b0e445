package util

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Shared fallback RNG for callers that do not carry their own.
var defaultRNG = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))

// Name pools for synthetic patient identities. Kept small on purpose:
// sample files only need to look plausible, not exhaustive.
var (
	maleFirstNames = []string{
		"James", "Michael", "David", "Thomas", "Daniel", "Henry",
		"Lucas", "Owen", "Pierre", "Antoine", "Julien", "Marc",
	}
	femaleFirstNames = []string{
		"Mary", "Sarah", "Emma", "Alice", "Julia", "Helen",
		"Grace", "Chloe", "Claire", "Camille", "Louise", "Manon",
	}
	lastNames = []string{
		"Smith", "Johnson", "Miller", "Davis", "Wilson", "Moore",
		"Clark", "Martin", "Dubois", "Leroy", "Moreau", "Fournier",
	}
)

// GeneratePatientName returns a synthetic name in DICOM person-name form,
// LASTNAME^FIRSTNAME. Sex selects the first-name pool: "M" for the male
// pool, anything else for the female pool. A nil rng falls back to the
// shared default.
func GeneratePatientName(sex string, rng *rand.Rand) string {
	if rng == nil {
		rng = defaultRNG
	}

	first := femaleFirstNames[rng.IntN(len(femaleFirstNames))]
	if sex == "M" {
		first = maleFirstNames[rng.IntN(len(maleFirstNames))]
	}
	last := lastNames[rng.IntN(len(lastNames))]

	return last + "^" + first
}

// GeneratePatientID returns a synthetic identifier like PID042417.
func GeneratePatientID(rng *rand.Rand) string {
	if rng == nil {
		rng = defaultRNG
	}
	return fmt.Sprintf("PID%06d", rng.IntN(1000000))
}
