package dicom

// DefaultRequiredElements lists the attributes a clinically usable image must
// carry, in the order missing ones are reported.
var DefaultRequiredElements = []string{
	"PatientName",
	"PatientID",
	"Modality",
	"StudyDate",
	"PixelData",
}

// ValidationResult reports which required attributes a dataset is missing.
type ValidationResult struct {
	Valid   bool
	Missing []string
}

// Validate checks ds for the presence of every name in required, in order.
// Only presence counts; values are never inspected, and an element with an
// empty value is present. Missing names are reported in their declaration
// order, not dataset order.
//
// A nil dataset is "nothing loaded": the result is invalid with an empty
// missing list. Callers that need to distinguish that case from a loaded but
// incomplete dataset check for the dataset itself, not the missing list.
func Validate(ds *Dataset, required []string) ValidationResult {
	if ds == nil {
		return ValidationResult{}
	}

	missing := make([]string, 0, len(required))
	for _, name := range required {
		if !ds.Has(name) {
			missing = append(missing, name)
		}
	}
	return ValidationResult{Valid: len(missing) == 0, Missing: missing}
}
