package request

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	namePattern    = regexp.MustCompile(`^[a-zA-Z0-9\s-]+$`)
	vinPattern     = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]+$`)
	obdPattern     = regexp.MustCompile(`^[A-Z0-9,\s]+$`)
	scriptPattern  = regexp.MustCompile(`(?i)<script.*?>`)
	allowedEngines = map[string]bool{
		"Gasoline": true,
		"Diesel":   true,
		"Hybrid":   true,
		"Electric": true,
		"Other":    true,
	}
)

// ValidationError carries every field problem found in a submission so the
// caller can show them all at once.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid submission: %s", strings.Join(e.Problems, "; "))
}

// validateSubmission checks a submission against the field rules. A nil
// return means the input is valid.
func validateSubmission(in SubmitInput) *ValidationError {
	var problems []string

	switch {
	case in.Make == "":
		problems = append(problems, "car make is required")
	case len(in.Make) > 50:
		problems = append(problems, "car make must be less than 50 characters")
	case !namePattern.MatchString(in.Make):
		problems = append(problems, "car make can only contain alphanumeric characters, spaces, and hyphens")
	}

	switch {
	case in.Model == "":
		problems = append(problems, "car model is required")
	case len(in.Model) > 50:
		problems = append(problems, "car model must be less than 50 characters")
	case !namePattern.MatchString(in.Model):
		problems = append(problems, "car model can only contain alphanumeric characters, spaces, and hyphens")
	}

	if in.Year < 1900 || in.Year > 2025 {
		problems = append(problems, "year must be between 1900 and 2025")
	}
	if in.Mileage < 0 {
		problems = append(problems, "mileage must be a non-negative integer")
	}

	// VIN is optional; the standard alphabet excludes I, O and Q
	if in.VIN != "" {
		if len(in.VIN) != 17 {
			problems = append(problems, "VIN must be exactly 17 characters")
		} else if !vinPattern.MatchString(in.VIN) {
			problems = append(problems, "VIN contains invalid characters (I, O, and Q are not allowed)")
		}
	}

	if !allowedEngines[in.EngineType] {
		problems = append(problems, "invalid engine type selected")
	}

	switch {
	case in.Symptoms == "":
		problems = append(problems, "symptoms description is required")
	case len(in.Symptoms) > 1000:
		problems = append(problems, "symptoms description must be less than 1000 characters")
	case scriptPattern.MatchString(in.Symptoms):
		problems = append(problems, "invalid characters detected in symptoms")
	}

	if in.OBDCodes != "" {
		if len(in.OBDCodes) > 50 {
			problems = append(problems, "OBD codes must be less than 50 characters")
		} else if !obdPattern.MatchString(in.OBDCodes) {
			problems = append(problems, "OBD codes can only contain alphanumeric characters, commas, and spaces")
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
