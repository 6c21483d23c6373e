package request

import (
	"strings"
	"testing"
)

func validInput() SubmitInput {
	return SubmitInput{
		Make:       "Toyota",
		Model:      "Corolla",
		Year:       2015,
		Mileage:    82000,
		VIN:        "JT2BF22K1W0123456",
		EngineType: "Gasoline",
		Symptoms:   "Rattling noise on cold start, goes away after a minute.",
		OBDCodes:   "P0301, P0420",
	}
}

func TestValidateAcceptsWellFormedInput(t *testing.T) {
	if err := validateSubmission(validInput()); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	// VIN and OBD codes are optional
	in := validInput()
	in.VIN = ""
	in.OBDCodes = ""
	if err := validateSubmission(in); err != nil {
		t.Fatalf("input without optional fields rejected: %v", err)
	}
}

func TestValidateFieldRules(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*SubmitInput)
		want   string
	}{
		{"missing make", func(in *SubmitInput) { in.Make = "" }, "car make is required"},
		{"long make", func(in *SubmitInput) { in.Make = strings.Repeat("a", 51) }, "less than 50"},
		{"bad make chars", func(in *SubmitInput) { in.Make = "Toy*ta" }, "alphanumeric"},
		{"missing model", func(in *SubmitInput) { in.Model = "" }, "car model is required"},
		{"year too old", func(in *SubmitInput) { in.Year = 1899 }, "between 1900 and 2025"},
		{"year in future", func(in *SubmitInput) { in.Year = 2026 }, "between 1900 and 2025"},
		{"negative mileage", func(in *SubmitInput) { in.Mileage = -1 }, "non-negative"},
		{"short VIN", func(in *SubmitInput) { in.VIN = "ABC123" }, "exactly 17"},
		{"VIN with O", func(in *SubmitInput) { in.VIN = "JT2BF22K1WO123456" }, "I, O, and Q"},
		{"bad engine", func(in *SubmitInput) { in.EngineType = "Steam" }, "engine type"},
		{"missing symptoms", func(in *SubmitInput) { in.Symptoms = "" }, "symptoms description is required"},
		{"long symptoms", func(in *SubmitInput) { in.Symptoms = strings.Repeat("x", 1001) }, "less than 1000"},
		{"script in symptoms", func(in *SubmitInput) { in.Symptoms = "help <ScRiPt>alert(1)</script>" }, "invalid characters"},
		{"long obd", func(in *SubmitInput) { in.OBDCodes = strings.Repeat("P", 51) }, "less than 50"},
		{"lowercase obd", func(in *SubmitInput) { in.OBDCodes = "p0301" }, "alphanumeric"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			err := validateSubmission(in)
			if err == nil {
				t.Fatal("expected validation failure")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err.Error(), tc.want)
			}
		})
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	err := validateSubmission(SubmitInput{})
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if len(err.Problems) < 4 {
		t.Errorf("expected every failing field reported, got %d problems: %v", len(err.Problems), err.Problems)
	}
}
