package http

import (
	"strings"
	"testing"
)

type testAttachRequest struct {
	WorkIDs []string `validate:"required,min=1"`
	Status  string   `validate:"omitempty,shelf_status"`
	Year    int      `validate:"omitempty,gte=1000,lte=2100"`
}

func TestValidateStruct_ValidInput(t *testing.T) {
	s := testAttachRequest{
		WorkIDs: []string{"w1"},
		Status:  "TO_READ",
		Year:    1969,
	}

	errors := ValidateStruct(s)
	if len(errors) != 0 {
		t.Errorf("Expected no validation errors, got %d", len(errors))
	}
}

func TestValidateStruct_RequiredFields(t *testing.T) {
	s := testAttachRequest{}

	errors := ValidateStruct(s)
	if len(errors) == 0 {
		t.Fatal("Expected validation errors for required fields")
	}

	hasWorkIDsError := false
	for _, err := range errors {
		if err.Field == "workIDs" && strings.Contains(err.Message, "required") {
			hasWorkIDsError = true
		}
	}
	if !hasWorkIDsError {
		t.Error("Expected workIDs required error")
	}
}

func TestValidateStruct_ShelfStatus(t *testing.T) {
	testCases := []struct {
		status string
		valid  bool
	}{
		{"TO_READ", true},
		{"IN_PROGRESS", true},
		{"READ", true},
		{"HIDDEN", true},
		{"", true}, // omitempty
		{"to_read", false},
		{"BINGED", false},
	}

	for _, tc := range testCases {
		s := testAttachRequest{
			WorkIDs: []string{"w1"},
			Status:  tc.status,
		}

		errors := ValidateStruct(s)
		hasStatusError := false
		for _, err := range errors {
			if err.Field == "status" {
				hasStatusError = true
				break
			}
		}

		if tc.valid && hasStatusError {
			t.Errorf("Status %q should be valid but got error", tc.status)
		}
		if !tc.valid && !hasStatusError {
			t.Errorf("Status %q should be invalid but no error", tc.status)
		}
	}
}

func TestValidateStruct_YearRange(t *testing.T) {
	testCases := []struct {
		year  int
		valid bool
	}{
		{1000, true},
		{1969, true},
		{2100, true},
		{999, false},
		{2101, false},
	}

	for _, tc := range testCases {
		s := testAttachRequest{
			WorkIDs: []string{"w1"},
			Year:    tc.year,
		}

		errors := ValidateStruct(s)
		hasYearError := false
		for _, err := range errors {
			if err.Field == "year" {
				hasYearError = true
				break
			}
		}

		if tc.valid && hasYearError {
			t.Errorf("Year %d should be valid but got error", tc.year)
		}
		if !tc.valid && !hasYearError {
			t.Errorf("Year %d should be invalid but no error", tc.year)
		}
	}
}
