// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

package validation

import (
	"strings"
	"testing"
)

func TestGetValidatorSingleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

// queryStruct mirrors the shape of the API request structs.
type queryStruct struct {
	Building string `validate:"omitempty,max=120"`
	Status   string `validate:"omitempty,oneof=up down unknown"`
	Limit    int    `validate:"min=1,max=1000"`
	Offset   int    `validate:"min=0,max=1000000"`
}

func TestValidateStructValid(t *testing.T) {
	tests := []struct {
		name  string
		input queryStruct
	}{
		{
			name:  "all fields set",
			input: queryStruct{Building: "Ross", Status: "up", Limit: 100, Offset: 0},
		},
		{
			name:  "minimum values",
			input: queryStruct{Limit: 1, Offset: 0},
		},
		{
			name:  "maximum values",
			input: queryStruct{Status: "unknown", Limit: 1000, Offset: 1000000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateStruct(&tt.input); err != nil {
				t.Errorf("ValidateStruct() returned unexpected error: %v", err)
			}
		})
	}
}

func TestValidateStructInvalid(t *testing.T) {
	tests := []struct {
		name      string
		input     queryStruct
		wantField string
		wantTag   string
	}{
		{
			name:      "unknown status value",
			input:     queryStruct{Status: "degraded", Limit: 100},
			wantField: "Status",
			wantTag:   "oneof",
		},
		{
			name:      "limit too low",
			input:     queryStruct{Limit: 0},
			wantField: "Limit",
			wantTag:   "min",
		},
		{
			name:      "limit too high",
			input:     queryStruct{Limit: 2000},
			wantField: "Limit",
			wantTag:   "max",
		},
		{
			name:      "negative offset",
			input:     queryStruct{Limit: 100, Offset: -1},
			wantField: "Offset",
			wantTag:   "min",
		},
		{
			name:      "building name too long",
			input:     queryStruct{Building: strings.Repeat("x", 121), Limit: 100},
			wantField: "Building",
			wantTag:   "max",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if err == nil {
				t.Fatal("ValidateStruct() should have returned an error")
			}

			errs := err.Errors()
			if len(errs) == 0 {
				t.Fatal("ValidationErrors should contain at least one error")
			}

			found := false
			for _, e := range errs {
				if e.Field() == tt.wantField && e.Tag() == tt.wantTag {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("Expected error on field %s with tag %s, got: %v", tt.wantField, tt.wantTag, errs)
			}
		})
	}
}

func TestToAPIErrorSingleError(t *testing.T) {
	input := queryStruct{Status: "rebooting", Limit: 100}

	err := ValidateStruct(&input)
	if err == nil {
		t.Fatal("Expected validation error")
	}

	apiErr := err.ToAPIError()

	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected code VALIDATION_ERROR, got %s", apiErr.Code)
	}
	if apiErr.Message == "" {
		t.Error("Expected non-empty message")
	}
	if apiErr.Details == nil {
		t.Fatal("Expected details to be set")
	}
	if apiErr.Details["field"] != "Status" {
		t.Errorf("Details field = %v", apiErr.Details["field"])
	}
}

func TestToAPIErrorMultipleErrors(t *testing.T) {
	input := queryStruct{Status: "invalid", Limit: 0, Offset: -1}

	err := ValidateStruct(&input)
	if err == nil {
		t.Fatal("Expected validation error")
	}

	apiErr := err.ToAPIError()

	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected code VALIDATION_ERROR, got %s", apiErr.Code)
	}
	if apiErr.Details == nil {
		t.Fatal("Expected details to contain field information")
	}
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("Expected details to contain 'fields' key")
	}
}

type timeRangeStruct struct {
	Start string `validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	End   string `validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

func TestDatetimeValidationValid(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
	}{
		{"empty bounds", "", ""},
		{"valid RFC3339", "2026-03-14T10:30:00Z", "2026-03-14T23:59:59Z"},
		{"with timezone", "2026-03-14T10:30:00+05:00", ""},
		{"negative timezone", "2026-03-14T10:30:00-08:00", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := timeRangeStruct{Start: tt.start, End: tt.end}
			if err := ValidateStruct(&input); err != nil {
				t.Errorf("ValidateStruct() returned unexpected error: %v", err)
			}
		})
	}
}

func TestDatetimeValidationInvalid(t *testing.T) {
	tests := []struct {
		name  string
		start string
	}{
		{"invalid format", "2026/03/14"},
		{"date only", "2026-03-14"},
		{"time only", "10:30:00"},
		{"garbage", "not-a-date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := timeRangeStruct{Start: tt.start}
			if err := ValidateStruct(&input); err == nil {
				t.Errorf("ValidateStruct() should have returned error for %q", tt.start)
			}
		})
	}
}

type statusStruct struct {
	Status string `validate:"omitempty,oneof=up down unknown"`
}

func TestStatusOneofValidation(t *testing.T) {
	valid := []string{"", "up", "down", "unknown"}
	for _, s := range valid {
		input := statusStruct{Status: s}
		if err := ValidateStruct(&input); err != nil {
			t.Errorf("ValidateStruct() returned unexpected error for status %q: %v", s, err)
		}
	}

	invalid := []string{"UP", "Up", "offline", "upx"}
	for _, s := range invalid {
		input := statusStruct{Status: s}
		if err := ValidateStruct(&input); err == nil {
			t.Errorf("ValidateStruct() should have returned error for status %q", s)
		}
	}
}

type nestedStruct struct {
	Inner innerStruct `validate:"required"`
}

type innerStruct struct {
	Value string `validate:"required"`
}

func TestNestedStructValidation(t *testing.T) {
	valid := nestedStruct{Inner: innerStruct{Value: "test"}}
	if err := ValidateStruct(&valid); err != nil {
		t.Errorf("ValidateStruct() returned unexpected error for valid nested struct: %v", err)
	}

	invalid := nestedStruct{Inner: innerStruct{Value: ""}}
	if err := ValidateStruct(&invalid); err == nil {
		t.Error("ValidateStruct() should have returned error for invalid nested struct")
	}
}

func TestErrorMessagesAreReadable(t *testing.T) {
	input := queryStruct{Status: "sideways", Limit: 0}

	err := ValidateStruct(&input)
	if err == nil {
		t.Fatal("Expected validation error")
	}

	msg := err.Error()
	if msg == "" {
		t.Error("Error message should not be empty")
	}
	if !strings.Contains(msg, "Status") && !strings.Contains(msg, "Limit") {
		t.Errorf("Error message should reference failed field: %s", msg)
	}

	// oneof failures list the allowed values
	if !strings.Contains(msg, "up down unknown") {
		t.Errorf("Expected allowed values in message: %s", msg)
	}
}
