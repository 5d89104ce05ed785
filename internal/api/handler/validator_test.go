package handler

import (
	"strings"
	"testing"
)

func TestValidator_UsesJSONFieldNames(t *testing.T) {
	v := NewValidator()

	req := createSavingsAccountRequest{Name: "Rainy Day"}
	err := v.Validate(&req)
	if err == nil {
		t.Fatal("expected a validation error")
	}
	if !strings.Contains(err.Error(), "account_type is required") {
		t.Errorf("message must name the json field: %q", err.Error())
	}
}

func TestValidator_DatetimeMessage(t *testing.T) {
	v := NewValidator()

	req := createGoalRequest{Name: "Trip", TargetAmount: 100, Deadline: "next tuesday"}
	err := v.Validate(&req)
	if err == nil {
		t.Fatal("expected a validation error")
	}
	if !strings.Contains(err.Error(), "deadline must be a date in YYYY-MM-DD format") {
		t.Errorf("got %q", err.Error())
	}
}

func TestValidator_JoinsMultipleViolations(t *testing.T) {
	v := NewValidator()

	req := createSavingsAccountRequest{APY: 250}
	err := v.Validate(&req)
	if err == nil {
		t.Fatal("expected a validation error")
	}
	msg := err.Error()
	for _, want := range []string{"name is required", "account_type is required", "apy must be at most 100"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
	if !strings.Contains(msg, "; ") {
		t.Errorf("violations must be joined with a semicolon: %q", msg)
	}
}
