package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestValidationCarriesFields(t *testing.T) {
	err := NewValidation("missing fields", "Glucose", "BMI")
	if err.Status != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	fields, ok := err.Details["fields"].([]string)
	if !ok || len(fields) != 2 {
		t.Fatalf("Details[fields] = %v, want two field names", err.Details["fields"])
	}
	if fields[0] != "Glucose" {
		t.Errorf("fields[0] = %q, want Glucose", fields[0])
	}
}

func TestIsMatchesWrappedError(t *testing.T) {
	base := NewNotFound("no specialists found")
	wrapped := fmt.Errorf("search failed: %w", base)

	if !Is(wrapped, CodeNotFound) {
		t.Error("Is should match a wrapped apperr")
	}
	if Is(wrapped, CodeValidation) {
		t.Error("Is should not match a different code")
	}
	if Is(errors.New("plain"), CodeNotFound) {
		t.Error("Is should not match a plain error")
	}
}

func TestFromCoercesUnknownToInternal(t *testing.T) {
	e := From(errors.New("boom"))
	if e.Code != CodeInternal || e.Status != http.StatusInternalServerError {
		t.Errorf("From(plain) = %+v, want INTERNAL/500", e)
	}

	orig := NewInvalidLocation("atlantis")
	if got := From(orig); got != orig {
		t.Error("From should return the original apperr unchanged")
	}
}

func TestStatusPerCode(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
	}{
		{NewValidation("bad"), 400},
		{NewInvalidLocation("x"), 400},
		{NewNotFound("x"), 404},
		{NewModel(nil), 500},
		{NewExternalService("geocoding", nil), 502},
		{NewInternal(nil), 500},
	}
	for _, c := range cases {
		if c.err.Status != c.status {
			t.Errorf("%s: status = %d, want %d", c.err.Code, c.err.Status, c.status)
		}
	}
}
