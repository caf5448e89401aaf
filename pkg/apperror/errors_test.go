package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorCodes(t *testing.T) {
	cases := []struct {
		name string
		err  *AppError
		code int
	}{
		{"validation", NewFieldError("name", "is required"), http.StatusBadRequest},
		{"not found", NewNotFoundError("Customer"), http.StatusNotFound},
		{"conflict", NewConflictError("policy number already exists"), http.StatusBadRequest},
		{"storage", NewStorageError(errors.New("disk full")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if tc.err.Code != tc.code {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.code, tc.err.Code)
		}
	}
}

func TestNotFoundMessage(t *testing.T) {
	if got := NewNotFoundError("Policy").Message; got != "Policy not found" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestGetAppErrorHidesCause(t *testing.T) {
	cause := errors.New("no such table: customers")
	appErr := GetAppError(fmt.Errorf("list customers: %w", cause))

	if appErr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", appErr.Code)
	}
	if appErr.Message != "Internal server error" {
		t.Fatalf("storage message leaked: %q", appErr.Message)
	}
	if !errors.Is(appErr, cause) {
		t.Fatalf("cause should stay reachable through Unwrap")
	}
}

func TestGetAppErrorPassesThrough(t *testing.T) {
	orig := NewConflictError("customer has policies")
	wrapped := fmt.Errorf("delete: %w", orig)
	if GetAppError(wrapped) != orig {
		t.Fatalf("expected the original AppError back")
	}
}

func TestValidationDetails(t *testing.T) {
	err := NewFieldError("end_date", "must not be before start_date")
	if len(err.Errors) != 1 || err.Errors[0].Field != "end_date" {
		t.Fatalf("unexpected details: %+v", err.Errors)
	}
	if err.Message != "Validation failed" {
		t.Fatalf("unexpected message %q", err.Message)
	}
}
