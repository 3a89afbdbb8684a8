package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAsAppError(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := fmt.Errorf("resolve: %w", DatabaseError("lookup ingredient", cause))

	got := AsAppError(wrapped)
	if got.Code != CodeDatabaseError || got.Status != http.StatusInternalServerError {
		t.Errorf("AsAppError() = %+v", got)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("cause must stay reachable through Unwrap")
	}

	plain := AsAppError(cause)
	if plain.Code != CodeInternalError || plain.Err != cause {
		t.Errorf("AsAppError(plain) = %+v", plain)
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		err        error
		validation bool
		database   bool
		status     int
	}{
		{Validation("skin_type is required"), true, false, http.StatusBadRequest},
		{MissingField("skin_type"), true, false, http.StatusBadRequest},
		{DatabaseError("ping", nil), false, true, http.StatusInternalServerError},
		{Unavailable("redis", nil), false, false, http.StatusServiceUnavailable},
		{errors.New("plain"), false, false, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := IsValidation(tt.err); got != tt.validation {
			t.Errorf("IsValidation(%v) = %v", tt.err, got)
		}
		if got := IsDatabase(tt.err); got != tt.database {
			t.Errorf("IsDatabase(%v) = %v", tt.err, got)
		}
		if got := GetHTTPStatus(tt.err); got != tt.status {
			t.Errorf("GetHTTPStatus(%v) = %d, want %d", tt.err, got, tt.status)
		}
	}
}

func TestWithDetail(t *testing.T) {
	err := Validation("blank ingredient").WithDetail("index", 2)
	if err.Details["index"] != 2 {
		t.Errorf("Details = %v", err.Details)
	}
}
