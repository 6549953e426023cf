package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppErrorMessageAndCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, CodeInternal, "store write failed", http.StatusInternalServerError)

	if !errors.Is(err, cause) {
		t.Error("wrapped error must unwrap to its cause")
	}
	if err.Error() != "INTERNAL_ERROR: store write failed (caused by: connection reset)" {
		t.Errorf("unexpected message: %s", err.Error())
	}

	bare := New(CodeConflict, "dates overlap", http.StatusConflict)
	if bare.Error() != "CONFLICT: dates overlap" {
		t.Errorf("unexpected message: %s", bare.Error())
	}
}

func TestConstructorStatusCodes(t *testing.T) {
	cases := []struct {
		err  *AppError
		code string
		http int
	}{
		{NotFound("Booking"), CodeNotFound, http.StatusNotFound},
		{NotFoundWithID("Payment", "abc"), CodeNotFound, http.StatusNotFound},
		{Validation("bad dates", nil), CodeValidation, http.StatusUnprocessableEntity},
		{InvalidInput("missing id"), CodeInvalidInput, http.StatusBadRequest},
		{Conflict("capacity exhausted"), CodeConflict, http.StatusConflict},
		{Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
		{Unavailable("mongo"), CodeUnavailable, http.StatusServiceUnavailable},
	}
	for _, c := range cases {
		if c.err.Code != c.code {
			t.Errorf("expected code %s, got %s", c.code, c.err.Code)
		}
		if c.err.StatusCode() != c.http {
			t.Errorf("%s: expected status %d, got %d", c.code, c.http, c.err.StatusCode())
		}
	}
}

func TestAsAppError(t *testing.T) {
	plain := errors.New("plain")
	converted := AsAppError(plain)
	if converted.Code != CodeInternal {
		t.Errorf("plain errors must convert to internal, got %s", converted.Code)
	}
	if !errors.Is(converted, plain) {
		t.Error("conversion must preserve the cause")
	}

	app := NotFound("Accommodation")
	if AsAppError(app) != app {
		t.Error("AppError values must pass through unchanged")
	}
}

func TestNotFoundWithIDDetails(t *testing.T) {
	err := NotFoundWithID("Booking", "65f000000000000000000001")
	if err.Details["resource"] != "Booking" || err.Details["id"] != "65f000000000000000000001" {
		t.Errorf("details not populated: %v", err.Details)
	}
}
