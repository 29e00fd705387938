package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestToDomainErrorPassthrough(t *testing.T) {
	original := NewValidationError("bad input", map[string]any{"field": "subject"})
	mapped := ToDomainError(fmt.Errorf("handler: %w", original))
	if mapped.Code != CodeValidationFailed {
		t.Fatalf("expected validation code, got %s", mapped.Code)
	}
	if mapped.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", mapped.HTTPStatus)
	}
}

func TestToDomainErrorDeadlineIsRetryableStoreError(t *testing.T) {
	for _, cause := range []error{context.DeadlineExceeded, context.Canceled} {
		mapped := ToDomainError(fmt.Errorf("query: %w", cause))
		if mapped.Code != CodeStoreError {
			t.Fatalf("%v: expected store error, got %s", cause, mapped.Code)
		}
		if !mapped.Retryable {
			t.Fatalf("%v: store error must be retryable", cause)
		}
		if mapped.HTTPStatus != http.StatusServiceUnavailable {
			t.Fatalf("%v: expected 503, got %d", cause, mapped.HTTPStatus)
		}
	}
}

func TestToDomainErrorUnknownIsInternal(t *testing.T) {
	mapped := ToDomainError(errors.New("boom"))
	if mapped.Code != CodeInternal || mapped.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unexpected mapping: %+v", mapped)
	}
}

func TestToDomainErrorNil(t *testing.T) {
	if ToDomainError(nil) != nil {
		t.Fatal("nil must map to nil")
	}
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewStoreError(cause)
	if !errors.Is(err, cause) {
		t.Fatal("store error must wrap its cause")
	}
}
