package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeEmptyCart, status: http.StatusUnprocessableEntity, publicMsg: "cart is empty"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeSubmissionInProgress, status: http.StatusConflict, publicMsg: "a quote request is already being submitted", retryable: true},
		{code: CodeSubmission, status: http.StatusBadGateway, publicMsg: "quote request could not be submitted", retryable: true, detailsOK: true},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, publicMsg: "rate limit exceeded"},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"field": "foo"}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeEmptyCart, "no items"))
	if got := As(err); got == nil || got.Code() != CodeEmptyCart {
		t.Fatalf("As failed to return typed error")
	}
	if !IsCode(err, CodeEmptyCart) {
		t.Fatalf("IsCode should match wrapped typed error")
	}
	if IsCode(err, CodeValidation) {
		t.Fatalf("IsCode should not match a different code")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestDumpCollectsChainAndPgFields(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "quote_requests_reference_key", TableName: "quote_requests"}
	err := Wrap(CodeInternal, fmt.Errorf("insert quote: %w", pgErr), "persist failed")

	dump := Dump(err)
	if dump.Code != CodeInternal {
		t.Fatalf("expected code %s, got %s", CodeInternal, dump.Code)
	}
	if len(dump.Chain) != 3 {
		t.Fatalf("expected 3 chain entries, got %d: %v", len(dump.Chain), dump.Chain)
	}
	if dump.PG == nil || dump.PG.Code != "23505" || dump.PG.Constraint != "quote_requests_reference_key" || dump.PG.Table != "quote_requests" {
		t.Fatalf("unexpected pg fields %+v", dump.PG)
	}
	if dump.PG.Class != "integrity_constraint_violation" {
		t.Fatalf("unexpected pg class %q", dump.PG.Class)
	}
	if got := dump.Fields()["pg_constraint"]; got != "quote_requests_reference_key" {
		t.Fatalf("unexpected pg_constraint field %v", got)
	}
}

func TestDumpFollowsJoinedErrors(t *testing.T) {
	joined := stdErrors.Join(stdErrors.New("cache down"), New(CodeDependency, "supabase down"))

	dump := Dump(joined)
	if dump.Code != CodeDependency {
		t.Fatalf("expected code %s from joined branch, got %s", CodeDependency, dump.Code)
	}
	if len(dump.Chain) != 3 {
		t.Fatalf("expected joined root plus two branches, got %v", dump.Chain)
	}
	if dump.PG != nil {
		t.Fatalf("expected no pg detail, got %+v", dump.PG)
	}
	if _, ok := dump.Fields()["pg_code"]; ok {
		t.Fatal("pg fields must be omitted without a driver error")
	}
}

func TestPublicMessageFor(t *testing.T) {
	internal := New(CodeInternal, "pq: relation missing")
	if got := MetadataFor(CodeInternal).PublicMessageFor(internal); got != "internal server error" {
		t.Fatalf("internal message leaked: %q", got)
	}

	empty := New(CodeEmptyCart, "")
	if got := MetadataFor(CodeEmptyCart).PublicMessageFor(empty); got != "cart is empty" {
		t.Fatalf("expected fallback message, got %q", got)
	}

	invalid := New(CodeValidation, "quantity must be positive")
	if got := MetadataFor(CodeValidation).PublicMessageFor(invalid); got != "quantity must be positive" {
		t.Fatalf("expected own message, got %q", got)
	}
}
