package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"
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
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeDuplicateSku, status: http.StatusConflict, publicMsg: "sku code already exists", detailsOK: true},
		{code: CodeInsufficientStock, status: http.StatusUnprocessableEntity, publicMsg: "insufficient stock", detailsOK: true},
		{code: CodeVersionConflict, status: http.StatusConflict, publicMsg: "record was modified concurrently", detailsOK: true},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
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
	base := New(CodeInsufficientStock, "6 available, 10 requested")
	if base.Code() != CodeInsufficientStock {
		t.Fatalf("expected insufficient stock code, got %s", base.Code())
	}
	if base.Message() != "6 available, 10 requested" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeDependency, cause, "kafka publish failed")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("wrapped error should unwrap to cause")
	}
	if wrapped.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestHasCode(t *testing.T) {
	err := New(CodeVersionConflict, "stale version")
	if !HasCode(err, CodeVersionConflict) {
		t.Fatal("expected HasCode to match")
	}
	if HasCode(err, CodeNotFound) {
		t.Fatal("expected HasCode mismatch")
	}
	if HasCode(stdErrors.New("plain"), CodeNotFound) {
		t.Fatal("plain errors carry no code")
	}
}

func TestRetryableDistinguishesInfrastructureFailures(t *testing.T) {
	if Retryable(New(CodeInsufficientStock, "no stock")) {
		t.Fatal("business rejections are not retryable")
	}
	if !Retryable(Wrap(CodeDependency, stdErrors.New("timeout"), "store unreachable")) {
		t.Fatal("dependency failures are retryable")
	}
	if !Retryable(stdErrors.New("unknown")) {
		t.Fatal("untyped errors default to retryable infrastructure failures")
	}
}
