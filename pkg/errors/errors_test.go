package errors

import (
	stdErrors "errors"
	"fmt"
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
		{code: CodeNoToken, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeInvalidToken, status: http.StatusUnauthorized, publicMsg: "session invalid"},
		{code: CodeCollaboratorUnavailable, status: http.StatusServiceUnavailable, publicMsg: "collaborator unavailable", retryable: true, detailsOK: true},
		{code: CodeUnknownRole, status: http.StatusForbidden, publicMsg: "unknown role"},
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
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

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("dial tcp: refused")
	wrapped := Wrap(CodeInvalidToken, cause, "resolve user")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeInvalidToken {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestCodeOfWalksChain(t *testing.T) {
	inner := New(CodeCollaboratorUnavailable, "slots")
	outer := fmt.Errorf("fetch profile: %w", inner)
	if got := CodeOf(outer); got != CodeCollaboratorUnavailable {
		t.Fatalf("expected collaborator code, got %s", got)
	}
	if !IsCode(outer, CodeCollaboratorUnavailable) {
		t.Fatal("IsCode should match wrapped typed error")
	}
	if got := CodeOf(stdErrors.New("plain")); got != CodeInternal {
		t.Fatalf("untyped errors should map to internal, got %s", got)
	}
	if IsCode(nil, CodeInternal) {
		t.Fatal("nil error should not match any code")
	}
}

func TestDumpCollectsChain(t *testing.T) {
	err := Wrap(CodeInvalidToken, stdErrors.New("status 401"), "resolve user")
	d := Dump(err)
	if d.Code != CodeInvalidToken {
		t.Fatalf("expected code in dump, got %s", d.Code)
	}
	if len(d.Chain) != 2 {
		t.Fatalf("expected two chain entries, got %d", len(d.Chain))
	}
	if Dump(nil).TopMessage != "" {
		t.Fatal("expected empty dump for nil")
	}
}

func TestDumpNamesCollaborator(t *testing.T) {
	inner := New(CodeDependency, "status 502")
	err := Wrap(CodeCollaboratorUnavailable, inner, "business unavailable").
		WithDetails(map[string]any{"collaborator": "business"})

	d := Dump(err)
	if d.Collaborator != "business" {
		t.Fatalf("expected collaborator business, got %q", d.Collaborator)
	}
	if !d.Retryable {
		t.Fatal("collaborator failures are retryable")
	}
}
