package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusOf_KnownError(t *testing.T) {
	err := NotFound("thing %d missing", 7)
	status, code := StatusOf(err)
	if status != http.StatusNotFound || code != CodeNotFound {
		t.Fatalf("got %d/%s", status, code)
	}
}

func TestStatusOf_WrappedError(t *testing.T) {
	err := fmt.Errorf("outer: %w", Conflict("busy"))
	status, code := StatusOf(err)
	if status != http.StatusConflict || code != CodeConflict {
		t.Fatalf("got %d/%s", status, code)
	}
}

func TestStatusOf_PlainErrorIsInternal(t *testing.T) {
	status, code := StatusOf(errors.New("boom"))
	if status != http.StatusInternalServerError || code != CodeInternal {
		t.Fatalf("got %d/%s", status, code)
	}
}

func TestIsCode(t *testing.T) {
	if !IsCode(Invalid("bad"), CodeInvalidInput) {
		t.Fatalf("expected invalid_input match")
	}
	if IsCode(errors.New("boom"), CodeInvalidInput) {
		t.Fatalf("expected no match for plain error")
	}
	if IsCode(nil, CodeInvalidInput) {
		t.Fatalf("expected no match for nil")
	}
}

func TestError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	err := Internal(inner)
	if !errors.Is(err, inner) {
		t.Fatalf("expected errors.Is to reach the wrapped error")
	}
}
