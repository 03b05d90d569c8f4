package apierror

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
)

type signup struct {
	Email string `validate:"required,email"`
	Kind  string `validate:"oneof=ajuste atestado"`
}

func TestFromValidationError(t *testing.T) {
	err := validator.New().Struct(&signup{Email: "nope", Kind: "ferias"})

	resp, ok := FromValidationError(err).(*StructuredError)
	if !ok {
		t.Fatalf("expected a structured error, got %T", resp)
	}
	if resp.Code() != 400 {
		t.Fatalf("expected 400, got %d", resp.Code())
	}
	if got := resp.Errors["email"]; len(got) != 1 || got[0] != "Value must be a valid email address" {
		t.Fatalf("unexpected email problems: %v", got)
	}
	if got := resp.Errors["kind"]; len(got) != 1 || got[0] != "Value must be one of: ajuste atestado" {
		t.Fatalf("unexpected kind problems: %v", got)
	}
}

func TestFromValidationErrorFallsBack(t *testing.T) {
	if got := FromValidationError(errors.New("boom")); got != MalformedBodyError {
		t.Fatalf("expected MalformedBodyError, got %v", got)
	}
}

func TestNewSimpleFormats(t *testing.T) {
	e := NewMissingParamError("badge")
	if e.Code() != 400 || e.Message != "Missing required parameter 'badge'" {
		t.Fatalf("unexpected error: %+v", e)
	}
}
