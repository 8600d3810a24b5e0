package validation

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/kbukum/fex/errors"
)

type tlsSettings struct {
	CAFile string `mapstructure:"ca_file"`
}

type settings struct {
	BaseURL string       `mapstructure:"base_url" validate:"omitempty,httpurl"`
	Mode    string       `mapstructure:"mode" validate:"omitempty,oneof=cors no-cors"`
	Retries int          `mapstructure:"retries" validate:"min=0"`
	TLS     *tlsSettings `mapstructure:"tls"`
}

func TestValidate_Valid(t *testing.T) {
	s := settings{BaseURL: "https://api.example.com/v1", Mode: "cors"}
	if err := Validate(s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_EmptyOptionalFields(t *testing.T) {
	if err := Validate(settings{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_FieldNamesFromMapstructure(t *testing.T) {
	err := Validate(settings{BaseURL: "ftp://files.example.com", Mode: "open"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("code = %s", appErr.Code)
	}
	fields, _ := appErr.Details["fields"].([]FieldError)
	if len(fields) != 2 {
		t.Fatalf("fields = %+v, want 2 entries", fields)
	}
	if fields[0].Field != "base_url" || fields[1].Field != "mode" {
		t.Errorf("fields = %+v", fields)
	}
	if !strings.Contains(appErr.Message, "must be one of: cors no-cors") {
		t.Errorf("Message = %q", appErr.Message)
	}
}

func TestValidate_RelativeURLRejected(t *testing.T) {
	if err := Validate(settings{BaseURL: "/api"}); err == nil {
		t.Fatal("expected relative base URL to be rejected")
	}
}

func TestValidator_CheckAndErr(t *testing.T) {
	v := New()
	v.Check(true, "a", "never recorded")
	v.Check(false, "tls.key_file", "is required with tls.cert_file")
	if !v.HasErrors() {
		t.Fatal("expected errors")
	}
	err := v.Err()
	if err == nil || !strings.Contains(err.Error(), "tls.key_file: is required") {
		t.Fatalf("Err() = %v", err)
	}
}

func TestValidator_NoErrors(t *testing.T) {
	if err := New().Err(); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestValidator_Merge(t *testing.T) {
	v := New()
	v.Merge(nil)
	v.Merge(Validate(settings{Mode: "open"}))
	v.Merge(stderrors.New("opaque"))
	got := v.Errors()
	if len(got) != 2 {
		t.Fatalf("errors = %+v", got)
	}
	if got[0].Field != "mode" || got[1].Field != "_" {
		t.Errorf("errors = %+v", got)
	}
}
