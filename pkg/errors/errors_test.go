package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorString(t *testing.T) {
	err := New(ErrCodeCycleRejected, "%s is an ancestor of %s", "Ana", "Sofia")
	if got, want := err.Error(), "CYCLE_REJECTED: Ana is an ancestor of Sofia"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	cause := errors.New("disk full")
	wrapped := Wrap(ErrCodeStorage, cause, "save %s", "mora")
	if got, want := wrapped.Error(), "STORAGE_ERROR: save mora: disk full"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if errors.Unwrap(wrapped) != cause || !errors.Is(wrapped, cause) {
		t.Error("Wrap does not expose its cause")
	}
}

func TestIs(t *testing.T) {
	inner := New(ErrCodeInvalidInput, "inner")
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"match", New(ErrCodeTooManyParents, "x"), ErrCodeTooManyParents, true},
		{"other code", New(ErrCodeTooManyParents, "x"), ErrCodeCycleRejected, false},
		{"outer of two", Wrap(ErrCodeInvalidFormat, inner, "outer"), ErrCodeInvalidFormat, true},
		{"inner of two", Wrap(ErrCodeInvalidFormat, inner, "outer"), ErrCodeInvalidInput, true},
		{"through fmt", fmt.Errorf("load: %w", New(ErrCodeInvalidReference, "x")), ErrCodeInvalidReference, true},
		{"joined", errors.Join(errors.New("a"), New(ErrCodeNotFound, "b")), ErrCodeNotFound, true},
		{"plain", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil", nil, ErrCodeInvalidInput, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCodeAndMessage(t *testing.T) {
	err := fmt.Errorf("render: %w", Wrap(ErrCodeMemberNotFound, New(ErrCodeInvalidInput, "x"), "no person matches %q", "rui"))
	if got := GetCode(err); got != ErrCodeMemberNotFound {
		t.Errorf("GetCode() = %q", got)
	}
	if got := UserMessage(err); got != `no person matches "rui"` {
		t.Errorf("UserMessage() = %q", got)
	}

	plain := errors.New("plain")
	if GetCode(plain) != "" || GetCode(nil) != "" {
		t.Error("uncoded errors should have no code")
	}
	if UserMessage(plain) != "plain" {
		t.Errorf("UserMessage(plain) = %q", UserMessage(plain))
	}
}

func TestKinds(t *testing.T) {
	tests := []struct {
		code   Code
		kind   Kind
		status int
	}{
		{ErrCodeInvalidReference, KindInput, http.StatusBadRequest},
		{ErrCodeInvalidStyle, KindInput, http.StatusBadRequest},
		{ErrCodeCycleRejected, KindConflict, http.StatusConflict},
		{ErrCodeTooManyParents, KindConflict, http.StatusConflict},
		{ErrCodeMemberNotFound, KindMissing, http.StatusNotFound},
		{ErrCodeFileNotFound, KindMissing, http.StatusNotFound},
		{ErrCodeStorage, KindBackend, http.StatusBadGateway},
		{ErrCodeUnsupported, KindUnsupported, http.StatusNotImplemented},
		{ErrCodeInternal, KindInternal, http.StatusInternalServerError},
		{"SOMETHING_NEW", KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.code.Kind(); got != tt.kind {
			t.Errorf("%s.Kind() = %d, want %d", tt.code, got, tt.kind)
		}
		if got := tt.code.HTTPStatus(); got != tt.status {
			t.Errorf("%s.HTTPStatus() = %d, want %d", tt.code, got, tt.status)
		}
	}

	if KindOf(errors.New("plain")) != KindInternal {
		t.Error("plain errors should be internal")
	}
	if KindOf(fmt.Errorf("x: %w", New(ErrCodeCycleRejected, "y"))) != KindConflict {
		t.Error("KindOf should see through wrapping")
	}
}
