// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and code matching

package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/vivtool/vivtool/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "not_found_error",
			code:    errors.ErrNotFound,
			message: "snapshot 3 not found",
			wantStr: "[NOT_FOUND] snapshot 3 not found",
		},
		{
			name:    "malformed_input_error",
			code:    errors.ErrMalformedInput,
			message: "preferences file is not valid JSON",
			wantStr: "[MALFORMED_INPUT] preferences file is not valid JSON",
		},
		{
			name:    "ambiguous_state_error",
			code:    errors.ErrAmbiguousState,
			message: "multiple artifacts match snapshot 2",
			wantStr: "[AMBIGUOUS_STATE] multiple artifacts match snapshot 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}
			if err.Message != tt.message {
				t.Errorf("New() message = %q, want %q", err.Message, tt.message)
			}
			if err.Details == nil {
				t.Error("New() details should be initialized")
			}
			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := errors.Wrap(cause, errors.ErrBackupFailed, "could not write backup")

	if err.Error() != "[BACKUP_FAILED] could not write backup: disk full" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match the cause with errors.Is")
	}
	if errors.Wrap(nil, errors.ErrBackupFailed, "ignored") != nil {
		t.Error("Wrap(nil) should return nil")
	}
}

func TestIs(t *testing.T) {
	err := errors.Newf(errors.ErrSourceMissing, "no Preferences in %s", "Default")

	if !stderrors.Is(err, errors.New(errors.ErrSourceMissing, "anything")) {
		t.Error("errors with the same code should match")
	}
	if stderrors.Is(err, errors.New(errors.ErrNotFound, "anything")) {
		t.Error("errors with different codes should not match")
	}
}

func TestIsCode(t *testing.T) {
	err := errors.New(errors.ErrWriteFailed, "rename failed")
	wrapped := errors.Wrap(err, errors.ErrInternal, "deploy aborted")

	if !errors.IsCode(err, errors.ErrWriteFailed) {
		t.Error("IsCode should match the direct code")
	}
	if errors.IsCode(err, errors.ErrNotFound) {
		t.Error("IsCode should not match a different code")
	}
	// errors.As finds the outermost VivError first
	if got := errors.CodeOf(wrapped); got != errors.ErrInternal {
		t.Errorf("CodeOf() = %v, want %v", got, errors.ErrInternal)
	}
	if errors.CodeOf(stderrors.New("plain")) != errors.ErrUnknown {
		t.Error("CodeOf on a plain error should be ErrUnknown")
	}
}

func TestIsDeclined(t *testing.T) {
	decline := errors.New(errors.ErrDeclined, "user declined restore")
	if !errors.IsDeclined(decline) {
		t.Error("IsDeclined should match a DECLINED error")
	}
	if errors.IsDeclined(errors.New(errors.ErrNotFound, "nope")) {
		t.Error("IsDeclined should not match other codes")
	}
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrNotFound, "no such snapshot").
		WithDetail("profile", "Profile 2").
		WithDetail("snapshot", 7)

	if err.Details["profile"] != "Profile 2" {
		t.Errorf("Details[profile] = %v", err.Details["profile"])
	}
	if err.Details["snapshot"] != 7 {
		t.Errorf("Details[snapshot] = %v", err.Details["snapshot"])
	}
}
