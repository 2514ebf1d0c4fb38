package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"nil", nil, ""},
		{"missing key", &MissingKeyError{Tables: []string{"file 2"}}, "KEY001"},
		{"no dataset", ErrNoDataset, "DS001"},
		{"bad criteria", errors.New(`invalid criteria: serial_from "x" is not a number`), "SRCH001"},
		{"too large", fmt.Errorf("file 1: %w", ErrFileTooLarge), "FILE001"},
		{"invalid csv", errors.New(`invalid csv: parse error on line 3: bare " in non-quoted field`), "FILE002"},
		{"no file", errors.New("file2: no file provided"), "FILE004"},
		{"empty file", fmt.Errorf("file 2: %w", ErrEmptyFile), "FILE005"},
		{"busy", ErrTooManyUploads, "UPL002"},
		{"cancelled", context.Canceled, "UPL004"},
		{"timeout", context.DeadlineExceeded, "UPL005"},
		{"source", errors.New("source query: relation \"roll\" does not exist"), "SRC001"},
		{"cancelled rate limit wait", errors.New("google: rate limit: context canceled"), "UPL004"},
		{"rate limited request", errors.New("rate limit exceeded"), "RATE001"},
		{"translation", errors.New("Translation unavailable. Using typed text for search."), "TRN001"},
		{"case insensitive", errors.New("FILE TOO LARGE"), "FILE001"},
		{"unknown", errors.New("some random internal error"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapError(tt.err).Code; got != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got, tt.wantCode)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(&MissingKeyError{Tables: []string{"file 1"}})
	want := "Both files must contain an 'ID' column (Code: KEY001). Add an ID column with matching values to both files"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}
	if FormatUserError(nil) != "" {
		t.Error("FormatUserError(nil) should be empty")
	}
}

func TestIsUserFacing(t *testing.T) {
	if IsUserFacing(nil) {
		t.Error("nil should not be user facing")
	}
	if !IsUserFacing(ErrNoDataset) {
		t.Error("ErrNoDataset should be user facing")
	}
	if IsUserFacing(errors.New("xyz")) {
		t.Error("unknown errors should not be user facing")
	}
}

func TestNewUserError(t *testing.T) {
	if NewUserError(nil) != nil {
		t.Fatal("NewUserError(nil) should be nil")
	}

	tech := fmt.Errorf("file 1: %w", ErrEmptyFile)
	userErr := NewUserError(tech)
	if userErr.Error() != "The uploaded file is empty" {
		t.Errorf("Error() = %q", userErr.Error())
	}
	if !errors.Is(userErr, ErrEmptyFile) {
		t.Error("UserError should unwrap to the technical error")
	}
}
