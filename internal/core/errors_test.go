package core

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestUserMessage(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", ErrInvalidAmount, MsgValidationError},
		{"wrapped validation", fmt.Errorf("create transaction: %w", ErrInvalidCategory), MsgValidationError},
		{"data", ErrNotFound, MsgDataError},
		{"wrapped data", fmt.Errorf("get goal: %w", ErrFetchFailed), MsgDataError},
		{"file", &fs.PathError{Op: "open", Path: "x", Err: fs.ErrNotExist}, MsgFileError},
		{"unknown", errors.New("boom"), MsgUnknownError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := UserMessage(tc.err); got != tc.want {
				t.Fatalf("UserMessage = %q, want %q", got, tc.want)
			}
		})
	}
}
