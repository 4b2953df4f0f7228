package core

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"os"
)

// Repository and validation sentinel errors. These stay free of
// infrastructure detail; callers wrap them with fmt.Errorf("%w").
var (
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrInvalidCategory       = errors.New("invalid category")
	ErrInvalidName           = errors.New("invalid name")
	ErrInvalidTargetAmount   = errors.New("invalid target amount")
	ErrInvalidTargetDate     = errors.New("invalid target date")
	ErrInvalidProgressAmount = errors.New("invalid progress amount")
	ErrValidationFailed      = errors.New("validation failed")

	ErrNotFound     = errors.New("record not found")
	ErrSaveFailed   = errors.New("save failed")
	ErrFetchFailed  = errors.New("fetch failed")
	ErrUpdateFailed = errors.New("update failed")
	ErrDeleteFailed = errors.New("delete failed")
)

// Generic user-facing messages. Logic never switches on these strings;
// they exist only for presentation at the UI boundary.
const (
	MsgDataError       = "Something went wrong loading your data. Please try again."
	MsgNetworkError    = "Connection problem. Check your network and try again."
	MsgValidationError = "Some of the entered values are not valid."
	MsgFileError       = "A file could not be read or written."
	MsgUnknownError    = "An unexpected error occurred."
)

// UserMessage maps any error to one of a small set of generic user-facing
// strings. Errors are never fatal here; the caller surfaces the message and
// lets the user retry.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidCategory),
		errors.Is(err, ErrInvalidName),
		errors.Is(err, ErrInvalidTargetAmount),
		errors.Is(err, ErrInvalidTargetDate),
		errors.Is(err, ErrInvalidProgressAmount),
		errors.Is(err, ErrValidationFailed):
		return MsgValidationError
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrSaveFailed),
		errors.Is(err, ErrFetchFailed),
		errors.Is(err, ErrUpdateFailed),
		errors.Is(err, ErrDeleteFailed):
		return MsgDataError
	case isNetworkError(err):
		return MsgNetworkError
	case isFileError(err):
		return MsgFileError
	default:
		return MsgUnknownError
	}
}

func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func isFileError(err error) bool {
	var pathErr *fs.PathError
	return errors.As(err, &pathErr) || errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission)
}
