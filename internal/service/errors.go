package service

import (
	"errors"
	"fmt"

	"github.com/m3rciful/wishbot/internal/models"
)

// Code is a stable machine-readable error classification.
type Code string

const (
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeQuota        Code = "QUOTA_EXCEEDED"
	CodeNotFound     Code = "NOT_FOUND"
	CodeDeleteFailed Code = "DELETE_FAILED"
	CodeInternal     Code = "INTERNAL_ERROR"
)

// ValidationError rejects a user supplied field value.
type ValidationError struct {
	Field  models.Field
	Reason string
	// Message is the text shown to the user.
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Code implements the coded error contract used by handler summaries.
func (e *ValidationError) Code() string { return string(CodeValidation) }

type codedError struct {
	code Code
	msg  string
}

func (e *codedError) Error() string { return e.msg }
func (e *codedError) Code() string  { return string(e.code) }

var (
	// ErrQuotaExceeded is returned when a user already holds the maximum number of wishes.
	ErrQuotaExceeded error = &codedError{code: CodeQuota, msg: "wish limit reached"}
	// ErrNotFoundOrForbidden hides whether a wish is missing or owned by someone else.
	ErrNotFoundOrForbidden error = &codedError{code: CodeNotFound, msg: "wish not found or access denied"}
	// ErrDeleteFailed is returned when the delete statement touched no row.
	ErrDeleteFailed error = &codedError{code: CodeDeleteFailed, msg: "failed to delete"}
	// ErrUserNotFound is returned for unknown users and share codes.
	ErrUserNotFound error = &codedError{code: CodeNotFound, msg: "user not found"}
)

// CodeOf extracts the error code from err, or CodeInternal for uncoded errors.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var c interface{ Code() string }
	if errors.As(err, &c) {
		return Code(c.Code())
	}
	return CodeInternal
}

// AsValidation unwraps a *ValidationError from err.
func AsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
