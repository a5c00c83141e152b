package domain

import (
	"errors"
	"fmt"
)

type ErrCode string

const (
	CodeValidation       ErrCode = "validation_error"
	CodeNotFound         ErrCode = "not_found"
	CodeInvalidSelection ErrCode = "invalid_selection"
	CodeGenerationFailed ErrCode = "generation_failed"
)

// AppError is the error type surfaced to callers. Cause is kept for
// diagnostics only and never rendered in responses.
type AppError struct {
	Code    ErrCode
	Message string
	Meta    map[string]string
	Cause   error
}

func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if len(e.Meta) > 0 {
		msg = fmt.Sprintf("%s (%v)", msg, e.Meta)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *AppError) Unwrap() error { return e.Cause }

func ErrInvalidRequest(msg string) error { return &AppError{Code: CodeValidation, Message: msg} }
func ErrInvalidRequestMeta(msg string, meta map[string]string) error {
	return &AppError{Code: CodeValidation, Message: msg, Meta: meta}
}
func ErrNotFound(msg string) error { return &AppError{Code: CodeNotFound, Message: msg} }
func ErrInvalidSelection(msg string, meta map[string]string) error {
	return &AppError{Code: CodeInvalidSelection, Message: msg, Meta: meta}
}

// ErrGenerationFailed wraps a content-generation failure behind the generic
// user-facing message.
func ErrGenerationFailed(cause error) error {
	return &AppError{Code: CodeGenerationFailed, Message: "could not build itinerary", Cause: cause}
}

// CodeOf returns the AppError code carried by err, or "" when err is not an AppError.
func CodeOf(err error) ErrCode {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}
