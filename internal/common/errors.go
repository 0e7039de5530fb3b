package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidState    = errors.New("invalid document state")
	ErrInternal        = errors.New("internal error")
	ErrValidation      = errors.New("validation failed")
	ErrNoSelection     = errors.New("no documents selected")
	ErrPreviewFailed   = errors.New("preview conversion failed")
	ErrExtractFailed   = errors.New("extraction failed")
	ErrTemplateInUse   = errors.New("template is referenced by documents")
	ErrUnknownTemplate = errors.New("unknown template reference")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
