package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the caller is authenticated but lacks the required permission.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates that the caller could not be identified.
var ErrUnauthorized = errors.New("unauthorized")

// ErrMalformedRecord indicates that a stored voucher document is missing a required field.
var ErrMalformedRecord = errors.New("malformed record")

// ErrInvalidGroupingSpec indicates that an aggregation was requested with an unsupported grouping.
var ErrInvalidGroupingSpec = errors.New("invalid grouping spec")

// AppError carries an HTTP-ish status code alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// MalformedRecordError identifies the stored record and the required field it lacks.
type MalformedRecordError struct {
	RecordID string
	Field    string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record %s: missing required field %q", e.RecordID, e.Field)
}

// Is lets errors.Is(err, ErrMalformedRecord) match any MalformedRecordError.
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}
