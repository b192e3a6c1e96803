// Package errors provides coded errors for pubmirror.
//
// Every error that leaves a package boundary carries an ErrorCode so that
// callers and tests can branch on the category of failure without string
// matching. Skip conditions of the mirror engine are not errors and never
// use this package.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown        ErrorCode = "UNKNOWN"
	ErrInternal       ErrorCode = "INTERNAL"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrNotImplemented ErrorCode = "NOT_IMPLEMENTED"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Path resolution errors
	ErrDestResolve   ErrorCode = "DEST_RESOLVE"
	ErrIgnorePattern ErrorCode = "IGNORE_PATTERN"

	// FileSystem errors
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrFileCopy      ErrorCode = "FILE_COPY"
	ErrFileRemove    ErrorCode = "FILE_REMOVE"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrDirCreate     ErrorCode = "DIR_CREATE"

	// Index rewrite errors
	ErrIndexRewrite ErrorCode = "INDEX_REWRITE"

	// Upload errors
	ErrDiskNotFound ErrorCode = "DISK_NOT_FOUND"
	ErrDiskInvalid  ErrorCode = "DISK_INVALID"
	ErrUploadClient ErrorCode = "UPLOAD_CLIENT"
	ErrUploadFailed ErrorCode = "UPLOAD_FAILED"
	ErrUploadBatch  ErrorCode = "UPLOAD_BATCH"
	ErrUnknownEvent ErrorCode = "UNKNOWN_EVENT"
)

// PubmirrorError represents a structured error with code and details
type PubmirrorError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *PubmirrorError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *PubmirrorError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *PubmirrorError) Is(target error) bool {
	var targetErr *PubmirrorError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new PubmirrorError with the given code and message
func New(code ErrorCode, message string) *PubmirrorError {
	return &PubmirrorError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new PubmirrorError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *PubmirrorError {
	return &PubmirrorError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a PubmirrorError
func Wrap(err error, code ErrorCode, message string) *PubmirrorError {
	if err == nil {
		return nil
	}
	return &PubmirrorError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *PubmirrorError {
	if err == nil {
		return nil
	}
	return &PubmirrorError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *PubmirrorError) WithDetail(key string, value interface{}) *PubmirrorError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *PubmirrorError) WithDetails(details map[string]interface{}) *PubmirrorError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var pmErr *PubmirrorError
	if errors.As(err, &pmErr) {
		return pmErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a PubmirrorError
func GetErrorCode(err error) ErrorCode {
	var pmErr *PubmirrorError
	if errors.As(err, &pmErr) {
		return pmErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a PubmirrorError
func GetErrorDetails(err error) map[string]interface{} {
	var pmErr *PubmirrorError
	if errors.As(err, &pmErr) {
		return pmErr.Details
	}
	return nil
}
