package submission

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a persistence failure.
type ErrorCode string

const (
	CodeDatabaseInsertFailed ErrorCode = "DATABASE_INSERT_FAILED"
	CodeDocumentUploadFailed ErrorCode = "DOCUMENT_UPLOAD_FAILED"
	CodeApplicationNotFound  ErrorCode = "APPLICATION_NOT_FOUND"
	CodeInvalidDocument      ErrorCode = "INVALID_DOCUMENT"
	CodeInvalidApplication   ErrorCode = "INVALID_APPLICATION"
)

// Error is the {code, message} failure reported by the persistence
// collaborator. Err, when set, is the underlying driver error.
type Error struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Retryable bool      `json:"retryable"`
	Err       error     `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewInsertFailedError wraps a failed application insert.
func NewInsertFailedError(err error, retryable bool) *Error {
	return &Error{
		Code:      CodeDatabaseInsertFailed,
		Message:   "failed to store loan application",
		Retryable: retryable,
		Err:       err,
	}
}

// NewUploadFailedError wraps a failed document upload.
func NewUploadFailedError(err error, retryable bool) *Error {
	return &Error{
		Code:      CodeDocumentUploadFailed,
		Message:   "failed to store application document",
		Retryable: retryable,
		Err:       err,
	}
}

// NewApplicationNotFoundError reports an unknown application id.
func NewApplicationNotFoundError(applicationID string) *Error {
	return &Error{
		Code:    CodeApplicationNotFound,
		Message: fmt.Sprintf("application %s not found", applicationID),
	}
}

// NewInvalidDocumentError reports a document that cannot be stored.
func NewInvalidDocumentError(details string) *Error {
	return &Error{Code: CodeInvalidDocument, Message: details}
}

// NewInvalidApplicationError reports an application that cannot be submitted.
func NewInvalidApplicationError(details string) *Error {
	return &Error{Code: CodeInvalidApplication, Message: details}
}

// CodeOf returns the ErrorCode carried by err, or "" if err is not an *Error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsRetryable reports whether err is an *Error marked retryable.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}
