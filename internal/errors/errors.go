package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType classifies ingestion failures
type ErrorType string

const (
	ErrTypeNotFound      ErrorType = "RESOURCE_NOT_FOUND"
	ErrTypeMalformedData ErrorType = "MALFORMED_DATA"
	ErrTypeParsing       ErrorType = "PARSE_ERROR"
	ErrTypeMissingColumn ErrorType = "MISSING_COLUMN"
	ErrTypeValidation    ErrorType = "VALIDATION"
	ErrTypeStorage       ErrorType = "STORAGE"
	ErrTypeNetwork       ErrorType = "NETWORK"
	ErrTypeUnexpected    ErrorType = "UNEXPECTED"
)

// Sentinels for errors.Is. They match any *AppError of the same type.
var (
	ErrNotFound      = &AppError{Type: ErrTypeNotFound}
	ErrMalformedData = &AppError{Type: ErrTypeMalformedData}
	ErrParsing       = &AppError{Type: ErrTypeParsing}
	ErrMissingColumn = &AppError{Type: ErrTypeMissingColumn}
	ErrValidation    = &AppError{Type: ErrTypeValidation}
	ErrStorage       = &AppError{Type: ErrTypeStorage}
	ErrNetwork       = &AppError{Type: ErrTypeNetwork}
	ErrUnexpected    = &AppError{Type: ErrTypeUnexpected}
)

// AppError represents an ingestion error with the operation and resource it concerns
type AppError struct {
	Type     ErrorType
	Op       string
	Resource string
	Message  string
	Cause    error
	Context  map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Type)
	}
	if e.Resource != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Resource)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, msg, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, msg)
}

// Unwrap allows errors.Is and errors.As to reach the cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a sentinel of the same type
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Op == "" && t.Message == "" && t.Cause == nil && t.Type == e.Type
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, op, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Op:      op,
		Message: message,
		Cause:   cause,
	}
}

// NewNotFoundError creates a resource-not-found error
func NewNotFoundError(op, resource string, cause error) *AppError {
	return &AppError{Type: ErrTypeNotFound, Op: op, Resource: resource, Message: "resource not found", Cause: cause}
}

// NewMalformedDataError creates a malformed structured-data error
func NewMalformedDataError(op, resource string, cause error) *AppError {
	return &AppError{Type: ErrTypeMalformedData, Op: op, Resource: resource, Message: "malformed structured data", Cause: cause}
}

// NewParsingError creates a parse error
func NewParsingError(op, resource string, cause error) *AppError {
	return &AppError{Type: ErrTypeParsing, Op: op, Resource: resource, Message: "unable to parse csv", Cause: cause}
}

// NewMissingColumnError creates a missing-column error naming every absent column
func NewMissingColumnError(op string, columns []string) *AppError {
	return &AppError{
		Type:    ErrTypeMissingColumn,
		Op:      op,
		Message: fmt.Sprintf("missing column(s) %q", columns),
		Context: map[string]interface{}{"columns": columns},
	}
}

// NewValidationError creates a validation error
func NewValidationError(op, message string, cause error) *AppError {
	return NewAppError(ErrTypeValidation, op, message, cause)
}

// NewStorageError creates a filesystem error
func NewStorageError(op, resource string, cause error) *AppError {
	return &AppError{Type: ErrTypeStorage, Op: op, Resource: resource, Message: "storage failure", Cause: cause}
}

// NewNetworkError creates a network error
func NewNetworkError(op, resource string, cause error) *AppError {
	return &AppError{Type: ErrTypeNetwork, Op: op, Resource: resource, Message: "network failure", Cause: cause}
}

// Wrap classifies err as unexpected unless it already carries a type
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return err
	}
	return NewAppError(ErrTypeUnexpected, op, "unexpected error", err)
}

// TypeOf returns the type of the first AppError in err's chain
func TypeOf(err error) ErrorType {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrTypeUnexpected
}
