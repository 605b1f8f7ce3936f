// internal/pkg/apperror/apperror.go
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error into one of the caller-visible categories.
type Kind int

const (
	KindInvalidInput Kind = iota + 1
	KindNotFound
	KindConflict
	KindInternal
)

// Stable machine-readable codes carried alongside the category.
const (
	CodeInvalidInput      = "invalid_input"
	CodeNotFound          = "not_found"
	CodeConflict          = "conflict"
	CodeInsufficientStock = "insufficient_stock"
	CodeUnavailable       = "product_unavailable"
	CodeEmptyCart         = "empty_cart"
	CodeMalformedCartLine = "malformed_cart_line"
	CodeInternal          = "internal_error"
)

// Error is a categorized application error. Services return it so handlers
// can map the category to an HTTP status without parsing messages.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Invalid creates an InvalidInput error.
func Invalid(code, format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidInput, Code: code, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a NotFound error.
func NotFound(code, format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Conflict creates a business-rule conflict error (stock, availability).
func Conflict(code, format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Internal creates a generic internal error wrapping the underlying cause.
// The cause is kept for logging but never rendered to the caller.
func Internal(err error) *Error {
	return &Error{
		Kind:    KindInternal,
		Code:    CodeInternal,
		Message: "an internal error occurred",
		Err:     err,
	}
}

// As unwraps err into an *Error, if it is one.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}

// HTTPStatus maps an error category to the status code handlers respond with.
func HTTPStatus(err error) int {
	appErr, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
