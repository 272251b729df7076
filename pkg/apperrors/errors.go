package apperrors

import "fmt"

// Kind is one of the four stable error classifications the registry core
// returns. It maps 1:1 to an HTTP status code at the internal/httpapi
// boundary, but this package has no knowledge of HTTP.
type Kind string

const (
	KindNotFound      Kind = "not_found"
	KindValidation    Kind = "validation"
	KindAuthorization Kind = "authorization"
	KindInternal      Kind = "internal"
)

// Error is the error type every exported registry operation returns on
// failure.
type Error struct {
	Kind    Kind
	Message string
	Details string
	Cause   error
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetails attaches extra context to an existing error and returns the
// same instance for chaining.
func (e *Error) WithDetails(details string) *Error {
	e.Details = details
	return e
}

// WithDetailsf is WithDetails with fmt.Sprintf formatting.
func (e *Error) WithDetailsf(format string, args ...interface{}) *Error {
	e.Details = fmt.Sprintf(format, args...)
	return e
}

// New creates an *Error of the given kind with no underlying cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf is New with fmt.Sprintf formatting on the message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error of the given kind carrying cause as its Unwrap
// target.
func Wrap(cause error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Wrapf is Wrap with fmt.Sprintf formatting on the message.
func Wrapf(cause error, kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// NotFound is a convenience constructor for the NotFound kind.
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// NotFoundf is NotFound with fmt.Sprintf formatting.
func NotFoundf(format string, args ...interface{}) *Error {
	return Newf(KindNotFound, format, args...)
}

// Validation is a convenience constructor for the Validation kind.
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// Validationf is Validation with fmt.Sprintf formatting.
func Validationf(format string, args ...interface{}) *Error {
	return Newf(KindValidation, format, args...)
}

// Authorization is a convenience constructor for the Authorization kind.
func Authorization(message string) *Error {
	return New(KindAuthorization, message)
}

// Internal is a convenience constructor for the Internal kind.
func Internal(message string) *Error {
	return New(KindInternal, message)
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	ae, ok := err.(*Error)
	if !ok {
		return false
	}
	return ae.Kind == kind
}

// As extracts the *Error from err, if any.
func As(err error) (*Error, bool) {
	ae, ok := err.(*Error)
	return ae, ok
}
