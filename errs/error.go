package errs

import (
	"errors"
	"fmt"
)

// Application error codes. They map the failure classes of the catalog onto
// a small vocabulary that the http package translates into status codes.
const (
	ECONFLICT     = "conflict"     // uniqueness violation, e.g. duplicate like or taken email
	EINTERNAL     = "internal"     // storage failure or programming error
	EINVALID      = "invalid"      // constraint violation on submitted fields
	ENOTFOUND     = "not_found"    // referenced resource does not exist
	EUNAUTHORIZED = "unauthorized" // actor may not perform the operation
)

// Error is an application error with a machine-readable code and a
// human-readable message.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface. Not used by the application itself,
// only for compatibility with logging etc.
func (e *Error) Error() string {
	return fmt.Sprintf("catalog error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper for constructing an Error with a formatted message.
func Errorf(code string, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}
