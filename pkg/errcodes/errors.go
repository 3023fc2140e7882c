package errcodes

import (
	"fmt"
	"net/http"
)

type Error struct {
	HTTPCode int
	Message  string
	Code     string
}

func (err *Error) Error() string {
	return err.Message
}

func (err *Error) As(target interface{}) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	te.HTTPCode = err.HTTPCode
	te.Message = err.Message
	te.Code = err.Code
	return true
}

func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return te.HTTPCode == err.HTTPCode &&
		te.Message == err.Message &&
		te.Code == err.Code
}

// Forbidden returns a 403 error with a message indicating the action is
// forbidden.
func Forbidden(action string) error {
	return &Error{
		http.StatusForbidden,
		action + " is not allowed.",
		"forbidden",
	}
}

// OutsideRoot is the 403 returned for any path that escapes the served root.
// It never mentions the path itself.
func OutsideRoot() error {
	return Forbidden("Access outside the root directory")
}

// NotFound returns a 404 error with a message indicating the given resource.
func NotFound(resource string) error {
	return &Error{
		http.StatusNotFound,
		resource + " not found.",
		"not_found",
	}
}

// MissingParameter returns a 400 error for a required query parameter that
// was absent or empty.
func MissingParameter(param string) error {
	return &Error{
		http.StatusBadRequest,
		fmt.Sprintf("Missing required parameter %q.", param),
		"missing_parameter",
	}
}

// RepeatedParameter returns a 400 error for a query parameter given more
// than once.
func RepeatedParameter(param string) error {
	return &Error{
		http.StatusBadRequest,
		fmt.Sprintf("Parameter %q must be given only once.", param),
		"repeated_parameter",
	}
}

func ValidationTypeError(msg string) error {
	return &Error{
		http.StatusUnprocessableEntity,
		msg,
		"validation_type_error",
	}
}

func ValidationError(msg string) error {
	return &Error{
		http.StatusUnprocessableEntity,
		msg,
		"validation_error",
	}
}
