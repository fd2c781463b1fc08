package domain

import (
    "errors"
    "fmt"
)

// ErrNotFound marks operations that reference a sprint or ticket id that
// does not exist. Callers check it with errors.Is.
var ErrNotFound = errors.New("not found")

// ValidationError aborts an operation before any state change. Field names
// the offending input (a team name, a day token, a missing column).
type ValidationError struct {
    Field string
    Msg   string
}

func (e *ValidationError) Error() string {
    if e.Field == "" { return e.Msg }
    return e.Field + ": " + e.Msg
}

func Invalidf(field, format string, args ...any) *ValidationError {
    return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
    var ve *ValidationError
    return errors.As(err, &ve)
}
