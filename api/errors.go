package api

import (
	"errors"
	"fmt"
)

// InvalidConfigError is returned by the parser facade when a raw payload is
// malformed or missing a field required for the variant it dispatches to.
// A missing uuid is deliberately not one of these cases.
type InvalidConfigError struct {
	msg string
}

func (e *InvalidConfigError) Error() string { return e.msg }

func errInvalidConfig(format string, args ...interface{}) error {
	return &InvalidConfigError{msg: fmt.Sprintf(format, args...)}
}

// NewInvalidConfigError lets callers outside this package (the parser) raise
// the same error kind.
func NewInvalidConfigError(format string, args ...interface{}) error {
	return errInvalidConfig(format, args...)
}

// IsInvalidConfig reports whether err is (or wraps) an InvalidConfigError.
func IsInvalidConfig(err error) bool {
	var e *InvalidConfigError
	return errors.As(err, &e)
}
