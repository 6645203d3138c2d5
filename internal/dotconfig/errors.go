package dotconfig

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a source has no configuration text for a path.
var ErrNotFound = errors.New("no formatter configuration found")

// NotFoundError wraps ErrNotFound with the path that was asked for.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, ErrNotFound)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// InvalidFormatError reports configuration text that did not parse into a
// structured option set.
type InvalidFormatError struct {
	Path   string
	Detail string
	Err    error
}

func (e *InvalidFormatError) Error() string {
	msg := fmt.Sprintf("invalid formatter configuration in %s", e.Path)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidFormatError) Unwrap() error {
	return e.Err
}
