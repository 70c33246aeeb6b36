package topology

import (
	"errors"
	"fmt"
)

// NotFoundError is returned when the input cannot be opened or read.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("input %q not found or unreadable: %v", e.Path, e.Err)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// ParseError is returned when the input is not valid JSON.
// Line is 1-based and only set in line-delimited mode.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %q line %d: %v", e.Path, e.Line, e.Err)
	}

	return fmt.Sprintf("parse %q: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SchemaError reports a missing or malformed key in an otherwise valid document.
// Index is the geometry position within the layer, or -1 for document level keys.
type SchemaError struct {
	Path   string
	Field  string
	Reason string
	Index  int
}

func (e *SchemaError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("schema %q: geometry %d: %s %s", e.Path, e.Index, e.Field, e.Reason)
	}

	return fmt.Sprintf("schema %q: %s %s", e.Path, e.Field, e.Reason)
}

// IsNotFound reports whether err carries a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsParse reports whether err carries a ParseError.
func IsParse(err error) bool {
	var target *ParseError
	return errors.As(err, &target)
}

// IsSchema reports whether err carries a SchemaError.
func IsSchema(err error) bool {
	var target *SchemaError
	return errors.As(err, &target)
}
