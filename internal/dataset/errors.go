package dataset

import (
	"fmt"
	"strings"
)

// LoadError is returned when the dataset source cannot be opened or read.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ParseError reports a malformed delimited file. Line is 1-based and zero when
// the position is unknown.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	var result strings.Builder

	result.WriteString(fmt.Sprintf("parse %s", e.Path))
	if e.Line > 0 {
		result.WriteString(fmt.Sprintf(": line %d", e.Line))
	}
	result.WriteString(": ")
	result.WriteString(e.Message)

	return result.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SchemaError is returned when a column the caller depends on is absent.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("Column '%s' not found in the dataset.", e.Column)
}
