// Package merging concatenates the two halves of a benchmark page into one output file.
package merging

import (
	"errors"
	"fmt"
)

// CardinalityError means a group did not hold exactly one pair of files.
type CardinalityError struct {
	Identifier string
	Count      int
}

func (e *CardinalityError) Error() string {
	return fmt.Sprintf("expected 2 files for %s, found %d", e.Identifier, e.Count)
}

// OrderError means the part markers of a pair could not establish which half comes first.
type OrderError struct {
	Identifier string
	Message    string
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("cannot order halves of %s: %s", e.Identifier, e.Message)
}

// HeaderMismatchError means the secondary header differs from the primary header.
type HeaderMismatchError struct {
	Identifier string
	Primary    string
	Secondary  string
}

func (e *HeaderMismatchError) Error() string {
	return fmt.Sprintf("header mismatch for %s: %q vs %q", e.Identifier, e.Primary, e.Secondary)
}

// EncodingError means an input line is not valid UTF-8.
type EncodingError struct {
	Path string
	Line int
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding error: %s line %d is not valid UTF-8", e.Path, e.Line)
}

// IOError represents a failure to read an input or write the output.
type IOError struct {
	Op    string
	Path  string
	Cause error
}

func (e *IOError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("io error: %s %s: %v", e.Op, e.Path, e.Cause)
	}
	return fmt.Sprintf("io error: %s %s", e.Op, e.Path)
}

func (e *IOError) Unwrap() error {
	return e.Cause
}

// IsSkip reports whether err describes a group that should be skipped
// rather than a failure of the run.
func IsSkip(err error) bool {
	var cardErr *CardinalityError
	var orderErr *OrderError
	var headerErr *HeaderMismatchError
	return errors.As(err, &cardErr) || errors.As(err, &orderErr) || errors.As(err, &headerErr)
}
