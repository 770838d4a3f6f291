// Package grouping scans a source directory and buckets exported halves by year-page identifier.
package grouping

import "fmt"

// ScanError represents a failure to list the source directory or an invalid file pattern.
type ScanError struct {
	Dir     string
	Message string
	Cause   error
}

func (e *ScanError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("scan error: %s (%s): %v", e.Message, e.Dir, e.Cause)
	}
	return fmt.Sprintf("scan error: %s (%s)", e.Message, e.Dir)
}

func (e *ScanError) Unwrap() error {
	return e.Cause
}
