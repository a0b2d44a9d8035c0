// Package errs holds the error kinds a pipeline run can fail with.
//
// Every kind is a struct type so callers can recover the context with
// errors.As. IOError, ParseError, StorageError and SchemaMismatch abort a run;
// NotFoundError is an expected outcome of read paths.
package errs

import (
	"errors"
	"fmt"
)

// IOError is returned when a source file or blob cannot be opened or read.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io error on %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ParseError reports a malformed snapshot document.
// Offset is the byte offset in the source, Record the number of records
// successfully decoded before the failure.
type ParseError struct {
	Offset int64
	Record int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed snapshot at byte %d (after %d records): %v", e.Offset, e.Record, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// StorageError wraps a failed write, read or commit against the store.
type StorageError struct {
	Op    string
	Phase string
	Err   error
}

func (e *StorageError) Error() string {
	if e.Phase != "" {
		return fmt.Sprintf("storage error during %s (%s): %v", e.Op, e.Phase, e.Err)
	}
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// SchemaMismatch is returned when a reference dataset lacks an object the
// store depends on, or defines one it must not.
type SchemaMismatch struct {
	Object string
	Reason string
}

func (e *SchemaMismatch) Error() string {
	return fmt.Sprintf("schema mismatch on %q: %s", e.Object, e.Reason)
}

// NotFoundError is a lookup miss.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Key)
}

// RunError is what a scheduler receives when a run fails.
type RunError struct {
	Run       string
	Phase     string
	Processed int
	Err       error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s run failed in phase %s after %d records: %v", e.Run, e.Phase, e.Processed, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
