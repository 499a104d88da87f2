package types

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed input to a component contract: a bad
// query limit, a non-finite observation field, or a record violating the
// score invariant. It never indicates store corruption.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation: %s", e.Reason)
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// Validationf builds a ValidationError for field with a formatted reason.
func Validationf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// RowError is a non-fatal per-row parse failure during ingestion. The
// pipeline counts it and moves on to the next row.
type RowError struct {
	Row int // 1-based data row number, excluding the header
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// IsRowError reports whether err is (or wraps) a RowError.
func IsRowError(err error) bool {
	var re *RowError
	return errors.As(err, &re)
}

// StorageError reports that the record store is unreachable or rejected a
// write. It aborts the current ingestion run or query; rows already committed
// stay committed.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Storagef wraps err as a StorageError for the named operation.
func Storagef(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// IsStorage reports whether err is (or wraps) a StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
