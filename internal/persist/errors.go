package persist

import (
	"errors"
	"fmt"
)

// Op identifies the failing side of a persistence call.
type Op string

const (
	// OpRead covers gateway Get failures and undecodable payloads.
	OpRead Op = "read"

	// OpWrite covers encode failures and gateway Set failures.
	OpWrite Op = "write"
)

// StorageError reports a failed load or save of one key.
//
// Stores never return it from mutating methods; it reaches the log and the
// optional OnPersistError hook only.
type StorageError struct {
	Op  Op
	Key string
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsReadError returns true if err is a StorageError from a load.
func IsReadError(err error) bool {
	var se *StorageError
	if errors.As(err, &se) {
		return se.Op == OpRead
	}
	return false
}

// IsWriteError returns true if err is a StorageError from a save.
func IsWriteError(err error) bool {
	var se *StorageError
	if errors.As(err, &se) {
		return se.Op == OpWrite
	}
	return false
}
