package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by a store read when no record has the ID.
	ErrNotFound = errors.New("contact not found")

	// ErrStorage is matched by every StorageError.
	ErrStorage = errors.New("storage failure")

	// ErrFileNotFound is returned when an import source cannot be read.
	ErrFileNotFound = errors.New("file not found")

	// ErrWriteFailure is returned when an export destination cannot be written.
	ErrWriteFailure = errors.New("write failure")

	// ErrInvalidInput marks a malformed request body or parameter.
	ErrInvalidInput = errors.New("invalid input")

	// ErrBusy is returned when an import could not start in time because
	// another import held the store.
	ErrBusy = errors.New("another import is in progress")
)

// StorageError reports that the underlying medium was unreachable or
// rejected an operation. It is fatal to the operation in progress.
type StorageError struct {
	Op  string // Store operation: "create", "get", "list", "update", "delete"
	Err error
}

// NewStorageError wraps err as a failure of op. Returns nil if err is nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrStorage) true for any StorageError.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}
