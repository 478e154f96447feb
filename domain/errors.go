package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks malformed ids, unknown kinds, and missing
	// required fields. Never retried.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStorageUnavailable marks a failed read or write on the backing
	// store. Prior state is left unchanged; callers may retry.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// StorageError carries the failing operation and its cause while still
// matching ErrStorageUnavailable under errors.Is.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorageUnavailable }
