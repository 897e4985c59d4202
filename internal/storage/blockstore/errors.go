package blockstore

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates that a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrStoreClosed indicates that the store has been closed.
	ErrStoreClosed = errors.New("store is closed")

	// ErrUnsupportedBackend indicates an unknown storage backend name.
	ErrUnsupportedBackend = errors.New("unsupported storage backend")

	// ErrInvalidRange indicates a slot range whose start exceeds its end.
	ErrInvalidRange = errors.New("invalid slot range")

	// ErrCorruptPayload indicates a stored shred payload whose frame could
	// not be decoded.
	ErrCorruptPayload = errors.New("corrupt payload frame")
)

// StoreError wraps an error with the operation and slot it occurred on.
type StoreError struct {
	Op   string // The operation that failed
	Slot uint64 // The slot involved
	Cause error // The underlying error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("blockstore %s failed for slot %d: %v", e.Op, e.Slot, e.Cause)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error.
func (e *StoreError) Is(target error) bool {
	return errors.Is(e.Cause, target)
}

// newStoreError creates a new StoreError.
func newStoreError(op string, slot uint64, cause error) *StoreError {
	return &StoreError{Op: op, Slot: slot, Cause: cause}
}
