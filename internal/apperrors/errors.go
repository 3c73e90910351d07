// Package apperrors defines the error types shared by the stores and the
// sync orchestrator.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotInitialized    = errors.New("store not initialized")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidInput      = errors.New("invalid input")
)

// StorageInitError means the host refused persistent storage. Every
// operation on the affected store fails until it is initialized again.
type StorageInitError struct {
	Store string
	Err   error
}

func (e *StorageInitError) Error() string {
	return fmt.Sprintf("%s: persistent storage unavailable: %v", e.Store, e.Err)
}

func (e *StorageInitError) Unwrap() error {
	return e.Err
}

// EncodingError means a photo payload could not be serialized or restored.
type EncodingError struct {
	PhotoID string
	Err     error
}

func (e *EncodingError) Error() string {
	if e.PhotoID == "" {
		return fmt.Sprintf("photo encoding failed: %v", e.Err)
	}
	return fmt.Sprintf("photo %s: encoding failed: %v", e.PhotoID, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// RemoteRejectionError wraps a failed call to the backend data service.
type RemoteRejectionError struct {
	Op     string
	ItemID string
	Err    error
}

func (e *RemoteRejectionError) Error() string {
	if e.ItemID == "" {
		return fmt.Sprintf("%s rejected: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s rejected: %v", e.Op, e.ItemID, e.Err)
}

func (e *RemoteRejectionError) Unwrap() error {
	return e.Err
}

func Remote(op, itemID string, err error) error {
	if err == nil {
		return nil
	}
	return &RemoteRejectionError{Op: op, ItemID: itemID, Err: err}
}

// Invalid wraps ErrInvalidInput with a reason.
func Invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func IsStorageInit(err error) bool {
	var target *StorageInitError
	return errors.As(err, &target)
}

func IsRemoteRejection(err error) bool {
	var target *RemoteRejectionError
	return errors.As(err, &target)
}

func IsEncoding(err error) bool {
	var target *EncodingError
	return errors.As(err, &target)
}
