package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrTransientStore    = errors.New("store unavailable")
	ErrSessionActive     = errors.New("a call session is already active")
	ErrInvalidTransition = errors.New("invalid call session transition")
)

// ValidationError reports a malformed or missing field. It is returned
// before any store call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StoreError wraps a remote read or write failure. The caller may retry;
// the core never does.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrTransientStore
}

// ClassifyStoreError leaves nil, not-found and validation errors as they are
// and wraps anything else as a StoreError for op.
func ClassifyStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) || errors.Is(err, ErrTransientStore) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// NotFound builds an error for a missing entity that matches ErrNotFound.
func NotFound(entity, id string) error {
	return fmt.Errorf("%s %q: %w", entity, id, ErrNotFound)
}
