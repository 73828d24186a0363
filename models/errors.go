package models

import (
	"errors"
	"fmt"
)

// NotFoundError reports that a referenced list or task does not exist. It is
// an expected control-flow outcome, never fatal.
type NotFoundError struct {
	Resource string // "list" or "task"
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// NewNotFound builds a NotFoundError for the given resource kind and id.
func NewNotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// DuplicateNameError reports a case-insensitive list name collision.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("a list named %q already exists", e.Name)
}

// IsDuplicateName reports whether err is (or wraps) a DuplicateNameError.
func IsDuplicateName(err error) bool {
	var target *DuplicateNameError
	return errors.As(err, &target)
}

// StorageReadError reports that both the primary and the backup document
// were unreadable. The store recovers from it internally; it surfaces only
// in logs.
type StorageReadError struct {
	Path string
	Err  error
}

func (e *StorageReadError) Error() string {
	return fmt.Sprintf("read document %s: %v", e.Path, e.Err)
}

func (e *StorageReadError) Unwrap() error { return e.Err }

// StorageWriteError reports a failure anywhere in the backup-copy,
// temp-write, rename sequence. The in-memory mutation it interrupted is not
// durable and the operation must be reported as failed.
type StorageWriteError struct {
	Path string
	Err  error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("write document %s: %v", e.Path, e.Err)
}

func (e *StorageWriteError) Unwrap() error { return e.Err }

// IsStorageWrite reports whether err is (or wraps) a StorageWriteError.
func IsStorageWrite(err error) bool {
	var target *StorageWriteError
	return errors.As(err, &target)
}
