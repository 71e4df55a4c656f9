package store

import "errors"

// ErrNotFound is returned when a requested row does not exist or has been
// soft-deleted.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert would violate a uniqueness
// constraint (admin username/email).
var ErrDuplicate = errors.New("already exists")
