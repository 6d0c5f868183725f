package repository

import "errors"

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when an identity email is already taken.
	ErrDuplicateEmail = errors.New("email already exists")
)
