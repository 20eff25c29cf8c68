package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicateKey is returned when an insert violates a unique
	// constraint, e.g. a second report for the same (year, owner).
	ErrDuplicateKey = errors.New("duplicate key")
)
