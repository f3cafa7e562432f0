package repository

import "errors"

// Sentinel kinds for venue store errors.
var (
	ErrNotFound     = errors.New("venue not found")
	ErrInvalidLimit = errors.New("invalid venue limit")
	ErrDuplicateID  = errors.New("duplicate venue id")
)
