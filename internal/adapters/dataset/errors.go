package dataset

import (
	"errors"
)

// Sentinel error kinds for this package. Use errors.Is to test for them.
var (
	// ErrUnavailable means the backing file or database could not be read.
	ErrUnavailable = errors.New("dataset unavailable")
	// ErrMissingColumn means a required CSV column is absent from the header.
	ErrMissingColumn = errors.New("dataset missing required column")
)
