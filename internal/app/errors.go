package service

import "errors"

// Sentinel error kinds for this package.
var (
	// ErrNotStarted is returned by queries issued before Start succeeded.
	ErrNotStarted = errors.New("service not started")
	// ErrNoSource means the service was built without a dataset source.
	ErrNoSource = errors.New("no dataset source configured")
)
