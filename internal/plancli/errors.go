package plancli

import "errors"

// Sentinel kinds for planner errors.
var (
	ErrUsage  = errors.New("usage")
	ErrRemote = errors.New("remote planner request failed")
)
