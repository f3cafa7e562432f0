package config

import "errors"

var (
	// ErrLoadConfig wraps failures reading the YAML file or the environment.
	ErrLoadConfig = errors.New("config: load failed")
	// ErrInvalidConfig wraps the first setting Validate rejects.
	ErrInvalidConfig = errors.New("config: invalid value")
)
