package config

import "errors"

// ErrInvalidConfig is returned for settings that cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")
