package config

import "errors"

var (
	ErrInvalidConfig     = errors.New("invalid config")
	ErrMissingRequired   = errors.New("missing required config value")
	ErrInvalidFilterType = errors.New("filter-type must be allow or deny")
)
