package config

import "errors"

var (
	ErrParse   = errors.New("config: failed to parse environment")
	ErrInvalid = errors.New("config: invalid configuration")
)
