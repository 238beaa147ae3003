package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrInvalidConfig = goerr.New("invalid configuration")
	ErrInvalidField  = goerr.New("invalid catalog field")
	ErrDuplicateKey  = goerr.New("duplicate field key")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	FieldKeyKey   = "field_key"
	FieldIndexKey = "field_index"
)
