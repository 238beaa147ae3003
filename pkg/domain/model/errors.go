package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors of the character configurator
var (
	// ErrValidation is returned for missing or malformed input. No state changes.
	ErrValidation = goerr.New("validation error")
	// ErrAlreadyExists is returned when a field or value is already present. No state changes.
	ErrAlreadyExists = goerr.New("already exists")
	ErrFieldNotFound = goerr.New("field not found")
	// ErrNotDeletable is returned when the target is a default field, a seed value or unknown.
	ErrNotDeletable = goerr.New("not deletable")
	// ErrPersistence wraps storage failures. The in-memory effect is kept.
	ErrPersistence = goerr.New("persistence error")
	// ErrCaptureUnavailable is returned when no capturer is configured or it failed.
	ErrCaptureUnavailable = goerr.New("capture unavailable")
)

// Context keys for error values
const (
	FieldKeyKey   = "field_key"
	FieldNameKey  = "field_name"
	FieldValueKey = "field_value"
	RecordKeyKey  = "record_key"
)
