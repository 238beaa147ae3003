package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// FieldKey is the stable identifier of a character field
type FieldKey string

// Built-in field keys. They are seeded at startup and can never be deleted.
const (
	FieldKeyRace      FieldKey = "race"
	FieldKeyClass     FieldKey = "class"
	FieldKeyGender    FieldKey = "gender"
	FieldKeyEquipment FieldKey = "equipment"
	FieldKeyBodyType  FieldKey = "bodyType"
	FieldKeyEmotion   FieldKey = "emotion"
	FieldKeyArtStyle  FieldKey = "artStyle"
)

// DefaultFieldKeys returns the built-in keys in seed order
func DefaultFieldKeys() []FieldKey {
	return []FieldKey{
		FieldKeyRace,
		FieldKeyClass,
		FieldKeyGender,
		FieldKeyEquipment,
		FieldKeyBodyType,
		FieldKeyEmotion,
		FieldKeyArtStyle,
	}
}

// IsDefault reports whether k is one of the built-in keys
func (k FieldKey) IsDefault() bool {
	switch k {
	case FieldKeyRace,
		FieldKeyClass,
		FieldKeyGender,
		FieldKeyEquipment,
		FieldKeyBodyType,
		FieldKeyEmotion,
		FieldKeyArtStyle:
		return true
	default:
		return false
	}
}

// Validate checks that the key is usable as a field identifier
func (k FieldKey) Validate() error {
	if strings.TrimSpace(string(k)) == "" {
		return goerr.New("field key cannot be empty")
	}
	if strings.TrimSpace(string(k)) != string(k) {
		return goerr.New("field key must not have surrounding spaces", goerr.V("key", string(k)))
	}
	return nil
}

// String returns the string representation of FieldKey
func (k FieldKey) String() string {
	return string(k)
}
