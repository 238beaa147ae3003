package model

import (
	"slices"

	"github.com/secmon-lab/charforge/pkg/domain/types"
)

// Sheet is the whole configurator state: field registry, user contributed
// values and the current selection. It is not safe for concurrent use.
type Sheet struct {
	fields    *Registry
	custom    CustomValueSet
	selection *Selection
}

// NewSheet returns a sheet with only the default fields and nothing selected
func NewSheet() *Sheet {
	return &Sheet{
		fields:    NewRegistry(),
		custom:    make(CustomValueSet),
		selection: NewSelection(),
	}
}

// Fields returns the field registry. Callers must not retain it across mutations.
func (s *Sheet) Fields() *Registry {
	return s.fields
}

// Selection returns a copy of the current selection
func (s *Sheet) Selection() *Selection {
	return s.selection.Clone()
}

// CustomValues returns a copy of the values added by the user for key
func (s *Sheet) CustomValues(key types.FieldKey) []string {
	return slices.Clone(s.custom[key])
}

// FieldsWithCustomValues returns fields that have at least one deletable
// value, in registry order
func (s *Sheet) FieldsWithCustomValues() []*FieldDefinition {
	var result []*FieldDefinition
	for _, f := range s.fields.Fields() {
		if len(s.custom[f.Key]) > 0 {
			result = append(result, f)
		}
	}
	return result
}

// AddField creates an empty custom field. It returns false when key already
// names a default or custom field.
func (s *Sheet) AddField(key types.FieldKey, name string) bool {
	if s.fields.Has(key) || key.IsDefault() {
		return false
	}
	s.fields.put(&FieldDefinition{
		Key:       key,
		Name:      name,
		Values:    []string{},
		IsDefault: false,
	})
	return true
}

// DeleteField removes a custom field together with its values and selection.
// Default and unknown fields are rejected with false.
func (s *Sheet) DeleteField(key types.FieldKey) bool {
	f, ok := s.fields.lookup(key)
	if !ok || f.IsDefault {
		return false
	}
	s.fields.remove(key)
	delete(s.custom, key)
	s.selection.Delete(key)
	return true
}

// AddValue appends value to the field and to its custom bucket. It returns
// false for an unknown field or an existing value.
func (s *Sheet) AddValue(key types.FieldKey, value string) bool {
	f, ok := s.fields.lookup(key)
	if !ok || f.HasValue(value) {
		return false
	}
	f.Values = append(f.Values, value)
	s.custom[key] = append(s.custom[key], value)
	return true
}

// DeleteValue removes a user contributed value. Only values in the custom
// bucket are deletable and seed values always stay in the field.
func (s *Sheet) DeleteValue(key types.FieldKey, value string) bool {
	bucket := s.custom[key]
	idx := slices.Index(bucket, value)
	if idx < 0 {
		return false
	}

	bucket = slices.Delete(bucket, idx, idx+1)
	if len(bucket) == 0 {
		delete(s.custom, key)
	} else {
		s.custom[key] = bucket
	}

	if f, ok := s.fields.lookup(key); ok && !IsSeedValue(key, value) {
		// custom values are appended after seeds, so the last match is ours
		if i := lastIndex(f.Values, value); i >= 0 {
			f.Values = slices.Delete(f.Values, i, i+1)
		}
	}

	if v, ok := s.selection.Get(key); ok && v == value {
		s.selection.Clear(key)
	}
	return true
}

// Select sets the chosen value for key without validation. An empty value
// means no selection.
func (s *Sheet) Select(key types.FieldKey, value string) {
	s.selection.Set(key, value)
}

// Prompt renders the current selection
func (s *Sheet) Prompt() string {
	return RenderPrompt(s.fields, s.selection)
}

// Clone returns a deep copy
func (s *Sheet) Clone() *Sheet {
	return &Sheet{
		fields:    s.fields.clone(),
		custom:    s.custom.clone(),
		selection: s.selection.Clone(),
	}
}

func lastIndex(values []string, value string) int {
	for i := len(values) - 1; i >= 0; i-- {
		if values[i] == value {
			return i
		}
	}
	return -1
}
