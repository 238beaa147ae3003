package model

import (
	"bytes"
	"encoding/json"

	"github.com/elliotchance/orderedmap/v3"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/charforge/pkg/domain/types"
)

// Selection holds the chosen value per field in insertion order. An empty
// value means the field is present but unselected.
type Selection struct {
	values *orderedmap.OrderedMap[types.FieldKey, string]
}

// NewSelection returns an empty selection
func NewSelection() *Selection {
	return &Selection{values: orderedmap.NewOrderedMap[types.FieldKey, string]()}
}

func (s *Selection) init() {
	if s.values == nil {
		s.values = orderedmap.NewOrderedMap[types.FieldKey, string]()
	}
}

// Set stores value for key. Re-selecting a key keeps its original position.
func (s *Selection) Set(key types.FieldKey, value string) {
	s.init()
	s.values.Set(key, value)
}

// Get returns the stored value and whether key is present at all
func (s *Selection) Get(key types.FieldKey) (string, bool) {
	if s == nil || s.values == nil {
		return "", false
	}
	return s.values.Get(key)
}

// Value returns the selected value or "" when unselected
func (s *Selection) Value(key types.FieldKey) string {
	v, _ := s.Get(key)
	return v
}

// Clear keeps key but marks it unselected
func (s *Selection) Clear(key types.FieldKey) {
	if _, ok := s.Get(key); ok {
		s.values.Set(key, "")
	}
}

// Delete removes key entirely
func (s *Selection) Delete(key types.FieldKey) {
	if s == nil || s.values == nil {
		return
	}
	s.values.Delete(key)
}

// Len returns the number of keys, selected or not
func (s *Selection) Len() int {
	if s == nil || s.values == nil {
		return 0
	}
	return s.values.Len()
}

// Keys returns keys in insertion order
func (s *Selection) Keys() []types.FieldKey {
	if s == nil || s.values == nil {
		return nil
	}
	keys := make([]types.FieldKey, 0, s.values.Len())
	for el := s.values.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Key)
	}
	return keys
}

// Clone returns an independent copy
func (s *Selection) Clone() *Selection {
	c := NewSelection()
	if s == nil || s.values == nil {
		return c
	}
	for el := s.values.Front(); el != nil; el = el.Next() {
		c.values.Set(el.Key, el.Value)
	}
	return c
}

// MarshalJSON encodes the selection as an object preserving insertion order.
// Unselected keys are written as null.
func (s *Selection) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range s.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(string(key))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to encode selection key", goerr.V(FieldKeyKey, key))
		}
		buf.Write(k)
		buf.WriteByte(':')

		value := s.Value(key)
		if value == "" {
			buf.WriteString("null")
			continue
		}
		v, err := json.Marshal(value)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to encode selection value", goerr.V(FieldKeyKey, key))
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object keeping the document order of its keys
func (s *Selection) UnmarshalJSON(data []byte) error {
	s.values = orderedmap.NewOrderedMap[types.FieldKey, string]()
	return decodeOrderedObject(data, func(key string, raw json.RawMessage) error {
		var value *string
		if err := json.Unmarshal(raw, &value); err != nil {
			return goerr.Wrap(err, "selection value must be a string or null", goerr.V(FieldKeyKey, key))
		}
		if value == nil {
			s.values.Set(types.FieldKey(key), "")
			return nil
		}
		s.values.Set(types.FieldKey(key), *value)
		return nil
	})
}

// decodeOrderedObject walks a JSON object and calls fn for every member in
// document order
func decodeOrderedObject(data []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return goerr.Wrap(err, "failed to read JSON object")
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return goerr.New("JSON object expected", goerr.V("token", tok))
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return goerr.Wrap(err, "failed to read JSON object key")
		}
		key, ok := tok.(string)
		if !ok {
			return goerr.New("JSON object key expected", goerr.V("token", tok))
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return goerr.Wrap(err, "failed to read JSON object member", goerr.V("key", key))
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}

	if _, err := dec.Token(); err != nil {
		return goerr.Wrap(err, "failed to close JSON object")
	}
	return nil
}
