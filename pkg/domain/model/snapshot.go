package model

import (
	"bytes"
	"encoding/json"
	"slices"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/charforge/pkg/domain/types"
)

// Storage record keys
const (
	RecordCustomFields   = "dnd_custom_fields"
	RecordCustomValues   = "dnd_custom_values"
	RecordSelectedValues = "dnd_selected_values"
)

// RecordKeys returns all persisted record keys
func RecordKeys() []string {
	return []string{RecordCustomFields, RecordCustomValues, RecordSelectedValues}
}

// Snapshot is the persisted portion of a Sheet
type Snapshot struct {
	CustomFields []*FieldDefinition
	CustomValues CustomValueSet
	Selection    *Selection
}

// Snapshot captures the user contributed state of the sheet
func (s *Sheet) Snapshot() *Snapshot {
	fields := s.fields.CustomFields()
	for _, f := range fields {
		// values live in CustomValues; the field record only carries its shape
		f.Values = []string{}
	}
	return &Snapshot{
		CustomFields: fields,
		CustomValues: s.custom.clone(),
		Selection:    s.selection.Clone(),
	}
}

// RestoreIssue describes a persisted entry that was dropped while restoring
type RestoreIssue struct {
	Key    types.FieldKey
	Value  string
	Reason string
}

// RestoreSheet merges snap onto the default fields. Entries that would break
// registry invariants are skipped and reported.
func RestoreSheet(snap *Snapshot) (*Sheet, []RestoreIssue) {
	sheet := NewSheet()
	if snap == nil {
		return sheet, nil
	}

	var issues []RestoreIssue

	for _, f := range snap.CustomFields {
		if err := f.Key.Validate(); err != nil {
			issues = append(issues, RestoreIssue{Key: f.Key, Reason: "invalid field key"})
			continue
		}
		if !sheet.AddField(f.Key, f.Name) {
			issues = append(issues, RestoreIssue{Key: f.Key, Reason: "field key collides with an existing field"})
		}
	}

	keys := make([]types.FieldKey, 0, len(snap.CustomValues))
	for k := range snap.CustomValues {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, key := range keys {
		f, ok := sheet.fields.lookup(key)
		if !ok {
			issues = append(issues, RestoreIssue{Key: key, Reason: "custom values for unknown field"})
			continue
		}
		for _, value := range snap.CustomValues[key] {
			if value == "" || slices.Contains(sheet.custom[key], value) {
				issues = append(issues, RestoreIssue{Key: key, Value: value, Reason: "empty or duplicated custom value"})
				continue
			}
			sheet.custom[key] = append(sheet.custom[key], value)
			if !f.HasValue(value) {
				f.Values = append(f.Values, value)
			}
		}
	}

	for _, key := range snap.Selection.Keys() {
		value := snap.Selection.Value(key)
		f, ok := sheet.fields.lookup(key)
		if !ok {
			issues = append(issues, RestoreIssue{Key: key, Value: value, Reason: "selection for unknown field"})
			continue
		}
		if value != "" && !f.HasValue(value) {
			issues = append(issues, RestoreIssue{Key: key, Value: value, Reason: "selected value no longer exists"})
			continue
		}
		sheet.selection.Set(key, value)
	}

	return sheet, issues
}

// EncodeRecords serializes the snapshot into storage records keyed by the
// Record* constants
func (s *Snapshot) EncodeRecords() (map[string]string, error) {
	fields, err := encodeCustomFields(s.CustomFields)
	if err != nil {
		return nil, err
	}

	values := s.CustomValues
	if values == nil {
		values = CustomValueSet{}
	}
	valuesJSON, err := json.Marshal(values)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode custom values", goerr.V(RecordKeyKey, RecordCustomValues))
	}

	selection := s.Selection
	if selection == nil {
		selection = NewSelection()
	}
	selectionJSON, err := selection.MarshalJSON()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode selection", goerr.V(RecordKeyKey, RecordSelectedValues))
	}

	return map[string]string{
		RecordCustomFields:   string(fields),
		RecordCustomValues:   string(valuesJSON),
		RecordSelectedValues: string(selectionJSON),
	}, nil
}

// DecodeSnapshot parses storage records. Missing or empty records are treated
// as empty.
func DecodeSnapshot(records map[string]string) (*Snapshot, error) {
	snap := &Snapshot{
		CustomValues: CustomValueSet{},
		Selection:    NewSelection(),
	}

	if data := records[RecordCustomFields]; data != "" {
		fields, err := decodeCustomFields([]byte(data))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to decode custom fields", goerr.V(RecordKeyKey, RecordCustomFields))
		}
		snap.CustomFields = fields
	}

	if data := records[RecordCustomValues]; data != "" {
		if err := json.Unmarshal([]byte(data), &snap.CustomValues); err != nil {
			return nil, goerr.Wrap(err, "failed to decode custom values", goerr.V(RecordKeyKey, RecordCustomValues))
		}
		if snap.CustomValues == nil {
			snap.CustomValues = CustomValueSet{}
		}
	}

	if data := records[RecordSelectedValues]; data != "" {
		if err := snap.Selection.UnmarshalJSON([]byte(data)); err != nil {
			return nil, goerr.Wrap(err, "failed to decode selection", goerr.V(RecordKeyKey, RecordSelectedValues))
		}
	}

	return snap, nil
}

func encodeCustomFields(fields []*FieldDefinition) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(string(f.Key))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to encode field key", goerr.V(FieldKeyKey, f.Key))
		}
		v, err := json.Marshal(f)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to encode field", goerr.V(FieldKeyKey, f.Key))
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func decodeCustomFields(data []byte) ([]*FieldDefinition, error) {
	var fields []*FieldDefinition
	err := decodeOrderedObject(data, func(key string, raw json.RawMessage) error {
		var f FieldDefinition
		if err := json.Unmarshal(raw, &f); err != nil {
			return goerr.Wrap(err, "invalid field record", goerr.V(FieldKeyKey, key))
		}
		f.Key = types.FieldKey(key)
		f.IsDefault = false
		fields = append(fields, &f)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fields, nil
}
