package model

import (
	"github.com/elliotchance/orderedmap/v3"
	"github.com/secmon-lab/charforge/pkg/domain/types"
)

// Registry is the ordered set of field definitions. Default fields come first
// in seed order, custom fields follow in creation order.
type Registry struct {
	fields *orderedmap.OrderedMap[types.FieldKey, *FieldDefinition]
}

// NewRegistry returns a registry seeded with the default fields
func NewRegistry() *Registry {
	r := &Registry{fields: orderedmap.NewOrderedMap[types.FieldKey, *FieldDefinition]()}
	for _, f := range DefaultFields() {
		r.fields.Set(f.Key, f)
	}
	return r
}

// Get returns a copy of the field definition
func (r *Registry) Get(key types.FieldKey) (*FieldDefinition, bool) {
	f, ok := r.fields.Get(key)
	if !ok {
		return nil, false
	}
	return f.clone(), true
}

// Has reports whether key names a default or custom field
func (r *Registry) Has(key types.FieldKey) bool {
	_, ok := r.fields.Get(key)
	return ok
}

// Len returns the number of fields
func (r *Registry) Len() int {
	return r.fields.Len()
}

// Fields returns copies of all fields in registry order
func (r *Registry) Fields() []*FieldDefinition {
	result := make([]*FieldDefinition, 0, r.fields.Len())
	for el := r.fields.Front(); el != nil; el = el.Next() {
		result = append(result, el.Value.clone())
	}
	return result
}

// CustomFields returns copies of the user created fields in creation order
func (r *Registry) CustomFields() []*FieldDefinition {
	var result []*FieldDefinition
	for el := r.fields.Front(); el != nil; el = el.Next() {
		if !el.Value.IsDefault {
			result = append(result, el.Value.clone())
		}
	}
	return result
}

// FindByName returns the first field whose display name equals name
func (r *Registry) FindByName(name string) (*FieldDefinition, bool) {
	for el := r.fields.Front(); el != nil; el = el.Next() {
		if el.Value.Name == name {
			return el.Value.clone(), true
		}
	}
	return nil, false
}

func (r *Registry) lookup(key types.FieldKey) (*FieldDefinition, bool) {
	return r.fields.Get(key)
}

func (r *Registry) put(f *FieldDefinition) {
	r.fields.Set(f.Key, f)
}

func (r *Registry) remove(key types.FieldKey) {
	r.fields.Delete(key)
}

func (r *Registry) clone() *Registry {
	c := &Registry{fields: orderedmap.NewOrderedMap[types.FieldKey, *FieldDefinition]()}
	for el := r.fields.Front(); el != nil; el = el.Next() {
		c.fields.Set(el.Key, el.Value.clone())
	}
	return c
}

// CustomValueSet tracks the values a user appended to each field. It is the
// only authority for what may be deleted.
type CustomValueSet map[types.FieldKey][]string

func (s CustomValueSet) clone() CustomValueSet {
	c := make(CustomValueSet, len(s))
	for k, v := range s {
		values := make([]string, len(v))
		copy(values, v)
		c[k] = values
	}
	return c
}
