package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/charforge/pkg/domain/model"
	"github.com/secmon-lab/charforge/pkg/domain/types"
)

// Catalog is a TOML file describing fields and values to import
//
//	[[field]]
//	key = "hair"
//	name = "Hair Color"
//	values = ["Red", "Black"]
type Catalog struct {
	Fields []CatalogField `toml:"field"`
}

// CatalogField is one [[field]] table. Name may be omitted for fields that
// already exist, e.g. to add values to a default field.
type CatalogField struct {
	Key    string   `toml:"key"`
	Name   string   `toml:"name"`
	Values []string `toml:"values"`
}

// Validate checks if the CatalogField is valid
func (f *CatalogField) Validate() error {
	key := types.FieldKey(f.Key)
	if err := key.Validate(); err != nil {
		return goerr.Wrap(ErrInvalidField, err.Error(), goerr.V(FieldKeyKey, f.Key))
	}
	if !key.IsDefault() && f.Name == "" && len(f.Values) == 0 {
		return goerr.Wrap(ErrInvalidField, "custom field needs a name or values", goerr.V(FieldKeyKey, f.Key))
	}
	return nil
}

// Validate checks that every field is valid and keys are unique
func (c *Catalog) Validate() error {
	keys := make(map[string]bool)
	for i, f := range c.Fields {
		if err := f.Validate(); err != nil {
			return goerr.Wrap(err, "invalid field", goerr.V(FieldIndexKey, i))
		}
		if keys[f.Key] {
			return goerr.Wrap(ErrDuplicateKey, "duplicate field key", goerr.V(FieldKeyKey, f.Key))
		}
		keys[f.Key] = true
	}
	return nil
}

// LoadCatalog loads a field catalog from a TOML file
func LoadCatalog(path string) (*Catalog, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read catalog file", goerr.V(ConfigPathKey, path))
	}

	var catalog Catalog
	if err := toml.Unmarshal(data, &catalog); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML catalog", goerr.V(ConfigPathKey, path))
	}

	if err := catalog.Validate(); err != nil {
		return nil, goerr.Wrap(err, "catalog validation failed", goerr.V(ConfigPathKey, path))
	}

	return &catalog, nil
}

// ToFieldDefinitions converts the catalog to field definitions for import
func (c *Catalog) ToFieldDefinitions() []*model.FieldDefinition {
	fields := make([]*model.FieldDefinition, len(c.Fields))
	for i, f := range c.Fields {
		fields[i] = &model.FieldDefinition{
			Key:    types.FieldKey(f.Key),
			Name:   f.Name,
			Values: f.Values,
		}
	}
	return fields
}
