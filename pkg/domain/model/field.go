package model

import (
	"slices"

	"github.com/secmon-lab/charforge/pkg/domain/types"
)

// FieldDefinition describes one character attribute and its selectable values
type FieldDefinition struct {
	Key       types.FieldKey `json:"-"`
	Name      string         `json:"name"`
	Values    []string       `json:"values"`
	IsDefault bool           `json:"isDefault"`
}

// HasValue reports whether value is one of the field's values (case-sensitive)
func (f *FieldDefinition) HasValue(value string) bool {
	return slices.Contains(f.Values, value)
}

func (f *FieldDefinition) clone() *FieldDefinition {
	return &FieldDefinition{
		Key:       f.Key,
		Name:      f.Name,
		Values:    slices.Clone(f.Values),
		IsDefault: f.IsDefault,
	}
}

// seedValues is the built-in catalogue. Order is significant: it is the order
// values are offered to the user.
var seedValues = map[types.FieldKey]struct {
	name   string
	values []string
}{
	types.FieldKeyRace: {"Race", []string{
		"Aasimar", "Dragonborn", "Dwarf", "Elf", "Gnome", "Goliath",
		"Halfling", "Half-Elf", "Half-Orc", "Human", "Orc", "Tiefling",
	}},
	types.FieldKeyClass: {"Class", []string{
		"Artificer", "Barbarian", "Bard", "Cleric", "Druid", "Fighter",
		"Monk", "Paladin", "Ranger", "Rogue", "Sorcerer", "Warlock", "Wizard",
	}},
	types.FieldKeyGender: {"Gender", []string{
		"Male", "Female", "Non-Binary",
	}},
	types.FieldKeyEquipment: {"Equipment", []string{
		"Sword and Shield", "Daggers", "Single Axe", "Two Axes",
		"Wizard Staff", EquipmentUnequipped,
	}},
	types.FieldKeyBodyType: {"Body Type", []string{
		"Muscular", "Normal", "Scrawny",
	}},
	types.FieldKeyEmotion: {"Emotion", []string{
		"Serious", "Angry", "Happy", "Sad", "Sad and Sobbing", "Insane",
	}},
	types.FieldKeyArtStyle: {"Art Style", []string{
		"Fantasy", "Anime", "Gritty and Realistic", "Caricature",
	}},
}

// EquipmentUnequipped is the equipment value that renders no weapon clause
const EquipmentUnequipped = "Unequipped"

// DefaultFields returns fresh copies of the seven built-in fields in seed order
func DefaultFields() []*FieldDefinition {
	keys := types.DefaultFieldKeys()
	fields := make([]*FieldDefinition, 0, len(keys))
	for _, key := range keys {
		seed := seedValues[key]
		fields = append(fields, &FieldDefinition{
			Key:       key,
			Name:      seed.name,
			Values:    slices.Clone(seed.values),
			IsDefault: true,
		})
	}
	return fields
}

// IsSeedValue reports whether value belongs to the built-in list of key
func IsSeedValue(key types.FieldKey, value string) bool {
	seed, ok := seedValues[key]
	if !ok {
		return false
	}
	return slices.Contains(seed.values, value)
}
