package model

import (
	"strings"

	"github.com/secmon-lab/charforge/pkg/domain/types"
)

const (
	promptPrefix    = "Take a picture and turn the subject into a Dungeons and Dragons character who is "
	defaultArtStyle = "fantasy"
)

// RenderPrompt turns a selection into the image generation prompt. It is pure
// and never fails: an empty selection yields a degenerate but well-formed
// sentence.
func RenderPrompt(fields *Registry, selection *Selection) string {
	var parts []string
	if v := selection.Value(types.FieldKeyGender); v != "" {
		parts = append(parts, "a "+strings.ToLower(v))
	}
	if v := selection.Value(types.FieldKeyRace); v != "" {
		parts = append(parts, strings.ToLower(v))
	}
	if v := selection.Value(types.FieldKeyClass); v != "" {
		parts = append(parts, strings.ToLower(v))
	}

	var descriptors []string
	if v := selection.Value(types.FieldKeyBodyType); v != "" {
		descriptors = append(descriptors, strings.ToLower(v))
	}
	if v := selection.Value(types.FieldKeyEmotion); v != "" {
		descriptors = append(descriptors, "with a "+strings.ToLower(v)+" expression")
	}

	var b strings.Builder
	b.WriteString(strings.Join(parts, " "))

	if len(descriptors) > 0 {
		b.WriteString(" who is ")
		b.WriteString(strings.Join(descriptors, " and "))
	}

	if v := selection.Value(types.FieldKeyEquipment); v != "" && v != EquipmentUnequipped {
		b.WriteString(", wielding ")
		b.WriteString(strings.ToLower(v))
	}

	// insertion order of the selection, not sorted
	for _, key := range selection.Keys() {
		value := selection.Value(key)
		if key.IsDefault() || value == "" {
			continue
		}
		b.WriteString(", ")
		b.WriteString(strings.ToLower(fieldLabel(fields, key)))
		b.WriteString(": ")
		b.WriteString(strings.ToLower(value))
	}

	artStyle := defaultArtStyle
	if v := selection.Value(types.FieldKeyArtStyle); v != "" {
		artStyle = strings.ToLower(v)
	}

	return promptPrefix + b.String() + " in a " + artStyle + " art style"
}

// fieldLabel falls back to the key when the selection refers to a field the
// registry does not know
func fieldLabel(fields *Registry, key types.FieldKey) string {
	if fields != nil {
		if f, ok := fields.lookup(key); ok {
			return f.Name
		}
	}
	return string(key)
}
