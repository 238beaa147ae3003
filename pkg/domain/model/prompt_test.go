package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/charforge/pkg/domain/model"
	"github.com/secmon-lab/charforge/pkg/domain/types"
)

func selectAll(pairs ...string) *model.Selection {
	sel := model.NewSelection()
	for i := 0; i+1 < len(pairs); i += 2 {
		sel.Set(types.FieldKey(pairs[i]), pairs[i+1])
	}
	return sel
}

func TestRenderPrompt(t *testing.T) {
	registry := model.NewRegistry()

	tests := []struct {
		name      string
		selection *model.Selection
		want      string
	}{
		{
			name: "full selection",
			selection: selectAll(
				"gender", "Male",
				"race", "Elf",
				"class", "Wizard",
				"bodyType", "Muscular",
				"emotion", "Happy",
				"equipment", "Wizard Staff",
				"artStyle", "Anime",
			),
			want: "Take a picture and turn the subject into a Dungeons and Dragons character who is a male elf wizard who is muscular and with a happy expression, wielding wizard staff in a anime art style",
		},
		{
			name:      "unequipped omits the weapon clause",
			selection: selectAll("equipment", "Unequipped"),
			want:      "Take a picture and turn the subject into a Dungeons and Dragons character who is  in a fantasy art style",
		},
		{
			name:      "empty selection",
			selection: model.NewSelection(),
			want:      "Take a picture and turn the subject into a Dungeons and Dragons character who is  in a fantasy art style",
		},
		{
			name:      "nil selection",
			selection: nil,
			want:      "Take a picture and turn the subject into a Dungeons and Dragons character who is  in a fantasy art style",
		},
		{
			name:      "main phrase order is gender race class regardless of selection order",
			selection: selectAll("class", "Rogue", "race", "Half-Orc", "gender", "Non-Binary"),
			want:      "Take a picture and turn the subject into a Dungeons and Dragons character who is a non-binary half-orc rogue in a fantasy art style",
		},
		{
			name:      "emotion only",
			selection: selectAll("emotion", "Sad and Sobbing"),
			want:      "Take a picture and turn the subject into a Dungeons and Dragons character who is  who is with a sad and sobbing expression in a fantasy art style",
		},
		{
			name:      "equipment without main phrase",
			selection: selectAll("race", "Dwarf", "equipment", "Two Axes", "artStyle", "Gritty and Realistic"),
			want:      "Take a picture and turn the subject into a Dungeons and Dragons character who is dwarf, wielding two axes in a gritty and realistic art style",
		},
		{
			name:      "cleared values are skipped",
			selection: selectAll("race", "", "class", "Bard", "artStyle", ""),
			want:      "Take a picture and turn the subject into a Dungeons and Dragons character who is bard in a fantasy art style",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, model.RenderPrompt(registry, tt.selection)).Equal(tt.want)
		})
	}
}

func TestRenderPrompt_CustomFields(t *testing.T) {
	sheet := model.NewSheet()
	gt.Bool(t, sheet.AddField("hairColor", "Hair Color")).True()
	gt.Bool(t, sheet.AddField("scar", "Scar")).True()
	gt.Bool(t, sheet.AddValue("hairColor", "Silver")).True()
	gt.Bool(t, sheet.AddValue("scar", "Left Cheek")).True()

	t.Run("custom fields follow selection insertion order", func(t *testing.T) {
		sel := selectAll("scar", "Left Cheek", "race", "Human", "hairColor", "Silver")
		got := model.RenderPrompt(sheet.Fields(), sel)
		gt.Value(t, got).Equal("Take a picture and turn the subject into a Dungeons and Dragons character who is human, scar: left cheek, hair color: silver in a fantasy art style")
	})

	t.Run("custom fields come after equipment", func(t *testing.T) {
		sel := selectAll("hairColor", "Silver", "equipment", "Daggers")
		got := model.RenderPrompt(sheet.Fields(), sel)
		gt.Value(t, got).Equal("Take a picture and turn the subject into a Dungeons and Dragons character who is , wielding daggers, hair color: silver in a fantasy art style")
	})

	t.Run("unknown field falls back to its key", func(t *testing.T) {
		sel := selectAll("tattoo", "Dragon")
		got := model.RenderPrompt(sheet.Fields(), sel)
		gt.Value(t, got).Equal("Take a picture and turn the subject into a Dungeons and Dragons character who is , tattoo: dragon in a fantasy art style")
	})

	t.Run("deterministic", func(t *testing.T) {
		sel := selectAll("gender", "Female", "hairColor", "Silver", "artStyle", "Caricature")
		first := model.RenderPrompt(sheet.Fields(), sel)
		for range 10 {
			gt.Value(t, model.RenderPrompt(sheet.Fields(), sel)).Equal(first)
		}
	})
}
