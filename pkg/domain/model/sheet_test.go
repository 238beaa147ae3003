package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/charforge/pkg/domain/model"
	"github.com/secmon-lab/charforge/pkg/domain/types"
)

func fieldValues(t *testing.T, sheet *model.Sheet, key types.FieldKey) []string {
	t.Helper()
	f, ok := sheet.Fields().Get(key)
	gt.Bool(t, ok).True().Required()
	return f.Values
}

func TestNewSheet_Defaults(t *testing.T) {
	sheet := model.NewSheet()
	fields := sheet.Fields().Fields()

	gt.Array(t, fields).Length(7).Required()
	for i, key := range types.DefaultFieldKeys() {
		gt.Value(t, fields[i].Key).Equal(key)
		gt.Bool(t, fields[i].IsDefault).True()
	}

	race, _ := sheet.Fields().Get(types.FieldKeyRace)
	gt.Value(t, race.Name).Equal("Race")
	gt.Array(t, race.Values).Length(12)

	gt.Value(t, sheet.Selection().Len()).Equal(0)
	gt.Array(t, sheet.Fields().CustomFields()).Length(0)
}

func TestSheet_AddField(t *testing.T) {
	t.Run("duplicate key is rejected regardless of name", func(t *testing.T) {
		sheet := model.NewSheet()
		gt.Bool(t, sheet.AddField("hairColor", "Hair Color")).True()
		gt.Bool(t, sheet.AddField("hairColor", "Hair Colour")).False()

		f, ok := sheet.Fields().Get("hairColor")
		gt.Bool(t, ok).True()
		gt.Value(t, f.Name).Equal("Hair Color")
		gt.Bool(t, f.IsDefault).False()
		gt.Array(t, f.Values).Length(0)
	})

	t.Run("default key is rejected", func(t *testing.T) {
		sheet := model.NewSheet()
		gt.Bool(t, sheet.AddField(types.FieldKeyRace, "Species")).False()

		f, _ := sheet.Fields().Get(types.FieldKeyRace)
		gt.Value(t, f.Name).Equal("Race")
	})

	t.Run("custom fields are listed after defaults in creation order", func(t *testing.T) {
		sheet := model.NewSheet()
		gt.Bool(t, sheet.AddField("scar", "Scar")).True()
		gt.Bool(t, sheet.AddField("hairColor", "Hair Color")).True()

		fields := sheet.Fields().Fields()
		gt.Array(t, fields).Length(9).Required()
		gt.Value(t, fields[7].Key).Equal(types.FieldKey("scar"))
		gt.Value(t, fields[8].Key).Equal(types.FieldKey("hairColor"))

		custom := sheet.Fields().CustomFields()
		gt.Array(t, custom).Length(2)
	})
}

func TestSheet_DeleteField(t *testing.T) {
	t.Run("default fields cannot be deleted", func(t *testing.T) {
		sheet := model.NewSheet()
		for _, key := range types.DefaultFieldKeys() {
			gt.Bool(t, sheet.DeleteField(key)).False()
		}
		gt.Value(t, sheet.Fields().Len()).Equal(7)
	})

	t.Run("unknown field returns false", func(t *testing.T) {
		sheet := model.NewSheet()
		gt.Bool(t, sheet.DeleteField("missing")).False()
	})

	t.Run("removes values and selection", func(t *testing.T) {
		sheet := model.NewSheet()
		gt.Bool(t, sheet.AddField("hairColor", "Hair Color")).True()
		gt.Bool(t, sheet.AddValue("hairColor", "Silver")).True()
		sheet.Select("hairColor", "Silver")
		sheet.Select(types.FieldKeyRace, "Elf")

		gt.Bool(t, sheet.DeleteField("hairColor")).True()

		gt.Bool(t, sheet.Fields().Has("hairColor")).False()
		gt.Array(t, sheet.CustomValues("hairColor")).Length(0)
		_, ok := sheet.Selection().Get("hairColor")
		gt.Bool(t, ok).False()
		gt.Value(t, sheet.Selection().Value(types.FieldKeyRace)).Equal("Elf")
	})
}

func TestSheet_AddValue(t *testing.T) {
	t.Run("unknown field", func(t *testing.T) {
		sheet := model.NewSheet()
		gt.Bool(t, sheet.AddValue("missing", "x")).False()
	})

	t.Run("existing seed value is rejected", func(t *testing.T) {
		sheet := model.NewSheet()
		gt.Bool(t, sheet.AddValue(types.FieldKeyRace, "Elf")).False()
		gt.Array(t, sheet.CustomValues(types.FieldKeyRace)).Length(0)
	})

	t.Run("match is case sensitive", func(t *testing.T) {
		sheet := model.NewSheet()
		gt.Bool(t, sheet.AddValue(types.FieldKeyRace, "elf")).True()
		gt.Value(t, sheet.CustomValues(types.FieldKeyRace)).Equal([]string{"elf"})
	})

	t.Run("appends to default field", func(t *testing.T) {
		sheet := model.NewSheet()
		gt.Bool(t, sheet.AddValue(types.FieldKeyRace, "Kenku")).True()
		gt.Bool(t, sheet.AddValue(types.FieldKeyRace, "Kenku")).False()

		values := fieldValues(t, sheet, types.FieldKeyRace)
		gt.Value(t, values[len(values)-1]).Equal("Kenku")
		gt.Value(t, sheet.CustomValues(types.FieldKeyRace)).Equal([]string{"Kenku"})

		fields := sheet.FieldsWithCustomValues()
		gt.Array(t, fields).Length(1).Required()
		gt.Value(t, fields[0].Key).Equal(types.FieldKeyRace)
	})
}

func TestSheet_DeleteValue(t *testing.T) {
	t.Run("round trip restores values", func(t *testing.T) {
		sheet := model.NewSheet()
		gt.Bool(t, sheet.AddField("hairColor", "Hair Color")).True()

		for _, key := range []types.FieldKey{types.FieldKeyClass, "hairColor"} {
			before := fieldValues(t, sheet, key)
			gt.Bool(t, sheet.AddValue(key, "Blood Hunter")).True()
			gt.Bool(t, sheet.DeleteValue(key, "Blood Hunter")).True()
			gt.Value(t, fieldValues(t, sheet, key)).Equal(before)
		}
		gt.Array(t, sheet.FieldsWithCustomValues()).Length(0)
	})

	t.Run("seed values are not deletable", func(t *testing.T) {
		sheet := model.NewSheet()
		gt.Bool(t, sheet.DeleteValue(types.FieldKeyRace, "Elf")).False()
		gt.Bool(t, fieldValuesContain(t, sheet, types.FieldKeyRace, "Elf")).True()
	})

	t.Run("clears matching selection only", func(t *testing.T) {
		sheet := model.NewSheet()
		gt.Bool(t, sheet.AddValue(types.FieldKeyEmotion, "Smug")).True()
		gt.Bool(t, sheet.AddValue(types.FieldKeyEmotion, "Bored")).True()
		sheet.Select(types.FieldKeyEmotion, "Smug")

		gt.Bool(t, sheet.DeleteValue(types.FieldKeyEmotion, "Bored")).True()
		gt.Value(t, sheet.Selection().Value(types.FieldKeyEmotion)).Equal("Smug")

		gt.Bool(t, sheet.DeleteValue(types.FieldKeyEmotion, "Smug")).True()
		v, ok := sheet.Selection().Get(types.FieldKeyEmotion)
		gt.Bool(t, ok).True()
		gt.Value(t, v).Equal("")
	})
}

func TestRestoreSheet_SeedValueInCustomBucket(t *testing.T) {
	sel := model.NewSelection()
	snap := &model.Snapshot{
		CustomValues: model.CustomValueSet{types.FieldKeyRace: {"Elf"}},
		Selection:    sel,
	}
	sheet, issues := model.RestoreSheet(snap)
	gt.Array(t, issues).Length(0)

	before := fieldValues(t, sheet, types.FieldKeyRace)
	gt.Bool(t, sheet.DeleteValue(types.FieldKeyRace, "Elf")).True()

	gt.Value(t, fieldValues(t, sheet, types.FieldKeyRace)).Equal(before)
	gt.Bool(t, fieldValuesContain(t, sheet, types.FieldKeyRace, "Elf")).True()
	gt.Array(t, sheet.CustomValues(types.FieldKeyRace)).Length(0)
}

func TestSheet_Select(t *testing.T) {
	sheet := model.NewSheet()
	sheet.Select(types.FieldKeyRace, "Elf")
	sheet.Select("notAField", "anything")
	sheet.Select(types.FieldKeyRace, "")

	sel := sheet.Selection()
	gt.Value(t, sel.Keys()).Equal([]types.FieldKey{types.FieldKeyRace, "notAField"})
	gt.Value(t, sel.Value(types.FieldKeyRace)).Equal("")
	gt.Value(t, sel.Value("notAField")).Equal("anything")
}

func TestSheet_Clone(t *testing.T) {
	sheet := model.NewSheet()
	gt.Bool(t, sheet.AddField("hairColor", "Hair Color")).True()

	clone := sheet.Clone()
	gt.Bool(t, clone.AddValue("hairColor", "Red")).True()
	clone.Select(types.FieldKeyRace, "Orc")

	gt.Array(t, fieldValues(t, sheet, "hairColor")).Length(0)
	gt.Value(t, sheet.Selection().Len()).Equal(0)
}

func fieldValuesContain(t *testing.T, sheet *model.Sheet, key types.FieldKey, value string) bool {
	t.Helper()
	f, ok := sheet.Fields().Get(key)
	gt.Bool(t, ok).True().Required()
	return f.HasValue(value)
}

func TestRegistry_FindByName(t *testing.T) {
	sheet := model.NewSheet()
	gt.Bool(t, sheet.AddField("hairColor", "Hair Color")).True()

	f, ok := sheet.Fields().FindByName("Hair Color")
	gt.Bool(t, ok).True().Required()
	gt.Value(t, f.Key).Equal(types.FieldKey("hairColor"))

	f, ok = sheet.Fields().FindByName("Body Type")
	gt.Bool(t, ok).True().Required()
	gt.Value(t, f.Key).Equal(types.FieldKeyBodyType)

	_, ok = sheet.Fields().FindByName("hair color")
	gt.Bool(t, ok).False()
}
