package model_test

import (
	"encoding/json"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/charforge/pkg/domain/model"
	"github.com/secmon-lab/charforge/pkg/domain/types"
)

func TestSnapshot_EncodeRecords(t *testing.T) {
	sheet := model.NewSheet()
	gt.Bool(t, sheet.AddField("scar", "Scar")).True()
	gt.Bool(t, sheet.AddField("hairColor", "Hair Color")).True()
	gt.Bool(t, sheet.AddValue("hairColor", "Silver")).True()
	sheet.Select("hairColor", "Silver")
	sheet.Select(types.FieldKeyRace, "Elf")
	sheet.Select(types.FieldKeyClass, "")

	records, err := sheet.Snapshot().EncodeRecords()
	gt.NoError(t, err).Required()

	gt.Value(t, records[model.RecordCustomFields]).Equal(
		`{"scar":{"name":"Scar","values":[],"isDefault":false},"hairColor":{"name":"Hair Color","values":[],"isDefault":false}}`)
	gt.Value(t, records[model.RecordSelectedValues]).Equal(`{"hairColor":"Silver","race":"Elf","class":null}`)

	var values map[string][]string
	gt.NoError(t, json.Unmarshal([]byte(records[model.RecordCustomValues]), &values)).Required()
	gt.Value(t, values).Equal(map[string][]string{"hairColor": {"Silver"}})
}

func TestSnapshot_RoundTrip(t *testing.T) {
	sheet := model.NewSheet()
	gt.Bool(t, sheet.AddField("scar", "Scar")).True()
	gt.Bool(t, sheet.AddValue("scar", "Left Cheek")).True()
	gt.Bool(t, sheet.AddValue(types.FieldKeyRace, "Kenku")).True()
	sheet.Select("scar", "Left Cheek")
	sheet.Select(types.FieldKeyRace, "Kenku")

	records, err := sheet.Snapshot().EncodeRecords()
	gt.NoError(t, err).Required()

	snap, err := model.DecodeSnapshot(records)
	gt.NoError(t, err).Required()

	restored, issues := model.RestoreSheet(snap)
	gt.Array(t, issues).Length(0)
	gt.Value(t, restored.Prompt()).Equal(sheet.Prompt())
	gt.Value(t, restored.Selection().Keys()).Equal(sheet.Selection().Keys())
	gt.Value(t, restored.CustomValues(types.FieldKeyRace)).Equal([]string{"Kenku"})

	scar, ok := restored.Fields().Get("scar")
	gt.Bool(t, ok).True().Required()
	gt.Value(t, scar.Values).Equal([]string{"Left Cheek"})
}

func TestDecodeSnapshot(t *testing.T) {
	t.Run("missing records yield an empty snapshot", func(t *testing.T) {
		snap, err := model.DecodeSnapshot(map[string]string{})
		gt.NoError(t, err).Required()
		gt.Array(t, snap.CustomFields).Length(0)
		gt.Value(t, snap.Selection.Len()).Equal(0)
	})

	t.Run("field order follows the document", func(t *testing.T) {
		snap, err := model.DecodeSnapshot(map[string]string{
			model.RecordCustomFields: `{"z":{"name":"Z","values":[],"isDefault":false},"a":{"name":"A","values":[],"isDefault":true}}`,
		})
		gt.NoError(t, err).Required()
		gt.Array(t, snap.CustomFields).Length(2).Required()
		gt.Value(t, snap.CustomFields[0].Key).Equal(types.FieldKey("z"))
		gt.Value(t, snap.CustomFields[1].Key).Equal(types.FieldKey("a"))
		gt.Bool(t, snap.CustomFields[1].IsDefault).False()
	})

	t.Run("broken JSON is reported", func(t *testing.T) {
		_, err := model.DecodeSnapshot(map[string]string{
			model.RecordCustomValues: `{"race": [`,
		})
		gt.Value(t, err).NotNil()
	})

	t.Run("non object selection is reported", func(t *testing.T) {
		_, err := model.DecodeSnapshot(map[string]string{
			model.RecordSelectedValues: `["race"]`,
		})
		gt.Value(t, err).NotNil()
	})
}

func TestRestoreSheet_DropsInconsistentEntries(t *testing.T) {
	snap, err := model.DecodeSnapshot(map[string]string{
		model.RecordCustomFields:   `{"race":{"name":"Species","values":[],"isDefault":false},"scar":{"name":"Scar","values":["ignored"],"isDefault":false}}`,
		model.RecordCustomValues:   `{"ghost":["Boo"],"scar":["Left Cheek","Left Cheek"]}`,
		model.RecordSelectedValues: `{"ghost":"Boo","race":"Unicorn","scar":"Left Cheek","class":null}`,
	})
	gt.NoError(t, err).Required()

	sheet, issues := model.RestoreSheet(snap)
	// race collision, ghost values, duplicate Left Cheek, ghost selection, race Unicorn
	gt.Array(t, issues).Length(5)

	race, _ := sheet.Fields().Get(types.FieldKeyRace)
	gt.Value(t, race.Name).Equal("Race")
	gt.Bool(t, race.IsDefault).True()

	scar, ok := sheet.Fields().Get("scar")
	gt.Bool(t, ok).True().Required()
	gt.Value(t, scar.Values).Equal([]string{"Left Cheek"})

	gt.Value(t, sheet.Selection().Keys()).Equal([]types.FieldKey{"scar", types.FieldKeyClass})
}
