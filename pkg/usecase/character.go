package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/charforge/pkg/domain/interfaces"
	"github.com/secmon-lab/charforge/pkg/domain/model"
	"github.com/secmon-lab/charforge/pkg/domain/types"
	"github.com/secmon-lab/charforge/pkg/utils/errutil"
	"github.com/secmon-lab/charforge/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// CharacterUseCase owns the configurator state. Every mutation is applied in
// memory first and then the custom portion and the selection are written back
// to storage. Storage failures are logged and never undo the mutation.
type CharacterUseCase struct {
	mu       sync.Mutex
	sheet    *model.Sheet
	storage  interfaces.Storage
	capturer interfaces.Capturer
	now      func() time.Time
}

func NewCharacterUseCase(storage interfaces.Storage, capturer interfaces.Capturer) *CharacterUseCase {
	return &CharacterUseCase{
		sheet:    model.NewSheet(),
		storage:  storage,
		capturer: capturer,
		now:      time.Now,
	}
}

// Load replaces the in-memory state with the persisted snapshot merged onto
// the default fields. When storage cannot be read or decoded the state falls
// back to the defaults and an ErrPersistence wrapped error is returned.
func (uc *CharacterUseCase) Load(ctx context.Context) ([]model.RestoreIssue, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.sheet = model.NewSheet()

	records := make(map[string]string, len(model.RecordKeys()))
	for _, key := range model.RecordKeys() {
		value, ok, err := uc.storage.GetItem(ctx, key)
		if err != nil {
			return nil, goerr.Wrap(model.ErrPersistence, "failed to read record",
				goerr.V(model.RecordKeyKey, key), goerr.V("cause", err.Error()))
		}
		if ok {
			records[key] = value
		}
	}

	snap, err := model.DecodeSnapshot(records)
	if err != nil {
		return nil, goerr.Wrap(model.ErrPersistence, "failed to decode stored records", goerr.V("cause", err.Error()))
	}

	sheet, issues := model.RestoreSheet(snap)
	for _, issue := range issues {
		logging.From(ctx).Warn("dropped persisted entry",
			"field_key", issue.Key,
			"field_value", issue.Value,
			"reason", issue.Reason,
		)
	}
	uc.sheet = sheet

	return issues, nil
}

// AddField creates an empty custom field
func (uc *CharacterUseCase) AddField(ctx context.Context, key types.FieldKey, name string) (*model.FieldDefinition, error) {
	if err := key.Validate(); err != nil {
		return nil, goerr.Wrap(model.ErrValidation, err.Error(), goerr.V(model.FieldKeyKey, key))
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, goerr.Wrap(model.ErrValidation, "field name is required", goerr.V(model.FieldKeyKey, key))
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if !uc.sheet.AddField(key, name) {
		return nil, goerr.Wrap(model.ErrAlreadyExists, "field already exists", goerr.V(model.FieldKeyKey, key))
	}
	uc.persist(ctx)

	f, _ := uc.sheet.Fields().Get(key)
	return f, nil
}

// DeleteField removes a custom field, its values and its selection
func (uc *CharacterUseCase) DeleteField(ctx context.Context, key types.FieldKey) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if !uc.sheet.Fields().Has(key) {
		return goerr.Wrap(model.ErrFieldNotFound, "field not found", goerr.V(model.FieldKeyKey, key))
	}
	if !uc.sheet.DeleteField(key) {
		return goerr.Wrap(model.ErrNotDeletable, "default fields cannot be deleted", goerr.V(model.FieldKeyKey, key))
	}
	uc.persist(ctx)
	return nil
}

// AddValue appends a user value to a default or custom field
func (uc *CharacterUseCase) AddValue(ctx context.Context, key types.FieldKey, value string) error {
	if strings.TrimSpace(value) == "" {
		return goerr.Wrap(model.ErrValidation, "value is required", goerr.V(model.FieldKeyKey, key))
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if !uc.sheet.Fields().Has(key) {
		return goerr.Wrap(model.ErrFieldNotFound, "field not found", goerr.V(model.FieldKeyKey, key))
	}
	if !uc.sheet.AddValue(key, value) {
		return goerr.Wrap(model.ErrAlreadyExists, "value already exists",
			goerr.V(model.FieldKeyKey, key), goerr.V(model.FieldValueKey, value))
	}
	uc.persist(ctx)
	return nil
}

// DeleteValue removes a user value. Seed values are not deletable.
func (uc *CharacterUseCase) DeleteValue(ctx context.Context, key types.FieldKey, value string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if !uc.sheet.Fields().Has(key) {
		return goerr.Wrap(model.ErrFieldNotFound, "field not found", goerr.V(model.FieldKeyKey, key))
	}
	if !uc.sheet.DeleteValue(key, value) {
		return goerr.Wrap(model.ErrNotDeletable, "value is not a custom value",
			goerr.V(model.FieldKeyKey, key), goerr.V(model.FieldValueKey, value))
	}
	uc.persist(ctx)
	return nil
}

// Select chooses value for a field. An empty value clears the selection.
func (uc *CharacterUseCase) Select(ctx context.Context, key types.FieldKey, value string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	f, ok := uc.sheet.Fields().Get(key)
	if !ok {
		return goerr.Wrap(model.ErrFieldNotFound, "field not found", goerr.V(model.FieldKeyKey, key))
	}
	if value != "" && !f.HasValue(value) {
		return goerr.Wrap(model.ErrValidation, "value is not offered by the field",
			goerr.V(model.FieldKeyKey, key), goerr.V(model.FieldValueKey, value))
	}

	uc.sheet.Select(key, value)
	uc.persist(ctx)
	return nil
}

// Field returns one field definition
func (uc *CharacterUseCase) Field(key types.FieldKey) (*model.FieldDefinition, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	f, ok := uc.sheet.Fields().Get(key)
	if !ok {
		return nil, goerr.Wrap(model.ErrFieldNotFound, "field not found", goerr.V(model.FieldKeyKey, key))
	}
	return f, nil
}

// Fields returns every field in registry order
func (uc *CharacterUseCase) Fields() []*model.FieldDefinition {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.sheet.Fields().Fields()
}

// DeletableFields returns the custom fields in creation order
func (uc *CharacterUseCase) DeletableFields() []*model.FieldDefinition {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.sheet.Fields().CustomFields()
}

func (uc *CharacterUseCase) FieldsWithCustomValues() []*model.FieldDefinition {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.sheet.FieldsWithCustomValues()
}

// CustomValues returns the deletable values of a field
func (uc *CharacterUseCase) CustomValues(key types.FieldKey) ([]string, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if !uc.sheet.Fields().Has(key) {
		return nil, goerr.Wrap(model.ErrFieldNotFound, "field not found", goerr.V(model.FieldKeyKey, key))
	}
	return uc.sheet.CustomValues(key), nil
}

func (uc *CharacterUseCase) Selection() *model.Selection {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.sheet.Selection()
}

// Prompt renders the current selection
func (uc *CharacterUseCase) Prompt() string {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.sheet.Prompt()
}

// SelectionPrompt returns the selection together with the prompt rendered
// from it
func (uc *CharacterUseCase) SelectionPrompt() (*model.Selection, string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.sheet.Selection(), uc.sheet.Prompt()
}

// Generate renders the selection and hands the prompt to the capturer. A
// missing or failing capturer is not an error: the returned Generation is
// marked as not captured and carries the prompt for display.
func (uc *CharacterUseCase) Generate(ctx context.Context, speak bool) (*model.Generation, error) {
	uc.mu.Lock()
	if !hasSelection(uc.sheet.Selection()) {
		uc.mu.Unlock()
		return nil, goerr.Wrap(model.ErrValidation, "select at least one value before generating")
	}
	prompt := uc.sheet.Prompt()
	uc.mu.Unlock()

	gen := &model.Generation{
		ID:        model.NewGenerationID(),
		Prompt:    prompt,
		Speak:     speak,
		CreatedAt: uc.now(),
	}
	logger := logging.From(ctx).With("generation_id", gen.ID)

	if uc.capturer == nil {
		gen.Reason = model.ErrCaptureUnavailable.Error()
		logger.Info("no capturer configured, returning prompt")
		return gen, nil
	}

	result, err := uc.capturer.Capture(ctx, prompt, speak)
	if err != nil {
		_ = errutil.Handle(ctx, goerr.Wrap(err, "capture failed",
			goerr.V(GenerationIDKey, gen.ID), goerr.V(SpeakKey, speak)), "falling back to prompt")
		gen.Reason = err.Error()
		return gen, nil
	}

	gen.Captured = true
	gen.Output = result.Output
	logger.Info("character captured", "speak", speak)
	return gen, nil
}

// ImportResult summarizes a catalog import
type ImportResult struct {
	AddedFields int
	AddedValues int
	Warnings    []string
}

// ImportCatalog adds fields and values in bulk. Existing fields receive only
// the missing values; duplicates and invalid entries become warnings.
func (uc *CharacterUseCase) ImportCatalog(ctx context.Context, fields []*model.FieldDefinition) (*ImportResult, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	result := &ImportResult{}
	warn := func(msg string, key types.FieldKey, value string) {
		w := msg + ": " + key.String()
		if value != "" {
			w += "/" + value
		}
		result.Warnings = append(result.Warnings, w)
		logging.From(ctx).Warn(msg, "field_key", key, "field_value", value)
	}

	for _, f := range fields {
		if err := f.Key.Validate(); err != nil {
			warn("invalid field key", f.Key, "")
			continue
		}

		if !uc.sheet.Fields().Has(f.Key) {
			name := strings.TrimSpace(f.Name)
			if name == "" {
				warn("field name is required", f.Key, "")
				continue
			}
			uc.sheet.AddField(f.Key, name)
			result.AddedFields++
		} else if f.Name != "" {
			warn("field already exists", f.Key, "")
		}

		for _, v := range f.Values {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if !uc.sheet.AddValue(f.Key, v) {
				warn("value already exists", f.Key, v)
				continue
			}
			result.AddedValues++
		}
	}

	if result.AddedFields > 0 || result.AddedValues > 0 {
		uc.persist(ctx)
	}
	return result, nil
}

// persist writes all records. Caller must hold uc.mu.
func (uc *CharacterUseCase) persist(ctx context.Context) {
	records, err := uc.sheet.Snapshot().EncodeRecords()
	if err != nil {
		_ = errutil.Handle(ctx, goerr.Wrap(model.ErrPersistence, "failed to encode records", goerr.V("cause", err.Error())), "failed to save character state")
		return
	}

	eg, egCtx := errgroup.WithContext(ctx)
	for key, value := range records {
		eg.Go(func() error {
			if err := uc.storage.SetItem(egCtx, key, value); err != nil {
				return goerr.Wrap(model.ErrPersistence, "failed to write record",
					goerr.V(model.RecordKeyKey, key), goerr.V("cause", err.Error()))
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		_ = errutil.Handle(ctx, err, "failed to save character state")
	}
}

func hasSelection(s *model.Selection) bool {
	for _, key := range s.Keys() {
		if s.Value(key) != "" {
			return true
		}
	}
	return false
}
