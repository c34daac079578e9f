package repositories

import (
	"context"
	"encoding/json"
	"log"

	"aaruto/internal/models"
)

// Store keys, one per logical record. The names carry over from the original
// product so exported data stays recognizable.
const (
	KeyIdentity = "aaruto_user"
	KeyHistory  = "aaruto_history"
	KeyArchive  = "aaruto_saved_scrolls"
	KeySettings = "aaruto_settings"
	KeyDraft    = "aaruto_current_draft"
)

// StateRepository gives typed access to the persisted session records. Loads
// fall back to the empty/default value on absence or corruption and never
// return an error; saves rebuild the whole record.
type StateRepository interface {
	LoadIdentity(ctx context.Context) *models.Identity
	SaveIdentity(ctx context.Context, id *models.Identity)
	ClearIdentity(ctx context.Context)

	LoadHistory(ctx context.Context) []models.GeneratedResult
	SaveHistory(ctx context.Context, history []models.GeneratedResult)
	ClearHistory(ctx context.Context)

	LoadArchive(ctx context.Context) []models.GeneratedResult
	SaveArchive(ctx context.Context, archive []models.GeneratedResult)

	LoadSettings(ctx context.Context) models.AppSettings
	SaveSettings(ctx context.Context, s models.AppSettings)

	LoadDraft(ctx context.Context) *models.GeneratedResult
	SaveDraft(ctx context.Context, draft *models.GeneratedResult)
	ClearDraft(ctx context.Context)
}

type stateRepository struct {
	records RecordRepository
}

func NewStateRepository(records RecordRepository) StateRepository {
	return &stateRepository{records: records}
}

func decodeInto(key string, raw json.RawMessage, out any) bool {
	if err := json.Unmarshal(raw, out); err != nil {
		log.Printf("store: decode %q: %v", key, err)
		return false
	}
	return true
}

func (r *stateRepository) LoadIdentity(ctx context.Context) *models.Identity {
	raw, ok := r.records.Get(ctx, KeyIdentity)
	if !ok {
		return nil
	}
	var id models.Identity
	if !decodeInto(KeyIdentity, raw, &id) || id.Email == "" {
		return nil
	}
	return &id
}

func (r *stateRepository) SaveIdentity(ctx context.Context, id *models.Identity) {
	if id == nil {
		return
	}
	r.records.Set(ctx, KeyIdentity, id)
}

func (r *stateRepository) ClearIdentity(ctx context.Context) {
	r.records.Remove(ctx, KeyIdentity)
}

func (r *stateRepository) loadResults(ctx context.Context, key string) []models.GeneratedResult {
	raw, ok := r.records.Get(ctx, key)
	if !ok {
		return nil
	}
	var results []models.GeneratedResult
	if !decodeInto(key, raw, &results) {
		return nil
	}
	return results
}

func (r *stateRepository) LoadHistory(ctx context.Context) []models.GeneratedResult {
	return r.loadResults(ctx, KeyHistory)
}

func (r *stateRepository) SaveHistory(ctx context.Context, history []models.GeneratedResult) {
	r.records.Set(ctx, KeyHistory, history)
}

func (r *stateRepository) ClearHistory(ctx context.Context) {
	r.records.Remove(ctx, KeyHistory)
}

func (r *stateRepository) LoadArchive(ctx context.Context) []models.GeneratedResult {
	return r.loadResults(ctx, KeyArchive)
}

func (r *stateRepository) SaveArchive(ctx context.Context, archive []models.GeneratedResult) {
	r.records.Set(ctx, KeyArchive, archive)
}

func (r *stateRepository) LoadSettings(ctx context.Context) models.AppSettings {
	raw, ok := r.records.Get(ctx, KeySettings)
	if !ok {
		return models.DefaultSettings()
	}
	s := models.DefaultSettings()
	if !decodeInto(KeySettings, raw, &s) {
		return models.DefaultSettings()
	}
	if err := s.Validate(); err != nil {
		log.Printf("store: stored settings invalid (%v), using defaults", err)
		return models.DefaultSettings()
	}
	return s
}

func (r *stateRepository) SaveSettings(ctx context.Context, s models.AppSettings) {
	r.records.Set(ctx, KeySettings, s)
}

func (r *stateRepository) LoadDraft(ctx context.Context) *models.GeneratedResult {
	raw, ok := r.records.Get(ctx, KeyDraft)
	if !ok {
		return nil
	}
	var draft models.GeneratedResult
	if !decodeInto(KeyDraft, raw, &draft) || draft.Timestamp == 0 {
		return nil
	}
	return &draft
}

func (r *stateRepository) SaveDraft(ctx context.Context, draft *models.GeneratedResult) {
	if draft == nil {
		return
	}
	r.records.Set(ctx, KeyDraft, draft)
}

func (r *stateRepository) ClearDraft(ctx context.Context) {
	r.records.Remove(ctx, KeyDraft)
}
