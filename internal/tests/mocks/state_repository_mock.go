package mocks

import (
	"context"

	"aaruto/internal/models"
)

// StateRepositoryMock is an in-memory StateRepository. Function fields
// override individual operations; everything else round-trips through the
// struct fields so tests can assert on what was persisted.
type StateRepositoryMock struct {
	Identity     *models.Identity
	HistoryData  []models.GeneratedResult
	ArchiveData  []models.GeneratedResult
	SettingsData *models.AppSettings
	DraftData    *models.GeneratedResult

	LoadIdentityFunc func(ctx context.Context) *models.Identity
	SaveIdentityFunc func(ctx context.Context, id *models.Identity)
	LoadHistoryFunc  func(ctx context.Context) []models.GeneratedResult
	SaveHistoryFunc  func(ctx context.Context, history []models.GeneratedResult)
	LoadDraftFunc    func(ctx context.Context) *models.GeneratedResult
	SaveDraftFunc    func(ctx context.Context, draft *models.GeneratedResult)
}

func (m *StateRepositoryMock) LoadIdentity(ctx context.Context) *models.Identity {
	if m.LoadIdentityFunc != nil {
		return m.LoadIdentityFunc(ctx)
	}
	return m.Identity
}

func (m *StateRepositoryMock) SaveIdentity(ctx context.Context, id *models.Identity) {
	if m.SaveIdentityFunc != nil {
		m.SaveIdentityFunc(ctx, id)
		return
	}
	m.Identity = id
}

func (m *StateRepositoryMock) ClearIdentity(ctx context.Context) {
	m.Identity = nil
}

func (m *StateRepositoryMock) LoadHistory(ctx context.Context) []models.GeneratedResult {
	if m.LoadHistoryFunc != nil {
		return m.LoadHistoryFunc(ctx)
	}
	return m.HistoryData
}

func (m *StateRepositoryMock) SaveHistory(ctx context.Context, history []models.GeneratedResult) {
	if m.SaveHistoryFunc != nil {
		m.SaveHistoryFunc(ctx, history)
		return
	}
	m.HistoryData = history
}

func (m *StateRepositoryMock) ClearHistory(ctx context.Context) {
	m.HistoryData = nil
}

func (m *StateRepositoryMock) LoadArchive(ctx context.Context) []models.GeneratedResult {
	return m.ArchiveData
}

func (m *StateRepositoryMock) SaveArchive(ctx context.Context, archive []models.GeneratedResult) {
	m.ArchiveData = archive
}

func (m *StateRepositoryMock) LoadSettings(ctx context.Context) models.AppSettings {
	if m.SettingsData != nil {
		return *m.SettingsData
	}
	return models.DefaultSettings()
}

func (m *StateRepositoryMock) SaveSettings(ctx context.Context, s models.AppSettings) {
	m.SettingsData = &s
}

func (m *StateRepositoryMock) LoadDraft(ctx context.Context) *models.GeneratedResult {
	if m.LoadDraftFunc != nil {
		return m.LoadDraftFunc(ctx)
	}
	return m.DraftData
}

func (m *StateRepositoryMock) SaveDraft(ctx context.Context, draft *models.GeneratedResult) {
	if m.SaveDraftFunc != nil {
		m.SaveDraftFunc(ctx, draft)
		return
	}
	m.DraftData = draft
}

func (m *StateRepositoryMock) ClearDraft(ctx context.Context) {
	m.DraftData = nil
}
