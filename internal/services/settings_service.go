package services

import (
	"context"
	"sync"

	"aaruto/internal/models"
	"aaruto/internal/repositories"
)

// SettingsService holds the engine configuration. Every accepted update is
// persisted immediately; invalid updates are rejected whole.
type SettingsService interface {
	Startup(ctx context.Context)
	Get() models.AppSettings
	Update(ctx context.Context, s models.AppSettings) error
}

type settingsService struct {
	mu       sync.Mutex
	settings models.AppSettings
	state    repositories.StateRepository
}

func NewSettingsService(state repositories.StateRepository) SettingsService {
	return &settingsService{settings: models.DefaultSettings(), state: state}
}

func (s *settingsService) Startup(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = s.state.LoadSettings(ctx)
}

func (s *settingsService) Get() models.AppSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *settingsService) Update(ctx context.Context, next models.AppSettings) error {
	if err := next.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.settings = next
	s.mu.Unlock()
	s.state.SaveSettings(ctx, next)
	return nil
}
