package app

import (
	"context"

	"focusflow/internal/domain"
)

// SettingsService encapsulates timer settings use cases.
type SettingsService struct {
	repo domain.TimerSettingsRepository
}

// NewSettingsService creates a SettingsService backed by the given repository.
func NewSettingsService(repo domain.TimerSettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// Get returns userID's settings, storing the defaults on first access.
func (s *SettingsService) Get(ctx context.Context, userID int64) (*domain.TimerSettings, error) {
	current, err := s.repo.GetTimerSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	if current != nil {
		return current, nil
	}
	return s.repo.UpsertTimerSettings(ctx, domain.DefaultTimerSettings(userID))
}

// Update merges patch onto the current settings (or the defaults) and stores
// the result. Out-of-range values are rejected and nothing is written.
func (s *SettingsService) Update(ctx context.Context, userID int64, patch domain.TimerSettingsPatch) (*domain.TimerSettings, error) {
	current, err := s.repo.GetTimerSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	base := domain.DefaultTimerSettings(userID)
	if current != nil {
		base = *current
	}

	merged := patch.Apply(base)
	merged.UserID = userID
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return s.repo.UpsertTimerSettings(ctx, merged)
}
