package service

import (
	"context"
	"errors"
	"strconv"

	"friterie/internal/domain"
	"friterie/internal/repository"
)

// SettingsService reads and writes the global switches.
type SettingsService struct {
	settings repository.SettingsRepository
}

func NewSettingsService(settings repository.SettingsRepository) *SettingsService {
	return &SettingsService{settings: settings}
}

// ClickCollectEnabled reports whether online ordering is open. An unset
// switch means enabled: the flag exists to turn ordering off.
func (s *SettingsService) ClickCollectEnabled(ctx context.Context) (bool, error) {
	v, err := s.settings.Get(ctx, domain.SettingClickCollect)
	if errors.Is(err, repository.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, unavailable(err)
	}
	enabled, err := strconv.ParseBool(v)
	if err != nil {
		return true, nil
	}
	return enabled, nil
}

func (s *SettingsService) SetClickCollect(ctx context.Context, enabled bool) error {
	return s.settings.Set(ctx, domain.SettingClickCollect, strconv.FormatBool(enabled))
}
