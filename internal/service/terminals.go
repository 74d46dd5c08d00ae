package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"

	"friterie/internal/domain"
	"friterie/internal/repository"
)

// TerminalService manages kiosk terminal credentials from the admin
// surface.
type TerminalService struct {
	tokens repository.KioskTokenRepository
	log    *slog.Logger
}

func NewTerminalService(tokens repository.KioskTokenRepository, log *slog.Logger) *TerminalService {
	return &TerminalService{tokens: tokens, log: log}
}

// Activate registers a new terminal and returns its credential. The
// token value is only ever shown once, at activation.
func (s *TerminalService) Activate(ctx context.Context, name string) (*domain.KioskToken, error) {
	if name == "" {
		return nil, ErrInvalidInput
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	t := &domain.KioskToken{
		Token:    hex.EncodeToString(buf),
		Name:     name,
		IsActive: true,
	}
	if err := s.tokens.Create(ctx, t); err != nil {
		return nil, unavailable(err)
	}
	s.log.Info("kiosk terminal activated", "token_id", t.ID, "name", name)
	return t, nil
}

func (s *TerminalService) List(ctx context.Context) ([]domain.KioskToken, error) {
	return s.tokens.List(ctx)
}

func (s *TerminalService) SetActive(ctx context.Context, id string, active bool) error {
	if id == "" {
		return ErrInvalidInput
	}
	return s.tokens.SetActive(ctx, id, active)
}

func (s *TerminalService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	return s.tokens.Delete(ctx, id)
}
