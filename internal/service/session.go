// Package service contains the business logic layer: validation, rules, and
// orchestration between the HTTP handlers above and the repositories below.
// Services accept primitives and return models — no HTTP types on either side.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/survivaldisc/internal/model"
	"github.com/sakif/survivaldisc/internal/repository"
)

// SessionService manages the single persisted session slot.
//
// The slot is the durable record of "who is signed in": it survives process
// restarts and has no expiry. Exactly one slot exists — a new login
// overwrites it without merging, logout clears it. The JWT cookie issued
// alongside is transport auth only and carries its own lifetime.
type SessionService struct {
	sessions repository.SessionRepository
	logger   *slog.Logger
}

// NewSessionService creates a SessionService.
func NewSessionService(sessions repository.SessionRepository, logger *slog.Logger) *SessionService {
	return &SessionService{
		sessions: sessions,
		logger:   logger,
	}
}

// Establish records profile as the active session, replacing any occupant.
func (s *SessionService) Establish(ctx context.Context, profile model.Profile) error {
	if err := s.sessions.Set(ctx, profile); err != nil {
		return fmt.Errorf("service/session: establishing session for %s: %w", profile.Email, err)
	}

	s.logger.Info("session established", slog.String("email", profile.Email))
	return nil
}

// Restore returns the persisted session, or apperror.ErrNotFound when nobody
// is signed in. Called at process start (and by the client on page load) to
// resume the prior session.
func (s *SessionService) Restore(ctx context.Context) (*model.Profile, error) {
	profile, err := s.sessions.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/session: restoring session: %w", err)
	}
	return profile, nil
}

// Clear ends the active session. Clearing with nobody signed in succeeds.
func (s *SessionService) Clear(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("service/session: clearing session: %w", err)
	}

	s.logger.Info("session cleared")
	return nil
}
