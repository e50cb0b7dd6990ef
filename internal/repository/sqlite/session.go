package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/survivaldisc/internal/apperror"
	"github.com/sakif/survivaldisc/internal/model"
	"github.com/sakif/survivaldisc/internal/repository"
)

// SessionRepo implements repository.SessionRepository over the shared pool.
type SessionRepo struct {
	conn *sql.DB
}

var _ repository.SessionRepository = (*SessionRepo)(nil)

// Set stores the profile in the session slot, replacing any prior occupant.
//
// INSERT OR REPLACE on the CHECK(slot = 1) table gives overwrite semantics
// for free: a second login simply replaces the row. No merging, ever.
func (r *SessionRepo) Set(ctx context.Context, profile model.Profile) error {
	_, err := r.conn.ExecContext(ctx,
		`INSERT OR REPLACE INTO session (slot, name, email, tier, avatar, join_date, role)
		 VALUES (1, ?, ?, ?, ?, ?, ?)`,
		profile.Name,
		profile.Email,
		profile.Tier,
		profile.Avatar,
		profile.JoinDate,
		string(profile.Role),
	)
	if err != nil {
		return fmt.Errorf("sqlite: writing session slot: %w", err)
	}
	return nil
}

// Get returns the slot's occupant, or apperror.ErrNotFound when empty.
func (r *SessionRepo) Get(ctx context.Context) (*model.Profile, error) {
	var p model.Profile
	var role string

	err := r.conn.QueryRowContext(ctx,
		`SELECT name, email, tier, avatar, join_date, role FROM session WHERE slot = 1`,
	).Scan(&p.Name, &p.Email, &p.Tier, &p.Avatar, &p.JoinDate, &role)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("session", "slot")
		}
		return nil, fmt.Errorf("sqlite: reading session slot: %w", err)
	}

	p.Role = model.Role(role)
	return &p, nil
}

// Clear empties the session slot. Clearing an already-empty slot succeeds.
func (r *SessionRepo) Clear(ctx context.Context) error {
	if _, err := r.conn.ExecContext(ctx, `DELETE FROM session WHERE slot = 1`); err != nil {
		return fmt.Errorf("sqlite: clearing session slot: %w", err)
	}
	return nil
}
