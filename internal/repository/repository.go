// Package repository defines the storage interfaces the services program
// against. The concrete implementation lives in repository/sqlite; tests
// inject in-memory stand-ins. Nothing above this package knows SQL.
package repository

import (
	"context"

	"github.com/sakif/survivaldisc/internal/model"
)

// AccountRepository persists registered identities.
type AccountRepository interface {
	// Create inserts a new account. Returns apperror.ErrConflict (wrapped in
	// DuplicateAccount) when the normalized email already exists.
	Create(ctx context.Context, account *model.Account) error

	// GetByEmail looks an account up by its normalized email.
	// Returns apperror.ErrNotFound when no such account exists.
	GetByEmail(ctx context.Context, email string) (*model.Account, error)

	// GetByID looks an account up by its internal ID.
	GetByID(ctx context.Context, id string) (*model.Account, error)

	// List returns every account in insertion order.
	List(ctx context.Context) ([]model.Account, error)

	// CountByRole reports how many accounts hold the given role. The account
	// service uses it to decide whether the admin slot is still vacant.
	CountByRole(ctx context.Context, role model.Role) (int, error)
}

// SessionRepository persists the single process-wide session slot.
//
// The slot holds at most one profile: a new login overwrites it, logout
// clears it, and process start reads it to restore the prior session.
type SessionRepository interface {
	// Set stores the profile in the slot, replacing any prior occupant.
	Set(ctx context.Context, profile model.Profile) error

	// Get returns the slot's occupant, or apperror.ErrNotFound when empty.
	Get(ctx context.Context) (*model.Profile, error)

	// Clear empties the slot. Clearing an empty slot is not an error.
	Clear(ctx context.Context) error
}

// FileRepository persists each account's file set.
type FileRepository interface {
	// ListByOwner returns the owner's entire set in insertion order.
	// An owner with no persisted set yields an empty (non-nil) slice.
	ListByOwner(ctx context.Context, owner string) ([]model.FileItem, error)

	// ReplaceAll atomically replaces the owner's entire set: a reader either
	// sees the old set or the new one, never a partial overwrite.
	ReplaceAll(ctx context.Context, owner string, items []model.FileItem) error

	// Create inserts a single item into the owner's set.
	Create(ctx context.Context, item *model.FileItem) error

	// GetByID returns one of the owner's items, or apperror.ErrNotFound.
	GetByID(ctx context.Context, owner, id string) (*model.FileItem, error)

	// Delete removes the given items from the owner's set in one transaction.
	// Unknown ids are ignored (delete is idempotent).
	Delete(ctx context.Context, owner string, ids []string) error

	// GlobalTotals sums file count and stored bytes across every owner's set.
	GlobalTotals(ctx context.Context) (files int, bytes int64, err error)
}
