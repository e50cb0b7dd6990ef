package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/survivaldisc/internal/apperror"
	"github.com/sakif/survivaldisc/internal/model"
	"github.com/sakif/survivaldisc/internal/repository"
)

// AccountRepo implements repository.AccountRepository over the shared pool.
type AccountRepo struct {
	conn *sql.DB
}

var _ repository.AccountRepository = (*AccountRepo)(nil)

// Create inserts a new account.
//
// The caller (the account service) normalizes the email before we get here.
// Duplicate detection leans on the UNIQUE(email) constraint rather than a
// pre-SELECT: two overlapping registrations for the same email can both pass
// a pre-check, but only one can win the INSERT.
func (r *AccountRepo) Create(ctx context.Context, account *model.Account) error {
	account.ID = xid.New().String()
	account.CreatedAt = time.Now()

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO accounts (id, email, name, password_hash, tier, avatar_url, role, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		account.ID,
		account.Email,
		account.Name,
		account.PasswordHash,
		account.Tier,
		account.AvatarURL,
		string(account.Role),
		account.CreatedAt,
	)
	if err != nil {
		// modernc.org/sqlite reports constraint violations as plain errors;
		// the message is the only signal we have to classify them.
		if strings.Contains(err.Error(), "UNIQUE constraint failed: accounts.email") {
			return apperror.DuplicateAccount(account.Email)
		}
		if strings.Contains(err.Error(), "UNIQUE constraint failed: accounts.role") {
			return apperror.AdminSlotTaken()
		}
		return fmt.Errorf("sqlite: inserting account %s: %w", account.Email, err)
	}

	return nil
}

// GetByEmail retrieves an account by normalized email.
// Returns apperror.ErrNotFound if no account exists for it.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	return r.scanAccount(r.conn.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, tier, avatar_url, role, created_at
		 FROM accounts WHERE email = ?`,
		email,
	), email)
}

// GetByID retrieves an account by its internal ID.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*model.Account, error) {
	return r.scanAccount(r.conn.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, tier, avatar_url, role, created_at
		 FROM accounts WHERE id = ?`,
		id,
	), id)
}

func (r *AccountRepo) scanAccount(row *sql.Row, key string) (*model.Account, error) {
	var a model.Account
	var role string

	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.Name,
		&a.PasswordHash,
		&a.Tier,
		&a.AvatarURL,
		&role,
		&a.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("account", key)
		}
		return nil, fmt.Errorf("sqlite: getting account %s: %w", key, err)
	}

	a.Role = model.Role(role)
	return &a, nil
}

// List returns all accounts in insertion order (rowid order — SQLite assigns
// rowids monotonically for our insert-only table).
func (r *AccountRepo) List(ctx context.Context) ([]model.Account, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, email, name, password_hash, tier, avatar_url, role, created_at
		 FROM accounts ORDER BY rowid`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing accounts: %w", err)
	}
	defer rows.Close()

	accounts := []model.Account{}
	for rows.Next() {
		var a model.Account
		var role string
		if err := rows.Scan(
			&a.ID,
			&a.Email,
			&a.Name,
			&a.PasswordHash,
			&a.Tier,
			&a.AvatarURL,
			&role,
			&a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning account row: %w", err)
		}
		a.Role = model.Role(role)
		accounts = append(accounts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating accounts: %w", err)
	}

	return accounts, nil
}

// CountByRole reports how many accounts hold the given role.
func (r *AccountRepo) CountByRole(ctx context.Context, role model.Role) (int, error) {
	var count int
	err := r.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE role = ?`, string(role),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting accounts with role %s: %w", role, err)
	}
	return count, nil
}
