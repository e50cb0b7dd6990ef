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

// FileRepo implements repository.FileRepository over the shared pool.
type FileRepo struct {
	conn *sql.DB
}

var _ repository.FileRepository = (*FileRepo)(nil)

// ListByOwner returns the owner's entire file set in insertion order.
// An owner with nothing persisted gets an empty, non-nil slice; the file
// service treats that as first-time use and seeds a starter set.
func (r *FileRepo) ListByOwner(ctx context.Context, owner string) ([]model.FileItem, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, owner_email, name, type, size, last_modified, parent_id
		 FROM files WHERE owner_email = ? ORDER BY rowid`,
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing files for %s: %w", owner, err)
	}
	defer rows.Close()

	items := []model.FileItem{}
	for rows.Next() {
		item, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating files for %s: %w", owner, err)
	}

	return items, nil
}

// ReplaceAll atomically replaces the owner's entire set.
//
// DELETE + INSERTs inside one transaction: a concurrent reader sees either
// the old set or the new one, never a half-written mix. This is the
// "all-or-nothing from the caller's perspective" guarantee the save
// operation promises.
func (r *FileRepo) ReplaceAll(ctx context.Context, owner string, items []model.FileItem) error {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning save transaction: %w", err)
	}
	// Rollback is a no-op after a successful Commit.
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM files WHERE owner_email = ?`, owner); err != nil {
		return fmt.Errorf("sqlite: clearing files for %s: %w", owner, err)
	}

	for _, item := range items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO files (id, owner_email, name, type, size, last_modified, parent_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			item.ID,
			owner,
			item.Name,
			string(item.Type),
			item.Size,
			item.LastModified,
			item.ParentID,
		); err != nil {
			return fmt.Errorf("sqlite: inserting file %s for %s: %w", item.ID, owner, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing save for %s: %w", owner, err)
	}

	return nil
}

// Create inserts a single item, generating its ID and timestamp.
// Parent validation is the file service's job; by the time a record reaches
// this layer it is assumed structurally sound.
func (r *FileRepo) Create(ctx context.Context, item *model.FileItem) error {
	item.ID = xid.New().String()
	item.LastModified = time.Now()

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO files (id, owner_email, name, type, size, last_modified, parent_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.OwnerEmail,
		item.Name,
		string(item.Type),
		item.Size,
		item.LastModified,
		item.ParentID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting file %q for %s: %w", item.Name, item.OwnerEmail, err)
	}

	return nil
}

// GetByID returns one of the owner's items.
// The owner scoping matters: file ids are unique globally, but one account
// must never be able to address another account's records.
func (r *FileRepo) GetByID(ctx context.Context, owner, id string) (*model.FileItem, error) {
	row := r.conn.QueryRowContext(ctx,
		`SELECT id, owner_email, name, type, size, last_modified, parent_id
		 FROM files WHERE id = ? AND owner_email = ?`,
		id, owner,
	)

	item, err := scanFile(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("file", id)
		}
		return nil, err
	}
	return item, nil
}

// Delete removes the given items from the owner's set in one statement.
// ids not present (or not the owner's) are silently skipped.
func (r *FileRepo) Delete(ctx context.Context, owner string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, 0, len(ids)+1)
	args = append(args, owner)
	for _, id := range ids {
		args = append(args, id)
	}

	_, err := r.conn.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM files WHERE owner_email = ? AND id IN (%s)`, placeholders),
		args...,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting %d files for %s: %w", len(ids), owner, err)
	}

	return nil
}

// GlobalTotals sums file count and stored bytes across every owner's set.
// One aggregate query — the SQL equivalent of scanning each account's
// persisted set in turn.
func (r *FileRepo) GlobalTotals(ctx context.Context) (int, int64, error) {
	var files int
	var bytes int64

	err := r.conn.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(size), 0) FROM files`,
	).Scan(&files, &bytes)
	if err != nil {
		return 0, 0, fmt.Errorf("sqlite: computing global totals: %w", err)
	}

	return files, bytes, nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanFile.
type scanner interface {
	Scan(dest ...any) error
}

func scanFile(s scanner) (*model.FileItem, error) {
	var item model.FileItem
	var typ string

	err := s.Scan(
		&item.ID,
		&item.OwnerEmail,
		&item.Name,
		&typ,
		&item.Size,
		&item.LastModified,
		&item.ParentID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("sqlite: scanning file row: %w", err)
	}

	item.Type = model.FileType(typ)
	return &item, nil
}
