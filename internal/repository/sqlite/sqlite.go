// Package sqlite implements the repository interfaces using SQLite.
//
// WHY modernc.org/sqlite?
// It is a pure-Go translation of SQLite — no CGo, no C toolchain, painless
// cross-compilation. The driver registers itself with database/sql under the
// name "sqlite" via the blank import below.
//
// One *DB owns the connection pool and hands out the three repositories
// (accounts, session slot, files); they share the pool and its pragmas.
package sqlite

import (
	"database/sql"
	"fmt"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and hands out the per-entity
// repositories. The repositories share the pool and its pragmas.
type DB struct {
	conn *sql.DB

	accounts *AccountRepo
	sessions *SessionRepo
	files    *FileRepo
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
// Use ":memory:" for tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// sql.Open doesn't actually connect; Ping surfaces bad paths and
	// permission problems now instead of on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is in progress — important for a
	// web server where requests overlap.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are off by default in SQLite for backwards compatibility.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{
		conn:     conn,
		accounts: &AccountRepo{conn: conn},
		sessions: &SessionRepo{conn: conn},
		files:    &FileRepo{conn: conn},
	}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Accounts returns the account repository.
func (db *DB) Accounts() *AccountRepo { return db.accounts }

// Sessions returns the session-slot repository.
func (db *DB) Sessions() *SessionRepo { return db.sessions }

// Files returns the file repository.
func (db *DB) Files() *FileRepo { return db.files }

// Close closes the connection pool. Always defer this next to New — closing
// flushes the WAL and releases the file lock.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps this safe to
// run on every start.
func (db *DB) migrate() error {
	// Accounts. Email is the natural key users log in with; it is stored
	// normalized (lower-cased, trimmed) and UNIQUE rejects duplicate
	// registration at the storage boundary. Insertion order = rowid order.
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS accounts (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			name          TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			tier          TEXT NOT NULL DEFAULT 'Survivor',
			avatar_url    TEXT NOT NULL DEFAULT '',
			role          TEXT NOT NULL DEFAULT 'user',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating accounts table: %w", err)
	}

	// At most one account may hold the admin role. The partial unique index
	// makes the designation atomic at the storage layer: two racing
	// registrations that both observed an empty admin slot cannot both
	// insert as admin — the loser gets a constraint error and retries as a
	// standard account.
	_, err = db.conn.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_one_admin
		ON accounts(role) WHERE role = 'admin';
	`)
	if err != nil {
		return fmt.Errorf("creating admin uniqueness index: %w", err)
	}

	// Session slot. The CHECK constraint pins the table to a single row —
	// the schema itself enforces "at most one session process-wide".
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS session (
			slot      INTEGER PRIMARY KEY CHECK (slot = 1),
			name      TEXT NOT NULL,
			email     TEXT NOT NULL,
			tier      TEXT NOT NULL,
			avatar    TEXT NOT NULL,
			join_date TEXT NOT NULL,
			role      TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating session table: %w", err)
	}

	// Files. One table for the whole forest: folders and files are rows,
	// parent_id is '' for root-level items. Each owner's set is independent;
	// the index makes the per-owner load a range scan.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS files (
			id            TEXT PRIMARY KEY,
			owner_email   TEXT NOT NULL,
			name          TEXT NOT NULL,
			type          TEXT NOT NULL,
			size          INTEGER NOT NULL DEFAULT 0,
			last_modified DATETIME NOT NULL,
			parent_id     TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_files_owner ON files(owner_email);
	`)
	if err != nil {
		return fmt.Errorf("creating files table: %w", err)
	}

	return nil
}
