package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hazyhaar/pagewatch/dbopen"
)

// schema holds the single-row page_state table. The CHECK pins the row id so
// writes are always whole-value overwrites.
const schema = `
CREATE TABLE IF NOT EXISTS page_state (
    id          INTEGER PRIMARY KEY CHECK (id = 1),
    fingerprint TEXT NOT NULL,
    snapshot    TEXT NOT NULL DEFAULT '',
    updated_at  INTEGER NOT NULL
);
`

// SQLite is the Store backed by a local SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the state database at path.
// The caller must blank-import modernc.org/sqlite.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := dbopen.Open(path,
		dbopen.WithMkdirAll(),
		dbopen.WithSchema(schema),
	)
	if err != nil {
		return nil, fmt.Errorf("state: open %s: %w", path, err)
	}
	return &SQLite{db: db}, nil
}

// NewSQLite wraps an already-open database (tests use this with an
// in-memory handle).
func NewSQLite(db *sql.DB) (*SQLite, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("state: apply schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Load(ctx context.Context) (State, error) {
	var st State
	err := s.db.QueryRowContext(ctx,
		`SELECT fingerprint, snapshot FROM page_state WHERE id = 1`,
	).Scan(&st.Fingerprint, &st.Snapshot)
	if errors.Is(err, sql.ErrNoRows) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("state: load: %w", err)
	}
	return st, nil
}

func (s *SQLite) Save(ctx context.Context, st State) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO page_state (id, fingerprint, snapshot, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			fingerprint = excluded.fingerprint,
			snapshot    = excluded.snapshot,
			updated_at  = excluded.updated_at`,
		st.Fingerprint, st.Snapshot, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("state: save: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
