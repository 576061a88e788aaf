package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/xid"
	_ "modernc.org/sqlite"
)

// ErrDraftNotFound is returned when no draft has the requested id.
var ErrDraftNotFound = errors.New("draft not found")

// Draft is a generated piece saved locally.
type Draft struct {
	ID        string
	Kind      Kind
	Title     string
	Body      string
	Generator string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type draftRow struct {
	ID        string `db:"id"`
	Kind      string `db:"kind"`
	Title     string `db:"title"`
	Body      string `db:"body"`
	Generator string `db:"generator"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

func (r draftRow) draft() Draft {
	created, _ := time.Parse(time.RFC3339Nano, r.CreatedAt)
	updated, _ := time.Parse(time.RFC3339Nano, r.UpdatedAt)
	return Draft{
		ID:        r.ID,
		Kind:      Kind(r.Kind),
		Title:     r.Title,
		Body:      r.Body,
		Generator: r.Generator,
		CreatedAt: created,
		UpdatedAt: updated,
	}
}

const draftsSchema = `
CREATE TABLE IF NOT EXISTS drafts (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	title      TEXT NOT NULL DEFAULT '',
	body       TEXT NOT NULL DEFAULT '',
	generator  TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS drafts_created_at ON drafts (created_at);
`

// Store persists drafts in SQLite.
type Store struct {
	db *sqlx.DB
	// Clock is injectable for tests.
	Clock func() time.Time
}

// OpenStore opens (creating if needed) the drafts database at path.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating drafts dir: %w", err)
		}
	}
	db, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(draftsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, Clock: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) now() string {
	return s.Clock().UTC().Format(time.RFC3339Nano)
}

// Save inserts a new draft, assigning its id and timestamps.
func (s *Store) Save(ctx context.Context, d Draft) (Draft, error) {
	if d.ID == "" {
		d.ID = xid.New().String()
	}
	now := s.now()
	row := draftRow{
		ID:        d.ID,
		Kind:      string(d.Kind),
		Title:     d.Title,
		Body:      d.Body,
		Generator: d.Generator,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO drafts (id, kind, title, body, generator, created_at, updated_at)
		VALUES (:id, :kind, :title, :body, :generator, :created_at, :updated_at)`, row)
	if err != nil {
		return Draft{}, fmt.Errorf("saving draft: %w", err)
	}
	return row.draft(), nil
}

// Get returns the draft with id.
func (s *Store) Get(ctx context.Context, id string) (Draft, error) {
	var row draftRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM drafts WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Draft{}, fmt.Errorf("%w: %s", ErrDraftNotFound, id)
	}
	if err != nil {
		return Draft{}, fmt.Errorf("loading draft %s: %w", id, err)
	}
	return row.draft(), nil
}

// List returns drafts newest first, optionally filtered by kind.
func (s *Store) List(ctx context.Context, kind Kind) ([]Draft, error) {
	var rows []draftRow
	var err error
	if kind == "" {
		err = s.db.SelectContext(ctx, &rows, `SELECT * FROM drafts ORDER BY created_at DESC, id DESC`)
	} else {
		err = s.db.SelectContext(ctx, &rows, `SELECT * FROM drafts WHERE kind = ? ORDER BY created_at DESC, id DESC`, string(kind))
	}
	if err != nil {
		return nil, fmt.Errorf("listing drafts: %w", err)
	}
	out := make([]Draft, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.draft())
	}
	return out, nil
}

// UpdateBody replaces the body of draft id.
func (s *Store) UpdateBody(ctx context.Context, id, body string) (Draft, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE drafts SET body = ?, updated_at = ? WHERE id = ?`, body, s.now(), id)
	if err != nil {
		return Draft{}, fmt.Errorf("updating draft %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Draft{}, fmt.Errorf("%w: %s", ErrDraftNotFound, id)
	}
	return s.Get(ctx, id)
}

// Delete removes draft id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting draft %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrDraftNotFound, id)
	}
	return nil
}
