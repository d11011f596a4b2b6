package metastore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps the sidecar document in a single-row table. Every write
// bumps a revision counter; it is not checked on write yet, so concurrent
// writers still race with last-write-wins.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens or creates the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db, dbPath: dbPath}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS sidecar (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		document TEXT NOT NULL,
		revision INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME NOT NULL
	);`)
	return err
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.dbPath }

// Read loads the document; an empty table reads as an empty document.
func (s *SQLiteStore) Read(ctx context.Context) (*Sidecar, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM sidecar WHERE id = 1`).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return NewSidecar(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read sidecar: %w", err)
	}
	sc := &Sidecar{}
	if err := json.Unmarshal([]byte(doc), sc); err != nil {
		return nil, fmt.Errorf("decode sidecar: %w", err)
	}
	sc.normalize()
	return sc, nil
}

// Write stores the document and increments the revision.
func (s *SQLiteStore) Write(ctx context.Context, sc *Sidecar) error {
	sc.normalize()
	doc, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("encode sidecar: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
	INSERT INTO sidecar (id, document, revision, updated_at) VALUES (1, ?, 1, ?)
	ON CONFLICT(id) DO UPDATE SET
		document = excluded.document,
		revision = sidecar.revision + 1,
		updated_at = excluded.updated_at`, string(doc), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("write sidecar: %w", err)
	}
	return nil
}

// Revision returns how many times the document has been written.
func (s *SQLiteStore) Revision(ctx context.Context) (int64, error) {
	var rev int64
	err := s.db.QueryRowContext(ctx, `SELECT revision FROM sidecar WHERE id = 1`).Scan(&rev)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return rev, err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
