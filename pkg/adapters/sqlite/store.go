package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/strand/pkg/document"
	"github.com/aretw0/strand/pkg/domain"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Store implements ports.DocumentStore on a single SQLite table holding one
// JSON payload per document.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// New opens (or creates) the database at path.
// An empty path defaults to "strand.db"; ":memory:" keeps everything in memory.
func New(path string) (*Store, error) {
	if path == "" {
		path = "strand.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A :memory: database lives per connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create documents table: %w", err)
	}
	return &Store{db: db, path: path, now: time.Now}, nil
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Save upserts the snapshot.
func (s *Store) Save(ctx context.Context, docID string, snap *document.Snapshot) error {
	if docID == "" {
		return fmt.Errorf("docID cannot be empty")
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO documents (id, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		docID, data, s.now().Unix())
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}

// Load retrieves the snapshot for docID.
func (s *Store) Load(ctx context.Context, docID string) (*document.Snapshot, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM documents WHERE id = ?`, docID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", docID, domain.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("select document: %w", err)
	}
	var snap document.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &snap, nil
}

// Delete removes the document.
func (s *Store) Delete(ctx context.Context, docID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, docID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// List returns document IDs ordered by ID.
func (s *Store) List(ctx context.Context) (_ []string, retErr error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM documents ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select documents: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil && retErr == nil {
			retErr = err
		}
	}()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
