package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var collectionName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// SQLiteStore implements Store using one SQLite table per collection.
type SQLiteStore struct {
	db *sql.DB

	mu      sync.Mutex
	created map[string]bool
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at path.
// _busy_timeout: wait up to 5 seconds if the database is locked.
// _journal_mode=WAL: better behavior under concurrent stage fan-outs.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open store database: %w", err)
	}

	// SQLite allows a single writer; serialize through one connection
	// to avoid "database is locked" errors from concurrent writes.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return &SQLiteStore{db: db, created: make(map[string]bool)}, nil
}

func (s *SQLiteStore) ensureCollection(ctx context.Context, collection string) error {
	if collection == "" {
		return ErrEmptyCollection
	}
	if !collectionName.MatchString(collection) {
		return fmt.Errorf("invalid collection name %q", collection)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.created[collection] {
		return nil
	}

	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
		id TEXT PRIMARY KEY,
		data TEXT NOT NULL
	)`, collection))
	if err != nil {
		return fmt.Errorf("failed to create collection %s: %w", collection, err)
	}

	s.created[collection] = true
	return nil
}

func (s *SQLiteStore) Write(ctx context.Context, collection string, doc any, documentID string) error {
	if err := s.ensureCollection(ctx, collection); err != nil {
		return err
	}

	if documentID == "" {
		documentID = uuid.New().String()
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document for %s: %w", collection, err)
	}

	_, err = s.db.ExecContext(ctx,
		fmt.Sprintf("INSERT OR REPLACE INTO %q (id, data) VALUES (?, ?)", collection),
		documentID, string(data))
	if err != nil {
		return fmt.Errorf("failed to write document %s/%s: %w", collection, documentID, err)
	}
	return nil
}

func (s *SQLiteStore) Update(ctx context.Context, collection, documentID string, fields map[string]any) error {
	if documentID == "" {
		return ErrNotFound
	}
	if err := s.ensureCollection(ctx, collection); err != nil {
		return err
	}

	var data string
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT data FROM %q WHERE id = ?", collection),
		documentID).Scan(&data)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read document %s/%s: %w", collection, documentID, err)
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return fmt.Errorf("failed to decode document %s/%s: %w", collection, documentID, err)
	}
	for k, v := range fields {
		doc[k] = v
	}

	merged, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document %s/%s: %w", collection, documentID, err)
	}

	_, err = s.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE %q SET data = ? WHERE id = ?", collection),
		string(merged), documentID)
	if err != nil {
		return fmt.Errorf("failed to update document %s/%s: %w", collection, documentID, err)
	}
	return nil
}

// Get reads one document into out. Mostly useful for tests and offline
// inspection; the pipeline itself only writes.
func (s *SQLiteStore) Get(ctx context.Context, collection, documentID string, out any) error {
	if err := s.ensureCollection(ctx, collection); err != nil {
		return err
	}

	var data string
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT data FROM %q WHERE id = ?", collection),
		documentID).Scan(&data)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read document %s/%s: %w", collection, documentID, err)
	}
	return json.Unmarshal([]byte(data), out)
}

// Count returns the number of documents in a collection.
func (s *SQLiteStore) Count(ctx context.Context, collection string) (int, error) {
	if err := s.ensureCollection(ctx, collection); err != nil {
		return 0, err
	}

	var n int
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %q", collection)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count collection %s: %w", collection, err)
	}
	return n, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
