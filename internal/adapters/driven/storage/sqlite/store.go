package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	sqlitedriver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// DatabaseFile is the name of the database inside the data directory.
const DatabaseFile = "index.db"

// Ensure Store implements the interface.
var _ driven.IndexStore = (*Store)(nil)

// Store persists vector index snapshots in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.docqa/data/index.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docqa", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, classify(dbPath, fmt.Errorf("opening database: %w", err))
	}

	// Enable foreign keys so chunk rows follow their index
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, classify(dbPath, fmt.Errorf("enabling foreign keys: %w", err))
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, classify(dbPath, fmt.Errorf("running migrations: %w", err))
	}

	return s, nil
}

// classify marks err as domain.ErrCorruptIndex when SQLite reports that the
// file at path is damaged or not a database at all.
func classify(path string, err error) error {
	var sqlErr *sqlitedriver.Error
	if !errors.As(err, &sqlErr) {
		return err
	}
	switch sqlErr.Code() & 0xff {
	case sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_CORRUPT:
		return fmt.Errorf("%w: %s: %w", domain.ErrCorruptIndex, path, err)
	}
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}

// Exists reports whether an index is stored under key.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM indices WHERE key = ?", key).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking index %s: %w", key, err)
	}
	return n > 0, nil
}

// Write stores the snapshot in one transaction, replacing any previous
// index under the same key.
func (s *Store) Write(ctx context.Context, snapshot *domain.IndexSnapshot) error {
	if snapshot == nil || strings.TrimSpace(snapshot.Info.Key) == "" {
		return fmt.Errorf("%w: snapshot has no key", domain.ErrInvalidInput)
	}
	info := snapshot.Info
	for i, c := range snapshot.Chunks {
		if len(c.Embedding) != info.Dimensions {
			return fmt.Errorf("%w: chunk %d has %d dimensions, index has %d",
				domain.ErrDimensionMismatch, i, len(c.Embedding), info.Dimensions)
		}
	}
	if info.CreatedAt.IsZero() {
		info.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM indices WHERE key = ?", info.Key); err != nil {
		return fmt.Errorf("removing previous index: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO indices (key, document_uri, title, model, dimensions, chunk_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, info.Key, info.DocumentURI, info.Title, info.Model, info.Dimensions,
		len(snapshot.Chunks), info.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("inserting index: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO index_chunks (index_key, position, id, content, metadata, embedding)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing chunk insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range snapshot.Chunks {
		metadata := "{}"
		if len(c.Metadata) > 0 {
			b, err := json.Marshal(c.Metadata)
			if err != nil {
				return fmt.Errorf("marshalling chunk %d metadata: %w", i, err)
			}
			metadata = string(b)
		}
		if _, err := stmt.ExecContext(ctx, info.Key, i, c.ID, c.Content, metadata,
			float32SliceToBytes(c.Embedding)); err != nil {
			return fmt.Errorf("inserting chunk %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing index: %w", err)
	}
	return nil
}

// Read loads the index stored under key.
// Any inconsistency between the index row and its chunks is reported as
// domain.ErrCorruptIndex.
func (s *Store) Read(ctx context.Context, key string) (*domain.IndexSnapshot, error) {
	info, err := s.readInfo(ctx, key)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT position, id, content, metadata, embedding
		FROM index_chunks WHERE index_key = ? ORDER BY position
	`, key)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	chunks := make([]domain.Chunk, 0, info.ChunkCount)
	for rows.Next() {
		var (
			position     int
			id, content  string
			metadataJSON string
			blob         []byte
		)
		if err := rows.Scan(&position, &id, &content, &metadataJSON, &blob); err != nil {
			return nil, fmt.Errorf("%w: scanning chunk: %w", domain.ErrCorruptIndex, err)
		}
		if position != len(chunks) {
			return nil, fmt.Errorf("%w: chunk position %d out of sequence", domain.ErrCorruptIndex, position)
		}
		if len(blob) != info.Dimensions*4 {
			return nil, fmt.Errorf("%w: chunk %d embedding is %d bytes, want %d",
				domain.ErrCorruptIndex, position, len(blob), info.Dimensions*4)
		}
		metadata, err := decodeMetadata(metadataJSON)
		if err != nil {
			return nil, fmt.Errorf("%w: chunk %d metadata: %w", domain.ErrCorruptIndex, position, err)
		}
		chunks = append(chunks, domain.Chunk{
			ID:         id,
			DocumentID: key,
			Content:    content,
			Position:   position,
			Embedding:  bytesToFloat32Slice(blob),
			Metadata:   metadata,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating chunks: %w", domain.ErrCorruptIndex, err)
	}

	if len(chunks) != info.ChunkCount {
		return nil, fmt.Errorf("%w: index records %d chunks, found %d",
			domain.ErrCorruptIndex, info.ChunkCount, len(chunks))
	}

	return &domain.IndexSnapshot{Info: *info, Chunks: chunks}, nil
}

// Delete removes the index stored under key together with its chunks.
func (s *Store) Delete(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM indices WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("deleting index: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting index: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns metadata for all stored indices, newest first.
func (s *Store) List(ctx context.Context) ([]domain.IndexInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, document_uri, title, model, dimensions, chunk_count, created_at
		FROM indices ORDER BY created_at DESC, key
	`)
	if err != nil {
		return nil, fmt.Errorf("listing indices: %w", err)
	}
	defer rows.Close()

	var infos []domain.IndexInfo
	for rows.Next() {
		info, err := scanInfo(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning index: %w", err)
		}
		infos = append(infos, *info)
	}
	return infos, rows.Err()
}

func (s *Store) readInfo(ctx context.Context, key string) (*domain.IndexInfo, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT key, document_uri, title, model, dimensions, chunk_count, created_at
		FROM indices WHERE key = ?
	`, key)
	info, err := scanInfo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading index row: %w", domain.ErrCorruptIndex, err)
	}
	if info.Dimensions <= 0 {
		return nil, fmt.Errorf("%w: index has %d dimensions", domain.ErrCorruptIndex, info.Dimensions)
	}
	return info, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanInfo(r rowScanner) (*domain.IndexInfo, error) {
	var (
		info    domain.IndexInfo
		created int64
	)
	if err := r.Scan(&info.Key, &info.DocumentURI, &info.Title, &info.Model,
		&info.Dimensions, &info.ChunkCount, &created); err != nil {
		return nil, err
	}
	info.CreatedAt = time.UnixMilli(created)
	return &info, nil
}

// decodeMetadata parses chunk metadata. JSON numbers that hold whole
// values come back as int, matching what the chunker writes.
func decodeMetadata(data string) (map[string]any, error) {
	var meta map[string]any
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, errors.New("metadata is not an object")
	}
	for k, v := range meta {
		if f, ok := v.(float64); ok && f == math.Trunc(f) && math.Abs(f) < math.MaxInt32 {
			meta[k] = int(f)
		}
	}
	return meta, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
