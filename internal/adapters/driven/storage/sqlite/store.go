package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ferrule-labs/quaero/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/ferrule-labs/quaero/internal/core/domain"
	"github.com/ferrule-labs/quaero/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.SourceStore = (*Store)(nil)

// Store is the SQLite-backed source registry.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates the registry at the specified data directory.
// If dataDir is empty, defaults to ~/.quaero/data/sources.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".quaero", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "sources.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
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
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version,
		); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Save stores or updates a source record.
func (s *Store) Save(ctx context.Context, source domain.Source) error {
	if source.ID == "" {
		return fmt.Errorf("%w: source ID is required", domain.ErrInvalidInput)
	}
	if source.IngestedAt.IsZero() {
		source.IngestedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sources (id, kind, title, chunk_count, ingested_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			title = excluded.title,
			chunk_count = excluded.chunk_count,
			ingested_at = excluded.ingested_at
	`, source.ID, source.Kind.String(), source.Title, source.ChunkCount, source.IngestedAt)

	if err != nil {
		return fmt.Errorf("saving source: %w", err)
	}
	return nil
}

// Get retrieves a source by ID.
func (s *Store) Get(ctx context.Context, id string) (*domain.Source, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, kind, title, chunk_count, ingested_at
		FROM sources WHERE id = ?
	`, id)

	source, err := scanSource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting source: %w", err)
	}
	return source, nil
}

// List returns all sources, most recently ingested first.
func (s *Store) List(ctx context.Context) ([]domain.Source, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, title, chunk_count, ingested_at
		FROM sources ORDER BY ingested_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.Source
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning source: %w", err)
		}
		sources = append(sources, *source)
	}
	return sources, rows.Err()
}

// Count returns the number of registered sources.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sources")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting sources: %w", err)
	}
	return count, nil
}

// Clear removes all source records.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM sources"); err != nil {
		return fmt.Errorf("clearing sources: %w", err)
	}
	return nil
}

// scanner abstracts sql.Row and sql.Rows for scanSource.
type scanner interface {
	Scan(dest ...any) error
}

func scanSource(row scanner) (*domain.Source, error) {
	var source domain.Source
	var kind string
	if err := row.Scan(&source.ID, &kind, &source.Title,
		&source.ChunkCount, &source.IngestedAt); err != nil {
		return nil, err
	}
	source.Kind = domain.SourceKind(kind)
	return &source, nil
}
