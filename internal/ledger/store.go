package ledger

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped on schema changes; a mismatching database is
// recreated since the ledger holds no operational state.
const schemaVersion = 1

// timeLayout keeps a fixed-width fraction so stored timestamps sort
// lexicographically in run order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Statuses a book row can carry.
const (
	StatusConverted = "converted"
	StatusFailed    = "failed"
)

// Run is one conversion invocation.
type Run struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  time.Time
	InputDir    string
	OutputDir   string
	BooksTotal  int
	BooksFailed int
}

// Book is one book's outcome within a run.
type Book struct {
	RunID    string
	Index    int
	Title    string
	Dir      string
	Segments int
	Seconds  float64
	Status   string
	Error    string
}

// Store manages ledger persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure ledger directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// BeginRun inserts a new run row and returns its id.
func (s *Store) BeginRun(ctx context.Context, inputDir, outputDir string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, input_dir, output_dir) VALUES (?, ?, ?, ?)`,
		id, time.Now().UTC().Format(timeLayout), inputDir, outputDir,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// RecordBook inserts one book outcome for a run.
func (s *Store) RecordBook(ctx context.Context, b Book) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO books (run_id, book_index, title, dir, segments, seconds, status, error)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.RunID, b.Index, b.Title, b.Dir, b.Segments, b.Seconds, b.Status, b.Error,
	)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

// FinishRun stamps a run as finished with its book totals.
func (s *Store) FinishRun(ctx context.Context, runID string, total, failed int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, books_total = ?, books_failed = ? WHERE id = ?`,
		time.Now().UTC().Format(timeLayout), total, failed, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, most recent first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, input_dir, output_dir, books_total, books_failed
         FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started, finished string
		if err := rows.Scan(&run.ID, &started, &finished, &run.InputDir, &run.OutputDir,
			&run.BooksTotal, &run.BooksFailed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		if finished != "" {
			run.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunBooks returns the book outcomes of one run in book order.
func (s *Store) RunBooks(ctx context.Context, runID string) ([]Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, book_index, title, dir, segments, seconds, status, error
         FROM books WHERE run_id = ? ORDER BY book_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.RunID, &b.Index, &b.Title, &b.Dir,
			&b.Segments, &b.Seconds, &b.Status, &b.Error); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 1 {
		var version int
		if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
			return fmt.Errorf("read schema version: %w", err)
		}
		if version == schemaVersion {
			return nil
		}
		// History is disposable; start over on a version bump.
		if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS books; DROP TABLE IF EXISTS runs; DROP TABLE IF EXISTS schema_version"); err != nil {
			return fmt.Errorf("reset schema: %w", err)
		}
	}
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("stamp schema version: %w", err)
	}
	return nil
}
