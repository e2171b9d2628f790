package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite for persistence
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the run ledger at dbPath
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite works best with a single writer
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			duration_ms INTEGER NOT NULL,
			input TEXT NOT NULL,
			output TEXT NOT NULL,
			bytes_in INTEGER NOT NULL,
			bytes_out INTEGER NOT NULL,
			images INTEGER NOT NULL,
			recompressed INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			scale REAL NOT NULL,
			quality REAL NOT NULL,
			exempt_width INTEGER NOT NULL,
			exempt_height INTEGER NOT NULL,
			error TEXT NOT NULL DEFAULT ''
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create runs table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS runs_started_at ON runs (started_at)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create runs index: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Record stores a run
func (s *SQLiteStore) Record(run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	_, err := s.db.Exec(`
		INSERT INTO runs (id, started_at, duration_ms, input, output, bytes_in, bytes_out,
			images, recompressed, skipped, scale, quality, exempt_width, exempt_height, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt.UTC(), run.Duration.Milliseconds(), run.Input, run.Output,
		run.BytesIn, run.BytesOut, run.Images, run.Recompressed, run.Skipped,
		run.Scale, run.Quality, run.ExemptWidth, run.ExemptHeight, run.Error)
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	return run.ID, nil
}

const runColumns = `id, started_at, duration_ms, input, output, bytes_in, bytes_out,
	images, recompressed, skipped, scale, quality, exempt_width, exempt_height, error`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	var ms int64
	err := row.Scan(&r.ID, &r.StartedAt, &ms, &r.Input, &r.Output, &r.BytesIn, &r.BytesOut,
		&r.Images, &r.Recompressed, &r.Skipped, &r.Scale, &r.Quality,
		&r.ExemptWidth, &r.ExemptHeight, &r.Error)
	r.Duration = time.Duration(ms) * time.Millisecond
	return r, err
}

// Get retrieves a run by ID
func (s *SQLiteStore) Get(id string) (*Run, error) {
	r, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return &r, nil
}

// Recent lists the most recent runs
func (s *SQLiteStore) Recent(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
