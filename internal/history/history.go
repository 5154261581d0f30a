// Package history records evaluation runs in SQLite.
package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no run matches an id.
var ErrNotFound = errors.New("run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	created_at  TEXT NOT NULL,
	models      TEXT NOT NULL,
	test_set    TEXT NOT NULL,
	policy      TEXT NOT NULL,
	num_models  INTEGER NOT NULL,
	num_items   INTEGER NOT NULL,
	failures    INTEGER NOT NULL,
	wer         REAL NOT NULL,
	guesses     TEXT NOT NULL,
	words       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_created_at ON runs(created_at);
`

// timeLayout is fixed-width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one recorded evaluation.
type Run struct {
	ID        string
	CreatedAt time.Time
	Models    string
	TestSet   string
	Policy    string
	NumModels int
	NumItems  int
	Failures  int
	WER       float64
	Guesses   []string
	Words     []string
}

// Correct returns the number of items whose guess matched.
func (r Run) Correct() int {
	n := 0
	for i, w := range r.Words {
		if i < len(r.Guesses) && r.Guesses[i] == w {
			n++
		}
	}
	return n
}

// Store manages run history in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and runs migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores run, assigning its ID and creation time, and returns it.
func (s *Store) Record(run Run) (Run, error) {
	run.ID = uuid.New().String()
	run.CreatedAt = time.Now().UTC()

	guesses, err := json.Marshal(run.Guesses)
	if err != nil {
		return Run{}, fmt.Errorf("marshal guesses: %w", err)
	}
	words, err := json.Marshal(run.Words)
	if err != nil {
		return Run{}, fmt.Errorf("marshal words: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO runs (id, created_at, models, test_set, policy, num_models, num_items, failures, wer, guesses, words)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.Format(timeLayout), run.Models, run.TestSet, run.Policy,
		run.NumModels, run.NumItems, run.Failures, run.WER, string(guesses), string(words),
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

const selectRun = `SELECT id, created_at, models, test_set, policy, num_models, num_items, failures, wer, guesses, words FROM runs`

// List returns up to limit runs, newest first. limit <= 0 returns all.
func (s *Store) List(limit int) ([]Run, error) {
	query := selectRun + ` ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Get returns the run whose id starts with prefix. The prefix must match
// exactly one run.
func (s *Store) Get(prefix string) (Run, error) {
	if prefix == "" {
		return Run{}, ErrNotFound
	}
	rows, err := s.db.Query(selectRun+` WHERE id LIKE ? || '%' LIMIT 2`, prefix)
	if err != nil {
		return Run{}, fmt.Errorf("query run: %w", err)
	}
	defer rows.Close()

	var found []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return Run{}, err
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return Run{}, err
	}
	switch len(found) {
	case 0:
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, prefix)
	case 1:
		return found[0], nil
	}
	return Run{}, fmt.Errorf("ambiguous run id %q", prefix)
}

func scanRun(rows *sql.Rows) (Run, error) {
	var run Run
	var created, guesses, words string
	err := rows.Scan(&run.ID, &created, &run.Models, &run.TestSet, &run.Policy,
		&run.NumModels, &run.NumItems, &run.Failures, &run.WER, &guesses, &words)
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.CreatedAt, err = time.Parse(timeLayout, created)
	if err != nil {
		return Run{}, fmt.Errorf("parse created_at: %w", err)
	}
	if err := json.Unmarshal([]byte(guesses), &run.Guesses); err != nil {
		return Run{}, fmt.Errorf("unmarshal guesses: %w", err)
	}
	if err := json.Unmarshal([]byte(words), &run.Words); err != nil {
		return Run{}, fmt.Errorf("unmarshal words: %w", err)
	}
	return run, nil
}
