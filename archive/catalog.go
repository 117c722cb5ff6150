package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/akononovicius/flicker-snorp/experiment"
	"github.com/google/uuid"

	_ "modernc.org/sqlite" // SQLite driver
)

// ErrNotFound is returned when a run ID is not in the catalog.
var ErrNotFound = errors.New("archive: run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	created_at  TEXT NOT NULL,
	model       TEXT NOT NULL,
	seed        INTEGER NOT NULL,
	mode        TEXT NOT NULL,
	pulse       TEXT NOT NULL,
	gap         TEXT NOT NULL,
	repeats     INTEGER NOT NULL,
	regime      TEXT NOT NULL,
	frequencies INTEGER NOT NULL,
	elapsed_ms  INTEGER NOT NULL,
	path        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_model ON runs(model);
`

// Entry is one catalogued run.
type Entry struct {
	ID          string
	CreatedAt   time.Time
	Model       string
	Seed        uint64
	Mode        string
	Pulse       string
	Gap         string
	Repeats     int
	Regime      string
	Frequencies int
	Elapsed     time.Duration
	Path        string
}

// Catalog indexes archived runs in a sqlite database.
type Catalog struct {
	db *sql.DB
}

// OpenCatalog opens or creates the catalog database at path.
func OpenCatalog(ctx context.Context, path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize catalog schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Close closes the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Add records res, saved at path, and returns the new run ID.
func (c *Catalog) Add(ctx context.Context, res *experiment.Result, path string) (string, error) {
	e := Entry{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
		Model:       ModelInfo(res.Pulse, res.Gap),
		Seed:        res.Seed,
		Mode:        string(res.Config.Mode),
		Pulse:       res.Pulse.String(),
		Gap:         res.Gap.String(),
		Repeats:     res.Config.Repeats,
		Regime:      res.Regime,
		Frequencies: len(res.Freqs),
		Elapsed:     res.Elapsed,
		Path:        path,
	}
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, model, seed, mode, pulse, gap, repeats, regime, frequencies, elapsed_ms, path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.CreatedAt.Format(timeLayout), e.Model, int64(e.Seed), e.Mode, e.Pulse, e.Gap,
		e.Repeats, e.Regime, e.Frequencies, e.Elapsed.Milliseconds(), e.Path,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}
	return e.ID, nil
}

// Get returns the run with the given ID.
func (c *Catalog) Get(ctx context.Context, id string) (Entry, error) {
	row := c.db.QueryRowContext(ctx, `SELECT `+columns+` FROM runs WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, err
}

// List returns catalogued runs, newest first. A non-empty model restricts
// the result to that model.
func (c *Catalog) List(ctx context.Context, model string) ([]Entry, error) {
	query := `SELECT ` + columns + ` FROM runs`
	var args []any
	if model != "" {
		query += ` WHERE model = ?`
		args = append(args, model)
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const columns = `id, created_at, model, seed, mode, pulse, gap, repeats, regime, frequencies, elapsed_ms, path`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var (
		e         Entry
		createdAt string
		seed      int64
		elapsedMS int64
	)
	err := s.Scan(&e.ID, &createdAt, &e.Model, &seed, &e.Mode, &e.Pulse, &e.Gap,
		&e.Repeats, &e.Regime, &e.Frequencies, &elapsedMS, &e.Path)
	if err != nil {
		return Entry{}, err
	}
	e.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to parse created_at %q: %w", createdAt, err)
	}
	e.Seed = uint64(seed)
	e.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	return e, nil
}
