// Package recorder persists expansion snapshots to SQLite.
//
// Each snapshot records the full case set a manifest expanded to at a
// point in time, keyed by a run ID and stamped with a content digest
// of the rendered expansion. Recording the same manifest before and
// after an edit leaves a queryable history: a digest change means the
// edit changed the case set.
package recorder

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// RunIDGenerator produces the ID for a recorded run.
type RunIDGenerator interface {
	Generate() string
}

// SeqSource produces the monotonic sequence value stamped on a run.
type SeqSource interface {
	Next() int64
}

// UUIDv7Generator generates time-sortable UUIDv7 run IDs.
//
// UUIDv7 embeds a timestamp in the most significant bits, so run IDs
// sort by creation time, which keeps snapshot listings readable.
//
// Thread-safety: stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// wallSeq stamps runs with wall-clock nanoseconds.
type wallSeq struct{}

func (wallSeq) Next() int64 {
	return time.Now().UnixNano()
}

// Recorder provides durable storage for expansion snapshots.
// Uses SQLite with WAL mode for concurrent read access.
type Recorder struct {
	db     *sql.DB
	runIDs RunIDGenerator
	seq    SeqSource
}

// Open creates or opens a snapshot database at the given path with
// production ID and sequence sources (UUIDv7, wall clock).
func Open(path string) (*Recorder, error) {
	return OpenWith(path, UUIDv7Generator{}, wallSeq{})
}

// OpenWith is Open with explicit ID and sequence sources. Tests use it
// with deterministic generators so recorded output is reproducible.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - foreign key enforcement
//
// This function is idempotent - safe to call multiple times.
func OpenWith(path string, runIDs RunIDGenerator, seq SeqSource) (*Recorder, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite supports one writer at a time; a single connection
	// avoids SQLITE_BUSY errors.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Recorder{db: db, runIDs: runIDs, seq: seq}, nil
}

// Close closes the database connection.
func (r *Recorder) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Query executes a query against the underlying database.
// Callers are responsible for closing the returned rows.
func (r *Recorder) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return r.db.QueryContext(ctx, query, args...)
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}
