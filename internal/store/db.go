package store

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrRunNotFound is returned when a run id is not in the store.
var ErrRunNotFound = errors.New("run not found")

// DB is the run-history store used by the operator CLI.
type DB interface {
	Close() error
	Migrate(ctx context.Context) error
	SaveRun(ctx context.Context, run *Run) error
	SaveEvents(ctx context.Context, runID string, events []EventRecord) error
	GetRun(ctx context.Context, id string) (*Run, error)
	GetEvents(ctx context.Context, runID string) ([]EventRecord, error)
	ListRuns(ctx context.Context, query RunsQuery) ([]Run, error)
}

// RunsQuery filters ListRuns. Zero values mean no filter; Limit defaults to 20.
type RunsQuery struct {
	Game   string
	Source string
	Limit  int
}

func (q RunsQuery) limit() int {
	if q.Limit <= 0 {
		return 20
	}
	return q.Limit
}

// Run is one offline game played by the CLI, either simulated by a ghost or replayed from a log.
type Run struct {
	ID         string    `json:"id"`
	Game       string    `json:"game"`
	Source     string    `json:"source"` // "simulate" or "replay"
	Level      string    `json:"level,omitempty"`
	Frames     int       `json:"frames"`
	Rounds     int       `json:"rounds"`
	FinalScore int       `json:"final_score"`
	Won        bool      `json:"won"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// EventRecord is one emitted game event in the order it was produced.
type EventRecord struct {
	Seq     int    `json:"seq"`
	AtMs    int64  `json:"at_ms"` // offset from the start of the run
	Kind    string `json:"kind"`
	Payload string `json:"payload"` // JSON
}

// Open picks the backend from the DSN: postgres:// URLs use pgx, anything else is a SQLite path.
// The schema is migrated before returning.
func Open(ctx context.Context, dsn string) (DB, error) {
	var db DB
	var err error
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		db, err = NewPostgresDB(ctx, dsn)
	} else {
		db, err = NewSQLiteDB(dsn)
	}
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
