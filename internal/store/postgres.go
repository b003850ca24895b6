package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PostgresDB implements DB on a shared PostgreSQL database.
type PostgresDB struct {
	conn *pgx.Conn
}

// NewPostgresDB connects to connString. Call Migrate before use.
func NewPostgresDB(ctx context.Context, connString string) (*PostgresDB, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return &PostgresDB{conn: conn}, nil
}

func (p *PostgresDB) Close() error {
	return p.conn.Close(context.Background())
}

func (p *PostgresDB) Migrate(ctx context.Context) error {
	_, err := p.conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			game TEXT NOT NULL,
			source TEXT NOT NULL,
			level TEXT NOT NULL DEFAULT '',
			frames INT NOT NULL DEFAULT 0,
			rounds INT NOT NULL DEFAULT 0,
			final_score INT NOT NULL DEFAULT 0,
			won BOOLEAN NOT NULL DEFAULT FALSE,
			duration_ms BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS run_events (
			run_id TEXT NOT NULL REFERENCES runs(id),
			seq INT NOT NULL,
			at_ms BIGINT NOT NULL,
			kind TEXT NOT NULL,
			payload JSONB NOT NULL DEFAULT '{}',
			PRIMARY KEY (run_id, seq)
		);
		CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs (created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_runs_game_created ON runs (game, created_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}
	return nil
}

func (p *PostgresDB) SaveRun(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	_, err := p.conn.Exec(ctx, `
		INSERT INTO runs (id, game, source, level, frames, rounds, final_score, won, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, run.ID, run.Game, run.Source, run.Level, run.Frames, run.Rounds,
		run.FinalScore, run.Won, run.DurationMs, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

func (p *PostgresDB) SaveEvents(ctx context.Context, runID string, events []EventRecord) error {
	if len(events) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, ev := range events {
		batch.Queue(`INSERT INTO run_events (run_id, seq, at_ms, kind, payload) VALUES ($1, $2, $3, $4, $5)`,
			runID, ev.Seq, ev.AtMs, ev.Kind, ev.Payload)
	}
	tx, err := p.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to save events: %w", err)
	}
	return tx.Commit(ctx)
}

func (p *PostgresDB) GetRun(ctx context.Context, id string) (*Run, error) {
	var run Run
	err := p.conn.QueryRow(ctx, `
		SELECT id, game, source, level, frames, rounds, final_score, won, duration_ms, created_at
		FROM runs WHERE id = $1
	`, id).Scan(&run.ID, &run.Game, &run.Source, &run.Level, &run.Frames, &run.Rounds,
		&run.FinalScore, &run.Won, &run.DurationMs, &run.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (p *PostgresDB) GetEvents(ctx context.Context, runID string) ([]EventRecord, error) {
	rows, err := p.conn.Query(ctx, `SELECT seq, at_ms, kind, payload::text FROM run_events WHERE run_id = $1 ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (EventRecord, error) {
		var ev EventRecord
		err := row.Scan(&ev.Seq, &ev.AtMs, &ev.Kind, &ev.Payload)
		return ev, err
	})
}

func (p *PostgresDB) ListRuns(ctx context.Context, query RunsQuery) ([]Run, error) {
	rows, err := p.conn.Query(ctx, `
		SELECT id, game, source, level, frames, rounds, final_score, won, duration_ms, created_at
		FROM runs
		WHERE ($1 = '' OR game = $1) AND ($2 = '' OR source = $2)
		ORDER BY created_at DESC
		LIMIT $3
	`, query.Game, query.Source, query.limit())
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Run, error) {
		var run Run
		err := row.Scan(&run.ID, &run.Game, &run.Source, &run.Level, &run.Frames, &run.Rounds,
			&run.FinalScore, &run.Won, &run.DurationMs, &run.CreatedAt)
		return run, err
	})
}
