package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestPostgresIntegration runs the store against a real Postgres container. It requires Docker.
func TestPostgresIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()

	// testcontainers panics when the docker socket is missing
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("testcontainers panicked: %v", r)
			}
		}()
		_, err = testcontainers.NewDockerClientWithOpts(ctx)
		return
	}()
	if err != nil {
		t.Skipf("Docker not available: %v", err)
	}

	pgContainer, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("arcade_test"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}
	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Errorf("Failed to terminate container: %v", err)
		}
	}()

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	db, err := Open(ctx, connStr)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()
	if _, ok := db.(*PostgresDB); !ok {
		t.Fatalf("Open picked %T for a postgres DSN", db)
	}

	run := &Run{Game: "balls", Source: "simulate", Level: "perfect", FinalScore: 12}
	if err := db.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	events := []EventRecord{
		{Seq: 0, AtMs: 0, Kind: "ballSpawned", Payload: `{"id": 1}`},
		{Seq: 1, AtMs: 900, Kind: "ballCaught", Payload: `{"id": 1, "score": 1}`},
	}
	if err := db.SaveEvents(ctx, run.ID, events); err != nil {
		t.Fatalf("SaveEvents: %v", err)
	}

	got, err := db.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.FinalScore != 12 || got.Level != "perfect" {
		t.Errorf("GetRun = %+v", got)
	}

	gotEvents, err := db.GetEvents(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetEvents: %v", err)
	}
	if len(gotEvents) != 2 || gotEvents[1].Kind != "ballCaught" {
		t.Errorf("GetEvents = %+v", gotEvents)
	}

	runs, err := db.ListRuns(ctx, RunsQuery{Game: "balls"})
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != run.ID {
		t.Errorf("ListRuns = %+v", runs)
	}

	if _, err := db.GetRun(ctx, "missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("GetRun error = %v, want ErrRunNotFound", err)
	}
}
