package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestSQLite(t *testing.T) DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLiteRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newTestSQLite(t)

	run := &Run{Game: "simon", Source: "simulate", Level: "good", Frames: 900, Rounds: 4, FinalScore: 3, DurationMs: 30000}
	if err := db.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if run.ID == "" || run.CreatedAt.IsZero() {
		t.Fatalf("SaveRun did not assign id/created_at: %+v", run)
	}

	got, err := db.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Game != "simon" || got.Level != "good" || got.Rounds != 4 || got.FinalScore != 3 || got.Won {
		t.Fatalf("GetRun = %+v", got)
	}
}

func TestSQLiteGetRunNotFound(t *testing.T) {
	db := newTestSQLite(t)
	if _, err := db.GetRun(context.Background(), "missing"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("GetRun error = %v, want ErrRunNotFound", err)
	}
}

func TestSQLiteEventsKeepOrder(t *testing.T) {
	ctx := context.Background()
	db := newTestSQLite(t)

	run := &Run{Game: "punch", Source: "replay"}
	if err := db.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	events := []EventRecord{
		{Seq: 0, AtMs: 0, Kind: "targetChanged", Payload: `{"index":0}`},
		{Seq: 1, AtMs: 1200, Kind: "scoreChanged", Payload: `{"score":1}`},
		{Seq: 2, AtMs: 1200, Kind: "targetChanged", Payload: `{"index":1}`},
	}
	if err := db.SaveEvents(ctx, run.ID, events); err != nil {
		t.Fatalf("SaveEvents: %v", err)
	}
	if err := db.SaveEvents(ctx, run.ID, nil); err != nil {
		t.Fatalf("SaveEvents(nil): %v", err)
	}

	got, err := db.GetEvents(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetEvents: %v", err)
	}
	if len(got) != len(events) {
		t.Fatalf("GetEvents len = %d, want %d", len(got), len(events))
	}
	for i := range events {
		if got[i] != events[i] {
			t.Errorf("event %d = %+v, want %+v", i, got[i], events[i])
		}
	}
}

func TestSQLiteListRuns(t *testing.T) {
	ctx := context.Background()
	db := newTestSQLite(t)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	runs := []*Run{
		{ID: "a", Game: "simon", Source: "simulate", CreatedAt: base},
		{ID: "b", Game: "balls", Source: "replay", CreatedAt: base.Add(time.Minute)},
		{ID: "c", Game: "simon", Source: "replay", CreatedAt: base.Add(2 * time.Minute), Won: true},
	}
	for _, run := range runs {
		if err := db.SaveRun(ctx, run); err != nil {
			t.Fatalf("SaveRun(%s): %v", run.ID, err)
		}
	}

	tests := []struct {
		name  string
		query RunsQuery
		want  []string
	}{
		{name: "All", query: RunsQuery{}, want: []string{"c", "b", "a"}},
		{name: "ByGame", query: RunsQuery{Game: "simon"}, want: []string{"c", "a"}},
		{name: "BySource", query: RunsQuery{Source: "replay"}, want: []string{"c", "b"}},
		{name: "Limit", query: RunsQuery{Limit: 1}, want: []string{"c"}},
		{name: "NoMatch", query: RunsQuery{Game: "punch"}, want: nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := db.ListRuns(ctx, test.query)
			if err != nil {
				t.Fatalf("ListRuns: %v", err)
			}
			if len(got) != len(test.want) {
				t.Fatalf("ListRuns len = %d, want %d", len(got), len(test.want))
			}
			for i, id := range test.want {
				if got[i].ID != id {
					t.Errorf("ListRuns[%d] = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}

	got, err := db.ListRuns(ctx, RunsQuery{Game: "simon", Limit: 1})
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if !got[0].Won {
		t.Error("won flag lost in round trip")
	}
}

func TestSQLiteMigrateIsIdempotent(t *testing.T) {
	db, err := NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteDB: %v", err)
	}
	defer db.Close()
	for i := 0; i < 2; i++ {
		if err := db.Migrate(context.Background()); err != nil {
			t.Fatalf("Migrate #%d: %v", i+1, err)
		}
	}
}
