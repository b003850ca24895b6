package ports

import (
	"context"
	"time"
)

// GameResult is the outcome of one finished game, reported for persistence.
type GameResult struct {
	UserID   string
	Username string
	Game     string
	Score    int64
	Won      bool
	Elapsed  time.Duration // completion time; only meaningful for timed games
}

// Records holds a player's personal bests per game.
type Records struct {
	BestScore map[string]int64 `json:"best_score"`
	BestTime  map[string]int64 `json:"best_time_ms"`
}

// RecordsPort persists personal bests and leaderboard entries.
type RecordsPort interface {
	// InitRecordsOnce writes an empty record set for a new user.
	// Returns created=false when the user already had records.
	InitRecordsOnce(ctx context.Context, userID string) (bool, error)

	// GetRecords reads the user's personal bests; a user without records gets empty maps.
	GetRecords(ctx context.Context, userID string) (Records, error)

	// SubmitResult updates personal bests and the game's leaderboard.
	// Returns improved=true when a personal best was beaten.
	SubmitResult(ctx context.Context, result GameResult) (bool, error)
}
