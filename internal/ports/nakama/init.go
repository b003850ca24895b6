package nakama

import (
	"context"
	"database/sql"

	"motionarcade/internal/bot"

	"github.com/heroiclabs/nakama-common/runtime"
)

// leaderboardSpec is the sort order and operator of one game's leaderboard.
type leaderboardSpec struct {
	id        string
	sortOrder string
}

var leaderboards = []leaderboardSpec{
	{id: LeaderboardSimon, sortOrder: "desc"},
	{id: LeaderboardBalls, sortOrder: "desc"},
	{id: LeaderboardPunch, sortOrder: "asc"}, // completion time in ms
}

// InitModule wires RPCs, hooks, leaderboards and the match handler for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := RegisterRPCs(initializer); err != nil {
		return err
	}
	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}
	if err := initializer.RegisterMatch(MatchNameArcade, NewMatch); err != nil {
		return err
	}

	for _, lb := range leaderboards {
		if err := nk.LeaderboardCreate(ctx, lb.id, true, lb.sortOrder, "best", "", nil, true); err != nil {
			logger.Error("InitModule: Failed to create leaderboard %s: %v", lb.id, err)
			return err
		}
	}

	if err := bot.LoadIdentities(ghostIdentitiesPath); err != nil {
		logger.Warn("InitModule: Could not load ghost identities: %v", err)
	} else {
		bot.ProvisionGhosts(ctx, nk, logger)
	}

	logger.Info("Motion arcade Go module loaded.")
	return nil
}
