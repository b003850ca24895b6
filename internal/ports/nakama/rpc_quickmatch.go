package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"motionarcade/internal/app"

	"github.com/heroiclabs/nakama-common/runtime"
)

// QuickMatchRequest selects the game; empty means simon.
type QuickMatchRequest struct {
	Game string `json:"game"`
}

// QuickMatchResponse is the payload returned to clients when requesting a match.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcGetRecords, rpcGetRecords)
}

// rpcQuickMatch creates a private match for the caller. Matches are never shared: one player per match.
func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("no user in context", codeInvalidArgument)
	}

	request := QuickMatchRequest{}
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &request); err != nil {
			return "", runtime.NewError("invalid quick match payload", codeInvalidArgument)
		}
	}
	game := app.GameSimon
	if request.Game != "" {
		game = app.GameKind(request.Game)
	}
	if !app.ValidGame(game) {
		return "", runtime.NewError("unknown game", codeInvalidArgument)
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameArcade, map[string]interface{}{
		"game":  string(game),
		"owner": userID,
	})
	if err != nil {
		logger.Error("rpcQuickMatch: MatchCreate error: %v", err)
		return "", runtime.NewError("failed to create match", codeInternal)
	}

	b, err := json.Marshal(QuickMatchResponse{MatchID: matchID, IsNew: true})
	if err != nil {
		return "", runtime.NewError("failed to marshal response", codeInternal)
	}
	logger.Debug("rpcQuickMatch: Created %s match %s for %s", game, matchID, userID)
	return string(b), nil
}
