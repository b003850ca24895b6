package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/heroiclabs/nakama-common/runtime"
)

// rpcGetRecords returns the caller's personal bests.
//
// Payload: unused.
// Returns: {"best_score": {game: score}, "best_time_ms": {game: ms}}.
func rpcGetRecords(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("no user in context", codeInvalidArgument)
	}

	records, err := NewNakamaRecordsAdapter(nk).GetRecords(ctx, userID)
	if err != nil {
		logger.Error("rpcGetRecords [User:%s]: %v", userID, err)
		return "", runtime.NewError("failed to read records", codeInternal)
	}
	b, err := json.Marshal(records)
	if err != nil {
		return "", runtime.NewError("failed to marshal records", codeInternal)
	}
	return string(b), nil
}
