package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"motionarcade/internal/app"
	"motionarcade/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// maxRecordWriteAttempts bounds retries when another write bumped the records version.
const maxRecordWriteAttempts = 3

// NakamaRecordsAdapter implements ports.RecordsPort with Nakama storage and leaderboards.
type NakamaRecordsAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaRecordsAdapter creates a new records adapter.
func NewNakamaRecordsAdapter(nk runtime.NakamaModule) *NakamaRecordsAdapter {
	return &NakamaRecordsAdapter{nk: nk}
}

func emptyRecords() ports.Records {
	return ports.Records{BestScore: map[string]int64{}, BestTime: map[string]int64{}}
}

// InitRecordsOnce writes an empty record set; an existing object is left untouched.
func (a *NakamaRecordsAdapter) InitRecordsOnce(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, fmt.Errorf("userID is required")
	}
	err := a.write(ctx, userID, emptyRecords(), "*")
	if errors.Is(err, runtime.ErrStorageRejectedVersion) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetRecords reads the user's personal bests.
func (a *NakamaRecordsAdapter) GetRecords(ctx context.Context, userID string) (ports.Records, error) {
	records, _, err := a.read(ctx, userID)
	return records, err
}

func (a *NakamaRecordsAdapter) read(ctx context.Context, userID string) (ports.Records, string, error) {
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: RecordsCollection,
		Key:        RecordsKey,
		UserID:     userID,
	}})
	if err != nil {
		return ports.Records{}, "", fmt.Errorf("failed to read records: %w", err)
	}
	records := emptyRecords()
	if len(objects) == 0 {
		return records, "", nil
	}
	if err := json.Unmarshal([]byte(objects[0].Value), &records); err != nil {
		return ports.Records{}, "", fmt.Errorf("failed to unmarshal records: %w", err)
	}
	if records.BestScore == nil {
		records.BestScore = map[string]int64{}
	}
	if records.BestTime == nil {
		records.BestTime = map[string]int64{}
	}
	return records, objects[0].Version, nil
}

func (a *NakamaRecordsAdapter) write(ctx context.Context, userID string, records ports.Records, version string) error {
	value, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{{
		Collection:      RecordsCollection,
		Key:             RecordsKey,
		UserID:          userID,
		Value:           string(value),
		Version:         version,
		PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
		PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
	}})
	if err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	return nil
}

// SubmitResult updates the personal best with optimistic concurrency, then writes the leaderboard.
func (a *NakamaRecordsAdapter) SubmitResult(ctx context.Context, result ports.GameResult) (bool, error) {
	if result.UserID == "" {
		return false, fmt.Errorf("userID is required")
	}

	improved := false
	for attempt := 0; attempt < maxRecordWriteAttempts; attempt++ {
		records, version, err := a.read(ctx, result.UserID)
		if err != nil {
			return false, err
		}
		improved = applyResult(&records, result)
		if !improved {
			break
		}
		if version == "" {
			version = "*"
		}
		err = a.write(ctx, result.UserID, records, version)
		if err == nil {
			break
		}
		if !errors.Is(err, runtime.ErrStorageRejectedVersion) || attempt == maxRecordWriteAttempts-1 {
			return false, err
		}
	}

	if err := a.writeLeaderboard(ctx, result); err != nil {
		return improved, err
	}
	return improved, nil
}

// applyResult folds a result into records and reports whether a personal best was beaten.
func applyResult(records *ports.Records, result ports.GameResult) bool {
	improved := false
	if best, ok := records.BestScore[result.Game]; !ok || result.Score > best {
		records.BestScore[result.Game] = result.Score
		improved = true
	}
	if result.Game == string(app.GamePunch) && result.Won {
		ms := result.Elapsed.Milliseconds()
		if best, ok := records.BestTime[result.Game]; ms > 0 && (!ok || ms < best) {
			records.BestTime[result.Game] = ms
			improved = true
		}
	}
	return improved
}

func (a *NakamaRecordsAdapter) writeLeaderboard(ctx context.Context, result ports.GameResult) error {
	var id string
	var score, subscore int64
	switch app.GameKind(result.Game) {
	case app.GameSimon:
		id, score = LeaderboardSimon, result.Score
		if result.Won {
			subscore = 1
		}
	case app.GameBalls:
		id, score = LeaderboardBalls, result.Score
	case app.GamePunch:
		if !result.Won {
			return nil
		}
		id, score = LeaderboardPunch, result.Elapsed.Milliseconds()
	default:
		return fmt.Errorf("no leaderboard for game %q", result.Game)
	}
	if score <= 0 {
		return nil
	}

	metadata := map[string]interface{}{"won": result.Won}
	if _, err := a.nk.LeaderboardRecordWrite(ctx, id, result.UserID, result.Username, score, subscore, metadata, nil); err != nil {
		return fmt.Errorf("failed to write leaderboard %s: %w", id, err)
	}
	return nil
}

var _ ports.RecordsPort = (*NakamaRecordsAdapter)(nil)
