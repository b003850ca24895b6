package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/heroiclabs/nakama-common/runtime"
)

type GhostIdentity struct {
	DeviceID    string `json:"device_id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Level       string `json:"level"` // "clumsy", "good", "perfect"
}

var (
	ghostIdentities []GhostIdentity
	ghostIDMap      map[string]GhostIdentity
	loadOnce        sync.Once
	provisionOnce   sync.Once
	loadErr         error
)

// LoadIdentities loads the ghost profiles from the given path.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read ghost identities: %w", err)
			return
		}
		loadErr = parseIdentities(data)
	})
	return loadErr
}

func parseIdentities(data []byte) error {
	var identities []GhostIdentity
	if err := json.Unmarshal(data, &identities); err != nil {
		return fmt.Errorf("failed to unmarshal ghost identities: %w", err)
	}
	for _, identity := range identities {
		if _, err := ParseLevel(identity.Level); err != nil {
			return fmt.Errorf("ghost %q: %w", identity.Username, err)
		}
	}
	ghostIdentities = identities
	ghostIDMap = make(map[string]GhostIdentity)
	for _, identity := range ghostIdentities {
		if identity.UserID != "" {
			ghostIDMap[identity.UserID] = identity
		}
	}
	return nil
}

// ProvisionGhosts ensures ghost accounts exist so their demo runs can be posted to leaderboards.
func ProvisionGhosts(ctx context.Context, nk runtime.NakamaModule, logger runtime.Logger) {
	provisionOnce.Do(func() {
		for i := range ghostIdentities {
			identity := &ghostIdentities[i]
			if identity.DeviceID == "" {
				continue
			}

			userID, username, _, err := nk.AuthenticateDevice(ctx, identity.DeviceID, identity.Username, true)
			if err != nil {
				logger.Error("ProvisionGhosts: Failed to authenticate ghost %s: %v", identity.Username, err)
				continue
			}
			identity.UserID = userID
			identity.Username = username

			metadata := map[string]interface{}{
				"is_ghost": true,
				"level":    identity.Level,
			}
			if err := nk.AccountUpdateId(ctx, userID, identity.Username, metadata, identity.DisplayName, "", "", "", ""); err != nil {
				logger.Warn("ProvisionGhosts: Failed to update ghost account %s: %v", userID, err)
			}

			ghostIDMap[userID] = *identity
			logger.Info("ProvisionGhosts: Ghost %s (%s) is ready. Level: %s", identity.DisplayName, userID, identity.Level)
		}
	})
}

// GetGhostIdentity returns a ghost identity by index (mod pool size).
func GetGhostIdentity(index int) GhostIdentity {
	if len(ghostIdentities) == 0 {
		return GhostIdentity{
			UserID:      fmt.Sprintf("ghost-%d", index),
			DisplayName: fmt.Sprintf("Ghost %d", index),
			Level:       LevelGood.String(),
		}
	}
	return ghostIdentities[index%len(ghostIdentities)]
}

// IsGhost reports whether the given user ID belongs to a provisioned ghost.
func IsGhost(userID string) bool {
	_, ok := ghostIDMap[userID]
	return ok
}

// NewGhost builds an agent for an identity.
func NewGhost(identity GhostIdentity) (*Agent, error) {
	level, err := ParseLevel(identity.Level)
	if err != nil {
		return nil, err
	}
	return NewAgent(identity.UserID, identity.DisplayName, level, nil)
}
