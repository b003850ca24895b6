package ports

import "context"

// AccountPort updates player-facing account fields.
type AccountPort interface {
	// UpdateDisplayName sets the name shown on leaderboards and in the game shell.
	UpdateDisplayName(ctx context.Context, userID, displayName string) error
}
