package app

// GameKind selects one of the three motion games.
type GameKind string

const (
	GameSimon GameKind = "simon"
	GameBalls GameKind = "balls"
	GamePunch GameKind = "punch"
)

// ValidGame reports whether kind names a known game.
func ValidGame(kind GameKind) bool {
	switch kind {
	case GameSimon, GameBalls, GamePunch:
		return true
	}
	return false
}
