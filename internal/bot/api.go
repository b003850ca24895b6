package bot

import (
	"fmt"
	"strings"
	"time"

	"motionarcade/internal/domain"
)

// Level is how well a ghost plays.
type Level int

const (
	LevelClumsy Level = iota + 1
	LevelGood
	LevelPerfect
)

func (l Level) String() string {
	switch l {
	case LevelClumsy:
		return "clumsy"
	case LevelGood:
		return "good"
	case LevelPerfect:
		return "perfect"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLevel accepts the names printed by Level.String.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "clumsy":
		return LevelClumsy, nil
	case "good", "":
		return LevelGood, nil
	case "perfect":
		return LevelPerfect, nil
	}
	return 0, fmt.Errorf("unknown ghost level: %q", s)
}

// SimonView is what a ghost sees of a pose-imitation game.
// IsDecoy stands in for hearing whether the cue was prefixed.
type SimonView struct {
	Phase     domain.Phase
	Round     int
	Challenge string
	IsDecoy   bool
}

// Player produces the landmark frame a ghost shows the camera at a moment in time.
type Player interface {
	SimonFrame(v SimonView, now time.Time) domain.Frame
	PunchFrame(course *domain.PunchCourse, now time.Time) domain.Frame
	BallsFrame(field *domain.BallField, now time.Time) domain.Frame
}
