package domain

import "time"

// Phase is the lifecycle stage of a pose-imitation session.
type Phase string

const (
	// PhaseAwaitingFraming waits until the subject is correctly positioned in the camera view.
	PhaseAwaitingFraming Phase = "awaiting_framing"
	// PhaseArmed waits for the settle timer before the next round is created.
	PhaseArmed Phase = "armed"
	// PhasePresenting plays the announcement cue; detection is suppressed.
	PhasePresenting Phase = "presenting"
	// PhaseAwaitingMatch evaluates every frame against the challenge until the deadline.
	PhaseAwaitingMatch Phase = "awaiting_match"
	// PhaseAwaitingNeutral requires a continuous rest pose before the next round.
	PhaseAwaitingNeutral Phase = "awaiting_neutral"
	// PhaseGameOver is terminal until an explicit reset.
	PhaseGameOver Phase = "game_over"
)

// Outcome is how a game ended.
type Outcome string

const (
	OutcomeNone Outcome = ""
	OutcomeWon  Outcome = "won"
	OutcomeLost Outcome = "lost"
)

// Round is a single challenge presented to the player.
type Round struct {
	Number    int
	Challenge PoseDefinition
	IsDecoy   bool
	Deadline  time.Time // zero until detection is armed
	Matched   bool
}

// SessionConfig parameterises the round machine. Durations are presentation tuning, not protocol.
type SessionConfig struct {
	Catalog                Catalog
	TargetScore            int
	DeadlineGenuine        time.Duration
	DeadlineDecoy          time.Duration
	DecoyProbability       float64
	NeutralHold            time.Duration
	NeutralTolerance       NeutralTolerance
	FramingThresholdFrames int
	SettleDelay            time.Duration
	CueTimeout             time.Duration // zero disables the fallback
}

// GameSession is the whole mutable state of one pose-imitation game.
type GameSession struct {
	Config            SessionConfig
	Phase             Phase
	Framing           *FramingGate
	Round             *Round
	Rounds            int
	Score             int
	Outcome           Outcome
	PreviousChallenge string
	Timer             TimerSlot
	StartedAt         time.Time
	EndedAt           time.Time
}

// GameOver reports whether the session is in its terminal phase.
func (s *GameSession) GameOver() bool {
	return s.Phase == PhaseGameOver
}

// Won reports whether the session ended by reaching the target score.
func (s *GameSession) Won() bool {
	return s.Outcome == OutcomeWon
}
