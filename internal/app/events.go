package app

import "time"

// EventKind identifies emitted domain events for Nakama dispatch.
type EventKind string

const (
	EventFramingProgress EventKind = "framing_progress"
	EventUserReady       EventKind = "user_ready"
	EventRoundStarted    EventKind = "round_started"
	EventDetectionArmed  EventKind = "detection_armed"
	EventMatched         EventKind = "matched"
	EventTimedOut        EventKind = "timed_out"
	EventScoreChanged    EventKind = "score_changed"
	EventGameOver        EventKind = "game_over"

	EventBallSpawned  EventKind = "ball_spawned"
	EventBallCaught   EventKind = "ball_caught"
	EventBallsStopped EventKind = "balls_stopped"

	EventTargetChanged  EventKind = "target_changed"
	EventCourseComplete EventKind = "course_complete"
)

// Event is an app event for the presentation surface.
type Event struct {
	Kind    EventKind
	Payload any
}

// Fields flattens the payload into snake_case wire fields. Durations are reported in milliseconds.
// It reports false for a payload type it does not know.
func (e Event) Fields() (map[string]interface{}, bool) {
	switch p := e.Payload.(type) {
	case FramingProgressPayload:
		return map[string]interface{}{"count": p.Count, "required": p.Required}, true
	case UserReadyPayload:
		return map[string]interface{}{"settle_delay_ms": p.SettleDelay.Milliseconds()}, true
	case RoundStartedPayload:
		return map[string]interface{}{
			"round":     p.Round,
			"challenge": p.Challenge,
			"audio_cue": p.AudioCue,
			"decoy":     p.IsDecoy,
		}, true
	case DetectionArmedPayload:
		return map[string]interface{}{
			"challenge":   p.Challenge,
			"deadline_ms": p.Deadline.Milliseconds(),
			"cue_failed":  p.CueFailed,
		}, true
	case MatchedPayload:
		return map[string]interface{}{"challenge": p.Challenge}, true
	case TimedOutPayload:
		return map[string]interface{}{"challenge": p.Challenge}, true
	case ScoreChangedPayload:
		return map[string]interface{}{"score": p.Score}, true
	case GameOverPayload:
		return map[string]interface{}{"won": p.Won, "final_score": p.FinalScore, "reason": p.Reason}, true
	case BallSpawnedPayload:
		return map[string]interface{}{"id": p.ID, "x": p.X, "y": p.Y, "hue": p.Hue, "shine": p.Shine}, true
	case BallCaughtPayload:
		return map[string]interface{}{"id": p.ID, "score": p.Score}, true
	case BallsStoppedPayload:
		return map[string]interface{}{"final_score": p.FinalScore, "max_score": p.MaxScore}, true
	case TargetChangedPayload:
		return map[string]interface{}{
			"index": p.Index,
			"x":     p.X,
			"y":     p.Y,
			"w":     p.W,
			"h":     p.H,
			"hits":  p.Hits,
			"total": p.Total,
		}, true
	case CourseCompletePayload:
		return map[string]interface{}{"hits": p.Hits, "elapsed_ms": p.Elapsed.Milliseconds()}, true
	}
	return nil, false
}

type FramingProgressPayload struct {
	Count    int
	Required int
}

type UserReadyPayload struct {
	SettleDelay time.Duration
}

type RoundStartedPayload struct {
	Round     int
	Challenge string
	AudioCue  string
	IsDecoy   bool
}

type DetectionArmedPayload struct {
	Challenge string
	Deadline  time.Duration
	CueFailed bool
}

type MatchedPayload struct {
	Challenge string
}

type TimedOutPayload struct {
	Challenge string
}

type ScoreChangedPayload struct {
	Score int
}

type GameOverPayload struct {
	Won        bool
	FinalScore int
	Reason     string
}

type BallSpawnedPayload struct {
	ID    int
	X     float64
	Y     float64
	Hue   float64
	Shine string
}

type BallCaughtPayload struct {
	ID    int
	Score int
}

type BallsStoppedPayload struct {
	FinalScore int
	MaxScore   int
}

type TargetChangedPayload struct {
	Index int
	X     float64
	Y     float64
	W     float64
	H     float64
	Hits  int
	Total int
}

type CourseCompletePayload struct {
	Hits    int
	Elapsed time.Duration
}

// Game-over reasons.
const (
	ReasonTargetReached = "target_reached"
	ReasonMissedGenuine = "missed_challenge"
	ReasonMatchedDecoy  = "matched_decoy"
)
