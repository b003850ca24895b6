package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"motionarcade/internal/domain"
)

// Service runs the pose-imitation round machine over a GameSession.
// All methods must be called from a single goroutine per session; the Nakama match loop guarantees that.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

var (
	ErrGameOver       = errors.New("game is over")
	ErrNotPresenting  = errors.New("no cue is playing")
	ErrNoSession      = errors.New("no game in progress")
	ErrInvalidSession = errors.New("invalid session config")
)

// maxTimerFiresPerAdvance bounds Advance so a zero-length timer cannot spin forever.
const maxTimerFiresPerAdvance = 8

// NewSession validates cfg and returns a session waiting for the subject to be framed.
func (s *Service) NewSession(cfg domain.SessionConfig, now time.Time) (*domain.GameSession, error) {
	if err := validateSessionConfig(cfg); err != nil {
		return nil, err
	}
	return &domain.GameSession{
		Config:    cfg,
		Phase:     domain.PhaseAwaitingFraming,
		Framing:   domain.NewFramingGate(cfg.FramingThresholdFrames),
		StartedAt: now,
	}, nil
}

func validateSessionConfig(cfg domain.SessionConfig) error {
	if err := cfg.Catalog.Check(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}
	switch {
	case cfg.TargetScore <= 0:
		return fmt.Errorf("%w: target score must be positive, got %d", ErrInvalidSession, cfg.TargetScore)
	case cfg.DeadlineGenuine <= 0 || cfg.DeadlineDecoy <= 0:
		return fmt.Errorf("%w: deadlines must be positive", ErrInvalidSession)
	case cfg.NeutralHold <= 0:
		return fmt.Errorf("%w: neutral hold must be positive", ErrInvalidSession)
	case cfg.DecoyProbability < 0 || cfg.DecoyProbability > 1:
		return fmt.Errorf("%w: decoy probability %v outside [0,1]", ErrInvalidSession, cfg.DecoyProbability)
	case cfg.FramingThresholdFrames < 1:
		return fmt.Errorf("%w: framing threshold must be at least 1 frame", ErrInvalidSession)
	case cfg.SettleDelay < 0 || cfg.CueTimeout < 0:
		return fmt.Errorf("%w: negative delay", ErrInvalidSession)
	}
	return nil
}

// Reset re-initialises every field so the session starts over from framing.
func (s *Service) Reset(sess *domain.GameSession, now time.Time) {
	sess.Timer.Cancel()
	sess.Phase = domain.PhaseAwaitingFraming
	sess.Framing.Reset()
	sess.Round = nil
	sess.Rounds = 0
	sess.Score = 0
	sess.Outcome = domain.OutcomeNone
	sess.PreviousChallenge = ""
	sess.StartedAt = now
	sess.EndedAt = time.Time{}
}

// RandomPose draws uniformly from the catalog entries not named previous.
// When every entry is named previous there is nothing else to draw and the first entry is returned.
func (s *Service) RandomPose(catalog domain.Catalog, previous string) domain.PoseDefinition {
	candidates := make([]int, 0, len(catalog))
	for i, pose := range catalog {
		if pose.Name != previous {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return catalog[0]
	}
	return catalog[candidates[s.rng.Intn(len(candidates))]]
}

// HandleFrame feeds one landmark frame. Timers due at now fire before the frame is evaluated.
func (s *Service) HandleFrame(sess *domain.GameSession, frame domain.Frame, now time.Time) []Event {
	if sess.GameOver() {
		return nil
	}
	events := s.Advance(sess, now)

	switch sess.Phase {
	case domain.PhaseAwaitingFraming:
		events = append(events, s.observeFraming(sess, frame, now)...)
	case domain.PhaseAwaitingMatch:
		if sess.Round != nil && !sess.Round.Matched && sess.Round.Challenge.Validate(frame) {
			events = append(events, s.onMatched(sess, now)...)
		}
	case domain.PhaseAwaitingNeutral:
		s.observeNeutral(sess, frame, now)
	}
	return events
}

// Advance fires the session timer if it is due at now.
func (s *Service) Advance(sess *domain.GameSession, now time.Time) []Event {
	var events []Event
	for i := 0; i < maxTimerFiresPerAdvance; i++ {
		kind := sess.Timer.Take(now)
		if kind == domain.TimerNone {
			break
		}
		switch kind {
		case domain.TimerSettle, domain.TimerNeutral:
			events = append(events, s.startRound(sess, now)...)
		case domain.TimerCue:
			events = append(events, s.armDetection(sess, now, true)...)
		case domain.TimerDeadline:
			events = append(events, s.onTimeout(sess, now)...)
		}
	}
	return events
}

// CueFinished unblocks detection once the announcement cue has played.
// A cue that failed to load or play unblocks exactly like a successful one.
func (s *Service) CueFinished(sess *domain.GameSession, ok bool, now time.Time) ([]Event, error) {
	if sess.GameOver() {
		return nil, ErrGameOver
	}
	events := s.Advance(sess, now)
	if sess.Phase != domain.PhasePresenting {
		return events, ErrNotPresenting
	}
	return append(events, s.armDetection(sess, now, !ok)...), nil
}

func (s *Service) observeFraming(sess *domain.GameSession, frame domain.Frame, now time.Time) []Event {
	before := sess.Framing.Consecutive
	ready := sess.Framing.Observe(frame)

	var events []Event
	if sess.Framing.Consecutive != before {
		events = append(events, Event{
			Kind:    EventFramingProgress,
			Payload: FramingProgressPayload{Count: sess.Framing.Consecutive, Required: sess.Framing.Threshold},
		})
	}
	if !ready {
		return events
	}

	events = append(events, Event{Kind: EventUserReady, Payload: UserReadyPayload{SettleDelay: sess.Config.SettleDelay}})
	sess.Phase = domain.PhaseArmed
	if sess.Config.SettleDelay <= 0 {
		return append(events, s.startRound(sess, now)...)
	}
	sess.Timer.Arm(domain.TimerSettle, now, sess.Config.SettleDelay)
	return events
}

// observeNeutral implements the continuous-hold gate: any break cancels the pending timer,
// so re-entering neutral starts the full hold again.
func (s *Service) observeNeutral(sess *domain.GameSession, frame domain.Frame, now time.Time) {
	if domain.IsNeutral(frame, sess.Config.NeutralTolerance) {
		if !sess.Timer.Pending(domain.TimerNeutral) {
			sess.Timer.Arm(domain.TimerNeutral, now, sess.Config.NeutralHold)
		}
		return
	}
	sess.Timer.Cancel()
}

func (s *Service) startRound(sess *domain.GameSession, now time.Time) []Event {
	challenge := s.RandomPose(sess.Config.Catalog, sess.PreviousChallenge)
	isDecoy := s.rng.Float64() < sess.Config.DecoyProbability

	sess.Rounds++
	sess.PreviousChallenge = challenge.Name
	sess.Round = &domain.Round{
		Number:    sess.Rounds,
		Challenge: challenge,
		IsDecoy:   isDecoy,
	}
	sess.Phase = domain.PhasePresenting
	sess.Timer.Cancel()
	if sess.Config.CueTimeout > 0 {
		sess.Timer.Arm(domain.TimerCue, now, sess.Config.CueTimeout)
	}

	return []Event{{
		Kind: EventRoundStarted,
		Payload: RoundStartedPayload{
			Round:     sess.Rounds,
			Challenge: challenge.Name,
			AudioCue:  challenge.AudioCue,
			IsDecoy:   isDecoy,
		},
	}}
}

func (s *Service) armDetection(sess *domain.GameSession, now time.Time, cueFailed bool) []Event {
	d := sess.Config.DeadlineGenuine
	if sess.Round.IsDecoy {
		d = sess.Config.DeadlineDecoy
	}
	sess.Round.Deadline = now.Add(d)
	sess.Timer.Arm(domain.TimerDeadline, now, d)
	sess.Phase = domain.PhaseAwaitingMatch

	return []Event{{
		Kind: EventDetectionArmed,
		Payload: DetectionArmedPayload{
			Challenge: sess.Round.Challenge.Name,
			Deadline:  d,
			CueFailed: cueFailed,
		},
	}}
}

// onMatched cancels the deadline before touching any other state, so a timeout can never follow.
func (s *Service) onMatched(sess *domain.GameSession, now time.Time) []Event {
	sess.Timer.Cancel()
	sess.Round.Matched = true

	events := []Event{{Kind: EventMatched, Payload: MatchedPayload{Challenge: sess.Round.Challenge.Name}}}
	if sess.Round.IsDecoy {
		return append(events, s.endGame(sess, now, domain.OutcomeLost, ReasonMatchedDecoy)...)
	}
	return append(events, s.award(sess, now)...)
}

func (s *Service) onTimeout(sess *domain.GameSession, now time.Time) []Event {
	if sess.Phase != domain.PhaseAwaitingMatch || sess.Round == nil || sess.Round.Matched {
		return nil
	}

	events := []Event{{Kind: EventTimedOut, Payload: TimedOutPayload{Challenge: sess.Round.Challenge.Name}}}
	if !sess.Round.IsDecoy {
		return append(events, s.endGame(sess, now, domain.OutcomeLost, ReasonMissedGenuine)...)
	}
	return append(events, s.award(sess, now)...)
}

// award scores a successful round and either ends the game or waits for the rest pose.
func (s *Service) award(sess *domain.GameSession, now time.Time) []Event {
	sess.Score++
	events := []Event{{Kind: EventScoreChanged, Payload: ScoreChangedPayload{Score: sess.Score}}}
	if sess.Score >= sess.Config.TargetScore {
		return append(events, s.endGame(sess, now, domain.OutcomeWon, ReasonTargetReached)...)
	}
	sess.Phase = domain.PhaseAwaitingNeutral
	return events
}

func (s *Service) endGame(sess *domain.GameSession, now time.Time, outcome domain.Outcome, reason string) []Event {
	sess.Timer.Cancel()
	sess.Phase = domain.PhaseGameOver
	sess.Outcome = outcome
	sess.EndedAt = now
	return []Event{{
		Kind: EventGameOver,
		Payload: GameOverPayload{
			Won:        outcome == domain.OutcomeWon,
			FinalScore: sess.Score,
			Reason:     reason,
		},
	}}
}
