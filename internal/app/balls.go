package app

import (
	"fmt"
	"math/rand"
	"time"

	"motionarcade/internal/domain"
)

// maxStep caps a single physics step so a stalled loop does not teleport balls past the catch zone.
const maxStep = 250 * time.Millisecond

// BallService runs the falling-ball catch game.
type BallService struct {
	rng *rand.Rand
}

// NewBallService constructs a BallService with provided rng or a time-seeded default.
func NewBallService(rng *rand.Rand) *BallService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &BallService{rng: rng}
}

// NewField validates cfg and returns a stopped field.
func (s *BallService) NewField(cfg domain.BallFieldConfig, shine domain.Shine) (*domain.BallField, error) {
	switch {
	case cfg.BPM <= 0 || cfg.BPM > domain.MaxBPM:
		return nil, fmt.Errorf("%w: bpm must be within 1..%d, got %d", ErrInvalidSession, domain.MaxBPM, cfg.BPM)
	case cfg.Width <= 0 || cfg.Height <= 0:
		return nil, fmt.Errorf("%w: canvas must have a positive size", ErrInvalidSession)
	case cfg.Radius <= 0 || cfg.Speed <= 0:
		return nil, fmt.Errorf("%w: radius and speed must be positive", ErrInvalidSession)
	}
	if shine == "" {
		shine = domain.ShineMatte
	}
	if !domain.ValidShine(shine) {
		return nil, fmt.Errorf("%w: unknown shine %q", ErrInvalidSession, shine)
	}
	return &domain.BallField{Config: cfg, Shine: shine}, nil
}

// Start clears the field, zeroes the score and spawns the first ball immediately.
func (s *BallService) Start(field *domain.BallField, now time.Time) []Event {
	field.Clear()
	field.Score = 0
	field.Running = true
	field.LastStepAt = now
	field.NextSpawnAt = now
	field.Landmarks = nil
	return s.spawnDue(field, now)
}

// UpdateLandmarks stores the newest frame; collisions are tested against it on the next Tick.
func (s *BallService) UpdateLandmarks(field *domain.BallField, frame domain.Frame) {
	field.Landmarks = frame
}

// Tick spawns balls on the beat and advances physics to now.
func (s *BallService) Tick(field *domain.BallField, now time.Time) []Event {
	if !field.Running {
		return nil
	}
	events := s.spawnDue(field, now)

	dt := now.Sub(field.LastStepAt)
	if dt < 0 {
		dt = 0
	}
	if dt > maxStep {
		dt = maxStep
	}
	field.LastStepAt = now

	caught, _ := field.Step(field.Landmarks, dt)
	for _, ball := range caught {
		events = append(events, Event{Kind: EventBallCaught, Payload: BallCaughtPayload{ID: ball.ID, Score: field.Score}})
	}
	if len(caught) > 0 {
		events = append(events, Event{Kind: EventScoreChanged, Payload: ScoreChangedPayload{Score: field.Score}})
	}
	return events
}

// Stop ends the run, removes every ball and updates the session best.
func (s *BallService) Stop(field *domain.BallField) []Event {
	if !field.Running {
		return nil
	}
	field.Running = false
	field.Clear()
	if field.Score > field.MaxScore {
		field.MaxScore = field.Score
	}
	return []Event{{
		Kind:    EventBallsStopped,
		Payload: BallsStoppedPayload{FinalScore: field.Score, MaxScore: field.MaxScore},
	}}
}

func (s *BallService) spawnDue(field *domain.BallField, now time.Time) []Event {
	interval := field.Config.SpawnInterval()
	if interval <= 0 {
		return nil
	}
	var events []Event
	for !now.Before(field.NextSpawnAt) {
		ball := field.Spawn(s.rng.Float64()*field.Config.Width, s.rng.Float64()*360)
		events = append(events, Event{
			Kind: EventBallSpawned,
			Payload: BallSpawnedPayload{
				ID:    ball.ID,
				X:     ball.X,
				Y:     ball.Y,
				Hue:   ball.Hue,
				Shine: string(field.Shine),
			},
		})
		field.NextSpawnAt = field.NextSpawnAt.Add(interval)
	}
	return events
}
