package app

import (
	"fmt"
	"time"

	"motionarcade/internal/domain"
)

// PunchService runs the punch-target course. It has no timeout; the only terminal state is completion.
type PunchService struct{}

// NewPunchService constructs a PunchService.
func NewPunchService() *PunchService {
	return &PunchService{}
}

// NewCourse validates cfg and returns a course positioned on its first zone.
func (s *PunchService) NewCourse(cfg domain.PunchCourseConfig) (*domain.PunchCourse, error) {
	switch {
	case len(cfg.Zones) == 0:
		return nil, fmt.Errorf("%w: punch course has no zones", ErrInvalidSession)
	case len(cfg.HandIndices) == 0:
		return nil, fmt.Errorf("%w: punch course has no hand landmarks", ErrInvalidSession)
	case cfg.TargetHits < 0:
		return nil, fmt.Errorf("%w: negative target hits", ErrInvalidSession)
	case cfg.Width <= 0 || cfg.Height <= 0:
		return nil, fmt.Errorf("%w: canvas must have a positive size", ErrInvalidSession)
	}
	for _, idx := range cfg.HandIndices {
		if idx < 0 || idx >= domain.FrameSize {
			return nil, fmt.Errorf("%w: landmark index %d out of range", ErrInvalidSession, idx)
		}
	}
	return &domain.PunchCourse{Config: cfg}, nil
}

// Begin announces the first target.
func (s *PunchService) Begin(course *domain.PunchCourse) []Event {
	return []Event{targetChanged(course)}
}

// HandleFrame tests the configured hand landmarks against the current zone.
// The elapsed-time clock starts at the first frame after Begin or Replay.
func (s *PunchService) HandleFrame(course *domain.PunchCourse, frame domain.Frame, now time.Time) []Event {
	if course.Complete {
		return nil
	}
	if course.StartedAt.IsZero() {
		course.StartedAt = now
	}
	if !course.Struck(frame) {
		return nil
	}

	events := []Event{{Kind: EventScoreChanged, Payload: ScoreChangedPayload{Score: course.Hits + 1}}}
	if course.Advance() {
		course.EndedAt = now
		return append(events, Event{
			Kind:    EventCourseComplete,
			Payload: CourseCompletePayload{Hits: course.Hits, Elapsed: course.EndedAt.Sub(course.StartedAt)},
		})
	}
	return append(events, targetChanged(course))
}

// Replay resets the course and re-announces the first target.
func (s *PunchService) Replay(course *domain.PunchCourse) []Event {
	course.Reset()
	return s.Begin(course)
}

func targetChanged(course *domain.PunchCourse) Event {
	zone := course.Zone()
	return Event{
		Kind: EventTargetChanged,
		Payload: TargetChangedPayload{
			Index: course.Current,
			X:     zone.X,
			Y:     zone.Y,
			W:     zone.W,
			H:     zone.H,
			Hits:  course.Hits,
			Total: course.Length(),
		},
	}
}
