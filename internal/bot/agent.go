package bot

import (
	"math/rand"
	"time"

	"motionarcade/internal/domain"
)

// guard keeps both index fingers in front of the chest, clear of every punch zone.
var guard = [2]domain.Point{{X: 0.56, Y: 0.45}, {X: 0.44, Y: 0.45}}

type ballPlan struct {
	noticeAt time.Time
	chase    bool
}

// Agent is an autonomous ghost player. It is not safe for concurrent use.
type Agent struct {
	ID     string
	Name   string
	Level  Level
	Tuning Tuning
	rng    *rand.Rand

	round   int
	perform bool
	reactAt time.Time

	punchHits int
	punchAt   time.Time

	balls map[int]ballPlan
}

var _ Player = (*Agent)(nil)

// SimonFrame rests until detection is armed, then strikes the challenge pose after its reaction delay
// unless it decided to skip this round.
func (a *Agent) SimonFrame(v SimonView, now time.Time) domain.Frame {
	if v.Phase != domain.PhaseAwaitingMatch {
		return a.noisy(Standing())
	}
	if v.Round != a.round {
		a.round = v.Round
		a.reactAt = now.Add(a.reaction())
		if v.IsDecoy {
			a.perform = a.rng.Float64() < a.Tuning.DecoyFallRate
		} else {
			a.perform = a.rng.Float64() >= a.Tuning.MissRate
		}
	}
	if !a.perform || now.Before(a.reactAt) {
		return a.noisy(Standing())
	}
	s, err := PoseSkeleton(v.Challenge)
	if err != nil {
		return a.noisy(Standing())
	}
	return a.noisy(s)
}

// PunchFrame holds a guard, then reaches into the current zone once it has reacted to it.
func (a *Agent) PunchFrame(course *domain.PunchCourse, now time.Time) domain.Frame {
	s := Standing()
	s.Reach(false, guard[0])
	s.Reach(true, guard[1])
	if course == nil || course.Complete {
		return s.Frame()
	}
	if course.Hits != a.punchHits || a.punchAt.IsZero() {
		a.punchHits = course.Hits
		a.punchAt = now.Add(a.reaction())
	}
	if now.Before(a.punchAt) {
		return s.Frame()
	}

	cfg := course.Config
	zone := course.Zone()
	target := domain.Point{X: (zone.X + zone.W/2) / cfg.Width, Y: (zone.Y + zone.H/2) / cfg.Height}
	if cfg.Mirror {
		target.X = 1 - target.X
	}
	right := len(cfg.HandIndices) == 0 || cfg.HandIndices[0] != domain.LeftIndex
	s.Reach(right, target)
	return s.Frame()
}

// BallsFrame reaches for the lowest ball on each side of the body that the ghost has noticed and chosen to chase.
func (a *Agent) BallsFrame(field *domain.BallField, now time.Time) domain.Frame {
	s := Standing()
	if field == nil || !field.Running {
		return a.noisy(s)
	}
	cfg := field.Config

	live := make(map[int]bool, len(field.Balls))
	var left, right *domain.Point
	for _, ball := range field.Balls {
		live[ball.ID] = true
		plan, ok := a.balls[ball.ID]
		if !ok {
			plan = ballPlan{noticeAt: now.Add(a.reaction()), chase: a.rng.Float64() >= a.Tuning.MissRate}
			a.balls[ball.ID] = plan
		}
		if !plan.chase || now.Before(plan.noticeAt) {
			continue
		}
		p := domain.Point{X: ball.X / cfg.Width, Y: clamp01(ball.Y / cfg.Height)}
		if cfg.Mirror {
			p.X = 1 - p.X
		}
		// the subject's right arm is on the low-x side of the image
		if p.X < 0.5 {
			if right == nil || p.Y > right.Y {
				right = &p
			}
		} else if left == nil || p.Y > left.Y {
			left = &p
		}
	}
	for id := range a.balls {
		if !live[id] {
			delete(a.balls, id)
		}
	}

	if right != nil {
		s.Reach(true, *right)
	}
	if left != nil {
		s.Reach(false, *left)
	}
	return a.noisy(s)
}

func (a *Agent) reaction() time.Duration {
	d := a.Tuning.ReactionDelay
	if a.Tuning.ReactionSpread > 0 {
		d += time.Duration(a.rng.Int63n(int64(a.Tuning.ReactionSpread)))
	}
	return d
}

func (a *Agent) noisy(s Skeleton) domain.Frame {
	if a.Tuning.Jitter > 0 {
		for i := range s {
			s[i].X += a.rng.NormFloat64() * a.Tuning.Jitter
			s[i].Y += a.rng.NormFloat64() * a.Tuning.Jitter
		}
	}
	return s.Frame()
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
