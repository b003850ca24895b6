package sim

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"motionarcade/internal/app"
	"motionarcade/internal/config"
	"motionarcade/internal/domain"
	"motionarcade/internal/store"
)

var ErrUnknownGame = errors.New("unknown game")

// Options configures an offline run.
type Options struct {
	Game   app.GameKind
	Config config.GameConfig
	Seed   int64     // drives pose, decoy and spawn choices; replays must reuse the recorded seed
	Start  time.Time // virtual clock origin; zero means a fixed epoch
}

func (o Options) start() time.Time {
	if o.Start.IsZero() {
		return time.Unix(0, 0).UTC()
	}
	return o.Start
}

// Runner owns one game and the services that drive it, on a virtual clock.
// It is the offline counterpart of the match loop and must be used from a single goroutine.
type Runner struct {
	opts  Options
	start time.Time
	last  time.Time

	simon *app.Service
	balls *app.BallService
	punch *app.PunchService

	Session *domain.GameSession
	Field   *domain.BallField
	Course  *domain.PunchCourse

	frames  int
	stopped bool
	events  []store.EventRecord
}

// NewRunner validates the game config and starts the game at the options' start time.
func NewRunner(opts Options) (*Runner, error) {
	r := &Runner{
		opts:  opts,
		start: opts.start(),
		simon: app.NewService(rand.New(rand.NewSource(opts.Seed))),
		balls: app.NewBallService(rand.New(rand.NewSource(opts.Seed))),
		punch: app.NewPunchService(),
	}
	r.last = r.start

	switch opts.Game {
	case app.GameSimon:
		cfg, err := opts.Config.Simon.Session()
		if err != nil {
			return nil, err
		}
		sess, err := r.simon.NewSession(cfg, r.start)
		if err != nil {
			return nil, err
		}
		r.Session = sess
	case app.GameBalls:
		cfg, err := opts.Config.Balls.Field()
		if err != nil {
			return nil, err
		}
		field, err := r.balls.NewField(cfg, domain.Shine(opts.Config.Balls.Shine))
		if err != nil {
			return nil, err
		}
		r.Field = field
		if err := r.record(r.start, r.balls.Start(field, r.start)); err != nil {
			return nil, err
		}
	case app.GamePunch:
		cfg, err := opts.Config.Punch.Course()
		if err != nil {
			return nil, err
		}
		course, err := r.punch.NewCourse(cfg)
		if err != nil {
			return nil, err
		}
		r.Course = course
		if err := r.record(r.start, r.punch.Begin(course)); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGame, opts.Game)
	}
	return r, nil
}

// Start is the virtual time the game began.
func (r *Runner) Start() time.Time {
	return r.start
}

// Feed processes one landmark frame captured at now, then fires anything due.
func (r *Runner) Feed(now time.Time, frame domain.Frame) error {
	if r.Done() {
		return nil
	}
	r.frames++
	r.last = now

	var events []app.Event
	switch {
	case r.Session != nil:
		events = r.simon.HandleFrame(r.Session, frame, now)
	case r.Field != nil:
		r.balls.UpdateLandmarks(r.Field, frame)
		events = r.balls.Tick(r.Field, now)
	case r.Course != nil:
		events = r.punch.HandleFrame(r.Course, frame, now)
	}
	return r.record(now, events)
}

// CueFinished reports the announcement cue outcome. Outside the presenting phase it is ignored.
func (r *Runner) CueFinished(now time.Time, ok bool) error {
	if r.Session == nil {
		return nil
	}
	r.last = now
	events, err := r.simon.CueFinished(r.Session, ok, now)
	if recErr := r.record(now, events); recErr != nil {
		return recErr
	}
	if err != nil && !errors.Is(err, app.ErrNotPresenting) && !errors.Is(err, app.ErrGameOver) {
		return err
	}
	return nil
}

// Presenting reports whether a simon cue is waiting for its outcome.
func (r *Runner) Presenting() bool {
	return r.Session != nil && r.Session.Phase == domain.PhasePresenting
}

// Done reports whether the game reached its terminal state.
func (r *Runner) Done() bool {
	switch {
	case r.Session != nil:
		return r.Session.GameOver()
	case r.Field != nil:
		return r.stopped
	case r.Course != nil:
		return r.Course.Complete
	}
	return true
}

// Stop ends a ball run. Other games end on their own.
func (r *Runner) Stop(now time.Time) error {
	if r.Field == nil || r.stopped {
		return nil
	}
	r.stopped = true
	r.last = now
	return r.record(now, r.balls.Stop(r.Field))
}

// Result summarises the run as a store record plus its event log.
func (r *Runner) Result(source string) (store.Run, []store.EventRecord) {
	run := store.Run{
		Game:       string(r.opts.Game),
		Source:     source,
		Frames:     r.frames,
		DurationMs: r.last.Sub(r.start).Milliseconds(),
	}
	switch {
	case r.Session != nil:
		run.Rounds = r.Session.Rounds
		run.FinalScore = r.Session.Score
		run.Won = r.Session.Won()
	case r.Field != nil:
		run.Rounds = r.Field.NextID
		run.FinalScore = r.Field.Score
	case r.Course != nil:
		run.Rounds = r.Course.Hits
		run.FinalScore = r.Course.Hits
		run.Won = r.Course.Complete
		if r.Course.Complete {
			run.DurationMs = r.Course.EndedAt.Sub(r.Course.StartedAt).Milliseconds()
		}
	}
	return run, r.events
}

func (r *Runner) record(now time.Time, events []app.Event) error {
	for _, ev := range events {
		fields, ok := ev.Fields()
		if !ok {
			return fmt.Errorf("unknown payload %T for event %q", ev.Payload, ev.Kind)
		}
		payload, err := json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("failed to marshal event %q: %w", ev.Kind, err)
		}
		r.events = append(r.events, store.EventRecord{
			Seq:     len(r.events),
			AtMs:    now.Sub(r.start).Milliseconds(),
			Kind:    string(ev.Kind),
			Payload: string(payload),
		})
	}
	return nil
}
