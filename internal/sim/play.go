package sim

import (
	"context"
	"time"

	"motionarcade/internal/bot"
	"motionarcade/internal/domain"
	"motionarcade/internal/store"
)

const (
	SourceSimulate = "simulate"
	SourceReplay   = "replay"
)

// PlayOptions bounds a simulated run.
type PlayOptions struct {
	FrameRate int           // camera frames per second, default 30
	CueLength time.Duration // how long the simon announcement plays before it reports success
	Duration  time.Duration // ball runs are stopped after this long, default 30s
	Limit     time.Duration // hard stop for games that never finish, default 10 minutes
}

func (p PlayOptions) withDefaults() PlayOptions {
	if p.FrameRate <= 0 {
		p.FrameRate = 30
	}
	if p.Duration <= 0 {
		p.Duration = 30 * time.Second
	}
	if p.Limit <= 0 {
		p.Limit = 10 * time.Minute
	}
	return p
}

// Simulate lets player play one game on a virtual clock. When log is not nil every frame and
// cue outcome is written to it so the run can be replayed. onFrame, if set, is called after each frame.
func Simulate(ctx context.Context, opts Options, play PlayOptions, player bot.Player, log *LogWriter, onFrame func()) (store.Run, []store.EventRecord, error) {
	play = play.withDefaults()
	r, err := NewRunner(opts)
	if err != nil {
		return store.Run{}, nil, err
	}

	interval := time.Second / time.Duration(play.FrameRate)
	var cueAt time.Time
	cueRound := 0

	for now := r.Start(); !r.Done(); now = now.Add(interval) {
		if err := ctx.Err(); err != nil {
			return store.Run{}, nil, err
		}
		elapsed := now.Sub(r.Start())
		if elapsed > play.Limit {
			break
		}
		if r.Field != nil && elapsed >= play.Duration {
			if log != nil {
				if err := log.Stop(elapsed.Milliseconds()); err != nil {
					return store.Run{}, nil, err
				}
			}
			if err := r.Stop(now); err != nil {
				return store.Run{}, nil, err
			}
			break
		}

		if r.Presenting() {
			if r.Session.Round.Number != cueRound {
				cueRound = r.Session.Round.Number
				cueAt = now.Add(play.CueLength)
			}
			if !now.Before(cueAt) {
				if log != nil {
					if err := log.Cue(elapsed.Milliseconds(), true); err != nil {
						return store.Run{}, nil, err
					}
				}
				if err := r.CueFinished(now, true); err != nil {
					return store.Run{}, nil, err
				}
			}
		}

		frame := nextFrame(r, player, now)
		if log != nil {
			if err := log.Frame(elapsed.Milliseconds(), frame); err != nil {
				return store.Run{}, nil, err
			}
		}
		if err := r.Feed(now, frame); err != nil {
			return store.Run{}, nil, err
		}
		if onFrame != nil {
			onFrame()
		}
	}

	run, events := r.Result(SourceSimulate)
	return run, events, nil
}

func nextFrame(r *Runner, player bot.Player, now time.Time) domain.Frame {
	switch {
	case r.Session != nil:
		view := bot.SimonView{Phase: r.Session.Phase}
		if round := r.Session.Round; round != nil {
			view.Round = round.Number
			view.Challenge = round.Challenge.Name
			view.IsDecoy = round.IsDecoy
		}
		return player.SimonFrame(view, now)
	case r.Field != nil:
		return player.BallsFrame(r.Field, now)
	default:
		return player.PunchFrame(r.Course, now)
	}
}

// Replay feeds a recorded landmark log through a fresh game. A ball run still going at the end of
// the log is stopped at the last timestamp.
func Replay(ctx context.Context, opts Options, lines []LogLine, onLine func()) (store.Run, []store.EventRecord, error) {
	r, err := NewRunner(opts)
	if err != nil {
		return store.Run{}, nil, err
	}

	now := r.Start()
	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return store.Run{}, nil, err
		}
		if r.Done() {
			break
		}
		now = r.Start().Add(time.Duration(line.TMs) * time.Millisecond)
		switch line.Kind {
		case LineFrame:
			err = r.Feed(now, frameOf(line, opts.Config.MinVisibility))
		case LineCue:
			err = r.CueFinished(now, line.CueOK)
		case LineStop:
			err = r.Stop(now)
		}
		if err != nil {
			return store.Run{}, nil, err
		}
		if onLine != nil {
			onLine()
		}
	}
	if err := r.Stop(now); err != nil {
		return store.Run{}, nil, err
	}

	run, events := r.Result(SourceReplay)
	return run, events, nil
}
