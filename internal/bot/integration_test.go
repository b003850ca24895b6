package bot

import (
	"math/rand"
	"testing"
	"time"

	"motionarcade/internal/app"
	"motionarcade/internal/domain"
)

func sessionConfig(t *testing.T, decoyProbability float64) domain.SessionConfig {
	t.Helper()
	catalog, err := domain.CatalogFromNames(nil)
	if err != nil {
		t.Fatalf("CatalogFromNames: %v", err)
	}
	return domain.SessionConfig{
		Catalog:                catalog,
		TargetScore:            3,
		DeadlineGenuine:        10 * time.Second,
		DeadlineDecoy:          5 * time.Second,
		DecoyProbability:       decoyProbability,
		NeutralHold:            3 * time.Second,
		NeutralTolerance:       neutral,
		FramingThresholdFrames: 10,
		SettleDelay:            1500 * time.Millisecond,
		CueTimeout:             4 * time.Second,
	}
}

// playSimon drives a session with the ghost at 30 frames per second and acknowledges every cue at once.
func playSimon(t *testing.T, ghost *Agent, cfg domain.SessionConfig) *domain.GameSession {
	t.Helper()
	svc := app.NewService(rand.New(rand.NewSource(5)))
	now := time.Unix(1_700_000_000, 0)
	sess, err := svc.NewSession(cfg, now)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	end := now.Add(2 * time.Minute)
	for ; now.Before(end) && !sess.GameOver(); now = now.Add(33 * time.Millisecond) {
		if sess.Phase == domain.PhasePresenting {
			if _, err := svc.CueFinished(sess, true, now); err != nil {
				t.Fatalf("CueFinished: %v", err)
			}
		}
		view := SimonView{Phase: sess.Phase}
		if sess.Round != nil {
			view.Round = sess.Round.Number
			view.Challenge = sess.Round.Challenge.Name
			view.IsDecoy = sess.Round.IsDecoy
		}
		svc.HandleFrame(sess, ghost.SimonFrame(view, now), now)
	}
	return sess
}

func TestPerfectGhostWinsGenuineRounds(t *testing.T) {
	sess := playSimon(t, newPerfect(t), sessionConfig(t, 0))
	if !sess.Won() {
		t.Fatalf("ghost did not win: phase=%s outcome=%q score=%d", sess.Phase, sess.Outcome, sess.Score)
	}
	if sess.Score != 3 || sess.Rounds != 3 {
		t.Errorf("score=%d rounds=%d, want 3 and 3", sess.Score, sess.Rounds)
	}
}

func TestPerfectGhostSitsOutDecoys(t *testing.T) {
	sess := playSimon(t, newPerfect(t), sessionConfig(t, 1))
	if !sess.Won() {
		t.Fatalf("ghost did not win: phase=%s outcome=%q score=%d", sess.Phase, sess.Outcome, sess.Score)
	}
}

func TestGhostThatFallsForDecoysLoses(t *testing.T) {
	ghost := newPerfect(t)
	ghost.Tuning.DecoyFallRate = 1
	sess := playSimon(t, ghost, sessionConfig(t, 1))
	if sess.Outcome != domain.OutcomeLost || sess.Score != 0 {
		t.Fatalf("outcome=%q score=%d, want lost with 0", sess.Outcome, sess.Score)
	}
}
