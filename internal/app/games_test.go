package app

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"motionarcade/internal/domain"
)

func ballConfig() domain.BallFieldConfig {
	return domain.BallFieldConfig{Width: 640, Height: 480, Radius: 20, Speed: 200, BPM: 120}
}

func spawned(events []Event) []BallSpawnedPayload {
	var out []BallSpawnedPayload
	for _, ev := range events {
		if ev.Kind == EventBallSpawned {
			out = append(out, ev.Payload.(BallSpawnedPayload))
		}
	}
	return out
}

func TestNewField(t *testing.T) {
	svc := NewBallService(rand.New(rand.NewSource(1)))

	field, err := svc.NewField(ballConfig(), "")
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	if field.Shine != domain.ShineMatte || field.Running {
		t.Fatalf("field = %+v, want matte and stopped", field)
	}

	tests := []struct {
		name   string
		mutate func(*domain.BallFieldConfig)
		shine  domain.Shine
	}{
		{name: "ZeroBPM", mutate: func(c *domain.BallFieldConfig) { c.BPM = 0 }},
		{name: "BPMTooFast", mutate: func(c *domain.BallFieldConfig) { c.BPM = domain.MaxBPM + 1 }},
		{name: "HugeBPM", mutate: func(c *domain.BallFieldConfig) { c.BPM = 1_000_000_000 }},
		{name: "NoCanvas", mutate: func(c *domain.BallFieldConfig) { c.Width = 0 }},
		{name: "NoSpeed", mutate: func(c *domain.BallFieldConfig) { c.Speed = 0 }},
		{name: "BadShine", mutate: func(c *domain.BallFieldConfig) {}, shine: "velvet"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := ballConfig()
			test.mutate(&cfg)
			if _, err := svc.NewField(cfg, test.shine); !errors.Is(err, ErrInvalidSession) {
				t.Fatalf("err = %v, want ErrInvalidSession", err)
			}
		})
	}
}

func TestBallsSpawnOnTheBeat(t *testing.T) {
	svc := NewBallService(rand.New(rand.NewSource(3)))
	field, _ := svc.NewField(ballConfig(), domain.ShineGlossy)
	now := time.Unix(1_700_000_000, 0)

	first := spawned(svc.Start(field, now))
	if len(first) != 1 || first[0].Y != -20 || first[0].Shine != "glossy" {
		t.Fatalf("start spawned %+v, want one glossy ball above the top edge", first)
	}

	total := 1
	for i := 1; i <= 60; i++ {
		total += len(spawned(svc.Tick(field, now.Add(time.Duration(i)*50*time.Millisecond))))
	}
	// 3 seconds at 120 bpm: the ball at t=0 plus six more
	if total != 7 {
		t.Fatalf("spawned %d balls in 3s, want 7", total)
	}
	for _, ball := range field.Balls {
		if ball.X < 0 || ball.X > 640 || ball.Hue < 0 || ball.Hue >= 360 {
			t.Fatalf("ball out of range: %+v", ball)
		}
	}
}

func TestBallsCatchScores(t *testing.T) {
	svc := NewBallService(rand.New(rand.NewSource(3)))
	field, _ := svc.NewField(ballConfig(), "")
	now := time.Unix(1_700_000_000, 0)
	svc.Start(field, now)

	field.Balls[0].Y = 120
	ball := field.Balls[0]
	frame := make(domain.Frame, domain.FrameSize)
	frame[domain.RightIndex] = domain.Landmark{Point: domain.Point{X: ball.X / 640, Y: 0.25}, Present: true}
	svc.UpdateLandmarks(field, frame)

	evs := svc.Tick(field, now.Add(10*time.Millisecond))
	caught := 0
	for _, ev := range evs {
		if ev.Kind == EventBallCaught {
			caught++
			if p := ev.Payload.(BallCaughtPayload); p.ID != ball.ID || p.Score != 1 {
				t.Fatalf("caught = %+v", p)
			}
		}
	}
	if caught != 1 || countKind(evs, EventScoreChanged) != 1 {
		t.Fatalf("events = %+v, want one catch and one score change", evs)
	}
}

func TestBallsStepIsCapped(t *testing.T) {
	svc := NewBallService(rand.New(rand.NewSource(3)))
	field, _ := svc.NewField(ballConfig(), "")
	now := time.Unix(1_700_000_000, 0)
	svc.Start(field, now)
	field.NextSpawnAt = now.Add(time.Hour)

	svc.Tick(field, now.Add(10*time.Second))
	if got := field.Balls[0].Y; got != -20+200*maxStep.Seconds() {
		t.Fatalf("y = %v after a stalled loop, want one capped step", got)
	}
}

func TestBallsStopKeepsBest(t *testing.T) {
	svc := NewBallService(rand.New(rand.NewSource(3)))
	field, _ := svc.NewField(ballConfig(), "")
	now := time.Unix(1_700_000_000, 0)

	svc.Start(field, now)
	field.Score = 4
	evs := svc.Stop(field)
	if len(evs) != 1 {
		t.Fatalf("stop events = %+v", evs)
	}
	if p := evs[0].Payload.(BallsStoppedPayload); p.FinalScore != 4 || p.MaxScore != 4 {
		t.Fatalf("stopped = %+v", p)
	}
	if len(field.Balls) != 0 || field.Running {
		t.Fatal("stop must clear the field")
	}
	if svc.Stop(field) != nil || svc.Tick(field, now.Add(time.Second)) != nil {
		t.Fatal("a stopped field emits nothing")
	}

	svc.Start(field, now)
	if field.Score != 0 {
		t.Fatal("start must zero the score")
	}
	field.Score = 2
	p := svc.Stop(field)[0].Payload.(BallsStoppedPayload)
	if p.FinalScore != 2 || p.MaxScore != 4 {
		t.Fatalf("stopped = %+v, want best kept at 4", p)
	}
}

func punchConfig(hits int) domain.PunchCourseConfig {
	return domain.PunchCourseConfig{
		Width:       640,
		Height:      480,
		Zones:       domain.QuarterZones(640, 480, 100),
		HandIndices: []int{domain.LeftIndex, domain.RightIndex},
		TargetHits:  hits,
	}
}

// punchAt places the right index finger at the centre of zone.
func punchAt(zone domain.Rect) domain.Frame {
	f := make(domain.Frame, domain.FrameSize)
	f[domain.RightIndex] = domain.Landmark{
		Point:   domain.Point{X: (zone.X + zone.W/2) / 640, Y: (zone.Y + zone.H/2) / 480},
		Present: true,
	}
	return f
}

func TestNewCourse(t *testing.T) {
	svc := NewPunchService()
	tests := []struct {
		name   string
		mutate func(*domain.PunchCourseConfig)
	}{
		{name: "NoZones", mutate: func(c *domain.PunchCourseConfig) { c.Zones = nil }},
		{name: "NoHands", mutate: func(c *domain.PunchCourseConfig) { c.HandIndices = nil }},
		{name: "BadHand", mutate: func(c *domain.PunchCourseConfig) { c.HandIndices = []int{-1} }},
		{name: "NegativeHits", mutate: func(c *domain.PunchCourseConfig) { c.TargetHits = -2 }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := punchConfig(4)
			test.mutate(&cfg)
			if _, err := svc.NewCourse(cfg); !errors.Is(err, ErrInvalidSession) {
				t.Fatalf("err = %v, want ErrInvalidSession", err)
			}
		})
	}
}

func TestPunchCourseRun(t *testing.T) {
	svc := NewPunchService()
	course, err := svc.NewCourse(punchConfig(5))
	if err != nil {
		t.Fatalf("NewCourse: %v", err)
	}
	evs := svc.Begin(course)
	if first := evs[0].Payload.(TargetChangedPayload); first.Index != 0 || first.Total != 5 {
		t.Fatalf("first target = %+v", first)
	}

	start := time.Unix(1_700_000_000, 0)
	now := start
	svc.HandleFrame(course, make(domain.Frame, domain.FrameSize), now)

	var done *CourseCompletePayload
	for hit := 0; hit < 5; hit++ {
		now = now.Add(800 * time.Millisecond)
		zone := course.Zone()
		evs := svc.HandleFrame(course, punchAt(zone), now)
		if score := evs[0].Payload.(ScoreChangedPayload).Score; score != hit+1 {
			t.Fatalf("hit %d scored %d", hit, score)
		}
		if last := evs[len(evs)-1]; last.Kind == EventCourseComplete {
			p := last.Payload.(CourseCompletePayload)
			done = &p
		} else if next := last.Payload.(TargetChangedPayload); next.Index != (hit+1)%4 {
			t.Fatalf("after hit %d next zone = %d", hit, next.Index)
		}
	}
	if done == nil || done.Hits != 5 || done.Elapsed != 4*time.Second {
		t.Fatalf("complete = %+v, want 5 hits in 4s", done)
	}
	if svc.HandleFrame(course, punchAt(course.Zone()), now.Add(time.Second)) != nil {
		t.Fatal("a complete course ignores frames")
	}

	evs = svc.Replay(course)
	if course.Hits != 0 || course.Complete || !course.StartedAt.IsZero() {
		t.Fatalf("replay left %+v", course)
	}
	if evs[0].Payload.(TargetChangedPayload).Index != 0 {
		t.Fatal("replay should announce the first zone")
	}
}

func TestPunchMissDoesNotScore(t *testing.T) {
	svc := NewPunchService()
	course, _ := svc.NewCourse(punchConfig(4))
	svc.Begin(course)
	now := time.Unix(1_700_000_000, 0)

	other := course.Config.Zones[3]
	if evs := svc.HandleFrame(course, punchAt(other), now); evs != nil {
		t.Fatalf("hand in another zone produced %+v", evs)
	}
	if course.Hits != 0 {
		t.Fatal("miss scored")
	}
}

func TestPunchScoresOneHitPerFrame(t *testing.T) {
	svc := NewPunchService()
	course, _ := svc.NewCourse(punchConfig(4))
	svc.Begin(course)
	now := time.Unix(1_700_000_000, 0)

	// left hand waits in the second zone while the right hand strikes the first
	f := punchAt(course.Config.Zones[0])
	second := course.Config.Zones[1]
	f[domain.LeftIndex] = domain.Landmark{
		Point:   domain.Point{X: (second.X + second.W/2) / 640, Y: (second.Y + second.H/2) / 480},
		Present: true,
	}

	evs := svc.HandleFrame(course, f, now)
	if countKind(evs, EventScoreChanged) != 1 || course.Hits != 1 || course.Current != 1 {
		t.Fatalf("hits = %d current = %d events = %+v, want one hit moving to zone 1", course.Hits, course.Current, evs)
	}
	evs = svc.HandleFrame(course, f, now.Add(33*time.Millisecond))
	if countKind(evs, EventScoreChanged) != 1 || course.Hits != 2 || course.Current != 2 {
		t.Fatalf("hits = %d current = %d, want the waiting hand to score zone 1 on the next frame", course.Hits, course.Current)
	}
}
