package domain

import "time"

// Shine is the material the renderer uses for falling balls.
type Shine string

const (
	ShineMatte    Shine = "matte"
	ShineGlossy   Shine = "glossy"
	ShineMetallic Shine = "metallic"
)

// ValidShine reports whether s is a known material.
func ValidShine(s Shine) bool {
	switch s {
	case ShineMatte, ShineGlossy, ShineMetallic:
		return true
	}
	return false
}

// Ball is a falling object in canvas pixels, origin top-left, y growing downward.
type Ball struct {
	ID  int
	X   float64
	Y   float64
	Hue float64 // 0..360
}

// MaxBPM is the fastest spawn tempo a field accepts.
const MaxBPM = 300

// BallFieldConfig sizes the play area and the physics.
type BallFieldConfig struct {
	Width  float64
	Height float64
	Radius float64
	Speed  float64 // pixels per second
	BPM    int
	Mirror bool // compare against selfie-mirrored landmarks
}

// SpawnInterval is one beat at the configured tempo.
func (c BallFieldConfig) SpawnInterval() time.Duration {
	if c.BPM <= 0 {
		return 0
	}
	return time.Duration(60000/float64(c.BPM)*float64(time.Millisecond))
}

// BallField is the continuous catch game. It has no rounds and no deadline; it runs until stopped.
type BallField struct {
	Config      BallFieldConfig
	Shine       Shine
	Balls       []Ball
	NextID      int
	Score       int
	MaxScore    int
	Running     bool
	NextSpawnAt time.Time
	LastStepAt  time.Time
	Landmarks   Frame
}

// Spawn adds a ball just above the top edge at horizontal position x.
func (b *BallField) Spawn(x, hue float64) Ball {
	b.NextID++
	ball := Ball{ID: b.NextID, X: x, Y: -b.Config.Radius, Hue: hue}
	b.Balls = append(b.Balls, ball)
	return ball
}

// Step advances physics by dt against the latest landmarks.
// A ball touching any landmark is caught and removed without moving; the others fall and are
// removed silently once fully below the bottom edge.
func (b *BallField) Step(landmarks Frame, dt time.Duration) (caught []Ball, missed []Ball) {
	if b.Config.Mirror {
		landmarks = landmarks.Mirrored()
	}
	points := landmarks.Points()
	for i := range points {
		points[i] = Point{X: points[i].X * b.Config.Width, Y: points[i].Y * b.Config.Height}
	}

	fall := b.Config.Speed * dt.Seconds()
	bottom := b.Config.Height + b.Config.Radius
	kept := b.Balls[:0]
	for _, ball := range b.Balls {
		if b.touches(ball, points) {
			caught = append(caught, ball)
			b.Score++
			continue
		}
		ball.Y += fall
		if ball.Y > bottom {
			missed = append(missed, ball)
			continue
		}
		kept = append(kept, ball)
	}
	b.Balls = kept
	return caught, missed
}

func (b *BallField) touches(ball Ball, points []Point) bool {
	center := Point{X: ball.X, Y: ball.Y}
	for _, p := range points {
		if WithinRadius(p, center, b.Config.Radius) {
			return true
		}
	}
	return false
}

// Clear removes every ball.
func (b *BallField) Clear() {
	b.Balls = nil
}
