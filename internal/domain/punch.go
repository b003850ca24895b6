package domain

import "time"

// PunchCourseConfig describes the target sequence in canvas pixels.
type PunchCourseConfig struct {
	Width       float64
	Height      float64
	Zones       []Rect
	HandIndices []int
	TargetHits  int // total hits to finish; the zones repeat in order until reached
	Mirror      bool
}

// PunchCourse is a fixed ordered sequence of target zones, exactly one current at a time.
type PunchCourse struct {
	Config    PunchCourseConfig
	Current   int
	Hits      int
	Complete  bool
	StartedAt time.Time
	EndedAt   time.Time
}

// Length is the number of hits needed to finish the course.
func (c *PunchCourse) Length() int {
	if c.Config.TargetHits > 0 {
		return c.Config.TargetHits
	}
	return len(c.Config.Zones)
}

// Zone returns the current target zone.
func (c *PunchCourse) Zone() Rect {
	return c.Config.Zones[c.Current]
}

// Struck reports whether any configured hand landmark is inside the current zone.
func (c *PunchCourse) Struck(f Frame) bool {
	if c.Config.Mirror {
		f = f.Mirrored()
	}
	zone := c.Zone()
	for _, idx := range c.Config.HandIndices {
		p, ok := f.At(idx)
		if !ok {
			continue
		}
		if zone.Contains(Point{X: p.X * c.Config.Width, Y: p.Y * c.Config.Height}) {
			return true
		}
	}
	return false
}

// Advance records a hit on the current zone and moves to the next one.
// It reports whether the course is now complete; a complete course stays on its last zone.
func (c *PunchCourse) Advance() bool {
	c.Hits++
	if c.Hits >= c.Length() {
		c.Complete = true
		return true
	}
	c.Current = (c.Current + 1) % len(c.Config.Zones)
	return false
}

// Reset returns the course to its first zone.
func (c *PunchCourse) Reset() {
	c.Current = 0
	c.Hits = 0
	c.Complete = false
	c.StartedAt = time.Time{}
	c.EndedAt = time.Time{}
}

// QuarterZones lays out four square zones centred on the quarter points of the canvas,
// ordered top-left, top-right, bottom-left, bottom-right.
func QuarterZones(width, height, size float64) []Rect {
	centres := []Point{
		{X: width * 0.25, Y: height * 0.25},
		{X: width * 0.75, Y: height * 0.25},
		{X: width * 0.25, Y: height * 0.75},
		{X: width * 0.75, Y: height * 0.75},
	}
	zones := make([]Rect, len(centres))
	for i, c := range centres {
		zones[i] = Rect{X: c.X - size/2, Y: c.Y - size/2, W: size, H: size}
	}
	return zones
}
