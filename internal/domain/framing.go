package domain

const (
	framingShoulderMaxY = 0.4
	framingHipMinY      = 0.6
)

// FramingGate debounces camera entry: the subject must be framed for Threshold consecutive frames.
type FramingGate struct {
	Threshold   int
	Consecutive int
	Ready       bool
}

// NewFramingGate returns a gate that latches after threshold consecutive framed frames.
func NewFramingGate(threshold int) *FramingGate {
	return &FramingGate{Threshold: threshold}
}

// Observe feeds one frame and reports whether this frame flipped the gate to ready.
// Once ready the gate stays latched and further frames are ignored.
func (g *FramingGate) Observe(f Frame) bool {
	if g.Ready {
		return false
	}
	if !IsFramed(f) {
		g.Consecutive = 0
		return false
	}
	g.Consecutive++
	if g.Consecutive >= g.Threshold {
		g.Ready = true
		return true
	}
	return false
}

// Reset clears progress and the latch.
func (g *FramingGate) Reset() {
	g.Consecutive = 0
	g.Ready = false
}

// IsFramed checks that shoulders sit in the upper part of the image, hips in the lower part,
// and each hip is below its shoulder.
func IsFramed(f Frame) bool {
	ls, ok1 := f.At(LeftShoulder)
	rs, ok2 := f.At(RightShoulder)
	lh, ok3 := f.At(LeftHip)
	rh, ok4 := f.At(RightHip)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return false
	}
	if ls.Y >= framingShoulderMaxY || rs.Y >= framingShoulderMaxY {
		return false
	}
	if lh.Y <= framingHipMinY || rh.Y <= framingHipMinY {
		return false
	}
	return lh.Y > ls.Y && rh.Y > rs.Y
}
