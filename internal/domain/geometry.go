package domain

import (
	"errors"
	"math"
)

var (
	// ErrMissingLandmark is returned when a joint required by a measurement is absent from the frame.
	ErrMissingLandmark = errors.New("required landmark missing")
	// ErrDegenerateGeometry is returned when an angle is requested over a zero-length ray.
	ErrDegenerateGeometry = errors.New("degenerate geometry")
)

// DegenerateAngle is the value JointAngleDegrees reports alongside ErrDegenerateGeometry.
const DegenerateAngle = 0.0

// JointAngleDegrees returns the angle at vertex b formed by the rays b->a and b->c, in [0, 180].
// Coincident points yield DegenerateAngle and ErrDegenerateGeometry, never NaN.
func JointAngleDegrees(a, b, c Point) (float64, error) {
	abx, aby := a.X-b.X, a.Y-b.Y
	cbx, cby := c.X-b.X, c.Y-b.Y

	magAB := math.Hypot(abx, aby)
	magCB := math.Hypot(cbx, cby)
	if magAB == 0 || magCB == 0 {
		return DegenerateAngle, ErrDegenerateGeometry
	}

	cos := (abx*cbx + aby*cby) / (magAB * magCB)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi, nil
}

// FrameJointAngle measures the angle at landmark b of the frame.
func FrameJointAngle(f Frame, a, b, c int) (float64, error) {
	pa, okA := f.At(a)
	pb, okB := f.At(b)
	pc, okC := f.At(c)
	if !okA || !okB || !okC {
		return 0, ErrMissingLandmark
	}
	return JointAngleDegrees(pa, pb, pc)
}

// VerticalAlignment returns max(y) - min(y) over the points; 0 for fewer than two points.
func VerticalAlignment(points ...Point) float64 {
	if len(points) == 0 {
		return 0
	}
	lo, hi := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		lo = math.Min(lo, p.Y)
		hi = math.Max(hi, p.Y)
	}
	return hi - lo
}

// AlignedWithin reports whether the listed landmarks are all present and their vertical spread is at most tol.
func AlignedWithin(f Frame, tol float64, indices ...int) bool {
	points := make([]Point, 0, len(indices))
	for _, idx := range indices {
		p, ok := f.At(idx)
		if !ok {
			return false
		}
		points = append(points, p)
	}
	return VerticalAlignment(points...) <= tol
}

// Rect is an axis-aligned box in whatever space its caller uses (normalized or pixels).
type Rect struct {
	X, Y, W, H float64
}

// Contains is the inclusive containment test.
func (r Rect) Contains(p Point) bool {
	return WithinRect(p, r.X, r.Y, r.W, r.H)
}

// WithinRect reports whether p lies inside the box, edges included.
func WithinRect(p Point, rectX, rectY, rectW, rectH float64) bool {
	return p.X >= rectX && p.X <= rectX+rectW && p.Y >= rectY && p.Y <= rectY+rectH
}

// WithinRadius reports whether a and b are strictly closer than radius.
func WithinRadius(a, b Point, radius float64) bool {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx+dy*dy < radius*radius
}

// IsNear applies independent per-axis tolerances.
func IsNear(a, b Point, yTol, xTol float64) bool {
	return math.Abs(a.Y-b.Y) <= yTol && math.Abs(a.X-b.X) <= xTol
}

// LandmarksNear is IsNear over two frame indices; absent landmarks are never near.
func LandmarksNear(f Frame, i, j int, yTol, xTol float64) bool {
	a, okA := f.At(i)
	b, okB := f.At(j)
	if !okA || !okB {
		return false
	}
	return IsNear(a, b, yTol, xTol)
}

// Above reports whether landmark i is higher in the image than landmark j. Absent landmarks are never above.
func Above(f Frame, i, j int) bool {
	a, okA := f.At(i)
	b, okB := f.At(j)
	if !okA || !okB {
		return false
	}
	return a.Y < b.Y
}
