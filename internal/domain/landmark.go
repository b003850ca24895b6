package domain

// FrameSize is the number of landmarks the pose estimator reports for a detected subject.
const FrameSize = 33

// Landmark indices in the estimator's 33-point layout. These are an external contract and must not be renumbered.
const (
	Nose          = 0
	LeftEyeInner  = 1
	RightEyeInner = 4
	LeftShoulder  = 11
	RightShoulder = 12
	LeftElbow     = 13
	RightElbow    = 14
	LeftWrist     = 15
	RightWrist    = 16
	LeftIndex     = 19
	RightIndex    = 20
	LeftHip       = 23
	RightHip      = 24
)

// Point is a position in normalized image space: x,y in [0,1], origin top-left.
type Point struct {
	X float64
	Y float64
}

// Landmark is a single estimated joint. Present is false when the estimator did not see it.
type Landmark struct {
	Point
	Present bool
}

// Frame is one inferred video frame of at most FrameSize landmarks. Indices past the end are absent;
// an empty frame means no subject.
type Frame []Landmark

// NewFrame builds a frame where every supplied point is present.
func NewFrame(points []Point) Frame {
	f := make(Frame, len(points))
	for i, p := range points {
		f[i] = Landmark{Point: p, Present: true}
	}
	return f
}

// At returns the landmark at index i and whether it is usable.
func (f Frame) At(i int) (Point, bool) {
	if i < 0 || i >= len(f) || !f[i].Present {
		return Point{}, false
	}
	return f[i].Point, true
}

// Empty reports whether the frame carries no detected subject.
func (f Frame) Empty() bool {
	for _, lm := range f {
		if lm.Present {
			return false
		}
	}
	return true
}

// Points returns the present landmarks in index order.
func (f Frame) Points() []Point {
	out := make([]Point, 0, len(f))
	for _, lm := range f {
		if lm.Present {
			out = append(out, lm.Point)
		}
	}
	return out
}

// Mirrored flips every landmark horizontally, turning camera space into selfie space.
func (f Frame) Mirrored() Frame {
	out := make(Frame, len(f))
	for i, lm := range f {
		out[i] = lm
		if lm.Present {
			out[i].X = 1 - lm.X
		}
	}
	return out
}
