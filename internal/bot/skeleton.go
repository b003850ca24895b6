package bot

import (
	"fmt"

	"motionarcade/internal/domain"
)

// standing is a front-facing subject, hands resting at the hips, framed for the camera.
var standing = [domain.FrameSize]domain.Point{
	0:  {X: 0.50, Y: 0.15},
	1:  {X: 0.52, Y: 0.13},
	2:  {X: 0.53, Y: 0.13},
	3:  {X: 0.54, Y: 0.13},
	4:  {X: 0.48, Y: 0.13},
	5:  {X: 0.47, Y: 0.13},
	6:  {X: 0.46, Y: 0.13},
	7:  {X: 0.56, Y: 0.14},
	8:  {X: 0.44, Y: 0.14},
	9:  {X: 0.52, Y: 0.18},
	10: {X: 0.48, Y: 0.18},
	11: {X: 0.60, Y: 0.30},
	12: {X: 0.40, Y: 0.30},
	13: {X: 0.63, Y: 0.50},
	14: {X: 0.37, Y: 0.50},
	15: {X: 0.62, Y: 0.68},
	16: {X: 0.38, Y: 0.68},
	17: {X: 0.63, Y: 0.71},
	18: {X: 0.37, Y: 0.71},
	19: {X: 0.62, Y: 0.72},
	20: {X: 0.38, Y: 0.72},
	21: {X: 0.61, Y: 0.70},
	22: {X: 0.39, Y: 0.70},
	23: {X: 0.57, Y: 0.70},
	24: {X: 0.43, Y: 0.70},
	25: {X: 0.57, Y: 0.84},
	26: {X: 0.43, Y: 0.84},
	27: {X: 0.57, Y: 0.96},
	28: {X: 0.43, Y: 0.96},
	29: {X: 0.56, Y: 0.98},
	30: {X: 0.44, Y: 0.98},
	31: {X: 0.59, Y: 0.99},
	32: {X: 0.41, Y: 0.99},
}

// arm is the elbow, wrist and hand landmarks of one side.
type arm struct {
	elbow, wrist, pinky, index, thumb int
}

var (
	leftArm  = arm{domain.LeftElbow, domain.LeftWrist, 17, domain.LeftIndex, 21}
	rightArm = arm{domain.RightElbow, domain.RightWrist, 18, domain.RightIndex, 22}
)

// Skeleton is a mutable full-body pose used to build frames.
type Skeleton [domain.FrameSize]domain.Point

// Standing returns the neutral, framed rest pose.
func Standing() Skeleton {
	return Skeleton(standing)
}

// Frame converts the skeleton into a fully present landmark frame.
func (s Skeleton) Frame() domain.Frame {
	return domain.NewFrame(s[:])
}

// placeArm moves one arm so the elbow and wrist sit at the given points; hand points follow the wrist.
func (s *Skeleton) placeArm(a arm, elbow, wrist domain.Point) {
	s[a.elbow] = elbow
	s[a.wrist] = wrist
	s[a.pinky] = domain.Point{X: wrist.X + 0.01, Y: wrist.Y - 0.02}
	s[a.index] = domain.Point{X: wrist.X, Y: wrist.Y - 0.03}
	s[a.thumb] = domain.Point{X: wrist.X - 0.01, Y: wrist.Y - 0.02}
}

// Reach puts the chosen hand's index finger on target (normalized).
func (s *Skeleton) Reach(right bool, target domain.Point) {
	a, shoulder := leftArm, s[domain.LeftShoulder]
	if right {
		a, shoulder = rightArm, s[domain.RightShoulder]
	}
	wrist := domain.Point{X: target.X, Y: target.Y + 0.03}
	elbow := domain.Point{X: (shoulder.X + wrist.X) / 2, Y: (shoulder.Y+wrist.Y)/2 + 0.02}
	s.placeArm(a, elbow, wrist)
}

// PoseSkeleton returns a skeleton that performs the named built-in pose.
func PoseSkeleton(name string) (Skeleton, error) {
	s := Standing()
	switch name {
	case domain.PoseHandsUp:
		s.placeArm(leftArm, domain.Point{X: 0.63, Y: 0.15}, domain.Point{X: 0.62, Y: 0.05})
		s.placeArm(rightArm, domain.Point{X: 0.37, Y: 0.15}, domain.Point{X: 0.38, Y: 0.05})
	case domain.PoseTPose:
		s.placeArm(leftArm, domain.Point{X: 0.75, Y: 0.30}, domain.Point{X: 0.90, Y: 0.30})
		s.placeArm(rightArm, domain.Point{X: 0.25, Y: 0.30}, domain.Point{X: 0.10, Y: 0.30})
		// fingers on the same line as the wrist so the arm reads as straight
		s[17], s[19], s[21] = domain.Point{X: 0.93, Y: 0.30}, domain.Point{X: 0.94, Y: 0.30}, domain.Point{X: 0.92, Y: 0.30}
		s[18], s[20], s[22] = domain.Point{X: 0.07, Y: 0.30}, domain.Point{X: 0.06, Y: 0.30}, domain.Point{X: 0.08, Y: 0.30}
	case domain.PoseLeftHandUp:
		s.placeArm(leftArm, domain.Point{X: 0.63, Y: 0.15}, domain.Point{X: 0.62, Y: 0.05})
	case domain.PoseRightHandUp:
		s.placeArm(rightArm, domain.Point{X: 0.37, Y: 0.15}, domain.Point{X: 0.38, Y: 0.05})
	case domain.PoseTouchHead:
		s.placeArm(leftArm, domain.Point{X: 0.70, Y: 0.25}, domain.Point{X: 0.55, Y: 0.18})
		s.placeArm(rightArm, domain.Point{X: 0.30, Y: 0.25}, domain.Point{X: 0.45, Y: 0.18})
	case domain.PoseFlex:
		s.placeArm(leftArm, domain.Point{X: 0.75, Y: 0.30}, domain.Point{X: 0.75, Y: 0.15})
		s.placeArm(rightArm, domain.Point{X: 0.25, Y: 0.30}, domain.Point{X: 0.25, Y: 0.15})
	default:
		return Skeleton{}, fmt.Errorf("no skeleton for pose %q", name)
	}
	return s, nil
}
