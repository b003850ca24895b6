package bot

import (
	"math"
	"testing"

	"motionarcade/internal/domain"
)

var neutral = domain.NeutralTolerance{Y: 0.12, X: 0.15}

func TestStandingIsFramedAndNeutral(t *testing.T) {
	f := Standing().Frame()
	if len(f) != domain.FrameSize {
		t.Fatalf("frame has %d landmarks, want %d", len(f), domain.FrameSize)
	}
	if !domain.IsFramed(f) {
		t.Error("standing pose should be framed")
	}
	if !domain.IsNeutral(f, neutral) {
		t.Error("standing pose should be neutral")
	}
	for _, pose := range domain.BuiltinPoses() {
		if pose.Validate(f) {
			t.Errorf("standing pose satisfies %q", pose.Name)
		}
	}
}

func TestPoseSkeletonSatisfiesItsPose(t *testing.T) {
	for _, pose := range domain.BuiltinPoses() {
		t.Run(pose.Name, func(t *testing.T) {
			s, err := PoseSkeleton(pose.Name)
			if err != nil {
				t.Fatalf("PoseSkeleton: %v", err)
			}
			f := s.Frame()
			if !pose.Validate(f) {
				t.Errorf("skeleton for %q does not satisfy it", pose.Name)
			}
			if domain.IsNeutral(f, neutral) {
				t.Errorf("skeleton for %q still reads as neutral", pose.Name)
			}
			if !domain.IsFramed(f) {
				t.Errorf("skeleton for %q left the frame", pose.Name)
			}
		})
	}
}

func TestPoseSkeletonUnknown(t *testing.T) {
	if _, err := PoseSkeleton("Moonwalk"); err == nil {
		t.Fatal("expected error for unknown pose")
	}
}

func TestReachPlacesIndexFinger(t *testing.T) {
	s := Standing()
	target := domain.Point{X: 0.2, Y: 0.3}
	s.Reach(true, target)
	got := s[domain.RightIndex]
	if math.Abs(got.X-target.X) > 1e-9 || math.Abs(got.Y-target.Y) > 1e-9 {
		t.Errorf("right index at %+v, want %+v", got, target)
	}
	if s[domain.LeftIndex] != standing[domain.LeftIndex] {
		t.Error("left hand moved")
	}
}
