package domain

import (
	"errors"
	"fmt"
)

// ErrCatalogExhausted means the catalog is too small to guarantee a different challenge every round.
var ErrCatalogExhausted = errors.New("pose catalog needs at least 2 entries")

// PoseDefinition is a challenge the imitation game can ask for.
type PoseDefinition struct {
	Name     string
	AudioCue string // asset id, may be empty
	Validate func(Frame) bool
}

// Catalog is the static set of challenges known at startup.
type Catalog []PoseDefinition

// NewCatalog checks the no-repeat precondition: at least two uniquely named poses.
func NewCatalog(poses ...PoseDefinition) (Catalog, error) {
	c := Catalog(poses)
	if err := c.Check(); err != nil {
		return nil, err
	}
	return c, nil
}

// Check reports a catalog that cannot serve a game: fewer than two entries, an unnamed pose,
// a pose without a validator, or a repeated name. Duplicates wrap ErrCatalogExhausted.
func (c Catalog) Check() error {
	if len(c) < 2 {
		return fmt.Errorf("%w: got %d", ErrCatalogExhausted, len(c))
	}
	seen := make(map[string]bool, len(c))
	for _, p := range c {
		if p.Name == "" || p.Validate == nil {
			return fmt.Errorf("pose %q is incomplete", p.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: duplicate pose %q", ErrCatalogExhausted, p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// Lookup finds a pose by display name.
func (c Catalog) Lookup(name string) (PoseDefinition, bool) {
	for _, p := range c {
		if p.Name == name {
			return p, true
		}
	}
	return PoseDefinition{}, false
}

// Names lists the catalog's display names in order.
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, p := range c {
		names[i] = p.Name
	}
	return names
}

// Pose names of the built-in catalog.
const (
	PoseHandsUp     = "Hands Up"
	PoseTPose       = "T-Pose"
	PoseLeftHandUp  = "Left Hand Up"
	PoseRightHandUp = "Right Hand Up"
	PoseTouchHead   = "Touch Head"
	PoseFlex        = "Flex"
)

const (
	tPoseAlignment     = 0.08
	tPoseMinElbowAngle = 150.0
	touchHeadTolerance = 0.15
	flexMinElbowAngle  = 60.0
	flexMaxElbowAngle  = 120.0
)

// BuiltinPoses returns every pose the games ship with.
func BuiltinPoses() []PoseDefinition {
	return []PoseDefinition{
		{Name: PoseHandsUp, AudioCue: "cue_hands_up", Validate: handsUp},
		{Name: PoseTPose, AudioCue: "cue_t_pose", Validate: tPose},
		{Name: PoseLeftHandUp, AudioCue: "cue_left_up", Validate: leftHandUp},
		{Name: PoseRightHandUp, AudioCue: "cue_right_up", Validate: rightHandUp},
		{Name: PoseTouchHead, AudioCue: "cue_touch_head", Validate: touchHead},
		{Name: PoseFlex, AudioCue: "cue_flex", Validate: flex},
	}
}

// CatalogFromNames selects built-in poses by name, in the given order.
// An empty list selects the whole built-in set.
func CatalogFromNames(names []string) (Catalog, error) {
	builtin := Catalog(BuiltinPoses())
	if len(names) == 0 {
		return NewCatalog(builtin...)
	}
	poses := make([]PoseDefinition, 0, len(names))
	for _, name := range names {
		p, ok := builtin.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown pose %q", name)
		}
		poses = append(poses, p)
	}
	return NewCatalog(poses...)
}

func handsUp(f Frame) bool {
	return Above(f, LeftWrist, Nose) && Above(f, RightWrist, Nose)
}

func leftHandUp(f Frame) bool {
	return Above(f, LeftWrist, Nose) && Above(f, RightShoulder, RightWrist)
}

func rightHandUp(f Frame) bool {
	return Above(f, RightWrist, Nose) && Above(f, LeftShoulder, LeftWrist)
}

func tPose(f Frame) bool {
	if !AlignedWithin(f, tPoseAlignment, LeftWrist, LeftElbow, LeftShoulder, RightShoulder, RightElbow, RightWrist) {
		return false
	}
	left, err := FrameJointAngle(f, LeftShoulder, LeftElbow, LeftWrist)
	if err != nil {
		return false
	}
	right, err := FrameJointAngle(f, RightShoulder, RightElbow, RightWrist)
	if err != nil {
		return false
	}
	return left >= tPoseMinElbowAngle && right >= tPoseMinElbowAngle
}

func touchHead(f Frame) bool {
	return LandmarksNear(f, LeftWrist, Nose, touchHeadTolerance, touchHeadTolerance) &&
		LandmarksNear(f, RightWrist, Nose, touchHeadTolerance, touchHeadTolerance)
}

func flex(f Frame) bool {
	for _, arm := range [][3]int{{LeftShoulder, LeftElbow, LeftWrist}, {RightShoulder, RightElbow, RightWrist}} {
		angle, err := FrameJointAngle(f, arm[0], arm[1], arm[2])
		if err != nil {
			return false
		}
		if angle < flexMinElbowAngle || angle > flexMaxElbowAngle {
			return false
		}
		if !Above(f, arm[2], arm[1]) {
			return false
		}
	}
	return true
}

// NeutralTolerance configures the hands-at-hips rest pose.
type NeutralTolerance struct {
	Y float64
	X float64
}

// IsNeutral reports whether both wrists rest near their hips.
func IsNeutral(f Frame, tol NeutralTolerance) bool {
	return LandmarksNear(f, LeftWrist, LeftHip, tol.Y, tol.X) &&
		LandmarksNear(f, RightWrist, RightHip, tol.Y, tol.X)
}
