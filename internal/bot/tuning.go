package bot

import "time"

// Tuning shapes a ghost's reflexes and mistakes.
type Tuning struct {
	ReactionDelay  time.Duration
	ReactionSpread time.Duration // uniform extra delay on top of ReactionDelay
	MissRate       float64       // chance to ignore a genuine challenge or a ball
	DecoyFallRate  float64       // chance to perform a decoy challenge
	Jitter         float64       // landmark noise, standard deviation in normalized units
}

// DefaultTuning maps each level to its reflexes.
var DefaultTuning = map[Level]Tuning{
	LevelClumsy: {
		ReactionDelay:  1500 * time.Millisecond,
		ReactionSpread: 1500 * time.Millisecond,
		MissRate:       0.2,
		DecoyFallRate:  0.5,
		Jitter:         0.01,
	},
	LevelGood: {
		ReactionDelay:  800 * time.Millisecond,
		ReactionSpread: 700 * time.Millisecond,
		MissRate:       0.05,
		DecoyFallRate:  0.2,
		Jitter:         0.005,
	},
	LevelPerfect: {
		ReactionDelay: 300 * time.Millisecond,
	},
}
