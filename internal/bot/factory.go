package bot

import (
	"fmt"
	"math/rand"
	"time"
)

// NewAgent creates a ghost at the given level. A nil rng is seeded from the clock.
func NewAgent(id, name string, level Level, rng *rand.Rand) (*Agent, error) {
	tuning, ok := DefaultTuning[level]
	if !ok {
		return nil, fmt.Errorf("unknown ghost level: %d", level)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Agent{
		ID:     id,
		Name:   name,
		Level:  level,
		Tuning: tuning,
		rng:    rng,
		balls:  make(map[int]ballPlan),
	}, nil
}
