package config

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"motionarcade/internal/domain"

	"gopkg.in/yaml.v2"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid game config")

type SimonConfig struct {
	Catalog                []string `yaml:"catalog"`
	TargetScore            int      `yaml:"target_score"`
	DeadlineGenuineMs      int      `yaml:"deadline_genuine_ms"`
	DeadlineDecoyMs        int      `yaml:"deadline_decoy_ms"`
	DecoyProbability       float64  `yaml:"decoy_probability"`
	NeutralHoldMs          int      `yaml:"neutral_hold_ms"`
	NeutralToleranceY      float64  `yaml:"neutral_tolerance_y"`
	NeutralToleranceX      float64  `yaml:"neutral_tolerance_x"`
	FramingThresholdFrames int      `yaml:"framing_threshold_frames"`
	SettleDelayMs          int      `yaml:"settle_delay_ms"`
	// CueTimeoutMs unblocks detection when the client never reports the cue outcome. 0 disables it.
	CueTimeoutMs int `yaml:"cue_timeout_ms"`
}

type BallsConfig struct {
	BPM          int     `yaml:"bpm"`
	RadiusPx     float64 `yaml:"radius_px"`
	SpeedPxPerS  float64 `yaml:"speed_px_per_s"`
	CanvasWidth  float64 `yaml:"canvas_width"`
	CanvasHeight float64 `yaml:"canvas_height"`
	Mirror       bool    `yaml:"mirror"`
	Shine        string  `yaml:"shine"`
}

type PunchConfig struct {
	CanvasWidth  float64 `yaml:"canvas_width"`
	CanvasHeight float64 `yaml:"canvas_height"`
	BoxSizePx    float64 `yaml:"box_size_px"`
	HandIndices  []int   `yaml:"hand_indices"`
	TargetHits   int     `yaml:"target_hits"`
	Mirror       bool    `yaml:"mirror"`
}

type GameConfig struct {
	TickRate      int         `yaml:"tick_rate"`
	MinVisibility float64     `yaml:"min_visibility"`
	DemoEnabled   bool        `yaml:"demo_enabled"`
	Simon         SimonConfig `yaml:"simon"`
	Balls         BallsConfig `yaml:"balls"`
	Punch         PunchConfig `yaml:"punch"`
}

// Default returns the tuning the games were play-tested with.
func Default() GameConfig {
	return GameConfig{
		TickRate:      30,
		MinVisibility: 0.5,
		Simon: SimonConfig{
			TargetScore:            10,
			DeadlineGenuineMs:      10000,
			DeadlineDecoyMs:        5000,
			DecoyProbability:       0.4,
			NeutralHoldMs:          3000,
			NeutralToleranceY:      0.12,
			NeutralToleranceX:      0.15,
			FramingThresholdFrames: 10,
			SettleDelayMs:          1500,
			CueTimeoutMs:           4000,
		},
		Balls: BallsConfig{
			BPM:          120,
			RadiusPx:     20,
			SpeedPxPerS:  200,
			CanvasWidth:  640,
			CanvasHeight: 480,
			Shine:        string(domain.ShineMatte),
		},
		Punch: PunchConfig{
			CanvasWidth:  640,
			CanvasHeight: 480,
			BoxSizePx:    150,
			HandIndices:  []int{domain.LeftIndex, domain.RightIndex},
			TargetHits:   25,
		},
	}
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path once per process.
// A missing file leaves the defaults in place.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		c, err := Load(path)
		if err != nil {
			loadErr = err
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the loaded configuration, or the defaults if nothing was loaded.
func GetGameConfig() GameConfig {
	if cfg == nil {
		return Default()
	}
	return *cfg
}

// Load reads and validates a YAML (or JSON) config file layered over Default.
func Load(path string) (GameConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return GameConfig{}, fmt.Errorf("failed to read game config: %w", err)
	}
	return Parse(data)
}

// Parse decodes data over Default and validates the result.
func Parse(data []byte) (GameConfig, error) {
	c := Default()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return GameConfig{}, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return GameConfig{}, err
	}
	return c, nil
}

// Validate rejects settings that would stall or loop a game, before any game starts.
func (c GameConfig) Validate() error {
	if c.TickRate < 1 || c.TickRate > 60 {
		return fmt.Errorf("%w: tick_rate must be within 1..60, got %d", ErrInvalidConfig, c.TickRate)
	}
	if c.MinVisibility < 0 || c.MinVisibility > 1 {
		return fmt.Errorf("%w: min_visibility must be within [0,1]", ErrInvalidConfig)
	}
	if _, err := c.Simon.Session(); err != nil {
		return err
	}
	if _, err := c.Balls.Field(); err != nil {
		return err
	}
	if _, err := c.Punch.Course(); err != nil {
		return err
	}
	return nil
}

// Session converts the simon section into a round machine config.
func (s SimonConfig) Session() (domain.SessionConfig, error) {
	catalog, err := domain.CatalogFromNames(s.Catalog)
	if err != nil {
		return domain.SessionConfig{}, fmt.Errorf("%w: simon.catalog: %w", ErrInvalidConfig, err)
	}
	switch {
	case s.TargetScore <= 0:
		return domain.SessionConfig{}, fmt.Errorf("%w: simon.target_score must be positive", ErrInvalidConfig)
	case s.DeadlineGenuineMs <= 0 || s.DeadlineDecoyMs <= 0:
		return domain.SessionConfig{}, fmt.Errorf("%w: simon deadlines must be positive", ErrInvalidConfig)
	case s.NeutralHoldMs <= 0:
		return domain.SessionConfig{}, fmt.Errorf("%w: simon.neutral_hold_ms must be positive", ErrInvalidConfig)
	case s.DecoyProbability < 0 || s.DecoyProbability > 1:
		return domain.SessionConfig{}, fmt.Errorf("%w: simon.decoy_probability must be within [0,1]", ErrInvalidConfig)
	case s.FramingThresholdFrames < 1:
		return domain.SessionConfig{}, fmt.Errorf("%w: simon.framing_threshold_frames must be at least 1", ErrInvalidConfig)
	case s.SettleDelayMs < 0 || s.CueTimeoutMs < 0:
		return domain.SessionConfig{}, fmt.Errorf("%w: simon delays must not be negative", ErrInvalidConfig)
	}
	return domain.SessionConfig{
		Catalog:                catalog,
		TargetScore:            s.TargetScore,
		DeadlineGenuine:        ms(s.DeadlineGenuineMs),
		DeadlineDecoy:          ms(s.DeadlineDecoyMs),
		DecoyProbability:       s.DecoyProbability,
		NeutralHold:            ms(s.NeutralHoldMs),
		NeutralTolerance:       domain.NeutralTolerance{Y: s.NeutralToleranceY, X: s.NeutralToleranceX},
		FramingThresholdFrames: s.FramingThresholdFrames,
		SettleDelay:            ms(s.SettleDelayMs),
		CueTimeout:             ms(s.CueTimeoutMs),
	}, nil
}

// Field converts the balls section into a ball field config.
func (b BallsConfig) Field() (domain.BallFieldConfig, error) {
	if b.BPM <= 0 || b.BPM > domain.MaxBPM {
		return domain.BallFieldConfig{}, fmt.Errorf("%w: balls.bpm must be within 1..%d", ErrInvalidConfig, domain.MaxBPM)
	}
	if b.RadiusPx <= 0 || b.SpeedPxPerS <= 0 || b.CanvasWidth <= 0 || b.CanvasHeight <= 0 {
		return domain.BallFieldConfig{}, fmt.Errorf("%w: balls sizes and speed must be positive", ErrInvalidConfig)
	}
	if b.Shine != "" && !domain.ValidShine(domain.Shine(b.Shine)) {
		return domain.BallFieldConfig{}, fmt.Errorf("%w: unknown balls.shine %q", ErrInvalidConfig, b.Shine)
	}
	return domain.BallFieldConfig{
		Width:  b.CanvasWidth,
		Height: b.CanvasHeight,
		Radius: b.RadiusPx,
		Speed:  b.SpeedPxPerS,
		BPM:    b.BPM,
		Mirror: b.Mirror,
	}, nil
}

// Course converts the punch section into a course config with zones on the quarter points.
func (p PunchConfig) Course() (domain.PunchCourseConfig, error) {
	if p.CanvasWidth <= 0 || p.CanvasHeight <= 0 || p.BoxSizePx <= 0 {
		return domain.PunchCourseConfig{}, fmt.Errorf("%w: punch sizes must be positive", ErrInvalidConfig)
	}
	if len(p.HandIndices) == 0 {
		return domain.PunchCourseConfig{}, fmt.Errorf("%w: punch.hand_indices is empty", ErrInvalidConfig)
	}
	for _, idx := range p.HandIndices {
		if idx < 0 || idx >= domain.FrameSize {
			return domain.PunchCourseConfig{}, fmt.Errorf("%w: punch.hand_indices has out-of-range %d", ErrInvalidConfig, idx)
		}
	}
	if p.TargetHits < 0 {
		return domain.PunchCourseConfig{}, fmt.Errorf("%w: punch.target_hits must not be negative", ErrInvalidConfig)
	}
	return domain.PunchCourseConfig{
		Width:       p.CanvasWidth,
		Height:      p.CanvasHeight,
		Zones:       domain.QuarterZones(p.CanvasWidth, p.CanvasHeight, p.BoxSizePx),
		HandIndices: append([]int(nil), p.HandIndices...),
		TargetHits:  p.TargetHits,
		Mirror:      p.Mirror,
	}, nil
}

// TickInterval is the wall-clock length of one match tick.
func (c GameConfig) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}
