// Package config loads the tunable constants of the simulation from YAML.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/beeball/internal/core"
)

// BeeballConfig is the complete game configuration.
type BeeballConfig struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Ball       BallConfig       `yaml:"ball"`
	Paddle     PaddleConfig     `yaml:"paddle"`
	PowerUp    PowerUpConfig    `yaml:"powerup"`
	Hole       HoleConfig       `yaml:"hole"`
	Capacity   CapacityConfig   `yaml:"capacity"`
	Player     PlayerConfig     `yaml:"player"`
	Canvas     CanvasConfig     `yaml:"canvas"`
	Assets     AssetsConfig     `yaml:"assets"`
	Audio      AudioConfig      `yaml:"audio"`
}

// SimulationConfig holds the fixed timestep and the grid resolution.
type SimulationConfig struct {
	FPS       int `yaml:"fps"`        // Simulation ticks per second
	BlockSize int `yaml:"block_size"` // Pixels per grid cell
}

// BallConfig defines the bee.
type BallConfig struct {
	Speed           int      `yaml:"speed"`            // Pixels per second
	HyperMultiplier int      `yaml:"hyper_multiplier"` // Speed factor under Hyper
	Box             core.Box `yaml:"box"`
	AnimFPS         float64  `yaml:"anim_fps"`
	Frames          []string `yaml:"frames"`
	Shadow          string   `yaml:"shadow"`
}

// HyperSpeed returns the ball speed while Hyper is active.
func (b BallConfig) HyperSpeed() int {
	return b.Speed * b.HyperMultiplier
}

// PaddleConfig defines both paddle orientations.
type PaddleConfig struct {
	KeySpeed   float64     `yaml:"key_speed"` // Pixels per second while a key is held
	Horizontal PaddleShape `yaml:"horizontal"`
	Vertical   PaddleShape `yaml:"vertical"`
}

// PaddleShape is the hit-box and art of one paddle orientation.
type PaddleShape struct {
	Box    core.Box `yaml:"box"`
	Frame  string   `yaml:"frame"`
	Shadow string   `yaml:"shadow"`
}

// PowerUpConfig defines falling power-ups and their effects.
type PowerUpConfig struct {
	Speed          int      `yaml:"speed"`
	SpawnPercent   int      `yaml:"spawn_percent"` // Chance per destroyed block
	MaxBounces     int      `yaml:"max_bounces"`   // Border bounces before it may leave
	Box            core.Box `yaml:"box"`
	LaunchAngles   []int    `yaml:"launch_angles"` // Degrees, clockwise from north
	DrillSeconds   float64  `yaml:"drill_seconds"`
	ScatterSeconds float64  `yaml:"scatter_seconds"`
	HyperSeconds   float64  `yaml:"hyper_seconds"`
	BlastSeconds   float64  `yaml:"blast_seconds"`
}

// HoleConfig defines the bee traps.
type HoleConfig struct {
	Box         core.Box `yaml:"box"`
	IdleFrames  []string `yaml:"idle_frames"`
	ChompFPS    float64  `yaml:"chomp_fps"`
	ChompFrames []string `yaml:"chomp_frames"`
}

// CapacityConfig holds the hard limits of every collection.
type CapacityConfig struct {
	Paddles    int `yaml:"paddles"`
	Balls      int `yaml:"balls"`
	Holes      int `yaml:"holes"`
	PowerUps   int `yaml:"powerups"`
	AnimFrames int `yaml:"anim_frames"`
	BlockTypes int `yaml:"block_types"`
}

// PlayerConfig defines the player.
type PlayerConfig struct {
	Lives int `yaml:"lives"`
}

// CanvasConfig is the logical display size levels are designed for.
type CanvasConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// AssetsConfig lists directories searched for sprites, in order.
type AssetsConfig struct {
	Paths []string `yaml:"paths"`
}

// AudioConfig controls synthesized sound effects.
type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Volume     float64 `yaml:"volume"`      // 0..1
	SampleRate int     `yaml:"sample_rate"` // Hz
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset converts a flag value to a preset. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch DifficultyPreset(s) {
	case "", DifficultyNormal:
		return DifficultyNormal, nil
	case DifficultyEasy:
		return DifficultyEasy, nil
	case DifficultyHard:
		return DifficultyHard, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, normal or hard)", s)
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *BeeballConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Player.Lives = 7
		cfg.Ball.Speed = 120
		cfg.PowerUp.SpawnPercent = 15
	case DifficultyHard:
		cfg.Player.Lives = 3
		cfg.Ball.Speed = 200
		cfg.PowerUp.SpawnPercent = 5
	}
}

// Validate rejects configurations the simulation cannot run with.
func (c *BeeballConfig) Validate() error {
	var errs []error
	if c.Simulation.FPS <= 0 {
		errs = append(errs, fmt.Errorf("simulation.fps must be positive, got %d", c.Simulation.FPS))
	}
	if c.Simulation.BlockSize <= 0 {
		errs = append(errs, fmt.Errorf("simulation.block_size must be positive, got %d", c.Simulation.BlockSize))
	}
	if c.Ball.Speed <= 0 {
		errs = append(errs, fmt.Errorf("ball.speed must be positive, got %d", c.Ball.Speed))
	}
	if c.Ball.HyperMultiplier <= 0 {
		errs = append(errs, fmt.Errorf("ball.hyper_multiplier must be positive, got %d", c.Ball.HyperMultiplier))
	}
	if c.PowerUp.SpawnPercent < 0 || c.PowerUp.SpawnPercent > 100 {
		errs = append(errs, fmt.Errorf("powerup.spawn_percent must be within 0..100, got %d", c.PowerUp.SpawnPercent))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("audio.volume must be within 0..1, got %g", c.Audio.Volume))
	}
	if c.Audio.Enabled && c.Audio.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("audio.sample_rate must be positive, got %d", c.Audio.SampleRate))
	}
	if len(c.PowerUp.LaunchAngles) == 0 {
		errs = append(errs, errors.New("powerup.launch_angles must not be empty"))
	}
	boxes := []struct {
		name string
		box  core.Box
	}{
		{"ball.box", c.Ball.Box},
		{"powerup.box", c.PowerUp.Box},
		{"hole.box", c.Hole.Box},
		{"paddle.horizontal.box", c.Paddle.Horizontal.Box},
		{"paddle.vertical.box", c.Paddle.Vertical.Box},
	}
	for _, b := range boxes {
		if b.box.Up < 0 || b.box.Left < 0 || b.box.Down < 0 || b.box.Right < 0 {
			errs = append(errs, fmt.Errorf("%s margins must not be negative: %+v", b.name, b.box))
		}
	}
	return errors.Join(errs...)
}
