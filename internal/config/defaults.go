package config

import (
	_ "embed"

	"github.com/vovakirdan/beeball/internal/core"
)

//go:embed defaults/beeball.yaml
var defaultBeeballYAML []byte

// DefaultConfig returns the hard-coded configuration. It mirrors the
// embedded defaults/beeball.yaml.
func DefaultConfig() BeeballConfig {
	return BeeballConfig{
		Simulation: SimulationConfig{
			FPS:       100,
			BlockSize: 20,
		},
		Ball: BallConfig{
			Speed:           150,
			HyperMultiplier: 10,
			Box:             core.UniformBox(6),
			AnimFPS:         15,
			Frames:          []string{"bee1.bmp", "bee2.bmp"},
			Shadow:          "bee-shadow.bmp",
		},
		Paddle: PaddleConfig{
			KeySpeed: 250,
			Horizontal: PaddleShape{
				Box:    core.Box{Up: 3, Left: 20, Down: 3, Right: 20},
				Frame:  "hpaddle.bmp",
				Shadow: "hpaddle-shadow.bmp",
			},
			Vertical: PaddleShape{
				Box:    core.Box{Up: 20, Left: 3, Down: 20, Right: 3},
				Frame:  "vpaddle.bmp",
				Shadow: "vpaddle-shadow.bmp",
			},
		},
		PowerUp: PowerUpConfig{
			Speed:          50,
			SpawnPercent:   10,
			MaxBounces:     4,
			Box:            core.UniformBox(6),
			LaunchAngles:   []int{45, 135, 225, 315},
			DrillSeconds:   8,
			ScatterSeconds: 20,
			HyperSeconds:   5,
			BlastSeconds:   20,
		},
		Hole: HoleConfig{
			Box:         core.UniformBox(13),
			IdleFrames:  []string{"hole1.bmp"},
			ChompFPS:    8,
			ChompFrames: []string{"hole2.bmp", "hole3.bmp", "hole1.bmp"},
		},
		Capacity: CapacityConfig{
			Paddles:    10,
			Balls:      20,
			Holes:      20,
			PowerUps:   20,
			AnimFrames: 8,
			BlockTypes: 24,
		},
		Player: PlayerConfig{
			Lives: 5,
		},
		Canvas: CanvasConfig{
			Width:  640,
			Height: 480,
		},
		Assets: AssetsConfig{
			Paths: []string{"images", "data/images"},
		},
		Audio: AudioConfig{
			Enabled:    true,
			Volume:     0.5,
			SampleRate: 44100,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultBeeballYAML
}
