package config

import (
	_ "embed"
	"math"
)

//go:embed defaults/engine.yaml
var defaultEngineYAML []byte

// Default returns the hard-coded engine configuration.
func Default() Engine {
	return Engine{
		Screen: ScreenConfig{
			Width:  80,
			Height: 24,
		},
		Camera: CameraConfig{
			FOV:      math.Pi / 4,
			MaxDepth: 16,
			Step:     0.1,
		},
		Movement: MovementConfig{
			Speed:    0.1,
			RotSpeed: 0.1,
		},
		Glyphs: GlyphConfig{
			Sky:   " ",
			Wall:  "#",
			Floor: ".",
		},
	}
}
