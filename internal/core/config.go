package core

// RuntimeConfig contains per-session settings decided by the platform layer.
// The engine constants (FOV, depth, speeds) live in config.Engine instead.
type RuntimeConfig struct {
	ScreenW int    // View width in characters
	ScreenH int    // View height in characters
	Player  string // Name recorded with finished runs
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW: 80,
		ScreenH: 24,
		Player:  "local",
	}
}
