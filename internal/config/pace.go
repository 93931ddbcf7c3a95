package config

import "fmt"

// PacePreset is a named movement speed.
type PacePreset string

const (
	PaceCareful PacePreset = "careful"
	PaceNormal  PacePreset = "normal"
	PaceBrisk   PacePreset = "brisk"
)

// Paces lists the presets in display order.
func Paces() []PacePreset {
	return []PacePreset{PaceCareful, PaceNormal, PaceBrisk}
}

// ParsePace returns the preset named s. The empty string means normal.
func ParsePace(s string) (PacePreset, error) {
	switch p := PacePreset(s); p {
	case "":
		return PaceNormal, nil
	case PaceCareful, PaceNormal, PaceBrisk:
		return p, nil
	}
	return "", fmt.Errorf("config: unknown pace %q (want careful, normal or brisk)", s)
}

// Multiplier returns the factor applied to speed and rot_speed.
func (p PacePreset) Multiplier() float64 {
	switch p {
	case PaceCareful:
		return 0.5
	case PaceBrisk:
		return 3.0
	default:
		return 1.0
	}
}

// ApplyPace scales the movement settings of cfg by the preset multiplier.
func ApplyPace(cfg *Engine, preset PacePreset) {
	m := preset.Multiplier()
	cfg.Movement.Speed *= m
	cfg.Movement.RotSpeed *= m
}
