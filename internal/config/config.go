// Package config provides YAML-based engine configuration loading and
// validation for the maze.
package config

import (
	"errors"
	"fmt"
	"math"
	"unicode/utf8"
)

// Engine holds every tunable constant of the renderer and movement model.
type Engine struct {
	Screen   ScreenConfig   `yaml:"screen"`
	Camera   CameraConfig   `yaml:"camera"`
	Movement MovementConfig `yaml:"movement"`
	Glyphs   GlyphConfig    `yaml:"glyphs"`
}

// ScreenConfig is the size of the rendered frame in characters.
type ScreenConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// CameraConfig defines the ray caster.
type CameraConfig struct {
	FOV      float64 `yaml:"fov"`       // radians
	MaxDepth float64 `yaml:"max_depth"` // cells
	Step     float64 `yaml:"step"`      // cells per march sample
}

// MovementConfig defines how far one command moves or turns the player.
type MovementConfig struct {
	Speed    float64 `yaml:"speed"`
	RotSpeed float64 `yaml:"rot_speed"`
}

// GlyphConfig holds the characters of the three column bands.
// Each value must be exactly one rune.
type GlyphConfig struct {
	Sky   string `yaml:"sky"`
	Wall  string `yaml:"wall"`
	Floor string `yaml:"floor"`
}

// Runes returns the band glyphs as runes. Call Validate first;
// an invalid entry yields utf8.RuneError.
func (g GlyphConfig) Runes() (sky, wall, floor rune) {
	return firstRune(g.Sky), firstRune(g.Wall), firstRune(g.Floor)
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

// ValidationError reports a configuration field with an unusable value.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s = %v: %s", e.Field, e.Value, e.Reason)
}

// Validate checks the configuration and returns every problem found,
// joined with errors.Join. Each problem is a *ValidationError.
func (e Engine) Validate() error {
	var errs []error
	fail := func(field string, value any, reason string) {
		errs = append(errs, &ValidationError{Field: field, Value: value, Reason: reason})
	}

	if e.Screen.Width <= 0 {
		fail("screen.width", e.Screen.Width, "must be positive")
	}
	if e.Screen.Height <= 0 {
		fail("screen.height", e.Screen.Height, "must be positive")
	}

	if !finite(e.Camera.FOV) || e.Camera.FOV <= 0 || e.Camera.FOV >= 2*math.Pi {
		fail("camera.fov", e.Camera.FOV, "must be within (0, 2pi)")
	}
	if !finite(e.Camera.MaxDepth) || e.Camera.MaxDepth <= 0 {
		fail("camera.max_depth", e.Camera.MaxDepth, "must be a positive number")
	}
	if !finite(e.Camera.Step) || e.Camera.Step <= 0 || e.Camera.Step > 1 {
		fail("camera.step", e.Camera.Step, "must be within (0, 1]")
	}

	if !finite(e.Movement.Speed) || e.Movement.Speed <= 0 {
		fail("movement.speed", e.Movement.Speed, "must be a positive number")
	}
	if !finite(e.Movement.RotSpeed) || e.Movement.RotSpeed <= 0 {
		fail("movement.rot_speed", e.Movement.RotSpeed, "must be a positive number")
	}

	for _, g := range []struct{ field, value string }{
		{"glyphs.sky", e.Glyphs.Sky},
		{"glyphs.wall", e.Glyphs.Wall},
		{"glyphs.floor", e.Glyphs.Floor},
	} {
		if utf8.RuneCountInString(g.value) != 1 || firstRune(g.value) == utf8.RuneError {
			fail(g.field, fmt.Sprintf("%q", g.value), "must be exactly one character")
		}
	}

	return errors.Join(errs...)
}

// finite reports whether v is neither NaN nor infinite.
// NaN compares false against every bound, so range checks alone let it through.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
