package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v, expected nil", err)
	}
}

func TestEmbeddedMatchesDefault(t *testing.T) {
	cfg, err := parse(defaultEngineYAML)
	if err != nil {
		t.Fatalf("parse(embedded) error = %v", err)
	}

	def := Default()
	if cfg.Screen != def.Screen {
		t.Errorf("embedded screen = %+v, expected %+v", cfg.Screen, def.Screen)
	}
	if math.Abs(cfg.Camera.FOV-def.Camera.FOV) > 1e-9 {
		t.Errorf("embedded fov = %v, expected %v", cfg.Camera.FOV, def.Camera.FOV)
	}
	if cfg.Camera.MaxDepth != def.Camera.MaxDepth || cfg.Camera.Step != def.Camera.Step {
		t.Errorf("embedded camera = %+v, expected %+v", cfg.Camera, def.Camera)
	}
	if cfg.Movement != def.Movement {
		t.Errorf("embedded movement = %+v, expected %+v", cfg.Movement, def.Movement)
	}
	if cfg.Glyphs != def.Glyphs {
		t.Errorf("embedded glyphs = %+v, expected %+v", cfg.Glyphs, def.Glyphs)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Engine)
		field  string
	}{
		{"zero width", func(e *Engine) { e.Screen.Width = 0 }, "screen.width"},
		{"negative height", func(e *Engine) { e.Screen.Height = -3 }, "screen.height"},
		{"zero fov", func(e *Engine) { e.Camera.FOV = 0 }, "camera.fov"},
		{"full circle fov", func(e *Engine) { e.Camera.FOV = 2 * math.Pi }, "camera.fov"},
		{"zero depth", func(e *Engine) { e.Camera.MaxDepth = 0 }, "camera.max_depth"},
		{"zero step", func(e *Engine) { e.Camera.Step = 0 }, "camera.step"},
		{"step above one cell", func(e *Engine) { e.Camera.Step = 1.5 }, "camera.step"},
		{"zero speed", func(e *Engine) { e.Movement.Speed = 0 }, "movement.speed"},
		{"negative rot speed", func(e *Engine) { e.Movement.RotSpeed = -0.1 }, "movement.rot_speed"},
		{"empty sky", func(e *Engine) { e.Glyphs.Sky = "" }, "glyphs.sky"},
		{"two rune wall", func(e *Engine) { e.Glyphs.Wall = "##" }, "glyphs.wall"},
		{"invalid utf8 floor", func(e *Engine) { e.Glyphs.Floor = "\xff" }, "glyphs.floor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, expected error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %T, expected *ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("ValidationError.Field = %q, expected %q", verr.Field, tt.field)
			}
		})
	}
}

func TestValidateMultibyteGlyph(t *testing.T) {
	cfg := Default()
	cfg.Glyphs.Wall = "█"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with block glyph = %v, expected nil", err)
	}

	_, wall, _ := cfg.Glyphs.Runes()
	if wall != '█' {
		t.Errorf("Runes() wall = %q, expected %q", wall, '█')
	}
}

func TestValidateReportsAll(t *testing.T) {
	cfg := Default()
	cfg.Screen.Width = 0
	cfg.Camera.Step = 0

	err := cfg.Validate()
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("Validate() = %T, expected joined errors", err)
	}
	if n := len(joined.Unwrap()); n != 2 {
		t.Errorf("Validate() reported %d problems, expected 2", n)
	}
}

func TestValidateRejectsNonFinite(t *testing.T) {
	cfg, err := parse([]byte("camera: { fov: .nan, step: .nan, max_depth: .inf }\nmovement: { speed: .nan, rot_speed: -.inf }\n"))
	if err == nil {
		t.Fatalf("parse() accepted NaN and Inf settings: %+v", cfg)
	}

	fields := map[string]bool{}
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var verr *ValidationError
		if errors.As(e, &verr) {
			fields[verr.Field] = true
		}
	}
	for _, f := range []string{"camera.fov", "camera.step", "camera.max_depth", "movement.speed", "movement.rot_speed"} {
		if !fields[f] {
			t.Errorf("Validate() did not report %s, got %v", f, fields)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	data := []byte("screen:\n  width: 120\ncamera:\n  step: 0.05\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Screen.Width != 120 {
		t.Errorf("Screen.Width = %d, expected 120", cfg.Screen.Width)
	}
	if cfg.Screen.Height != 24 {
		t.Errorf("Screen.Height = %d, expected default 24", cfg.Screen.Height)
	}
	if cfg.Camera.Step != 0.05 {
		t.Errorf("Camera.Step = %v, expected 0.05", cfg.Camera.Step)
	}
	if cfg.Camera.MaxDepth != 16 {
		t.Errorf("Camera.MaxDepth = %v, expected default 16", cfg.Camera.MaxDepth)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("camera:\n  step: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	broken := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(broken, []byte("screen: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing", filepath.Join(dir, "missing.yaml")},
		{"invalid values", invalid},
		{"malformed yaml", broken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.path); err == nil {
				t.Errorf("Load(%s) = nil error, expected failure", tt.name)
			}
		})
	}

	_, err := Load(invalid)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("Load(invalid) = %v, expected a ValidationError", err)
	}
}

func TestLoadWithoutFiles(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Load(\"\") returned invalid config: %v", err)
	}
}

func TestPace(t *testing.T) {
	tests := []struct {
		in       string
		expected PacePreset
		factor   float64
	}{
		{"", PaceNormal, 1},
		{"careful", PaceCareful, 0.5},
		{"normal", PaceNormal, 1},
		{"brisk", PaceBrisk, 3},
	}

	for _, tt := range tests {
		p, err := ParsePace(tt.in)
		if err != nil {
			t.Fatalf("ParsePace(%q) error = %v", tt.in, err)
		}
		if p != tt.expected {
			t.Errorf("ParsePace(%q) = %q, expected %q", tt.in, p, tt.expected)
		}

		cfg := Default()
		ApplyPace(&cfg, p)
		if got, want := cfg.Movement.Speed, 0.1*tt.factor; math.Abs(got-want) > 1e-12 {
			t.Errorf("ApplyPace(%q) speed = %v, expected %v", p, got, want)
		}
	}

	if _, err := ParsePace("sprint"); err == nil {
		t.Error("ParsePace(\"sprint\") = nil error, expected failure")
	}
}
