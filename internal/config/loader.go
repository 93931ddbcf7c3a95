package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the engine configuration.
// Search order: customPath -> ~/.maze/configs/engine.yaml -> ./configs/engine.yaml
// -> embedded default -> hard-coded default.
//
// Files only need to set the fields they change; everything else keeps its
// default. A customPath that cannot be read, parsed or validated is an error.
// Broken files at the implicit locations are skipped.
func Load(customPath string) (Engine, error) {
	if customPath != "" {
		return loadFile(customPath)
	}

	if userCfgPath := userConfigPath("engine.yaml"); userCfgPath != "" {
		if cfg, err := loadFile(userCfgPath); err == nil {
			return cfg, nil
		}
	}

	if cfg, err := loadFile(filepath.Join("configs", "engine.yaml")); err == nil {
		return cfg, nil
	}

	cfg, err := parse(defaultEngineYAML)
	if err != nil {
		return Default(), nil
	}
	return cfg, nil
}

func loadFile(path string) (Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Engine{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := parse(data)
	if err != nil {
		return Engine{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// parse overlays data on the defaults and validates the result.
func parse(data []byte) (Engine, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Engine{}, fmt.Errorf("failed to parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Engine{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".maze", "configs", filename)
}
