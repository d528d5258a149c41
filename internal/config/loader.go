package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// LoadSnake loads snake configuration.
// Search order: customPath -> ~/.snake/configs/snake.yaml -> ./configs/snake.yaml -> embedded default
//
// Files are decoded over the defaults, so a file may set only the keys it
// cares about. A custom path that is missing or invalid is an error; the
// other locations are skipped when unreadable or invalid.
func LoadSnake(customPath string) (SnakeConfig, error) {
	if customPath != "" {
		cfg, err := readSnake(customPath)
		if err != nil {
			return DefaultSnakeConfig(), err
		}
		return cfg, nil
	}

	if userCfgPath := userConfigPath("snake.yaml"); userCfgPath != "" {
		if cfg, err := readSnake(userCfgPath); err == nil {
			return cfg, nil
		}
	}

	if cfg, err := readSnake(filepath.Join("configs", "snake.yaml")); err == nil {
		return cfg, nil
	}

	cfg, err := decodeSnake(defaultSnakeYAML)
	if err != nil {
		return DefaultSnakeConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

func readSnake(path string) (SnakeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SnakeConfig{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := decodeSnake(data)
	if err != nil {
		return SnakeConfig{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func decodeSnake(data []byte) (SnakeConfig, error) {
	cfg := DefaultSnakeConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// SaveSnake writes cfg as YAML, creating parent directories.
func SaveSnake(path string, cfg SnakeConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".snake", "configs", filename)
}

// UserConfigPath is where SaveSnake writes by default.
func UserConfigPath() string {
	return userConfigPath("snake.yaml")
}

// ApplySnakePreset modifies the config based on a difficulty preset.
func ApplySnakePreset(cfg *SnakeConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	switch preset {
	case DifficultyEasy:
		cfg.Difficulty.Scaling.SpeedMultiplier = 0.5
	case DifficultyHard:
		cfg.Difficulty.Scaling.SpeedMultiplier = 1.5
	}
}

// Store holds the current settings and only accepts valid replacements.
type Store struct {
	mu  sync.RWMutex
	cfg SnakeConfig
}

// NewStore validates cfg and wraps it.
func NewStore(cfg SnakeConfig) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Store{cfg: cfg}, nil
}

// Get returns a copy of the current settings.
func (s *Store) Get() SnakeConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Update replaces the settings. Invalid settings leave the store unchanged.
func (s *Store) Update(cfg SnakeConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	return nil
}
