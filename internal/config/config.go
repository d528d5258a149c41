// Package config provides YAML-based snake configuration loading, settings
// validation and difficulty management.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// Speed bounds in moves per second.
const (
	MinSpeed = 1
	MaxSpeed = 60
)

// ErrInvalidSettings is wrapped by every SettingsError.
var ErrInvalidSettings = errors.New("invalid settings")

// SettingsError names the field that failed validation.
type SettingsError struct {
	Field string
	Value int
}

func (e *SettingsError) Error() string {
	return fmt.Sprintf("config: invalid %s: %d", e.Field, e.Value)
}

func (e *SettingsError) Unwrap() error {
	return ErrInvalidSettings
}

// SnakeConfig contains all configuration for a snake session.
type SnakeConfig struct {
	Grid          GridConfig       `yaml:"grid"`
	Speed         int              `yaml:"speed"` // moves per second
	InitialLength int              `yaml:"initial_length"`
	WrapWalls     bool             `yaml:"wrap_walls"`
	Feast         bool             `yaml:"feast"`     // 3-5 foods of mixed worth
	PowerUps      bool             `yaml:"power_ups"` // Fast and Slow pick-ups
	Seed          uint64           `yaml:"seed"` // 0 picks a seed at startup
	Difficulty    DifficultyConfig `yaml:"difficulty"`
}

// GridConfig is the playfield size in cells.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Size converts the grid to the engine's value type.
func (g GridConfig) Size() core.GridSize {
	return core.GridSize{Width: g.Width, Height: g.Height}
}

// Validate reports the first out-of-range field.
func (c SnakeConfig) Validate() error {
	if c.Grid.Width <= 0 {
		return &SettingsError{Field: "grid width", Value: c.Grid.Width}
	}
	if c.Grid.Height <= 0 {
		return &SettingsError{Field: "grid height", Value: c.Grid.Height}
	}
	if c.Speed < MinSpeed || c.Speed > MaxSpeed {
		return &SettingsError{Field: "speed", Value: c.Speed}
	}
	// The snake spawns at the center, trails to the left and needs one
	// free cell for food.
	if c.InitialLength < 1 || c.InitialLength > c.Grid.Width/2+1 ||
		c.InitialLength >= c.Grid.Width*c.Grid.Height {
		return &SettingsError{Field: "initial length", Value: c.InitialLength}
	}
	return nil
}

// WithGrid returns a copy with a new grid size.
func (c SnakeConfig) WithGrid(width, height int) (SnakeConfig, error) {
	c.Grid = GridConfig{Width: width, Height: height}
	return c, c.Validate()
}

// WithSpeed returns a copy with a new speed.
func (c SnakeConfig) WithSpeed(speed int) (SnakeConfig, error) {
	c.Speed = speed
	return c, c.Validate()
}

// WithInitialLength returns a copy with a new initial snake length.
func (c SnakeConfig) WithInitialLength(n int) (SnakeConfig, error) {
	c.InitialLength = n
	return c, c.Validate()
}

// WithWrapWalls returns a copy with wrapping switched on or off.
func (c SnakeConfig) WithWrapWalls(wrap bool) (SnakeConfig, error) {
	c.WrapWalls = wrap
	return c, c.Validate()
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Multiplier added to speed at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset accepts a preset name, case-insensitively.
func ParsePreset(s string) (DifficultyPreset, error) {
	p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	}
	return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
