// Package config provides YAML-based game configuration loading and
// difficulty presets for the tanks arena.
package config

import "time"

// TanksConfig contains all tunables of the tank arena.
// Distances are world units; the terminal maps Arena.CellWidth x
// Arena.CellHeight world units onto one character cell.
type TanksConfig struct {
	Arena     ArenaConfig     `yaml:"arena"`
	Player    PlayerConfig    `yaml:"player"`
	Enemies   EnemyConfig     `yaml:"enemies"`
	Placement PlacementConfig `yaml:"placement"`
	Obstacles ObstacleConfig  `yaml:"obstacles"`
	Campaign  CampaignConfig  `yaml:"campaign"`
	Profiles  ProfilesConfig  `yaml:"profiles"`
	Effects   EffectsConfig   `yaml:"effects"`
}

// ArenaConfig defines how the terminal viewport maps to world space.
type ArenaConfig struct {
	CellWidth  float64 `yaml:"cell_width"`
	CellHeight float64 `yaml:"cell_height"`
	HUDRows    int     `yaml:"hud_rows"` // Rows reserved for the status line
}

// PlayerConfig defines the player tank.
type PlayerConfig struct {
	Width        float64       `yaml:"width"`
	Height       float64       `yaml:"height"`
	Speed        float64       `yaml:"speed"` // Units per tick
	ShotCooldown time.Duration `yaml:"shot_cooldown"`
	BulletSize   float64       `yaml:"bullet_size"`
	BulletSpeed  float64       `yaml:"bullet_speed"`
}

// EnemyConfig defines hostile tank behaviour shared by all profiles.
type EnemyConfig struct {
	EngagementRadius float64 `yaml:"engagement_radius"`
	BulletSize       float64 `yaml:"bullet_size"`
	BulletSpeed      float64 `yaml:"bullet_speed"`
	TrackPlayer      bool    `yaml:"track_player"` // Turn toward the player before firing
}

// PlacementConfig defines the layout generator limits.
type PlacementConfig struct {
	MaxAttempts int     `yaml:"max_attempts"`
	Halo        float64 `yaml:"halo"`        // Player spawn box multiplier
	AxisBuffer  float64 `yaml:"axis_buffer"` // Enemy distance from the player's axes
}

// ObstacleConfig defines obstacle visuals.
type ObstacleConfig struct {
	RotationRate float64 `yaml:"rotation_rate"` // Radians per tick
}

// CampaignConfig defines the level sequence.
type CampaignConfig struct {
	FinalLevel int `yaml:"final_level"`
}

// ProfilesConfig holds the per-platform difficulty adjustments.
type ProfilesConfig struct {
	Desktop     ProfileConfig `yaml:"desktop"`
	Constrained ProfileConfig `yaml:"constrained"`
}

// ProfileConfig adjusts the difficulty table for a platform profile.
// A zero ObstaclesPerLevel keeps the table's obstacle count; a zero
// EnemyDiscountPerLevel keeps the table's enemy count.
type ProfileConfig struct {
	EnemyCooldown         time.Duration `yaml:"enemy_cooldown"`
	ObstaclesPerLevel     int           `yaml:"obstacles_per_level"`
	EnemyDiscountPerLevel int           `yaml:"enemy_discount_per_level"`
	MinEnemies            int           `yaml:"min_enemies"`
}

// EffectsConfig defines transient visual effects.
type EffectsConfig struct {
	ExplosionTicks int `yaml:"explosion_ticks"`
}

// Profile names accepted on the command line.
const (
	ProfileDesktop     = "desktop"
	ProfileConstrained = "constrained"
)

// Profile returns the adjustments for the named profile.
// Unknown names fall back to the desktop profile.
func (c TanksConfig) Profile(name string) ProfileConfig {
	if name == ProfileConstrained {
		return c.Profiles.Constrained
	}
	return c.Profiles.Desktop
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)
