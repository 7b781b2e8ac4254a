package config

import (
	"strings"
	"time"
)

// ParsePreset maps a CLI value to a preset. Empty or unknown values
// return "" which keeps the config file's values.
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(strings.ToLower(s)) {
	case DifficultyEasy:
		return DifficultyEasy
	case DifficultyNormal:
		return DifficultyNormal
	case DifficultyHard:
		return DifficultyHard
	case DifficultyFixed:
		return DifficultyFixed
	}
	return ""
}

// cooldownPercent returns the enemy cooldown scale for a preset, in percent.
func cooldownPercent(preset DifficultyPreset) int64 {
	switch preset {
	case DifficultyEasy:
		return 200
	case DifficultyHard:
		return 60
	default:
		return 100
	}
}

// ApplyTanksPreset modifies the config based on a difficulty preset.
// Fixed and normal keep the configured values.
func ApplyTanksPreset(cfg *TanksConfig, preset DifficultyPreset) {
	scale := cooldownPercent(preset)
	cfg.Profiles.Desktop.EnemyCooldown = scaleDuration(cfg.Profiles.Desktop.EnemyCooldown, scale)
	cfg.Profiles.Constrained.EnemyCooldown = scaleDuration(cfg.Profiles.Constrained.EnemyCooldown, scale)

	// Adjust gameplay based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Player.ShotCooldown = cfg.Player.ShotCooldown / 2
	case DifficultyHard:
		cfg.Enemies.TrackPlayer = true
	}
}

func scaleDuration(d time.Duration, percent int64) time.Duration {
	return d * time.Duration(percent) / 100
}
