package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/tanks.yaml
var defaultTanksYAML []byte

// DefaultTanksConfig returns the default arena configuration.
func DefaultTanksConfig() TanksConfig {
	return TanksConfig{
		Arena: ArenaConfig{
			CellWidth:  10,
			CellHeight: 20,
			HUDRows:    1,
		},
		Player: PlayerConfig{
			Width:        40,
			Height:       40,
			Speed:        4,
			ShotCooldown: 800 * time.Millisecond,
			BulletSize:   20,
			BulletSpeed:  5,
		},
		Enemies: EnemyConfig{
			EngagementRadius: 1000,
			BulletSize:       10,
			BulletSpeed:      5,
			TrackPlayer:      false,
		},
		Placement: PlacementConfig{
			MaxAttempts: 100,
			Halo:        3,
			AxisBuffer:  50,
		},
		Obstacles: ObstacleConfig{
			RotationRate: 0.02,
		},
		Campaign: CampaignConfig{
			FinalLevel: 5,
		},
		Profiles: ProfilesConfig{
			Desktop: ProfileConfig{
				EnemyCooldown: 500 * time.Millisecond,
				MinEnemies:    1,
			},
			Constrained: ProfileConfig{
				EnemyCooldown:         2500 * time.Millisecond,
				ObstaclesPerLevel:     3,
				EnemyDiscountPerLevel: 2,
				MinEnemies:            1,
			},
		},
		Effects: EffectsConfig{
			ExplosionTicks: 18,
		},
	}
}
