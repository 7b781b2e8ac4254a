package tanks

import (
	"math"
	"time"

	"github.com/vovakirdan/tui-tanks/internal/core"
)

// DefaultEngagementRadius is the distance under which enemies open fire.
const DefaultEngagementRadius = 1000

// FireController decides each tick which enemies shoot.
type FireController struct {
	Radius      float64       // Strict: enemies at exactly Radius hold fire
	Cooldown    time.Duration // Minimum interval between shots of one enemy
	BulletSpeed float64
	BulletSize  float64
	TrackPlayer bool // Turn toward the player before firing
}

// Fire returns the projectiles spawned by enemies this tick and updates
// their cooldown state. Enemies without a visual never fire.
func (f *FireController) Fire(now time.Time, enemies []*Enemy, player *Player) []*Projectile {
	var shots []*Projectile
	for _, e := range enemies {
		if !e.Hittable() {
			continue
		}
		if core.Dist(e.X, e.Y, player.X, player.Y) >= f.Radius {
			continue
		}
		if now.Sub(e.LastFire) < f.Cooldown {
			continue
		}

		if f.TrackPlayer {
			e.Rotation = headingTo(e.X, e.Y, player.X, player.Y)
		}
		shots = append(shots, NewProjectile(e.X, e.Y, e.Rotation, f.BulletSpeed, f.BulletSize, OwnerHostile))
		e.LastFire = now
	}
	return shots
}

// headingTo returns the heading (0 = up, clockwise) from one point to another.
func headingTo(fromX, fromY, toX, toY float64) float64 {
	return math.Atan2(toY-fromY, toX-fromX) + math.Pi/2
}
