package tanks

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnemyAt(x, y float64) *Enemy {
	return &Enemy{Entity: Entity{Kind: KindEnemy, Desc: square(enemyImage, 40), X: x, Y: y, Visual: 1}}
}

func newPlayerAt(x, y float64) *Player {
	return &Player{Entity: Entity{Kind: KindPlayer, Desc: square(PlayerImage, 40), X: x, Y: y, Visual: 99}}
}

func TestFireCooldown(t *testing.T) {
	f := &FireController{Radius: 1000, Cooldown: 500 * time.Millisecond, BulletSpeed: 5, BulletSize: 10}
	enemy := newEnemyAt(100, 100)
	player := newPlayerAt(100, 300)
	t0 := time.Unix(1000, 0)

	shots := f.Fire(t0, []*Enemy{enemy}, player)
	require.Len(t, shots, 1, "zero last-fire time fires immediately")
	assert.True(t, shots[0].Hostile())
	assert.Equal(t, t0, enemy.LastFire)

	assert.Empty(t, f.Fire(t0.Add(100*time.Millisecond), []*Enemy{enemy}, player))
	assert.Empty(t, f.Fire(t0.Add(499*time.Millisecond), []*Enemy{enemy}, player))
	assert.Len(t, f.Fire(t0.Add(500*time.Millisecond), []*Enemy{enemy}, player), 1)
}

func TestFireRadiusIsStrict(t *testing.T) {
	f := &FireController{Radius: 1000, Cooldown: time.Second}
	player := newPlayerAt(0, 0)
	now := time.Unix(1000, 0)

	atEdge := newEnemyAt(1000, 0)
	inside := newEnemyAt(999, 0)
	far := newEnemyAt(3000, 4000)

	shots := f.Fire(now, []*Enemy{atEdge, inside, far}, player)
	require.Len(t, shots, 1)
	assert.Equal(t, 999.0, shots[0].X)
	assert.True(t, atEdge.LastFire.IsZero(), "out of range enemies keep their cooldown state")
	assert.True(t, far.LastFire.IsZero())
}

func TestFireSkipsEnemiesWithoutVisual(t *testing.T) {
	f := &FireController{Radius: 1000}
	enemy := newEnemyAt(100, 100)
	enemy.Visual = NoHandle

	assert.Empty(t, f.Fire(time.Unix(1000, 0), []*Enemy{enemy}, newPlayerAt(100, 200)))
}

func TestFireUsesEnemyHeading(t *testing.T) {
	f := &FireController{Radius: 1000, BulletSpeed: 5}
	enemy := newEnemyAt(100, 100)
	enemy.Rotation = math.Pi / 2

	shots := f.Fire(time.Unix(1000, 0), []*Enemy{enemy}, newPlayerAt(100, 300))
	require.Len(t, shots, 1)
	assert.Equal(t, math.Pi/2, shots[0].Heading)
}

func TestFireTracksPlayer(t *testing.T) {
	f := &FireController{Radius: 1000, BulletSpeed: 5, TrackPlayer: true}
	enemy := newEnemyAt(100, 100)

	shots := f.Fire(time.Unix(1000, 0), []*Enemy{enemy}, newPlayerAt(100, 300))
	require.Len(t, shots, 1)
	assert.InDelta(t, math.Pi, shots[0].Heading, 1e-9, "player straight below")
	assert.InDelta(t, math.Pi, enemy.Rotation, 1e-9)
}
