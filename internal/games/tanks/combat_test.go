package tanks

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tanks/internal/core"
)

func newObstacleAt(x, y, size float64) *Entity {
	return &Entity{Kind: KindObstacle, Desc: square(rockImage, size), X: x, Y: y, Visual: 7}
}

func newTestCombat(p *fakePresenter, obstacles []*Entity, enemies []*Enemy, target int) *Combat {
	return NewCombat(core.NewRect(0, 0, 800, 600), newPlayerAt(700, 500), obstacles, enemies, nil, p, target)
}

func TestIntersectsIsSymmetricAndStrict(t *testing.T) {
	a := core.NewRect(0, 0, 10, 10)
	boxes := []core.Rect{
		core.NewRect(5, 5, 10, 10),
		core.NewRect(10, 0, 10, 10), // shares the right edge
		core.NewRect(0, 10, 10, 10), // shares the bottom edge
		core.NewRect(10, 10, 5, 5),  // shares a corner
		core.NewRect(-5, -5, 30, 30),
		core.NewRect(20, 20, 5, 5),
	}
	want := []bool{true, false, false, false, true, false}

	for i, b := range boxes {
		assert.Equal(t, want[i], a.Intersects(b), "box %d", i)
		assert.Equal(t, a.Intersects(b), b.Intersects(a), "box %d symmetry", i)
	}
}

// A hostile projectile at (100,100) heading down at speed 5 meets an
// obstacle box at (90,190,20,20) and is retired before reaching y=300.
func TestProjectileRetiredByObstacle(t *testing.T) {
	p := newFakePresenter()
	obstacle := newObstacleAt(100, 200, 20)
	require.Equal(t, core.NewRect(90, 190, 20, 20), obstacle.Box())

	c := newTestCombat(p, []*Entity{obstacle}, nil, 1)
	c.Spawn(NewProjectile(100, 100, math.Pi, 5, 10, OwnerHostile))

	now := time.Unix(1000, 0)
	hitTick := 0
	for tick := 1; tick <= 40 && hitTick == 0; tick++ {
		res := c.Tick(now)
		assert.Equal(t, OutcomeNone, res.Outcome)
		if len(p.effects) > 0 {
			hitTick = tick
		}
	}

	require.NotZero(t, hitTick, "projectile never hit the obstacle")
	assert.LessOrEqual(t, hitTick, 20)
	assert.Empty(t, c.Projectiles)
	require.Len(t, p.effects, 1)
	assert.Equal(t, EffectImpact, p.effects[0].Kind)
	assert.Less(t, p.effects[0].Y, 300.0)
	assert.InDelta(t, 100, p.effects[0].X, 1e-9)
}

func TestProjectileReachesTwoHundred(t *testing.T) {
	c := newTestCombat(newFakePresenter(), nil, nil, 1)
	shot := NewProjectile(100, 100, math.Pi, 5, 10, OwnerHostile)
	c.Spawn(shot)

	for range 20 {
		c.Tick(time.Unix(1000, 0))
	}
	require.Len(t, c.Projectiles, 1)
	assert.InDelta(t, 100, shot.X, 1e-9)
	assert.InDelta(t, 200, shot.Y, 1e-9)
}

func TestObstacleWinsOverEnemy(t *testing.T) {
	p := newFakePresenter()
	obstacle := newObstacleAt(100, 100, 40)
	enemy := newEnemyAt(110, 100)
	c := newTestCombat(p, []*Entity{obstacle}, []*Enemy{enemy}, 1)
	c.Spawn(NewProjectile(105, 100, 0, 0, 10, OwnerFriendly))

	res := c.Tick(time.Unix(1000, 0))

	assert.Equal(t, OutcomeNone, res.Outcome)
	assert.Zero(t, c.Kills())
	assert.Len(t, c.Enemies, 1)
	assert.Empty(t, c.Projectiles)
	require.Len(t, p.effects, 1)
	assert.Equal(t, EffectImpact, p.effects[0].Kind)
}

func TestFriendlyProjectileKillsFirstEnemy(t *testing.T) {
	p := newFakePresenter()
	first := newEnemyAt(100, 100)
	second := newEnemyAt(110, 100)
	second.Visual = 2
	c := newTestCombat(p, nil, []*Enemy{first, second}, 2)
	p.live[first.Visual] = first.Desc
	p.live[second.Visual] = second.Desc

	c.Spawn(NewProjectile(105, 100, 0, 0, 10, OwnerFriendly))
	res := c.Tick(time.Unix(1000, 0))

	assert.Equal(t, 1, res.Kills)
	assert.Equal(t, 1, c.Kills())
	require.Len(t, c.Enemies, 1)
	assert.Same(t, second, c.Enemies[0])
	assert.Equal(t, NoHandle, first.Visual)
	assert.Equal(t, []SoundKind{SoundExplosion}, p.sounds)
	require.Len(t, p.effects, 1)
	assert.Equal(t, EffectExplosion, p.effects[0].Kind)
	assert.Equal(t, 1, p.removed)
	assert.Empty(t, c.Projectiles)
}

func TestHostileProjectileEndsTick(t *testing.T) {
	p := newFakePresenter()
	enemy := newEnemyAt(100, 100)
	c := newTestCombat(p, nil, []*Enemy{enemy}, 1)
	c.Spawn(NewProjectile(700, 500, 0, 0, 10, OwnerHostile))
	c.Spawn(NewProjectile(100, 100, 0, 0, 10, OwnerFriendly))

	res := c.Tick(time.Unix(1000, 0))

	assert.Equal(t, OutcomeDefeat, res.Outcome)
	assert.Equal(t, CauseShot, res.Cause)
	assert.Zero(t, c.Kills(), "processing stops at the defeat")
	assert.Len(t, c.Enemies, 1)
}

func TestHostileProjectileIgnoresEnemies(t *testing.T) {
	enemy := newEnemyAt(100, 100)
	c := newTestCombat(newFakePresenter(), nil, []*Enemy{enemy}, 1)
	c.Spawn(NewProjectile(100, 100, 0, 0, 10, OwnerHostile))

	res := c.Tick(time.Unix(1000, 0))

	assert.Equal(t, OutcomeNone, res.Outcome)
	assert.Len(t, c.Enemies, 1)
	assert.Len(t, c.Projectiles, 1)
}

func TestPlayerCollisions(t *testing.T) {
	t.Run("obstacle", func(t *testing.T) {
		c := newTestCombat(newFakePresenter(), []*Entity{newObstacleAt(690, 500, 40)}, nil, 1)
		res := c.Tick(time.Unix(1000, 0))
		assert.Equal(t, OutcomeDefeat, res.Outcome)
		assert.Equal(t, CauseObstacle, res.Cause)
	})

	t.Run("enemy", func(t *testing.T) {
		c := newTestCombat(newFakePresenter(), nil, []*Enemy{newEnemyAt(720, 510)}, 1)
		res := c.Tick(time.Unix(1000, 0))
		assert.Equal(t, OutcomeDefeat, res.Outcome)
		assert.Equal(t, CauseRammed, res.Cause)
	})

	t.Run("touching edges", func(t *testing.T) {
		c := newTestCombat(newFakePresenter(), []*Entity{newObstacleAt(740, 500, 40)}, nil, 1)
		res := c.Tick(time.Unix(1000, 0))
		assert.Equal(t, OutcomeNone, res.Outcome)
	})

	t.Run("obstacle without visual", func(t *testing.T) {
		o := newObstacleAt(700, 500, 40)
		o.Visual = NoHandle
		c := newTestCombat(newFakePresenter(), []*Entity{o}, nil, 1)
		res := c.Tick(time.Unix(1000, 0))
		assert.Equal(t, OutcomeNone, res.Outcome)
	})
}

func TestEnemiesFireDuringTick(t *testing.T) {
	enemy := newEnemyAt(100, 100)
	c := newTestCombat(newFakePresenter(), nil, []*Enemy{enemy}, 1)
	c.Fire = &FireController{Radius: 1000, Cooldown: time.Second, BulletSpeed: 5, BulletSize: 10}

	c.Tick(time.Unix(1000, 0))
	require.Len(t, c.Projectiles, 1)
	assert.True(t, c.Projectiles[0].Hostile())

	c.Tick(time.Unix(1000, 0).Add(100 * time.Millisecond))
	assert.Len(t, c.Projectiles, 1, "cooldown holds the second shot")
}

func TestVictoryWhenTargetReached(t *testing.T) {
	c := newTestCombat(newFakePresenter(), nil, []*Enemy{newEnemyAt(100, 100)}, 1)
	assert.Equal(t, OutcomeNone, c.Tick(time.Unix(1000, 0)).Outcome)

	c.Spawn(NewProjectile(100, 100, 0, 0, 10, OwnerFriendly))
	res := c.Tick(time.Unix(1000, 0))
	assert.Equal(t, OutcomeVictory, res.Outcome)
	assert.Equal(t, 1, c.Kills())
}

func TestZeroTargetIsImmediateVictory(t *testing.T) {
	c := newTestCombat(newFakePresenter(), nil, nil, 0)
	assert.Equal(t, OutcomeVictory, c.Tick(time.Unix(1000, 0)).Outcome)
}

func TestOutcomeString(t *testing.T) {
	tests := []struct {
		outcome Outcome
		want    string
	}{
		{OutcomeNone, "none"},
		{OutcomeDefeat, "defeat"},
		{OutcomeVictory, "victory"},
		{OutcomeAbandoned, "abandoned"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.outcome.String())
	}
}
