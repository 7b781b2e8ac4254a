package tanks

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tanks/internal/config"
	"github.com/vovakirdan/tui-tanks/internal/core"
	"github.com/vovakirdan/tui-tanks/internal/games/tanks/data"
)

func defaultLevels() *data.Pack {
	return testPack(
		data.Difficulty{Level: 1, ObstacleCount: 2, EnemyTanksCount: 3},
		data.Difficulty{Level: 2, ObstacleCount: 3, EnemyTanksCount: 3},
	)
}

// killNext puts a stationary friendly projectile on the first enemy.
func killNext(s *Session) {
	c := s.Combat()
	e := c.Enemies[0]
	c.Spawn(NewProjectile(e.X, e.Y, 0, 0, 10, OwnerFriendly))
}

// crash moves the first obstacle onto the player.
func crash(s *Session) {
	c := s.Combat()
	c.Obstacles[0].X, c.Obstacles[0].Y = c.Player.X, c.Player.Y
}

func TestSessionStartsFresh(t *testing.T) {
	f, err := newFixture(testConfig(), defaultLevels(), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, f.session.Level())
	assert.Equal(t, 0, f.session.Deaths())
	assert.Equal(t, StateIdle, f.session.State())
}

func TestSessionResumesPersistedProgress(t *testing.T) {
	progress := MemoryProgress{KeyLevel: 2, KeyDeaths: 4}
	f, err := newFixture(testConfig(), defaultLevels(), progress)
	require.NoError(t, err)

	// Progress is read once at start.
	progress[KeyLevel] = 1
	assert.Equal(t, 2, f.session.Level())
	assert.Equal(t, 4, f.session.Deaths())
}

func TestSessionSetup(t *testing.T) {
	f, err := newFixture(testConfig(), defaultLevels(), nil)
	require.NoError(t, err)
	require.NoError(t, f.session.Setup())

	s := f.session
	c := s.Combat()
	require.NotNil(t, c)
	assert.Equal(t, StateActive, s.State())
	assert.Equal(t, []int{1}, f.lifecycle.starts)
	assert.Zero(t, s.Kills())
	assert.Len(t, c.Obstacles, 2)
	assert.Len(t, c.Enemies, 3)
	assert.Equal(t, 3, s.Target())
	assert.Equal(t, 6, f.presenter.spawned, "obstacles, enemies and the player")

	for _, e := range c.Enemies {
		for _, o := range c.Obstacles {
			assert.False(t, e.Box().Intersects(o.Box()), "enemy placed on an obstacle")
		}
		assert.False(t, e.Box().Intersects(c.Player.Box()))
	}
	for _, o := range c.Obstacles {
		assert.False(t, o.Box().Intersects(c.Player.Box()))
	}

	assert.Error(t, s.Setup(), "setup while active")
}

func TestSessionEnemySides(t *testing.T) {
	f, err := newFixture(testConfig(), defaultLevels(), nil)
	require.NoError(t, err)
	require.NoError(t, f.session.Setup())

	sides := map[data.Side]int{}
	for _, e := range f.session.Combat().Enemies {
		sides[e.Side]++
	}
	assert.Equal(t, map[data.Side]int{data.SideLeft: 1, data.SideCenter: 1, data.SideRight: 1}, sides)
}

func TestSessionLevelNotFound(t *testing.T) {
	f, err := newFixture(testConfig(), defaultLevels(), MemoryProgress{KeyLevel: 7})
	require.NoError(t, err)

	err = f.session.Setup()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLevelNotFound))
	assert.Equal(t, StateIdle, f.session.State())
	assert.Nil(t, f.session.Combat())
	assert.Zero(t, f.presenter.spawned)
}

func TestSessionAssetFailureIsIsolated(t *testing.T) {
	pack := defaultLevels()
	pack.Enemies[data.SideLeft] = repeat(square(brokenImage, 40), 5)

	f, err := newFixture(testConfig(), pack, nil, brokenImage)
	require.NoError(t, err)
	require.NoError(t, f.session.Setup())

	c := f.session.Combat()
	require.Len(t, c.Enemies, 3)
	hittable := 0
	for _, e := range c.Enemies {
		if e.Desc.Image == brokenImage {
			assert.False(t, e.Hittable())
			continue
		}
		assert.True(t, e.Hittable())
		hittable++
	}
	assert.Equal(t, 2, hittable)
	assert.Equal(t, 2, f.session.Target(), "enemies without visuals do not count toward the target")
}

// Destroying the last of N enemies reaches victory exactly once.
func TestSessionVictoryOnce(t *testing.T) {
	f, err := newFixture(testConfig(), defaultLevels(), nil)
	require.NoError(t, err)
	require.NoError(t, f.session.Setup())
	s := f.session

	for i := 0; i < 2; i++ {
		killNext(s)
		assert.Equal(t, OutcomeNone, s.Step(Intent{}))
		assert.Equal(t, i+1, s.Kills())
		assert.Empty(t, f.lifecycle.victories)
	}

	killNext(s)
	assert.Equal(t, OutcomeVictory, s.Step(Intent{}))
	assert.Equal(t, StateVictory, s.State())

	for range 5 {
		assert.Equal(t, OutcomeNone, s.Step(Intent{}))
	}
	require.Len(t, f.lifecycle.victories, 1)
	assert.False(t, f.lifecycle.victories[0].Final)

	assert.Equal(t, 2, f.progress[KeyLevel], "resume point persisted")
	assert.Equal(t, 1, s.Level(), "level advances only through the continuation")
	assert.Empty(t, f.presenter.live)

	a, ok := s.TakeAttempt()
	require.True(t, ok)
	assert.Equal(t, OutcomeVictory, a.Outcome)
	assert.Equal(t, "victory", a.Label())
	assert.Equal(t, 3, a.Kills)
	assert.Equal(t, 3, a.Target)
	_, ok = s.TakeAttempt()
	assert.False(t, ok)

	require.NoError(t, f.lifecycle.victories[0].Next())
	assert.Equal(t, 2, s.Level())
	assert.Equal(t, StateActive, s.State())
	assert.Equal(t, []int{1, 2}, f.lifecycle.starts)

	assert.Error(t, f.lifecycle.victories[0].Next(), "continuations run once")
}

func TestSessionFinalVictory(t *testing.T) {
	cfg := testConfig()
	cfg.Campaign.FinalLevel = 2
	progress := MemoryProgress{KeyLevel: 2, KeyDeaths: 3}
	f, err := newFixture(cfg, defaultLevels(), progress)
	require.NoError(t, err)
	require.NoError(t, f.session.Setup())
	s := f.session

	for s.State() == StateActive {
		killNext(s)
		s.Step(Intent{})
	}

	require.Len(t, f.lifecycle.victories, 1)
	assert.True(t, f.lifecycle.victories[0].Final)
	assert.Equal(t, 2, progress[KeyLevel], "no resume point beyond the final level")

	a, ok := s.LastAttempt()
	require.True(t, ok)
	assert.Equal(t, "campaign_complete", a.Label())

	require.NoError(t, f.lifecycle.victories[0].Next())
	assert.Empty(t, progress, "return to menu clears progress")
	assert.Equal(t, 1, s.Level())
	assert.Equal(t, 0, s.Deaths())
	assert.Equal(t, StateIdle, s.State())
}

// A lethal obstacle collision adds exactly one death and keeps the level.
func TestSessionDefeatByObstacle(t *testing.T) {
	progress := MemoryProgress{KeyLevel: 2, KeyDeaths: 4}
	f, err := newFixture(testConfig(), defaultLevels(), progress)
	require.NoError(t, err)
	require.NoError(t, f.session.Setup())
	s := f.session

	crash(s)
	assert.Equal(t, OutcomeDefeat, s.Step(Intent{}))

	assert.Equal(t, StateDefeat, s.State())
	assert.Equal(t, 5, progress[KeyDeaths])
	assert.Equal(t, 2, progress[KeyLevel])
	assert.Equal(t, 5, s.Deaths())
	assert.Equal(t, 2, s.Level())
	require.Len(t, f.lifecycle.defeats, 1)
	assert.Empty(t, f.presenter.live)
	assert.Nil(t, s.Combat())

	a, ok := s.TakeAttempt()
	require.True(t, ok)
	assert.Equal(t, OutcomeDefeat, a.Outcome)
	assert.Equal(t, CauseObstacle, a.Cause)
	assert.Equal(t, 5, a.Deaths)

	assert.Equal(t, OutcomeNone, s.Step(Intent{}), "no tick after defeat")
	assert.Len(t, f.lifecycle.defeats, 1)

	require.NoError(t, f.lifecycle.defeats[0]())
	assert.Equal(t, StateActive, s.State())
	assert.Equal(t, 2, s.Level())
	assert.Zero(t, s.Kills())
}

func TestSessionResizeKeepsLevelArena(t *testing.T) {
	f, err := newFixture(testConfig(), defaultLevels(), nil)
	require.NoError(t, err)
	require.NoError(t, f.session.Setup())
	s := f.session

	// Clear the way so only the arena edge stops the player.
	c := s.Combat()
	c.Obstacles = nil
	c.Enemies = nil

	s.SetArena(core.NewRect(0, 0, 2000, 600))
	for range 400 {
		require.Equal(t, OutcomeNone, s.Step(Intent{Right: true}))
	}

	assert.Equal(t, 800.0, c.Arena.Right())
	assert.InDelta(t, c.Arena.Right(), c.Player.Box().Right(), 1e-9, "player stops at the level's arena")
	assert.Equal(t, StateActive, s.State())

	// The new size applies from the next setup.
	s.Abandon()
	require.NoError(t, s.Setup())
	assert.Equal(t, 2000.0, s.Combat().Arena.Right())
}

func TestSessionTeardownIsIdempotent(t *testing.T) {
	f, err := newFixture(testConfig(), defaultLevels(), nil)
	require.NoError(t, err)
	require.NoError(t, f.session.Setup())
	killNext(f.session)

	f.session.Teardown()
	f.session.Teardown()

	assert.Empty(t, f.presenter.live)
	assert.Equal(t, f.presenter.spawned, f.presenter.removed)
	assert.Zero(t, f.presenter.badRemove, "each visual removed once")
	assert.Equal(t, 1, f.presenter.cleared)
	assert.Nil(t, f.session.Combat())
	assert.Equal(t, StateIdle, f.session.State())
}

func TestSessionAbandonKeepsProgress(t *testing.T) {
	progress := MemoryProgress{KeyLevel: 2, KeyDeaths: 1}
	f, err := newFixture(testConfig(), defaultLevels(), progress)
	require.NoError(t, err)
	require.NoError(t, f.session.Setup())

	f.session.Abandon()

	assert.Equal(t, StateIdle, f.session.State())
	assert.Equal(t, MemoryProgress{KeyLevel: 2, KeyDeaths: 1}, progress)
	a, ok := f.session.TakeAttempt()
	require.True(t, ok)
	assert.Equal(t, "abandoned", a.Label())
	assert.Empty(t, f.lifecycle.defeats)
	assert.Empty(t, f.lifecycle.victories)
}

func TestSessionRestartWhileActive(t *testing.T) {
	f, err := newFixture(testConfig(), defaultLevels(), nil)
	require.NoError(t, err)
	require.NoError(t, f.session.Setup())

	assert.Error(t, f.session.Restart())
	assert.Error(t, f.session.AdvanceLevel())
}

func TestSessionLayoutSnapshot(t *testing.T) {
	f, err := newFixture(testConfig(), defaultLevels(), nil)
	require.NoError(t, err)
	require.NoError(t, f.session.Setup())
	f.session.Abandon()

	a, ok := f.session.TakeAttempt()
	require.True(t, ok)
	assert.Equal(t, 1, a.Layout.Level)
	assert.Len(t, a.Layout.Obstacles, 2)
	assert.Len(t, a.Layout.Enemies, 3)
	assert.Equal(t, PlayerImage, a.Layout.Player.Image)

	raw, err := EncodeLayout(a.Layout)
	require.NoError(t, err)
	decoded, err := DecodeLayout(raw)
	require.NoError(t, err)
	assert.Equal(t, a.Layout, decoded)

	_, err = DecodeLayout([]byte{0xc1})
	assert.Error(t, err)
}

func TestProfileCounts(t *testing.T) {
	cfg := config.DefaultTanksConfig()
	row := data.Difficulty{Level: 5, ObstacleCount: 12, EnemyTanksCount: 9}

	obstacles, enemies := ProfileCounts(cfg.Profile(config.ProfileDesktop), row)
	assert.Equal(t, 12, obstacles)
	assert.Equal(t, 9, enemies)

	obstacles, enemies = ProfileCounts(cfg.Profile(config.ProfileConstrained), row)
	assert.Equal(t, 15, obstacles)
	assert.Equal(t, 1, enemies, "discount floors at the profile minimum")

	_, enemies = ProfileCounts(cfg.Profile(config.ProfileConstrained), data.Difficulty{Level: 1, EnemyTanksCount: 5})
	assert.Equal(t, 3, enemies)
}

func TestNewSessionValidatesOptions(t *testing.T) {
	_, err := NewSession(Options{Presenter: newFakePresenter()})
	assert.Error(t, err)

	_, err = NewSession(Options{Pack: defaultLevels()})
	assert.Error(t, err)
}
