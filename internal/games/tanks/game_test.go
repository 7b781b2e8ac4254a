package tanks

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tanks/internal/core"
	"github.com/vovakirdan/tui-tanks/internal/games/tanks/data"
	"github.com/vovakirdan/tui-tanks/internal/registry"
)

func runtimeConfig(w, h int) core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: w, ScreenH: h, TickRate: 60, Seed: 42}
}

func newTestGame(t *testing.T) (*Game, MemoryProgress) {
	t.Helper()
	progress := MemoryProgress{}
	g := New()
	g.BindProgress(progress)
	g.Reset(runtimeConfig(80, 24))
	require.NoError(t, g.Err())
	return g, progress
}

func frame(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

func TestGameRegistered(t *testing.T) {
	for _, id := range []string{ModeDesktop, ModeConstrained} {
		assert.True(t, registry.Exists(id), id)
		g, err := registry.Create(id)
		require.NoError(t, err)
		assert.Equal(t, id, g.ID())
	}

	var g registry.Game = New()
	_, ok := g.(registry.ProgressBinder)
	assert.True(t, ok)
	_, ok = g.(registry.AttemptReporter)
	assert.True(t, ok)
	_, ok = g.(registry.Resizer)
	assert.True(t, ok)
}

func TestGameStartsFirstLevel(t *testing.T) {
	g, _ := newTestGame(t)

	require.NotNil(t, g.Session())
	assert.Equal(t, StateActive, g.Session().State())
	assert.Equal(t, 1, g.Session().Level())

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	assert.Contains(t, screen.Row(0), "Level: 1/5")
	assert.Contains(t, screen.Row(23), "space fire")
}

func TestGameDeterministicLayout(t *testing.T) {
	g1, _ := newTestGame(t)
	g2, _ := newTestGame(t)

	assert.Equal(t, g1.Session().layout, g2.Session().layout)
}

func TestGameBackAbandons(t *testing.T) {
	g, progress := newTestGame(t)

	res := g.Step(frame(core.ActionBack))
	assert.True(t, res.State.Exit)
	assert.Empty(t, progress)

	rec, ok := g.TakeAttempt()
	require.True(t, ok)
	assert.Equal(t, "abandoned", rec.Outcome)
	assert.Equal(t, 1, rec.Level)
	require.NotEmpty(t, rec.Layout)

	layout, err := DecodeLayout(rec.Layout)
	require.NoError(t, err)
	assert.Equal(t, 1, layout.Level)

	_, ok = g.TakeAttempt()
	assert.False(t, ok)
}

func TestGameDefeatAndRetry(t *testing.T) {
	g, progress := newTestGame(t)
	crash(g.Session())

	g.Step(frame())
	assert.Equal(t, StateDefeat, g.Session().State())
	assert.Equal(t, 1, progress[KeyDeaths])

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	assert.Contains(t, screen.String(), "Crashed into an obstacle")

	g.Step(frame(core.ActionConfirm))
	assert.Equal(t, StateActive, g.Session().State())
	assert.Equal(t, 1, g.Session().Deaths())
	assert.False(t, g.State().Exit)
}

func TestGamePause(t *testing.T) {
	g, _ := newTestGame(t)

	g.Step(frame(core.ActionPause))
	assert.True(t, g.State().Paused)

	x := g.Session().Combat().Player.X
	clock := g.now()
	for range 600 {
		g.Step(frame(core.ActionRight))
	}
	assert.Equal(t, x, g.Session().Combat().Player.X, "paused game ignores input")
	assert.Equal(t, clock, g.now(), "clock is frozen while paused")

	// The unpausing step is the first simulated tick.
	g.Step(frame(core.ActionPause))
	assert.False(t, g.State().Paused)
	assert.Equal(t, clock.Add(time.Second/60), g.now())
}

func TestGameWaitsForRoom(t *testing.T) {
	g := New()
	g.BindProgress(MemoryProgress{})
	g.Reset(runtimeConfig(30, 10))
	require.NoError(t, g.Err())
	assert.Equal(t, StateIdle, g.Session().State())

	screen := core.NewScreen(30, 10)
	g.Render(screen)
	assert.Contains(t, screen.String(), "Window too small")

	g.Resize(80, 24)
	assert.Equal(t, StateActive, g.Session().State())
}

func TestGameMissingDataShowsError(t *testing.T) {
	SetDataDir("/nonexistent/tanks-data")
	t.Cleanup(func() { SetDataDir("") })

	g := New()
	g.Reset(runtimeConfig(80, 24))
	require.Error(t, g.Err())
	assert.True(t, g.State().GameOver)

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	assert.Contains(t, screen.String(), "Tanks cannot start")

	g.Step(frame(core.ActionConfirm))
	assert.True(t, g.State().Exit)
}

func TestGameLevelOutsideTable(t *testing.T) {
	g := New()
	g.BindProgress(MemoryProgress{KeyLevel: 42})
	g.Reset(runtimeConfig(80, 24))

	require.Error(t, g.Err())
	assert.True(t, errors.Is(g.Err(), ErrLevelNotFound))
}

func TestTerminalPresenter(t *testing.T) {
	pack, err := data.Default()
	require.NoError(t, err)
	p := NewTerminalPresenter(pack, 2)

	_, err = p.SpawnVisual(square(brokenImage, 40), 0, 0, 0)
	assert.True(t, errors.Is(err, ErrAssetUnavailable))

	h, err := p.SpawnVisual(square(PlayerImage, 40), 100, 100, 0)
	require.NoError(t, err)
	assert.NotEqual(t, NoHandle, h)
	assert.Equal(t, 1, p.Live())

	p.MoveVisual(h, 120, 100, 1)
	v, ok := p.Visual(h)
	require.True(t, ok)
	assert.Equal(t, 120.0, v.X)
	assert.Equal(t, '█', v.Glyph)

	p.RemoveVisual(h)
	assert.Zero(t, p.Live())

	p.PlayEffect(EffectExplosion, 10, 10)
	p.PlaySound(SoundExplosion)
	p.PlaySound(SoundExplosion)
	assert.Len(t, p.Effects(), 1)
	p.Age()
	assert.Len(t, p.Effects(), 1)
	p.Age()
	assert.Empty(t, p.Effects())

	assert.Equal(t, map[SoundKind]int{SoundExplosion: 2}, p.DrainSounds())
	assert.Empty(t, p.DrainSounds())
}
