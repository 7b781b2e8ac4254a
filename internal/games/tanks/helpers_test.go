package tanks

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-tanks/internal/config"
	"github.com/vovakirdan/tui-tanks/internal/core"
	"github.com/vovakirdan/tui-tanks/internal/games/tanks/data"
)

const (
	rockImage   = "graphics/obstacles/rock1.png"
	enemyImage  = "graphics/tanks/enemy_light.png"
	brokenImage = "graphics/tanks/missing.png"
)

type effectCall struct {
	Kind EffectKind
	X, Y float64
}

// fakePresenter records every call and can refuse chosen images.
type fakePresenter struct {
	next      Handle
	live      map[Handle]data.Descriptor
	fail      map[string]bool
	spawned   int
	removed   int
	badRemove int
	effects   []effectCall
	sounds    []SoundKind
	cleared   int
}

func newFakePresenter(failing ...string) *fakePresenter {
	f := &fakePresenter{
		live: make(map[Handle]data.Descriptor),
		fail: make(map[string]bool),
	}
	for _, img := range failing {
		f.fail[img] = true
	}
	return f
}

func (f *fakePresenter) SpawnVisual(desc data.Descriptor, x, y, rotation float64) (Handle, error) {
	if f.fail[desc.Image] {
		return NoHandle, ErrAssetUnavailable
	}
	f.next++
	f.spawned++
	f.live[f.next] = desc
	return f.next, nil
}

func (f *fakePresenter) MoveVisual(h Handle, x, y, rotation float64) {}

func (f *fakePresenter) RemoveVisual(h Handle) {
	if _, ok := f.live[h]; !ok {
		f.badRemove++
		return
	}
	delete(f.live, h)
	f.removed++
}

func (f *fakePresenter) PlayEffect(kind EffectKind, x, y float64) {
	f.effects = append(f.effects, effectCall{Kind: kind, X: x, Y: y})
}

func (f *fakePresenter) PlaySound(kind SoundKind) {
	f.sounds = append(f.sounds, kind)
}

func (f *fakePresenter) ClearEffects() {
	f.cleared++
}

type victoryCall struct {
	Next  Continuation
	Final bool
}

type fakeLifecycle struct {
	defeats   []Continuation
	victories []victoryCall
	starts    []int
}

func (l *fakeLifecycle) OnDefeat(restart Continuation) {
	l.defeats = append(l.defeats, restart)
}

func (l *fakeLifecycle) OnVictory(next Continuation, final bool) {
	l.victories = append(l.victories, victoryCall{Next: next, Final: final})
}

func (l *fakeLifecycle) OnLevelStart(level int) {
	l.starts = append(l.starts, level)
}

// fakeClock advances by step on every call.
type fakeClock struct {
	now  time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

func square(image string, size float64) data.Descriptor {
	return data.Descriptor{Image: image, Width: size, Height: size}
}

func repeat(d data.Descriptor, n int) []data.Descriptor {
	out := make([]data.Descriptor, n)
	for i := range out {
		out[i] = d
	}
	return out
}

// testPack builds a pack with five 40x40 obstacles and five 40x40
// enemies per side.
func testPack(levels ...data.Difficulty) *data.Pack {
	p := &data.Pack{
		Difficulty: levels,
		Obstacles:  repeat(square(rockImage, 40), 5),
	}
	for side := data.SideLeft; side <= data.SideRight; side++ {
		p.Enemies[side] = repeat(square(enemyImage, 40), 5)
	}
	return p
}

// testConfig returns defaults with enemy fire disabled.
func testConfig() config.TanksConfig {
	cfg := config.DefaultTanksConfig()
	cfg.Enemies.EngagementRadius = 0
	return cfg
}

type sessionFixture struct {
	session   *Session
	presenter *fakePresenter
	lifecycle *fakeLifecycle
	progress  MemoryProgress
}

func newFixture(cfg config.TanksConfig, pack *data.Pack, progress MemoryProgress, failing ...string) (*sessionFixture, error) {
	if progress == nil {
		progress = MemoryProgress{}
	}
	f := &sessionFixture{
		presenter: newFakePresenter(failing...),
		lifecycle: &fakeLifecycle{},
		progress:  progress,
	}
	clock := &fakeClock{now: time.Unix(1000, 0), step: 16 * time.Millisecond}
	s, err := NewSession(Options{
		Config:    cfg,
		Profile:   config.ProfileDesktop,
		Pack:      pack,
		Arena:     core.NewRect(0, 0, 800, 600),
		Progress:  progress,
		Presenter: f.presenter,
		Lifecycle: f.lifecycle,
		Clock:     clock.Now,
		Rand:      rand.New(rand.NewSource(7)),
	})
	f.session = s
	return f, err
}
