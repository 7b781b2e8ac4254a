package tanks

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-tanks/internal/config"
	"github.com/vovakirdan/tui-tanks/internal/core"
	"github.com/vovakirdan/tui-tanks/internal/games/tanks/data"
)

// ErrLevelNotFound is returned by Setup when the difficulty table has no
// row for the current level.
var ErrLevelNotFound = data.ErrLevelNotFound

// ErrAssetUnavailable is wrapped by presenters that cannot draw a descriptor.
var ErrAssetUnavailable = errors.New("asset unavailable")

// PlayerImage is the image reference of the player tank.
const PlayerImage = "graphics/tanks/player.png"

// State is the phase of the level state machine.
type State int

const (
	StateIdle State = iota
	StateSetup
	StateActive
	StateDefeat
	StateVictory
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSetup:
		return "setup"
	case StateActive:
		return "active"
	case StateDefeat:
		return "defeat"
	case StateVictory:
		return "victory"
	}
	return "unknown"
}

// Options configures a session.
type Options struct {
	Config    config.TanksConfig
	Profile   string // config.ProfileDesktop or config.ProfileConstrained
	Pack      *data.Pack
	Arena     core.Rect
	Progress  ProgressStore    // In-memory when nil
	Presenter Presenter        // Required
	Lifecycle Lifecycle        // Optional
	Clock     func() time.Time // time.Now when nil
	Rand      *rand.Rand       // Time-seeded when nil
}

// Attempt summarises a finished attempt.
type Attempt struct {
	Level    int
	Outcome  Outcome
	Cause    Cause
	Final    bool // Victory on the final level
	Kills    int
	Target   int
	Deaths   int // Death count after the attempt
	Duration time.Duration
	Layout   Layout
}

// Label returns the history label of the attempt.
func (a Attempt) Label() string {
	switch {
	case a.Outcome == OutcomeVictory && a.Final:
		return "campaign_complete"
	case a.Outcome == OutcomeAbandoned:
		return "abandoned"
	}
	return a.Outcome.String()
}

// Session is the explicit context of one player's campaign: the progress
// state, the level state machine and the rosters of the running attempt.
type Session struct {
	cfg       config.TanksConfig
	profile   config.ProfileConfig
	pack      *data.Pack
	progress  ProgressStore
	presenter Presenter
	lifecycle Lifecycle
	clock     func() time.Time
	rng       *rand.Rand
	placer    *Placer
	control   PlayerController

	arena   core.Rect
	state   State
	level   int
	deaths  int
	combat  *Combat
	started time.Time
	layout  Layout
	attempt *Attempt
}

// NewSession creates a session and resumes persisted progress. Progress
// is read once here; later changes to the store are not observed.
func NewSession(opts Options) (*Session, error) {
	if opts.Pack == nil {
		return nil, fmt.Errorf("tanks: session needs level data")
	}
	if opts.Presenter == nil {
		return nil, fmt.Errorf("tanks: session needs a presenter")
	}
	if opts.Progress == nil {
		opts.Progress = MemoryProgress{}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	cfg := opts.Config
	s := &Session{
		cfg:       cfg,
		profile:   cfg.Profile(opts.Profile),
		pack:      opts.Pack,
		progress:  opts.Progress,
		presenter: opts.Presenter,
		lifecycle: opts.Lifecycle,
		clock:     opts.Clock,
		rng:       opts.Rand,
		placer:    NewPlacer(opts.Rand),
		control: PlayerController{
			Speed:        cfg.Player.Speed,
			ShotCooldown: cfg.Player.ShotCooldown,
			BulletSpeed:  cfg.Player.BulletSpeed,
			BulletSize:   cfg.Player.BulletSize,
		},
		arena: opts.Arena,
	}

	level, err := s.progress.Int(KeyLevel, 1)
	if err != nil {
		logger.Warn("cannot read level, starting at 1", "err", err)
		level = 1
	}
	deaths, err := s.progress.Int(KeyDeaths, 0)
	if err != nil {
		logger.Warn("cannot read death count, starting at 0", "err", err)
		deaths = 0
	}
	s.level = max(level, 1)
	s.deaths = max(deaths, 0)

	logger.Info("session resumed", "level", s.level, "deaths", s.deaths, "profile", opts.Profile)
	return s, nil
}

// State returns the current state machine phase.
func (s *Session) State() State { return s.state }

// Level returns the current level index.
func (s *Session) Level() int { return s.level }

// Deaths returns the cumulative death count.
func (s *Session) Deaths() int { return s.deaths }

// FinalLevel returns the last level of the campaign.
func (s *Session) FinalLevel() int { return s.cfg.Campaign.FinalLevel }

// Arena returns the bounds used by the next Setup.
func (s *Session) Arena() core.Rect { return s.arena }

// Combat returns the running combat loop, or nil outside an attempt.
func (s *Session) Combat() *Combat { return s.combat }

// Kills returns the kill counter of the running attempt.
func (s *Session) Kills() int {
	if s.combat == nil {
		return 0
	}
	return s.combat.Kills()
}

// Target returns the kill target of the running attempt.
func (s *Session) Target() int {
	if s.combat == nil {
		return 0
	}
	return s.combat.Target()
}

// SetArena changes the bounds for the next Setup. A running attempt keeps
// the layout it was generated with.
func (s *Session) SetArena(arena core.Rect) {
	s.arena = arena
}

// SetLifecycle replaces the lifecycle collaborator.
func (s *Session) SetLifecycle(l Lifecycle) {
	s.lifecycle = l
}

// Counts returns the obstacle and enemy counts for a difficulty row under
// the session's profile.
func (s *Session) Counts(d data.Difficulty) (obstacles, enemies int) {
	return ProfileCounts(s.profile, d)
}

// ProfileCounts applies a platform profile to a difficulty row. The enemy
// discount never goes below the profile's minimum.
func ProfileCounts(p config.ProfileConfig, d data.Difficulty) (obstacles, enemies int) {
	obstacles = d.ObstacleCount
	if p.ObstaclesPerLevel > 0 {
		obstacles = d.Level * p.ObstaclesPerLevel
	}
	enemies = d.EnemyTanksCount
	if p.EnemyDiscountPerLevel > 0 {
		enemies = max(enemies-d.Level*p.EnemyDiscountPerLevel, p.MinEnemies)
	}
	return obstacles, enemies
}

// Setup generates the current level and enters the active state.
func (s *Session) Setup() error {
	if s.state == StateActive {
		return fmt.Errorf("tanks: cannot set up level %d: attempt already running", s.level)
	}
	if s.arena.W <= 0 || s.arena.H <= 0 {
		return fmt.Errorf("tanks: cannot set up level %d: arena is empty", s.level)
	}

	diff, err := s.pack.Level(s.level)
	if err != nil {
		s.state = StateIdle
		return fmt.Errorf("tanks: cannot set up level %d: %w", s.level, err)
	}
	s.state = StateSetup
	numObstacles, numEnemies := s.Counts(diff)

	cx, cy := s.arena.Center()
	player := &Player{Entity: Entity{
		Kind: KindPlayer,
		Desc: data.Descriptor{Image: PlayerImage, Width: s.cfg.Player.Width, Height: s.cfg.Player.Height},
		X:    cx,
		Y:    cy,
	}}
	zone := ReferenceZone(player.Box(), s.cfg.Placement.Halo)

	placedObstacles := s.placer.Place(s.arena, zone, s.pack.Obstacles, numObstacles, PlaceOptions{
		MaxAttempts: s.cfg.Placement.MaxAttempts,
	})
	obstacles := make([]*Entity, 0, len(placedObstacles.Placed))
	avoid := make([]core.Rect, 0, len(placedObstacles.Placed))
	for _, pl := range placedObstacles.Placed {
		o := &Entity{Kind: KindObstacle, Desc: pl.Desc, X: pl.X, Y: pl.Y, Rotation: s.rng.Float64() * 2 * math.Pi}
		s.spawn(o)
		obstacles = append(obstacles, o)
		avoid = append(avoid, pl.Box())
	}

	pool, sides := s.pack.EnemyPool(numEnemies)
	placedEnemies := s.placer.Place(s.arena, zone, pool, len(pool), PlaceOptions{
		MaxAttempts: s.cfg.Placement.MaxAttempts,
		Avoid:       avoid,
		AxisBuffer:  s.cfg.Placement.AxisBuffer,
	})
	enemies := make([]*Enemy, 0, len(placedEnemies.Placed))
	target := 0
	for _, pl := range placedEnemies.Placed {
		e := &Enemy{
			Entity: Entity{Kind: KindEnemy, Desc: pl.Desc, X: pl.X, Y: pl.Y, Rotation: pl.Desc.Heading()},
			Side:   sides[pl.Index],
		}
		s.spawn(&e.Entity)
		if e.Hittable() {
			target++
		}
		enemies = append(enemies, e)
	}

	s.spawn(&player.Entity)

	fire := &FireController{
		Radius:      s.cfg.Enemies.EngagementRadius,
		Cooldown:    s.profile.EnemyCooldown,
		BulletSpeed: s.cfg.Enemies.BulletSpeed,
		BulletSize:  s.cfg.Enemies.BulletSize,
		TrackPlayer: s.cfg.Enemies.TrackPlayer,
	}
	s.combat = NewCombat(s.arena, player, obstacles, enemies, fire, s.presenter, target)
	s.layout = s.snapshotLayout(placedObstacles.Dropped + placedEnemies.Dropped)
	s.started = s.clock()
	s.state = StateActive

	logger.Info("level start",
		"level", s.level,
		"obstacles", len(obstacles),
		"enemies", len(enemies),
		"target", target,
		"dropped", placedObstacles.Dropped+placedEnemies.Dropped,
	)
	if s.lifecycle != nil {
		s.lifecycle.OnLevelStart(s.level)
	}
	return nil
}

// spawn asks the presenter for a visual. Failures leave the entity
// without one, which removes it from collision tests.
func (s *Session) spawn(e *Entity) {
	h, err := s.presenter.SpawnVisual(e.Desc, e.X, e.Y, e.Rotation)
	if err != nil {
		logger.Warn("entity spawned without visual", "kind", e.Kind, "image", e.Desc.Image, "err", err)
		e.Visual = NoHandle
		return
	}
	e.Visual = h
}

func (s *Session) snapshotLayout(dropped int) Layout {
	l := Layout{
		Level:   s.level,
		ArenaW:  s.arena.W,
		ArenaH:  s.arena.H,
		Player:  layoutEntity(&s.combat.Player.Entity),
		Dropped: dropped,
	}
	for _, o := range s.combat.Obstacles {
		l.Obstacles = append(l.Obstacles, layoutEntity(o))
	}
	for _, e := range s.combat.Enemies {
		l.Enemies = append(l.Enemies, layoutEntity(&e.Entity))
	}
	return l
}

// Step runs one tick of the active attempt and returns its outcome.
// Outside the active state it does nothing.
func (s *Session) Step(in Intent) Outcome {
	if s.state != StateActive {
		return OutcomeNone
	}
	now := s.clock()
	c := s.combat

	s.control.Move(c.Player, in, c.Arena)
	if c.Player.Hittable() {
		s.presenter.MoveVisual(c.Player.Visual, c.Player.X, c.Player.Y, c.Player.Rotation)
	}
	if shot := s.control.Fire(c.Player, in, now); shot != nil {
		c.Spawn(shot)
		s.presenter.PlaySound(SoundShot)
	}

	for _, o := range c.Obstacles {
		o.Rotation += s.cfg.Obstacles.RotationRate
		if o.Hittable() {
			s.presenter.MoveVisual(o.Visual, o.X, o.Y, o.Rotation)
		}
	}

	res := c.Tick(now)

	if s.cfg.Enemies.TrackPlayer {
		for _, e := range c.Enemies {
			if e.Hittable() {
				s.presenter.MoveVisual(e.Visual, e.X, e.Y, e.Rotation)
			}
		}
	}

	switch res.Outcome {
	case OutcomeDefeat:
		s.defeat(res.Cause)
	case OutcomeVictory:
		s.victory()
	}
	return res.Outcome
}

func (s *Session) record(outcome Outcome, cause Cause) {
	a := &Attempt{
		Level:    s.level,
		Outcome:  outcome,
		Cause:    cause,
		Deaths:   s.deaths,
		Duration: s.clock().Sub(s.started),
		Layout:   s.layout,
	}
	if s.combat != nil {
		a.Kills = s.combat.Kills()
		a.Target = s.combat.Target()
	}
	s.attempt = a
}

func (s *Session) defeat(cause Cause) {
	s.record(OutcomeDefeat, cause)
	s.Teardown()

	s.deaths++
	s.attempt.Deaths = s.deaths
	if err := s.progress.SetInt(KeyDeaths, s.deaths); err != nil {
		logger.Error("cannot persist death count", "deaths", s.deaths, "err", err)
	}
	s.state = StateDefeat

	logger.Info("defeat", "level", s.level, "cause", cause, "deaths", s.deaths)
	if s.lifecycle != nil {
		s.lifecycle.OnDefeat(s.Restart)
	}
}

func (s *Session) victory() {
	final := s.level >= s.cfg.Campaign.FinalLevel
	s.record(OutcomeVictory, CauseNone)
	s.attempt.Final = final
	s.Teardown()

	if !final {
		if err := s.progress.SetInt(KeyLevel, s.level+1); err != nil {
			logger.Error("cannot persist level", "level", s.level+1, "err", err)
		}
	}
	s.state = StateVictory

	logger.Info("victory", "level", s.level, "final", final)
	if s.lifecycle == nil {
		return
	}
	if final {
		s.lifecycle.OnVictory(s.ReturnToMenu, true)
	} else {
		s.lifecycle.OnVictory(s.AdvanceLevel, false)
	}
}

// Restart sets up the current level again.
func (s *Session) Restart() error {
	if s.state == StateActive {
		return fmt.Errorf("tanks: cannot restart level %d: attempt still running", s.level)
	}
	return s.Setup()
}

// AdvanceLevel moves to the next level after a victory and sets it up.
func (s *Session) AdvanceLevel() error {
	if s.state != StateVictory {
		return fmt.Errorf("tanks: cannot advance from state %s", s.state)
	}
	if s.level >= s.cfg.Campaign.FinalLevel {
		return fmt.Errorf("tanks: level %d is the final level", s.level)
	}
	s.level++
	return s.Setup()
}

// ReturnToMenu abandons any running attempt, clears persisted progress
// and resets the session to level 1 with no deaths.
func (s *Session) ReturnToMenu() error {
	if s.state == StateActive {
		s.Abandon()
	}
	s.level = 1
	s.deaths = 0
	s.state = StateIdle
	if err := s.progress.Clear(KeyLevel, KeyDeaths); err != nil {
		logger.Error("cannot clear progress", "err", err)
		return fmt.Errorf("tanks: cannot clear progress: %w", err)
	}
	logger.Info("progress cleared")
	return nil
}

// Abandon ends a running attempt without a terminal transition.
// Progress is left untouched.
func (s *Session) Abandon() {
	if s.state != StateActive {
		return
	}
	s.record(OutcomeAbandoned, CauseNone)
	s.Teardown()
	s.state = StateIdle
}

// Teardown releases every visual of the attempt exactly once and drops
// in-flight projectiles and effects. Calling it again is a no-op.
func (s *Session) Teardown() {
	c := s.combat
	if c == nil {
		return
	}
	for _, o := range c.Obstacles {
		s.release(o)
	}
	for _, e := range c.Enemies {
		s.release(&e.Entity)
	}
	s.release(&c.Player.Entity)
	c.Obstacles = nil
	c.Enemies = nil
	c.Clear()
	s.presenter.ClearEffects()
	s.combat = nil

	if s.state == StateActive || s.state == StateSetup {
		s.state = StateIdle
	}
}

func (s *Session) release(e *Entity) {
	if e.Visual == NoHandle {
		return
	}
	s.presenter.RemoveVisual(e.Visual)
	e.Visual = NoHandle
}

// LastAttempt returns the last finished attempt without consuming it.
func (s *Session) LastAttempt() (Attempt, bool) {
	if s.attempt == nil {
		return Attempt{}, false
	}
	return *s.attempt, true
}

// TakeAttempt returns the last finished attempt once.
func (s *Session) TakeAttempt() (Attempt, bool) {
	if s.attempt == nil {
		return Attempt{}, false
	}
	a := *s.attempt
	s.attempt = nil
	return a, true
}
