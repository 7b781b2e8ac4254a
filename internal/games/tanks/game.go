package tanks

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-tanks/internal/config"
	"github.com/vovakirdan/tui-tanks/internal/core"
	"github.com/vovakirdan/tui-tanks/internal/games/tanks/data"
	"github.com/vovakirdan/tui-tanks/internal/registry"
)

// Registered mode IDs.
const (
	ModeDesktop     = "tanks"
	ModeConstrained = "tanks_constrained"
)

// Minimum terminal size for a playable arena, in cells.
const (
	MinCols = 40
	MinRows = 12
)

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// dataDir stores the level data override directory set via CLI
var dataDir string

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names keep the
// configured values.
func SetDifficultyPreset(preset string) {
	difficultyPreset = config.ParsePreset(preset)
}

// SetDataDir sets the directory that overrides the embedded level data.
func SetDataDir(dir string) {
	dataDir = dir
}

// LoadConfig loads the tank config with the CLI overrides applied.
func LoadConfig() (config.TanksConfig, error) {
	cfg, err := config.LoadTanks(configPath)
	if err != nil {
		return cfg, err
	}
	if difficultyPreset != "" {
		config.ApplyTanksPreset(&cfg, difficultyPreset)
	}
	return cfg, nil
}

// LoadPack loads the level data with the CLI override directory.
func LoadPack() (*data.Pack, error) {
	return data.NewLoader(dataDir).Load()
}

type overlay int

const (
	overlayNone overlay = iota
	overlayDefeat
	overlayVictory
	overlayComplete
)

// Game adapts a Session to the platform's game interface. It is the
// lifecycle collaborator of its session: terminal transitions show an
// overlay and the confirm key runs the continuation.
type Game struct {
	id      string
	profile string

	cfg       config.TanksConfig
	presenter *TerminalPresenter
	session   *Session
	progress  ProgressStore

	screenW  int
	screenH  int
	tick     uint64
	tickRate int

	overlay overlay
	cont    Continuation
	banner  int // Ticks left on the level banner
	paused  bool
	exit    bool
	err     error
}

// New creates the desktop profile game.
func New() *Game {
	return &Game{id: ModeDesktop, profile: config.ProfileDesktop}
}

// NewConstrained creates the constrained profile game.
func NewConstrained() *Game {
	return &Game{id: ModeConstrained, profile: config.ProfileConstrained}
}

func init() {
	registry.Register(ModeDesktop, func() registry.Game {
		return New()
	})
	registry.Register(ModeConstrained, func() registry.Game {
		return NewConstrained()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return g.id
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.profile == config.ProfileConstrained {
		return "Tanks (Constrained)"
	}
	return "Tanks"
}

// Session returns the running session, or nil before Reset.
func (g *Game) Session() *Session {
	return g.session
}

// Err returns the error that made the game unplayable, if any.
func (g *Game) Err() error {
	return g.err
}

// BindProgress implements registry.ProgressBinder.
func (g *Game) BindProgress(p registry.Progress) {
	g.progress = p
}

// Reset loads config and level data, resumes progress and sets up the
// current level.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	if g.session != nil {
		g.session.Abandon()
	}
	g.tick = 0
	g.tickRate = cfg.TickRate
	if g.tickRate <= 0 {
		g.tickRate = 60
	}
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.overlay = overlayNone
	g.cont = nil
	g.banner = 0
	g.paused = false
	g.exit = false
	g.err = nil
	g.session = nil

	tc, err := LoadConfig()
	if err != nil {
		g.fail(err)
		return
	}
	g.cfg = tc

	pack, err := LoadPack()
	if err != nil {
		g.fail(err)
		return
	}

	if g.progress == nil {
		g.progress = MemoryProgress{}
	}
	g.presenter = NewTerminalPresenter(pack, tc.Effects.ExplosionTicks)
	g.session, err = NewSession(Options{
		Config:    tc,
		Profile:   g.profile,
		Pack:      pack,
		Arena:     g.arena(),
		Progress:  g.progress,
		Presenter: g.presenter,
		Lifecycle: g,
		Clock:     g.now,
		Rand:      rand.New(rand.NewSource(cfg.Seed)),
	})
	if err != nil {
		g.fail(err)
		return
	}

	if !g.tooSmall() {
		g.setup()
	}
}

func (g *Game) setup() {
	if err := g.session.Setup(); err != nil {
		g.fail(err)
	}
}

func (g *Game) fail(err error) {
	g.err = err
	logger.Error("game unavailable", "mode", g.id, "err", err)
}

// now is the simulation clock: it advances one tick length per simulated
// Step, so pauses and overlays freeze cooldowns.
func (g *Game) now() time.Time {
	return time.Unix(0, 0).Add(time.Duration(g.tick) * time.Second / time.Duration(g.tickRate))
}

func (g *Game) arenaRows() int {
	return g.screenH - g.cfg.Arena.HUDRows - 1
}

// arena maps the terminal area below the HUD and above the hint line to
// world units.
func (g *Game) arena() core.Rect {
	cols := max(g.screenW, 0)
	rows := max(g.arenaRows(), 0)
	return core.NewRect(0, 0, float64(cols)*g.cfg.Arena.CellWidth, float64(rows)*g.cfg.Arena.CellHeight)
}

func (g *Game) tooSmall() bool {
	return g.screenW < MinCols || g.arenaRows() < MinRows
}

// Resize implements registry.Resizer. The running layout is kept; the new
// arena applies from the next setup.
func (g *Game) Resize(w, h int) {
	g.screenW, g.screenH = w, h
	if g.session == nil || g.err != nil {
		return
	}
	g.session.SetArena(g.arena())
	if g.session.State() == StateIdle && g.overlay == overlayNone && !g.tooSmall() {
		g.setup()
	}
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionBack) {
		g.leave()
		return core.StepResult{State: g.State()}
	}

	if g.err != nil || g.session == nil {
		if in.Has(core.ActionConfirm) {
			g.exit = true
		}
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) && g.overlay == overlayNone {
		g.paused = !g.paused
	}
	if g.paused || g.tooSmall() {
		return core.StepResult{State: g.State()}
	}

	g.presenter.Age()

	switch g.overlay {
	case overlayDefeat:
		if in.Has(core.ActionConfirm) || in.Has(core.ActionRestart) {
			g.resume()
		}
		return core.StepResult{State: g.State()}
	case overlayVictory, overlayComplete:
		if in.Has(core.ActionConfirm) {
			g.resume()
		}
		return core.StepResult{State: g.State()}
	}

	if g.banner > 0 {
		g.banner--
	}
	// The clock only runs while the attempt is simulated.
	g.tick++
	g.session.Step(IntentFromFrame(in))
	return core.StepResult{State: g.State()}
}

// resume runs the pending continuation once.
func (g *Game) resume() {
	c := g.cont
	final := g.overlay == overlayComplete
	g.cont = nil
	g.overlay = overlayNone
	if c == nil {
		return
	}
	if err := c(); err != nil {
		g.fail(err)
		return
	}
	if final {
		g.exit = true
	}
}

// leave abandons the attempt and asks the platform to return to the menu.
func (g *Game) leave() {
	if g.session != nil {
		g.session.Abandon()
	}
	g.overlay = overlayNone
	g.cont = nil
	g.exit = true
}

// OnDefeat implements Lifecycle.
func (g *Game) OnDefeat(restart Continuation) {
	g.overlay = overlayDefeat
	g.cont = restart
}

// OnVictory implements Lifecycle.
func (g *Game) OnVictory(next Continuation, final bool) {
	g.overlay = overlayVictory
	if final {
		g.overlay = overlayComplete
	}
	g.cont = next
}

// OnLevelStart implements Lifecycle.
func (g *Game) OnLevelStart(level int) {
	g.overlay = overlayNone
	g.banner = 2 * g.tickRate
}

// TakeAttempt implements registry.AttemptReporter.
func (g *Game) TakeAttempt() (registry.AttemptRecord, bool) {
	if g.session == nil {
		return registry.AttemptRecord{}, false
	}
	a, ok := g.session.TakeAttempt()
	if !ok {
		return registry.AttemptRecord{}, false
	}
	layout, err := EncodeLayout(a.Layout)
	if err != nil {
		logger.Warn("attempt stored without layout", "err", err)
	}
	return registry.AttemptRecord{
		Level:    a.Level,
		Outcome:  a.Label(),
		Kills:    a.Kills,
		Target:   a.Target,
		Deaths:   a.Deaths,
		Duration: a.Duration,
		Layout:   layout,
	}, true
}

// State returns the current game state. The score is the kill count of
// the running attempt.
func (g *Game) State() core.GameState {
	st := core.GameState{
		Paused: g.paused,
		Exit:   g.exit,
	}
	if g.session != nil {
		st.Score = g.session.Kills()
	}
	st.GameOver = g.err != nil
	return st
}
