package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tanks/internal/core"
	"github.com/vovakirdan/tui-tanks/internal/registry"
	"github.com/vovakirdan/tui-tanks/internal/storage"
)

// readyMsg reports that the game finished loading its data.
type readyMsg struct{}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	profile    string
	config     core.RuntimeConfig
	keys       *KeyMapper
	held       *HeldKeys
	inputFrame core.InputFrame
	gameState  core.GameState
	ready      bool
	quitting   bool // Quit the program
	exited     bool // Game asked to return to the menu
}

// NewModel creates a new Bubble Tea model for the given game. Progress of
// games that persist it is bound to the profile in store.
func NewModel(game registry.Game, store *storage.Store, profile string, cfg core.RuntimeConfig) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}

	if binder, ok := game.(registry.ProgressBinder); ok && store != nil {
		binder.BindProgress(store.Progress(profile))
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		profile:    profile,
		config:     cfg,
		keys:       NewKeyMapper(),
		held:       NewHeldKeys(cfg.TickRate),
		inputFrame: core.NewInputFrame(),
	}
}

// Init loads the game off the UI loop. Ticks start once it is ready.
func (m Model) Init() tea.Cmd {
	game, cfg := m.game, m.config
	return func() tea.Msg {
		game.Reset(cfg)
		return readyMsg{}
	}
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case readyMsg:
		m.ready = true
		if r, ok := m.game.(registry.Resizer); ok {
			r.Resize(m.config.ScreenW, m.config.ScreenH)
		}
		m.gameState = m.game.State()
		return m, tickCmd(m.config.TickRate)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keys.MapKey(msg)
	if isQuit {
		m.quitting = true
		if m.ready {
			m.game.Step(quitFrame())
			m.saveAttempts()
		}
		return m, tea.Quit
	}

	switch {
	case action == core.ActionNone:
	case isHeld(action):
		m.held.Press(action)
	default:
		m.inputFrame.Set(action)
	}
	return m, nil
}

// quitFrame makes the game abandon its attempt before the program exits.
func quitFrame() core.InputFrame {
	f := core.NewInputFrame()
	f.Set(core.ActionBack)
	return f
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if !m.ready {
		return m, nil
	}
	if r, ok := m.game.(registry.Resizer); ok {
		r.Resize(msg.Width, msg.Height)
		return m, nil
	}
	if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	m.held.Apply(&m.inputFrame)

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.saveAttempts()

	// Clear input for next frame
	m.inputFrame.Clear()

	if m.gameState.Exit {
		m.exited = true
		m.held.Release()
		return m, tea.Quit
	}

	return m, tickCmd(m.config.TickRate)
}

// saveAttempts moves finished attempts from the game into the history.
func (m Model) saveAttempts() {
	reporter, ok := m.game.(registry.AttemptReporter)
	if !ok {
		return
	}
	for {
		rec, ok := reporter.TakeAttempt()
		if !ok {
			return
		}
		if m.store == nil {
			continue
		}
		_, err := m.store.SaveAttempt(storage.Attempt{
			Profile:  m.profile,
			Mode:     m.game.ID(),
			Level:    rec.Level,
			Outcome:  rec.Outcome,
			Kills:    rec.Kills,
			Target:   rec.Target,
			Deaths:   rec.Deaths,
			Duration: rec.Duration,
			Layout:   rec.Layout,
		})
		if err != nil {
			log.Warn("cannot save attempt", "mode", m.game.ID(), "err", err)
		}
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	if !m.ready {
		return
	}
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".tanks", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path := filepath.Join(dir, filename)

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.exited {
		return ""
	}
	if !m.ready {
		return centerText("Loading level data...", m.config.ScreenW)
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// Exited reports whether the game returned to the menu rather than
// the user quitting the program.
func (m Model) Exited() bool {
	return m.exited
}

// IsQuitting reports whether the user asked to quit the program.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// Run starts the Bubble Tea program with the given game. It reports
// whether the game asked to return to the menu.
func Run(game registry.Game, store *storage.Store, profile string, cfg core.RuntimeConfig) (backToMenu bool, err error) {
	model := NewModel(game, store, profile, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(Model)
	return ok && m.Exited(), nil
}
