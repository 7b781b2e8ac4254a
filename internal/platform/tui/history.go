package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/tui-tanks/internal/storage"
)

// History layout constants
const (
	maxAttempts = 100 // Max attempts to load
)

type historyView int

const (
	viewAttempts historyView = iota
	viewLevels
)

// HistoryKeyMap defines the key bindings for the history screen.
type HistoryKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Switch key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Switch, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Switch},
		{k.Back, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Switch: key.NewBinding(
			key.WithKeys("tab", "left", "right"),
			key.WithHelp("tab", "attempts/levels"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel is the Bubble Tea model for the attempt history screen.
type HistoryModel struct {
	store     *storage.Store
	profile   string
	view      historyView
	attempts  []storage.Attempt
	stats     []storage.LevelStats
	loadErr   error
	table     table.Model
	help      help.Model
	keys      HistoryKeyMap
	width     int
	height    int
	now       func() time.Time
	quitting  bool
	goingBack bool
}

// NewHistoryModel creates a new history model for a profile.
func NewHistoryModel(store *storage.Store, profile string, width, height int) HistoryModel {
	h := help.New()
	h.ShowAll = false

	m := HistoryModel{
		store:   store,
		profile: profile,
		keys:    DefaultHistoryKeyMap(),
		help:    h,
		width:   width,
		height:  height,
		now:     time.Now,
	}
	m.load()
	m.table = m.createTable()
	m.updateTableRows()
	return m
}

// load reads attempts and per-level stats of the profile.
func (m *HistoryModel) load() {
	if m.store == nil {
		return
	}
	attempts, err := m.store.RecentAttempts(m.profile, maxAttempts)
	if err != nil {
		m.loadErr = err
		return
	}
	stats, err := m.store.Stats(m.profile)
	if err != nil {
		m.loadErr = err
		return
	}
	m.attempts, m.stats = attempts, stats
}

func (m *HistoryModel) columns() []table.Column {
	if m.view == viewLevels {
		return []table.Column{
			{Title: "Level", Width: 6},
			{Title: "Played", Width: 7},
			{Title: "Won", Width: 5},
			{Title: "Lost", Width: 5},
			{Title: "Fastest", Width: 9},
			{Title: "Last", Width: 16},
		}
	}
	return []table.Column{
		{Title: "When", Width: 16},
		{Title: "Mode", Width: 18},
		{Title: "Lvl", Width: 4},
		{Title: "Outcome", Width: 17},
		{Title: "Kills", Width: 6},
		{Title: "Deaths", Width: 7},
		{Title: "Time", Width: 8},
	}
}

// createTable creates a new table for the current view.
func (m *HistoryModel) createTable() table.Model {
	t := table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// formatDuration renders a duration as seconds with one decimal.
func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// updateTableRows fills the table from the loaded data.
func (m *HistoryModel) updateTableRows() {
	var rows []table.Row
	now := m.now()

	if m.view == viewLevels {
		for _, st := range m.stats {
			rows = append(rows, table.Row{
				fmt.Sprintf("%d", st.Level),
				humanize.Comma(int64(st.Attempts)),
				humanize.Comma(int64(st.Victories)),
				humanize.Comma(int64(st.Defeats)),
				formatDuration(st.Fastest),
				humanize.RelTime(st.LastPlay, now, "ago", "from now"),
			})
		}
	} else {
		for _, a := range m.attempts {
			rows = append(rows, table.Row{
				humanize.RelTime(a.CreatedAt, now, "ago", "from now"),
				a.Mode,
				fmt.Sprintf("%d", a.Level),
				a.Outcome,
				fmt.Sprintf("%d/%d", a.Kills, a.Target),
				humanize.Comma(int64(a.Deaths)),
				formatDuration(a.Duration),
			})
		}
	}

	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history screen.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Switch):
			if m.view == viewAttempts {
				m.view = viewLevels
			} else {
				m.view = viewAttempts
			}
			m.table = m.createTable()
			m.updateTableRows()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history screen.
func (m HistoryModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := fmt.Sprintf("HISTORY - %s - recent attempts", m.profile)
	if m.view == viewLevels {
		title = fmt.Sprintf("HISTORY - %s - per level", m.profile)
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or an empty message.
func (m HistoryModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.store == nil:
		return emptyStyle.Render("History is unavailable without a database.")
	case m.loadErr != nil:
		return emptyStyle.Render("Cannot load history:\n" + m.loadErr.Error())
	case m.view == viewAttempts && len(m.attempts) == 0,
		m.view == viewLevels && len(m.stats) == 0:
		return emptyStyle.Render("No attempts recorded yet.\nPlay a level to start the history!")
	}

	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}

// RunHistory runs the history screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunHistory(store *storage.Store, profile string, width, height int) (goBack bool, err error) {
	model := NewHistoryModel(store, profile, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(HistoryModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
