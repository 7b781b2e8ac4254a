package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-tanks/internal/core"
	"github.com/vovakirdan/tui-tanks/internal/registry"
)

// MenuItemKind identifies what a menu entry does.
type MenuItemKind int

const (
	MenuPlay        MenuItemKind = iota // Resume the campaign in a mode
	MenuNewCampaign                     // Clear progress, then play
	MenuHistory
	MenuQuit
)

// MenuItem represents a selectable menu entry.
type MenuItem struct {
	Kind   MenuItemKind
	GameID string
	Title  string
}

// StatusFunc describes the saved progress of a profile for the menu header.
type StatusFunc func(profile string) string

// MenuModel is the Bubble Tea model for the main menu.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	width     int
	height    int
	profile   string
	status    string
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	quitting  bool
	selected  *MenuItem // Set when user selects an entry
}

// NewMenuModel creates a new menu model. defaultMode is the game a new
// campaign starts in.
func NewMenuModel(profile, defaultMode string, status StatusFunc, cfg core.RuntimeConfig) MenuModel {
	games := registry.List()
	items := make([]MenuItem, 0, len(games)+3)

	for _, g := range games {
		items = append(items, MenuItem{Kind: MenuPlay, GameID: g.ID, Title: "Continue: " + g.Title})
	}
	items = append(items,
		MenuItem{Kind: MenuNewCampaign, GameID: defaultMode, Title: "New campaign"},
		MenuItem{Kind: MenuHistory, Title: "History"},
		MenuItem{Kind: MenuQuit, Title: "Quit"},
	)

	m := MenuModel{
		items:     items,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		profile:   profile,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
	if status != nil {
		m.status = status(profile)
	}
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionHistory:
		item := MenuItem{Kind: MenuHistory}
		m.selected = &item
		return m, tea.Quit

	case MenuActionSelect:
		selected := m.items[m.cursor]
		if selected.Kind == MenuQuit {
			m.quitting = true
			return m, tea.Quit
		}
		m.selected = &selected
		return m, tea.Quit
	}

	return m, nil
}

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	menuStatusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	menuCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
)

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(menuTitleStyle.Render(centerText("  T A N K S  ", m.width)))
	b.WriteString("\n\n")

	header := fmt.Sprintf("Profile: %s", m.profile)
	if m.status != "" {
		header += "  |  " + m.status
	}
	b.WriteString(menuStatusStyle.Render(centerText(header, m.width)))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := "  " + item.Title
		if i == m.cursor {
			line = menuCursorStyle.Render("> " + item.Title)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  Tab: History  |  Q: Quit"
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	n := lipgloss.Width(text)
	if n >= width {
		return text
	}
	padding := (width - n) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Item   MenuItem
	Config core.RuntimeConfig
	Quit   bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(profile, defaultMode string, status StatusFunc, cfg core.RuntimeConfig) (MenuResult, error) {
	model := NewMenuModel(profile, defaultMode, status, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok || m.IsQuitting() || m.Selected() == nil {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	return MenuResult{Item: *m.Selected(), Config: m.Config()}, nil
}
