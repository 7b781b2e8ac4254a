package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tanks/internal/core"
)

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to an action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	key := msg.String()

	// Global quit keys
	switch key {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	}

	// Game/menu actions
	switch key {
	case "w", "up":
		return core.ActionUp, false
	case "s", "down":
		return core.ActionDown, false
	case "a", "left":
		return core.ActionLeft, false
	case "d", "right":
		return core.ActionRight, false
	case " ":
		return core.ActionFire, false
	case "enter":
		return core.ActionConfirm, false
	case "b", "esc":
		return core.ActionBack, false
	case "p":
		return core.ActionPause, false
	case "r":
		return core.ActionRestart, false
	}

	return core.ActionNone, false
}

// MapKeyToFrame updates an input frame based on a key message.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone {
		frame.Set(action)
	}
	return isQuit
}

// isHeld reports whether an action stays active between key repeats.
func isHeld(a core.Action) bool {
	switch a {
	case core.ActionUp, core.ActionDown, core.ActionLeft, core.ActionRight, core.ActionFire:
		return true
	}
	return false
}

func isMove(a core.Action) bool {
	return a == core.ActionUp || a == core.ActionDown || a == core.ActionLeft || a == core.ActionRight
}

// HeldKeys emulates key-down state on terminals that only report presses.
// A press keeps its action active for a number of ticks; the terminal's
// key repeat refreshes it while the key is held.
type HeldKeys struct {
	ticks   map[core.Action]int
	initial int // Ticks a fresh press lasts, bridging the repeat delay
	repeat  int // Ticks a repeated press lasts
}

// NewHeldKeys creates the emulation for the given tick rate.
func NewHeldKeys(tickRate int) *HeldKeys {
	if tickRate <= 0 {
		tickRate = 60
	}
	return &HeldKeys{
		ticks:   make(map[core.Action]int),
		initial: max(1, tickRate/2),
		repeat:  max(1, tickRate/8),
	}
}

// Press marks an action as held. A new movement direction releases the
// others so turns do not wait for the old key to expire.
func (h *HeldKeys) Press(a core.Action) {
	if isMove(a) {
		for other := range h.ticks {
			if isMove(other) && other != a {
				delete(h.ticks, other)
			}
		}
	}
	if _, held := h.ticks[a]; held {
		h.ticks[a] = h.repeat
		return
	}
	h.ticks[a] = h.initial
}

// Apply sets every held action on frame and ages the holds by one tick.
func (h *HeldKeys) Apply(frame *core.InputFrame) {
	for a, n := range h.ticks {
		frame.Set(a)
		if n <= 1 {
			delete(h.ticks, a)
			continue
		}
		h.ticks[a] = n - 1
	}
}

// Release drops every hold.
func (h *HeldKeys) Release() {
	for a := range h.ticks {
		delete(h.ticks, a)
	}
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionHistory
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab", "h":
		return MenuActionHistory
	}

	return MenuActionNone
}
