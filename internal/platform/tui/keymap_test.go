package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-danmaku/internal/core"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name   string
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{"arrow up", tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp, false},
		{"arrow left", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft, false},
		{"wasd right", runeKey('d'), core.ActionRight, false},
		{"wasd down", runeKey('s'), core.ActionDown, false},
		{"fire z", runeKey('z'), core.ActionFire, false},
		{"fire space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionFire, false},
		{"pause", runeKey('p'), core.ActionPause, false},
		{"restart", runeKey('r'), core.ActionRestart, false},
		{"back", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack, false},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm, false},
		{"quit", runeKey('q'), core.ActionQuit, true},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{"unbound", runeKey('m'), core.ActionNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, quit := km.MapKey(tt.msg)
			if action != tt.action || quit != tt.quit {
				t.Errorf("MapKey(%q) = %v, %v; want %v, %v", tt.msg.String(), action, quit, tt.action, tt.quit)
			}
		})
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{runeKey('k'), MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyDown}, MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		{runeKey('b'), MenuActionBack},
		{runeKey('q'), MenuActionQuit},
		{runeKey('x'), MenuActionNone},
	}
	for _, tt := range tests {
		if got := km.MapKeyToMenuAction(tt.msg); got != tt.want {
			t.Errorf("MapKeyToMenuAction(%q) = %v, want %v", tt.msg.String(), got, tt.want)
		}
	}
}

func TestHeldInputHoldsPresses(t *testing.T) {
	h := NewHeldInput(3)
	h.Press(core.ActionLeft)

	for i := 0; i < 3; i++ {
		if f := h.Frame(); !f.Has(core.ActionLeft) {
			t.Fatalf("frame %d: left not held", i)
		}
	}
	if f := h.Frame(); f.Has(core.ActionLeft) {
		t.Error("left held past its hold time")
	}
}

func TestHeldInputRepeatRefreshes(t *testing.T) {
	h := NewHeldInput(2)
	h.Press(core.ActionFire)
	h.Frame()
	h.Press(core.ActionFire)
	h.Frame()
	if f := h.Frame(); !f.Has(core.ActionFire) {
		t.Error("repeat did not refresh the hold")
	}
}

func TestHeldInputOppositeCancels(t *testing.T) {
	h := NewHeldInput(10)
	h.Press(core.ActionLeft)
	h.Press(core.ActionRight)

	f := h.Frame()
	if f.Has(core.ActionLeft) || !f.Has(core.ActionRight) {
		t.Errorf("frame = %v, want only right", f.Actions)
	}
	if got := f.Axis(); got != core.V(1, 0) {
		t.Errorf("Axis() = %v, want (1, 0)", got)
	}
}

func TestHeldInputOneShots(t *testing.T) {
	h := NewHeldInput(10)
	h.Press(core.ActionPause)
	h.Press(core.ActionNone)

	if f := h.Frame(); !f.Has(core.ActionPause) || len(f.Actions) != 1 {
		t.Errorf("first frame = %v, want pause only", f.Actions)
	}
	if f := h.Frame(); f.Has(core.ActionPause) {
		t.Error("pause repeated on the next frame")
	}
}

func TestHeldInputAutoFireAndRelease(t *testing.T) {
	h := NewHeldInput(10)
	if !h.ToggleAutoFire() || !h.AutoFire() {
		t.Fatal("autofire did not turn on")
	}
	h.Press(core.ActionUp)
	h.Release()

	f := h.Frame()
	if !f.Has(core.ActionFire) || f.Has(core.ActionUp) {
		t.Errorf("frame = %v, want autofire only", f.Actions)
	}

	h.ToggleAutoFire()
	if f := h.Frame(); f.Has(core.ActionFire) {
		t.Error("autofire still on")
	}
}
