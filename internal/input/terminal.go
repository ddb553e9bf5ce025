package input

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// FromKeyMsg normalizes a Bubble Tea key press. It reports false for messages that
// carry no key, such as an empty rune batch.
func FromKeyMsg(msg tea.KeyMsg) (Event, bool) {
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return Event{}, false
		}
		name := NormalizeKeyName(string(msg.Runes[0]))
		if msg.Alt {
			name = "ALT+" + name
		}
		return Event{Kind: KindKey, Name: name}, true
	case tea.KeySpace:
		return Event{Kind: KindKey, Name: Space}, true
	}
	name := NormalizeKeyName(msg.String())
	if name == "" {
		return Event{}, false
	}
	return Event{Kind: KindKey, Name: name}, true
}

// FromMouseMsg normalizes a Bubble Tea mouse message. Only button presses count;
// releases, motion and wheel events are dropped.
func FromMouseMsg(msg tea.MouseMsg) (Event, bool) {
	ev := tea.MouseEvent(msg)
	if ev.Action != tea.MouseActionPress || ev.IsWheel() {
		return Event{}, false
	}
	switch ev.Button {
	case tea.MouseButtonNone:
		return Event{}, false
	case tea.MouseButtonLeft:
		return Event{Kind: KindMouse, Name: MouseLeft}, true
	case tea.MouseButtonRight:
		return Event{Kind: KindMouse, Name: MouseRight}, true
	case tea.MouseButtonMiddle:
		return Event{Kind: KindMouse, Name: MouseMiddle}, true
	}
	if raw, ok := extraButtons[ev.Button]; ok {
		return Mouse(raw), true
	}
	return Mouse(fmt.Sprintf("button%d", ev.Button)), true
}

var extraButtons = map[tea.MouseButton]string{
	tea.MouseButtonBackward: "backward",
	tea.MouseButtonForward:  "forward",
	tea.MouseButton10:       "button10",
	tea.MouseButton11:       "button11",
}
