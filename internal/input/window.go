package input

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// fyne names a few keys after their X11 keysyms.
var fyneKeyNames = map[fyne.KeyName]string{
	fyne.KeyPageUp:   "PAGE_UP",
	fyne.KeyPageDown: "PAGE_DOWN",
	fyne.KeyEnter:    "ENTER",
}

// FromFyneKey normalizes a fyne key name such as "LeftShift" or "Escape".
func FromFyneKey(name fyne.KeyName) (Event, bool) {
	if mapped, ok := fyneKeyNames[name]; ok {
		return Event{Kind: KindKey, Name: mapped}, true
	}
	ev := Key(string(name))
	return ev, ev.Name != ""
}

// FromFyneButton normalizes a fyne mouse button.
func FromFyneButton(button desktop.MouseButton) Event {
	switch button {
	case desktop.MouseButtonPrimary:
		return Event{Kind: KindMouse, Name: MouseLeft}
	case desktop.MouseButtonSecondary:
		return Event{Kind: KindMouse, Name: MouseRight}
	case desktop.MouseButtonTertiary:
		return Event{Kind: KindMouse, Name: MouseMiddle}
	}
	return Mouse(fmt.Sprintf("button%d", button))
}
