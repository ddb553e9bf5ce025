// Package input normalizes keyboard and mouse presses from several sources into a
// uniform Event and delivers them to the trainer.
package input

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
)

// Kind distinguishes keyboard events from mouse button events.
type Kind uint8

const (
	KindKey Kind = iota
	KindMouse
)

func (k Kind) String() string {
	switch k {
	case KindKey:
		return "key"
	case KindMouse:
		return "mouse"
	default:
		return "unknown"
	}
}

// Canonical names shared by every source.
const (
	MouseLeft   = "MOUSE_LEFT"
	MouseRight  = "MOUSE_RIGHT"
	MouseMiddle = "MOUSE_MIDDLE"
	Escape      = "ESC"
	Space       = "SPACE"
)

// Event is a single normalized press.
type Event struct {
	Kind Kind
	Name string
}

// Key builds a keyboard event from a raw key name.
func Key(raw string) Event {
	return Event{Kind: KindKey, Name: NormalizeKeyName(raw)}
}

// Mouse builds a mouse event from a raw button identifier.
func Mouse(raw string) Event {
	return Event{Kind: KindMouse, Name: NormalizeButtonName(raw)}
}

// IsEscape reports whether the event is the escape key.
func (e Event) IsEscape() bool {
	return e.Kind == KindKey && e.Name == Escape
}

// keyAliases folds the spellings used by different toolkits onto one name.
var keyAliases = map[string]string{
	"ESCAPE":        Escape,
	"RETURN":        "ENTER",
	"BACK_SPACE":    "BACKSPACE",
	"PGUP":          "PAGE_UP",
	"PGDOWN":        "PAGE_DOWN",
	"LEFT_SHIFT":    "SHIFT",
	"RIGHT_SHIFT":   "SHIFT_R",
	"LEFT_CONTROL":  "CTRL_L",
	"RIGHT_CONTROL": "CTRL_R",
	"LEFT_ALT":      "ALT_L",
	"RIGHT_ALT":     "ALT_R",
	"LEFT_SUPER":    "CMD",
	"RIGHT_SUPER":   "CMD_R",
}

// NormalizeKeyName maps a raw key name to its canonical uppercase form. Printable
// single characters become their uppercase character; symbolic names lose any
// "Key." prefix and are uppercased, with CamelCase split into SCREAMING_SNAKE.
func NormalizeKeyName(raw string) string {
	if raw == " " {
		return Space
	}
	if utf8.RuneCountInString(raw) == 1 {
		r, _ := utf8.DecodeRuneInString(raw)
		if unicode.IsPrint(r) {
			return strings.ToUpper(raw)
		}
	}
	name := strings.TrimPrefix(strings.TrimSpace(raw), "Key.")
	if name == "" {
		return ""
	}
	if isCamel(name) {
		name = strcase.ToScreamingSnake(name)
	} else {
		name = strings.ToUpper(name)
	}
	if alias, ok := keyAliases[name]; ok {
		return alias
	}
	return name
}

// NormalizeButtonName maps a raw mouse button identifier to MOUSE_LEFT, MOUSE_RIGHT,
// MOUSE_MIDDLE, or the uppercased identifier when the button is not recognized.
func NormalizeButtonName(raw string) string {
	name := strings.ToUpper(strings.TrimSpace(raw))
	name = strings.TrimPrefix(name, "BUTTON.")
	switch name {
	case "LEFT", "PRIMARY", "BTN_LEFT", MouseLeft:
		return MouseLeft
	case "RIGHT", "SECONDARY", "BTN_RIGHT", MouseRight:
		return MouseRight
	case "MIDDLE", "TERTIARY", "BTN_MIDDLE", MouseMiddle:
		return MouseMiddle
	}
	return strings.ToUpper(strings.TrimSpace(raw))
}

// isCamel reports whether name mixes a lowercase letter followed by an uppercase one
// and carries no digits, e.g. "PageUp" but not "F12" or "page_up".
func isCamel(name string) bool {
	prevLower := false
	camel := false
	for _, r := range name {
		if unicode.IsDigit(r) {
			return false
		}
		if prevLower && unicode.IsUpper(r) {
			camel = true
		}
		prevLower = unicode.IsLower(r)
	}
	return camel
}
