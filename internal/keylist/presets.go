package keylist

import (
	"fmt"
	"sort"
)

var presets = map[string][]string{
	"home-row": {"A", "S", "D", "F", "J", "K", "L", ";"},
	"wasd":     {"W", "A", "S", "D", "SPACE", "SHIFT", "CTRL_L"},
	"arrows":   {"UP", "DOWN", "LEFT", "RIGHT"},
	"digits":   {"1", "2", "3", "4", "5", "6", "7", "8", "9", "0"},
	"f-keys":   {"F1", "F2", "F3", "F4", "F5", "F6", "F7", "F8", "F9", "F10", "F11", "F12"},
	"mouse":    {"MOUSE_LEFT", "MOUSE_RIGHT", "MOUSE_MIDDLE"},
}

// Preset returns a copy of the named built-in list.
func Preset(name string) ([]string, error) {
	names, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q", name)
	}
	out := make([]string, len(names))
	copy(out, names)
	return out, nil
}

// PresetNames lists built-in presets alphabetically.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
