package keylist

import "unicode"

// Valid reports whether name can be used as a target: non-empty, no separators, no
// whitespace or control characters.
func Valid(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r == ',' || unicode.IsSpace(r) || unicode.IsControl(r) {
			return false
		}
	}
	return true
}
