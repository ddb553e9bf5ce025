// Package keylist loads target lists from presets, files and typed input.
package keylist

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

var aliases = map[string]string{
	"LMB":    "MOUSE_LEFT",
	"LEFT":   "MOUSE_LEFT",
	"RMB":    "MOUSE_RIGHT",
	"RIGHT":  "MOUSE_RIGHT",
	"MMB":    "MOUSE_MIDDLE",
	"MIDDLE": "MOUSE_MIDDLE",
}

// Canonical uppercases a typed name and expands mouse shorthands.
func Canonical(raw string) string {
	name := strings.ToUpper(strings.TrimSpace(raw))
	if alias, ok := aliases[name]; ok {
		return alias
	}
	return name
}

// ParseList splits comma-separated input into canonical names. Empty and invalid
// entries are dropped.
func ParseList(text string) []string {
	var names []string
	for _, part := range strings.Split(text, ",") {
		name := Canonical(part)
		if !Valid(name) {
			continue
		}
		names = append(names, name)
	}
	return names
}

// LoadTargets reads targets from path. Each line holds one or more comma-separated
// names; blank lines and lines starting with # are skipped.
func LoadTargets(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only target list.
			_ = cerr
		}
	}()

	var names []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, ParseList(line)...)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("target list is empty")
	}
	return names, nil
}
