package trainer

import "strings"

// TargetSet is an ordered set of unique uppercase target names.
type TargetSet struct {
	names []string
	index map[string]int
}

// NewTargetSet returns a set holding names in order, skipping duplicates.
func NewTargetSet(names ...string) *TargetSet {
	s := &TargetSet{index: make(map[string]int)}
	s.Add(names...)
	return s
}

func canonical(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Add appends names that are not already present and returns how many were added.
// Empty names and duplicates are ignored.
func (s *TargetSet) Add(names ...string) int {
	added := 0
	for _, raw := range names {
		name := canonical(raw)
		if name == "" {
			continue
		}
		if _, ok := s.index[name]; ok {
			continue
		}
		s.index[name] = len(s.names)
		s.names = append(s.names, name)
		added++
	}
	return added
}

// Remove deletes names from the set and returns how many were present.
func (s *TargetSet) Remove(names ...string) int {
	removed := 0
	for _, raw := range names {
		name := canonical(raw)
		idx, ok := s.index[name]
		if !ok {
			continue
		}
		s.names = append(s.names[:idx], s.names[idx+1:]...)
		delete(s.index, name)
		for i := idx; i < len(s.names); i++ {
			s.index[s.names[i]] = i
		}
		removed++
	}
	return removed
}

// Clear empties the set.
func (s *TargetSet) Clear() {
	s.names = nil
	s.index = make(map[string]int)
}

// Contains reports whether name is in the set, ignoring case.
func (s *TargetSet) Contains(name string) bool {
	_, ok := s.index[canonical(name)]
	return ok
}

// Names returns a copy of the names in insertion order.
func (s *TargetSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of targets.
func (s *TargetSet) Len() int {
	return len(s.names)
}
