package extract

// PositionSet is the set of position keys already emitted in one run.
type PositionSet struct {
	keys map[string]struct{}
}

func NewPositionSet() *PositionSet {
	return &PositionSet{keys: make(map[string]struct{})}
}

// Add inserts key and reports whether it was not present before.
func (s *PositionSet) Add(key string) bool {
	if _, found := s.keys[key]; found {
		return false
	}
	s.keys[key] = struct{}{}
	return true
}

func (s *PositionSet) Contains(key string) bool {
	_, found := s.keys[key]
	return found
}

func (s *PositionSet) Len() int {
	return len(s.keys)
}
