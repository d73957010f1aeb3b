package match

// Set is an insertion-ordered collection of matches keyed by identity.
// The first match added for a key is the one kept.
type Set struct {
	index map[Key]int
	items []Match
}

func NewSet(capacity int) *Set {
	return &Set{
		index: make(map[Key]int, capacity),
		items: make([]Match, 0, capacity),
	}
}

// Add inserts m unless its key is already present. It reports whether m
// was inserted.
func (s *Set) Add(m Match) bool {
	k := m.Key()
	if _, ok := s.index[k]; ok {
		return false
	}
	s.index[k] = len(s.items)
	s.items = append(s.items, m)
	return true
}

func (s *Set) Has(k Key) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[k]
	return ok
}

func (s *Set) Get(k Key) (Match, bool) {
	if s == nil {
		return Match{}, false
	}
	i, ok := s.index[k]
	if !ok {
		return Match{}, false
	}
	return s.items[i], true
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Items returns the matches in insertion order. The slice must not be
// modified.
func (s *Set) Items() []Match {
	if s == nil {
		return nil
	}
	return s.items
}

// Keys returns the identity keys in insertion order.
func (s *Set) Keys() []Key {
	keys := make([]Key, 0, s.Len())
	for _, m := range s.Items() {
		keys = append(keys, m.Key())
	}
	return keys
}

// Union merges sets in order; earlier sets win duplicate keys.
func Union(sets ...*Set) *Set {
	total := 0
	for _, s := range sets {
		total += s.Len()
	}
	out := NewSet(total)
	for _, s := range sets {
		for _, m := range s.Items() {
			out.Add(m)
		}
	}
	return out
}

// Intersect keeps the matches of first whose keys occur in every other set,
// in first's order and with first's payload.
func Intersect(first *Set, rest ...*Set) *Set {
	out := NewSet(first.Len())
	for _, m := range first.Items() {
		k := m.Key()
		keep := true
		for _, other := range rest {
			if !other.Has(k) {
				keep = false
				break
			}
		}
		if keep {
			out.Add(m)
		}
	}
	return out
}

// Subtract returns the matches of s whose keys are absent from other.
func (s *Set) Subtract(other *Set) *Set {
	if other.Len() == 0 {
		return s
	}
	out := NewSet(s.Len())
	for _, m := range s.Items() {
		if !other.Has(m.Key()) {
			out.Add(m)
		}
	}
	return out
}
