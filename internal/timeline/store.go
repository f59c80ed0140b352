package timeline

// Store holds timelines by key, remembering creation order.
type Store struct {
	order     []string
	timelines map[string]*Timeline
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{timelines: make(map[string]*Timeline)}
}

// Get returns the timeline for key, or nil.
func (s *Store) Get(key string) *Timeline {
	return s.timelines[key]
}

// GetOrCreate returns the timeline for key, appending an empty one if absent.
func (s *Store) GetOrCreate(key string) *Timeline {
	if t, ok := s.timelines[key]; ok {
		return t
	}
	t := &Timeline{Key: key}
	s.timelines[key] = t
	s.order = append(s.order, key)
	return t
}

// Restart replaces the entries of key with a single first entry.
// An existing key keeps its creation position.
func (s *Store) Restart(key string, first Entry) *Timeline {
	t := s.GetOrCreate(key)
	t.Entries = []Entry{first}
	return t
}

// Len returns the number of timelines.
func (s *Store) Len() int {
	return len(s.order)
}

// All returns timelines in creation order.
func (s *Store) All() []*Timeline {
	all := make([]*Timeline, len(s.order))
	for i, key := range s.order {
		all[i] = s.timelines[key]
	}
	return all
}

// Frames returns timelines numbered from 1 in creation order.
func (s *Store) Frames() []Frame {
	frames := make([]Frame, len(s.order))
	for i, key := range s.order {
		frames[i] = Frame{No: i + 1, Timeline: s.timelines[key]}
	}
	return frames
}
