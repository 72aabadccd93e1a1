package store

import (
	"sort"

	"github.com/wbrown/janus-reasoner/reasoner"
)

// MemoryStore keeps facts in insertion order with a per-shape index.
// Facts are never removed, so a snapshot is just a length: every position
// below it is frozen.
type MemoryStore struct {
	facts   []reasoner.Term
	keys    map[string]int   // encoded fact -> position
	buckets map[string][]int // index prefix -> ascending positions
	vars    []int            // positions of bare-variable facts
	closed  bool
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		keys:    make(map[string]int),
		buckets: make(map[string][]int),
	}
}

// Add inserts fact if no structurally equal fact is present
func (s *MemoryStore) Add(fact reasoner.Term) (bool, error) {
	if s.closed {
		return false, reasoner.ErrStoreClosed
	}
	key := reasoner.Key(fact)
	if _, ok := s.keys[key]; ok {
		return false, nil
	}

	pos := len(s.facts)
	s.facts = append(s.facts, fact)
	s.keys[key] = pos

	if reasoner.IsVariable(fact) {
		s.vars = append(s.vars, pos)
	} else {
		bucket := string(reasoner.IndexPrefix(fact))
		s.buckets[bucket] = append(s.buckets[bucket], pos)
	}
	return true, nil
}

func (s *MemoryStore) Contains(fact reasoner.Term) (bool, error) {
	if s.closed {
		return false, reasoner.ErrStoreClosed
	}
	_, ok := s.keys[reasoner.Key(fact)]
	return ok, nil
}

func (s *MemoryStore) Len() int {
	return len(s.facts)
}

func (s *MemoryStore) Snapshot() (Snapshot, error) {
	if s.closed {
		return nil, reasoner.ErrStoreClosed
	}
	return &memorySnapshot{store: s, n: len(s.facts)}, nil
}

func (s *MemoryStore) Close() error {
	s.closed = true
	s.facts = nil
	s.keys = nil
	s.buckets = nil
	s.vars = nil
	return nil
}

type memorySnapshot struct {
	store *MemoryStore
	n     int
}

func (m *memorySnapshot) Candidates(pattern reasoner.Term) ([]reasoner.Term, error) {
	if m.store.closed {
		return nil, reasoner.ErrStoreClosed
	}
	if reasoner.IsVariable(pattern) {
		return m.All()
	}

	bucket := m.visible(m.store.buckets[string(reasoner.IndexPrefix(pattern))])
	vars := m.visible(m.store.vars)

	out := make([]reasoner.Term, 0, len(bucket)+len(vars))
	for _, pos := range bucket {
		out = append(out, m.store.facts[pos])
	}
	for _, pos := range vars {
		out = append(out, m.store.facts[pos])
	}
	return out, nil
}

// visible trims an ascending position list to the snapshot
func (m *memorySnapshot) visible(positions []int) []int {
	return positions[:sort.SearchInts(positions, m.n)]
}

func (m *memorySnapshot) All() ([]reasoner.Term, error) {
	if m.store.closed {
		return nil, reasoner.ErrStoreClosed
	}
	out := make([]reasoner.Term, m.n)
	copy(out, m.store.facts[:m.n])
	return out, nil
}

func (m *memorySnapshot) Contains(fact reasoner.Term) (bool, error) {
	if m.store.closed {
		return false, reasoner.ErrStoreClosed
	}
	pos, ok := m.store.keys[reasoner.Key(fact)]
	return ok && pos < m.n, nil
}

func (m *memorySnapshot) Len() int {
	return m.n
}

func (m *memorySnapshot) Close() error {
	return nil
}
