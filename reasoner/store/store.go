// Package store holds the fact sets the reasoners chain over.
//
// A Store deduplicates facts by structural equality. A Snapshot is a stable,
// read-only view of a store: facts added after the snapshot was taken are
// invisible to it, which is what lets a derivation pass read from one view
// while its results are committed to the store afterwards.
package store

import (
	"fmt"

	"github.com/wbrown/janus-reasoner/reasoner"
)

// Store is a deduplicated set of facts
type Store interface {
	// Add inserts fact and reports whether it was not already present
	Add(fact reasoner.Term) (bool, error)
	Contains(fact reasoner.Term) (bool, error)
	Len() int
	// Snapshot returns a view of the facts present right now.
	// The caller must Close it.
	Snapshot() (Snapshot, error)
	Close() error
}

// Snapshot is a read-only view of a store at a point in time
type Snapshot interface {
	// Candidates returns every fact that could unify with pattern.
	// It may return facts that do not unify; it never omits one that does.
	Candidates(pattern reasoner.Term) ([]reasoner.Term, error)
	All() ([]reasoner.Term, error)
	Contains(fact reasoner.Term) (bool, error)
	Len() int
	Close() error
}

// Kind selects a store backend
type Kind string

const (
	Memory Kind = "memory"
	Badger Kind = "badger"
)

// ParseKind validates a backend name. The empty string selects Memory.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case "", Memory:
		return Memory, nil
	case Badger:
		return Badger, nil
	default:
		return "", fmt.Errorf("unknown store kind %q (want %q or %q)", s, Memory, Badger)
	}
}

// Open creates an empty store of the given kind
func Open(kind Kind) (Store, error) {
	k, err := ParseKind(string(kind))
	if err != nil {
		return nil, err
	}
	if k == Badger {
		return NewBadgerStore()
	}
	return NewMemoryStore(), nil
}

// AddAll inserts facts in order and returns how many were new
func AddAll(s Store, facts []reasoner.Term) (int, error) {
	added := 0
	for _, f := range facts {
		ok, err := s.Add(f)
		if err != nil {
			return added, err
		}
		if ok {
			added++
		}
	}
	return added, nil
}

// Sorted returns every fact in a snapshot ordered by reasoner.Compare
func Sorted(snap Snapshot) ([]reasoner.Term, error) {
	facts, err := snap.All()
	if err != nil {
		return nil, err
	}
	reasoner.SortTerms(facts)
	return facts, nil
}
