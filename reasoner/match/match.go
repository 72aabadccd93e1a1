// Package match finds every substitution that satisfies an ordered list of
// premise patterns against a fact snapshot.
//
// The search is depth-first with backtracking, driven by an explicit stack
// instead of recursion. Premises are tried left to right; the bindings made
// for premise i are applied to premise i+1 before its candidates are fetched.
// Solutions are produced lazily through the usual iterator protocol:
//
//	it := match.Satisfying(premises, snap)
//	defer it.Close()
//	for it.Next() {
//		subs := it.Substitution()
//		...
//	}
//	if err := it.Err(); err != nil { ... }
package match

import (
	"fmt"

	"github.com/wbrown/janus-reasoner/reasoner"
	"github.com/wbrown/janus-reasoner/reasoner/store"
	"github.com/wbrown/janus-reasoner/reasoner/unify"
)

// frame is one level of the search: premise index len(stack)-1
type frame struct {
	pattern    reasoner.Term         // premise with earlier bindings applied
	subs       reasoner.Substitution // bindings on entry to this premise
	candidates []reasoner.Term       // facts that may unify with pattern
	pos        int                   // next candidate to try
}

// Iterator yields the satisfying substitutions for a premise list.
// It is finite because the snapshot is, and Reset restarts it from the
// first solution.
type Iterator struct {
	premises []reasoner.Term
	snap     store.Snapshot

	stack    []frame
	current  reasoner.Substitution
	err      error
	started  bool
	done     bool
	attempts int
}

// Satisfying returns an iterator over every substitution under which each
// premise unifies with some fact in snap. With no premises it yields exactly
// one empty substitution.
func Satisfying(premises []reasoner.Term, snap store.Snapshot) *Iterator {
	return &Iterator{premises: premises, snap: snap}
}

// Next advances to the next solution
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}

	if !it.started {
		it.started = true
		if len(it.premises) == 0 {
			it.current = reasoner.Substitution{}
			return true
		}
		if !it.push(reasoner.Substitution{}) {
			return false
		}
	} else if len(it.premises) == 0 {
		it.finish()
		return false
	}

	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		if top.pos >= len(top.candidates) {
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}

		fact := top.candidates[top.pos]
		top.pos++
		it.attempts++

		subs, ok := unify.Unify(top.pattern, fact, top.subs)
		if !ok {
			continue
		}
		if len(it.stack) == len(it.premises) {
			it.current = subs
			return true
		}
		if !it.push(subs) {
			return false
		}
	}

	it.finish()
	return false
}

// push opens a frame for the next premise under subs
func (it *Iterator) push(subs reasoner.Substitution) bool {
	premise := it.premises[len(it.stack)]
	pattern := reasoner.Substitute(premise, subs)

	candidates, err := it.snap.Candidates(pattern)
	if err != nil {
		it.err = fmt.Errorf("failed to fetch candidates for %s: %w", pattern, err)
		it.finish()
		return false
	}

	it.stack = append(it.stack, frame{
		pattern:    pattern,
		subs:       subs,
		candidates: candidates,
	})
	return true
}

func (it *Iterator) finish() {
	it.done = true
	it.stack = nil
	it.current = nil
}

// Substitution returns the current solution. Callers must not modify it.
func (it *Iterator) Substitution() reasoner.Substitution {
	return it.current
}

// Err returns the first error met while fetching candidates
func (it *Iterator) Err() error {
	return it.err
}

// Attempts returns how many unifications have been tried since the last Reset
func (it *Iterator) Attempts() int {
	return it.attempts
}

// Reset rewinds the iterator so the next call to Next yields the first
// solution again
func (it *Iterator) Reset() {
	it.stack = nil
	it.current = nil
	it.err = nil
	it.started = false
	it.done = false
	it.attempts = 0
}

// Close releases the search state. The snapshot belongs to the caller and
// stays open.
func (it *Iterator) Close() error {
	it.finish()
	return nil
}

// All drains it and closes it
func All(it *Iterator) ([]reasoner.Substitution, error) {
	defer it.Close()

	var out []reasoner.Substitution
	for it.Next() {
		out = append(out, it.Substitution())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
