// Package engine is the first-order forward-chaining reasoner.
//
// A KnowledgeBase holds facts and universally quantified rules. ForwardChain
// applies every rule to a snapshot of the facts, commits what was derived,
// and repeats until a pass derives nothing or the pass bound is reached.
// Existential conclusions are grounded with skolem constants minted from a
// counter the KnowledgeBase owns.
package engine

import (
	"fmt"

	"github.com/wbrown/janus-reasoner/reasoner"
	"github.com/wbrown/janus-reasoner/reasoner/store"
)

// KnowledgeBase owns a fact set, an ordered rule list and the skolem counter.
// It is not safe for concurrent use.
type KnowledgeBase struct {
	opts    Options
	facts   store.Store
	rules   []Rule
	skolems int

	// derivations records how each derived fact was first produced
	derivations map[string]Derivation
}

// NewKnowledgeBase creates an empty knowledge base
func NewKnowledgeBase(opts Options) (*KnowledgeBase, error) {
	opts, err := opts.validate()
	if err != nil {
		return nil, err
	}
	facts, err := store.Open(opts.Store)
	if err != nil {
		return nil, err
	}
	return &KnowledgeBase{
		opts:        opts,
		facts:       facts,
		derivations: make(map[string]Derivation),
	}, nil
}

// New creates a knowledge base with default options, seeded with facts and
// rule literals
func New(facts []reasoner.Term, rules []reasoner.Term) (*KnowledgeBase, error) {
	kb, err := NewKnowledgeBase(DefaultOptions())
	if err != nil {
		return nil, err
	}
	for _, f := range facts {
		if _, err := kb.AddFact(f); err != nil {
			kb.Close()
			return nil, err
		}
	}
	for _, r := range rules {
		if err := kb.AddRule(r); err != nil {
			kb.Close()
			return nil, err
		}
	}
	return kb, nil
}

// Close releases the fact store
func (kb *KnowledgeBase) Close() error {
	return kb.facts.Close()
}

// AddFact inserts fact and reports whether it was new
func (kb *KnowledgeBase) AddFact(fact reasoner.Term) (bool, error) {
	if fact == nil {
		return false, fmt.Errorf("%w: nil fact", reasoner.ErrInvalidFact)
	}
	if err := kb.checkReserved(fact); err != nil {
		return false, err
	}
	return kb.facts.Add(fact)
}

// AddRule parses a rule literal and appends it
func (kb *KnowledgeBase) AddRule(literal reasoner.Term) error {
	rule, err := ParseRule(literal)
	if err != nil {
		return err
	}
	return kb.AddParsedRule(rule)
}

// AddParsedRule appends an already parsed rule
func (kb *KnowledgeBase) AddParsedRule(rule Rule) error {
	if err := kb.checkReserved(rule.Literal()); err != nil {
		return err
	}
	kb.rules = append(kb.rules, rule)
	return nil
}

func (kb *KnowledgeBase) checkReserved(t reasoner.Term) error {
	if a, ok := reservedAtom(t, kb.opts.SkolemPrefix); ok {
		return fmt.Errorf("%w: %s starts with the skolem prefix %q", reasoner.ErrReservedSymbol, a, kb.opts.SkolemPrefix)
	}
	return nil
}

// Facts returns every fact, sorted
func (kb *KnowledgeBase) Facts() ([]reasoner.Term, error) {
	snap, err := kb.facts.Snapshot()
	if err != nil {
		return nil, err
	}
	defer snap.Close()
	return store.Sorted(snap)
}

// Contains reports whether fact is known
func (kb *KnowledgeBase) Contains(fact reasoner.Term) (bool, error) {
	return kb.facts.Contains(fact)
}

// Rules returns the rules in insertion order
func (kb *KnowledgeBase) Rules() []Rule {
	out := make([]Rule, len(kb.rules))
	copy(out, kb.rules)
	return out
}

// Len returns the number of facts
func (kb *KnowledgeBase) Len() int {
	return kb.facts.Len()
}

// SkolemCount returns how many skolem constants have been minted
func (kb *KnowledgeBase) SkolemCount() int {
	return kb.skolems
}

// Options returns the options in effect
func (kb *KnowledgeBase) Options() Options {
	return kb.opts
}
