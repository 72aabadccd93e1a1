// Package propositional is the ground, rule-table reasoner.
//
// Facts are ground propositions: literals (an atomic proposition or its
// negation), conjunctions and disjunctions. Rules are ground implications.
// ForwardChain applies a fixed set of inference rules until nothing new is
// derived. There is no disjunctive addition rule.
//
// The fact set never holds a literal together with its negation; AddFact
// rejects the second of the two whichever order they arrive in.
package propositional

import (
	"fmt"

	"github.com/wbrown/janus-reasoner/reasoner"
	"github.com/wbrown/janus-reasoner/reasoner/store"
)

// KnowledgeBase holds ground facts and an ordered list of ground rules.
// It is not safe for concurrent use.
type KnowledgeBase struct {
	opts     Options
	facts    store.Store
	rules    []reasoner.Implies
	ruleKeys map[string]struct{}
}

// NewKnowledgeBase creates an empty knowledge base
func NewKnowledgeBase(opts Options) *KnowledgeBase {
	return &KnowledgeBase{
		opts:     opts,
		facts:    store.NewMemoryStore(),
		ruleKeys: make(map[string]struct{}),
	}
}

// New creates a knowledge base with default options, seeded with facts and rules
func New(facts []reasoner.Term, rules []reasoner.Term) (*KnowledgeBase, error) {
	kb := NewKnowledgeBase(DefaultOptions())
	for _, f := range facts {
		if _, err := kb.AddFact(f); err != nil {
			return nil, err
		}
	}
	for _, r := range rules {
		if _, err := kb.AddRule(r); err != nil {
			return nil, err
		}
	}
	return kb, nil
}

// AddFact inserts a ground proposition and reports whether it was new.
// A literal whose negation is already a fact is rejected with a
// *reasoner.ContradictionError.
func (kb *KnowledgeBase) AddFact(fact reasoner.Term) (bool, error) {
	if err := checkFact(fact); err != nil {
		return false, err
	}

	known, err := kb.facts.Contains(fact)
	if err != nil || known {
		return false, err
	}

	if IsLiteral(fact) {
		complement := Negate(fact)
		clash, err := kb.facts.Contains(complement)
		if err != nil {
			return false, err
		}
		if clash {
			return false, &reasoner.ContradictionError{Fact: fact, Existing: complement}
		}
	}
	return kb.facts.Add(fact)
}

func checkFact(fact reasoner.Term) error {
	if err := checkProposition(fact, fact, true); err != nil {
		return err
	}
	if reasoner.ContainsVariable(fact) {
		return fmt.Errorf("%w: %s is not ground", reasoner.ErrInvalidFact, fact)
	}
	return nil
}

// checkProposition rejects rules and quantified forms anywhere under the
// connectives, so no inference can take one apart into a bare rule
func checkProposition(t, fact reasoner.Term, top bool) error {
	switch v := t.(type) {
	case nil:
		if top {
			return fmt.Errorf("%w: nil fact", reasoner.ErrInvalidFact)
		}
		return fmt.Errorf("%w: %s has a missing operand", reasoner.ErrInvalidFact, fact)
	case reasoner.Implies:
		if top {
			return fmt.Errorf("%w: %s is a rule, use AddRule", reasoner.ErrInvalidFact, fact)
		}
		return fmt.Errorf("%w: %s nests the rule %s", reasoner.ErrInvalidFact, fact, v)
	case reasoner.ForAll, reasoner.Exists, reasoner.List:
		return fmt.Errorf("%w: %s is not a proposition", reasoner.ErrInvalidFact, t)
	case reasoner.Not:
		return checkProposition(v.Operand, fact, false)
	case reasoner.And:
		if err := checkProposition(v.Left, fact, false); err != nil {
			return err
		}
		return checkProposition(v.Right, fact, false)
	case reasoner.Or:
		if err := checkProposition(v.Left, fact, false); err != nil {
			return err
		}
		return checkProposition(v.Right, fact, false)
	}
	return nil
}

// AddRule appends a ground implication and reports whether it was new
func (kb *KnowledgeBase) AddRule(literal reasoner.Term) (bool, error) {
	rule, ok := literal.(reasoner.Implies)
	if !ok {
		return false, &reasoner.MalformedRuleError{Rule: literal, Reason: "expected an IMPLIES literal"}
	}
	if rule.Premise == nil || rule.Conclusion == nil {
		return false, &reasoner.MalformedRuleError{Rule: literal, Reason: "IMPLIES needs a premise and a conclusion"}
	}
	if reasoner.ContainsVariable(rule) {
		return false, &reasoner.MalformedRuleError{Rule: literal, Reason: "propositional rules must be ground"}
	}
	for _, side := range []reasoner.Term{rule.Premise, rule.Conclusion} {
		if checkFact(side) != nil {
			return false, &reasoner.MalformedRuleError{Rule: literal, Reason: side.String() + " is not a proposition"}
		}
	}
	return kb.addRule(rule), nil
}

func (kb *KnowledgeBase) addRule(rule reasoner.Implies) bool {
	key := reasoner.Key(rule)
	if _, ok := kb.ruleKeys[key]; ok {
		return false
	}
	kb.ruleKeys[key] = struct{}{}
	kb.rules = append(kb.rules, rule)
	return true
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

// HasRule reports whether rule is known
func (kb *KnowledgeBase) HasRule(rule reasoner.Implies) bool {
	_, ok := kb.ruleKeys[reasoner.Key(rule)]
	return ok
}

// Rules returns the rules in insertion order
func (kb *KnowledgeBase) Rules() []reasoner.Implies {
	out := make([]reasoner.Implies, len(kb.rules))
	copy(out, kb.rules)
	return out
}

// Len returns the number of facts
func (kb *KnowledgeBase) Len() int {
	return kb.facts.Len()
}

// IsLiteral reports whether t is an atomic proposition or the negation of one.
// Atoms and ground predicates count as atomic.
func IsLiteral(t reasoner.Term) bool {
	if n, ok := t.(reasoner.Not); ok {
		return isAtomic(n.Operand)
	}
	return isAtomic(t)
}

func isAtomic(t reasoner.Term) bool {
	switch t.(type) {
	case reasoner.Atom, reasoner.Predicate:
		return true
	}
	return false
}

// Negate returns the complement of t: the operand of a negation, otherwise
// the negation of t
func Negate(t reasoner.Term) reasoner.Term {
	if n, ok := t.(reasoner.Not); ok {
		return n.Operand
	}
	return reasoner.Not{Operand: t}
}
