package engine

import (
	"github.com/wbrown/janus-reasoner/reasoner"
)

// Derivation records how a derived fact was first produced
type Derivation struct {
	Fact     reasoner.Term
	Rule     Rule
	Premises []reasoner.Term // the rule's premises as instantiated
	Skolems  []reasoner.Atom // constants minted for an existential conclusion
}

// Explain returns the derivation chain behind fact: its own derivation
// first, then those of its derived premises, depth first. Given facts and
// unknown facts have no derivation and yield nil.
func (kb *KnowledgeBase) Explain(fact reasoner.Term) []Derivation {
	var out []Derivation
	visited := make(map[string]struct{})

	var walk func(reasoner.Term)
	walk = func(t reasoner.Term) {
		key := reasoner.Key(t)
		if _, ok := visited[key]; ok {
			return
		}
		visited[key] = struct{}{}

		d, ok := kb.derivations[key]
		if !ok {
			return
		}
		out = append(out, d)
		for _, p := range d.Premises {
			walk(p)
		}
	}
	walk(fact)
	return out
}

// IsDerived reports whether fact was produced by ForwardChain rather than given
func (kb *KnowledgeBase) IsDerived(fact reasoner.Term) bool {
	_, ok := kb.derivations[reasoner.Key(fact)]
	return ok
}
