package propositional

import (
	"github.com/wbrown/janus-reasoner/reasoner"
)

// View is the read-only state one pass infers from
type View struct {
	facts []reasoner.Term
	rules []reasoner.Implies
	keys  map[string]struct{}
}

// NewView indexes facts for membership tests
func NewView(facts []reasoner.Term, rules []reasoner.Implies) *View {
	keys := make(map[string]struct{}, len(facts))
	for _, f := range facts {
		keys[reasoner.Key(f)] = struct{}{}
	}
	return &View{facts: facts, rules: rules, keys: keys}
}

// Has reports whether t is a fact of the view
func (v *View) Has(t reasoner.Term) bool {
	_, ok := v.keys[reasoner.Key(t)]
	return ok
}

// Inference derives facts from a view
type Inference func(v *View) []reasoner.Term

// NamedInference pairs an inference with the name it is reported under
type NamedInference struct {
	Name  string
	Apply Inference
}

// Inferences are the fact-producing rules in the order a pass applies them.
// Hypothetical syllogism produces rules and runs separately.
var Inferences = []NamedInference{
	{"modus ponens", ModusPonens},
	{"modus tollens", ModusTollens},
	{"simplification", Simplification},
	{"conjunction", Conjunction},
	{"disjunctive syllogism", DisjunctiveSyllogism},
	{"constructive dilemma", ConstructiveDilemma},
	{"destructive dilemma", DestructiveDilemma},
}

// ModusPonens: P, P→Q ⊢ Q
func ModusPonens(v *View) []reasoner.Term {
	var out []reasoner.Term
	for _, r := range v.rules {
		if v.Has(r.Premise) {
			out = append(out, r.Conclusion)
		}
	}
	return out
}

// ModusTollens: ¬Q, P→Q ⊢ ¬P
func ModusTollens(v *View) []reasoner.Term {
	var out []reasoner.Term
	for _, r := range v.rules {
		if v.Has(Negate(r.Conclusion)) {
			out = append(out, Negate(r.Premise))
		}
	}
	return out
}

// Simplification: P∧Q ⊢ P, Q
func Simplification(v *View) []reasoner.Term {
	var out []reasoner.Term
	for _, f := range v.facts {
		if and, ok := f.(reasoner.And); ok {
			out = append(out, and.Left, and.Right)
		}
	}
	return out
}

// Conjunction: P, Q ⊢ P∧Q for every pair of distinct literal facts, once
// per pair, with the smaller literal on the left. Only literals are
// combined, so conjunctions never feed back into it.
func Conjunction(v *View) []reasoner.Term {
	var lits []reasoner.Term
	for _, f := range v.facts {
		if IsLiteral(f) {
			lits = append(lits, f)
		}
	}
	reasoner.SortTerms(lits)

	var out []reasoner.Term
	for i := range lits {
		for j := i + 1; j < len(lits); j++ {
			out = append(out, reasoner.And{Left: lits[i], Right: lits[j]})
		}
	}
	return out
}

// DisjunctiveSyllogism: P∨Q, ¬P ⊢ Q and P∨Q, ¬Q ⊢ P
func DisjunctiveSyllogism(v *View) []reasoner.Term {
	var out []reasoner.Term
	for _, f := range v.facts {
		or, ok := f.(reasoner.Or)
		if !ok {
			continue
		}
		if v.Has(Negate(or.Left)) {
			out = append(out, or.Right)
		}
		if v.Has(Negate(or.Right)) {
			out = append(out, or.Left)
		}
	}
	return out
}

// ConstructiveDilemma: P∨R, P→Q, R→S ⊢ Q∨S, for every matching pair of rules
func ConstructiveDilemma(v *View) []reasoner.Term {
	var out []reasoner.Term
	for _, f := range v.facts {
		or, ok := f.(reasoner.Or)
		if !ok {
			continue
		}
		for _, left := range v.rules {
			if !reasoner.Equal(left.Premise, or.Left) {
				continue
			}
			for _, right := range v.rules {
				if reasoner.Equal(right.Premise, or.Right) {
					out = append(out, reasoner.Or{Left: left.Conclusion, Right: right.Conclusion})
				}
			}
		}
	}
	return out
}

// DestructiveDilemma: ¬Q∨¬S, P→Q, R→S ⊢ ¬P∨¬R, for every matching pair of rules
func DestructiveDilemma(v *View) []reasoner.Term {
	var out []reasoner.Term
	for _, f := range v.facts {
		or, ok := f.(reasoner.Or)
		if !ok {
			continue
		}
		for _, left := range v.rules {
			if !reasoner.Equal(Negate(left.Conclusion), or.Left) {
				continue
			}
			for _, right := range v.rules {
				if reasoner.Equal(Negate(right.Conclusion), or.Right) {
					out = append(out, reasoner.Or{Left: Negate(left.Premise), Right: Negate(right.Premise)})
				}
			}
		}
	}
	return out
}

// HypotheticalSyllogism: P→Q, Q→R ⊢ P→R. It yields rules, never facts, and
// skips the tautology P→P.
func HypotheticalSyllogism(v *View) []reasoner.Implies {
	var out []reasoner.Implies
	for _, first := range v.rules {
		for _, second := range v.rules {
			if !reasoner.Equal(first.Conclusion, second.Premise) {
				continue
			}
			if reasoner.Equal(first.Premise, second.Conclusion) {
				continue
			}
			out = append(out, reasoner.Implies{Premise: first.Premise, Conclusion: second.Conclusion})
		}
	}
	return out
}
