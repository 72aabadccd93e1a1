package engine

import (
	"strings"

	"github.com/wbrown/janus-reasoner/reasoner"
)

// Rule is a parsed first-order rule:
//
//	∀ Variables. Premises[0] ∧ ... ∧ Premises[n-1] → Conclusion
//
// Conclusion is a Predicate or an Exists wrapping one. Variables are scoped
// to the rule.
type Rule struct {
	Variables  []reasoner.Variable
	Premises   []reasoner.Term
	Conclusion reasoner.Term
}

// ParseRule converts a rule literal of the form
//
//	ForAll{Vars, Implies{premises, conclusion}}
//
// into a Rule. premises may be a List, a tree of And, or a single predicate.
// The conclusion may be any term; an EXISTS conclusion is skolemized.
func ParseRule(literal reasoner.Term) (Rule, error) {
	fa, ok := literal.(reasoner.ForAll)
	if !ok {
		return Rule{}, malformed(literal, "expected a FORALL literal")
	}
	imp, ok := fa.Body.(reasoner.Implies)
	if !ok {
		return Rule{}, malformed(literal, "FORALL body must be an IMPLIES")
	}

	premises := flattenPremises(imp.Premise)
	for _, p := range premises {
		if _, ok := p.(reasoner.Predicate); !ok {
			return Rule{}, malformed(literal, "premise "+termString(p)+" is not a predicate")
		}
	}

	switch c := imp.Conclusion.(type) {
	case nil:
		return Rule{}, malformed(literal, "IMPLIES has no conclusion")
	case reasoner.Exists:
		if c.Body == nil {
			return Rule{}, malformed(literal, "EXISTS has no body")
		}
		if len(c.Vars) == 0 {
			return Rule{}, malformed(literal, "EXISTS declares no variables")
		}
	}

	return Rule{
		Variables:  fa.Vars,
		Premises:   premises,
		Conclusion: imp.Conclusion,
	}, nil
}

// flattenPremises accepts a List, an And tree, or a single premise
func flattenPremises(t reasoner.Term) []reasoner.Term {
	switch v := t.(type) {
	case nil:
		return nil
	case reasoner.List:
		out := make([]reasoner.Term, len(v))
		copy(out, v)
		return out
	case reasoner.And:
		return append(flattenPremises(v.Left), flattenPremises(v.Right)...)
	default:
		return []reasoner.Term{t}
	}
}

func malformed(rule reasoner.Term, reason string) error {
	return &reasoner.MalformedRuleError{Rule: rule, Reason: reason}
}

func termString(t reasoner.Term) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// Literal returns the canonical rule literal, with premises as a List
func (r Rule) Literal() reasoner.Term {
	return reasoner.ForAll{
		Vars: r.Variables,
		Body: reasoner.Implies{
			Premise:    reasoner.List(r.Premises),
			Conclusion: r.Conclusion,
		},
	}
}

// String renders the rule as ∀vars. p1 ∧ p2 → conclusion
func (r Rule) String() string {
	var b strings.Builder
	if len(r.Variables) > 0 {
		b.WriteString("∀")
		for i, v := range r.Variables {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(string(v))
		}
		b.WriteString(". ")
	}
	for i, p := range r.Premises {
		if i > 0 {
			b.WriteString(" ∧ ")
		}
		b.WriteString(p.String())
	}
	if len(r.Premises) == 0 {
		b.WriteString("⊤")
	}
	b.WriteString(" → ")
	b.WriteString(r.Conclusion.String())
	return b.String()
}
