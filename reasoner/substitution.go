package reasoner

import (
	"sort"
	"strings"
)

// Substitution maps variables to the terms bound to them.
// A Substitution is treated as immutable once shared: Bind returns a copy.
type Substitution map[Variable]Term

// Lookup returns the direct binding of v, if any
func (s Substitution) Lookup(v Variable) (Term, bool) {
	t, ok := s[v]
	return t, ok
}

// Bind returns a new substitution extended with v -> t.
// The receiver is left untouched so callers can keep backtracking from it.
func (s Substitution) Bind(v Variable, t Term) Substitution {
	out := make(Substitution, len(s)+1)
	for k, val := range s {
		out[k] = val
	}
	out[v] = t
	return out
}

// Clone returns a shallow copy
func (s Substitution) Clone() Substitution {
	out := make(Substitution, len(s))
	for k, val := range s {
		out[k] = val
	}
	return out
}

// Variables returns the bound variables in sorted order
func (s Substitution) Variables() []Variable {
	vars := make([]Variable, 0, len(s))
	for v := range s {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })
	return vars
}

// Resolve returns the term v ultimately stands for under s
func (s Substitution) Resolve(v Variable) Term {
	return Substitute(v, s)
}

// Equal reports whether two substitutions bind the same variables to
// structurally equal terms
func (s Substitution) Equal(other Substitution) bool {
	if len(s) != len(other) {
		return false
	}
	for v, t := range s {
		o, ok := other[v]
		if !ok || !Equal(t, o) {
			return false
		}
	}
	return true
}

func (s Substitution) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, v := range s.Variables() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(string(v))
		b.WriteString(": ")
		b.WriteString(s[v].String())
	}
	b.WriteString("}")
	return b.String()
}

// Substitute replaces every bound variable in t with its binding, following
// chains of variable-to-variable bindings. The occurs-check performed at bind
// time guarantees those chains are acyclic.
//
// Non-variable atoms are returned unchanged, compounds are rebuilt element by
// element, and quantifier variable lists are left alone.
func Substitute(t Term, s Substitution) Term {
	if len(s) == 0 {
		return t
	}
	switch v := t.(type) {
	case Variable:
		if bound, ok := s[v]; ok {
			return Substitute(bound, s)
		}
		return v
	case Atom:
		return v
	case Predicate:
		return Predicate{Name: v.Name, Terms: substituteAll(v.Terms, s)}
	case Not:
		return Not{Operand: Substitute(v.Operand, s)}
	case And:
		return And{Left: Substitute(v.Left, s), Right: Substitute(v.Right, s)}
	case Or:
		return Or{Left: Substitute(v.Left, s), Right: Substitute(v.Right, s)}
	case Implies:
		return Implies{Premise: Substitute(v.Premise, s), Conclusion: Substitute(v.Conclusion, s)}
	case List:
		return List(substituteAll(v, s))
	case ForAll:
		return ForAll{Vars: v.Vars, Body: Substitute(v.Body, s)}
	case Exists:
		return Exists{Vars: v.Vars, Body: Substitute(v.Body, s)}
	default:
		return t
	}
}

func substituteAll(terms []Term, s Substitution) []Term {
	out := make([]Term, len(terms))
	for i, t := range terms {
		out[i] = Substitute(t, s)
	}
	return out
}

// IsGround reports whether no direct argument of a predicate is a variable.
// It is a syntactic check on the predicate itself; use ContainsVariable to
// inspect nested structure.
func IsGround(t Term) bool {
	switch v := t.(type) {
	case Variable:
		return false
	case Compound:
		for _, arg := range v.Args() {
			if IsVariable(arg) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// ContainsVariable reports whether a variable occurs anywhere inside t
func ContainsVariable(t Term) bool {
	switch v := t.(type) {
	case Variable:
		return true
	case Atom:
		return false
	case Compound:
		for _, arg := range v.Args() {
			if ContainsVariable(arg) {
				return true
			}
		}
	}
	return false
}

// VariablesOf returns the distinct variables occurring in t, in order of
// first appearance
func VariablesOf(t Term) []Variable {
	seen := make(map[Variable]struct{})
	var out []Variable
	var walk func(Term)
	walk = func(t Term) {
		switch v := t.(type) {
		case Variable:
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				out = append(out, v)
			}
		case Compound:
			for _, arg := range v.Args() {
				walk(arg)
			}
		}
	}
	walk(t)
	return out
}
