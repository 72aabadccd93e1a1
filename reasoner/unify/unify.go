// Package unify implements syntactic unification with an occurs-check.
//
// Unify never mutates the substitution it is given. A failed unification is
// reported as ok == false; it is ordinary control flow for the matcher and is
// never an error.
package unify

import "github.com/wbrown/janus-reasoner/reasoner"

// Unify finds the most general extension of subs that makes x and y
// structurally identical. Compound terms unify only when their functors and
// arities agree; arguments are unified left to right with the substitution
// threaded through, so a variable seen twice resolves to one binding.
func Unify(x, y reasoner.Term, subs reasoner.Substitution) (reasoner.Substitution, bool) {
	if subs == nil {
		subs = reasoner.Substitution{}
	}
	return unify(x, y, subs)
}

func unify(x, y reasoner.Term, subs reasoner.Substitution) (reasoner.Substitution, bool) {
	x = walk(x, subs)
	y = walk(y, subs)

	if reasoner.Equal(x, y) {
		return subs, true
	}

	if v, ok := x.(reasoner.Variable); ok {
		return unifyVar(v, y, subs)
	}
	if v, ok := y.(reasoner.Variable); ok {
		return unifyVar(v, x, subs)
	}

	xc, xok := x.(reasoner.Compound)
	yc, yok := y.(reasoner.Compound)
	if !xok || !yok {
		return nil, false
	}
	if x.Kind() != y.Kind() || xc.Functor() != yc.Functor() {
		return nil, false
	}

	xargs, yargs := xc.Args(), yc.Args()
	if len(xargs) != len(yargs) {
		return nil, false
	}

	var ok bool
	for i := range xargs {
		if subs, ok = unify(xargs[i], yargs[i], subs); !ok {
			return nil, false
		}
	}
	return subs, true
}

// unifyVar binds an unbound variable. Both sides have already been walked,
// so v is free under subs and value is either free or not a variable.
func unifyVar(v reasoner.Variable, value reasoner.Term, subs reasoner.Substitution) (reasoner.Substitution, bool) {
	if bound, ok := subs[v]; ok {
		return unify(bound, value, subs)
	}
	if w, ok := value.(reasoner.Variable); ok {
		if bound, ok := subs[w]; ok {
			return unify(v, bound, subs)
		}
	}
	if Occurs(v, value, subs) {
		return nil, false
	}
	return subs.Bind(v, value), true
}

// Occurs reports whether v appears in t, looking through any bindings the
// variables of t resolve to.
func Occurs(v reasoner.Variable, t reasoner.Term, subs reasoner.Substitution) bool {
	switch val := t.(type) {
	case reasoner.Variable:
		if val == v {
			return true
		}
		if bound, ok := subs[val]; ok {
			return Occurs(v, bound, subs)
		}
		return false
	case reasoner.Compound:
		for _, arg := range val.Args() {
			if Occurs(v, arg, subs) {
				return true
			}
		}
	}
	return false
}

// walk follows variable-to-term bindings at the top of t only
func walk(t reasoner.Term, subs reasoner.Substitution) reasoner.Term {
	for {
		v, ok := t.(reasoner.Variable)
		if !ok {
			return t
		}
		bound, ok := subs[v]
		if !ok {
			return t
		}
		t = bound
	}
}

