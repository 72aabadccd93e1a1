// Package reasoner holds the term model shared by the unifier, the matcher
// and both forward-chaining engines.
//
// A term is one of a closed set of variants: atoms, variables, predicates,
// the propositional connectives (Not, And, Or, Implies), ordered lists, and
// the two quantifier wrappers (ForAll, Exists). Terms are immutable values;
// every operation in this package returns a new term instead of editing one.
package reasoner

import (
	"fmt"
	"strings"
)

// Kind identifies a term variant
type Kind uint8

const (
	KindAtom Kind = iota + 1
	KindVariable
	KindPredicate
	KindNot
	KindAnd
	KindOr
	KindImplies
	KindList
	KindForAll
	KindExists
)

// Reserved functors for the connective and quantifier variants.
// They double as the tags compared during unification.
const (
	FunctorNot     = "NOT"
	FunctorAnd     = "AND"
	FunctorOr      = "OR"
	FunctorImplies = "IMPLIES"
	FunctorList    = "LIST"
	FunctorForAll  = "FORALL"
	FunctorExists  = "EXISTS"
)

// VariablePrefix marks a symbol as a variable (e.g., ?x, ?who)
const VariablePrefix = '?'

func (k Kind) String() string {
	switch k {
	case KindAtom:
		return "atom"
	case KindVariable:
		return "variable"
	case KindPredicate:
		return "predicate"
	case KindNot:
		return "not"
	case KindAnd:
		return "and"
	case KindOr:
		return "or"
	case KindImplies:
		return "implies"
	case KindList:
		return "list"
	case KindForAll:
		return "forall"
	case KindExists:
		return "exists"
	default:
		return "unknown"
	}
}

// Term is any value the reasoner manipulates.
// The interface is sealed: only the variants in this package implement it.
type Term interface {
	Kind() Kind
	String() string
	isTerm()
}

// Compound is a term with a tag and ordered arguments.
// Unification compares Functor and len(Args) before descending into Args.
type Compound interface {
	Term
	Functor() string
	Args() []Term
}

// Atom is an opaque symbolic constant
type Atom string

// Variable is a placeholder symbol carrying the '?' prefix
type Variable string

// Predicate is a named relation applied to arguments, e.g. parent(alice, bob)
type Predicate struct {
	Name  string
	Terms []Term
}

// Not is the negation of a single operand
type Not struct {
	Operand Term
}

// And is a binary conjunction
type And struct {
	Left, Right Term
}

// Or is a binary disjunction
type Or struct {
	Left, Right Term
}

// Implies is a material implication. In first-order rule literals the
// premise is usually a List of predicate patterns.
type Implies struct {
	Premise    Term
	Conclusion Term
}

// List is an ordered sequence of terms, used for premise and variable lists
type List []Term

// ForAll universally quantifies Vars over Body.
// Vars is a binder list and is never rewritten by substitution.
type ForAll struct {
	Vars []Variable
	Body Term
}

// Exists marks Vars as witnesses to be skolemized when Body is concluded
type Exists struct {
	Vars []Variable
	Body Term
}

func (Atom) isTerm()      {}
func (Variable) isTerm()  {}
func (Predicate) isTerm() {}
func (Not) isTerm()       {}
func (And) isTerm()       {}
func (Or) isTerm()        {}
func (Implies) isTerm()   {}
func (List) isTerm()      {}
func (ForAll) isTerm()    {}
func (Exists) isTerm()    {}

func (Atom) Kind() Kind      { return KindAtom }
func (Variable) Kind() Kind  { return KindVariable }
func (Predicate) Kind() Kind { return KindPredicate }
func (Not) Kind() Kind       { return KindNot }
func (And) Kind() Kind       { return KindAnd }
func (Or) Kind() Kind        { return KindOr }
func (Implies) Kind() Kind   { return KindImplies }
func (List) Kind() Kind      { return KindList }
func (ForAll) Kind() Kind    { return KindForAll }
func (Exists) Kind() Kind    { return KindExists }

func (p Predicate) Functor() string { return p.Name }
func (p Predicate) Args() []Term    { return p.Terms }
func (n Not) Functor() string       { return FunctorNot }
func (n Not) Args() []Term          { return []Term{n.Operand} }
func (a And) Functor() string       { return FunctorAnd }
func (a And) Args() []Term          { return []Term{a.Left, a.Right} }
func (o Or) Functor() string        { return FunctorOr }
func (o Or) Args() []Term           { return []Term{o.Left, o.Right} }
func (i Implies) Functor() string   { return FunctorImplies }
func (i Implies) Args() []Term      { return []Term{i.Premise, i.Conclusion} }
func (l List) Functor() string      { return FunctorList }
func (l List) Args() []Term         { return []Term(l) }
func (f ForAll) Functor() string    { return FunctorForAll }
func (f ForAll) Args() []Term       { return []Term{varList(f.Vars), f.Body} }
func (e Exists) Functor() string    { return FunctorExists }
func (e Exists) Args() []Term       { return []Term{varList(e.Vars), e.Body} }

func varList(vars []Variable) List {
	out := make(List, len(vars))
	for i, v := range vars {
		out[i] = v
	}
	return out
}

// Pred builds a predicate term. String arguments that start with '?' become
// variables, other strings become atoms, and Terms are used as given.
func Pred(name string, args ...interface{}) Predicate {
	terms := make([]Term, len(args))
	for i, arg := range args {
		terms[i] = Lift(arg)
	}
	return Predicate{Name: name, Terms: terms}
}

// Lift converts a Go value into a term: Terms pass through, strings become
// a Variable or an Atom depending on the prefix.
func Lift(v interface{}) Term {
	switch val := v.(type) {
	case Term:
		return val
	case string:
		if IsVariableName(val) {
			return Variable(val)
		}
		return Atom(val)
	default:
		panic(fmt.Sprintf("reasoner: cannot lift %T into a term", v))
	}
}

// Vars builds a variable list from names
func Vars(names ...string) []Variable {
	out := make([]Variable, len(names))
	for i, n := range names {
		out[i] = Variable(n)
	}
	return out
}

// IsVariableName reports whether a raw symbol carries the variable prefix
func IsVariableName(s string) bool {
	return len(s) > 0 && s[0] == VariablePrefix
}

// IsVariable reports whether t is a variable
func IsVariable(t Term) bool {
	_, ok := t.(Variable)
	return ok
}

// String returns the string representation
func (a Atom) String() string { return string(a) }

// String returns the string representation
func (v Variable) String() string { return string(v) }

func (p Predicate) String() string {
	return p.Name + "(" + joinTerms(p.Terms, ", ") + ")"
}

func (n Not) String() string { return "¬" + wrap(n.Operand) }

func (a And) String() string { return wrap(a.Left) + " ∧ " + wrap(a.Right) }

func (o Or) String() string { return wrap(o.Left) + " ∨ " + wrap(o.Right) }

func (i Implies) String() string {
	return wrap(i.Premise) + " → " + wrap(i.Conclusion)
}

func (l List) String() string { return "[" + joinTerms(l, ", ") + "]" }

func (f ForAll) String() string {
	return "∀" + joinVars(f.Vars) + ". " + f.Body.String()
}

func (e Exists) String() string {
	return "∃" + joinVars(e.Vars) + ". " + e.Body.String()
}

// wrap parenthesizes binary connectives so nested output stays unambiguous
func wrap(t Term) string {
	switch t.(type) {
	case And, Or, Implies:
		return "(" + t.String() + ")"
	default:
		return t.String()
	}
}

func joinTerms(terms []Term, sep string) string {
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, sep)
}

func joinVars(vars []Variable) string {
	parts := make([]string, len(vars))
	for i, v := range vars {
		parts[i] = string(v)
	}
	return strings.Join(parts, ",")
}
