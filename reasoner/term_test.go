package reasoner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsVariable(t *testing.T) {
	tests := []struct {
		term Term
		want bool
	}{
		{Variable("?x"), true},
		{Atom("x"), false},
		{Pred("p", "?x"), false},
		{Not{Operand: Variable("?x")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.term.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, IsVariable(tt.term))
		})
	}
}

func TestLift(t *testing.T) {
	assert.Equal(t, Variable("?who"), Lift("?who"))
	assert.Equal(t, Atom("alice"), Lift("alice"))
	assert.Equal(t, Atom("P"), Lift(Atom("P")))
	assert.Panics(t, func() { Lift(42) })
}

func TestSubstitute(t *testing.T) {
	subs := Substitution{
		"?x": Atom("alice"),
		"?y": Variable("?z"),
		"?z": Atom("carol"),
	}

	tests := []struct {
		name string
		in   Term
		want Term
	}{
		{"bound variable", Variable("?x"), Atom("alice")},
		{"unbound variable", Variable("?w"), Variable("?w")},
		{"atom", Atom("bob"), Atom("bob")},
		{"chained binding", Variable("?y"), Atom("carol")},
		{"predicate", Pred("parent", "?x", "?w"), Pred("parent", "alice", "?w")},
		{"nested", Pred("likes", "?x", Pred("pair", "?x", "?y")), Pred("likes", "alice", Pred("pair", "alice", "carol"))},
		{"connectives", And{Left: Not{Operand: Variable("?x")}, Right: Or{Left: Atom("P"), Right: Variable("?y")}},
			And{Left: Not{Operand: Atom("alice")}, Right: Or{Left: Atom("P"), Right: Atom("carol")}}},
		{"list", List{Pred("p", "?x"), Pred("q", "?z")}, List{Pred("p", "alice"), Pred("q", "carol")}},
		{"exists keeps binders", Exists{Vars: Vars("?x"), Body: Pred("loves", "?x", "?w")},
			Exists{Vars: Vars("?x"), Body: Pred("loves", "alice", "?w")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Substitute(tt.in, subs)
			assert.True(t, Equal(tt.want, got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestSubstituteDoesNotMutate(t *testing.T) {
	p := Pred("parent", "?x", "bob")
	_ = Substitute(p, Substitution{"?x": Atom("alice")})
	assert.Equal(t, Variable("?x"), p.Terms[0])
}

func TestIsGround(t *testing.T) {
	assert.True(t, IsGround(Pred("parent", "alice", "bob")))
	assert.False(t, IsGround(Pred("parent", "?x", "bob")))
	assert.False(t, IsGround(Variable("?x")))
	assert.True(t, IsGround(Atom("P")))
	// direct check only
	assert.True(t, IsGround(Pred("likes", "mia", Pred("pair", "?x", "cello"))))
	assert.True(t, ContainsVariable(Pred("likes", "mia", Pred("pair", "?x", "cello"))))
}

func TestVariablesOf(t *testing.T) {
	got := VariablesOf(Pred("likes", "?x", Pred("pair", "?x", "?y")))
	assert.Equal(t, []Variable{"?x", "?y"}, got)
}

func TestSubstitutionBind(t *testing.T) {
	s := Substitution{"?x": Atom("a")}
	ext := s.Bind("?y", Atom("b"))

	assert.Len(t, s, 1)
	assert.Len(t, ext, 2)
	assert.Equal(t, "{?x: a, ?y: b}", ext.String())
	assert.True(t, ext.Equal(Substitution{"?y": Atom("b"), "?x": Atom("a")}))
	assert.False(t, ext.Equal(s))
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name        string
		left, right Term
		want        int
	}{
		{"equal atoms", Atom("a"), Atom("a"), 0},
		{"atom order", Atom("a"), Atom("b"), -1},
		{"kind order", Atom("z"), Variable("?a"), -1},
		{"predicate name", Pred("a", "x"), Pred("b", "x"), -1},
		{"predicate arity", Pred("p", "x"), Pred("p", "x", "y"), -1},
		{"predicate args", Pred("p", "x", "b"), Pred("p", "x", "a"), 1},
		{"and is ordered", And{Left: Atom("P"), Right: Atom("Q")}, And{Left: Atom("Q"), Right: Atom("P")}, -1},
		{"nil first", nil, Atom("a"), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.left, tt.right))
			assert.Equal(t, -tt.want, Compare(tt.right, tt.left))
		})
	}

	assert.False(t, Equal(And{Left: Atom("P"), Right: Atom("Q")}, And{Left: Atom("Q"), Right: Atom("P")}))
}

func TestSortTerms(t *testing.T) {
	terms := []Term{Pred("q", "a"), Atom("b"), Pred("p", "b"), Atom("a")}
	SortTerms(terms)
	assert.Equal(t, []Term{Atom("a"), Atom("b"), Pred("p", "b"), Pred("q", "a")}, terms)
}

func TestTermString(t *testing.T) {
	tests := []struct {
		term Term
		want string
	}{
		{Pred("parent", "alice", "?x"), "parent(alice, ?x)"},
		{Not{Operand: Atom("P")}, "¬P"},
		{Implies{Premise: And{Left: Atom("P"), Right: Atom("Q")}, Conclusion: Atom("R")}, "(P ∧ Q) → R"},
		{Or{Left: Not{Operand: Atom("Q")}, Right: Not{Operand: Atom("S")}}, "¬Q ∨ ¬S"},
		{ForAll{Vars: Vars("?x", "?y"), Body: Implies{Premise: List{Pred("p", "?x")}, Conclusion: Pred("q", "?y")}},
			"∀?x,?y. [p(?x)] → q(?y)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.term.String())
		})
	}
}

func TestTermEncodingRoundTrip(t *testing.T) {
	terms := []Term{
		Atom("alice"),
		Atom(""),
		Variable("?x"),
		Pred("parent", "alice", "bob"),
		Pred("likes", "?x", Pred("pair", "?x", "?y")),
		Pred("nullary"),
		Not{Operand: Atom("P")},
		And{Left: Atom("P"), Right: Or{Left: Atom("Q"), Right: Atom("R")}},
		Implies{Premise: Atom("P"), Conclusion: Atom("Q")},
		List{},
		List{Atom("a"), Variable("?b")},
		ForAll{Vars: Vars("?x"), Body: Implies{Premise: List{Pred("p", "?x")}, Conclusion: Exists{Vars: Vars("?y"), Body: Pred("q", "?x", "?y")}}},
	}

	for _, term := range terms {
		t.Run(term.String(), func(t *testing.T) {
			got, err := DecodeTerm(EncodeTerm(term))
			require.NoError(t, err)
			assert.True(t, Equal(term, got), "want %s, got %s", term, got)
		})
	}
}

func TestEncodingDistinguishesTerms(t *testing.T) {
	pairs := [][2]Term{
		{Atom("P"), Variable("P")},
		{Pred("p", "ab"), Pred("p", "a", "b")},
		{Pred("ab"), Pred("a", "b")},
		{And{Left: Atom("P"), Right: Atom("Q")}, And{Left: Atom("Q"), Right: Atom("P")}},
		{Not{Operand: Atom("P")}, Pred("NOT", "P")},
	}
	for _, p := range pairs {
		assert.NotEqual(t, Key(p[0]), Key(p[1]), "%s vs %s", p[0], p[1])
	}
}

func TestDecodeTermErrors(t *testing.T) {
	_, err := DecodeTerm(nil)
	assert.Error(t, err)

	_, err = DecodeTerm([]byte{0xff})
	assert.Error(t, err)

	_, err = DecodeTerm(append(EncodeTerm(Atom("a")), 0))
	assert.Error(t, err)

	// length claims more bytes than present
	_, err = DecodeTerm([]byte{byte(KindAtom), 10, 'a'})
	assert.Error(t, err)
}

func TestIndexPrefix(t *testing.T) {
	pattern := Pred("parent", "?x", "bob")

	assert.Nil(t, IndexPrefix(Variable("?x")))
	assert.Equal(t, EncodeTerm(Atom("P")), IndexPrefix(Atom("P")))

	prefix := IndexPrefix(pattern)
	assert.True(t, hasPrefix(EncodeTerm(Pred("parent", "alice", "bob")), prefix))
	assert.True(t, hasPrefix(EncodeTerm(Pred("parent", "carol", "dave")), prefix))
	assert.False(t, hasPrefix(EncodeTerm(Pred("parent", "alice")), prefix))
	assert.False(t, hasPrefix(EncodeTerm(Pred("parents", "a", "b")), prefix))
	assert.False(t, hasPrefix(EncodeTerm(Pred("ancestor", "alice", "bob")), prefix))

	notPrefix := IndexPrefix(Not{Operand: Variable("?p")})
	assert.True(t, hasPrefix(EncodeTerm(Not{Operand: Atom("P")}), notPrefix))
	assert.False(t, hasPrefix(EncodeTerm(Atom("P")), notPrefix))
}

func hasPrefix(b, prefix []byte) bool {
	return len(b) >= len(prefix) && string(b[:len(prefix)]) == string(prefix)
}

func TestErrors(t *testing.T) {
	var err error = &ContradictionError{Fact: Not{Operand: Atom("P")}, Existing: Atom("P")}
	assert.True(t, errors.Is(err, ErrContradiction))
	assert.Equal(t, "contradictory fact: ¬P vs P", err.Error())

	var ce *ContradictionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, Atom("P"), ce.Existing)

	err = &MalformedRuleError{Rule: Atom("P"), Reason: "expected a universally quantified implication"}
	assert.True(t, errors.Is(err, ErrMalformedRule))
	assert.False(t, errors.Is(err, ErrContradiction))
	assert.Contains(t, err.Error(), "malformed rule P")
}
