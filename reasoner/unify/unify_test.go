package unify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/janus-reasoner/reasoner"
)

func TestUnify(t *testing.T) {
	tests := []struct {
		name string
		x, y reasoner.Term
		subs reasoner.Substitution
		want reasoner.Substitution
		ok   bool
	}{
		{
			name: "identical atoms",
			x:    reasoner.Atom("a"),
			y:    reasoner.Atom("a"),
			want: reasoner.Substitution{},
			ok:   true,
		},
		{
			name: "different atoms",
			x:    reasoner.Atom("a"),
			y:    reasoner.Atom("b"),
		},
		{
			name: "variable left",
			x:    reasoner.Variable("?x"),
			y:    reasoner.Atom("a"),
			want: reasoner.Substitution{"?x": reasoner.Atom("a")},
			ok:   true,
		},
		{
			name: "variable right",
			x:    reasoner.Atom("a"),
			y:    reasoner.Variable("?x"),
			want: reasoner.Substitution{"?x": reasoner.Atom("a")},
			ok:   true,
		},
		{
			name: "bound variable consistent",
			x:    reasoner.Variable("?x"),
			y:    reasoner.Atom("a"),
			subs: reasoner.Substitution{"?x": reasoner.Atom("a")},
			want: reasoner.Substitution{"?x": reasoner.Atom("a")},
			ok:   true,
		},
		{
			name: "bound variable conflicting",
			x:    reasoner.Variable("?x"),
			y:    reasoner.Atom("b"),
			subs: reasoner.Substitution{"?x": reasoner.Atom("a")},
		},
		{
			name: "nested consistent",
			x:    reasoner.Pred("likes", "?x", reasoner.Pred("pair", "?x", "?y")),
			y:    reasoner.Pred("likes", "mia", reasoner.Pred("pair", "mia", "cello")),
			want: reasoner.Substitution{"?x": reasoner.Atom("mia"), "?y": reasoner.Atom("cello")},
			ok:   true,
		},
		{
			name: "nested inconsistent",
			x:    reasoner.Pred("likes", "?x", reasoner.Pred("pair", "?x", "?y")),
			y:    reasoner.Pred("likes", "mia", reasoner.Pred("pair", "vincent", "cello")),
		},
		{
			name: "predicate name mismatch",
			x:    reasoner.Pred("parent", "?x", "bob"),
			y:    reasoner.Pred("ancestor", "alice", "bob"),
		},
		{
			name: "arity mismatch",
			x:    reasoner.Pred("parent", "?x"),
			y:    reasoner.Pred("parent", "alice", "bob"),
		},
		{
			name: "connective tag mismatch",
			x:    reasoner.And{Left: reasoner.Variable("?p"), Right: reasoner.Atom("Q")},
			y:    reasoner.Or{Left: reasoner.Atom("P"), Right: reasoner.Atom("Q")},
		},
		{
			name: "predicate named like a connective",
			x:    reasoner.Not{Operand: reasoner.Variable("?p")},
			y:    reasoner.Pred("NOT", "P"),
		},
		{
			name: "connectives",
			x:    reasoner.Implies{Premise: reasoner.Variable("?p"), Conclusion: reasoner.Not{Operand: reasoner.Variable("?q")}},
			y:    reasoner.Implies{Premise: reasoner.Atom("P"), Conclusion: reasoner.Not{Operand: reasoner.Atom("Q")}},
			want: reasoner.Substitution{"?p": reasoner.Atom("P"), "?q": reasoner.Atom("Q")},
			ok:   true,
		},
		{
			name: "variable to variable",
			x:    reasoner.Pred("p", "?x", "?x"),
			y:    reasoner.Pred("p", "?y", "a"),
			want: reasoner.Substitution{"?x": reasoner.Variable("?y"), "?y": reasoner.Atom("a")},
			ok:   true,
		},
		{
			name: "atom against compound",
			x:    reasoner.Atom("p"),
			y:    reasoner.Pred("p"),
		},
		{
			name: "occurs check direct",
			x:    reasoner.Variable("?x"),
			y:    reasoner.Pred("f", "?x"),
		},
		{
			name: "occurs check through binding",
			x:    reasoner.Variable("?x"),
			y:    reasoner.Pred("f", "?y"),
			subs: reasoner.Substitution{"?y": reasoner.Pred("g", "?x")},
		},
		{
			name: "same variable",
			x:    reasoner.Variable("?x"),
			y:    reasoner.Variable("?x"),
			want: reasoner.Substitution{},
			ok:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Unify(tt.x, tt.y, tt.subs)
			require.Equal(t, tt.ok, ok)
			if !tt.ok {
				assert.Nil(t, got)
				return
			}
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestUnifyResolvesToConsistentBinding(t *testing.T) {
	pattern := reasoner.Pred("likes", "?x", reasoner.Pred("pair", "?x", "?y"))
	fact := reasoner.Pred("likes", "mia", reasoner.Pred("pair", "mia", "cello"))

	subs, ok := Unify(pattern, fact, nil)
	require.True(t, ok)
	assert.Equal(t, reasoner.Atom("mia"), subs.Resolve("?x"))
	assert.Equal(t, reasoner.Atom("cello"), subs.Resolve("?y"))
	assert.True(t, reasoner.Equal(fact, reasoner.Substitute(pattern, subs)))
}

func TestUnifyDoesNotMutateInput(t *testing.T) {
	subs := reasoner.Substitution{"?x": reasoner.Atom("alice")}

	got, ok := Unify(reasoner.Pred("parent", "?x", "?y"), reasoner.Pred("parent", "alice", "bob"), subs)
	require.True(t, ok)
	assert.Len(t, got, 2)
	assert.Len(t, subs, 1)

	_, ok = Unify(reasoner.Pred("parent", "?z", "carol"), reasoner.Pred("parent", "alice", "bob"), subs)
	assert.False(t, ok)
	assert.Len(t, subs, 1)
}

func TestUnifyIsSymmetric(t *testing.T) {
	pairs := [][2]reasoner.Term{
		{reasoner.Pred("p", "?x", "b"), reasoner.Pred("p", "a", "?y")},
		{reasoner.Pred("p", "?x", "?x"), reasoner.Pred("p", "a", "b")},
		{reasoner.Variable("?x"), reasoner.Pred("f", "?x")},
	}
	for _, p := range pairs {
		s1, ok1 := Unify(p[0], p[1], nil)
		s2, ok2 := Unify(p[1], p[0], nil)
		require.Equal(t, ok1, ok2, "%s ~ %s", p[0], p[1])
		if ok1 {
			assert.True(t, reasoner.Equal(reasoner.Substitute(p[0], s1), reasoner.Substitute(p[0], s2)))
		}
	}
}

func TestOccurs(t *testing.T) {
	subs := reasoner.Substitution{"?y": reasoner.Pred("g", "?x")}

	assert.True(t, Occurs("?x", reasoner.Variable("?x"), nil))
	assert.True(t, Occurs("?x", reasoner.Pred("f", "a", reasoner.Pred("g", "?x")), nil))
	assert.True(t, Occurs("?x", reasoner.Variable("?y"), subs))
	assert.False(t, Occurs("?x", reasoner.Variable("?y"), nil))
	assert.False(t, Occurs("?x", reasoner.Atom("?x"), nil))
}
