package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wbrown/janus-reasoner/reasoner"
)

func TestSubstitutions(t *testing.T) {
	tf := NewTableFormatter()

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, "_Columns: []_\n\n_No rows_", tf.Substitutions(nil))
	})

	t.Run("GroundPattern", func(t *testing.T) {
		out := tf.Substitutions([]reasoner.Substitution{{}})
		assert.Equal(t, "_yes (1 answers)_", out)
	})

	t.Run("SortedColumns", func(t *testing.T) {
		out := tf.Substitutions([]reasoner.Substitution{
			{"?y": reasoner.Atom("bob"), "?x": reasoner.Atom("alice")},
			{"?y": reasoner.Atom("carol"), "?x": reasoner.Atom("bob")},
		})
		header := strings.SplitN(out, "\n", 2)[0]
		assert.Less(t, strings.Index(header, "?x"), strings.Index(header, "?y"))
		assert.Contains(t, out, "alice")
		assert.Contains(t, out, "carol")
		assert.Contains(t, out, "_2 rows_")
	})

	t.Run("MissingBindingIsBlank", func(t *testing.T) {
		out := tf.Substitutions([]reasoner.Substitution{
			{"?x": reasoner.Atom("a")},
			{"?y": reasoner.Atom("b")},
		})
		assert.Contains(t, out, "?x")
		assert.Contains(t, out, "?y")
		assert.Contains(t, out, "_2 rows_")
	})
}

func TestFactsAndRules(t *testing.T) {
	tf := NewTableFormatter()

	out := tf.Facts([]reasoner.Term{
		reasoner.Pred("parent", "alice", "bob"),
		reasoner.Not{Operand: reasoner.Atom("R")},
	})
	assert.Contains(t, out, "fact")
	assert.Contains(t, out, "parent(alice, bob)")
	assert.Contains(t, out, "¬R")
	assert.Contains(t, out, "_2 rows_")

	rules := []reasoner.Implies{{Premise: reasoner.Atom("P"), Conclusion: reasoner.Atom("Q")}}
	out = tf.Rules(Stringers(rules))
	assert.Contains(t, out, "rule")
	assert.Contains(t, out, rules[0].String())
	assert.Contains(t, out, "_1 rows_")

	assert.Contains(t, tf.Facts(nil), "_No rows_")
}

func TestCellTruncation(t *testing.T) {
	tf := &TableFormatter{MaxWidth: 8, TruncateString: "..."}

	assert.Equal(t, "short", tf.cell("short"))
	assert.Equal(t, "abcde...", tf.cell("abcdefghijk"))
	assert.Equal(t, "¬¬¬¬¬...", tf.cell("¬¬¬¬¬¬¬¬¬¬"))

	tf.MaxWidth = 0
	assert.Equal(t, "abcdefghijk", tf.cell("abcdefghijk"))
}
