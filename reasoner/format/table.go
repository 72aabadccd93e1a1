// Package format renders query answers, facts and rules as markdown tables.
package format

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/wbrown/janus-reasoner/reasoner"
)

// TableFormatter renders reasoner values as markdown tables
type TableFormatter struct {
	// MaxWidth is the maximum width of a cell; 0 disables truncation
	MaxWidth int
	// TruncateString is appended to truncated cells
	TruncateString string
}

// NewTableFormatter creates a table formatter with default settings
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		MaxWidth:       60,
		TruncateString: "...",
	}
}

// Substitutions renders query answers, one row per substitution. Columns
// are the variables bound by any answer, sorted by name.
func (tf *TableFormatter) Substitutions(answers []reasoner.Substitution) string {
	seen := make(map[reasoner.Variable]struct{})
	var vars []reasoner.Variable
	for _, s := range answers {
		for v := range s {
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				vars = append(vars, v)
			}
		}
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })

	// a ground pattern answers with empty substitutions
	if len(vars) == 0 && len(answers) > 0 {
		return fmt.Sprintf("_yes (%d answers)_", len(answers))
	}

	columns := make([]string, len(vars))
	for i, v := range vars {
		columns[i] = string(v)
	}

	rows := make([][]string, 0, len(answers))
	for _, s := range answers {
		row := make([]string, len(vars))
		for i, v := range vars {
			if t, ok := s.Lookup(v); ok {
				row[i] = tf.cell(t.String())
			}
		}
		rows = append(rows, row)
	}
	return tf.table(columns, rows)
}

// Facts renders one fact per row
func (tf *TableFormatter) Facts(facts []reasoner.Term) string {
	rows := make([][]string, len(facts))
	for i, f := range facts {
		rows[i] = []string{fmt.Sprintf("%d", i+1), tf.cell(f.String())}
	}
	return tf.table([]string{"#", "fact"}, rows)
}

// Rules renders anything with a String method, one per row
func (tf *TableFormatter) Rules(rules []fmt.Stringer) string {
	rows := make([][]string, len(rules))
	for i, r := range rules {
		rows[i] = []string{fmt.Sprintf("%d", i+1), tf.cell(r.String())}
	}
	return tf.table([]string{"#", "rule"}, rows)
}

func (tf *TableFormatter) table(columns []string, rows [][]string) string {
	if len(rows) == 0 {
		return fmt.Sprintf("_Columns: %v_\n\n_No rows_", columns)
	}

	out := &strings.Builder{}

	alignment := make([]tw.Align, len(columns))
	for i := range alignment {
		alignment[i] = tw.AlignNone
	}

	table := tablewriter.NewTable(out,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithAlignment(alignment),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header(columns)
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()

	out.WriteString(fmt.Sprintf("\n_%d rows_\n", len(rows)))
	return out.String()
}

func (tf *TableFormatter) cell(s string) string {
	if tf.MaxWidth <= 0 || utf8.RuneCountInString(s) <= tf.MaxWidth {
		return s
	}
	keep := tf.MaxWidth - utf8.RuneCountInString(tf.TruncateString)
	if keep < 0 {
		keep = 0
	}
	return string([]rune(s)[:keep]) + tf.TruncateString
}

// Stringers adapts a slice of any Stringer type for Rules
func Stringers[T fmt.Stringer](items []T) []fmt.Stringer {
	out := make([]fmt.Stringer, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}
