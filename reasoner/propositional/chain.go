package propositional

import (
	"errors"

	"github.com/wbrown/janus-reasoner/reasoner"
	"github.com/wbrown/janus-reasoner/reasoner/annotations"
)

// Stats summarizes a ForwardChain run
type Stats struct {
	Iterations     int  // passes completed
	FactsAdded     int  // new facts committed across all passes
	RulesAdded     int  // new rules from hypothetical syllogism
	Contradictions int  // derived facts dropped under Discard
	Fixpoint       bool // a pass added neither facts nor rules
}

// ForwardChain runs up to maxIterations passes. Each pass applies every
// inference to the facts and rules as they stood when the pass began, then
// commits the derived facts through AddFact and the derived rules after
// them. It stops early when a pass adds nothing. A negative bound is
// treated as zero.
func (kb *KnowledgeBase) ForwardChain(maxIterations int) (Stats, error) {
	if maxIterations < 0 {
		maxIterations = 0
	}

	ctx := annotations.NewContext(kb.opts.Handler)
	ctx.ChainBegin("propositional", kb.facts.Len(), len(kb.rules), maxIterations)

	var stats Stats
	var err error
	for stats.Iterations < maxIterations {
		iteration := stats.Iterations + 1

		var pass annotations.PassStats
		pass, err = ctx.ExecutePass(iteration, func() (annotations.PassStats, error) {
			return kb.pass(ctx, &stats)
		})
		stats.FactsAdded += pass.Facts
		stats.RulesAdded += pass.Rules
		if err != nil {
			break
		}

		stats.Iterations = iteration
		if pass.Facts == 0 && pass.Rules == 0 {
			stats.Fixpoint = true
			break
		}
	}

	ctx.ChainComplete(stats.Iterations, stats.FactsAdded, stats.Fixpoint, err)
	return stats, err
}

func (kb *KnowledgeBase) pass(ctx annotations.Context, stats *Stats) (annotations.PassStats, error) {
	snap, err := kb.facts.Snapshot()
	if err != nil {
		ctx.StoreError("snapshot", err)
		return annotations.PassStats{}, err
	}
	facts, err := snap.All()
	snap.Close()
	if err != nil {
		ctx.StoreError("snapshot", err)
		return annotations.PassStats{}, err
	}
	view := NewView(facts, kb.Rules())

	var derived []reasoner.Term
	for _, inf := range Inferences {
		out := inf.Apply(view)
		if len(out) > 0 {
			fresh := 0
			for _, f := range out {
				if !view.Has(f) {
					fresh++
				}
			}
			ctx.RuleFired(inf.Name, len(out), fresh)
		}
		derived = append(derived, out...)
	}
	newRules := HypotheticalSyllogism(view)

	var added annotations.PassStats
	for _, f := range derived {
		ok, err := kb.AddFact(f)
		var ce *reasoner.ContradictionError
		if errors.As(err, &ce) {
			discard := kb.opts.OnContradiction == Discard
			ctx.Contradiction(ce.Fact.String(), ce.Existing.String(), discard)
			if discard {
				stats.Contradictions++
				continue
			}
		}
		if err != nil {
			return added, err
		}
		if ok {
			added.Facts++
		}
	}

	fresh := 0
	for _, r := range newRules {
		if kb.addRule(r) {
			fresh++
		}
	}
	if len(newRules) > 0 {
		ctx.RuleFired("hypothetical syllogism", len(newRules), fresh)
	}
	added.Rules = fresh
	return added, nil
}
