package engine

import (
	"fmt"

	"github.com/wbrown/janus-reasoner/reasoner"
	"github.com/wbrown/janus-reasoner/reasoner/annotations"
	"github.com/wbrown/janus-reasoner/reasoner/match"
	"github.com/wbrown/janus-reasoner/reasoner/store"
	"github.com/wbrown/janus-reasoner/reasoner/unify"
)

// Stats summarizes a ForwardChain run
type Stats struct {
	Iterations int  // passes completed
	FactsAdded int  // new facts committed across all passes
	Fixpoint   bool // a pass derived nothing new
}

// ForwardChain runs up to maxIterations derivation passes and stops early
// at a fixpoint. Running out of passes is not an error. A negative bound is
// treated as zero.
func (kb *KnowledgeBase) ForwardChain(maxIterations int) (Stats, error) {
	if maxIterations < 0 {
		maxIterations = 0
	}

	ctx := annotations.NewContext(kb.opts.Handler)
	ctx.ChainBegin("first-order", kb.facts.Len(), len(kb.rules), maxIterations)

	var stats Stats
	var err error
	for stats.Iterations < maxIterations {
		iteration := stats.Iterations + 1

		var pass annotations.PassStats
		pass, err = ctx.ExecutePass(iteration, func() (annotations.PassStats, error) {
			return kb.pass(ctx)
		})
		stats.FactsAdded += pass.Facts
		if err != nil {
			break
		}

		stats.Iterations = iteration
		if pass.Facts == 0 {
			stats.Fixpoint = true
			break
		}
	}

	ctx.ChainComplete(stats.Iterations, stats.FactsAdded, stats.Fixpoint, err)
	return stats, err
}

// pass derives everything the rules yield over a snapshot taken now, then
// commits it. Nothing derived in this pass is visible to its own matching;
// only existential checks also see the pass's pending facts.
func (kb *KnowledgeBase) pass(ctx annotations.Context) (annotations.PassStats, error) {
	snap, err := kb.facts.Snapshot()
	if err != nil {
		ctx.StoreError("snapshot", err)
		return annotations.PassStats{}, err
	}
	defer snap.Close()

	pending := newPending()
	for i := range kb.rules {
		if err := kb.applyRule(ctx, &kb.rules[i], snap, pending); err != nil {
			return annotations.PassStats{}, err
		}
	}

	added := 0
	for _, d := range pending.items {
		ok, err := kb.facts.Add(d.Fact)
		if err != nil {
			ctx.StoreError("add", err)
			return annotations.PassStats{Facts: added}, err
		}
		if ok {
			added++
			kb.derivations[reasoner.Key(d.Fact)] = d
		}
	}
	return annotations.PassStats{Facts: added}, nil
}

// applyRule instantiates rule's conclusion for every satisfying substitution
func (kb *KnowledgeBase) applyRule(ctx annotations.Context, rule *Rule, snap store.Snapshot, pending *pendingFacts) error {
	it := match.Satisfying(rule.Premises, snap)
	defer it.Close()

	solutions, derived := 0, 0
	for it.Next() {
		solutions++
		subs := it.Substitution()

		fact, skolems, err := kb.conclude(ctx, rule, subs, snap, pending)
		if err != nil {
			return err
		}
		if fact == nil {
			continue
		}

		known, err := snap.Contains(fact)
		if err != nil {
			ctx.StoreError("contains", err)
			return err
		}
		if known {
			continue
		}

		premises := make([]reasoner.Term, len(rule.Premises))
		for i, p := range rule.Premises {
			premises[i] = reasoner.Substitute(p, subs)
		}
		if pending.add(Derivation{Fact: fact, Rule: *rule, Premises: premises, Skolems: skolems}) {
			derived++
		}
	}
	if err := it.Err(); err != nil {
		ctx.StoreError("match", err)
		return err
	}

	if solutions > 0 {
		ctx.RuleFired(rule.String(), solutions, derived)
	}
	return nil
}

// conclude grounds the conclusion under subs. A nil fact means an
// existential conclusion that some fact already satisfies.
func (kb *KnowledgeBase) conclude(ctx annotations.Context, rule *Rule, subs reasoner.Substitution, snap store.Snapshot, pending *pendingFacts) (reasoner.Term, []reasoner.Atom, error) {
	ex, ok := rule.Conclusion.(reasoner.Exists)
	if !ok {
		return reasoner.Substitute(rule.Conclusion, subs), nil, nil
	}

	// the quantified variables stay free even if a premise reused the name
	outer := subs.Clone()
	for _, v := range ex.Vars {
		delete(outer, v)
	}
	pattern := reasoner.Substitute(ex.Body, outer)

	satisfied, err := kb.satisfied(pattern, snap, pending)
	if err != nil {
		return nil, nil, err
	}
	if satisfied {
		return nil, nil, nil
	}

	witnesses := outer
	skolems := make([]reasoner.Atom, len(ex.Vars))
	for i, v := range ex.Vars {
		skolems[i] = kb.mintSkolem()
		witnesses = witnesses.Bind(v, skolems[i])
	}
	fact := reasoner.Substitute(ex.Body, witnesses)
	for _, sk := range skolems {
		ctx.SkolemMinted(string(sk), fact.String())
	}
	return fact, skolems, nil
}

// satisfied reports whether pattern unifies with a fact in the snapshot or
// one derived earlier in this pass
func (kb *KnowledgeBase) satisfied(pattern reasoner.Term, snap store.Snapshot, pending *pendingFacts) (bool, error) {
	candidates, err := snap.Candidates(pattern)
	if err != nil {
		return false, fmt.Errorf("failed to check existential %s: %w", pattern, err)
	}
	for _, c := range candidates {
		if _, ok := unify.Unify(pattern, c, nil); ok {
			return true, nil
		}
	}
	for _, d := range pending.items {
		if _, ok := unify.Unify(pattern, d.Fact, nil); ok {
			return true, nil
		}
	}
	return false, nil
}

func (kb *KnowledgeBase) mintSkolem() reasoner.Atom {
	sk := reasoner.Atom(fmt.Sprintf("%s%d", kb.opts.SkolemPrefix, kb.skolems))
	kb.skolems++
	return sk
}

// pendingFacts collects a pass's derivations in order, deduplicated
type pendingFacts struct {
	items []Derivation
	seen  map[string]struct{}
}

func newPending() *pendingFacts {
	return &pendingFacts{seen: make(map[string]struct{})}
}

func (p *pendingFacts) add(d Derivation) bool {
	key := reasoner.Key(d.Fact)
	if _, ok := p.seen[key]; ok {
		return false
	}
	p.seen[key] = struct{}{}
	p.items = append(p.items, d)
	return true
}
