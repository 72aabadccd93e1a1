package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wbrown/janus-reasoner/reasoner"
	"github.com/wbrown/janus-reasoner/reasoner/engine"
	"github.com/wbrown/janus-reasoner/reasoner/format"
	"github.com/wbrown/janus-reasoner/reasoner/propositional"
	"go.uber.org/zap"
)

type scenario struct {
	name  string
	short string
	title string
	run   func(e *env) error
}

var scenarios = []scenario{
	{"family", "Transitive ancestors over a parent chain", "Family: transitive closure", runFamily},
	{"skolem", "Existential conclusions and skolem constants", "Skolem: existential conclusions", runSkolem},
	{"propositional", "The propositional rule set and contradiction handling", "Propositional: rules of inference", runPropositional},
}

func forall(vars string, conclusion reasoner.Term, premises ...reasoner.Term) reasoner.Term {
	return reasoner.ForAll{
		Vars: reasoner.Vars(strings.Fields(vars)...),
		Body: reasoner.Implies{Premise: reasoner.List(premises), Conclusion: conclusion},
	}
}

func familyFacts() []reasoner.Term {
	return []reasoner.Term{
		reasoner.Pred("parent", "alice", "bob"),
		reasoner.Pred("parent", "bob", "carol"),
		reasoner.Pred("parent", "carol", "dana"),
	}
}

func familyRules() []reasoner.Term {
	return []reasoner.Term{
		forall("?x ?y", reasoner.Pred("ancestor", "?x", "?y"),
			reasoner.Pred("parent", "?x", "?y")),
		forall("?x ?y ?z", reasoner.Pred("ancestor", "?x", "?z"),
			reasoner.Pred("parent", "?x", "?y"), reasoner.Pred("ancestor", "?y", "?z")),
	}
}

func skolemFacts() []reasoner.Term {
	return []reasoner.Term{
		reasoner.Pred("parent", "mia"),
		reasoner.Pred("parent", "larry"),
		reasoner.Pred("loves", "larry", "cello"),
	}
}

func skolemRules() []reasoner.Term {
	return []reasoner.Term{
		forall("?x", reasoner.Exists{
			Vars: reasoner.Vars("?y"),
			Body: reasoner.Pred("loves", "?x", "?y"),
		}, reasoner.Pred("parent", "?x")),
	}
}

// firstOrder seeds a knowledge base from the configuration and chains it
func firstOrder(e *env, facts, rules []reasoner.Term) (*engine.KnowledgeBase, error) {
	opts, err := e.cfg.EngineOptions(e.handler)
	if err != nil {
		return nil, err
	}
	kb, err := engine.NewKnowledgeBase(opts)
	if err != nil {
		return nil, err
	}
	for _, f := range facts {
		if _, err := kb.AddFact(f); err != nil {
			kb.Close()
			return nil, err
		}
	}
	for _, r := range rules {
		if err := kb.AddRule(r); err != nil {
			kb.Close()
			return nil, err
		}
	}

	stats, err := kb.ForwardChain(e.cfg.FirstOrderIterations())
	if err != nil {
		kb.Close()
		return nil, err
	}
	e.logger.Info("forward chaining finished",
		zap.String("store", string(opts.Store)),
		zap.Int("iterations", stats.Iterations),
		zap.Int("facts.added", stats.FactsAdded),
		zap.Bool("fixpoint", stats.Fixpoint),
	)
	fmt.Fprintf(e.out, "%d passes, %d facts derived, fixpoint %t\n\n", stats.Iterations, stats.FactsAdded, stats.Fixpoint)
	return kb, nil
}

func printFacts(e *env, kb *engine.KnowledgeBase) error {
	facts, err := kb.Facts()
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out, e.tables.Facts(facts))
	return nil
}

func printQuery(e *env, kb *engine.KnowledgeBase, pattern reasoner.Term) error {
	answers, err := kb.Query(pattern)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "### %s\n\n%s\n", pattern, e.tables.Substitutions(answers))
	return nil
}

func runFamily(e *env) error {
	kb, err := firstOrder(e, familyFacts(), familyRules())
	if err != nil {
		return err
	}
	defer kb.Close()

	if err := printFacts(e, kb); err != nil {
		return err
	}
	for _, q := range []reasoner.Term{
		reasoner.Pred("ancestor", "?who", "dana"),
		reasoner.Pred("ancestor", "alice", "?descendant"),
		reasoner.Pred("ancestor", "dana", "alice"),
	} {
		if err := printQuery(e, kb, q); err != nil {
			return err
		}
	}
	return nil
}

func runSkolem(e *env) error {
	kb, err := firstOrder(e, skolemFacts(), skolemRules())
	if err != nil {
		return err
	}
	defer kb.Close()

	if err := printFacts(e, kb); err != nil {
		return err
	}
	if err := printQuery(e, kb, reasoner.Pred("loves", "?lover", "?beloved")); err != nil {
		return err
	}

	facts, err := kb.Facts()
	if err != nil {
		return err
	}
	for _, f := range facts {
		chain := kb.Explain(f)
		if len(chain) > 0 && len(chain[0].Skolems) > 0 {
			fmt.Fprintf(e.out, "- %s by %s, minting %v\n", f, chain[0].Rule, chain[0].Skolems)
		}
	}
	return nil
}

func propositionalFacts() []reasoner.Term {
	P, Q, R := reasoner.Atom("P"), reasoner.Atom("Q"), reasoner.Atom("R")
	return []reasoner.Term{
		P,
		reasoner.Or{Left: P, Right: Q},
		reasoner.And{Left: P, Right: reasoner.Not{Operand: R}},
	}
}

func propositionalRules() []reasoner.Term {
	implies := func(p, q string) reasoner.Term {
		return reasoner.Implies{Premise: reasoner.Atom(p), Conclusion: reasoner.Atom(q)}
	}
	return []reasoner.Term{implies("P", "R"), implies("Q", "T"), implies("R", "U"), implies("T", "V")}
}

func runPropositional(e *env) error {
	opts, err := e.cfg.PropositionalOptions(e.handler)
	if err != nil {
		return err
	}
	kb := propositional.NewKnowledgeBase(opts)
	for _, f := range propositionalFacts() {
		if _, err := kb.AddFact(f); err != nil {
			return err
		}
	}
	for _, r := range propositionalRules() {
		if _, err := kb.AddRule(r); err != nil {
			return err
		}
	}

	stats, err := kb.ForwardChain(e.cfg.PropositionalIterations())
	var ce *reasoner.ContradictionError
	switch {
	case errors.As(err, &ce):
		e.logger.Warn("forward chaining stopped", zap.String("policy", opts.OnContradiction.String()), zap.Error(err))
		fmt.Fprintf(e.out, "stopped: %v\n\n", err)
	case err != nil:
		return err
	default:
		fmt.Fprintf(e.out, "%d passes, %d facts and %d rules derived, %d contradictions discarded, fixpoint %t\n\n",
			stats.Iterations, stats.FactsAdded, stats.RulesAdded, stats.Contradictions, stats.Fixpoint)
	}

	facts, err := kb.Facts()
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out, e.tables.Facts(facts))
	fmt.Fprintln(e.out, e.tables.Rules(format.Stringers(kb.Rules())))
	return nil
}
