package annotations

import (
	"time"

	"github.com/google/uuid"
)

// PassStats is what a single derivation pass added
type PassStats struct {
	Facts int
	Rules int
}

// Context provides annotation points for a reasoning run.
// Operations that take time are passed as closures so the annotated
// implementation can time them while the base one just calls through.
type Context interface {
	// RunID identifies the run in every event it emits
	RunID() string

	// Chain lifecycle
	ChainBegin(engine string, facts, rules, maxIterations int)
	ExecutePass(iteration int, fn func() (PassStats, error)) (PassStats, error)
	ChainComplete(iterations, factsAdded int, fixpoint bool, err error)

	// Derivations
	RuleFired(rule string, solutions, derived int)
	SkolemMinted(constant, fact string)
	Contradiction(fact, existing string, discarded bool)

	// Queries
	Query(pattern string, fn func() (int, error)) (int, error)

	StoreError(op string, err error)

	// Get underlying collector
	Collector() *Collector
}

// BaseContext provides a no-op implementation with zero overhead.
type BaseContext struct{}

// NewContext creates an appropriate context based on whether annotations are needed.
func NewContext(handler Handler) Context {
	if handler == nil {
		return &BaseContext{}
	}
	return &AnnotatedContext{
		collector: NewCollector(handler),
		runID:     uuid.NewString(),
	}
}

// BaseContext implementations - all are simple pass-throughs

func (c *BaseContext) RunID() string { return "" }

func (c *BaseContext) ChainBegin(engine string, facts, rules, maxIterations int) {}

func (c *BaseContext) ExecutePass(iteration int, fn func() (PassStats, error)) (PassStats, error) {
	return fn()
}

func (c *BaseContext) ChainComplete(iterations, factsAdded int, fixpoint bool, err error) {}

func (c *BaseContext) RuleFired(rule string, solutions, derived int) {}

func (c *BaseContext) SkolemMinted(constant, fact string) {}

func (c *BaseContext) Contradiction(fact, existing string, discarded bool) {}

func (c *BaseContext) Query(pattern string, fn func() (int, error)) (int, error) {
	return fn()
}

func (c *BaseContext) StoreError(op string, err error) {}

func (c *BaseContext) Collector() *Collector { return nil }

// AnnotatedContext emits an Event for every annotation point
type AnnotatedContext struct {
	BaseContext
	collector  *Collector
	runID      string
	engine     string
	chainStart time.Time
	maxIter    int
}

func (c *AnnotatedContext) RunID() string { return c.runID }

func (c *AnnotatedContext) Collector() *Collector { return c.collector }

// data starts an event payload tagged with the run
func (c *AnnotatedContext) data(kv ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kv)/2+2)
	m["run.id"] = c.runID
	if c.engine != "" {
		m["engine"] = c.engine
	}
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i].(string)] = kv[i+1]
	}
	return m
}

func (c *AnnotatedContext) instant(name string, data map[string]interface{}) {
	now := time.Now()
	c.collector.Add(Event{Name: name, Start: now, End: now, Data: data})
}

func (c *AnnotatedContext) ChainBegin(engine string, facts, rules, maxIterations int) {
	c.engine = engine
	c.chainStart = time.Now()
	c.maxIter = maxIterations
	c.collector.Add(Event{
		Name:  ChainInvoked,
		Start: c.chainStart,
		End:   c.chainStart,
		Data: c.data(
			"facts.count", facts,
			"rules.count", rules,
			"max.iterations", maxIterations,
		),
	})
}

func (c *AnnotatedContext) ExecutePass(iteration int, fn func() (PassStats, error)) (PassStats, error) {
	start := time.Now()
	c.collector.Add(Event{
		Name:  ChainPassBegin,
		Start: start,
		End:   start,
		Data:  c.data("iteration", iteration),
	})

	stats, err := fn()

	data := c.data(
		"iteration", iteration,
		"facts.added", stats.Facts,
		"rules.added", stats.Rules,
	)
	if err != nil {
		data["error"] = err.Error()
	}
	c.collector.AddTiming(ChainPassComplete, start, data)
	return stats, err
}

func (c *AnnotatedContext) ChainComplete(iterations, factsAdded int, fixpoint bool, err error) {
	if err == nil {
		if fixpoint {
			c.instant(ChainFixpoint, c.data("iteration", iterations))
		} else {
			c.instant(ChainBoundReached, c.data("max.iterations", c.maxIter))
		}
	}

	data := c.data(
		"iterations", iterations,
		"facts.added", factsAdded,
		"fixpoint", fixpoint,
		"success", err == nil,
	)
	if err != nil {
		data["error"] = err.Error()
	}
	c.collector.AddTiming(ChainComplete, c.chainStart, data)
}

func (c *AnnotatedContext) RuleFired(rule string, solutions, derived int) {
	c.instant(RuleFired, c.data(
		"rule", rule,
		"solutions.count", solutions,
		"derived.count", derived,
	))
}

func (c *AnnotatedContext) SkolemMinted(constant, fact string) {
	c.instant(SkolemMinted, c.data("constant", constant, "fact", fact))
}

func (c *AnnotatedContext) Contradiction(fact, existing string, discarded bool) {
	c.instant(FactContradiction, c.data(
		"fact", fact,
		"existing", existing,
		"discarded", discarded,
	))
}

func (c *AnnotatedContext) Query(pattern string, fn func() (int, error)) (int, error) {
	start := time.Now()
	c.collector.Add(Event{
		Name:  QueryInvoked,
		Start: start,
		End:   start,
		Data:  c.data("pattern", pattern),
	})

	n, err := fn()

	data := c.data(
		"pattern", pattern,
		"results.count", n,
		"success", err == nil,
	)
	if err != nil {
		data["error"] = err.Error()
	}
	c.collector.AddTiming(QueryComplete, start, data)
	return n, err
}

func (c *AnnotatedContext) StoreError(op string, err error) {
	c.instant(ErrorStore, c.data("op", op, "error", err.Error()))
}
