package propositional

import (
	"fmt"

	"github.com/wbrown/janus-reasoner/reasoner/annotations"
)

// DefaultMaxIterations bounds ForwardChain when the caller has no better figure
const DefaultMaxIterations = 20

// ContradictionPolicy decides what ForwardChain does with a derived fact
// that contradicts a stored literal
type ContradictionPolicy int

const (
	// Abort stops the run and returns the *reasoner.ContradictionError.
	// Facts committed earlier in the failing pass are kept.
	Abort ContradictionPolicy = iota

	// Discard drops the offending fact, emits a fact/contradiction event,
	// and keeps chaining
	Discard
)

func (p ContradictionPolicy) String() string {
	switch p {
	case Abort:
		return "abort"
	case Discard:
		return "discard"
	default:
		return fmt.Sprintf("ContradictionPolicy(%d)", int(p))
	}
}

// ParseContradictionPolicy reads "abort" or "discard"; "" means Abort
func ParseContradictionPolicy(s string) (ContradictionPolicy, error) {
	switch s {
	case "", "abort":
		return Abort, nil
	case "discard":
		return Discard, nil
	default:
		return Abort, fmt.Errorf("unknown contradiction policy %q (want abort or discard)", s)
	}
}

// Options configures a KnowledgeBase
type Options struct {
	OnContradiction ContradictionPolicy

	// Handler receives annotation events; nil disables them
	Handler annotations.Handler
}

// DefaultOptions returns the options New uses
func DefaultOptions() Options {
	return Options{OnContradiction: Abort}
}
