package engine

import (
	"fmt"
	"strings"

	"github.com/wbrown/janus-reasoner/reasoner"
	"github.com/wbrown/janus-reasoner/reasoner/annotations"
	"github.com/wbrown/janus-reasoner/reasoner/store"
)

const (
	// DefaultMaxIterations bounds ForwardChain when the caller has no better figure
	DefaultMaxIterations = 50

	// DefaultSkolemPrefix starts every minted skolem constant
	DefaultSkolemPrefix = "_sk"
)

// Options configures a KnowledgeBase
type Options struct {
	// Store selects the fact store backend
	Store store.Kind

	// SkolemPrefix starts every minted skolem constant. Atoms that start with
	// it are rejected on input so minted constants cannot collide.
	SkolemPrefix string

	// Handler receives annotation events; nil disables them
	Handler annotations.Handler
}

// DefaultOptions returns the options New uses
func DefaultOptions() Options {
	return Options{
		Store:        store.Memory,
		SkolemPrefix: DefaultSkolemPrefix,
	}
}

func (o Options) validate() (Options, error) {
	if o.SkolemPrefix == "" {
		o.SkolemPrefix = DefaultSkolemPrefix
	}
	if reasoner.IsVariableName(o.SkolemPrefix) {
		return o, fmt.Errorf("skolem prefix %q must not start with %q", o.SkolemPrefix, reasoner.VariablePrefix)
	}
	kind, err := store.ParseKind(string(o.Store))
	if err != nil {
		return o, err
	}
	o.Store = kind
	return o, nil
}

// reservedAtom returns the first atom in t that starts with prefix
func reservedAtom(t reasoner.Term, prefix string) (reasoner.Atom, bool) {
	switch v := t.(type) {
	case reasoner.Atom:
		if strings.HasPrefix(string(v), prefix) {
			return v, true
		}
	case reasoner.Predicate:
		if strings.HasPrefix(v.Name, prefix) {
			return reasoner.Atom(v.Name), true
		}
		for _, arg := range v.Terms {
			if a, ok := reservedAtom(arg, prefix); ok {
				return a, true
			}
		}
	case reasoner.Compound:
		for _, arg := range v.Args() {
			if a, ok := reservedAtom(arg, prefix); ok {
				return a, true
			}
		}
	}
	return "", false
}
