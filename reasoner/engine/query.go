package engine

import (
	"fmt"

	"github.com/wbrown/janus-reasoner/reasoner"
	"github.com/wbrown/janus-reasoner/reasoner/annotations"
	"github.com/wbrown/janus-reasoner/reasoner/match"
)

// Query unifies pattern against every current fact and returns each
// resulting substitution. A ground pattern that is a fact yields one empty
// substitution. Result order is unspecified.
func (kb *KnowledgeBase) Query(pattern reasoner.Term) ([]reasoner.Substitution, error) {
	if pattern == nil {
		return nil, fmt.Errorf("%w: nil query pattern", reasoner.ErrInvalidFact)
	}
	ctx := annotations.NewContext(kb.opts.Handler)

	var results []reasoner.Substitution
	_, err := ctx.Query(pattern.String(), func() (int, error) {
		snap, err := kb.facts.Snapshot()
		if err != nil {
			ctx.StoreError("snapshot", err)
			return 0, err
		}
		defer snap.Close()

		results, err = match.All(match.Satisfying([]reasoner.Term{pattern}, snap))
		return len(results), err
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
