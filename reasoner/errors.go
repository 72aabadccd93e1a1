package reasoner

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrContradiction  = errors.New("contradictory fact")
	ErrMalformedRule  = errors.New("malformed rule")
	ErrInvalidFact    = errors.New("invalid fact")
	ErrReservedSymbol = errors.New("reserved symbol")
	ErrStoreClosed    = errors.New("store closed")
)

// ContradictionError reports an insertion whose negation is already a fact
type ContradictionError struct {
	Fact     Term // the literal being inserted
	Existing Term // the stored literal it contradicts
}

func (e *ContradictionError) Error() string {
	return fmt.Sprintf("contradictory fact: %s vs %s", e.Fact, e.Existing)
}

func (e *ContradictionError) Unwrap() error { return ErrContradiction }

// MalformedRuleError reports a rule literal that does not have the expected shape
type MalformedRuleError struct {
	Rule   Term
	Reason string
}

func (e *MalformedRuleError) Error() string {
	if e.Rule == nil {
		return "malformed rule: " + e.Reason
	}
	return fmt.Sprintf("malformed rule %s: %s", e.Rule, e.Reason)
}

func (e *MalformedRuleError) Unwrap() error { return ErrMalformedRule }
