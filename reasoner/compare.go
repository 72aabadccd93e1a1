package reasoner

import (
	"sort"
	"strings"
)

// Equal reports structural equality. Set membership in every knowledge base
// is decided by this relation, so (AND P Q) and (AND Q P) are distinct.
func Equal(a, b Term) bool {
	return Compare(a, b) == 0
}

// Compare orders two terms and returns:
//
//	-1 if left < right
//	 0 if left == right
//	 1 if left > right
//
// Terms of different kinds order by Kind. Atoms and variables compare by
// name; compounds compare by functor, then arity, then arguments left to
// right. Nil sorts before everything.
func Compare(left, right Term) int {
	if left == nil && right == nil {
		return 0
	}
	if left == nil {
		return -1
	}
	if right == nil {
		return 1
	}

	lk, rk := left.Kind(), right.Kind()
	if lk != rk {
		if lk < rk {
			return -1
		}
		return 1
	}

	switch l := left.(type) {
	case Atom:
		return strings.Compare(string(l), string(right.(Atom)))
	case Variable:
		return strings.Compare(string(l), string(right.(Variable)))
	case Compound:
		r := right.(Compound)
		if c := strings.Compare(l.Functor(), r.Functor()); c != 0 {
			return c
		}
		return compareArgs(l.Args(), r.Args())
	}
	return 0
}

func compareArgs(left, right []Term) int {
	if len(left) != len(right) {
		if len(left) < len(right) {
			return -1
		}
		return 1
	}
	for i := range left {
		if c := Compare(left[i], right[i]); c != 0 {
			return c
		}
	}
	return 0
}

// SortTerms sorts terms in place by Compare
func SortTerms(terms []Term) {
	sort.SliceStable(terms, func(i, j int) bool {
		return Compare(terms[i], terms[j]) < 0
	})
}
