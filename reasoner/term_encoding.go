package reasoner

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// EncodeTerm serializes a term into a self-delimiting byte string.
//
// Layout: one kind byte, then
//   - atom, variable: uvarint length + bytes
//   - predicate:      uvarint name length + name + uvarint arity + args
//   - not/and/or/implies: fixed-arity args
//   - list:           uvarint count + items
//   - forall/exists:  uvarint count + variable names + body
//
// Two terms encode to the same bytes iff they are structurally equal, and a
// predicate's encoding starts with its IndexPrefix.
func EncodeTerm(t Term) []byte {
	buf := make([]byte, 0, 32)
	return appendTerm(buf, t)
}

// Key returns the encoding as a string, suitable as a map key
func Key(t Term) string {
	return string(EncodeTerm(t))
}

// IndexPrefix returns the encoding prefix shared by every term that could
// unify with pattern. A nil prefix means any term could.
func IndexPrefix(pattern Term) []byte {
	switch p := pattern.(type) {
	case Variable:
		return nil
	case Atom:
		return EncodeTerm(p)
	case Predicate:
		buf := []byte{byte(KindPredicate)}
		buf = appendString(buf, p.Name)
		return binary.AppendUvarint(buf, uint64(len(p.Terms)))
	case List:
		buf := []byte{byte(KindList)}
		return binary.AppendUvarint(buf, uint64(len(p)))
	default:
		return []byte{byte(pattern.Kind())}
	}
}

// VariableKeyPrefix is the encoding prefix of bare-variable terms
func VariableKeyPrefix() []byte {
	return []byte{byte(KindVariable)}
}

func appendTerm(buf []byte, t Term) []byte {
	buf = append(buf, byte(t.Kind()))
	switch v := t.(type) {
	case Atom:
		return appendString(buf, string(v))
	case Variable:
		return appendString(buf, string(v))
	case Predicate:
		buf = appendString(buf, v.Name)
		buf = binary.AppendUvarint(buf, uint64(len(v.Terms)))
		for _, arg := range v.Terms {
			buf = appendTerm(buf, arg)
		}
		return buf
	case Not:
		return appendTerm(buf, v.Operand)
	case And:
		return appendTerm(appendTerm(buf, v.Left), v.Right)
	case Or:
		return appendTerm(appendTerm(buf, v.Left), v.Right)
	case Implies:
		return appendTerm(appendTerm(buf, v.Premise), v.Conclusion)
	case List:
		buf = binary.AppendUvarint(buf, uint64(len(v)))
		for _, item := range v {
			buf = appendTerm(buf, item)
		}
		return buf
	case ForAll:
		return appendTerm(appendVars(buf, v.Vars), v.Body)
	case Exists:
		return appendTerm(appendVars(buf, v.Vars), v.Body)
	default:
		panic(fmt.Sprintf("unknown term type: %T", t))
	}
}

func appendString(buf []byte, s string) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}

func appendVars(buf []byte, vars []Variable) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(vars)))
	for _, v := range vars {
		buf = appendString(buf, string(v))
	}
	return buf
}

// DecodeTerm reverses EncodeTerm. Trailing bytes are an error.
func DecodeTerm(data []byte) (Term, error) {
	r := bytes.NewReader(data)
	t, err := readTerm(r)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("decode term: %d trailing bytes", r.Len())
	}
	return t, nil
}

func readTerm(r *bytes.Reader) (Term, error) {
	kb, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("decode term: %w", err)
	}
	switch Kind(kb) {
	case KindAtom:
		s, err := readString(r)
		return Atom(s), err
	case KindVariable:
		s, err := readString(r)
		return Variable(s), err
	case KindPredicate:
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		args, err := readTerms(r)
		if err != nil {
			return nil, err
		}
		return Predicate{Name: name, Terms: args}, nil
	case KindNot:
		op, err := readTerm(r)
		if err != nil {
			return nil, err
		}
		return Not{Operand: op}, nil
	case KindAnd, KindOr, KindImplies:
		left, err := readTerm(r)
		if err != nil {
			return nil, err
		}
		right, err := readTerm(r)
		if err != nil {
			return nil, err
		}
		switch Kind(kb) {
		case KindAnd:
			return And{Left: left, Right: right}, nil
		case KindOr:
			return Or{Left: left, Right: right}, nil
		default:
			return Implies{Premise: left, Conclusion: right}, nil
		}
	case KindList:
		items, err := readTerms(r)
		if err != nil {
			return nil, err
		}
		return List(items), nil
	case KindForAll, KindExists:
		n, err := binary.ReadUvarint(r)
		if err != nil {
			return nil, fmt.Errorf("decode term: %w", err)
		}
		if n > uint64(r.Len()) {
			return nil, fmt.Errorf("decode term: count %d exceeds input", n)
		}
		vars := make([]Variable, n)
		for i := range vars {
			s, err := readString(r)
			if err != nil {
				return nil, err
			}
			vars[i] = Variable(s)
		}
		body, err := readTerm(r)
		if err != nil {
			return nil, err
		}
		if Kind(kb) == KindForAll {
			return ForAll{Vars: vars, Body: body}, nil
		}
		return Exists{Vars: vars, Body: body}, nil
	default:
		return nil, fmt.Errorf("decode term: unknown kind byte %d", kb)
	}
}

func readTerms(r *bytes.Reader) ([]Term, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, fmt.Errorf("decode term: %w", err)
	}
	if n > uint64(r.Len()) {
		return nil, fmt.Errorf("decode term: count %d exceeds input", n)
	}
	out := make([]Term, n)
	for i := range out {
		if out[i], err = readTerm(r); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func readString(r *bytes.Reader) (string, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return "", fmt.Errorf("decode term: %w", err)
	}
	if n > uint64(r.Len()) {
		return "", fmt.Errorf("decode term: length %d exceeds input", n)
	}
	b := make([]byte, n)
	if _, err := r.Read(b); err != nil && n > 0 {
		return "", fmt.Errorf("decode term: %w", err)
	}
	return string(b), nil
}
