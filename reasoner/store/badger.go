package store

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/wbrown/janus-reasoner/reasoner"
)

// BadgerStore keeps facts as keys of an in-memory BadgerDB.
// The key is the fact's encoding and the value is empty, so prefix scans
// over reasoner.IndexPrefix find the candidates for a pattern without
// touching values. A snapshot is a read-only transaction.
type BadgerStore struct {
	db     *badger.DB
	count  int
	closed bool
}

// NewBadgerStore opens an empty in-memory BadgerDB. Nothing is written to disk.
func NewBadgerStore() (*BadgerStore, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	opts.MemTableSize = 16 << 20 // 16MB memtables (default 64MB)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Add inserts fact if its key is not already present
func (s *BadgerStore) Add(fact reasoner.Term) (bool, error) {
	if s.closed {
		return false, reasoner.ErrStoreClosed
	}

	key := reasoner.EncodeTerm(fact)
	added := false
	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		added = true
		return txn.Set(key, []byte{})
	})
	if err != nil {
		return false, fmt.Errorf("failed to add fact %s: %w", fact, err)
	}
	if added {
		s.count++
	}
	return added, nil
}

func (s *BadgerStore) Contains(fact reasoner.Term) (bool, error) {
	if s.closed {
		return false, reasoner.ErrStoreClosed
	}
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		found, err = hasKey(txn, reasoner.EncodeTerm(fact))
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to look up fact %s: %w", fact, err)
	}
	return found, nil
}

func (s *BadgerStore) Len() int {
	return s.count
}

func (s *BadgerStore) Snapshot() (Snapshot, error) {
	if s.closed {
		return nil, reasoner.ErrStoreClosed
	}
	return &badgerSnapshot{
		store: s,
		txn:   s.db.NewTransaction(false),
		n:     s.count,
	}, nil
}

func (s *BadgerStore) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close badger: %w", err)
	}
	return nil
}

func hasKey(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	return false, err
}

type badgerSnapshot struct {
	store *BadgerStore
	txn   *badger.Txn
	n     int
	done  bool
}

func (b *badgerSnapshot) usable() error {
	if b.done || b.store.closed {
		return reasoner.ErrStoreClosed
	}
	return nil
}

func (b *badgerSnapshot) Candidates(pattern reasoner.Term) ([]reasoner.Term, error) {
	if err := b.usable(); err != nil {
		return nil, err
	}
	prefix := reasoner.IndexPrefix(pattern)
	out, err := b.scan(prefix, nil)
	if err != nil {
		return nil, err
	}
	if prefix == nil {
		return out, nil
	}
	// a stored bare variable unifies with any pattern
	return b.scan(reasoner.VariableKeyPrefix(), out)
}

func (b *badgerSnapshot) All() ([]reasoner.Term, error) {
	if err := b.usable(); err != nil {
		return nil, err
	}
	return b.scan(nil, make([]reasoner.Term, 0, b.n))
}

// scan appends every fact whose key starts with prefix
func (b *badgerSnapshot) scan(prefix []byte, out []reasoner.Term) ([]reasoner.Term, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false // keys only
	opts.Prefix = prefix

	it := b.txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		fact, err := reasoner.DecodeTerm(it.Item().Key())
		if err != nil {
			return nil, fmt.Errorf("corrupt fact key: %w", err)
		}
		out = append(out, fact)
	}
	return out, nil
}

func (b *badgerSnapshot) Contains(fact reasoner.Term) (bool, error) {
	if err := b.usable(); err != nil {
		return false, err
	}
	found, err := hasKey(b.txn, reasoner.EncodeTerm(fact))
	if err != nil {
		return false, fmt.Errorf("failed to look up fact %s: %w", fact, err)
	}
	return found, nil
}

func (b *badgerSnapshot) Len() int {
	return b.n
}

func (b *badgerSnapshot) Close() error {
	if b.done {
		return nil
	}
	b.done = true
	if !b.store.closed {
		b.txn.Discard()
	}
	return nil
}
