package mapio

import (
	"sync"

	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"

	"github.com/beetlebugorg/xestopo/pkg/pmwx"
)

// storeAtomID is the outer atom id maps are stored under.
const storeAtomID uint32 = 'X'<<24 | 'M'<<16 | 'a'<<8 | 'p'

var mapKeyPrefix = []byte("map/")

// StoreOptions configures a Store.
type StoreOptions struct {
	// Dir is the badger directory. Empty keeps the store in memory.
	Dir string

	ReadOnly bool

	// Registry is written with every map and used to convert tokens when
	// maps are read back.
	Registry *Registry

	// Read configures maps returned by Get.
	Read ReadOptions
}

// DefaultStoreOptions returns options for an in-memory store.
func DefaultStoreOptions() StoreOptions {
	return StoreOptions{
		Read: DefaultReadOptions(),
	}
}

// Store persists encoded maps by name. It is safe for concurrent use.
type Store struct {
	opts StoreOptions

	mu sync.RWMutex
	db *badger.DB
}

// OpenStore opens or creates a store.
func OpenStore(opts StoreOptions) (*Store, error) {
	dbOpts := badger.DefaultOptions(opts.Dir)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	if opts.Dir == "" {
		if opts.ReadOnly {
			return nil, errors.New("read-only store needs a directory")
		}
		dbOpts.InMemory = true
	}

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening map store %q", opts.Dir)
	}
	return &Store{opts: opts, db: db}, nil
}

func mapKey(name string) []byte {
	return append(append([]byte{}, mapKeyPrefix...), name...)
}

// Put encodes m and stores it under name, replacing any previous map.
func (s *Store) Put(name string, m *pmwx.Pmwx) error {
	data := EncodeMap(m, storeAtomID, WriteOptions{Registry: s.opts.Registry})

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return ErrStoreClosed
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(mapKey(name), data)
	})
	return errors.Wrapf(err, "storing map %q", name)
}

// Get decodes the map stored under name.
func (s *Store) Get(name string) (*pmwx.Pmwx, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, ErrStoreClosed
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(mapKey(name))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, errors.Wrapf(ErrMapNotFound, "%q", name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading map %q", name)
	}

	m, err := Decode(data, storeAtomID, s.opts.Registry, s.opts.Read)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding map %q", name)
	}
	return m, nil
}

// Names returns the names of every stored map in key order.
func (s *Store) Names() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, ErrStoreClosed
	}

	var names []string
	err := s.db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.PrefetchValues = false
		it := txn.NewIterator(iterOpts)
		defer it.Close()
		for it.Seek(mapKeyPrefix); it.ValidForPrefix(mapKeyPrefix); it.Next() {
			names = append(names, string(it.Item().Key()[len(mapKeyPrefix):]))
		}
		return nil
	})
	return names, err
}

// Delete removes the map stored under name. Deleting a missing map is not an
// error.
func (s *Store) Delete(name string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return ErrStoreClosed
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(mapKey(name))
	})
	return errors.Wrapf(err, "deleting map %q", name)
}

// Close releases the store. Further calls fail with ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
