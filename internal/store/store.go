// Package store defines the ordered key-value contract the rest of the
// pipeline persists through, backed by Badger (grounded in
// other_examples/85655247_nicktill-tinyobs__pkg-storage-badger-badger.go.go,
// whose Config/New/memory-budget shape this package follows directly).
package store

import (
	"encoding/binary"

	badger "github.com/dgraph-io/badger/v4"
)

// ttlKey is the reserved key holding the monotonic watermark (spec.md §4.1).
var ttlKey = []byte("TTL")

// Store is the ordered key-value contract the Codec, ingest, and lifecycle
// layers depend on. All methods are safe for concurrent use.
type Store interface {
	Get(key []byte) ([]byte, bool, error)
	Put(key, value []byte) error
	Delete(key []byte) (bool, error)
	Contains(key []byte) (bool, error)
	// Iter calls fn for every (key, value) pair in key order. fn's value
	// slice is only valid for the duration of the call.
	Iter(fn func(key, value []byte) error) error
	// Flush syncs pending writes to disk and blocks until the sync ends; the
	// FlushStore task runs it off the request path and logs failures rather
	// than propagating them as a fatal error.
	Flush() error
	SizeBytes() int64
	Len() (int, error)

	// TTL returns the current watermark, or 0 if never set.
	TTL() (uint64, error)
	// BumpTTL compare-and-sets the watermark to candidate if candidate is
	// larger than the stored value, preserving monotonic non-decrease.
	BumpTTL(candidate uint64) error

	Close() error
}

// Config tunes the embedded Badger instance.
type Config struct {
	Path string
	// CacheMB budgets the block+index cache, matching the spec's ≈96 MiB
	// "high-throughput" figure (§5 Resource caps).
	CacheMB int64
}

// BadgerStore implements Store over a single Badger database.
type BadgerStore struct {
	db *badger.DB
}

// Open creates or reopens a BadgerStore at cfg.Path, tuned to stay within
// cfg.CacheMB of cache memory the way the reference KV wrapper tunes
// memtable/cache sizes for a bounded footprint.
func Open(cfg Config) (*BadgerStore, error) {
	opts := badger.DefaultOptions(cfg.Path)

	cacheBytes := cfg.CacheMB * 1024 * 1024
	if cacheBytes <= 0 {
		cacheBytes = 96 * 1024 * 1024
	}

	memTableSize := cacheBytes / 2
	blockCacheSize := cacheBytes / 2
	indexCacheSize := cacheBytes / 4

	opts = opts.
		WithMemTableSize(memTableSize).
		WithNumMemtables(3).
		WithBlockCacheSize(blockCacheSize).
		WithIndexCacheSize(indexCacheSize).
		WithValueLogFileSize(64 << 20).
		WithNumCompactors(2).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Get(key []byte) ([]byte, bool, error) {
	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			out = append([]byte(nil), val...)
			return nil
		})
	})
	if err != nil {
		return nil, false, err
	}
	return out, out != nil, nil
}

func (s *BadgerStore) Put(key, value []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

func (s *BadgerStore) Delete(key []byte) (bool, error) {
	found := false
	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return txn.Delete(key)
	})
	return found, err
}

func (s *BadgerStore) Contains(key []byte) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	return found, err
}

func (s *BadgerStore) Iter(fn func(key, value []byte) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			k := item.KeyCopy(nil)
			if err := item.Value(func(val []byte) error {
				return fn(k, val)
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BadgerStore) Flush() error {
	return s.db.Sync()
}

func (s *BadgerStore) SizeBytes() int64 {
	lsm, vlog := s.db.Size()
	return lsm + vlog
}

func (s *BadgerStore) Len() (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

func (s *BadgerStore) TTL() (uint64, error) {
	val, ok, err := s.Get(ttlKey)
	if err != nil || !ok {
		return 0, err
	}
	if len(val) != 8 {
		return 0, nil
	}
	return binary.BigEndian.Uint64(val), nil
}

// BumpTTL performs a transactional read-modify-write so concurrent
// uploads racing to advance the watermark never move it backwards.
func (s *BadgerStore) BumpTTL(candidate uint64) error {
	return s.db.Update(func(txn *badger.Txn) error {
		current := uint64(0)
		item, err := txn.Get(ttlKey)
		if err != nil && err != badger.ErrKeyNotFound {
			return err
		}
		if err == nil {
			if verr := item.Value(func(val []byte) error {
				if len(val) == 8 {
					current = binary.BigEndian.Uint64(val)
				}
				return nil
			}); verr != nil {
				return verr
			}
		}

		if candidate <= current {
			return nil
		}

		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, candidate)
		return txn.Set(ttlKey, buf)
	})
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
