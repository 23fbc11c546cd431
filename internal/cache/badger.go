package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/quantmind-br/gtraverse-go/internal/domain"
	"github.com/quantmind-br/gtraverse-go/internal/utils"
)

// Ensure BadgerCache implements RepositoryCache
var _ RepositoryCache = (*BadgerCache)(nil)

// BadgerOptions contains options for creating a BadgerCache
type BadgerOptions struct {
	// Directory persists data on disk; empty keeps everything in memory
	Directory string
	TTL       time.Duration
	Logger    *utils.Logger
}

// BadgerCache is a RepositoryCache backed by BadgerDB. Expiry is enforced
// by badger entry TTLs.
type BadgerCache struct {
	db        *badger.DB
	ttl       time.Duration
	logger    *utils.Logger
	stop      chan struct{}
	closeOnce sync.Once
}

// NewBadgerCache creates a new BadgerDB cache
func NewBadgerCache(opts BadgerOptions) (*BadgerCache, error) {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewNopLogger()
	}

	var badgerOpts badger.Options
	inMemory := opts.Directory == ""
	if inMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		dir, err := utils.EnsureDir(opts.Directory)
		if err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
		badgerOpts = badger.DefaultOptions(dir)
	}
	badgerOpts = badgerOpts.WithLogger(nil)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	c := &BadgerCache{
		db:     db,
		ttl:    opts.TTL,
		logger: opts.Logger.WithComponent("cache"),
		stop:   make(chan struct{}),
	}

	// Value log GC is unavailable in memory mode
	if !inMemory {
		go c.runGC(5 * time.Minute)
	}

	return c, nil
}

func (c *BadgerCache) runGC(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			_ = c.db.RunValueLogGC(0.5)
		case <-c.stop:
			return
		}
	}
}

// Get returns the stored result if present and not expired
func (c *BadgerCache) Get(_ context.Context, key string) (*domain.Result, bool) {
	var value []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(storageKey(key)))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return domain.ErrCacheMiss
			}
			return err
		}

		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			c.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		}
		return nil, false
	}

	result, err := decodeResult(value)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Discarding unreadable cache entry")
		return nil, false
	}
	return result, true
}

// Put stores value under key with the cache TTL
func (c *BadgerCache) Put(_ context.Context, key string, value *domain.Result) error {
	data, err := encodeResult(value)
	if err != nil {
		return err
	}

	return c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(storageKey(key)), data).WithTTL(c.ttl)
		return txn.SetEntry(e)
	})
}

// Delete removes key
func (c *BadgerCache) Delete(_ context.Context, key string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(storageKey(key)))
	})
}

// Size returns the number of live entries in the cache
func (c *BadgerCache) Size() int64 {
	var count int64
	_ = c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(PrefixRepository)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count
}

// Clear removes all entries from the cache
func (c *BadgerCache) Clear() error {
	return c.db.DropAll()
}

// Close releases cache resources
func (c *BadgerCache) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.stop)
		err = c.db.Close()
	})
	return err
}
