package sharedmap

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-hclog"

	"sharedmap/ds"
	"sharedmap/util"
)

// fatalHandler is called once a table can no longer be used safely.
// It must not return.
var fatalHandler = func(err error) {
	util.Abort()
}

type shard[V any] struct {
	mu    sync.RWMutex // r&w lock for every shard
	store ds.Store[V]

	// poisoned is set when a writer panicked mid-mutation; guarded by mu.
	poisoned bool
}

// writeUnlock releases the write lock, poisoning the shard unless the
// mutation ran to completion.
func (sh *shard[V]) writeUnlock(done *bool) {
	if !*done {
		sh.poisoned = true
	}
	sh.mu.Unlock()
}

// table is the storage all clones of a SharedMap share.
type table[V any] struct {
	id      int64
	storage StorageType
	shards  []*shard[V]
	owners  atomic.Int64
	logger  hclog.Logger
	metrics *metrics
}

func newStore[V any](typ StorageType) ds.Store[V] {
	switch typ {
	case StorageRadix:
		return ds.NewRadixStore[V]()
	case StorageOrdered:
		return ds.NewOrderedStore[V]()
	default:
		return ds.NewHashStore[V]()
	}
}

func newTable[V any](cfg Config) *table[V] {
	shardCount := cfg.ShardCount
	if shardCount < 1 {
		shardCount = defaultShardCount
	}
	if _, ok := storageNames[cfg.Storage]; !ok {
		cfg.Storage = defaultStorage
	}
	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	t := &table[V]{
		id:      generateTableID(),
		storage: cfg.Storage,
		shards:  make([]*shard[V], shardCount),
	}
	t.logger = logger.Named("sharedmap").With("table", t.id)
	for i := 0; i < shardCount; i++ {
		t.shards[i] = &shard[V]{store: newStore[V](cfg.Storage)}
	}
	t.owners.Store(1)

	if cfg.Registerer != nil {
		m, err := newMetrics(cfg.Registerer, t.id, func() float64 {
			return float64(t.owners.Load())
		})
		if err != nil {
			t.logger.Warn("metrics disabled", "error", err)
		} else {
			t.metrics = m
		}
	}

	t.logger.Debug("table created", "storage", t.storage, "shards", shardCount)
	return t
}

// fatal logs err and hands it to fatalHandler.
func (t *table[V]) fatal(err error) {
	t.logger.Error("unrecoverable table state, aborting", "error", err)
	fatalHandler(err)
	panic(err)
}

func (t *table[V]) shard(key string) *shard[V] {
	return t.shards[util.ShardIndex(key, len(t.shards))]
}

// readShard returns the shard owning key with its read lock held.
// Remember to RUnlock the shard!
func (t *table[V]) readShard(key string) *shard[V] {
	sh := t.shard(key)
	sh.mu.RLock()
	if sh.poisoned {
		sh.mu.RUnlock()
		t.fatal(ErrPoisoned)
	}
	return sh
}

// writeShard returns the shard owning key with its write lock held.
// Remember to release it with writeUnlock!
func (t *table[V]) writeShard(key string) *shard[V] {
	sh := t.shard(key)
	sh.mu.Lock()
	if sh.poisoned {
		sh.mu.Unlock()
		t.fatal(ErrPoisoned)
	}
	return sh
}

func (t *table[V]) get(key string) (V, bool) {
	sh := t.readShard(key)
	defer sh.mu.RUnlock()

	val, ok := sh.store.Get(key)
	t.metrics.observeGet(ok)
	return val, ok
}

func (t *table[V]) put(key string, value V) {
	sh := t.writeShard(key)
	done := false
	defer sh.writeUnlock(&done)

	sh.store.Put(key, value)
	t.metrics.observePut()
	done = true
}

func (t *table[V]) delete(key string) {
	sh := t.writeShard(key)
	done := false
	defer sh.writeUnlock(&done)

	sh.store.Delete(key)
	t.metrics.observeDelete()
	done = true
}

// len sums the shards one at a time, so it is exact only with a single shard
// or when no writer runs concurrently.
func (t *table[V]) len() int {
	cnt := 0
	for _, sh := range t.shards {
		sh.mu.RLock()
		poisoned := sh.poisoned
		if !poisoned {
			cnt += sh.store.Len()
		}
		sh.mu.RUnlock()
		if poisoned {
			t.fatal(ErrPoisoned)
		}
	}
	return cnt
}

func (t *table[V]) keys(prefix string) []string {
	if len(t.shards) == 1 {
		sh := t.readShard(prefix)
		defer sh.mu.RUnlock()
		return sh.store.Keys(prefix)
	}

	keys := make([]string, 0)
	for _, sh := range t.shards {
		sh.mu.RLock()
		poisoned := sh.poisoned
		if !poisoned {
			keys = append(keys, sh.store.Keys(prefix)...)
		}
		sh.mu.RUnlock()
		if poisoned {
			t.fatal(ErrPoisoned)
		}
	}
	if t.storage != StorageHash {
		sort.Strings(keys)
	}
	return keys
}

// acquire registers one more owner.
func (t *table[V]) acquire() {
	t.owners.Add(1)
}

// release drops one owner and clears the storage once none are left.
func (t *table[V]) release() {
	if t.owners.Add(-1) != 0 {
		return
	}
	for _, sh := range t.shards {
		sh.mu.Lock()
		sh.store.Reset()
		sh.mu.Unlock()
	}
	t.metrics.unregister()
	t.logger.Debug("last owner released, table dropped")
}
