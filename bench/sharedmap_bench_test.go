package bench

import (
	"math/rand"
	"strconv"
	"sync"
	"testing"

	"github.com/panjf2000/ants/v2"

	"sharedmap"
)

// go test -bench=. -benchtime=5s -count=1 -benchmem ./bench

const mapKeyCount = 500000

var keys = func() []string {
	ks := make([]string, mapKeyCount)
	for i := range ks {
		ks[i] = "bench_test_key_" + strconv.Itoa(i)
	}
	return ks
}()

type benchMap interface {
	Put(key string, value int)
	Get(key string) (int, bool)
}

type syncMap struct{ m sync.Map }

func (s *syncMap) Put(key string, value int) { s.m.Store(key, value) }

func (s *syncMap) Get(key string) (int, bool) {
	v, ok := s.m.Load(key)
	if !ok {
		return 0, false
	}
	return v.(int), true
}

type lockedMap struct {
	mu sync.RWMutex
	m  map[string]int
}

func (l *lockedMap) Put(key string, value int) {
	l.mu.Lock()
	l.m[key] = value
	l.mu.Unlock()
}

func (l *lockedMap) Get(key string) (int, bool) {
	l.mu.RLock()
	v, ok := l.m[key]
	l.mu.RUnlock()
	return v, ok
}

func newSharedMap(storage sharedmap.StorageType, shards int) benchMap {
	cfg := sharedmap.DefaultConfig()
	cfg.Storage = storage
	cfg.ShardCount = shards
	return sharedmap.NewWithConfig[int](cfg)
}

func initMap(m benchMap) {
	for i, k := range keys {
		m.Put(k, i)
	}
}

// runPool spreads b.N operations over a goroutine pool. writePercent of them
// are puts, the rest gets.
func runPool(b *testing.B, m benchMap, writePercent int) {
	pool, err := ants.NewPool(64)
	if err != nil {
		b.Fatal(err)
	}
	defer pool.Release()

	wg := sync.WaitGroup{}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		wg.Add(1)
		seed := int64(i)
		err := pool.Submit(func() {
			defer wg.Done()
			r := rand.New(rand.NewSource(seed))
			key := keys[r.Intn(mapKeyCount)]
			if r.Intn(100) < writePercent {
				m.Put(key, int(seed))
			} else {
				_, _ = m.Get(key)
			}
		})
		if err != nil {
			wg.Done()
			b.Fatal(err)
		}
	}
	wg.Wait()
}

func benchmarkMap(b *testing.B, newMap func() benchMap, writePercent int) {
	m := newMap()
	initMap(m)
	runPool(b, m, writePercent)
}

var (
	newSync   = func() benchMap { return &syncMap{} }
	newLocked = func() benchMap { return &lockedMap{m: make(map[string]int)} }
	newHash   = func() benchMap { return newSharedMap(sharedmap.StorageHash, 1) }
	newHash32 = func() benchMap { return newSharedMap(sharedmap.StorageHash, 32) }
	newRadix  = func() benchMap { return newSharedMap(sharedmap.StorageRadix, 1) }
	newOrder  = func() benchMap { return newSharedMap(sharedmap.StorageOrdered, 1) }
)

// read

func BenchmarkReadSyncMap(b *testing.B)       { benchmarkMap(b, newSync, 0) }
func BenchmarkReadLockedMap(b *testing.B)     { benchmarkMap(b, newLocked, 0) }
func BenchmarkReadSharedHash(b *testing.B)    { benchmarkMap(b, newHash, 0) }
func BenchmarkReadSharedHash32(b *testing.B)  { benchmarkMap(b, newHash32, 0) }
func BenchmarkReadSharedRadix(b *testing.B)   { benchmarkMap(b, newRadix, 0) }
func BenchmarkReadSharedOrdered(b *testing.B) { benchmarkMap(b, newOrder, 0) }

// write

func BenchmarkWriteSyncMap(b *testing.B)       { benchmarkMap(b, newSync, 100) }
func BenchmarkWriteLockedMap(b *testing.B)     { benchmarkMap(b, newLocked, 100) }
func BenchmarkWriteSharedHash(b *testing.B)    { benchmarkMap(b, newHash, 100) }
func BenchmarkWriteSharedHash32(b *testing.B)  { benchmarkMap(b, newHash32, 100) }
func BenchmarkWriteSharedRadix(b *testing.B)   { benchmarkMap(b, newRadix, 100) }
func BenchmarkWriteSharedOrdered(b *testing.B) { benchmarkMap(b, newOrder, 100) }

// read or write

func BenchmarkRWSyncMap(b *testing.B)       { benchmarkMap(b, newSync, 50) }
func BenchmarkRWLockedMap(b *testing.B)     { benchmarkMap(b, newLocked, 50) }
func BenchmarkRWSharedHash(b *testing.B)    { benchmarkMap(b, newHash, 50) }
func BenchmarkRWSharedHash32(b *testing.B)  { benchmarkMap(b, newHash32, 50) }
func BenchmarkRWSharedRadix(b *testing.B)   { benchmarkMap(b, newRadix, 50) }
func BenchmarkRWSharedOrdered(b *testing.B) { benchmarkMap(b, newOrder, 50) }
