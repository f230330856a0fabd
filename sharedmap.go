// Package sharedmap provides a string-keyed map that many goroutines can read
// and write through cheap, cloneable handles.
//
// Every handle produced by Clone refers to the same table. Reads share a
// read lock, Put and Delete take the write lock, and each operation holds
// exactly one lock for its whole duration, so operations are linearizable.
// Values are never edited in place: Put installs a new value and readers keep
// whatever value they already obtained. For pointer, slice or map values the
// referent must be treated as read-only once stored.
//
// A table that was left half-mutated by a panicking writer is poisoned. Any
// later operation on it aborts the process.
package sharedmap

import (
	"errors"
	"runtime"
	"sync/atomic"
)

var (
	ErrPoisoned = errors.New("sharedmap: table poisoned by a panic during a write")
	ErrReleased = errors.New("sharedmap: use of released handle")
)

// SharedMap is a handle to a shared table. Handles are safe for concurrent
// use; Clone hands out another owner of the same table.
type SharedMap[V any] struct {
	t        *table[V]
	released atomic.Bool
}

// New returns a handle to a new, empty table with the default config.
func New[V any]() *SharedMap[V] {
	return NewWithConfig[V](DefaultConfig())
}

// NewWithConfig returns a handle to a new, empty table built from cfg.
func NewWithConfig[V any](cfg Config) *SharedMap[V] {
	return newHandle(newTable[V](cfg))
}

func newHandle[V any](t *table[V]) *SharedMap[V] {
	m := &SharedMap[V]{t: t}
	runtime.SetFinalizer(m, (*SharedMap[V]).drop)
	return m
}

// table returns the shared table. Callers keep m alive until they are done
// with the table, otherwise the finalizer may drop the last owner mid-call.
func (m *SharedMap[V]) table() *table[V] {
	if m.released.Load() {
		m.t.fatal(ErrReleased)
	}
	return m.t
}

// Clone returns a new handle on the same table. It never blocks.
func (m *SharedMap[V]) Clone() *SharedMap[V] {
	defer runtime.KeepAlive(m)
	t := m.table()
	t.acquire()
	return newHandle(t)
}

// Put sets key to value, replacing any previous value.
func (m *SharedMap[V]) Put(key string, value V) {
	defer runtime.KeepAlive(m)
	m.table().put(key, value)
}

// Get returns the value stored under key and whether it was present.
func (m *SharedMap[V]) Get(key string) (V, bool) {
	defer runtime.KeepAlive(m)
	return m.table().get(key)
}

// Delete removes key. Deleting an absent key is a no-op.
func (m *SharedMap[V]) Delete(key string) {
	defer runtime.KeepAlive(m)
	m.table().delete(key)
}

// Len returns the number of entries.
func (m *SharedMap[V]) Len() int {
	defer runtime.KeepAlive(m)
	return m.table().len()
}

// Keys returns a snapshot of the keys starting with prefix; an empty prefix
// returns every key. The order is unspecified for StorageHash.
func (m *SharedMap[V]) Keys(prefix string) []string {
	defer runtime.KeepAlive(m)
	return m.table().keys(prefix)
}

// Owners returns the number of live handles on the table.
func (m *SharedMap[V]) Owners() int64 {
	defer runtime.KeepAlive(m)
	return m.table().owners.Load()
}

// ID returns the table id, shared by every clone.
func (m *SharedMap[V]) ID() int64 {
	defer runtime.KeepAlive(m)
	return m.table().id
}

// Release gives up this handle's ownership without waiting for the garbage
// collector. The handle must not be used afterwards. Calling Release more
// than once is harmless.
func (m *SharedMap[V]) Release() {
	runtime.SetFinalizer(m, nil)
	m.drop()
}

func (m *SharedMap[V]) drop() {
	if m.released.CompareAndSwap(false, true) {
		m.t.release()
	}
}
