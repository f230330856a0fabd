package ds

import (
	"strings"

	"github.com/gansidui/skiplist"
)

// OrderedStore keeps entries in a skiplist sorted by key.
type OrderedStore[V any] struct {
	skl *skiplist.SkipList
}

type entry[V any] struct {
	key   string
	value V
}

func (e *entry[V]) Less(other interface{}) bool {
	return e.key < other.(*entry[V]).key
}

func NewOrderedStore[V any]() *OrderedStore[V] {
	return &OrderedStore[V]{skl: skiplist.New()}
}

// find returns the element holding key, or nil.
func (s *OrderedStore[V]) find(key string) *skiplist.Element {
	rank := s.skl.GetRank(&entry[V]{key: key})
	if rank <= 0 {
		return nil
	}
	return s.skl.GetElementByRank(rank)
}

func (s *OrderedStore[V]) Get(key string) (V, bool) {
	e := s.find(key)
	if e == nil {
		var zero V
		return zero, false
	}
	return e.Value.(*entry[V]).value, true
}

// Put replaces the whole entry so the previous value is never written to.
func (s *OrderedStore[V]) Put(key string, value V) {
	probe := &entry[V]{key: key}
	if s.find(key) != nil {
		s.skl.Delete(probe)
	}
	probe.value = value
	s.skl.Insert(probe)
}

func (s *OrderedStore[V]) Delete(key string) {
	if s.find(key) == nil {
		return
	}
	s.skl.Delete(&entry[V]{key: key})
}

func (s *OrderedStore[V]) Len() int {
	return s.skl.Len()
}

// seek returns the first element whose key is not below key, or nil.
// It binary searches over ranks so the list is never modified.
func (s *OrderedStore[V]) seek(key string) *skiplist.Element {
	lo, hi := 1, s.skl.Len()+1
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if s.skl.GetElementByRank(mid).Value.(*entry[V]).key < key {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo > s.skl.Len() {
		return nil
	}
	return s.skl.GetElementByRank(lo)
}

// Keys returns keys start with prefix in ascending order.
func (s *OrderedStore[V]) Keys(prefix string) []string {
	keys := make([]string, 0)
	for e := s.seek(prefix); e != nil; e = e.Next() {
		k := e.Value.(*entry[V]).key
		if !strings.HasPrefix(k, prefix) {
			break
		}
		keys = append(keys, k)
	}
	return keys
}

func (s *OrderedStore[V]) Reset() {
	s.skl = skiplist.New()
}
