package ds

import "strings"

// HashStore keeps entries in a built-in map.
type HashStore[V any] struct {
	simpleMap map[string]V
}

func NewHashStore[V any]() *HashStore[V] {
	return &HashStore[V]{simpleMap: make(map[string]V)}
}

func (hs *HashStore[V]) Get(key string) (V, bool) {
	val, ok := hs.simpleMap[key]
	return val, ok
}

func (hs *HashStore[V]) Put(key string, value V) {
	hs.simpleMap[key] = value
}

func (hs *HashStore[V]) Delete(key string) {
	delete(hs.simpleMap, key)
}

func (hs *HashStore[V]) Len() int {
	return len(hs.simpleMap)
}

// Keys returns matching keys in no particular order.
func (hs *HashStore[V]) Keys(prefix string) []string {
	keys := make([]string, 0)
	for k := range hs.simpleMap {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys
}

func (hs *HashStore[V]) Reset() {
	hs.simpleMap = make(map[string]V)
}
