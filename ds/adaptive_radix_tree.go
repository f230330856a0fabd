package ds

import (
	art "github.com/plar/go-adaptive-radix-tree"

	"sharedmap/util"
)

// RadixStore keeps entries in an adaptive radix tree. Keys are handed to the
// tree without copying, which is safe because strings are immutable.
// The zero-length key lives outside the tree.
type RadixStore[V any] struct {
	tree     art.Tree
	empty    V
	hasEmpty bool
}

func NewRadixStore[V any]() *RadixStore[V] {
	return &RadixStore[V]{
		tree: art.New(),
	}
}

func (t *RadixStore[V]) Get(key string) (V, bool) {
	if len(key) == 0 {
		return t.empty, t.hasEmpty
	}
	value, found := t.tree.Search(util.StringToByte(key))
	if !found {
		var zero V
		return zero, false
	}
	return value.(V), true
}

func (t *RadixStore[V]) Put(key string, value V) {
	if len(key) == 0 {
		t.empty, t.hasEmpty = value, true
		return
	}
	t.tree.Insert(util.StringToByte(key), value)
}

func (t *RadixStore[V]) Delete(key string) {
	if len(key) == 0 {
		var zero V
		t.empty, t.hasEmpty = zero, false
		return
	}
	t.tree.Delete(util.StringToByte(key))
}

func (t *RadixStore[V]) Len() int {
	if t.hasEmpty {
		return t.tree.Size() + 1
	}
	return t.tree.Size()
}

// Keys returns keys start with prefix in lexicographic order.
func (t *RadixStore[V]) Keys(prefix string) []string {
	keys := make([]string, 0)
	if t.hasEmpty && len(prefix) == 0 {
		keys = append(keys, "")
	}
	cb := func(node art.Node) bool {
		if node.Kind() != art.Leaf {
			return true
		}
		keys = append(keys, util.ByteToString(node.Key()))
		return true
	}

	if len(prefix) == 0 {
		t.tree.ForEach(cb)
	} else {
		t.tree.ForEachPrefix(util.StringToByte(prefix), cb)
	}
	return keys
}

func (t *RadixStore[V]) Reset() {
	var zero V
	t.tree = art.New()
	t.empty, t.hasEmpty = zero, false
}
