package rbtree

import "golang.org/x/exp/constraints"

// Map is an ordered key/value map backed by the red-black tree engine.
// Iteration via Front/Back and Node.Next/Node.Prev yields keys in strictly
// ascending comparator order.
type Map[K any, V any] struct {
	t tree[K, V]
}

// NewMap returns an empty map over a naturally ordered key type
func NewMap[K constraints.Ordered, V any]() *Map[K, V] {
	return NewMapFunc[K, V](func(a, b K) bool { return a < b })
}

// NewMapFunc returns an empty map ordered by the given comparator
func NewMapFunc[K any, V any](less LessFunc[K]) *Map[K, V] {
	if less == nil {
		panic("rbtree: nil comparator")
	}
	return &Map[K, V]{t: tree[K, V]{less: less}}
}

// Len returns the number of keys currently in the map
func (m *Map[K, V]) Len() int { return m.t.size }

// IsEmpty reports whether the map holds no keys
func (m *Map[K, V]) IsEmpty() bool { return m.t.size == 0 }

// Insert stores value under key. If the key already exists its value is
// overwritten in place and no new node is created.
func (m *Map[K, V]) Insert(key K, value V) *Node[K, V] {
	n, _ := m.t.insert(key)
	n.value = value
	return n
}

// Find returns the node holding key, or nil
func (m *Map[K, V]) Find(key K) *Node[K, V] {
	return m.t.find(key)
}

// FindClosest returns the node with the smallest key not less than key,
// falling back to nil when every key is smaller. An exact match is
// returned directly.
func (m *Map[K, V]) FindClosest(key K) *Node[K, V] {
	return m.t.lowerBound(key)
}

// Has reports whether key is present
func (m *Map[K, V]) Has(key K) bool {
	return m.t.find(key) != nil
}

// Erase removes key from the map, returning false if it was absent
func (m *Map[K, V]) Erase(key K) bool {
	n := m.t.find(key)
	if n == nil {
		return false
	}
	m.t.erase(n)
	return true
}

// Get returns the value stored under key, or false if none could be found
func (m *Map[K, V]) Get(key K) (V, bool) {
	if n := m.t.find(key); n != nil {
		return n.value, true
	}
	var zero V
	return zero, false
}

// MustGet returns the value stored under key and panics if the key is
// absent. Use Get when absence is part of normal control flow.
func (m *Map[K, V]) MustGet(key K) V {
	n := m.t.find(key)
	if n == nil {
		panic("rbtree: key not found")
	}
	return n.value
}

// GetOrInsert returns a pointer to the value stored under key, inserting
// the zero value first if the key is absent.
func (m *Map[K, V]) GetOrInsert(key K) *V {
	n, _ := m.t.insert(key)
	return &n.value
}

// Front returns the node with the smallest key, or nil
func (m *Map[K, V]) Front() *Node[K, V] { return m.t.front() }

// Back returns the node with the largest key, or nil
func (m *Map[K, V]) Back() *Node[K, V] { return m.t.back() }

// Clear drops every node and releases the tree's internal state
func (m *Map[K, V]) Clear() { m.t.clear() }

// Keys returns the keys in ascending order
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.t.size)
	for n := m.Front(); n != nil; n = n.Next() {
		keys = append(keys, n.key)
	}
	return keys
}

// Copy returns an independent map holding the same pairs. The copy is
// rebuilt by in-order reinsertion rather than cloned structurally; slower,
// but its invariants hold by construction.
func (m *Map[K, V]) Copy() *Map[K, V] {
	c := &Map[K, V]{t: tree[K, V]{less: m.t.less}}
	for n := m.Front(); n != nil; n = n.Next() {
		c.Insert(n.key, n.value)
	}
	return c
}
