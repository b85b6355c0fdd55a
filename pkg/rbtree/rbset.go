package rbtree

import "golang.org/x/exp/constraints"

// Set is an ordered set of keys backed by the red-black tree engine. Set
// nodes are Node[K, struct{}]; the value slot is unused.
type Set[K any] struct {
	t tree[K, struct{}]
}

// NewSet returns an empty set over a naturally ordered key type
func NewSet[K constraints.Ordered]() *Set[K] {
	return NewSetFunc[K](func(a, b K) bool { return a < b })
}

// NewSetFunc returns an empty set ordered by the given comparator
func NewSetFunc[K any](less LessFunc[K]) *Set[K] {
	if less == nil {
		panic("rbtree: nil comparator")
	}
	return &Set[K]{t: tree[K, struct{}]{less: less}}
}

// Len returns the number of keys currently in the set
func (s *Set[K]) Len() int { return s.t.size }

// IsEmpty reports whether the set holds no keys
func (s *Set[K]) IsEmpty() bool { return s.t.size == 0 }

// Insert adds key to the set. If the key already exists the existing node
// is returned and no duplicate is created.
func (s *Set[K]) Insert(key K) *Node[K, struct{}] {
	n, _ := s.t.insert(key)
	return n
}

// Find returns the node holding key, or nil
func (s *Set[K]) Find(key K) *Node[K, struct{}] {
	return s.t.find(key)
}

// LowerBound returns the node with the smallest key not less than key,
// or nil when every key is smaller.
func (s *Set[K]) LowerBound(key K) *Node[K, struct{}] {
	return s.t.lowerBound(key)
}

// Has reports whether key is present
func (s *Set[K]) Has(key K) bool {
	return s.t.find(key) != nil
}

// Erase removes key from the set, returning false if it was absent
func (s *Set[K]) Erase(key K) bool {
	n := s.t.find(key)
	if n == nil {
		return false
	}
	s.t.erase(n)
	return true
}

// Front returns the node with the smallest key, or nil
func (s *Set[K]) Front() *Node[K, struct{}] { return s.t.front() }

// Back returns the node with the largest key, or nil
func (s *Set[K]) Back() *Node[K, struct{}] { return s.t.back() }

// Clear drops every node and releases the tree's internal state
func (s *Set[K]) Clear() { s.t.clear() }

// Keys returns the keys in ascending order
func (s *Set[K]) Keys() []K {
	keys := make([]K, 0, s.t.size)
	for n := s.Front(); n != nil; n = n.Next() {
		keys = append(keys, n.key)
	}
	return keys
}

// Copy returns an independent set holding the same keys, rebuilt by
// in-order reinsertion.
func (s *Set[K]) Copy() *Set[K] {
	c := &Set[K]{t: tree[K, struct{}]{less: s.t.less}}
	for n := s.Front(); n != nil; n = n.Next() {
		c.Insert(n.key)
	}
	return c
}
