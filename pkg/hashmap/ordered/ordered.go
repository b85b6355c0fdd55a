// Package ordered implements a hash map using open addressing with Robin
// Hood hashing. Robin Hood insertion swaps out entries that have a smaller
// probing distance than the to-be-inserted entry, which evens out the
// average probing distance and enables early termination on lookups.
// Backward shift deletion is employed instead of tombstones so probe
// sequences never degrade.
//
// All live elements are additionally threaded through a doubly linked list
// in insertion order, so iteration order is stable and independent of the
// physical slot layout. The map is not safe for concurrent use.
package ordered

import (
	"errors"

	"github.com/scottcagno/collections/pkg/alloc"
	"github.com/scottcagno/collections/pkg/hash"
	"golang.org/x/exp/constraints"
)

const (
	// maxOccupancy is the load factor past which the table grows
	maxOccupancy = 0.75
	// emptyHash marks an unoccupied slot; key hashes of 0 are remapped
	emptyHash = 0
)

// ErrCapacity is returned when growth would exceed the largest supported
// table size. The attempted operation leaves the map untouched.
var ErrCapacity = errors.New("ordered: maximum table capacity reached")

// Element is a single key/value pair of a Map. Elements are linked in
// insertion order; Next and Prev walk that order. The Value field may be
// mutated in place, the key may not (see Map.ReplaceKey).
type Element[K any, V any] struct {
	next, prev *Element[K, V]
	key        K
	Value      V
}

// Key returns the element's key
func (e *Element[K, V]) Key() K { return e.key }

// Next returns the element inserted after this one, or nil
func (e *Element[K, V]) Next() *Element[K, V] { return e.next }

// Prev returns the element inserted before this one, or nil
func (e *Element[K, V]) Prev() *Element[K, V] { return e.prev }

// Map is an insertion-ordered Robin Hood hash map. It is generic over a
// hash and an equality strategy for the key type; see the hash package for
// the stock strategies. The zero Map is not usable, call New.
type Map[K any, V any] struct {
	hashfn hash.Func[K]
	equal  hash.EqualFunc[K]
	alloc  alloc.Allocator[Element[K, V]]

	hashes []uint32
	elems  []*Element[K, V]
	head   *Element[K, V]
	tail   *Element[K, V]
	capIdx int
	num    uint32
}

// Option configures a Map at construction time
type Option[K any, V any] func(*Map[K, V])

// WithAllocator sets the element allocation policy
func WithAllocator[K any, V any](a alloc.Allocator[Element[K, V]]) Option[K, V] {
	return func(m *Map[K, V]) { m.alloc = a }
}

// New returns an empty Map using the provided hash and equality strategy.
// The slot arrays are allocated lazily on the first insert.
func New[K any, V any](hashfn hash.Func[K], equal hash.EqualFunc[K], opts ...Option[K, V]) *Map[K, V] {
	if hashfn == nil || equal == nil {
		panic("ordered: nil hash or equality function")
	}
	m := &Map[K, V]{
		hashfn: hashfn,
		equal:  equal,
		alloc:  alloc.Heap[Element[K, V]](),
		capIdx: minCapacityIndex,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Len returns the number of elements currently in the map
func (m *Map[K, V]) Len() int { return int(m.num) }

// IsEmpty reports whether the map holds no elements
func (m *Map[K, V]) IsEmpty() bool { return m.num == 0 }

// Capacity returns the current rung of the size ladder
func (m *Map[K, V]) Capacity() int { return int(capacities[m.capIdx]) }

// Front returns the first element in insertion order, or nil
func (m *Map[K, V]) Front() *Element[K, V] { return m.head }

// Back returns the last element in insertion order, or nil
func (m *Map[K, V]) Back() *Element[K, V] { return m.tail }

// hashOf runs the key strategy and remaps the reserved empty marker
func (m *Map[K, V]) hashOf(key K) uint32 {
	h := m.hashfn(key)
	if h == emptyHash {
		h = emptyHash + 1
	}
	return h
}

// lookupPos locates the slot holding key, or reports absence
func (m *Map[K, V]) lookupPos(key K) (uint32, bool) {
	if m.elems == nil || m.num == 0 {
		return 0, false
	}
	h := m.hashOf(key)
	pos := fastmod(h, capacityInverses[m.capIdx], capacities[m.capIdx])
	return m.lookupPosUnchecked(key, h, pos)
}

// lookupPosUnchecked probes from pos. It assumes the slot arrays are
// allocated. On a miss the returned position is where probing stopped.
// The Robin Hood invariant allows the probe to stop as soon as it reaches
// a slot whose own probe distance is shorter than the distance walked.
func (m *Map[K, V]) lookupPosUnchecked(key K, h, pos uint32) (uint32, bool) {
	capacity := capacities[m.capIdx]
	inv := capacityInverses[m.capIdx]
	var distance uint32
	for {
		if m.hashes[pos] == emptyHash {
			return pos, false
		}
		if distance > probeLen(pos, m.hashes[pos], capacity, inv) {
			return pos, false
		}
		if m.hashes[pos] == h && m.equal(m.elems[pos].key, key) {
			return pos, true
		}
		pos++
		if pos == capacity {
			pos = 0
		}
		distance++
	}
}

// insertElement places e into the slot arrays starting the probe at pos,
// displacing residents with shorter probe distances along the way. It
// returns the slot e itself ended up in.
func (m *Map[K, V]) insertElement(h uint32, e *Element[K, V], pos uint32) uint32 {
	capacity := capacities[m.capIdx]
	inv := capacityInverses[m.capIdx]
	value := e
	idx := pos
	var distance uint32
	for {
		if m.hashes[pos] == emptyHash {
			m.hashes[pos] = h
			m.elems[pos] = value
			m.num++
			if value == e {
				idx = pos
			}
			return idx
		}
		existing := probeLen(pos, m.hashes[pos], capacity, inv)
		if existing < distance {
			h, m.hashes[pos] = m.hashes[pos], h
			value, m.elems[pos] = m.elems[pos], value
			if m.elems[pos] == e {
				idx = pos
			}
			distance = existing
		}
		pos++
		if pos == capacity {
			pos = 0
		}
		distance++
	}
}

// resize moves the table to a new rung and reinserts every live element
func (m *Map[K, V]) resize(newIdx int) {
	if newIdx < minCapacityIndex {
		newIdx = minCapacityIndex
	}
	oldHashes := m.hashes
	oldElems := m.elems

	m.capIdx = newIdx
	capacity := capacities[newIdx]
	inv := capacityInverses[newIdx]
	m.hashes = make([]uint32, capacity)
	m.elems = make([]*Element[K, V], capacity)
	m.num = 0

	for i, h := range oldHashes {
		if h == emptyHash {
			continue
		}
		m.insertElement(h, oldElems[i], fastmod(h, inv, capacity))
	}
}

// insertNew links a fresh element into the insertion-order list and the
// table. The key must not be present. Returns nil if the size ladder is
// exhausted, leaving the map untouched.
func (m *Map[K, V]) insertNew(key K, value V, h uint32, front bool) *Element[K, V] {
	if m.elems == nil {
		capacity := capacities[m.capIdx]
		m.hashes = make([]uint32, capacity)
		m.elems = make([]*Element[K, V], capacity)
	}
	if float64(m.num+1) > maxOccupancy*float64(capacities[m.capIdx]) {
		if m.capIdx == maxCapacityIndex {
			return nil
		}
		m.resize(m.capIdx + 1)
	}

	e := m.alloc.New()
	e.key = key
	e.Value = value
	e.next, e.prev = nil, nil

	switch {
	case m.tail == nil:
		m.head, m.tail = e, e
	case front:
		m.head.prev = e
		e.next = m.head
		m.head = e
	default:
		m.tail.next = e
		e.prev = m.tail
		m.tail = e
	}

	pos := fastmod(h, capacityInverses[m.capIdx], capacities[m.capIdx])
	m.insertElement(h, e, pos)
	return e
}

func (m *Map[K, V]) insert(key K, value V, front bool) *Element[K, V] {
	h := m.hashOf(key)
	if m.elems != nil && m.num > 0 {
		pos := fastmod(h, capacityInverses[m.capIdx], capacities[m.capIdx])
		if p, ok := m.lookupPosUnchecked(key, h, pos); ok {
			el := m.elems[p]
			el.Value = value
			return el
		}
	}
	return m.insertNew(key, value, h, front)
}

// Insert adds key/value to the map, overwriting the value in place if the
// key is already present. New elements are appended at the back of the
// iteration order. Returns nil only if the table cannot grow any further.
func (m *Map[K, V]) Insert(key K, value V) *Element[K, V] {
	return m.insert(key, value, false)
}

// InsertFront is Insert, but a new element is linked at the head of the
// iteration order instead of the tail.
func (m *Map[K, V]) InsertFront(key K, value V) *Element[K, V] {
	return m.insert(key, value, true)
}

// Get returns the value stored under key, or false if none could be found
func (m *Map[K, V]) Get(key K) (V, bool) {
	if pos, ok := m.lookupPos(key); ok {
		return m.elems[pos].Value, true
	}
	var zero V
	return zero, false
}

// Ptr returns a pointer to the value stored under key, or nil
func (m *Map[K, V]) Ptr(key K) *V {
	if pos, ok := m.lookupPos(key); ok {
		return &m.elems[pos].Value
	}
	return nil
}

// GetOrInsert returns a pointer to the value stored under key, inserting
// the zero value first if the key is absent. Returns nil only if the
// insert failed because the table cannot grow any further.
func (m *Map[K, V]) GetOrInsert(key K) *V {
	ent := m.Entry(key)
	var zero V
	el := ent.OrInsert(zero)
	if el == nil {
		return nil
	}
	return &el.Value
}

// Find returns the element stored under key, or nil
func (m *Map[K, V]) Find(key K) *Element[K, V] {
	if pos, ok := m.lookupPos(key); ok {
		return m.elems[pos]
	}
	return nil
}

// Has reports whether key is present
func (m *Map[K, V]) Has(key K) bool {
	_, ok := m.lookupPos(key)
	return ok
}

// Erase removes key from the map, returning false if it was absent.
// Erasing invalidates only the element that held the key.
func (m *Map[K, V]) Erase(key K) bool {
	pos, ok := m.lookupPos(key)
	if !ok {
		return false
	}
	m.eraseAt(pos)
	return true
}

// Remove erases the key held by e. It is a convenience for erasing while
// iterating; advance the cursor before removing the element under it.
func (m *Map[K, V]) Remove(e *Element[K, V]) bool {
	if e == nil {
		return false
	}
	return m.Erase(e.key)
}

// eraseAt vacates a slot by backward shifting: every following slot that
// is displaced from its ideal position is pulled one step closer, so no
// tombstone is ever needed. The element is then unlinked and released.
func (m *Map[K, V]) eraseAt(pos uint32) {
	capacity := capacities[m.capIdx]
	inv := capacityInverses[m.capIdx]

	next := pos + 1
	if next == capacity {
		next = 0
	}
	for m.hashes[next] != emptyHash && probeLen(next, m.hashes[next], capacity, inv) != 0 {
		m.hashes[pos], m.hashes[next] = m.hashes[next], m.hashes[pos]
		m.elems[pos], m.elems[next] = m.elems[next], m.elems[pos]
		pos = next
		next++
		if next == capacity {
			next = 0
		}
	}
	m.hashes[pos] = emptyHash

	e := m.elems[pos]
	m.elems[pos] = nil
	if m.head == e {
		m.head = e.next
	}
	if m.tail == e {
		m.tail = e.prev
	}
	if e.prev != nil {
		e.prev.next = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	}
	e.next, e.prev = nil, nil
	m.alloc.Free(e)
	m.num--
}

// ReplaceKey changes the key of an existing entry in place, without
// touching its position in the iteration order; a plain erase+insert would
// move the entry to the back. It returns false if the map is empty, oldKey
// is absent, or newKey is already present. Equal keys on a non-empty map
// are a no-op success.
func (m *Map[K, V]) ReplaceKey(oldKey, newKey K) bool {
	if m.elems == nil || m.num == 0 {
		return false
	}
	if m.equal(oldKey, newKey) {
		return true
	}
	capacity := capacities[m.capIdx]
	inv := capacityInverses[m.capIdx]

	newHash := m.hashOf(newKey)
	newStart := fastmod(newHash, inv, capacity)
	if _, exists := m.lookupPosUnchecked(newKey, newHash, newStart); exists {
		return false
	}
	oldPos, ok := m.lookupPos(oldKey)
	if !ok {
		return false
	}
	e := m.elems[oldPos]

	// Vacate the old bucket with the usual backward shift, then rekey the
	// element and reinsert it under the new hash. The list links are never
	// touched, so the iteration position is preserved.
	next := oldPos + 1
	if next == capacity {
		next = 0
	}
	for m.hashes[next] != emptyHash && probeLen(next, m.hashes[next], capacity, inv) != 0 {
		m.hashes[oldPos], m.hashes[next] = m.hashes[next], m.hashes[oldPos]
		m.elems[oldPos], m.elems[next] = m.elems[next], m.elems[oldPos]
		oldPos = next
		next++
		if next == capacity {
			next = 0
		}
	}
	m.hashes[oldPos] = emptyHash
	m.elems[oldPos] = nil
	// insertElement increments this again
	m.num--

	e.key = newKey
	m.insertElement(newHash, e, newStart)
	return true
}

// Reserve grows the table ahead of a bulk insertion so the inserts do not
// rehash repeatedly. It panics if n is below the current size (almost
// certainly a caller bug) and returns ErrCapacity if n exceeds the largest
// supported table size.
func (m *Map[K, V]) Reserve(n int) error {
	if n < m.Len() {
		panic("ordered: Reserve called with a capacity smaller than the current size")
	}
	if n > int(capacities[maxCapacityIndex]) {
		return ErrCapacity
	}
	newIdx := m.capIdx
	for capacities[newIdx] < uint32(n) {
		newIdx++
	}
	if newIdx == m.capIdx {
		return nil
	}
	if m.elems == nil {
		// Unallocated yet; just move the ladder up.
		m.capIdx = newIdx
		return nil
	}
	m.resize(newIdx)
	return nil
}

// Clear releases every element but keeps the slot arrays
func (m *Map[K, V]) Clear() {
	if m.elems == nil || m.num == 0 {
		return
	}
	for i := range m.hashes {
		if m.hashes[i] == emptyHash {
			continue
		}
		m.hashes[i] = emptyHash
		e := m.elems[i]
		m.elems[i] = nil
		e.next, e.prev = nil, nil
		m.alloc.Free(e)
	}
	m.head, m.tail = nil, nil
	m.num = 0
}

// Keys returns the keys in iteration order
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.num)
	for e := m.head; e != nil; e = e.next {
		keys = append(keys, e.key)
	}
	return keys
}

// Sort reorders the iteration order into ascending key order without
// touching bucket placement. Insertion sort is used on purpose: the
// expected workload is re-sorting an already mostly sorted list after a
// handful of inserts, which it handles in near linear time.
func (m *Map[K, V]) Sort(less hash.LessFunc[K]) {
	if m.num < 2 {
		return
	}
	inserting := m.head.next
	for inserting != nil {
		var after *Element[K, V]
		for cur := inserting.prev; cur != nil; cur = cur.prev {
			if less(inserting.key, cur.key) {
				after = cur
			} else {
				break
			}
		}
		next := inserting.next
		if after != nil {
			// Unlink inserting from its current position.
			inserting.prev.next = next
			if next == nil {
				m.tail = inserting.prev
			} else {
				next.prev = inserting.prev
			}
			// Relink it between after.prev and after.
			before := after.prev
			if before == nil {
				m.head = inserting
			} else {
				before.next = inserting
			}
			after.prev = inserting
			inserting.prev = before
			inserting.next = after
		}
		inserting = next
	}
}

// SortOrdered sorts a map whose keys have a natural ordering
func SortOrdered[K constraints.Ordered, V any](m *Map[K, V]) {
	m.Sort(func(a, b K) bool { return a < b })
}
