package ordered

// Entry is a lazily resolved handle for a single key. It runs the hash and
// probe work once and then supports reading, overwriting, or inserting the
// value without paying for a second lookup. The handle goes stale if the
// map is mutated through any other path after it is taken.
type Entry[K any, V any] struct {
	m    *Map[K, V]
	key  K
	hash uint32
	elem *Element[K, V]
}

// Entry returns a handle for key, resolving its position immediately if
// the map is non-empty.
func (m *Map[K, V]) Entry(key K) Entry[K, V] {
	ent := Entry[K, V]{m: m, key: key}
	if m.elems != nil && m.num > 0 {
		ent.hash = m.hashOf(key)
		pos := fastmod(ent.hash, capacityInverses[m.capIdx], capacities[m.capIdx])
		if p, ok := m.lookupPosUnchecked(key, ent.hash, pos); ok {
			ent.elem = m.elems[p]
		}
	}
	return ent
}

// Exists reports whether the key was present when the handle was taken
func (e *Entry[K, V]) Exists() bool { return e.elem != nil }

// Elem returns the resolved element, or nil if the key is absent
func (e *Entry[K, V]) Elem() *Element[K, V] { return e.elem }

// Value returns the value under the key. It panics if the key is absent;
// use Ptr or Exists for the soft variant.
func (e *Entry[K, V]) Value() V {
	if e.elem == nil {
		panic("ordered: entry key not found")
	}
	return e.elem.Value
}

// Ptr returns a pointer to the value under the key, or nil if absent
func (e *Entry[K, V]) Ptr() *V {
	if e.elem == nil {
		return nil
	}
	return &e.elem.Value
}

// Set stores value under the key, inserting at the back of the iteration
// order if the key was absent. Returns nil only if the table cannot grow.
func (e *Entry[K, V]) Set(value V) *Element[K, V] {
	return e.set(value, false)
}

// SetFront is Set, but a new element is linked at the head of the
// iteration order.
func (e *Entry[K, V]) SetFront(value V) *Element[K, V] {
	return e.set(value, true)
}

// OrInsert stores value only if the key was absent and returns the
// element either way.
func (e *Entry[K, V]) OrInsert(value V) *Element[K, V] {
	if e.elem != nil {
		return e.elem
	}
	return e.set(value, false)
}

func (e *Entry[K, V]) set(value V, front bool) *Element[K, V] {
	if e.elem != nil {
		e.elem.Value = value
		return e.elem
	}
	if e.hash == emptyHash {
		// The map was empty when the handle was taken; hashOf never
		// returns the empty marker, so zero means not yet computed.
		e.hash = e.m.hashOf(e.key)
	}
	e.elem = e.m.insertNew(e.key, value, e.hash, front)
	return e.elem
}
