package ordered

import (
	"math/rand"
	"sort"
	"strconv"
	"testing"

	"github.com/scottcagno/collections/pkg/alloc"
	"github.com/scottcagno/collections/pkg/hash"
	"github.com/stretchr/testify/require"
)

func newStringMap() *Map[string, int] {
	return New[string, int](hash.String, hash.Equal[string])
}

func newIntMap() *Map[int, int] {
	return New[int, int](hash.Int[int], hash.Equal[int])
}

// auditProbes recomputes the probe distance of every occupied slot and
// checks the Robin Hood ordering: a displaced slot must directly follow an
// occupied slot whose own distance is at most one smaller.
func auditProbes[K any, V any](t *testing.T, m *Map[K, V]) {
	t.Helper()
	if m.elems == nil {
		return
	}
	capacity := capacities[m.capIdx]
	inv := capacityInverses[m.capIdx]
	var live uint32
	for pos := uint32(0); pos < capacity; pos++ {
		if m.hashes[pos] == emptyHash {
			require.Nil(t, m.elems[pos])
			continue
		}
		live++
		d := probeLen(pos, m.hashes[pos], capacity, inv)
		if d == 0 {
			continue
		}
		prev := pos + capacity - 1
		if prev >= capacity {
			prev -= capacity
		}
		require.NotEqual(t, uint32(emptyHash), m.hashes[prev],
			"slot %d is displaced but follows an empty slot", pos)
		pd := probeLen(prev, m.hashes[prev], capacity, inv)
		require.GreaterOrEqual(t, pd+1, d,
			"slot %d violates the displacement ordering", pos)
	}
	require.Equal(t, m.num, live)
}

func TestInsertionOrder(t *testing.T) {
	m := newStringMap()
	m.Insert("a", 1)
	m.Insert("b", 2)
	m.Insert("c", 3)
	require.Equal(t, []string{"a", "b", "c"}, m.Keys())

	require.True(t, m.Erase("b"))
	require.Equal(t, []string{"a", "c"}, m.Keys())
	require.Equal(t, 2, m.Len())

	// backward iteration mirrors forward iteration
	var back []string
	for e := m.Back(); e != nil; e = e.Prev() {
		back = append(back, e.Key())
	}
	require.Equal(t, []string{"c", "a"}, back)
	auditProbes(t, m)
}

func TestInsertFront(t *testing.T) {
	m := newStringMap()
	m.Insert("a", 1)
	m.Insert("b", 2)
	m.InsertFront("z", 26)
	require.Equal(t, []string{"z", "a", "b"}, m.Keys())

	// overwriting through InsertFront must not move an existing element
	m.InsertFront("b", 20)
	require.Equal(t, []string{"z", "a", "b"}, m.Keys())
	v, ok := m.Get("b")
	require.True(t, ok)
	require.Equal(t, 20, v)
}

func TestOverwriteKeepsOrder(t *testing.T) {
	m := newStringMap()
	m.Insert("a", 1)
	m.Insert("b", 2)
	e := m.Insert("a", 10)
	require.Equal(t, "a", e.Key())
	require.Equal(t, []string{"a", "b"}, m.Keys())
	require.Equal(t, 2, m.Len())
	v, _ := m.Get("a")
	require.Equal(t, 10, v)
}

func TestGrowth(t *testing.T) {
	m := newIntMap()
	require.Equal(t, int(capacities[minCapacityIndex]), m.Capacity())
	for i := 0; i < 100; i++ {
		require.NotNil(t, m.Insert(i, i*i))
	}
	require.Equal(t, 100, m.Len())
	require.Greater(t, m.Capacity(), int(capacities[minCapacityIndex]))

	// no key lost or duplicated through the rehashes, order intact
	keys := m.Keys()
	require.Len(t, keys, 100)
	for i := 0; i < 100; i++ {
		require.Equal(t, i, keys[i])
		v, ok := m.Get(i)
		require.True(t, ok)
		require.Equal(t, i*i, v)
	}
	auditProbes(t, m)
}

func TestEraseBackshift(t *testing.T) {
	m := newIntMap()
	for i := 0; i < 500; i++ {
		m.Insert(i, i)
	}
	for i := 0; i < 500; i += 3 {
		require.True(t, m.Erase(i))
		require.False(t, m.Erase(i))
	}
	auditProbes(t, m)
	for i := 0; i < 500; i++ {
		require.Equal(t, i%3 != 0, m.Has(i), "key %d", i)
	}
}

func TestReplaceKey(t *testing.T) {
	m := newStringMap()
	m.Insert("a", 1)
	m.Insert("b", 2)
	m.Insert("c", 3)

	require.True(t, m.ReplaceKey("b", "x"))
	require.False(t, m.Has("b"))
	v, ok := m.Get("x")
	require.True(t, ok)
	require.Equal(t, 2, v)

	// the rekeyed element keeps its position in iteration order
	require.Equal(t, []string{"a", "x", "c"}, m.Keys())

	require.False(t, m.ReplaceKey("missing", "y"), "absent old key")
	require.False(t, m.ReplaceKey("a", "c"), "occupied new key")
	require.True(t, m.ReplaceKey("a", "a"), "equal keys are a no-op success")
	require.Equal(t, []string{"a", "x", "c"}, m.Keys())
	auditProbes(t, m)

	// an empty map has nothing to rekey, even under equal keys
	empty := newStringMap()
	require.False(t, empty.ReplaceKey("a", "a"))
	require.False(t, empty.ReplaceKey("a", "b"))
}

func TestReplaceKeyChurn(t *testing.T) {
	m := newIntMap()
	for i := 0; i < 200; i++ {
		m.Insert(i, i)
	}
	for i := 0; i < 200; i++ {
		require.True(t, m.ReplaceKey(i, i+1000))
	}
	require.Equal(t, 200, m.Len())
	for i := 0; i < 200; i++ {
		v, ok := m.Get(i + 1000)
		require.True(t, ok)
		require.Equal(t, i, v)
	}
	auditProbes(t, m)
}

func TestReserve(t *testing.T) {
	m := newIntMap()
	require.NoError(t, m.Reserve(1000))
	capBefore := m.Capacity()
	require.GreaterOrEqual(t, capBefore, 1000)
	for i := 0; i < 700; i++ {
		m.Insert(i, i)
	}
	require.Equal(t, capBefore, m.Capacity(), "reserved map must not rehash")

	require.Panics(t, func() { _ = m.Reserve(10) })
	require.ErrorIs(t, m.Reserve(int(capacities[maxCapacityIndex])+1), ErrCapacity)
	require.Equal(t, capBefore, m.Capacity())
}

func TestSort(t *testing.T) {
	m := newIntMap()
	input := rand.New(rand.NewSource(42)).Perm(128)
	for _, k := range input {
		m.Insert(k, k)
	}
	SortOrdered(m)
	keys := m.Keys()
	require.True(t, sort.IntsAreSorted(keys))
	require.Len(t, keys, 128)

	// the nearly sorted fast path: a handful of appends, then re-sort
	m.Insert(1000, 1000)
	m.InsertFront(-1, -1)
	SortOrdered(m)
	keys = m.Keys()
	require.True(t, sort.IntsAreSorted(keys))
	require.Equal(t, -1, keys[0])
	require.Equal(t, 1000, keys[len(keys)-1])

	// sorting only reorders the list; lookups still work
	for _, k := range input {
		require.True(t, m.Has(k))
	}
	auditProbes(t, m)
}

func TestClear(t *testing.T) {
	m := newStringMap()
	for i := 0; i < 50; i++ {
		m.Insert(strconv.Itoa(i), i)
	}
	capBefore := m.Capacity()
	m.Clear()
	require.Zero(t, m.Len())
	require.Nil(t, m.Front())
	require.Nil(t, m.Back())
	require.Equal(t, capBefore, m.Capacity(), "Clear keeps the slot arrays")
	require.False(t, m.Has("1"))

	m.Insert("again", 1)
	require.Equal(t, []string{"again"}, m.Keys())
}

func TestGetOrInsert(t *testing.T) {
	m := newStringMap()
	p := m.GetOrInsert("counter")
	require.NotNil(t, p)
	require.Equal(t, 0, *p)
	*p = *p + 1
	q := m.GetOrInsert("counter")
	*q = *q + 1
	v, ok := m.Get("counter")
	require.True(t, ok)
	require.Equal(t, 2, v)
}

func TestPtr(t *testing.T) {
	m := newStringMap()
	require.Nil(t, m.Ptr("a"))
	m.Insert("a", 1)
	p := m.Ptr("a")
	require.NotNil(t, p)
	*p = 7
	v, _ := m.Get("a")
	require.Equal(t, 7, v)
}

func TestRemoveElement(t *testing.T) {
	m := newStringMap()
	m.Insert("a", 1)
	m.Insert("b", 2)
	m.Insert("c", 3)
	for e := m.Front(); e != nil; {
		next := e.Next()
		if e.Key() == "b" {
			require.True(t, m.Remove(e))
		}
		e = next
	}
	require.Equal(t, []string{"a", "c"}, m.Keys())
	require.False(t, m.Remove(nil))
}

func TestPoolAllocator(t *testing.T) {
	m := New[int, int](hash.Int[int], hash.Equal[int],
		WithAllocator[int, int](alloc.Pool[Element[int, int]]()))
	for round := 0; round < 3; round++ {
		for i := 0; i < 300; i++ {
			m.Insert(i, i+round)
		}
		for i := 0; i < 300; i += 2 {
			require.True(t, m.Erase(i))
		}
		for i := 1; i < 300; i += 2 {
			v, ok := m.Get(i)
			require.True(t, ok)
			require.Equal(t, i+round, v)
		}
		m.Clear()
		require.Zero(t, m.Len())
	}
	auditProbes(t, m)
}

func TestRandomizedAgainstReference(t *testing.T) {
	m := newIntMap()
	ref := make(map[int]int)
	var order []int

	rng := rand.New(rand.NewSource(7))
	for op := 0; op < 20000; op++ {
		k := rng.Intn(800)
		switch rng.Intn(3) {
		case 0, 1:
			v := rng.Int()
			m.Insert(k, v)
			if _, ok := ref[k]; !ok {
				order = append(order, k)
			}
			ref[k] = v
		case 2:
			got := m.Erase(k)
			_, want := ref[k]
			require.Equal(t, want, got)
			if want {
				delete(ref, k)
				for i, ord := range order {
					if ord == k {
						order = append(order[:i], order[i+1:]...)
						break
					}
				}
			}
		}
	}

	require.Equal(t, len(ref), m.Len())
	require.Equal(t, order, m.Keys(), "survivors keep their insertion order")
	for k, v := range ref {
		got, ok := m.Get(k)
		require.True(t, ok)
		require.Equal(t, v, got)
	}
	auditProbes(t, m)
}

func TestZeroHashKey(t *testing.T) {
	// a strategy that returns 0 must still work: 0 is reserved as the
	// empty slot marker and gets remapped internally
	zero := func(int) uint32 { return 0 }
	m := New[int, string](zero, hash.Equal[int])
	m.Insert(1, "one")
	m.Insert(2, "two")
	m.Insert(3, "three")
	require.Equal(t, 3, m.Len())
	v, ok := m.Get(2)
	require.True(t, ok)
	require.Equal(t, "two", v)
	require.True(t, m.Erase(1))
	require.False(t, m.Has(1))
	auditProbes(t, m)
}
