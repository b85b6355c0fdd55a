package ordered

import "math/bits"

// capacities is the table size ladder. Prime sizes keep probe sequences
// well distributed even with weak hash functions, and the precomputed
// multiplicative inverses below make the modulo cheap.
var capacities = [...]uint32{
	5, 13, 23, 47, 97, 193, 389, 769, 1543, 3079,
	6151, 12289, 24593, 49157, 98317, 196613, 393241, 786433, 1572869, 3145739,
	6291469, 12582917, 25165843, 50331653, 100663319, 201326611, 402653189,
	805306457, 1610612741, 3221225473,
}

const (
	// minCapacityIndex is the smallest rung a table is ever allocated at
	minCapacityIndex = 2
	maxCapacityIndex = len(capacities) - 1
)

var capacityInverses = func() [len(capacities)]uint64 {
	var inv [len(capacities)]uint64
	for i, p := range capacities {
		inv[i] = ^uint64(0)/uint64(p) + 1
	}
	return inv
}()

// fastmod computes n % d given c = ^uint64(0)/d + 1, using a 128 bit
// multiply instead of a hardware divide (Lemire's trick).
func fastmod(n uint32, c uint64, d uint32) uint32 {
	lo := c * uint64(n)
	hi, _ := bits.Mul64(lo, uint64(d))
	return uint32(hi)
}

// probeLen is the distance from the slot a hash ideally lands in to the
// slot it actually occupies, modulo the table capacity.
func probeLen(pos, h, capacity uint32, inv uint64) uint32 {
	original := fastmod(h, inv, capacity)
	distance := pos - original + capacity
	if distance >= capacity {
		distance -= capacity
	}
	return distance
}
