// Package hash provides the pluggable hashing and comparison strategies
// used by the container packages. A container is generic over a Func and
// an EqualFunc (hash map) or a LessFunc (ordered tree); the helpers here
// cover the common key types so most callers never write their own.
package hash

import (
	"github.com/cespare/xxhash/v2"
	"golang.org/x/exp/constraints"
)

// Func is a type definition for what a hash function should look like
type Func[K any] func(key K) uint32

// EqualFunc is a type definition for what a key equality function should look like
type EqualFunc[K any] func(a, b K) bool

// LessFunc is a type definition for a strict less-than comparator
type LessFunc[K any] func(a, b K) bool

// fold32 folds a 64 bit hash down to the 32 bits the containers store
func fold32(h uint64) uint32 {
	return uint32(h>>32) ^ uint32(h)
}

// String hashes a string key
func String(key string) uint32 {
	return fold32(xxhash.Sum64String(key))
}

// Bytes hashes a byte slice key
func Bytes(key []byte) uint32 {
	return fold32(xxhash.Sum64(key))
}

// Uint64 mixes a 64 bit integer key. Integer keys tend to be sequential,
// so they get run through a finalizer to spread them across the table.
func Uint64(key uint64) uint32 {
	key ^= key >> 33
	key *= 0xff51afd7ed558ccd
	key ^= key >> 33
	key *= 0xc4ceb9fe1a85ec53
	key ^= key >> 33
	return fold32(key)
}

// Int hashes any integer key
func Int[T constraints.Integer](key T) uint32 {
	return Uint64(uint64(key))
}

// Equal is the default equality strategy for comparable keys
func Equal[K comparable](a, b K) bool {
	return a == b
}

// Less is the default comparator for ordered keys
func Less[K constraints.Ordered](a, b K) bool {
	return a < b
}
