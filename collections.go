// Package collections provides generic, single-threaded associative
// containers:
//
//   - pkg/hashmap/ordered: an open-addressing Robin Hood hash map with
//     stable insertion-order iteration
//   - pkg/rbtree: an ordered map and set over a successor-threaded
//     red-black tree
//
// Containers are parameterized by key/value types and pluggable policies
// (pkg/hash for hashing/comparison strategies, pkg/alloc for element
// allocation). They provide no internal synchronization; guard shared
// instances externally.
package collections
