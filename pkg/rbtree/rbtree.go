// Package rbtree implements an ordered map and an ordered set on top of a
// shared red-black tree engine. Every node carries explicit successor and
// predecessor links maintained incrementally on insert and erase, so
// in-order traversal is O(1) per step with no stack or recursion.
//
// The empty tree owns no memory at all: a synthetic root node (holding the
// real root in its left child) and a per-tree black sentinel standing in
// for every leaf are allocated on the first insert and released when the
// last node is erased. The synthetic root removes every root special case
// from the rotation and fixup code. Trees are not safe for concurrent use.
package rbtree

// LessFunc is a strict less-than comparator over keys
type LessFunc[K any] func(a, b K) bool

const (
	red   = 0
	black = 1
)

// Node is a single element of a Map or Set. Nodes remain valid until the
// key they hold is erased; Next and Prev follow the in-order threading.
type Node[K any, V any] struct {
	left, right, parent *Node[K, V]
	next, prev          *Node[K, V]
	color               uint8
	key                 K
	value               V
}

// Key returns the node's key
func (n *Node[K, V]) Key() K { return n.key }

// Value returns the node's value. For Set nodes it is an empty struct.
func (n *Node[K, V]) Value() V { return n.value }

// SetValue overwrites the node's value in place
func (n *Node[K, V]) SetValue(v V) { n.value = v }

// Next returns the in-order successor node, or nil
func (n *Node[K, V]) Next() *Node[K, V] { return n.next }

// Prev returns the in-order predecessor node, or nil
func (n *Node[K, V]) Prev() *Node[K, V] { return n.prev }

type tree[K any, V any] struct {
	root *Node[K, V] // synthetic; the real root lives at root.left
	sent *Node[K, V] // shared black sentinel standing in for every leaf
	less LessFunc[K]
	size int
}

// createRoot lazily allocates the sentinel and the synthetic root
func (t *tree[K, V]) createRoot() {
	s := &Node[K, V]{color: black}
	s.left, s.right, s.parent = s, s, s
	t.sent = s
	t.root = &Node[K, V]{color: black, left: s, right: s, parent: s}
}

// freeRoot releases the sentinel pair once the tree is empty again
func (t *tree[K, V]) freeRoot() {
	t.root = nil
	t.sent = nil
}

func (t *tree[K, V]) clear() {
	t.root = nil
	t.sent = nil
	t.size = 0
}

func (t *tree[K, V]) find(key K) *Node[K, V] {
	if t.root == nil {
		return nil
	}
	n := t.root.left
	for n != t.sent {
		if t.less(key, n.key) {
			n = n.left
		} else if t.less(n.key, key) {
			n = n.right
		} else {
			return n
		}
	}
	return nil
}

// lowerBound returns the node with the smallest key not less than key, or
// nil if every key is smaller (or the tree is empty). The descent
// remembers the last visited node; when the final comparison went the
// too-small direction, its successor link is the answer.
func (t *tree[K, V]) lowerBound(key K) *Node[K, V] {
	if t.root == nil {
		return nil
	}
	n := t.root.left
	var last *Node[K, V]
	for n != t.sent {
		last = n
		if t.less(key, n.key) {
			n = n.left
		} else if t.less(n.key, key) {
			n = n.right
		} else {
			return n
		}
	}
	if last == nil {
		return nil
	}
	if t.less(last.key, key) {
		last = last.next
	}
	return last
}

// insert descends to the insertion point for key. If the key exists the
// node is returned untouched with existed=true; otherwise a red node is
// linked in, threaded into the in-order chain, and the tree rebalanced.
func (t *tree[K, V]) insert(key K) (n *Node[K, V], existed bool) {
	if t.root == nil {
		t.createRoot()
	}
	parent := t.root
	n = t.root.left
	for n != t.sent {
		parent = n
		if t.less(key, n.key) {
			n = n.left
		} else if t.less(n.key, key) {
			n = n.right
		} else {
			return n, true
		}
	}
	n = &Node[K, V]{color: red, left: t.sent, right: t.sent, parent: parent, key: key}
	if parent == t.root || t.less(key, parent.key) {
		parent.left = n
	} else {
		parent.right = n
	}

	// Thread the new node between its in-order neighbors before any
	// rotation happens; rotations never change the in-order sequence.
	n.next = t.successor(n)
	n.prev = t.predecessor(n)
	if n.next != nil {
		n.next.prev = n
	}
	if n.prev != nil {
		n.prev.next = n
	}

	t.size++
	t.insertFixup(n)
	return n, false
}

// successor computes the structural in-order successor; only used to seed
// the threading of a freshly linked node.
func (t *tree[K, V]) successor(n *Node[K, V]) *Node[K, V] {
	if n.right != t.sent {
		n = n.right
		for n.left != t.sent {
			n = n.left
		}
		return n
	}
	p := n.parent
	for p != t.root && n == p.right {
		n, p = p, p.parent
	}
	if p == t.root {
		return nil
	}
	return p
}

func (t *tree[K, V]) predecessor(n *Node[K, V]) *Node[K, V] {
	if n.left != t.sent {
		n = n.left
		for n.right != t.sent {
			n = n.right
		}
		return n
	}
	p := n.parent
	for p != t.root && n == p.left {
		n, p = p, p.parent
	}
	if p == t.root {
		return nil
	}
	return p
}

func (t *tree[K, V]) rotateLeft(x *Node[K, V]) {
	if x.right == t.sent {
		return
	}
	y := x.right
	x.right = y.left
	if y.left != t.sent {
		y.left.parent = x
	}
	y.parent = x.parent
	if x == x.parent.left {
		x.parent.left = y
	} else {
		x.parent.right = y
	}
	y.left = x
	x.parent = y
}

func (t *tree[K, V]) rotateRight(x *Node[K, V]) {
	if x.left == t.sent {
		return
	}
	y := x.left
	x.left = y.right
	if y.right != t.sent {
		y.right.parent = x
	}
	y.parent = x.parent
	if x == x.parent.left {
		x.parent.left = y
	} else {
		x.parent.right = y
	}
	y.right = x
	x.parent = y
}

func (t *tree[K, V]) insertFixup(z *Node[K, V]) {
	for z.parent.color == red {
		if z.parent == z.parent.parent.left {
			y := z.parent.parent.right
			if y.color == red {
				z.parent.color = black
				y.color = black
				z.parent.parent.color = red
				z = z.parent.parent
			} else {
				if z == z.parent.right {
					z = z.parent
					t.rotateLeft(z)
				}
				z.parent.color = black
				z.parent.parent.color = red
				t.rotateRight(z.parent.parent)
			}
		} else {
			y := z.parent.parent.left
			if y.color == red {
				z.parent.color = black
				y.color = black
				z.parent.parent.color = red
				z = z.parent.parent
			} else {
				if z == z.parent.left {
					z = z.parent
					t.rotateRight(z)
				}
				z.parent.color = black
				z.parent.parent.color = red
				t.rotateLeft(z.parent.parent)
			}
		}
	}
	t.root.left.color = black
}

// transplant replaces the subtree rooted at u with the one rooted at v.
// v may be the sentinel; its parent link is still set, which the erase
// fixup relies on.
func (t *tree[K, V]) transplant(u, v *Node[K, V]) {
	if u == u.parent.left {
		u.parent.left = v
	} else {
		u.parent.right = v
	}
	v.parent = u.parent
}

// erase detaches z from the tree and the in-order chain. When z has two
// children its successor node is relocated into z's structural position
// rather than having payloads copied across, so every other outstanding
// node handle stays valid.
func (t *tree[K, V]) erase(z *Node[K, V]) {
	y := z
	yColor := y.color
	var x *Node[K, V]
	switch {
	case z.left == t.sent:
		x = z.right
		t.transplant(z, z.right)
	case z.right == t.sent:
		x = z.left
		t.transplant(z, z.left)
	default:
		y = z.next // in-order successor; the minimum of z's right subtree
		yColor = y.color
		x = y.right
		if y.parent == z {
			x.parent = y
		} else {
			t.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}
		t.transplant(z, y)
		y.left = z.left
		y.left.parent = y
		y.color = z.color
	}

	if z.prev != nil {
		z.prev.next = z.next
	}
	if z.next != nil {
		z.next.prev = z.prev
	}

	if yColor == black {
		t.eraseFixup(x)
	}
	z.left, z.right, z.parent, z.next, z.prev = nil, nil, nil, nil, nil
	t.size--
	if t.size == 0 {
		t.freeRoot()
	}
}

func (t *tree[K, V]) eraseFixup(x *Node[K, V]) {
	for x != t.root.left && x.color == black {
		if x == x.parent.left {
			w := x.parent.right
			if w.color == red {
				w.color = black
				x.parent.color = red
				t.rotateLeft(x.parent)
				w = x.parent.right
			}
			if w.left.color == black && w.right.color == black {
				w.color = red
				x = x.parent
			} else {
				if w.right.color == black {
					w.left.color = black
					w.color = red
					t.rotateRight(w)
					w = x.parent.right
				}
				w.color = x.parent.color
				x.parent.color = black
				w.right.color = black
				t.rotateLeft(x.parent)
				x = t.root.left
			}
		} else {
			w := x.parent.left
			if w.color == red {
				w.color = black
				x.parent.color = red
				t.rotateRight(x.parent)
				w = x.parent.left
			}
			if w.left.color == black && w.right.color == black {
				w.color = red
				x = x.parent
			} else {
				if w.left.color == black {
					w.right.color = black
					w.color = red
					t.rotateLeft(w)
					w = x.parent.left
				}
				w.color = x.parent.color
				x.parent.color = black
				w.left.color = black
				t.rotateRight(x.parent)
				x = t.root.left
			}
		}
	}
	x.color = black
}

// front descends to the minimum node
func (t *tree[K, V]) front() *Node[K, V] {
	if t.root == nil {
		return nil
	}
	n := t.root.left
	if n == t.sent {
		return nil
	}
	for n.left != t.sent {
		n = n.left
	}
	return n
}

// back descends to the maximum node
func (t *tree[K, V]) back() *Node[K, V] {
	if t.root == nil {
		return nil
	}
	n := t.root.left
	if n == t.sent {
		return nil
	}
	for n.right != t.sent {
		n = n.right
	}
	return n
}
