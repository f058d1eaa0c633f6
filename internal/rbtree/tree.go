// Package rbtree is a red-black tree ordered set keyed by int.
//
// A Tree is not safe for concurrent use. Nodes returned by Search and the
// iterator are read-only handles, they stay valid until the tree is mutated.
package rbtree

import (
	"go.uber.org/zap"
)

// Stats counts tree operations since creation or the last Clear
type Stats struct {
	Inserts      uint64
	Deletes      uint64
	Rotations    uint64
	Recolors     uint64
	InsertFixups uint64
	DeleteFixups uint64
}

// Tree main index
type Tree struct {
	root *Node
	size int

	// placeholder stands in for a removed black leaf while the delete fixup runs
	placeholder *Node

	stats Stats
	sugar *zap.SugaredLogger
}

type Option func(*Tree)

// WithLogger makes the tree log fixup cases at debug level
func WithLogger(logger *zap.Logger) Option {
	return func(t *Tree) {
		t.sugar = logger.Sugar()
	}
}

func New(opts ...Option) *Tree {
	t := &Tree{
		placeholder: &Node{color: Black},
		sugar:       zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Root returns the root node or nil
func (t *Tree) Root() *Node {
	return t.root
}

// Size returns number of nodes
func (t *Tree) Size() int {
	return t.size
}

// IsEmpty returns true if tree is empty
func (t *Tree) IsEmpty() bool {
	return t.size == 0
}

func (t *Tree) Stats() Stats {
	return t.stats
}

// Search returns the node holding key, nil if not found
func (t *Tree) Search(key int) *Node {
	node := t.root
	for node != nil {
		switch {
		case key < node.key:
			node = node.left
		case key > node.key:
			node = node.right
		default:
			return node
		}
	}
	return nil
}

func (t *Tree) Contains(key int) bool {
	return t.Search(key) != nil
}

// Min returns the minimal node or nil
func (t *Tree) Min() *Node {
	if t.root == nil {
		return nil
	}
	return minimumNode(t.root)
}

// Max returns the max node or nil
func (t *Tree) Max() *Node {
	if t.root == nil {
		return nil
	}
	return maximumNode(t.root)
}

// Floor returns the node with the largest key <= key, false if there is none.
func (t *Tree) Floor(key int) (*Node, bool) {
	var found *Node
	for node := t.root; node != nil; {
		switch {
		case key < node.key:
			node = node.left
		case key > node.key:
			found = node
			node = node.right
		default:
			return node, true
		}
	}
	return found, found != nil
}

// Ceiling returns the node with the smallest key >= key, false if there is none.
func (t *Tree) Ceiling(key int) (*Node, bool) {
	var found *Node
	for node := t.root; node != nil; {
		switch {
		case key < node.key:
			found = node
			node = node.left
		case key > node.key:
			node = node.right
		default:
			return node, true
		}
	}
	return found, found != nil
}

// Keys returns all keys in-order
func (t *Tree) Keys() []int {
	keys := make([]int, 0, t.size)
	it := t.Iterator()
	for it.Next() {
		keys = append(keys, it.Key())
	}
	return keys
}

// Clear removes all nodes from the tree.
func (t *Tree) Clear() {
	t.root = nil
	t.size = 0
	t.stats = Stats{}
}

// Height returns the number of nodes on the longest root-to-leaf path.
func (t *Tree) Height() int {
	return height(t.root)
}

func height(n *Node) int {
	if n == nil {
		return 0
	}
	l, r := height(n.left), height(n.right)
	if l > r {
		return l + 1
	}
	return r + 1
}

// BlackHeight returns the number of black nodes from the root down to an
// absent child. It follows the leftmost path only and relies on the tree
// invariants, see the audit package for a checked version.
func (t *Tree) BlackHeight() int {
	bh := 0
	for n := t.root; n != nil; n = n.left {
		if n.color == Black {
			bh++
		}
	}
	return bh
}

func (t *Tree) paint(n *Node, c Color) {
	if n.color != c {
		n.color = c
		t.stats.Recolors++
	}
}

func (t *Tree) debugw(msg string, keysAndValues ...any) {
	if t.sugar != nil {
		t.sugar.Debugw(msg, keysAndValues...)
	}
}
