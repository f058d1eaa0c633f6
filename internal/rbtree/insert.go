package rbtree

import (
	"fmt"
)

// Insert puts key into the tree.
//
// Returns an error wrapping ErrDuplicateKey if the key is already present,
// the tree is not modified in that case.
func (t *Tree) Insert(key int) error {
	var parent *Node
	for node := t.root; node != nil; {
		parent = node
		switch {
		case key < node.key:
			node = node.left
		case key > node.key:
			node = node.right
		default:
			return fmt.Errorf("insert: key %d: %w", key, ErrDuplicateKey)
		}
	}

	newNode := &Node{key: key, color: Red, parent: parent}
	switch {
	case parent == nil:
		t.root = newNode
	case key < parent.key:
		parent.left = newNode
	default:
		parent.right = newNode
	}
	t.size++
	t.stats.Inserts++

	t.fixAfterInsert(newNode)
	return nil
}

// fixAfterInsert restores the red-black properties walking up from a new red node.
func (t *Tree) fixAfterInsert(node *Node) {
	for {
		parent := node.parent
		if parent == nil {
			t.paint(node, Black)
			return
		}
		if parent.color == Black {
			return
		}

		t.stats.InsertFixups++
		grandparent := parent.parent
		uncle := node.uncle()

		// red uncle: push the blackness down from the grandparent and go on above it
		if nodeColor(uncle) == Red {
			t.debugw("insert fixup", "case", "red uncle", "key", node.key, "grandparent", grandparent.key)
			t.paint(parent, Black)
			t.paint(uncle, Black)
			t.paint(grandparent, Red)
			node = grandparent
			continue
		}

		if parent == grandparent.left {
			if node == parent.right {
				t.debugw("insert fixup", "case", "inner child", "key", node.key)
				t.rotateLeft(parent)
				parent = node
			}
			t.rotateRight(grandparent)
		} else {
			if node == parent.left {
				t.debugw("insert fixup", "case", "inner child", "key", node.key)
				t.rotateRight(parent)
				parent = node
			}
			t.rotateLeft(grandparent)
		}

		t.debugw("insert fixup", "case", "outer child", "key", node.key, "subtree", parent.key)
		t.paint(parent, Black)
		t.paint(grandparent, Red)
		return
	}
}
