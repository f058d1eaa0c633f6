package rbtree

// Delete removes key from the tree, false if the key is absent.
//
// A node with two children takes the key of its in-order successor and the
// successor node is removed instead, so handles to the successor are invalidated.
func (t *Tree) Delete(key int) bool {
	node := t.Search(key)
	if node == nil {
		return false
	}

	var movedUp *Node
	var deletedColor Color
	if node.left == nil || node.right == nil {
		deletedColor = node.color
		movedUp = t.spliceOut(node)
	} else {
		successor := minimumNode(node.right)
		node.key = successor.key
		deletedColor = successor.color
		movedUp = t.spliceOut(successor)
	}
	t.size--
	t.stats.Deletes++

	if deletedColor == Black {
		t.fixAfterDelete(movedUp)
		if movedUp == t.placeholder {
			t.replaceParentsChild(movedUp.parent, movedUp, nil)
			movedUp.parent = nil
		}
	}
	return true
}

// spliceOut unlinks a node with at most one child and returns the node moved
// into its position. A black leaf is replaced by the placeholder, a red leaf
// by nothing.
func (t *Tree) spliceOut(node *Node) *Node {
	var child *Node
	switch {
	case node.left != nil:
		child = node.left
	case node.right != nil:
		child = node.right
	case node.color == Black:
		child = t.resetPlaceholder()
	}

	t.replaceParentsChild(node.parent, node, child)
	node.left, node.right, node.parent = nil, nil, nil
	return child
}

func (t *Tree) resetPlaceholder() *Node {
	if t.placeholder == nil {
		t.placeholder = &Node{}
	}
	*t.placeholder = Node{color: Black}
	return t.placeholder
}

// fixAfterDelete restores the red-black properties walking up from the node
// carrying an extra black.
func (t *Tree) fixAfterDelete(node *Node) {
	for {
		if node.parent == nil {
			t.paint(node, Black)
			return
		}
		// a red node absorbs the extra black
		if node.color == Red {
			t.paint(node, Black)
			return
		}

		t.stats.DeleteFixups++
		sibling := node.sibling()
		if sibling == nil {
			panic(invariantViolation("double black node %v has no sibling", node))
		}

		if sibling.color == Red {
			t.debugw("delete fixup", "case", "red sibling", "parent", node.parent.key)
			t.paint(sibling, Black)
			t.paint(node.parent, Red)
			if node == node.parent.left {
				t.rotateLeft(node.parent)
			} else {
				t.rotateRight(node.parent)
			}
			sibling = node.sibling()
		}

		if nodeColor(sibling.left) == Black && nodeColor(sibling.right) == Black {
			t.paint(sibling, Red)
			if node.parent.color == Red {
				t.debugw("delete fixup", "case", "black nephews, red parent", "parent", node.parent.key)
				t.paint(node.parent, Black)
				return
			}
			t.debugw("delete fixup", "case", "black nephews, black parent", "parent", node.parent.key)
			node = node.parent
			continue
		}

		t.fixRedNephew(node, sibling)
		return
	}
}

// fixRedNephew handles a black sibling with at least one red child.
func (t *Tree) fixRedNephew(node, sibling *Node) {
	parent := node.parent
	nodeIsLeft := node == parent.left

	// inner nephew red, outer black: rotate the red one to the outside
	if nodeIsLeft && nodeColor(sibling.right) == Black {
		t.debugw("delete fixup", "case", "inner nephew", "sibling", sibling.key)
		t.paint(sibling.left, Black)
		t.paint(sibling, Red)
		t.rotateRight(sibling)
		sibling = parent.right
	} else if !nodeIsLeft && nodeColor(sibling.left) == Black {
		t.debugw("delete fixup", "case", "inner nephew", "sibling", sibling.key)
		t.paint(sibling.right, Black)
		t.paint(sibling, Red)
		t.rotateLeft(sibling)
		sibling = parent.left
	}

	t.debugw("delete fixup", "case", "outer nephew", "sibling", sibling.key)
	t.paint(sibling, parent.color)
	t.paint(parent, Black)
	if nodeIsLeft {
		t.paint(sibling.right, Black)
		t.rotateLeft(parent)
	} else {
		t.paint(sibling.left, Black)
		t.rotateRight(parent)
	}
}
