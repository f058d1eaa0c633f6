package rbtree

//	    node              right
//	   /    \            /     \
//	  a    right  ->   node     c
//	      /    \      /    \
//	     b      c    a      b
func (t *Tree) rotateLeft(node *Node) {
	parent := node.parent
	right := node.right
	if right == nil {
		panic(invariantViolation("rotate left at %v without right child", node))
	}

	node.right = right.left
	if right.left != nil {
		right.left.parent = node
	}
	right.left = node
	node.parent = right
	t.replaceParentsChild(parent, node, right)
	t.stats.Rotations++
}

func (t *Tree) rotateRight(node *Node) {
	parent := node.parent
	left := node.left
	if left == nil {
		panic(invariantViolation("rotate right at %v without left child", node))
	}

	node.left = left.right
	if left.right != nil {
		left.right.parent = node
	}
	left.right = node
	node.parent = left
	t.replaceParentsChild(parent, node, left)
	t.stats.Rotations++
}

// replaceParentsChild puts newChild into the slot of parent that holds
// oldChild, a nil parent means the root slot.
func (t *Tree) replaceParentsChild(parent, oldChild, newChild *Node) {
	switch {
	case parent == nil:
		if t.root != oldChild {
			panic(invariantViolation("node %v has no parent but the root is %v", oldChild, t.root))
		}
		t.root = newChild
	case parent.left == oldChild:
		parent.left = newChild
	case parent.right == oldChild:
		parent.right = newChild
	default:
		panic(invariantViolation("node %v is not a child of its parent %v", oldChild, parent))
	}

	if newChild != nil {
		newChild.parent = parent
	}
}
