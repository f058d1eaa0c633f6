package rbtree

// Iterator holding the iterator's state
//
// IMPORTANT: an iterator is invalidated by Insert and Delete
type Iterator struct {
	tree *Tree
	node *Node
	pos  position
}

type position byte

const (
	begin, onmyway, end position = 0, 1, 2
)

// Iterator returns an iterator positioned one-before-first
func (t *Tree) Iterator() Iterator {
	return Iterator{tree: t, node: nil, pos: begin}
}

// IteratorAt returns an iterator at node
func (t *Tree) IteratorAt(node *Node) Iterator {
	if node == nil {
		return Iterator{tree: t, node: nil, pos: begin}
	}
	return Iterator{tree: t, node: node, pos: onmyway}
}

// Next moves the iterator to the next element
func (it *Iterator) Next() bool {
	if it.pos == end {
		it.node = nil
		return false
	}

	if it.pos == begin {
		minNode := it.tree.Min()
		if minNode == nil {
			it.node = nil
			it.pos = end
			return false
		}
		it.node = minNode
		it.pos = onmyway
		return true
	}

	if it.node.right != nil {
		it.node = minimumNode(it.node.right)
		return true
	}

	for it.node.parent != nil {
		node := it.node
		it.node = it.node.parent
		if node == it.node.left {
			return true
		}
	}

	it.pos = end
	it.node = nil
	return false
}

// Prev moves the iterator to the previous element
func (it *Iterator) Prev() bool {
	if it.pos == begin {
		it.node = nil
		return false
	}

	if it.pos == end {
		maxNode := it.tree.Max()
		if maxNode == nil {
			it.node = nil
			it.pos = begin
			return false
		}
		it.node = maxNode
		it.pos = onmyway
		return true
	}

	if it.node.left != nil {
		it.node = maximumNode(it.node.left)
		return true
	}

	for it.node.parent != nil {
		node := it.node
		it.node = it.node.parent
		if node == it.node.right {
			return true
		}
	}

	it.node = nil
	it.pos = begin
	return false
}

// Key returns the current element's key.
func (it *Iterator) Key() int {
	return it.node.Key()
}

// Node returns the current element's node.
func (it *Iterator) Node() *Node {
	return it.node
}

// Begin resets the iterator to one-before-first
func (it *Iterator) Begin() {
	it.node = nil
	it.pos = begin
}

// End moves the iterator to one-past-the-end
func (it *Iterator) End() {
	it.node = nil
	it.pos = end
}

// First moves the iterator to the first element
func (it *Iterator) First() bool {
	it.Begin()
	return it.Next()
}

// Last moves the iterator to the last element
func (it *Iterator) Last() bool {
	it.End()
	return it.Prev()
}
