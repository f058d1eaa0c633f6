package rbtree

import "fmt"

// Color of a tree node. An absent child counts as Black.
type Color bool

const (
	Black, Red Color = true, false
)

func (c Color) String() string {
	if c == Black {
		return "B"
	}
	return "R"
}

// Node is a tree element
type Node struct {
	key    int
	color  Color
	left   *Node
	right  *Node
	parent *Node
}

// Key returns the node key, 0 for nil
func (n *Node) Key() int {
	if n == nil {
		return 0
	}
	return n.key
}

// Color returns the node color, nil is Black
func (n *Node) Color() Color {
	return nodeColor(n)
}

func (n *Node) IsRed() bool {
	return nodeColor(n) == Red
}

func (n *Node) IsBlack() bool {
	return nodeColor(n) == Black
}

func (n *Node) Left() *Node {
	if n == nil {
		return nil
	}
	return n.left
}

func (n *Node) Right() *Node {
	if n == nil {
		return nil
	}
	return n.right
}

// Parent returns nil for the root
func (n *Node) Parent() *Node {
	if n == nil {
		return nil
	}
	return n.parent
}

// Size returns the number of elements in the subtree.
func (n *Node) Size() int {
	if n == nil {
		return 0
	}
	return 1 + n.left.Size() + n.right.Size()
}

func (n *Node) String() string {
	if n == nil {
		return "nil"
	}
	return fmt.Sprintf("%s %d", n.color, n.key)
}

// sibling returns the other child of the node's parent.
func (n *Node) sibling() *Node {
	parent := n.parent
	switch n {
	case parent.left:
		return parent.right
	case parent.right:
		return parent.left
	}
	panic(invariantViolation("node %v is not a child of its parent %v", n, parent))
}

// uncle returns the sibling of the node's parent.
//
// the parent must not be the root
func (n *Node) uncle() *Node {
	if n.parent.parent == nil {
		panic(invariantViolation("node %v has a red parent %v without a grandparent", n, n.parent))
	}
	return n.parent.sibling()
}

func minimumNode(n *Node) *Node {
	for n.left != nil {
		n = n.left
	}
	return n
}

func maximumNode(n *Node) *Node {
	for n.right != nil {
		n = n.right
	}
	return n
}

func nodeColor(n *Node) Color {
	if n == nil {
		return Black
	}
	return n.color
}
