package rbtree

import (
	"strings"
)

// String implements Stringer interface, right subtree on top
func (t *Tree) String() string {
	var sb strings.Builder
	sb.WriteString("RedBlackTree\n")
	if t.root != nil {
		output(t.root, "", true, &sb)
	}
	return sb.String()
}

func output(node *Node, prefix string, isTail bool, sb *strings.Builder) {
	if node.right != nil {
		newPrefix := prefix
		if isTail {
			newPrefix += "│   "
		} else {
			newPrefix += "    "
		}
		output(node.right, newPrefix, false, sb)
	}

	sb.WriteString(prefix)
	if isTail {
		sb.WriteString("└── ")
	} else {
		sb.WriteString("┌── ")
	}
	sb.WriteString(node.String())
	sb.WriteString("\n")

	if node.left != nil {
		newPrefix := prefix
		if isTail {
			newPrefix += "    "
		} else {
			newPrefix += "│   "
		}
		output(node.left, newPrefix, true, sb)
	}
}
