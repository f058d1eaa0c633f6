// Package audit checks the red-black properties of a tree from its raw
// links and colors. Nothing here relies on the tree keeping its own
// invariants, every property is recomputed by a full traversal.
//
// Property 1 (two colors) is enforced by the node type and property 3
// (absent children are black) is built into every check below, which treat
// an absent child as a black leaf.
package audit

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"ourtree/internal/rbtree"
)

var ErrViolation = errors.New("red-black violation")

// Node is the read-only view of a tree node the auditor works on.
// The zero value of N is the absent node.
type Node[N any] interface {
	comparable
	Key() int
	IsRed() bool
	Left() N
	Right() N
	Parent() N
}

// Report is a snapshot of the tree metrics
type Report struct {
	Size         int
	Height       int
	BlackHeight  int
	HeightDiff   int
	ShortestPath []int
	Err          error
}

func (r Report) String() string {
	return fmt.Sprintf("size=%d height=%d black_height=%d shortest_path=%v err=%v",
		r.Size, r.Height, r.BlackHeight, r.ShortestPath, r.Err)
}

// Inspect computes every metric and runs every check on t
func Inspect(t *rbtree.Tree) Report {
	root := t.Root()
	bh, _ := BlackHeight(root)
	h := Height(root)
	return Report{
		Size:         Size(root),
		Height:       h,
		BlackHeight:  bh,
		HeightDiff:   h - bh,
		ShortestPath: ShortestPath(root),
		Err:          Validate(root),
	}
}

// Validate runs all checks and returns every violation found, nil for a valid tree.
func Validate[N Node[N]](root N) error {
	return multierr.Combine(
		CheckRootBlack(root),
		CheckRedChildren(root),
		CheckBlackHeight(root),
		CheckOrder(root),
		CheckParentLinks(root),
	)
}

func IsRedBlack[N Node[N]](root N) bool {
	return Validate(root) == nil
}

// CheckRootBlack checks the root, if present, is black.
func CheckRootBlack[N Node[N]](root N) error {
	var absent N
	if root != absent && root.IsRed() {
		return fmt.Errorf("%w: root %d is red", ErrViolation, root.Key())
	}
	return nil
}

// CheckRedChildren checks no red node has a red child.
func CheckRedChildren[N Node[N]](n N) error {
	var absent N
	if n == absent {
		return nil
	}
	if n.IsRed() {
		for _, child := range []N{n.Left(), n.Right()} {
			if child != absent && child.IsRed() {
				return fmt.Errorf("%w: red node %d has red child %d", ErrViolation, n.Key(), child.Key())
			}
		}
	}
	if err := CheckRedChildren(n.Left()); err != nil {
		return err
	}
	return CheckRedChildren(n.Right())
}

// CheckBlackHeight checks that for every node all paths down to an absent
// child pass the same number of black nodes.
func CheckBlackHeight[N Node[N]](root N) error {
	_, err := blackHeight(root)
	return err
}

func blackHeight[N Node[N]](n N) (int, error) {
	var absent N
	if n == absent {
		return 0, nil
	}
	l, err := blackHeight(n.Left())
	if err != nil {
		return 0, err
	}
	r, err := blackHeight(n.Right())
	if err != nil {
		return 0, err
	}
	if l != r {
		return 0, fmt.Errorf("%w: node %d has black height %d on the left and %d on the right",
			ErrViolation, n.Key(), l, r)
	}
	if n.IsRed() {
		return l, nil
	}
	return l + 1, nil
}

// CheckOrder checks an in-order traversal gives strictly ascending keys.
func CheckOrder[N Node[N]](root N) error {
	var err error
	first := true
	prev := 0
	walkInOrder(root, func(n N) bool {
		if !first && n.Key() <= prev {
			err = fmt.Errorf("%w: key %d follows key %d in order", ErrViolation, n.Key(), prev)
			return false
		}
		first = false
		prev = n.Key()
		return true
	})
	return err
}

// CheckParentLinks checks every child points back to its parent and the root has none.
func CheckParentLinks[N Node[N]](root N) error {
	var absent N
	if root == absent {
		return nil
	}
	if root.Parent() != absent {
		return fmt.Errorf("%w: root %d has parent %d", ErrViolation, root.Key(), root.Parent().Key())
	}
	return checkChildLinks(root)
}

func checkChildLinks[N Node[N]](n N) error {
	var absent N
	for _, child := range []N{n.Left(), n.Right()} {
		if child == absent {
			continue
		}
		if child.Parent() != n {
			return fmt.Errorf("%w: node %d does not point back to parent %d", ErrViolation, child.Key(), n.Key())
		}
		if err := checkChildLinks(child); err != nil {
			return err
		}
	}
	return nil
}

// Size counts the nodes
func Size[N Node[N]](root N) int {
	size := 0
	walkInOrder(root, func(N) bool {
		size++
		return true
	})
	return size
}

// Height returns the number of nodes on the longest root-to-leaf path, 0 for an empty tree.
func Height[N Node[N]](n N) int {
	var absent N
	if n == absent {
		return 0
	}
	return 1 + max(Height(n.Left()), Height(n.Right()))
}

// BlackHeight returns the number of black nodes on the path from the root
// to an absent child. The second result is false when paths disagree, the
// count is then taken along the blackest path.
func BlackHeight[N Node[N]](n N) (int, bool) {
	var absent N
	if n == absent {
		return 0, true
	}
	l, lok := BlackHeight(n.Left())
	r, rok := BlackHeight(n.Right())
	bh := max(l, r)
	if !n.IsRed() {
		bh++
	}
	return bh, lok && rok && l == r
}

// HeightDiff is the difference between the height and the black height of the tree
func HeightDiff[N Node[N]](root N) int {
	bh, _ := BlackHeight(root)
	return Height(root) - bh
}

// ShortestPath returns the keys from the root down to the nearest node
// without children. Ties go to the left subtree.
func ShortestPath[N Node[N]](n N) []int {
	var absent N
	if n == absent {
		return []int{}
	}

	var rest []int
	left, right := n.Left(), n.Right()
	switch {
	case left == absent && right == absent:
	case left == absent:
		rest = ShortestPath(right)
	case right == absent:
		rest = ShortestPath(left)
	default:
		rest = ShortestPath(left)
		if r := ShortestPath(right); len(r) < len(rest) {
			rest = r
		}
	}
	return append([]int{n.Key()}, rest...)
}

// walkInOrder calls f for each node in key order until f returns false
func walkInOrder[N Node[N]](n N, f func(N) bool) bool {
	var absent N
	if n == absent {
		return true
	}
	return walkInOrder(n.Left(), f) && f(n) && walkInOrder(n.Right(), f)
}
