package rbtree

import (
	"log"
	"sync"
	"testing"

	"github.com/ansel1/merry"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	once   sync.Once
	logger *zap.Logger
)

func getTestLogger() *zap.Logger {
	once.Do(func() {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			log.Fatal(err)
		}
	})

	return logger
}

type nodeSnapshot struct {
	key    int
	color  Color
	parent int
	left   int
	right  int
}

// snapshot lists every node in pre-order with its color and neighbour keys
func snapshot(t *Tree) []nodeSnapshot {
	var res []nodeSnapshot
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		res = append(res, nodeSnapshot{
			key:    n.key,
			color:  n.color,
			parent: n.parent.Key(),
			left:   n.left.Key(),
			right:  n.right.Key(),
		})
		walk(n.left)
		walk(n.right)
	}
	walk(t.root)
	return res
}

// n builds a detached node, parents are linked by treeOf
func n(key int, color Color, left, right *Node) *Node {
	return &Node{key: key, color: color, left: left, right: right}
}

func treeOf(root *Node) *Tree {
	t := New(WithLogger(getTestLogger()))
	var link func(n *Node)
	link = func(n *Node) {
		for _, child := range []*Node{n.left, n.right} {
			if child != nil {
				child.parent = n
				link(child)
			}
		}
	}
	if root != nil {
		link(root)
	}
	t.root = root
	t.size = root.Size()
	return t
}

func requireInvariantPanic(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "no panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		require.True(t, merry.Is(err, ErrInvariantViolation), "%v", err)
	}()
	f()
}

func mustInsert(t *testing.T, tree *Tree, keys ...int) {
	t.Helper()
	for _, key := range keys {
		require.NoError(t, tree.Insert(key))
	}
}

func TestTree_Insert_recolor(t *testing.T) {
	tree := New()
	mustInsert(t, tree, 10, 20, 30)

	require.Equal(t, []nodeSnapshot{
		{key: 20, color: Black, parent: 0, left: 10, right: 30},
		{key: 10, color: Red, parent: 20},
		{key: 30, color: Red, parent: 20},
	}, snapshot(tree))
	require.EqualValues(t, 3, tree.Size())
}

func TestTree_Insert_rotation(t *testing.T) {
	tree := New()
	mustInsert(t, tree, 30, 20, 10)

	require.Equal(t, []nodeSnapshot{
		{key: 20, color: Black, parent: 0, left: 10, right: 30},
		{key: 10, color: Red, parent: 20},
		{key: 30, color: Red, parent: 20},
	}, snapshot(tree))
	require.EqualValues(t, 1, tree.Stats().Rotations)
}

func TestTree_Insert_innerChild(t *testing.T) {
	tree := New()
	mustInsert(t, tree, 30, 10, 20)

	require.Equal(t, 20, tree.Root().Key())
	require.Equal(t, Black, tree.Root().Color())
	require.EqualValues(t, 2, tree.Stats().Rotations)
}

func TestTree_Insert_duplicate(t *testing.T) {
	tree := New()
	mustInsert(t, tree, 10, 5, 15, 1)
	before := snapshot(tree)
	stats := tree.Stats()

	err := tree.Insert(10)
	require.ErrorIs(t, err, ErrDuplicateKey)
	require.Equal(t, before, snapshot(tree))
	require.Equal(t, stats, tree.Stats())
	require.EqualValues(t, 4, tree.Size())
}

func TestTree_Search(t *testing.T) {
	tree := New()
	require.Nil(t, tree.Search(1))

	mustInsert(t, tree, 8, 3, 12, 1, 5)
	for _, key := range []int{8, 3, 12, 1, 5} {
		node := tree.Search(key)
		require.NotNil(t, node)
		require.Equal(t, key, node.Key())
		require.True(t, tree.Contains(key))
	}
	require.Nil(t, tree.Search(4))
	require.False(t, tree.Contains(100))
}

func TestTree_Delete_twoChildren(t *testing.T) {
	tree := New()
	mustInsert(t, tree, 20, 10, 30, 5, 15, 25, 35)
	root := tree.Root()
	require.Equal(t, 20, root.Key())

	require.True(t, tree.Delete(20))

	require.Equal(t, []int{5, 10, 15, 25, 30, 35}, tree.Keys())
	// the root node keeps its place and color and takes the successor key
	require.Same(t, root, tree.Root())
	require.Equal(t, 25, root.Key())
	require.Equal(t, Black, root.Color())
	require.Nil(t, tree.Search(20))
	require.EqualValues(t, 6, tree.Size())
}

func TestTree_Delete_propagatesToRoot(t *testing.T) {
	tree := treeOf(
		n(4, Black,
			n(2, Black, n(1, Black, nil, nil), n(3, Black, nil, nil)),
			n(6, Black, n(5, Black, nil, nil), n(7, Black, nil, nil)),
		),
	)

	require.True(t, tree.Delete(1))

	require.Equal(t, []nodeSnapshot{
		{key: 4, color: Black, parent: 0, left: 2, right: 6},
		{key: 2, color: Black, parent: 4, left: 0, right: 3},
		{key: 3, color: Red, parent: 2},
		{key: 6, color: Red, parent: 4, left: 5, right: 7},
		{key: 5, color: Black, parent: 6},
		{key: 7, color: Black, parent: 6},
	}, snapshot(tree))
	require.EqualValues(t, 2, tree.Stats().DeleteFixups)
	require.EqualValues(t, 0, tree.Stats().Rotations)
	require.Equal(t, 2, tree.BlackHeight())
}

func TestTree_Delete_redSibling(t *testing.T) {
	tree := treeOf(
		n(2, Black,
			n(1, Black, nil, nil),
			n(4, Red, n(3, Black, nil, nil), n(5, Black, nil, nil)),
		),
	)

	require.True(t, tree.Delete(1))

	require.Equal(t, []nodeSnapshot{
		{key: 4, color: Black, parent: 0, left: 2, right: 5},
		{key: 2, color: Black, parent: 4, left: 0, right: 3},
		{key: 3, color: Red, parent: 2},
		{key: 5, color: Black, parent: 4},
	}, snapshot(tree))
}

func TestTree_Delete_innerNephew(t *testing.T) {
	tree := treeOf(
		n(2, Black,
			n(1, Black, nil, nil),
			n(4, Black, n(3, Red, nil, nil), nil),
		),
	)

	require.True(t, tree.Delete(1))

	require.Equal(t, []nodeSnapshot{
		{key: 3, color: Black, parent: 0, left: 2, right: 4},
		{key: 2, color: Black, parent: 3},
		{key: 4, color: Black, parent: 3},
	}, snapshot(tree))
	require.EqualValues(t, 2, tree.Stats().Rotations)
}

func TestTree_Delete_blackNodeWithRedChild(t *testing.T) {
	tree := New()
	mustInsert(t, tree, 10, 5, 15, 20)

	require.True(t, tree.Delete(15))

	require.Equal(t, []nodeSnapshot{
		{key: 10, color: Black, parent: 0, left: 5, right: 20},
		{key: 5, color: Black, parent: 10},
		{key: 20, color: Black, parent: 10},
	}, snapshot(tree))
}

func TestTree_Delete_placeholderDetached(t *testing.T) {
	tree := New()
	mustInsert(t, tree, 1)

	require.True(t, tree.Delete(1))
	require.Nil(t, tree.Root())
	require.True(t, tree.IsEmpty())
	require.Nil(t, tree.placeholder.parent)

	mustInsert(t, tree, 1, 2, 3, 4, 5, 6, 7, 8)
	for _, key := range []int{1, 3, 5, 7, 2, 4, 6, 8} {
		require.True(t, tree.Delete(key))
		for it := tree.Iterator(); it.Next(); {
			require.NotSame(t, tree.placeholder, it.Node())
			require.NotSame(t, tree.placeholder, it.Node().left)
			require.NotSame(t, tree.placeholder, it.Node().right)
		}
	}
	require.True(t, tree.IsEmpty())
}

func TestTree_Delete_absent(t *testing.T) {
	tree := New()
	require.False(t, tree.Delete(1))

	mustInsert(t, tree, 1, 2, 3)
	before := snapshot(tree)
	require.False(t, tree.Delete(4))
	require.Equal(t, before, snapshot(tree))
}

func TestTree_zeroValue(t *testing.T) {
	var tree Tree
	mustInsert(t, &tree, 3, 2, 1)
	require.True(t, tree.Delete(1))
	require.True(t, tree.Delete(3))
	require.Equal(t, []int{2}, tree.Keys())
}

func TestTree_replaceParentsChild_invariant(t *testing.T) {
	tree := New()
	mustInsert(t, tree, 2, 1, 3)
	stranger := &Node{key: 10}

	requireInvariantPanic(t, func() {
		tree.replaceParentsChild(tree.Root(), stranger, nil)
	})
	requireInvariantPanic(t, func() {
		tree.replaceParentsChild(nil, stranger, nil)
	})
}

func TestTree_sibling_invariant(t *testing.T) {
	parent := &Node{key: 2}
	orphan := &Node{key: 1, parent: parent}

	requireInvariantPanic(t, func() {
		orphan.sibling()
	})
}

func TestTree_rotate_invariant(t *testing.T) {
	tree := New()
	mustInsert(t, tree, 1)

	requireInvariantPanic(t, func() {
		tree.rotateLeft(tree.Root())
	})
	requireInvariantPanic(t, func() {
		tree.rotateRight(tree.Root())
	})
}

func TestTree_rotations_keepOrder(t *testing.T) {
	tree := treeOf(
		n(4, Black,
			n(2, Black, n(1, Black, nil, nil), n(3, Black, nil, nil)),
			n(6, Black, n(5, Black, nil, nil), n(7, Black, nil, nil)),
		),
	)
	keys := tree.Keys()

	tree.rotateLeft(tree.Root())
	require.Equal(t, 6, tree.Root().Key())
	require.Nil(t, tree.Root().Parent())
	require.Equal(t, keys, tree.Keys())

	tree.rotateRight(tree.Root())
	tree.rotateRight(tree.Root())
	require.Equal(t, 2, tree.Root().Key())
	require.Equal(t, keys, tree.Keys())
	require.Same(t, tree.Root(), tree.Search(4).Parent())
}

func TestTree_OrderedQueries(t *testing.T) {
	tree := New()
	require.Nil(t, tree.Min())
	require.Nil(t, tree.Max())
	_, ok := tree.Floor(1)
	require.False(t, ok)

	mustInsert(t, tree, 10, 20, 30, 40, 50)
	require.Equal(t, 10, tree.Min().Key())
	require.Equal(t, 50, tree.Max().Key())

	node, ok := tree.Floor(35)
	require.True(t, ok)
	require.Equal(t, 30, node.Key())
	node, ok = tree.Floor(30)
	require.True(t, ok)
	require.Equal(t, 30, node.Key())
	_, ok = tree.Floor(5)
	require.False(t, ok)

	node, ok = tree.Ceiling(35)
	require.True(t, ok)
	require.Equal(t, 40, node.Key())
	_, ok = tree.Ceiling(51)
	require.False(t, ok)

	tree.Clear()
	require.True(t, tree.IsEmpty())
	require.Empty(t, tree.Keys())
	require.Equal(t, Stats{}, tree.Stats())
}

func TestTree_HeightBlackHeight(t *testing.T) {
	tree := New()
	require.Equal(t, 0, tree.Height())
	require.Equal(t, 0, tree.BlackHeight())

	mustInsert(t, tree, 1)
	require.Equal(t, 1, tree.Height())
	require.Equal(t, 1, tree.BlackHeight())

	mustInsert(t, tree, 2, 3)
	require.Equal(t, 2, tree.Height())
	require.Equal(t, 1, tree.BlackHeight())
}

func TestTree_String(t *testing.T) {
	tree := New()
	mustInsert(t, tree, 1, 2, 3)

	require.Equal(t, "RedBlackTree\n"+
		"│   ┌── R 3\n"+
		"└── B 2\n"+
		"    └── R 1\n", tree.String())
	getTestLogger().Sugar().Debugln(tree)
}
