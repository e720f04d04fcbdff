package plantree_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqltrace/sqltrace/internal/plantree"
	"github.com/sqltrace/sqltrace/test"
)

func TestBuildIndexesPreOrder(t *testing.T) {
	plan := test.LoadSamplePlan(t, "sort_aggregate.json")
	tree, err := plantree.Build(plan, plantree.DefaultPolicy())
	require.NoError(t, err)

	require.Equal(t, 3, tree.Len())
	require.Equal(t, []int{0}, tree.RootIndices)

	require.Equal(t, "Sort", tree.Nodes[0].Node.NodeType)
	require.Equal(t, "HashAggregate", tree.Nodes[1].Node.NodeType)
	require.Equal(t, "Seq Scan", tree.Nodes[2].Node.NodeType)

	require.Equal(t, []int{1}, tree.Nodes[0].Children)
	require.Equal(t, []int{2}, tree.Nodes[1].Children)
	require.Empty(t, tree.Nodes[2].Children)

	for i, want := range []int{0, 1, 2} {
		require.Equal(t, want, tree.Nodes[i].Level)
	}
}

func TestBuildRejectsEmptyPlan(t *testing.T) {
	_, err := plantree.Build(nil, plantree.DefaultPolicy())
	require.Error(t, err)
}

func TestDefaultPolicyExpandsTwoLevels(t *testing.T) {
	plan := test.LoadSamplePlan(t, "sort_aggregate.json")
	tree, err := plantree.Build(plan, plantree.DefaultPolicy())
	require.NoError(t, err)

	require.True(t, tree.Nodes[0].Expanded)
	require.True(t, tree.Nodes[1].Expanded)
	require.False(t, tree.Nodes[2].Expanded)

	// All three are visible: visibility depends on ancestors, not on the
	// node's own state.
	require.Len(t, tree.VisibleNodes(), 3)
}

func TestVisibleNodesSkipsCollapsedSubtrees(t *testing.T) {
	plan := test.LoadSamplePlan(t, "sort_aggregate.json")
	tree, err := plantree.Build(plan, plantree.Policy{})
	require.NoError(t, err)

	visible := tree.VisibleNodes()
	require.Len(t, visible, 1)
	require.Equal(t, 0, visible[0].Index)
}

func TestParentOf(t *testing.T) {
	plan := test.LoadSamplePlan(t, "nested_loop.json")
	tree, err := plantree.Build(plan, plantree.DefaultPolicy())
	require.NoError(t, err)

	require.Equal(t, -1, tree.ParentOf(0))
	require.Equal(t, 0, tree.ParentOf(1))
	require.Equal(t, 0, tree.ParentOf(2))
	require.Equal(t, -1, tree.ParentOf(99))
}

func TestRebuildSkipsUnchangedPlan(t *testing.T) {
	plan := test.LoadSamplePlan(t, "nested_loop.json")
	tree, err := plantree.Build(plan, plantree.DefaultPolicy())
	require.NoError(t, err)

	// Mutate view state; an unchanged plan must not clobber it.
	tree.Nodes[0].Expanded = false
	rebuilt, err := tree.Rebuild(plan)
	require.NoError(t, err)
	require.False(t, rebuilt)
	require.False(t, tree.Nodes[0].Expanded)

	plan.Root.ActualRows++
	rebuilt, err = tree.Rebuild(plan)
	require.NoError(t, err)
	require.True(t, rebuilt)
	require.True(t, tree.Nodes[0].Expanded)
	require.Equal(t, 3, tree.Len())
}

func TestSessionNavigation(t *testing.T) {
	plan := test.LoadSamplePlan(t, "nested_loop.json")
	tree, err := plantree.Build(plan, plantree.DefaultPolicy())
	require.NoError(t, err)

	s := plantree.NewSession(tree)
	require.Equal(t, 0, s.Selected)

	s.MoveSelection(1)
	require.Equal(t, 1, s.Selected)
	s.MoveSelection(10)
	require.Equal(t, 2, s.Selected)
	s.MoveSelection(-10)
	require.Equal(t, 0, s.Selected)
}

func TestSessionExpandCollapse(t *testing.T) {
	plan := test.LoadSamplePlan(t, "nested_loop.json")
	tree, err := plantree.Build(plan, plantree.Policy{})
	require.NoError(t, err)

	s := plantree.NewSession(tree)
	require.False(t, tree.Nodes[0].Expanded)

	// Expanding a collapsed parent selects its first child.
	s.ExpandRight()
	require.True(t, tree.Nodes[0].Expanded)
	require.Equal(t, 1, s.Selected)

	// Expanding a leaf is a no-op.
	s.ExpandRight()
	require.Equal(t, 1, s.Selected)

	// Collapsing a collapsed leaf moves to the parent.
	s.CollapseLeft()
	require.Equal(t, 0, s.Selected)

	// Collapsing an expanded parent collapses in place.
	s.CollapseLeft()
	require.False(t, tree.Nodes[0].Expanded)
	require.Equal(t, 0, s.Selected)
}

func TestSessionToggle(t *testing.T) {
	plan := test.LoadSamplePlan(t, "nested_loop.json")
	tree, err := plantree.Build(plan, plantree.Policy{})
	require.NoError(t, err)

	s := plantree.NewSession(tree)
	s.Toggle()
	require.True(t, tree.Nodes[0].Expanded)
	require.Equal(t, 1, s.Selected)

	s.Selected = 0
	s.Toggle()
	require.False(t, tree.Nodes[0].Expanded)
	require.Equal(t, 0, s.Selected)
}
