package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferndale/console-edge/internal/navigation/domain"
)

func sampleTree() []*domain.MenuItem {
	return []*domain.MenuItem{
		{
			ID: "root", Name: "Root", Path: "/root",
			Children: []*domain.MenuItem{
				{
					ID: "child-a", Name: "Child A", Path: "/root/a",
					Children: []*domain.MenuItem{
						{ID: "grand-a1", Name: "Grandchild A1", Path: "/root/a/1"},
					},
				},
				{ID: "child-b", Name: "Child B", Path: "/root/b"},
			},
		},
	}
}

func TestFilterTreeEmptyQueryReturnsUnchanged(t *testing.T) {
	tree := sampleTree()
	assert.Equal(t, tree, domain.FilterTree(tree, "  "))
}

func TestFilterTreeKeepsAncestorsOfMatch(t *testing.T) {
	pruned := domain.FilterTree(sampleTree(), "grandchild")

	require.Len(t, pruned, 1)
	root := pruned[0]
	assert.Equal(t, "Root", root.Name)
	require.Len(t, root.Children, 1)
	childA := root.Children[0]
	assert.Equal(t, "Child A", childA.Name)
	require.Len(t, childA.Children, 1)
	assert.Equal(t, "Grandchild A1", childA.Children[0].Name)
}

func TestFilterTreeMatchesPathToo(t *testing.T) {
	pruned := domain.FilterTree(sampleTree(), "/root/b")

	require.Len(t, pruned, 1)
	require.Len(t, pruned[0].Children, 1)
	assert.Equal(t, "Child B", pruned[0].Children[0].Name)
}

func TestFilterTreeDropsUnmatchedBranches(t *testing.T) {
	pruned := domain.FilterTree(sampleTree(), "no-such-entry")
	assert.Empty(t, pruned)
}

func TestFilterTreeCaseInsensitive(t *testing.T) {
	pruned := domain.FilterTree(sampleTree(), "CHILD b")
	require.Len(t, pruned, 1)
}

func TestFilterTreeDoesNotMutateInput(t *testing.T) {
	tree := sampleTree()
	_ = domain.FilterTree(tree, "grandchild")

	// The unfiltered tree keeps both children.
	assert.Len(t, tree[0].Children, 2)
}
