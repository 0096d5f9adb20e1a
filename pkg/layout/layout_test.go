package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/layout"
)

func buildDocument(t *testing.T) (*domain.Tree, domain.NodeID, []domain.NodeID) {
	t.Helper()
	tree := domain.NewTree()

	rootID, err := tree.InsertWithID("", "root", domain.NodeModel{Name: "Root", Category: domain.CategoryRoot})
	require.NoError(t, err)
	seqID, err := tree.InsertWithID(rootID, "seq", domain.NodeModel{Name: "Sequence", Category: domain.CategoryControl})
	require.NoError(t, err)

	action := domain.NodeModel{Name: "Step", Category: domain.CategoryAction}
	a, _ := tree.InsertWithID(seqID, "a", action)
	b, _ := tree.InsertWithID(seqID, "b", action)
	c, _ := tree.InsertWithID(seqID, "c", action)

	return tree, seqID, []domain.NodeID{a, b, c}
}

func TestCompute_Deterministic(t *testing.T) {
	tree, _, _ := buildDocument(t)

	first := layout.Compute(tree, layout.Horizontal)
	second := layout.Compute(tree, layout.Horizontal)
	assert.Equal(t, first.Positions, second.Positions)

	// Prior positions must not influence the result.
	require.NoError(t, tree.SetPosition("a", domain.Position{X: 999, Y: 999}))
	third := layout.Compute(tree, layout.Horizontal)
	assert.Equal(t, first.Positions, third.Positions)
}

func TestCompute_ChildrenAfterParentOnPrimaryAxis(t *testing.T) {
	tree, seqID, leaves := buildDocument(t)

	t.Run("horizontal", func(t *testing.T) {
		res := layout.Compute(tree, layout.Horizontal)
		seq := res.Positions[seqID]
		for _, leaf := range leaves {
			assert.Greater(t, res.Positions[leaf].X, seq.X, "child %s must sit right of its parent", leaf)
		}
	})

	t.Run("vertical", func(t *testing.T) {
		res := layout.Compute(tree, layout.Vertical)
		seq := res.Positions[seqID]
		for _, leaf := range leaves {
			assert.Greater(t, res.Positions[leaf].Y, seq.Y, "child %s must sit below its parent", leaf)
		}
	})
}

func TestCompute_SiblingsOrderedWithoutOverlap(t *testing.T) {
	tree, _, leaves := buildDocument(t)
	res := layout.Compute(tree, layout.Horizontal)

	for i := 1; i < len(leaves); i++ {
		prev := res.Positions[leaves[i-1]]
		cur := res.Positions[leaves[i]]
		assert.Greater(t, cur.Y, prev.Y, "siblings must spread in stored child order")
	}
}

func TestCompute_OrientationsAreTransposed(t *testing.T) {
	tree, _, _ := buildDocument(t)

	h := layout.Compute(tree, layout.Horizontal)
	v := layout.Compute(tree, layout.Vertical)

	require.Len(t, v.Positions, len(h.Positions))
	for id, hp := range h.Positions {
		vp := v.Positions[id]
		assert.Equal(t, hp.X, vp.Y, "node %s: primary coordinate must transpose", id)
		assert.Equal(t, hp.Y, vp.X, "node %s: secondary coordinate must transpose", id)
	}
}

func TestCompute_ParentCentered(t *testing.T) {
	tree, seqID, leaves := buildDocument(t)
	res := layout.Compute(tree, layout.Horizontal)

	first := res.Positions[leaves[0]].Y
	last := res.Positions[leaves[len(leaves)-1]].Y
	assert.InDelta(t, (first+last)/2, res.Positions[seqID].Y, 0.001)
}

func TestCompute_MultipleRootsStack(t *testing.T) {
	tree := domain.NewTree()
	model := domain.NodeModel{Name: "Sequence", Category: domain.CategoryControl}
	a, _ := tree.InsertWithID("", "a", model)
	b, _ := tree.InsertWithID("", "b", model)

	res := layout.Compute(tree, layout.Horizontal)
	assert.NotEqual(t, res.Positions[a], res.Positions[b])
}

func TestApply_ReportsChange(t *testing.T) {
	tree, _, _ := buildDocument(t)
	res := layout.Compute(tree, layout.Horizontal)

	assert.True(t, layout.Apply(tree, res))
	// Applying the identical result again changes nothing.
	assert.False(t, layout.Apply(tree, res))
}

func TestOrientation_ParseAndToggle(t *testing.T) {
	o, err := layout.ParseOrientation("VERTICAL")
	require.NoError(t, err)
	assert.Equal(t, layout.Vertical, o)
	assert.Equal(t, layout.Horizontal, o.Toggle())
	assert.Equal(t, "HORIZONTAL", layout.Horizontal.String())

	_, err = layout.ParseOrientation("DIAGONAL")
	assert.Error(t, err)
}
