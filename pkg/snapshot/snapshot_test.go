package snapshot_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/snapshot"
)

func buildDocument(t *testing.T) (*domain.Tree, domain.TreeNodesModel) {
	t.Helper()
	tree := domain.NewTree()

	rootID, err := tree.InsertWithID("", "root-1", domain.NodeModel{Name: "Root", Category: domain.CategoryRoot})
	require.NoError(t, err)
	seqID, err := tree.InsertWithID(rootID, "seq-1", domain.NodeModel{Name: "Sequence", Category: domain.CategoryControl})
	require.NoError(t, err)

	moveModel := domain.NodeModel{
		Name:     "MoveTo",
		Category: domain.CategoryAction,
		Params:   []domain.ParamSpec{{Label: "target", Type: domain.ParamText}},
	}
	moveID, err := tree.InsertWithID(seqID, "move-1", moveModel)
	require.NoError(t, err)
	require.NoError(t, tree.SetParameter(moveID, "target", "kitchen"))
	require.NoError(t, tree.SetPosition(moveID, domain.Position{X: 320, Y: 80}))

	models := domain.TreeNodesModel{"MoveTo": moveModel}
	return tree, models
}

func TestCaptureRestore_Exact(t *testing.T) {
	tree, models := buildDocument(t)

	snap, err := snapshot.Capture(tree, models)
	require.NoError(t, err)

	restored, restoredModels, err := snapshot.Restore(snap)
	require.NoError(t, err)

	// Node identity survives the round trip.
	assert.Equal(t, tree.Nodes(), restored.Nodes())
	assert.Equal(t, tree.Roots(), restored.Roots())

	move, ok := restored.Get("move-1")
	require.True(t, ok)
	assert.Equal(t, "MoveTo", move.Type)
	assert.Equal(t, domain.NodeID("seq-1"), move.Parent())
	assert.Equal(t, "kitchen", move.Values["target"])
	assert.Equal(t, domain.Position{X: 320, Y: 80}, move.Position)

	require.Contains(t, restoredModels, "MoveTo")
	assert.True(t, restoredModels["MoveTo"].Equal(models["MoveTo"]))
}

func TestCapture_Canonical(t *testing.T) {
	tree, models := buildDocument(t)

	// Capturing twice yields identical bytes.
	a, err := snapshot.Capture(tree, models)
	require.NoError(t, err)
	b, err := snapshot.Capture(tree, models)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))

	// Capture -> restore -> capture is byte-stable as well.
	restored, restoredModels, err := snapshot.Restore(a)
	require.NoError(t, err)
	c, err := snapshot.Capture(restored, restoredModels)
	require.NoError(t, err)
	assert.True(t, a.Equal(c))
}

func TestCapture_DetectsChange(t *testing.T) {
	tree, models := buildDocument(t)

	before, err := snapshot.Capture(tree, models)
	require.NoError(t, err)

	require.NoError(t, tree.SetParameter("move-1", "target", "garage"))

	after, err := snapshot.Capture(tree, models)
	require.NoError(t, err)
	assert.False(t, before.Equal(after))
}

func TestCapture_InvalidShapesAreCapturable(t *testing.T) {
	// Transiently-invalid documents (two roots) must still snapshot, so
	// undo can step through intermediate editing states.
	tree := domain.NewTree()
	_, err := tree.InsertWithID("", "a", domain.NodeModel{Name: "Sequence", Category: domain.CategoryControl})
	require.NoError(t, err)
	_, err = tree.InsertWithID("", "b", domain.NodeModel{Name: "Fallback", Category: domain.CategoryControl})
	require.NoError(t, err)

	snap, err := snapshot.Capture(tree, nil)
	require.NoError(t, err)

	restored, _, err := snapshot.Restore(snap)
	require.NoError(t, err)
	assert.Len(t, restored.Roots(), 2)
}
