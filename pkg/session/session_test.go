package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/codec"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/layout"
	"github.com/aretw0/arbor/pkg/registry"
	"github.com/aretw0/arbor/pkg/session"
	"github.com/aretw0/arbor/pkg/snapshot"
)

const sampleXML = `<root>
  <!-- ----------------------------------- -->
  <BehaviorTree>
    <Sequence>
      <MoveTo target="kitchen"/>
      <Grasp object="mug"/>
    </Sequence>
  </BehaviorTree>
  <!-- ----------------------------------- -->
  <TreeNodesModel>
    <Action ID="Grasp">
      <Parameter label="object" type="Text"/>
    </Action>
    <Action ID="MoveTo">
      <Parameter label="target" type="Text"/>
    </Action>
  </TreeNodesModel>
  <!-- ----------------------------------- -->
</root>`

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	require.NoError(t, reg.Register(domain.NodeModel{
		Name:     "MoveTo",
		Category: domain.CategoryAction,
		Params:   []domain.ParamSpec{{Label: "target", Type: domain.ParamText}},
	}))
	require.NoError(t, reg.Register(domain.NodeModel{
		Name:     "Grasp",
		Category: domain.CategoryAction,
		Params:   []domain.ParamSpec{{Label: "object", Type: domain.ParamText}},
	}))
	return reg
}

func newSession(t *testing.T, opts ...session.Option) *session.Session {
	t.Helper()
	sess, err := session.New(testRegistry(t), opts...)
	require.NoError(t, err)
	return sess
}

// capture freezes the current document for byte-level comparison.
func capture(t *testing.T, sess *session.Session) snapshot.Snapshot {
	t.Helper()
	tree, models := sess.Document()
	snap, err := snapshot.Capture(tree, models)
	require.NoError(t, err)
	return snap
}

func TestSession_LoadXML(t *testing.T) {
	sess := newSession(t)

	require.NoError(t, sess.LoadXML(sampleXML))
	assert.True(t, sess.IsValid())
	assert.True(t, sess.CanSave())

	tree, models := sess.Document()
	assert.Equal(t, 4, tree.Len(), "Root, Sequence and two actions")
	assert.Contains(t, models, "MoveTo")

	// A successful load is one undoable edit.
	assert.True(t, sess.CanUndo())
	require.True(t, sess.Undo())
	tree, _ = sess.Document()
	assert.Equal(t, 0, tree.Len())
	assert.False(t, sess.Undo(), "history exhausted")
}

func TestSession_LoadXML_MalformedLeavesDocumentUntouched(t *testing.T) {
	sess := newSession(t)
	require.NoError(t, sess.LoadXML(sampleXML))

	before := capture(t, sess)

	err := sess.LoadXML(`<root><BehaviorTree><Teleport/></BehaviorTree></root>`)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedDocument)
	assert.NotEmpty(t, err.Error())

	// The live document is byte-for-byte what it was before the attempt.
	after := capture(t, sess)
	assert.True(t, before.Equal(after))

	// And the failed attempt left nothing on the history.
	require.True(t, sess.Undo())
	tree, _ := sess.Document()
	assert.Equal(t, 0, tree.Len())
}

func TestSession_EncodeXML_InvalidDocument(t *testing.T) {
	sess := newSession(t)

	out, err := sess.EncodeXML()
	assert.ErrorIs(t, err, domain.ErrInvalidDocument)
	assert.Empty(t, out)
}

func TestSession_EditRoundTrip(t *testing.T) {
	sess := newSession(t)

	rootID, err := sess.InsertNode("", "Root")
	require.NoError(t, err)
	seqID, err := sess.InsertNode(rootID, "Sequence")
	require.NoError(t, err)
	moveID, err := sess.InsertNode(seqID, "MoveTo")
	require.NoError(t, err)
	require.NoError(t, sess.SetParameter(moveID, "target", "kitchen"))

	text, err := sess.EncodeXML()
	require.NoError(t, err)
	assert.Contains(t, text, `target="kitchen"`)

	_, _, err = codec.Decode(text, testRegistry(t))
	assert.NoError(t, err)
}

func TestSession_InsertNode_UnknownType(t *testing.T) {
	sess := newSession(t)
	_, err := sess.InsertNode("", "Teleport")
	assert.Error(t, err)
}

func TestSession_UndoRedo(t *testing.T) {
	sess := newSession(t)

	rootID, err := sess.InsertNode("", "Root")
	require.NoError(t, err)
	_, err = sess.InsertNode(rootID, "Sequence")
	require.NoError(t, err)

	states := []int{2, 1, 0}
	for _, want := range states[1:] {
		require.True(t, sess.Undo())
		tree, _ := sess.Document()
		assert.Equal(t, want, tree.Len())
	}

	for _, want := range []int{1, 2} {
		require.True(t, sess.Redo())
		tree, _ := sess.Document()
		assert.Equal(t, want, tree.Len())
	}
	assert.False(t, sess.Redo())
}

func TestSession_UndoPreservesIdentity(t *testing.T) {
	sess := newSession(t)

	rootID, err := sess.InsertNode("", "Root")
	require.NoError(t, err)
	seqID, err := sess.InsertNode(rootID, "Sequence")
	require.NoError(t, err)
	moveID, err := sess.InsertNode(seqID, "MoveTo")
	require.NoError(t, err)

	require.NoError(t, sess.RemoveNode(moveID))
	require.True(t, sess.Undo())

	// The restored node keeps its original ID and parent.
	tree, _ := sess.Document()
	move, ok := tree.Get(moveID)
	require.True(t, ok)
	assert.Equal(t, seqID, move.Parent())
}

func TestSession_NotifyChange(t *testing.T) {
	sess := newSession(t)

	// Direct manipulation on the canvas mutates the live tree, then pings
	// the session once.
	tree, _ := sess.Document()
	_, err := tree.Insert("", domain.NodeModel{Name: "Root", Category: domain.CategoryRoot})
	require.NoError(t, err)
	assert.False(t, sess.CanUndo())

	sess.NotifyChange()
	assert.True(t, sess.CanUndo())

	// A notification with no actual change is absorbed.
	sess.NotifyChange()
	require.True(t, sess.Undo())
	assert.False(t, sess.CanUndo())
}

func TestSession_MonitorModeLocksEditing(t *testing.T) {
	sess := newSession(t, session.WithMode(session.ModeMonitor))

	_, err := sess.InsertNode("", "Root")
	assert.ErrorIs(t, err, session.ErrEditingLocked)
	assert.ErrorIs(t, sess.ClearWorkspace(), session.ErrEditingLocked)
	assert.ErrorIs(t, sess.LoadXML(sampleXML), session.ErrEditingLocked)
	assert.False(t, sess.Undo())
	assert.False(t, sess.Redo())
}

func TestSession_TreeReceived(t *testing.T) {
	t.Run("monitor mode stays locked and history is cleared", func(t *testing.T) {
		sess := newSession(t, session.WithMode(session.ModeMonitor))

		reg := testRegistry(t)
		feed, models, err := codec.Decode(sampleXML, reg)
		require.NoError(t, err)

		sess.TreeReceived(feed, models)

		tree, _ := sess.Document()
		assert.Equal(t, 4, tree.Len())
		assert.False(t, sess.CanUndo(), "feed adoption is not an edit")
		assert.False(t, sess.CanRedo())

		_, err = sess.InsertNode("", "Root")
		assert.ErrorIs(t, err, session.ErrEditingLocked)
	})

	t.Run("editor mode unlocks after adoption", func(t *testing.T) {
		sess := newSession(t)
		require.NoError(t, sess.LoadXML(sampleXML))
		require.True(t, sess.CanUndo())

		feed, models, err := codec.Decode(sampleXML, testRegistry(t))
		require.NoError(t, err)
		sess.TreeReceived(feed, models)

		assert.False(t, sess.CanUndo(), "prior history is meaningless for an external tree")

		tree, _ := sess.Document()
		roots := tree.Roots()
		require.Len(t, roots, 1)
		root, _ := tree.Get(roots[0])
		require.NoError(t, sess.RemoveNode(root.Children()[0]))
	})
}

func TestSession_Orientation(t *testing.T) {
	sess := newSession(t)
	require.NoError(t, sess.LoadXML(sampleXML))
	assert.Equal(t, layout.Horizontal, sess.Orientation())

	next := sess.ToggleOrientation()
	assert.Equal(t, layout.Vertical, next)
	assert.Equal(t, layout.Vertical, sess.Orientation())

	// The relayout is one undoable edit: undo brings back horizontal
	// positions, a second toggle pushes again.
	before := capture(t, sess)
	require.True(t, sess.Undo())
	after := capture(t, sess)
	assert.False(t, before.Equal(after))
}

func TestSession_SetOrientation_NoChangeNoPush(t *testing.T) {
	sess := newSession(t)
	require.NoError(t, sess.LoadXML(sampleXML))

	// Loading already arranged the document; arranging again pushes nothing.
	before := capture(t, sess)
	sess.SetOrientation(sess.Orientation())
	assert.True(t, before.Equal(capture(t, sess)))
	assert.False(t, sess.AutoArrange())
}

func TestSession_Workspaces(t *testing.T) {
	sess := newSession(t)
	assert.Equal(t, "main", sess.CurrentWorkspace())

	require.NoError(t, sess.NewWorkspace("scratch"))
	assert.Equal(t, "scratch", sess.CurrentWorkspace())
	assert.Equal(t, []string{"main", "scratch"}, sess.Workspaces())

	assert.ErrorIs(t, sess.NewWorkspace("scratch"), session.ErrWorkspaceExists)
	assert.Error(t, sess.NewWorkspace(""))

	// Documents are independent per workspace.
	require.NoError(t, sess.LoadXML(sampleXML))
	require.NoError(t, sess.Select("main"))
	tree, _ := sess.Document()
	assert.Equal(t, 0, tree.Len())

	assert.ErrorIs(t, sess.Select("nope"), domain.ErrWorkspaceNotFound)
}

func TestSession_Autosave(t *testing.T) {
	store := memory.NewStore()
	sess := newSession(t, session.WithStore(store))

	require.NoError(t, sess.LoadXML(sampleXML))

	snap, err := store.Load(context.Background(), "main")
	require.NoError(t, err)

	restored, _, err := snapshot.Restore(snap)
	require.NoError(t, err)
	assert.Equal(t, 4, restored.Len())
}

func TestSession_ClearWorkspace(t *testing.T) {
	sess := newSession(t)
	require.NoError(t, sess.LoadXML(sampleXML))

	require.NoError(t, sess.ClearWorkspace())
	tree, _ := sess.Document()
	assert.Equal(t, 0, tree.Len())

	// Clearing is undoable.
	require.True(t, sess.Undo())
	tree, _ = sess.Document()
	assert.Equal(t, 4, tree.Len())
}
