package arbor_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	arbor "github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/layout"
)

const paletteYAML = `nodes:
  - name: MoveTo
    category: Action
    params:
      - label: target
        type: Text
`

const treeXML = `<root>
  <BehaviorTree>
    <Sequence>
      <MoveTo target="kitchen"/>
    </Sequence>
  </BehaviorTree>
</root>`

func newEditor(t *testing.T) (*arbor.Editor, string) {
	t.Helper()
	dir := t.TempDir()

	palette := filepath.Join(dir, "palette.yaml")
	require.NoError(t, os.WriteFile(palette, []byte(paletteYAML), 0644))

	ed, err := arbor.New(
		arbor.WithPalette(palette),
		arbor.WithSettingsPath(filepath.Join(dir, "settings.yaml")),
	)
	require.NoError(t, err)
	return ed, dir
}

func TestEditor_LoadSaveRoundTrip(t *testing.T) {
	ed, dir := newEditor(t)

	in := filepath.Join(dir, "patrol.xml")
	require.NoError(t, os.WriteFile(in, []byte(treeXML), 0644))
	require.NoError(t, ed.LoadFile(in))
	assert.True(t, ed.Session().CanSave())

	out := filepath.Join(dir, "out", "patrol.xml")
	require.NoError(t, ed.SaveFile(out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `target="kitchen"`)

	// No temp files left behind in the destination directory.
	entries, err := os.ReadDir(filepath.Dir(out))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestEditor_SaveFile_InvalidDocumentLeavesTargetUntouched(t *testing.T) {
	ed, dir := newEditor(t)

	out := filepath.Join(dir, "patrol.xml")
	require.NoError(t, os.WriteFile(out, []byte("previous contents"), 0644))

	err := ed.SaveFile(out)
	assert.ErrorIs(t, err, domain.ErrInvalidDocument)

	data, readErr := os.ReadFile(out)
	require.NoError(t, readErr)
	assert.Equal(t, "previous contents", string(data))
}

func TestEditor_LoadFile_Missing(t *testing.T) {
	ed, dir := newEditor(t)
	assert.Error(t, ed.LoadFile(filepath.Join(dir, "nope.xml")))
}

func TestEditor_OrientationPersists(t *testing.T) {
	dir := t.TempDir()
	settingsPath := filepath.Join(dir, "settings.yaml")

	ed, err := arbor.New(arbor.WithSettingsPath(settingsPath))
	require.NoError(t, err)

	got := ed.ToggleOrientation()
	assert.Equal(t, layout.Vertical, got)

	// A fresh editor restores the stored orientation.
	again, err := arbor.New(arbor.WithSettingsPath(settingsPath))
	require.NoError(t, err)
	assert.Equal(t, layout.Vertical, again.Session().Orientation())
}
