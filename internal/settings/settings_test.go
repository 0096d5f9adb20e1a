package settings_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/internal/settings"
	"github.com/aretw0/arbor/pkg/layout"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	s, err := settings.Load(filepath.Join(t.TempDir(), "nope", "settings.yaml"))
	require.NoError(t, err)
	assert.Equal(t, layout.Horizontal, s.OrientationValue())
	assert.Empty(t, s.LastLoadDir)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	// Save creates missing parent directories.
	path := filepath.Join(t.TempDir(), "arbor", "settings.yaml")

	want := &settings.Settings{
		Orientation: layout.Vertical.String(),
		LastLoadDir: "/tmp/trees",
		LastSaveDir: "/tmp/out",
	}
	require.NoError(t, settings.Save(path, want))

	got, err := settings.Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, layout.Vertical, got.OrientationValue())
}

func TestLoad_BadContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("orientation: [not\n"), 0644))

	_, err := settings.Load(path)
	assert.Error(t, err)
}

func TestOrientationValue_Unrecognized(t *testing.T) {
	s := &settings.Settings{Orientation: "DIAGONAL"}
	assert.Equal(t, layout.Horizontal, s.OrientationValue())
}
