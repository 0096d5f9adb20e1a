package arbor

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/arbor/internal/settings"
	"github.com/aretw0/arbor/pkg/layout"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/registry"
	"github.com/aretw0/arbor/pkg/session"
)

// Version is the library version, printed by the CLI and announced by
// the MCP server.
var Version = "0.4.0"

// Editor is the high-level entry point for the Arbor library.
// It wires the registry, the editing session and the persisted settings,
// and owns the file-level load/save operations.
type Editor struct {
	session  *session.Session
	registry *registry.Registry
	settings *settings.Settings

	settingsPath string
	palettePath  string
	mode         session.Mode
	canvas       ports.Canvas
	store        ports.WorkspaceStore
	logger       *slog.Logger
}

// Option defines a functional option for configuring the Editor.
type Option func(*Editor)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// WithPalette loads extra node models from a YAML palette file.
func WithPalette(path string) Option {
	return func(e *Editor) {
		e.palettePath = path
	}
}

// WithSettingsPath overrides the settings file location.
func WithSettingsPath(path string) Option {
	return func(e *Editor) {
		e.settingsPath = path
	}
}

// WithCanvas attaches a rendering shell.
func WithCanvas(c ports.Canvas) Option {
	return func(e *Editor) {
		e.canvas = c
	}
}

// WithStore enables workspace autosave.
func WithStore(store ports.WorkspaceStore) Option {
	return func(e *Editor) {
		e.store = store
	}
}

// WithMode sets the session mode (editor, monitor or replay).
func WithMode(m session.Mode) Option {
	return func(e *Editor) {
		e.mode = m
	}
}

// New initializes the Editor: registry (plus optional palette), persisted
// settings (the stored orientation is restored), and the editing session.
func New(opts ...Option) (*Editor, error) {
	e := &Editor{
		settingsPath: settings.DefaultPath(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	e.registry = registry.New()
	if e.palettePath != "" {
		if err := e.registry.LoadPalette(e.palettePath); err != nil {
			return nil, fmt.Errorf("failed to load palette: %w", err)
		}
	}

	cfg, err := settings.Load(e.settingsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	e.settings = cfg

	sessionOpts := []session.Option{
		session.WithLogger(e.logger),
		session.WithMode(e.mode),
		session.WithOrientation(cfg.OrientationValue()),
	}
	if e.canvas != nil {
		sessionOpts = append(sessionOpts, session.WithCanvas(e.canvas))
	}
	if e.store != nil {
		sessionOpts = append(sessionOpts, session.WithStore(e.store))
	}

	e.session, err = session.New(e.registry, sessionOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return e, nil
}

// Session returns the editing session.
func (e *Editor) Session() *session.Session {
	return e.session
}

// Registry returns the node type registry.
func (e *Editor) Registry() *registry.Registry {
	return e.registry
}

// LoadFile reads a behavior tree file into the current workspace and
// remembers its directory. A failed decode leaves the live document
// untouched.
func (e *Editor) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := e.session.LoadXML(string(data)); err != nil {
		return err
	}

	e.settings.LastLoadDir = filepath.Dir(path)
	e.persistSettings()
	return nil
}

// SaveFile encodes the current document and writes it atomically: encode
// first, then write to a temp file and rename. A failed encode never
// touches the destination.
func (e *Editor) SaveFile(path string) error {
	text, err := e.session.EncodeXML()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure directory: %w", err)
	}

	// Temp file in the same directory so the rename stays on one filesystem.
	tmp, err := os.CreateTemp(dir, "tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to finalize %s: %w", path, err)
	}

	e.settings.LastSaveDir = dir
	e.persistSettings()
	return nil
}

// SetOrientation changes the layout orientation and persists the choice.
func (e *Editor) SetOrientation(o layout.Orientation) {
	e.session.SetOrientation(o)
	e.settings.Orientation = o.String()
	e.persistSettings()
}

// ToggleOrientation flips the layout orientation and persists the choice.
func (e *Editor) ToggleOrientation() layout.Orientation {
	o := e.session.ToggleOrientation()
	e.settings.Orientation = o.String()
	e.persistSettings()
	return o
}

func (e *Editor) persistSettings() {
	if err := settings.Save(e.settingsPath, e.settings); err != nil {
		e.logger.Warn("Failed to persist settings", "path", e.settingsPath, "err", err)
	}
}
