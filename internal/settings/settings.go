// Package settings persists the editor shell's opaque key/value state:
// the chosen layout orientation and the last-used load/save directories.
// The engine core only ever reads and writes the orientation value.
package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/arbor/pkg/layout"
)

// Settings is the on-disk shape of the settings file.
type Settings struct {
	Orientation string `yaml:"orientation"`
	LastLoadDir string `yaml:"last_load_dir,omitempty"`
	LastSaveDir string `yaml:"last_save_dir,omitempty"`
}

// DefaultPath returns the settings file location under the user config
// directory, falling back to the working directory when none exists.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "arbor", "settings.yaml")
}

// Load reads the settings file. A missing file yields defaults
// (horizontal layout, no remembered directories) rather than an error.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{Orientation: layout.Horizontal.String()}, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if s.Orientation == "" {
		s.Orientation = layout.Horizontal.String()
	}
	return &s, nil
}

// Save writes the settings file, creating the parent directory if needed.
func Save(path string, s *Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to ensure settings directory: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// OrientationValue parses the stored orientation, defaulting to
// horizontal on anything unrecognized.
func (s *Settings) OrientationValue() layout.Orientation {
	o, err := layout.ParseOrientation(s.Orientation)
	if err != nil {
		return layout.Horizontal
	}
	return o
}
