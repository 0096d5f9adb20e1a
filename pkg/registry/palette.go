package registry

import (
	"fmt"
	"os"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// paletteEntry mirrors one node declaration in a palette file. It uses
// mapstructure tags so weakly-typed YAML values decode cleanly.
type paletteEntry struct {
	Name     string         `mapstructure:"name"`
	Category string         `mapstructure:"category"`
	Params   []paletteParam `mapstructure:"params"`
}

type paletteParam struct {
	Label string `mapstructure:"label"`
	Type  string `mapstructure:"type"`
}

// paletteFile represents the structure of palette.yaml.
type paletteFile struct {
	Nodes []map[string]any `yaml:"nodes"`
}

// LoadPalette reads a YAML palette file and registers every node model it
// declares. A missing file is treated as "no custom palette" and returns
// nil; anything else that fails aborts with a wrapped error.
func (r *Registry) LoadPalette(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read palette: %w", err)
	}

	var file paletteFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse palette: %w", err)
	}

	for i, raw := range file.Nodes {
		var entry paletteEntry
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &entry,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return fmt.Errorf("failed to build palette decoder: %w", err)
		}
		if err := decoder.Decode(raw); err != nil {
			return fmt.Errorf("palette entry %d: %w", i, err)
		}

		model, err := entry.toModel()
		if err != nil {
			return fmt.Errorf("palette entry %d: %w", i, err)
		}
		if err := r.Register(model); err != nil {
			return fmt.Errorf("palette entry %d: %w", i, err)
		}
	}
	return nil
}

func (e paletteEntry) toModel() (domain.NodeModel, error) {
	if e.Name == "" {
		return domain.NodeModel{}, fmt.Errorf("node declaration is missing a name")
	}
	category, err := domain.ParseCategory(e.Category)
	if err != nil {
		return domain.NodeModel{}, fmt.Errorf("node %q: %w", e.Name, err)
	}
	if category == domain.CategoryRoot {
		return domain.NodeModel{}, fmt.Errorf("node %q: the Root category is reserved", e.Name)
	}

	params := make([]domain.ParamSpec, 0, len(e.Params))
	for _, p := range e.Params {
		paramType, err := domain.ParseParamType(p.Type)
		if err != nil {
			return domain.NodeModel{}, fmt.Errorf("node %q, param %q: %w", e.Name, p.Label, err)
		}
		if p.Label == "" {
			return domain.NodeModel{}, fmt.Errorf("node %q: parameter is missing a label", e.Name)
		}
		params = append(params, domain.ParamSpec{Label: p.Label, Type: paramType})
	}

	return domain.NodeModel{Name: e.Name, Category: category, Params: params}, nil
}
