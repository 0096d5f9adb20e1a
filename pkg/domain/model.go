package domain

import (
	"fmt"
	"sort"
)

// Category is the closed set of node kinds. Dispatch is always by value
// on this tag; there is no open type hierarchy behind it.
type Category string

const (
	CategoryRoot      Category = "Root"
	CategoryControl   Category = "Control"
	CategoryDecorator Category = "Decorator"
	CategoryAction    Category = "Action"
	CategorySubTree   Category = "SubTree"
)

// ParseCategory converts a string tag into a Category.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryRoot, CategoryControl, CategoryDecorator, CategoryAction, CategorySubTree:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown node category %q", s)
}

// ParamType is the closed set of parameter value types.
type ParamType string

const (
	ParamInt    ParamType = "Int"
	ParamDouble ParamType = "Double"
	ParamText   ParamType = "Text"
)

// ParseParamType converts a string tag into a ParamType.
func ParseParamType(s string) (ParamType, error) {
	switch ParamType(s) {
	case ParamInt, ParamDouble, ParamText:
		return ParamType(s), nil
	}
	return "", fmt.Errorf("unknown parameter type %q", s)
}

// ParamSpec declares one typed parameter of a node model.
// Declaration order is meaningful and preserved.
type ParamSpec struct {
	Label string
	Type  ParamType
}

// NodeModel is the declared shape of a node type: its category tag plus
// an ordered list of typed parameters. Immutable once registered.
type NodeModel struct {
	Name     string
	Category Category
	Params   []ParamSpec
}

// Param returns the declared spec for a label, if any.
func (m NodeModel) Param(label string) (ParamSpec, bool) {
	for _, p := range m.Params {
		if p.Label == label {
			return p, true
		}
	}
	return ParamSpec{}, false
}

// Equal reports whether two models declare the same shape.
func (m NodeModel) Equal(other NodeModel) bool {
	if m.Name != other.Name || m.Category != other.Category || len(m.Params) != len(other.Params) {
		return false
	}
	for i, p := range m.Params {
		if other.Params[i] != p {
			return false
		}
	}
	return true
}

// TreeNodesModel is the per-document catalog of node models, keyed by type
// name. It is replaced wholesale on every successful load and persists
// across edits until the next load.
type TreeNodesModel map[string]NodeModel

// SortedNames returns the model names in canonical (lexicographic) order.
func (tm TreeNodesModel) SortedNames() []string {
	names := make([]string, 0, len(tm))
	for name := range tm {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
