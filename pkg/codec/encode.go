package codec

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/registry"
)

// Encode serializes a document to its persisted XML form. It re-asserts
// the save invariant (exactly one root of the Root category with exactly
// one child) and fails with domain.ErrInvalidDocument before producing
// any output; it never emits a partial file.
func Encode(tree *domain.Tree, models domain.TreeNodesModel, reg *registry.Registry) (string, error) {
	if err := domain.Validate(tree); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(xml.Header)

	enc := xml.NewEncoder(&sb)
	enc.Indent("", "    ")

	if err := encodeTokens(enc, tree, models, reg); err != nil {
		return "", fmt.Errorf("encoding failed: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return "", fmt.Errorf("encoding failed: %w", err)
	}

	sb.WriteString("\n")
	return sb.String(), nil
}

func encodeTokens(enc *xml.Encoder, tree *domain.Tree, models domain.TreeNodesModel, reg *registry.Registry) error {
	rootStart := xml.StartElement{Name: xml.Name{Local: rootTag}}
	if err := enc.EncodeToken(rootStart); err != nil {
		return err
	}
	if err := enc.EncodeToken(xml.Comment(separatorBar)); err != nil {
		return err
	}

	// BehaviorTree: the Root node itself is implicit; its single child is
	// the tree's top-level element.
	treeStart := xml.StartElement{Name: xml.Name{Local: treeTag}}
	if err := enc.EncodeToken(treeStart); err != nil {
		return err
	}
	root, _ := tree.Get(tree.Roots()[0])
	for _, childID := range root.Children() {
		if err := encodeNode(enc, tree, childID); err != nil {
			return err
		}
	}
	if err := enc.EncodeToken(treeStart.End()); err != nil {
		return err
	}
	if err := enc.EncodeToken(xml.Comment(separatorBar)); err != nil {
		return err
	}

	if err := encodeModels(enc, tree, models, reg); err != nil {
		return err
	}
	if err := enc.EncodeToken(xml.Comment(separatorBar)); err != nil {
		return err
	}

	return enc.EncodeToken(rootStart.End())
}

func encodeNode(enc *xml.Encoder, tree *domain.Tree, id domain.NodeID) error {
	node, ok := tree.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
	}

	start := xml.StartElement{Name: xml.Name{Local: node.Type}}
	// Attributes follow the declared parameter order; unset parameters
	// are omitted.
	for _, spec := range node.Params {
		value, ok := node.Values[spec.Label]
		if !ok {
			continue
		}
		start.Attr = append(start.Attr, xml.Attr{
			Name:  xml.Name{Local: spec.Label},
			Value: value,
		})
	}

	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, childID := range node.Children() {
		if err := encodeNode(enc, tree, childID); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// encodeModels emits the TreeNodesModel catalog: the document's own model
// entries, custom registry models, and a synthesized entry for any node
// type present in the tree but declared nowhere else. Entries are sorted
// by name so output is canonical.
func encodeModels(enc *xml.Encoder, tree *domain.Tree, models domain.TreeNodesModel, reg *registry.Registry) error {
	merged := make(map[string]domain.NodeModel, len(models))
	for name, m := range models {
		merged[name] = m
	}
	for _, m := range reg.Customs() {
		if _, ok := merged[m.Name]; !ok {
			merged[m.Name] = m
		}
	}
	for _, id := range tree.Nodes() {
		node, _ := tree.Get(id)
		if node.Category == domain.CategoryRoot {
			continue
		}
		if _, ok := merged[node.Type]; !ok {
			params := make([]domain.ParamSpec, len(node.Params))
			copy(params, node.Params)
			merged[node.Type] = domain.NodeModel{Name: node.Type, Category: node.Category, Params: params}
		}
	}

	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)

	catalogStart := xml.StartElement{Name: xml.Name{Local: modelTag}}
	if err := enc.EncodeToken(catalogStart); err != nil {
		return err
	}

	for _, name := range names {
		model := merged[name]
		entryStart := xml.StartElement{
			Name: xml.Name{Local: string(model.Category)},
			Attr: []xml.Attr{{Name: xml.Name{Local: idAttr}, Value: model.Name}},
		}
		if err := enc.EncodeToken(entryStart); err != nil {
			return err
		}
		for _, p := range model.Params {
			paramStart := xml.StartElement{
				Name: xml.Name{Local: paramTag},
				Attr: []xml.Attr{
					{Name: xml.Name{Local: labelAttr}, Value: p.Label},
					{Name: xml.Name{Local: typeAttr}, Value: string(p.Type)},
				},
			}
			if err := enc.EncodeToken(paramStart); err != nil {
				return err
			}
			if err := enc.EncodeToken(paramStart.End()); err != nil {
				return err
			}
		}
		if err := enc.EncodeToken(entryStart.End()); err != nil {
			return err
		}
	}

	return enc.EncodeToken(catalogStart.End())
}
