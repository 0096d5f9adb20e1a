/*
Package codec implements the bidirectional mapping between a behavior-tree
document and its persisted XML form.

The persisted layout is a single <root> element carrying, separated by
comment markers, the <BehaviorTree> structure (one element per node,
attributes = parameter values) and the <TreeNodesModel> catalog (one
element per declared type, with an ID attribute and nested <Parameter>
elements).

Decoding is all-or-nothing: any structural error aborts the whole parse
with domain.ErrMalformedDocument and produces nothing, so the caller's
previously-live document is never touched. Encoding re-asserts the
single-root invariant and fails with domain.ErrInvalidDocument before
emitting any output.
*/
package codec

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/registry"
)

const (
	rootTag      = "root"
	treeTag      = "BehaviorTree"
	modelTag     = "TreeNodesModel"
	paramTag     = "Parameter"
	idAttr       = "ID"
	labelAttr    = "label"
	typeAttr     = "type"
	separatorBar = " ----------------------------------- "
)

// element is a minimal in-memory XML element used during decode.
type element struct {
	name     string
	attrs    []xml.Attr
	children []*element
}

func (e *element) attr(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func (e *element) child(name string) *element {
	for _, c := range e.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// stripComments removes every <!-- --> span before parsing. Comments
// carry no semantics in this format, and the separator bars are runs of
// hyphens that the stdlib decoder rejects as invalid comment syntax, so
// they must never reach it. An unterminated comment is left in place for
// the parser to report.
func stripComments(text string) string {
	var sb strings.Builder
	for {
		start := strings.Index(text, "<!--")
		if start < 0 {
			break
		}
		end := strings.Index(text[start+4:], "-->")
		if end < 0 {
			break
		}
		sb.WriteString(text[:start])
		text = text[start+4+end+3:]
	}
	sb.WriteString(text)
	return sb.String()
}

// parseElements reads the whole token stream into an element tree.
// Whitespace and processing instructions are skipped.
func parseElements(r io.Reader) ([]*element, error) {
	dec := xml.NewDecoder(r)

	var top []*element
	var stack []*element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{name: t.Name.Local}
			el.attrs = append(el.attrs, t.Attr...)
			if len(stack) == 0 {
				top = append(top, el)
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}
	return top, nil
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrMalformedDocument, fmt.Sprintf(format, args...))
}

// Decode parses persisted XML into a fresh document and its node model
// catalog. It never mutates anything the caller owns; on failure it
// returns domain.ErrMalformedDocument with a human-readable detail.
func Decode(text string, reg *registry.Registry) (*domain.Tree, domain.TreeNodesModel, error) {
	top, err := parseElements(strings.NewReader(stripComments(text)))
	if err != nil {
		return nil, nil, malformed("xml parse failed: %v", err)
	}

	var root *element
	for _, el := range top {
		if el.name == rootTag {
			root = el
			break
		}
	}
	if root == nil {
		return nil, nil, malformed("missing <%s> element", rootTag)
	}

	// The model section is parsed first: the tree section may reference
	// entries by ID, and the catalog is independent of tree structure.
	models := domain.TreeNodesModel{}
	if modelEl := root.child(modelTag); modelEl != nil {
		if err := decodeModels(modelEl, models); err != nil {
			return nil, nil, err
		}
	}

	treeEl := root.child(treeTag)
	if treeEl == nil {
		return nil, nil, malformed("missing <%s> element", treeTag)
	}
	if len(treeEl.children) != 1 {
		return nil, nil, malformed("<%s> must contain exactly one top-level node, found %d", treeTag, len(treeEl.children))
	}

	tree := domain.NewTree()
	rootModel, ok := reg.Lookup("Root")
	if !ok {
		return nil, nil, malformed("registry has no Root model")
	}
	rootID, err := tree.Insert("", rootModel)
	if err != nil {
		return nil, nil, malformed("building root: %v", err)
	}
	if err := decodeNode(tree, rootID, treeEl.children[0], models, reg); err != nil {
		return nil, nil, err
	}

	return tree, models, nil
}

func decodeModels(modelEl *element, models domain.TreeNodesModel) error {
	for _, entry := range modelEl.children {
		category, err := domain.ParseCategory(entry.name)
		if err != nil {
			return malformed("model entry: %v", err)
		}
		if category == domain.CategoryRoot {
			return malformed("model entry: the Root category cannot be declared")
		}
		name, ok := entry.attr(idAttr)
		if !ok || name == "" {
			return malformed("model entry <%s> is missing its %s attribute", entry.name, idAttr)
		}
		if _, exists := models[name]; exists {
			return malformed("model entry %q declared twice", name)
		}

		var params []domain.ParamSpec
		for _, p := range entry.children {
			if p.name != paramTag {
				return malformed("model entry %q: unexpected element <%s>", name, p.name)
			}
			label, ok := p.attr(labelAttr)
			if !ok || label == "" {
				return malformed("model entry %q: parameter is missing its label", name)
			}
			typeName, ok := p.attr(typeAttr)
			if !ok {
				return malformed("model entry %q: parameter %q is missing its type", name, label)
			}
			paramType, err := domain.ParseParamType(typeName)
			if err != nil {
				return malformed("model entry %q, parameter %q: %v", name, label, err)
			}
			params = append(params, domain.ParamSpec{Label: label, Type: paramType})
		}

		models[name] = domain.NodeModel{Name: name, Category: category, Params: params}
	}
	return nil
}

// decodeNode builds one document node from an XML element and recurses
// into its children in document order.
func decodeNode(tree *domain.Tree, parentID domain.NodeID, el *element, models domain.TreeNodesModel, reg *registry.Registry) error {
	model, err := resolveModel(el, models, reg)
	if err != nil {
		return err
	}

	id, err := tree.Insert(parentID, model)
	if err != nil {
		return malformed("building node %q: %v", model.Name, err)
	}

	for _, attr := range el.attrs {
		if attr.Name.Local == idAttr {
			continue
		}
		if err := tree.SetParameter(id, attr.Name.Local, attr.Value); err != nil {
			return malformed("node %q: %v", model.Name, err)
		}
	}

	for _, child := range el.children {
		if err := decodeNode(tree, id, child, models, reg); err != nil {
			return err
		}
	}
	return nil
}

// resolveModel maps an XML element to a node model. A category-tag element
// carrying an ID attribute takes its type from the referenced model entry;
// any other tag is the type name itself, resolved against the document
// model first and the registry second.
func resolveModel(el *element, models domain.TreeNodesModel, reg *registry.Registry) (domain.NodeModel, error) {
	if category, err := domain.ParseCategory(el.name); err == nil && category != domain.CategoryRoot {
		if name, ok := el.attr(idAttr); ok {
			if m, ok := models[name]; ok {
				return m, nil
			}
			if m, ok := reg.Lookup(name); ok {
				return m, nil
			}
			return domain.NodeModel{}, malformed("<%s> references undeclared node type %q", el.name, name)
		}
	}

	if m, ok := models[el.name]; ok {
		return m, nil
	}
	if m, ok := reg.Lookup(el.name); ok {
		if m.Category == domain.CategoryRoot {
			return domain.NodeModel{}, malformed("the Root node cannot appear inside <%s>", treeTag)
		}
		return m, nil
	}
	return domain.NodeModel{}, malformed("unknown node type %q", el.name)
}
