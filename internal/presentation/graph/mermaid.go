package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart syntax string from a
// behavior-tree document.
// It applies semantic styling:
// - Root: ((Circle))
// - Control: [[Subroutine]]
// - Decorator: {Rhombus}
// - SubTree: [/Parallelogram/]
// - Action (default): [Rectangle]
func GenerateMermaid(tree *domain.Tree) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, id := range tree.Nodes() {
		node, _ := tree.Get(id)
		safeID := sanitizeMermaidID(string(id))

		// Node shape based on Category
		opener, closer := "[", "]"
		switch node.Category {
		case domain.CategoryRoot:
			opener, closer = "((", "))"
		case domain.CategoryControl:
			opener, closer = "[[", "]]"
		case domain.CategoryDecorator:
			opener, closer = "{", "}"
		case domain.CategorySubTree:
			opener, closer = "[/", "/]"
		}

		label := node.Type
		if len(node.Values) > 0 {
			label = fmt.Sprintf("%s <br/> %d params", node.Type, len(node.Values))
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))

		for _, child := range node.Children() {
			safeTo := sanitizeMermaidID(string(child))
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", safeID, safeTo))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
