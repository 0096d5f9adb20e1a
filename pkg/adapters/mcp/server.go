// Package mcp exposes the Arbor document engine as an MCP tool server,
// so agents can validate, format, arrange and export behavior trees.
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/pkg/codec"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/layout"
	"github.com/aretw0/arbor/pkg/registry"
)

// Server wraps the document engine and exposes it as an MCP Server.
// The tools are stateless: every call decodes the XML it is given.
type Server struct {
	reg       *registry.Registry
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance over the given registry.
func NewServer(reg *registry.Registry) *Server {
	s := &Server{
		reg:       reg,
		mcpServer: server.NewMCPServer("arbor-mcp", strings.TrimSpace(arbor.Version)),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	// TOOL: validate_tree
	s.mcpServer.AddTool(mcp.NewTool("validate_tree",
		mcp.WithDescription("Check a behavior tree XML document for structural validity (single root, root child count, known node types)."),
		mcp.WithString("xml", mcp.Required(), mcp.Description("The behavior tree XML document")),
	), s.handleValidate)

	// TOOL: format_tree
	s.mcpServer.AddTool(mcp.NewTool("format_tree",
		mcp.WithDescription("Re-encode a behavior tree XML document into its canonical form."),
		mcp.WithString("xml", mcp.Required(), mcp.Description("The behavior tree XML document")),
	), s.handleFormat)

	// TOOL: arrange_tree
	s.mcpServer.AddTool(mcp.NewTool("arrange_tree",
		mcp.WithDescription("Compute deterministic node positions for a behavior tree document."),
		mcp.WithString("xml", mcp.Required(), mcp.Description("The behavior tree XML document")),
		mcp.WithString("orientation", mcp.Description("HORIZONTAL (default) or VERTICAL")),
	), s.handleArrange)

	// TOOL: export_mermaid
	s.mcpServer.AddTool(mcp.NewTool("export_mermaid",
		mcp.WithDescription("Export a behavior tree document as a Mermaid flowchart."),
		mcp.WithString("xml", mcp.Required(), mcp.Description("The behavior tree XML document")),
	), s.handleMermaid)
}

func (s *Server) decode(request mcp.CallToolRequest) (*domain.Tree, domain.TreeNodesModel, error) {
	text := request.GetString("xml", "")
	if text == "" {
		return nil, nil, fmt.Errorf("missing required argument: xml")
	}
	return codec.Decode(text, s.reg)
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tree, _, err := s.decode(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("decode failed: %v", err)), nil
	}
	if err := domain.Validate(tree); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("document is invalid: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("document is valid (%d nodes)", tree.Len())), nil
}

func (s *Server) handleFormat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tree, models, err := s.decode(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("decode failed: %v", err)), nil
	}
	out, err := codec.Encode(tree, models, s.reg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleArrange(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tree, _, err := s.decode(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("decode failed: %v", err)), nil
	}

	orientation := layout.Horizontal
	if o := request.GetString("orientation", ""); o != "" {
		orientation, err = layout.ParseOrientation(o)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	res := layout.Compute(tree, orientation)
	var sb strings.Builder
	for _, id := range tree.Nodes() {
		node, _ := tree.Get(id)
		pos := res.Positions[id]
		sb.WriteString(fmt.Sprintf("%s: (%.0f, %.0f)\n", node.Type, pos.X, pos.Y))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleMermaid(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tree, _, err := s.decode(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("decode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(tree)), nil
}
