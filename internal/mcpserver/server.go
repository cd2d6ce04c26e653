// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes runespec tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/runespec/internal/catalog"
	"github.com/starford/runespec/internal/spec"
	"github.com/starford/runespec/internal/storage"
)

// Server wraps the MCP server with runespec tools.
type Server struct {
	mcp   *server.MCPServer
	store storage.Provider
	db    catalog.ComponentIndex
}

// New creates a new MCP server with all runespec tools registered.
func New(store storage.Provider, db catalog.ComponentIndex) *Server {
	s := &Server{store: store, db: db}

	s.mcp = server.NewMCPServer(
		"Runespec",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("validate_spec",
		mcp.WithDescription("Validate a spec document's structure, formal model, and "+
			"event cross-references. Returns the detected kind and any warnings. "+
			"Warnings never block the build; they flag structural drift."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the spec (e.g. tabs/tabs.spec.md)")),
	), s.validateSpec)

	s.mcp.AddTool(mcp.NewTool("read_spec",
		mcp.WithDescription("Read the full content of a spec document. Content follows "+
			"the canonical spec format (frontmatter, H2 sections, embedded cue/quint/"+
			"test-vectors/typescript fences). Read the runespec://spec-format resource "+
			"for the contract before writing specs."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the spec (e.g. tabs/tabs.spec.md)")),
	), s.readSpec)

	s.mcp.AddTool(mcp.NewTool("component_info",
		mcp.WithDescription("Look up a component in the catalog: kind, description, "+
			"event vocabulary, and validation warnings from the last sync."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Component name (e.g. checkbox)")),
	), s.componentInfo)

	s.mcp.AddTool(mcp.NewTool("search_specs",
		mcp.WithDescription("Full-text search through spec names, descriptions, and bodies."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchSpecs)

	// Resource: spec format contract.
	s.mcp.AddResource(
		mcp.NewResource("runespec://spec-format", "Spec Format Contract",
			mcp.WithResourceDescription("Canonical literate spec format that all component specs must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readSpecFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

type validationReport struct {
	Path     string   `json:"path"`
	Name     string   `json:"name"`
	Kind     string   `json:"kind"`
	Warnings []string `json:"warnings"`
}

func (s *Server) validateSpec(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.store.Read(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}

	content := string(data)
	meta, body := spec.ParseFrontmatter(content)

	warnings := []string{}
	if meta.Kind != spec.Schema {
		warnings = append(warnings, spec.ValidateStructure(body, meta.Kind)...)
	}
	name := spec.ComponentName(path)
	if quint, ok := spec.ExtractQuintBlock(content); ok {
		warnings = append(warnings, spec.ValidateQuintModel(name, quint)...)

		var cueBodies []string
		for _, b := range spec.ExtractCueBlocks(content) {
			cueBodies = append(cueBodies, b.Body)
		}
		warnings = append(warnings, spec.CrossReferenceEvents(strings.Join(cueBodies, "\n"), quint)...)
	}

	out, _ := json.MarshalIndent(validationReport{
		Path:     path,
		Name:     name,
		Kind:     meta.Kind.String(),
		Warnings: warnings,
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readSpec(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.store.Read(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) componentInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	row, err := s.db.GetComponent(name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("unknown component: %s", name)), nil
	}
	out, _ := json.MarshalIndent(map[string]any{
		"path":        row.Path,
		"name":        row.Name,
		"kind":        row.Kind,
		"description": row.Description,
		"events":      row.Events,
		"warnings":    row.Warnings,
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchSpecs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.db.Search(query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readSpecFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "runespec://spec-format",
			MIMEType: "text/markdown",
			Text:     SpecFormatContract,
		},
	}, nil
}
