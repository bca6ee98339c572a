// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes wunjo views for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/wunjo/internal/render"
	"github.com/starford/wunjo/internal/snippet"
	"github.com/starford/wunjo/internal/viewservice"
)

const inlineFieldsURI = "wunjo://inline-fields"

// Server wraps the MCP server with wunjo tools.
type Server struct {
	mcp      *server.MCPServer
	svc      *viewservice.Service
	snippets *snippet.Parser
}

// New creates a new MCP server with all wunjo tools registered.
func New(svc *viewservice.Service, logger *slog.Logger, version string) *Server {
	s := &Server{svc: svc, snippets: &snippet.Parser{Logger: logger}}

	s.mcp = server.NewMCPServer(
		"wunjo",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("render_view",
		mcp.WithDescription("Render the mentions table of a subject: every list item in the vault that "+
			"links to it, carries its tag, or names it in an inline field. See the "+
			inlineFieldsURI+" resource for the syntax."),
		mcp.WithString("subject", mcp.Description("Document path or name, or a #tag. Defaults to the current document.")),
		mcp.WithString("current", mcp.Description("Path of the document the table is shown in (e.g. people/Alice.md)")),
		mcp.WithArray("columns", mcp.WithStringItems(), mcp.Description("Inline field keys promoted to their own columns")),
		mcp.WithArray("exclude_folders", mcp.WithStringItems(), mcp.Description("Folders left out of the scan; replaces the configured ones")),
		mcp.WithBoolean("exclude_current", mcp.Description("Leave the current document's own items out")),
		mcp.WithString("format", mcp.Description("Output format"), mcp.Enum(string(render.FormatMarkdown), string(render.FormatJSON))),
	), s.renderView)

	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List the documents of the vault, optionally under one folder."),
		mcp.WithString("folder", mcp.Description("Optional folder to list (empty for all)")),
	), s.listDocuments)

	s.mcp.AddTool(mcp.NewTool("parse_snippet",
		mcp.WithDescription("Parse a note-title snippet such as 'p;Jane Smith &role=designer' into "+
			"its trigger, title and metadata."),
		mcp.WithString("msg", mcp.Required(), mcp.Description("The snippet text")),
		mcp.WithString("prefix", mcp.Description("Prefix for the full title (e.g. a folder)")),
	), s.parseSnippet)

	s.mcp.AddResource(
		mcp.NewResource(inlineFieldsURI, "Inline Fields",
			mcp.WithResourceDescription("How list items and inline key:: value fields are read."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readInlineFieldsResource,
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

func (s *Server) renderView(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format, err := render.ParseFormat(req.GetString("format", string(render.FormatMarkdown)))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if format != render.FormatJSON {
		format = render.FormatMarkdown
	}

	vreq := viewservice.Request{
		Subject:        req.GetString("subject", ""),
		Current:        req.GetString("current", ""),
		Columns:        req.GetStringSlice("columns", nil),
		ExcludeFolders: req.GetStringSlice("exclude_folders", nil),
		Format:         format,
	}
	if v, ok := req.GetArguments()["exclude_current"].(bool); ok {
		vreq.ExcludeCurrent = &v
	}
	res := s.svc.Render(ctx, vreq)

	if format == render.FormatJSON {
		out, _ := json.MarshalIndent(res, "", "  ")
		return mcp.NewToolResultText(string(out)), nil
	}
	return mcp.NewToolResultText(render.Markdown(res)), nil
}

func (s *Server) listDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs, err := s.svc.ListDocuments(ctx, req.GetString("folder", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(docs, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) parseSnippet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	msg, err := req.RequireString("msg")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(s.snippets.Parse(msg, req.GetString("prefix", "")), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readInlineFieldsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      inlineFieldsURI,
			MIMEType: "text/markdown",
			Text:     InlineFieldsContract,
		},
	}, nil
}
