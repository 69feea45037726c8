// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Ansuz capture tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ansuz/internal/capture"
	"github.com/starford/ansuz/internal/models"
)

// CaptureFormatURI is the resource describing how captures are written.
const CaptureFormatURI = "ansuz://capture-format"

// VaultLister reports every known vault, including those that cannot
// receive captures.
type VaultLister interface {
	All() []models.Vault
}

// Server wraps the MCP server with Ansuz tools.
type Server struct {
	mcp    *server.MCPServer
	svc    *capture.Service
	vaults VaultLister
}

// New creates a new MCP server with all Ansuz tools registered.
func New(svc *capture.Service, vaults VaultLister) *Server {
	s := &Server{svc: svc, vaults: vaults}

	s.mcp = server.NewMCPServer(
		"Ansuz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("capture_note",
		mcp.WithDescription("Capture text into an Obsidian note. If a note with the title already "+
			"exists anywhere in the vault, the text is appended under a heading; otherwise a new "+
			"note is created in the folder. Returns the generated obsidian:// link. "+
			"See the ansuz://capture-format resource for how fields are laid out."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title, without extension or slashes")),
		mcp.WithString("body", mcp.Description("Free text to write")),
		mcp.WithString("link_url", mcp.Description("Source URL to link")),
		mcp.WithString("link_label", mcp.Description("Display text for the link (defaults to the URL)")),
		mcp.WithString("highlight", mcp.Description("Quoted excerpt")),
		mcp.WithString("vault", mcp.Description("Vault name (defaults to the last used vault)")),
		mcp.WithString("folder", mcp.Description("Folder for new notes, relative to the vault root")),
	), s.captureNote)

	s.mcp.AddTool(mcp.NewTool("resolve_note",
		mcp.WithDescription("Report whether a title already exists in a vault and which folder "+
			"a capture would write to. Does not write anything."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
		mcp.WithString("vault", mcp.Description("Vault name (defaults to the last used vault)")),
		mcp.WithString("folder", mcp.Description("Folder used when the note does not exist")),
	), s.resolveNote)

	s.mcp.AddTool(mcp.NewTool("list_vaults",
		mcp.WithDescription("List known Obsidian vaults and whether each has the Advanced URI plugin."),
	), s.listVaults)

	s.mcp.AddResource(
		mcp.NewResource(CaptureFormatURI, "Capture Format",
			mcp.WithResourceDescription("How captured fields are written into a note."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readCaptureFormatResource,
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

func (s *Server) captureNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.Capture(ctx, models.CaptureRequest{
		Title:     title,
		Body:      req.GetString("body", ""),
		LinkURL:   req.GetString("link_url", ""),
		LinkLabel: req.GetString("link_label", ""),
		Highlight: req.GetString("highlight", ""),
		Vault:     req.GetString("vault", ""),
		Folder:    req.GetString("folder", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func (s *Server) resolveNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.ResolveRequest(ctx, &models.CaptureRequest{
		Title:  title,
		Vault:  req.GetString("vault", ""),
		Folder: req.GetString("folder", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func (s *Server) listVaults(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	all := s.vaults.All()
	if len(all) == 0 {
		return mcp.NewToolResultText("no vaults found"), nil
	}
	return jsonResult(all)
}

func (s *Server) readCaptureFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      CaptureFormatURI,
			MIMEType: "text/markdown",
			Text:     CaptureFormat,
		},
	}, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
