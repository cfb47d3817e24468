// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Folium tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/marchant/folium/internal/bookservice"
)

// Server wraps the MCP server with Folium tools.
type Server struct {
	mcp *server.MCPServer
	svc *bookservice.Service
}

// New creates a new MCP server with all Folium tools registered.
func New(svc *bookservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Folium",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("parse_manuscript",
		mcp.WithDescription("Segment a manuscript into chapters without importing it. "+
			"Returns the chapters with slugs, titles and descriptions. Read the "+
			"get_manuscript_contract tool or the folium://manuscript-format resource "+
			"to see which heading conventions are recognized."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Raw manuscript text")),
	), s.parseManuscript)

	s.mcp.AddTool(mcp.NewTool("import_manuscript",
		mcp.WithDescription("Import a manuscript as a new version of a book, creating "+
			"the book when needed. Version and slug conflicts are resolved automatically."),
		mcp.WithString("book_title", mcp.Required(), mcp.Description("Title of the book")),
		mcp.WithString("author", mcp.Description("Author name (used when the book is created)")),
		mcp.WithString("version", mcp.Description("Requested version label (default \"1\")")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Raw manuscript text")),
	), s.importManuscript)

	s.mcp.AddTool(mcp.NewTool("list_books",
		mcp.WithDescription("List all books with their ids, titles and authors."),
	), s.listBooks)

	s.mcp.AddTool(mcp.NewTool("list_chapters",
		mcp.WithDescription("List a book version's chapters in reading order (table of contents)."),
		mcp.WithString("book_id", mcp.Required(), mcp.Description("Book ID")),
		mcp.WithString("version", mcp.Description("Version name; empty or \"-\" for unversioned chapters")),
	), s.listChapters)

	s.mcp.AddTool(mcp.NewTool("read_chapter",
		mcp.WithDescription("Read the full text of one chapter."),
		mcp.WithString("book_id", mcp.Required(), mcp.Description("Book ID")),
		mcp.WithString("version", mcp.Description("Version name; empty or \"-\" for unversioned chapters")),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Chapter slug")),
	), s.readChapter)

	s.mcp.AddTool(mcp.NewTool("search_chapters",
		mcp.WithDescription("Full-text search through chapter content and titles."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchChapters)

	s.mcp.AddTool(mcp.NewTool("get_manuscript_contract",
		mcp.WithDescription("Returns the manuscript format contract: which heading "+
			"conventions the segmenter recognizes and how chapters are derived. "+
			"Call this before composing manuscripts for import."),
	), s.getManuscriptContract)

	// Resource: manuscript format contract.
	s.mcp.AddResource(
		mcp.NewResource("folium://manuscript-format", "Manuscript Format Contract",
			mcp.WithResourceDescription("Heading conventions and segmentation rules for imported manuscripts."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readManuscriptFormatResource,
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

func (s *Server) parseManuscript(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	chapters := s.svc.ParseManuscript(text)
	out, _ := json.MarshalIndent(chapters, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) importManuscript(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bookTitle, err := req.RequireString("book_title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	author := req.GetString("author", "")
	version := req.GetString("version", "1")

	res, err := s.svc.ImportFullManuscript(ctx, bookTitle, author, version, text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("imported %d chapters as version %q of %q",
		res.ChaptersImported, res.VersionName, bookTitle)), nil
}

func (s *Server) listBooks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	books, err := s.svc.ListBooks(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var lines []string
	for _, b := range books {
		line := fmt.Sprintf("%s\t%s", b.ID, b.Title)
		if b.Author != "" {
			line += " — " + b.Author
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return mcp.NewToolResultText("no books"), nil
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

// resolveScope maps a version name argument to a chapter scope.
func (s *Server) resolveScope(ctx context.Context, bookID, version string) (string, error) {
	if version == "" || version == "-" {
		return "", nil
	}
	v, err := s.svc.VersionByName(ctx, bookID, version)
	if err != nil {
		return "", err
	}
	return v.ID, nil
}

func (s *Server) listChapters(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bookID, err := req.RequireString("book_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	versionID, err := s.resolveScope(ctx, bookID, req.GetString("version", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	chapters, err := s.svc.TableOfContents(ctx, bookID, versionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var lines []string
	for _, c := range chapters {
		lines = append(lines, fmt.Sprintf("%d\t%s\t%s", c.OrderIndex, c.Slug, c.Title))
	}
	if len(lines) == 0 {
		return mcp.NewToolResultText("no chapters"), nil
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) readChapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bookID, err := req.RequireString("book_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	versionID, err := s.resolveScope(ctx, bookID, req.GetString("version", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ch, _, _, err := s.svc.ChapterWithSiblings(ctx, bookID, versionID, slug)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", slug)), nil
	}
	return mcp.NewToolResultText(ch.Content), nil
}

func (s *Server) searchChapters(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getManuscriptContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(ManuscriptFormatContract), nil
}

func (s *Server) readManuscriptFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "folium://manuscript-format",
			MIMEType: "text/markdown",
			Text:     ManuscriptFormatContract,
		},
	}, nil
}
