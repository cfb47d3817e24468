package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/marchant/folium/internal/bookservice"
	"github.com/marchant/folium/internal/testutil"
)

func testServer(t *testing.T) (*Server, *bookservice.Service) {
	t.Helper()
	svc := bookservice.NewService(testutil.TestStore(t), nil)
	return New(svc), svc
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go doesn't expose a direct "call tool" test helper, so we call
	// the handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "parse_manuscript":
		result, err = srv.parseManuscript(ctx, req)
	case "import_manuscript":
		result, err = srv.importManuscript(ctx, req)
	case "list_books":
		result, err = srv.listBooks(ctx, req)
	case "list_chapters":
		result, err = srv.listChapters(ctx, req)
	case "read_chapter":
		result, err = srv.readChapter(ctx, req)
	case "search_chapters":
		result, err = srv.searchChapters(ctx, req)
	case "get_manuscript_contract":
		result, err = srv.getManuscriptContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

const mcpManuscript = "## Intro\nHello world.\n\n## Chapter Two\nMore text here."

func TestParseManuscriptTool(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "parse_manuscript", map[string]interface{}{"text": mcpManuscript})
	text := resultText(r)
	if !strings.Contains(text, `"slug": "intro"`) || !strings.Contains(text, `"slug": "chapter-two"`) {
		t.Errorf("parse result = %q", text)
	}

	// Dry run: nothing imported.
	books := resultText(callTool(t, srv, "list_books", map[string]interface{}{}))
	if books != "no books" {
		t.Errorf("books after parse = %q", books)
	}
}

func TestImportAndReadChapter(t *testing.T) {
	srv, svc := testServer(t)

	r := callTool(t, srv, "import_manuscript", map[string]interface{}{
		"book_title": "The Divine Gene",
		"text":       mcpManuscript,
	})
	text := resultText(r)
	if !strings.Contains(text, "imported 2 chapters") || !strings.Contains(text, `version "1"`) {
		t.Errorf("import result = %q", text)
	}

	books, err := svc.ListBooks(context.Background())
	if err != nil || len(books) != 1 {
		t.Fatalf("books = %+v, %v", books, err)
	}

	r = callTool(t, srv, "list_chapters", map[string]interface{}{
		"book_id": books[0].ID,
		"version": "1",
	})
	text = resultText(r)
	if !strings.Contains(text, "intro") || !strings.Contains(text, "chapter-two") {
		t.Errorf("chapters = %q", text)
	}

	r = callTool(t, srv, "read_chapter", map[string]interface{}{
		"book_id": books[0].ID,
		"version": "1",
		"slug":    "intro",
	})
	if got := resultText(r); got != "Hello world." {
		t.Errorf("chapter content = %q", got)
	}
}

func TestReadChapterMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "read_chapter", map[string]interface{}{
		"book_id": "nope",
		"slug":    "nope",
	})
	if !r.IsError {
		t.Error("expected error for missing chapter")
	}
}

func TestSearchChaptersTool(t *testing.T) {
	srv, _ := testServer(t)
	_ = callTool(t, srv, "import_manuscript", map[string]interface{}{
		"book_title": "Searchable",
		"text":       mcpManuscript,
	})

	r := callTool(t, srv, "search_chapters", map[string]interface{}{"query": "Hello"})
	if !strings.Contains(resultText(r), "intro") {
		t.Errorf("search result = %q", resultText(r))
	}
}

func TestManuscriptContract(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_manuscript_contract", map[string]interface{}{})
	if !strings.Contains(resultText(r), "Markdown heading") {
		t.Error("contract missing heading conventions")
	}
}
