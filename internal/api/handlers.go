package api

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmparser "github.com/yuin/goldmark/parser"

	"github.com/marchant/folium/internal/bookservice"
)

// unversionedScope is the URL segment that addresses chapters imported
// outside any version.
const unversionedScope = "-"

// Handler holds API route handlers.
type Handler struct {
	svc *bookservice.Service
	md  goldmark.Markdown
}

// NewHandler creates a new Handler.
func NewHandler(svc *bookservice.Service) *Handler {
	return &Handler{
		svc: svc,
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Typographer,
			),
			goldmark.WithParserOptions(
				gmparser.WithAutoHeadingID(),
			),
		),
	}
}

// versionID resolves the {version} URL segment to a chapter scope.
// The segment is a version NAME; "-" addresses the unversioned scope.
func (h *Handler) versionID(r *http.Request, bookID string) (string, error) {
	name := chi.URLParam(r, "version")
	if name == unversionedScope {
		return "", nil
	}
	v, err := h.svc.VersionByName(r.Context(), bookID, name)
	if err != nil {
		return "", err
	}
	return v.ID, nil
}

// renderHTML renders chapter text as HTML. Chapters are stored as
// markdown-flavored plain text; render failures fall back to empty HTML
// rather than failing the request.
func (h *Handler) renderHTML(content string) string {
	var buf bytes.Buffer
	if err := h.md.Convert([]byte(content), &buf); err != nil {
		return ""
	}
	return buf.String()
}

// ListBooks handles GET /api/books.
//
//	@Summary		List all books
//	@Tags			books
//	@Produce		json
//	@Success		200	{object}	BookListResponse
//	@Security		BearerAuth
//	@Router			/books [get]
func (h *Handler) ListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.svc.ListBooks(r.Context())
	if err != nil {
		writeErr(w, "list books", err)
		return
	}
	writeJSON(w, http.StatusOK, BookListResponse{Books: books, Total: len(books)})
}

// GetBook handles GET /api/books/{bookID}.
//
//	@Summary		Get a single book
//	@Tags			books
//	@Produce		json
//	@Param			bookID	path		string	true	"Book ID"
//	@Success		200		{object}	models.Book
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/books/{bookID} [get]
func (h *Handler) GetBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.svc.GetBook(r.Context(), chi.URLParam(r, "bookID"))
	if err != nil {
		writeErr(w, "get book", err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

// ListVersions handles GET /api/books/{bookID}/versions.
//
//	@Summary		List a book's versions with chapter counts and summaries
//	@Tags			books
//	@Produce		json
//	@Param			bookID	path		string	true	"Book ID"
//	@Success		200		{object}	VersionListResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/books/{bookID}/versions [get]
func (h *Handler) ListVersions(w http.ResponseWriter, r *http.Request) {
	infos, err := h.svc.BookVersions(r.Context(), chi.URLParam(r, "bookID"))
	if err != nil {
		writeErr(w, "list versions", err)
		return
	}
	writeJSON(w, http.StatusOK, VersionListResponse{Versions: infos})
}

// TableOfContents handles GET /api/books/{bookID}/versions/{version}/chapters.
//
//	@Summary		Get a version's table of contents
//	@Tags			chapters
//	@Produce		json
//	@Param			bookID	path		string	true	"Book ID"
//	@Param			version	path		string	true	"Version name, or - for unversioned chapters"
//	@Success		200		{object}	ChapterListResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/books/{bookID}/versions/{version}/chapters [get]
func (h *Handler) TableOfContents(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "bookID")
	if _, err := h.svc.GetBook(r.Context(), bookID); err != nil {
		writeErr(w, "toc book", err)
		return
	}
	versionID, err := h.versionID(r, bookID)
	if err != nil {
		writeErr(w, "toc version", err)
		return
	}
	chapters, err := h.svc.TableOfContents(r.Context(), bookID, versionID)
	if err != nil {
		writeErr(w, "toc", err)
		return
	}
	writeJSON(w, http.StatusOK, ChapterListResponse{Chapters: chapters})
}

// GetChapter handles GET /api/books/{bookID}/versions/{version}/chapters/{slug}.
//
//	@Summary		Get a chapter with rendered HTML and prev/next navigation
//	@Tags			chapters
//	@Produce		json
//	@Param			bookID	path		string	true	"Book ID"
//	@Param			version	path		string	true	"Version name, or - for unversioned chapters"
//	@Param			slug	path		string	true	"Chapter slug"
//	@Success		200		{object}	ChapterResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/books/{bookID}/versions/{version}/chapters/{slug} [get]
func (h *Handler) GetChapter(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "bookID")
	versionID, err := h.versionID(r, bookID)
	if err != nil {
		writeErr(w, "chapter version", err)
		return
	}
	ch, prev, next, err := h.svc.ChapterWithSiblings(r.Context(), bookID, versionID, chi.URLParam(r, "slug"))
	if err != nil {
		writeErr(w, "get chapter", err)
		return
	}
	writeJSON(w, http.StatusOK, ChapterResponse{
		Chapter: *ch,
		HTML:    h.renderHTML(ch.Content),
		Prev:    prev,
		Next:    next,
	})
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across chapters
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		writeErr(w, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// ListComments handles GET /api/comments.
//
//	@Summary		List a chapter's comments, oldest first
//	@Tags			comments
//	@Produce		json
//	@Param			book_id		query		string	true	"Book ID"
//	@Param			chapter_id	query		string	true	"Chapter ID"
//	@Success		200			{object}	CommentListResponse
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/comments [get]
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	bookID := r.URL.Query().Get("book_id")
	chapterID := r.URL.Query().Get("chapter_id")
	if bookID == "" || chapterID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("book_id and chapter_id are required"))
		return
	}
	comments, err := h.svc.Comments(r.Context(), bookID, chapterID)
	if err != nil {
		writeErr(w, "list comments", err)
		return
	}
	writeJSON(w, http.StatusOK, CommentListResponse{Comments: comments})
}
