package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/marchant/folium/internal/bookservice"
	"github.com/marchant/folium/internal/inbox"
	"github.com/marchant/folium/internal/manuscript"
	"github.com/marchant/folium/internal/models"
)

// maxImportBytes bounds import request bodies (20 MB covers any
// plausible manuscript).
const maxImportBytes = 20 << 20

// decodeJSON decodes and validates a request body, writing the 400
// response itself on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{ Validate() error }) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	if err := dst.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return false
	}
	return true
}

// Parse handles POST /api/parse: segment a manuscript without touching
// the store.
//
//	@Summary		Segment a manuscript into chapters (dry run)
//	@Tags			import
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ParseRequest	true	"Manuscript text"
//	@Success		200		{object}	ParseResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/parse [post]
func (h *Handler) Parse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	chapters := h.svc.ParseManuscript(req.Text)
	if chapters == nil {
		chapters = []manuscript.Chapter{}
	}
	writeJSON(w, http.StatusOK, ParseResponse{Chapters: chapters})
}

// ImportFull handles POST /api/import/full.
//
//	@Summary		Import a manuscript as a new version of a book
//	@Tags			import
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ImportFullRequest	true	"Import request"
//	@Success		201		{object}	bookservice.ImportResult
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/import/full [post]
func (h *Handler) ImportFull(w http.ResponseWriter, r *http.Request) {
	var req ImportFullRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Version == "" {
		req.Version = "1"
	}
	res, err := h.svc.ImportFullManuscript(r.Context(), req.BookTitle, req.Author, req.Version, req.Manuscript)
	if err != nil {
		writeErr(w, "import full", err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// ImportChapter handles POST /api/import/chapter.
//
//	@Summary		Append a single chapter to a book
//	@Tags			import
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ImportChapterRequest	true	"Chapter to import"
//	@Success		201		{object}	bookservice.ChapterResult
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/import/chapter [post]
func (h *Handler) ImportChapter(w http.ResponseWriter, r *http.Request) {
	var req ImportChapterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.ImportChapter(r.Context(), req.BookTitle, req.Author, req.Title, req.Content)
	if err != nil {
		writeErr(w, "import chapter", err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// ImportBook handles POST /api/import/book: a replace-import that
// updates book metadata and swaps in the manuscript's chapter set.
//
//	@Summary		Replace a book's chapters from a manuscript
//	@Tags			import
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ImportBookRequest	true	"Book and manuscript"
//	@Success		201		{object}	map[string]int
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/import/book [post]
func (h *Handler) ImportBook(w http.ResponseWriter, r *http.Request) {
	var req ImportBookRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	meta := bookservice.BookMeta{
		Title:       req.Title,
		Author:      req.Author,
		Subtitle:    req.Subtitle,
		Description: req.Description,
		CoverAlt:    req.CoverAlt,
	}
	n, err := h.svc.ReplaceBook(r.Context(), meta, req.Manuscript)
	if err != nil {
		writeErr(w, "import book", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"chapters_imported": n})
}

// UploadManuscript handles POST /api/import/upload
// (multipart/form-data, file field "manuscript"). Optional form fields
// book_title, author and version override the defaults; the default
// title comes from the file name.
//
//	@Summary		Import a manuscript file
//	@Tags			import
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			manuscript	formData	file	true	"Manuscript file (.txt or .md)"
//	@Success		201			{object}	bookservice.ImportResult
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/import/upload [post]
func (h *Handler) UploadManuscript(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}
	file, header, err := r.FormFile("manuscript")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'manuscript' field in multipart form"))
		return
	}
	defer file.Close()

	if !inbox.IsManuscript(header.Filename) {
		writeJSON(w, http.StatusBadRequest, errorBody("only .txt and .md manuscripts are accepted"))
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read file"))
		return
	}

	title := r.FormValue("book_title")
	if title == "" {
		title = inbox.TitleFor(header.Filename)
	}
	version := r.FormValue("version")
	if version == "" {
		version = "1"
	}

	res, err := h.svc.ImportFullManuscript(r.Context(), title, r.FormValue("author"), version, string(data))
	if err != nil {
		writeErr(w, "import upload", err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// CreateComment handles POST /api/comments.
//
//	@Summary		Post a reader comment on a chapter
//	@Tags			comments
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateCommentRequest	true	"Comment"
//	@Success		201		{object}	models.Comment
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/comments [post]
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req CreateCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c := &models.Comment{
		BookID:     req.BookID,
		ChapterID:  req.ChapterID,
		AuthorName: req.Author,
		Content:    req.Content,
		Anchor:     req.Anchor,
	}
	if err := h.svc.AddComment(r.Context(), c); err != nil {
		writeErr(w, "create comment", err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}
