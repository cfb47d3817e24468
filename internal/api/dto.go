package api

import (
	"encoding/json"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/marchant/folium/internal/bookservice"
	"github.com/marchant/folium/internal/manuscript"
	"github.com/marchant/folium/internal/models"
	"github.com/marchant/folium/internal/store"
)

// ParseRequest is the request body for segmenting a manuscript without
// importing it.
type ParseRequest struct {
	Text string `json:"text" validate:"required"`
}

// Validate validates the parse request.
func (r ParseRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Required),
	)
}

// ImportFullRequest is the request body for a full-manuscript import.
type ImportFullRequest struct {
	BookTitle  string `json:"book_title" validate:"required"`
	Author     string `json:"author"`
	Version    string `json:"version" example:"1"`
	Manuscript string `json:"manuscript" validate:"required"`
}

// Validate validates the full-import request.
func (r ImportFullRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookTitle, validation.Required),
		validation.Field(&r.Manuscript, validation.Required),
	)
}

// ImportChapterRequest is the request body for a single-chapter import.
type ImportChapterRequest struct {
	BookTitle string `json:"book_title" validate:"required"`
	Author    string `json:"author"`
	Title     string `json:"title" validate:"required"`
	Content   string `json:"content" validate:"required"`
}

// Validate validates the chapter-import request.
func (r ImportChapterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookTitle, validation.Required),
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Content, validation.Required),
	)
}

// ImportBookRequest is the request body for a replace-import: book
// metadata plus the manuscript that becomes its full chapter set.
type ImportBookRequest struct {
	Title       string `json:"title" validate:"required"`
	Author      string `json:"author" validate:"required"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	CoverAlt    string `json:"cover_alt"`
	Manuscript  string `json:"manuscript" validate:"required"`
}

// Validate validates the replace-import request.
func (r ImportBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Author, validation.Required),
		validation.Field(&r.Manuscript, validation.Required),
	)
}

// CreateCommentRequest is the request body for posting a reader comment.
type CreateCommentRequest struct {
	BookID    string          `json:"book_id" validate:"required"`
	ChapterID string          `json:"chapter_id" validate:"required"`
	Author    string          `json:"author"`
	Content   string          `json:"content" validate:"required"`
	Anchor    json.RawMessage `json:"anchor,omitempty"`
}

// Validate validates the comment request.
func (r CreateCommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.Required),
		validation.Field(&r.ChapterID, validation.Required),
		validation.Field(&r.Content, validation.Required),
	)
}

// ParseResponse wraps the chapters produced by a dry-run parse.
type ParseResponse struct {
	Chapters []manuscript.Chapter `json:"chapters" validate:"required"`
}

// BookListResponse wraps the book catalog.
type BookListResponse struct {
	Books []models.Book `json:"books" validate:"required"`
	Total int           `json:"total" example:"3" validate:"required"`
}

// VersionListResponse wraps a book's versions.
type VersionListResponse struct {
	Versions []bookservice.VersionInfo `json:"versions" validate:"required"`
}

// ChapterListResponse wraps a table of contents (content omitted).
type ChapterListResponse struct {
	Chapters []models.Chapter `json:"chapters" validate:"required"`
}

// ChapterResponse is a single chapter with rendered HTML and the slugs
// of its neighbors in reading order.
type ChapterResponse struct {
	models.Chapter
	HTML string `json:"html"`
	Prev string `json:"prev,omitempty"`
	Next string `json:"next,omitempty"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []store.SearchResult `json:"results" validate:"required"`
}

// CommentListResponse wraps a chapter's comments.
type CommentListResponse struct {
	Comments []models.Comment `json:"comments" validate:"required"`
}
