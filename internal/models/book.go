// Package models defines the domain types for Folium.
package models

import (
	"encoding/json"
	"time"
)

// Book is the root record for an imported work, identified by its exact
// title (case- and whitespace-sensitive).
type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author,omitempty"`
	Subtitle    string    `json:"subtitle,omitempty"`
	Description string    `json:"description,omitempty"`
	CoverAlt    string    `json:"cover_alt,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Version is a named, independent ordered set of chapters under one book.
// Names are free-form labels ("1", "Original", "Extended") unique per book.
type Version struct {
	ID          string    `json:"id"`
	BookID      string    `json:"book_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Chapter is one titled unit of body text within a (book, version) scope.
// VersionID is empty for chapters imported into the unversioned scope.
// OrderIndex establishes reading order, starting at 1.
type Chapter struct {
	ID          string    `json:"id"`
	BookID      string    `json:"book_id"`
	VersionID   string    `json:"version_id,omitempty"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Content     string    `json:"content"`
	OrderIndex  int       `json:"order_index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Comment is reader feedback anchored to a chapter, optionally carrying
// an opaque text-selection anchor supplied by the client. The anchor is
// stored and returned verbatim, never interpreted.
type Comment struct {
	ID         string          `json:"id"`
	BookID     string          `json:"book_id"`
	ChapterID  string          `json:"chapter_id"`
	VersionID  string          `json:"version_id,omitempty"`
	Content    string          `json:"content"`
	AuthorName string          `json:"author_name,omitempty"`
	Anchor     json.RawMessage `json:"anchor,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ImportRecord is an audit row for a completed manuscript import,
// keyed by the SHA-256 checksum of the source text so identical
// re-imports can be detected.
type ImportRecord struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Checksum  string    `json:"checksum"`
	VersionID string    `json:"version_id,omitempty"`
	Chapters  int       `json:"chapters"`
	CreatedAt time.Time `json:"created_at"`
}
