// Package bookservice coordinates the segmentation engine, the identity
// resolvers, and the record store behind the import and reader flows.
package bookservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/marchant/folium/internal/apperr"
	"github.com/marchant/folium/internal/manuscript"
	"github.com/marchant/folium/internal/models"
	"github.com/marchant/folium/internal/store"
)

// Event kinds published on import lifecycle changes.
const (
	EventBookCreated      = "book_created"
	EventVersionCreated   = "version_created"
	EventChaptersImported = "chapters_imported"
)

// EventFunc receives import lifecycle notifications (for the SSE broker).
type EventFunc func(kind, detail string)

// Service is the domain layer over the record store.
type Service struct {
	store  store.Store
	notify EventFunc
}

// NewService creates a book service. cb may be nil when no event
// consumer is wired.
func NewService(st store.Store, cb EventFunc) *Service {
	if cb == nil {
		cb = func(string, string) {}
	}
	return &Service{store: st, notify: cb}
}

// ParseManuscript segments raw text into chapters. Pure; no store access.
func (s *Service) ParseManuscript(text string) []manuscript.Chapter {
	return manuscript.Segment(text)
}

// VersionInfo is a reader-facing summary of one version of a book.
type VersionInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ChapterCount int    `json:"chapter_count"`
	FirstSlug    string `json:"first_slug,omitempty"`
	Summary      string `json:"summary,omitempty"`
}

// versionSummaryCap bounds the per-version card summary.
const versionSummaryCap = 200

// VersionByName returns a book's version by its user-facing name.
func (s *Service) VersionByName(_ context.Context, bookID, name string) (*models.Version, error) {
	return s.store.FindVersion(bookID, name)
}

// ListBooks returns all books.
func (s *Service) ListBooks(_ context.Context) ([]models.Book, error) {
	return s.store.ListBooks()
}

// GetBook returns one book by id.
func (s *Service) GetBook(_ context.Context, id string) (*models.Book, error) {
	return s.store.GetBook(id)
}

// BookVersions lists a book's versions with chapter count, the slug of
// the first chapter, and a summary stitched from chapter descriptions
// (falling back to each chapter's first paragraph).
func (s *Service) BookVersions(_ context.Context, bookID string) ([]VersionInfo, error) {
	if _, err := s.store.GetBook(bookID); err != nil {
		return nil, err
	}
	vers, err := s.store.ListVersions(bookID)
	if err != nil {
		return nil, err
	}
	out := make([]VersionInfo, 0, len(vers))
	for _, v := range vers {
		chs, err := s.store.ListChapters(bookID, v.ID)
		if err != nil {
			return nil, err
		}
		info := VersionInfo{ID: v.ID, Name: v.Name, ChapterCount: len(chs)}
		if len(chs) > 0 {
			info.FirstSlug = chs[0].Slug
			info.Summary = manuscript.Summarize(joinChapterLeads(chs), versionSummaryCap)
		}
		out = append(out, info)
	}
	return out, nil
}

// joinChapterLeads concatenates each chapter's description, or first
// paragraph when no description exists, into one summarizable string.
func joinChapterLeads(chs []models.Chapter) string {
	var joined string
	for _, c := range chs {
		lead := c.Description
		if lead == "" {
			lead = firstParagraph(c.Content)
		}
		if lead == "" {
			continue
		}
		if joined != "" {
			joined += " "
		}
		joined += lead
	}
	return joined
}

func firstParagraph(content string) string {
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\n' && content[i+1] == '\n' {
			return content[:i]
		}
	}
	return content
}

// TableOfContents returns a scope's chapters in reading order with
// content omitted.
func (s *Service) TableOfContents(_ context.Context, bookID, versionID string) ([]models.Chapter, error) {
	chs, err := s.store.ListChapters(bookID, versionID)
	if err != nil {
		return nil, err
	}
	for i := range chs {
		chs[i].Content = ""
	}
	return chs, nil
}

// ChapterWithSiblings returns one chapter plus the slugs of its
// neighbors in reading order, for prev/next navigation.
func (s *Service) ChapterWithSiblings(_ context.Context, bookID, versionID, slug string) (ch *models.Chapter, prev, next string, err error) {
	chs, err := s.store.ListChapters(bookID, versionID)
	if err != nil {
		return nil, "", "", err
	}
	for i := range chs {
		if chs[i].Slug != slug {
			continue
		}
		if i > 0 {
			prev = chs[i-1].Slug
		}
		if i+1 < len(chs) {
			next = chs[i+1].Slug
		}
		return &chs[i], prev, next, nil
	}
	return nil, "", "", apperr.ErrNotFound
}

// Search delegates full-text search to the store.
func (s *Service) Search(_ context.Context, query string, limit int) ([]store.SearchResult, error) {
	return s.store.Search(query, limit)
}

// AddComment validates and persists a reader comment. The anchor
// payload travels through untouched.
func (s *Service) AddComment(_ context.Context, c *models.Comment) error {
	if c.Content == "" {
		return apperr.Validation("content", "must not be blank")
	}
	if c.BookID == "" || c.ChapterID == "" {
		return apperr.Validation("chapter", "book_id and chapter_id are required")
	}
	if _, err := s.store.GetBook(c.BookID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return fmt.Errorf("bookservice: comment target: %w", err)
		}
		return err
	}
	return s.store.InsertComment(c)
}

// Comments returns a chapter's comments, oldest first.
func (s *Service) Comments(_ context.Context, bookID, chapterID string) ([]models.Comment, error) {
	return s.store.ListComments(bookID, chapterID)
}
