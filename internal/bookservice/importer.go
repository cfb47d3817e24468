package bookservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/marchant/folium/internal/apperr"
	"github.com/marchant/folium/internal/checksum"
	"github.com/marchant/folium/internal/manuscript"
	"github.com/marchant/folium/internal/models"
	"github.com/marchant/folium/internal/store"
)

// ChapterResult reports where a single imported chapter landed.
type ChapterResult struct {
	Slug       string `json:"slug"`
	OrderIndex int    `json:"order_index"`
}

// ImportResult reports the outcome of a full-manuscript import.
type ImportResult struct {
	VersionName      string `json:"version_name"`
	ChaptersImported int    `json:"chapters_imported"`
}

// BookMeta carries the book-level fields of a replace import.
type BookMeta struct {
	Title       string
	Author      string
	Subtitle    string
	Description string
	CoverAlt    string
}

// ImportChapter appends one chapter to a book's unversioned scope,
// creating the book when needed. The slug is derived from the chapter
// title and resolved against slugs already persisted in the scope.
func (s *Service) ImportChapter(_ context.Context, bookTitle, author, title, content string) (*ChapterResult, error) {
	bookTitle = strings.TrimSpace(bookTitle)
	title = strings.TrimSpace(title)
	if bookTitle == "" {
		return nil, apperr.Validation("book_title", "must not be blank")
	}
	if title == "" {
		return nil, apperr.Validation("title", "must not be blank")
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperr.Validation("content", "must not be blank")
	}

	bookID, err := s.resolveBook(bookTitle, store.BookFields{Author: strings.TrimSpace(author)})
	if err != nil {
		return nil, err
	}

	used, err := s.store.ChapterSlugs(bookID, "")
	if err != nil {
		return nil, err
	}
	base := manuscript.Slugify(title)
	if base == "" {
		base = "chapter"
	}
	slug, err := resolveChapterSlug(base, used)
	if err != nil {
		return nil, err
	}

	max, err := s.store.MaxOrderIndex(bookID, "")
	if err != nil {
		return nil, err
	}
	order := max + 1

	ch := models.Chapter{
		BookID:      bookID,
		Slug:        slug,
		Title:       title,
		Description: manuscript.Summarize(content, manuscript.SummarizeDefault),
		Content:     content,
		OrderIndex:  order,
	}
	if err := s.store.InsertChapters([]models.Chapter{ch}); err != nil {
		return nil, err
	}
	s.notify(EventChaptersImported, fmt.Sprintf("%s/%s", bookTitle, slug))
	return &ChapterResult{Slug: slug, OrderIndex: order}, nil
}

// ImportFullManuscript segments a manuscript into chapters and imports
// them as a new (or newly named) version of the book. Failures after
// the book or version rows are created do not roll them back; the
// caller sees the error and may retry into a fresh version.
func (s *Service) ImportFullManuscript(ctx context.Context, bookTitle, author, versionLabel, text string) (*ImportResult, error) {
	bookTitle = strings.TrimSpace(bookTitle)
	if bookTitle == "" {
		return nil, apperr.Validation("book_title", "must not be blank")
	}
	chapters := manuscript.Segment(text)
	if len(chapters) == 0 {
		return nil, apperr.Validation("manuscript", "no chapters detected")
	}

	bookID, err := s.resolveBook(bookTitle, store.BookFields{Author: strings.TrimSpace(author)})
	if err != nil {
		return nil, err
	}

	version, err := s.resolveVersion(bookID, strings.TrimSpace(versionLabel))
	if err != nil {
		return nil, err
	}
	s.notify(EventVersionCreated, fmt.Sprintf("%s/%s", bookTitle, version.Name))

	rows, err := s.buildRows(bookID, version.ID, chapters)
	if err != nil {
		return nil, err
	}
	if err := s.store.InsertChapters(rows); err != nil {
		return nil, err
	}

	rec := &models.ImportRecord{
		Source:    "manuscript:" + bookTitle,
		Checksum:  checksum.SumString(text),
		VersionID: version.ID,
		Chapters:  len(rows),
	}
	if err := s.store.RecordImport(rec); err != nil {
		return nil, err
	}

	s.notify(EventChaptersImported, fmt.Sprintf("%s/%s (%d chapters)", bookTitle, version.Name, len(rows)))
	return &ImportResult{VersionName: version.Name, ChaptersImported: len(rows)}, nil
}

// ReplaceBook updates a book's metadata and replaces its entire chapter
// set (all scopes) with the parsed manuscript, in the manner of a
// wipe-and-reinsert. Returns the number of chapters imported.
func (s *Service) ReplaceBook(_ context.Context, meta BookMeta, text string) (int, error) {
	meta.Title = strings.TrimSpace(meta.Title)
	meta.Author = strings.TrimSpace(meta.Author)
	if meta.Title == "" {
		return 0, apperr.Validation("title", "must not be blank")
	}
	if meta.Author == "" {
		return 0, apperr.Validation("author", "must not be blank")
	}
	chapters := manuscript.Segment(text)
	if len(chapters) == 0 {
		return 0, apperr.Validation("manuscript", "no chapters detected")
	}

	fields := store.BookFields{
		Author:      meta.Author,
		Subtitle:    meta.Subtitle,
		Description: meta.Description,
		CoverAlt:    meta.CoverAlt,
	}
	bookID, err := s.resolveBook(meta.Title, fields)
	if err != nil {
		return 0, err
	}
	if err := s.store.DeleteBookChapters(bookID); err != nil {
		return 0, err
	}

	rows := make([]models.Chapter, 0, len(chapters))
	for i, c := range chapters {
		rows = append(rows, models.Chapter{
			BookID:      bookID,
			Slug:        c.Slug,
			Title:       c.Title,
			Description: c.Description,
			Content:     c.Content,
			OrderIndex:  i + 1,
		})
	}
	if err := s.store.InsertChapters(rows); err != nil {
		return 0, err
	}

	rec := &models.ImportRecord{
		Source:   "replace:" + meta.Title,
		Checksum: checksum.SumString(text),
		Chapters: len(rows),
	}
	if err := s.store.RecordImport(rec); err != nil {
		return 0, err
	}

	s.notify(EventChaptersImported, fmt.Sprintf("%s (%d chapters, replaced)", meta.Title, len(rows)))
	return len(rows), nil
}

// AlreadyImported reports whether a manuscript with this exact content
// has been imported before (used by the inbox to skip re-drops).
func (s *Service) AlreadyImported(text string) (bool, error) {
	_, err := s.store.FindImportByChecksum(checksum.SumString(text))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, apperr.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// buildRows resolves each draft chapter's slug against the target scope
// and assigns consecutive order indices starting after the scope's
// current maximum. The starting index is read once for the whole batch.
func (s *Service) buildRows(bookID, versionID string, chapters []manuscript.Chapter) ([]models.Chapter, error) {
	used, err := s.store.ChapterSlugs(bookID, versionID)
	if err != nil {
		return nil, err
	}
	max, err := s.store.MaxOrderIndex(bookID, versionID)
	if err != nil {
		return nil, err
	}
	start := max + 1

	rows := make([]models.Chapter, 0, len(chapters))
	for i, c := range chapters {
		slug, err := resolveChapterSlug(c.Slug, used)
		if err != nil {
			return nil, err
		}
		used[slug] = struct{}{}
		rows = append(rows, models.Chapter{
			BookID:      bookID,
			VersionID:   versionID,
			Slug:        slug,
			Title:       c.Title,
			Description: c.Description,
			Content:     c.Content,
			OrderIndex:  start + i,
		})
	}
	return rows, nil
}
