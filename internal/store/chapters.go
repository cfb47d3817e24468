package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/marchant/folium/internal/apperr"
	"github.com/marchant/folium/internal/models"
)

const chapterColumns = `id, book_id, version_id, slug, title, description, content, order_index, created_at, updated_at`

func scanChapter(row interface{ Scan(...any) error }) (*models.Chapter, error) {
	var c models.Chapter
	err := row.Scan(&c.ID, &c.BookID, &c.VersionID, &c.Slug, &c.Title, &c.Description,
		&c.Content, &c.OrderIndex, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ChapterSlugs returns the slugs already persisted in a (book, version)
// scope. versionID "" addresses the unversioned scope.
func (db *DB) ChapterSlugs(bookID, versionID string) (map[string]struct{}, error) {
	rows, err := db.conn.Query(`SELECT slug FROM chapters WHERE book_id = ? AND version_id = ?`, bookID, versionID)
	if err != nil {
		return nil, fmt.Errorf("store: chapter slugs: %w", err)
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out[s] = struct{}{}
	}
	return out, rows.Err()
}

// MaxOrderIndex returns the highest order_index in a (book, version)
// scope, or 0 when the scope holds no chapters.
func (db *DB) MaxOrderIndex(bookID, versionID string) (int, error) {
	var max sql.NullInt64
	err := db.conn.QueryRow(`
		SELECT MAX(order_index) FROM chapters WHERE book_id = ? AND version_id = ?
	`, bookID, versionID).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("store: max order index: %w", err)
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64), nil
}

// InsertChapters persists a batch of chapters and their FTS entries in
// one transaction. Ids and timestamps are assigned here.
func (db *DB) InsertChapters(chs []models.Chapter) error {
	if len(chs) == 0 {
		return nil
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	stmt, err := tx.Prepare(`
		INSERT INTO chapters (` + chapterColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("store: prepare chapter insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i := range chs {
		c := &chs[i]
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		c.CreatedAt = now
		c.UpdatedAt = now
		if _, err := stmt.Exec(c.ID, c.BookID, c.VersionID, c.Slug, c.Title,
			c.Description, c.Content, c.OrderIndex, c.CreatedAt, c.UpdatedAt); err != nil {
			return fmt.Errorf("store: insert chapter %q: %w", c.Slug, err)
		}
		if err := ftsUpsert(tx, c); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListChapters returns a scope's chapters in reading order.
func (db *DB) ListChapters(bookID, versionID string) ([]models.Chapter, error) {
	rows, err := db.conn.Query(`
		SELECT `+chapterColumns+` FROM chapters
		WHERE book_id = ? AND version_id = ?
		ORDER BY order_index
	`, bookID, versionID)
	if err != nil {
		return nil, fmt.Errorf("store: list chapters: %w", err)
	}
	defer rows.Close()

	var out []models.Chapter
	for rows.Next() {
		c, err := scanChapter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// GetChapterBySlug returns one chapter addressed by scope and slug.
func (db *DB) GetChapterBySlug(bookID, versionID, slug string) (*models.Chapter, error) {
	row := db.conn.QueryRow(`
		SELECT `+chapterColumns+` FROM chapters
		WHERE book_id = ? AND version_id = ? AND slug = ?
	`, bookID, versionID, slug)
	c, err := scanChapter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get chapter: %w", err)
	}
	return c, nil
}

// DeleteBookChapters wipes every chapter of a book across all scopes,
// used by the replace-import flow before re-inserting.
func (db *DB) DeleteBookChapters(bookID string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDeleteBook(tx, bookID)
	if _, err := tx.Exec(`DELETE FROM chapters WHERE book_id = ?`, bookID); err != nil {
		return fmt.Errorf("store: delete chapters: %w", err)
	}
	return tx.Commit()
}
