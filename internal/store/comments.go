package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/marchant/folium/internal/models"
)

// InsertComment persists a comment. The anchor payload is stored as
// opaque JSON text, never interpreted.
func (db *DB) InsertComment(c *models.Comment) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	_, err := db.conn.Exec(`
		INSERT INTO comments (id, book_id, chapter_id, version_id, content, author_name, anchor, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.BookID, c.ChapterID, c.VersionID, c.Content, c.AuthorName, string(c.Anchor), c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("store: insert comment: %w", err)
	}
	return nil
}

// ListComments returns a chapter's comments, oldest first.
func (db *DB) ListComments(bookID, chapterID string) ([]models.Comment, error) {
	rows, err := db.conn.Query(`
		SELECT id, book_id, chapter_id, version_id, content, author_name, anchor, created_at, updated_at
		FROM comments
		WHERE book_id = ? AND chapter_id = ?
		ORDER BY created_at
	`, bookID, chapterID)
	if err != nil {
		return nil, fmt.Errorf("store: list comments: %w", err)
	}
	defer rows.Close()

	var out []models.Comment
	for rows.Next() {
		var c models.Comment
		var anchor string
		if err := rows.Scan(&c.ID, &c.BookID, &c.ChapterID, &c.VersionID, &c.Content,
			&c.AuthorName, &anchor, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if anchor != "" {
			c.Anchor = json.RawMessage(anchor)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
