//go:build sqlite_fts5

package store

import (
	"database/sql"
	"fmt"

	"github.com/marchant/folium/internal/models"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS chapters_fts USING fts5(
			chapter_id UNINDEXED,
			book_id UNINDEXED,
			slug UNINDEXED,
			title,
			content,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, c *models.Chapter) error {
	_, _ = tx.Exec(`DELETE FROM chapters_fts WHERE chapter_id = ?`, c.ID)
	_, err := tx.Exec(`INSERT INTO chapters_fts (chapter_id, book_id, slug, title, content) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.BookID, c.Slug, c.Title, c.Content)
	if err != nil {
		return fmt.Errorf("store: upsert fts: %w", err)
	}
	return nil
}

func ftsDeleteBook(tx *sql.Tx, bookID string) {
	_, _ = tx.Exec(`DELETE FROM chapters_fts WHERE book_id = ?`, bookID)
}

// Search performs an FTS5 full-text search over chapters and returns
// matches with highlighted snippets.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT chapter_id,
		       book_id,
		       slug,
		       title,
		       snippet(chapters_fts, 4, '<b>', '</b>', '...', 64)
		FROM chapters_fts
		WHERE chapters_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("store: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.ChapterID, &r.BookID, &r.Slug, &r.Title, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
