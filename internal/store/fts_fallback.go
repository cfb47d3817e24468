//go:build !sqlite_fts5

package store

import (
	"database/sql"
	"fmt"

	"github.com/marchant/folium/internal/models"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; search uses a LIKE fallback on the chapters table.
	return nil
}

func ftsUpsert(_ *sql.Tx, _ *models.Chapter) error {
	// Chapter text already lives in the chapters table; nothing extra to do.
	return nil
}

func ftsDeleteBook(_ *sql.Tx, _ string) {}

// Search performs a LIKE-based search (fallback when FTS5 is not
// compiled in).
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT id, book_id, slug, title, substr(content, 1, 200)
		FROM chapters
		WHERE title LIKE ? OR content LIKE ?
		ORDER BY order_index
		LIMIT ?
	`, like, like, limit)
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
