// Package store provides the SQLite-backed record store for books,
// versions, chapters, and comments, with optional FTS5 full-text search.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/marchant/folium/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS books (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL UNIQUE,
	author      TEXT NOT NULL DEFAULT '',
	subtitle    TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	cover_alt   TEXT NOT NULL DEFAULT '',
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS versions (
	id          TEXT PRIMARY KEY,
	book_id     TEXT NOT NULL REFERENCES books(id),
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL,
	UNIQUE(book_id, name)
);

CREATE TABLE IF NOT EXISTS chapters (
	id          TEXT PRIMARY KEY,
	book_id     TEXT NOT NULL REFERENCES books(id),
	version_id  TEXT NOT NULL DEFAULT '',
	slug        TEXT NOT NULL,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	content     TEXT NOT NULL DEFAULT '',
	order_index INTEGER NOT NULL,
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL,
	UNIQUE(book_id, version_id, slug)
);

CREATE INDEX IF NOT EXISTS idx_chapters_scope ON chapters(book_id, version_id, order_index);

CREATE TABLE IF NOT EXISTS comments (
	id          TEXT PRIMARY KEY,
	book_id     TEXT NOT NULL,
	chapter_id  TEXT NOT NULL,
	version_id  TEXT NOT NULL DEFAULT '',
	content     TEXT NOT NULL,
	author_name TEXT NOT NULL DEFAULT '',
	anchor      TEXT NOT NULL DEFAULT '',
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_comments_chapter ON comments(book_id, chapter_id);

CREATE TABLE IF NOT EXISTS imports (
	id         TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	checksum   TEXT NOT NULL,
	version_id TEXT NOT NULL DEFAULT '',
	chapters   INTEGER NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_imports_checksum ON imports(checksum);
`

// Store defines the record-store operations the importer and API layers
// depend on. Consumers should use this interface rather than *DB so
// tests can substitute scoped fakes where needed.
type Store interface {
	FindBookByTitle(title string) (*models.Book, error)
	GetBook(id string) (*models.Book, error)
	ListBooks() ([]models.Book, error)
	InsertBook(b *models.Book) error
	UpdateBook(id string, fields BookFields) error

	FindVersion(bookID, name string) (*models.Version, error)
	VersionNames(bookID string) (map[string]struct{}, error)
	InsertVersion(v *models.Version) error
	ListVersions(bookID string) ([]models.Version, error)

	ChapterSlugs(bookID, versionID string) (map[string]struct{}, error)
	MaxOrderIndex(bookID, versionID string) (int, error)
	InsertChapters(chs []models.Chapter) error
	ListChapters(bookID, versionID string) ([]models.Chapter, error)
	GetChapterBySlug(bookID, versionID, slug string) (*models.Chapter, error)
	DeleteBookChapters(bookID string) error

	InsertComment(c *models.Comment) error
	ListComments(bookID, chapterID string) ([]models.Comment, error)

	RecordImport(rec *models.ImportRecord) error
	FindImportByChecksum(cs string) (*models.ImportRecord, error)

	Search(query string, limit int) ([]SearchResult, error)
	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)

// DB wraps a sql.DB with record-store operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// IsConstraint reports whether err is a SQLite uniqueness/constraint
// violation. The importer treats these as "retry the lookup" rather
// than fatal failures.
func IsConstraint(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.Code == sqlite3.ErrConstraint
	}
	return false
}
