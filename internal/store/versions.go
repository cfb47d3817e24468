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

const versionColumns = `id, book_id, name, description, created_at, updated_at`

func scanVersion(row interface{ Scan(...any) error }) (*models.Version, error) {
	var v models.Version
	err := row.Scan(&v.ID, &v.BookID, &v.Name, &v.Description, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// FindVersion looks up a version by (book, name). Absence is
// apperr.ErrNotFound.
func (db *DB) FindVersion(bookID, name string) (*models.Version, error) {
	row := db.conn.QueryRow(`SELECT `+versionColumns+` FROM versions WHERE book_id = ? AND name = ?`, bookID, name)
	v, err := scanVersion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: find version: %w", err)
	}
	return v, nil
}

// VersionNames returns the set of version names already used by a book.
func (db *DB) VersionNames(bookID string) (map[string]struct{}, error) {
	rows, err := db.conn.Query(`SELECT name FROM versions WHERE book_id = ?`, bookID)
	if err != nil {
		return nil, fmt.Errorf("store: version names: %w", err)
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out[n] = struct{}{}
	}
	return out, rows.Err()
}

// InsertVersion creates a new version record, assigning id and
// timestamps. A duplicate (book, name) surfaces as a constraint error.
func (db *DB) InsertVersion(v *models.Version) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now
	_, err := db.conn.Exec(`
		INSERT INTO versions (id, book_id, name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, v.ID, v.BookID, v.Name, v.Description, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("store: insert version: %w", err)
	}
	return nil
}

// ListVersions returns a book's versions in creation order.
func (db *DB) ListVersions(bookID string) ([]models.Version, error) {
	rows, err := db.conn.Query(`SELECT `+versionColumns+` FROM versions WHERE book_id = ? ORDER BY created_at`, bookID)
	if err != nil {
		return nil, fmt.Errorf("store: list versions: %w", err)
	}
	defer rows.Close()

	var out []models.Version
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}
