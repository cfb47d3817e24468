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

const bookColumns = `id, title, author, subtitle, description, cover_alt, created_at, updated_at`

// BookFields carries the mutable book columns for an update. Empty
// strings leave the stored value untouched.
type BookFields struct {
	Author      string
	Subtitle    string
	Description string
	CoverAlt    string
}

func scanBook(row interface{ Scan(...any) error }) (*models.Book, error) {
	var b models.Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Subtitle, &b.Description, &b.CoverAlt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// FindBookByTitle looks a book up by its exact title. Absence is
// reported as apperr.ErrNotFound, a normal (non-fatal) outcome.
func (db *DB) FindBookByTitle(title string) (*models.Book, error) {
	row := db.conn.QueryRow(`SELECT `+bookColumns+` FROM books WHERE title = ?`, title)
	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: find book by title: %w", err)
	}
	return b, nil
}

// GetBook returns the book with the given id.
func (db *DB) GetBook(id string) (*models.Book, error) {
	row := db.conn.QueryRow(`SELECT `+bookColumns+` FROM books WHERE id = ?`, id)
	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get book: %w", err)
	}
	return b, nil
}

// ListBooks returns all books ordered by creation time.
func (db *DB) ListBooks() ([]models.Book, error) {
	rows, err := db.conn.Query(`SELECT ` + bookColumns + ` FROM books ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("store: list books: %w", err)
	}
	defer rows.Close()

	var out []models.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// InsertBook creates a new book record, assigning id and timestamps.
// A duplicate title surfaces as a constraint error (see IsConstraint).
func (db *DB) InsertBook(b *models.Book) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	_, err := db.conn.Exec(`
		INSERT INTO books (id, title, author, subtitle, description, cover_alt, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.Title, b.Author, b.Subtitle, b.Description, b.CoverAlt, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("store: insert book: %w", err)
	}
	return nil
}

// UpdateBook applies the non-empty fields to an existing book.
func (db *DB) UpdateBook(id string, fields BookFields) error {
	_, err := db.conn.Exec(`
		UPDATE books SET
			author      = CASE WHEN ? <> '' THEN ? ELSE author END,
			subtitle    = CASE WHEN ? <> '' THEN ? ELSE subtitle END,
			description = CASE WHEN ? <> '' THEN ? ELSE description END,
			cover_alt   = CASE WHEN ? <> '' THEN ? ELSE cover_alt END,
			updated_at  = ?
		WHERE id = ?
	`, fields.Author, fields.Author,
		fields.Subtitle, fields.Subtitle,
		fields.Description, fields.Description,
		fields.CoverAlt, fields.CoverAlt,
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("store: update book: %w", err)
	}
	return nil
}
