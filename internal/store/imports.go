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

// RecordImport writes an audit row for a completed manuscript import.
func (db *DB) RecordImport(rec *models.ImportRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.CreatedAt = time.Now().UTC()
	_, err := db.conn.Exec(`
		INSERT INTO imports (id, source, checksum, version_id, chapters, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Source, rec.Checksum, rec.VersionID, rec.Chapters, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("store: record import: %w", err)
	}
	return nil
}

// FindImportByChecksum returns the most recent import of a manuscript
// with the given checksum. Absence is apperr.ErrNotFound.
func (db *DB) FindImportByChecksum(cs string) (*models.ImportRecord, error) {
	var rec models.ImportRecord
	err := db.conn.QueryRow(`
		SELECT id, source, checksum, version_id, chapters, created_at
		FROM imports
		WHERE checksum = ?
		ORDER BY created_at DESC
		LIMIT 1
	`, cs).Scan(&rec.ID, &rec.Source, &rec.Checksum, &rec.VersionID, &rec.Chapters, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: find import: %w", err)
	}
	return &rec, nil
}
