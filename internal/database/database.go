// Casavia - Interior Design Studio Media & Inquiry API
// Copyright 2026 Casavia Studio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/casavia/casavia

// Package database is the SQLite persistence layer for portfolio media and
// customer inquiries. The driver is pure Go (modernc.org/sqlite), which
// keeps the edge deployment CGO-free.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/casavia/casavia/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// DB wraps the SQLite handle with typed CRUD helpers.
type DB struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at path and prepares the
// schema. Use ":memory:" for tests.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL; PRAGMA foreign_keys=ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set pragmas: %w", err)
	}

	d := &DB{db: db}
	if err := d.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return d, nil
}

func (d *DB) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS media_items (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			category TEXT NOT NULL,
			media_type TEXT NOT NULL,
			cdn_public_id TEXT NOT NULL,
			cdn_url TEXT NOT NULL,
			display_order INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS inquiries (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT,
			message TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'new',
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_media_items_category ON media_items(category)`,
		`CREATE INDEX IF NOT EXISTS idx_media_items_order ON media_items(display_order)`,
		`CREATE INDEX IF NOT EXISTS idx_inquiries_status ON inquiries(status)`,
	}

	for _, stmt := range statements {
		if _, err := d.db.Exec(stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}

// Close closes the underlying handle.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping verifies connectivity for health checks.
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// CreateMediaItem inserts a portfolio asset.
func (d *DB) CreateMediaItem(ctx context.Context, item *models.MediaItem) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO media_items (id, title, description, category, media_type, cdn_public_id, cdn_url, display_order, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Title, item.Description, item.Category, item.MediaType,
		item.CDNPublicID, item.CDNURL, item.DisplayOrder, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert media item: %w", err)
	}
	return nil
}

// GetMediaItem fetches one asset by id.
func (d *DB) GetMediaItem(ctx context.Context, id string) (*models.MediaItem, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT id, title, description, category, media_type, cdn_public_id, cdn_url, display_order, created_at, updated_at
		 FROM media_items WHERE id = ?`, id)

	item, err := scanMediaItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read media item: %w", err)
	}
	return item, nil
}

// ListMediaItems returns assets ordered for display. category filters when
// non-empty.
func (d *DB) ListMediaItems(ctx context.Context, category string) ([]models.MediaItem, error) {
	query := `SELECT id, title, description, category, media_type, cdn_public_id, cdn_url, display_order, created_at, updated_at
		 FROM media_items`
	args := []interface{}{}
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY display_order ASC, created_at DESC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list media items: %w", err)
	}
	defer rows.Close()

	items := []models.MediaItem{}
	for rows.Next() {
		item, err := scanMediaItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan media item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// UpdateMediaItem updates mutable fields of an asset.
func (d *DB) UpdateMediaItem(ctx context.Context, item *models.MediaItem) error {
	res, err := d.db.ExecContext(ctx,
		`UPDATE media_items SET title = ?, description = ?, category = ?, display_order = ?, updated_at = ?
		 WHERE id = ?`,
		item.Title, item.Description, item.Category, item.DisplayOrder, item.UpdatedAt, item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update media item: %w", err)
	}
	return requireRow(res)
}

// DeleteMediaItem removes an asset row.
func (d *DB) DeleteMediaItem(ctx context.Context, id string) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM media_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete media item: %w", err)
	}
	return requireRow(res)
}

// CreateInquiry stores a customer inquiry.
func (d *DB) CreateInquiry(ctx context.Context, inq *models.Inquiry) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO inquiries (id, name, email, phone, message, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		inq.ID, inq.Name, inq.Email, inq.Phone, inq.Message, inq.Status, inq.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert inquiry: %w", err)
	}
	return nil
}

// GetInquiry fetches one inquiry by id.
func (d *DB) GetInquiry(ctx context.Context, id string) (*models.Inquiry, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT id, name, email, phone, message, status, created_at FROM inquiries WHERE id = ?`, id)

	inq, err := scanInquiry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read inquiry: %w", err)
	}
	return inq, nil
}

// ListInquiries returns inquiries newest first. status filters when
// non-empty.
func (d *DB) ListInquiries(ctx context.Context, status string) ([]models.Inquiry, error) {
	query := `SELECT id, name, email, phone, message, status, created_at FROM inquiries`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list inquiries: %w", err)
	}
	defer rows.Close()

	inquiries := []models.Inquiry{}
	for rows.Next() {
		inq, err := scanInquiry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inquiry: %w", err)
		}
		inquiries = append(inquiries, *inq)
	}
	return inquiries, rows.Err()
}

// UpdateInquiryStatus moves an inquiry through its workflow.
func (d *DB) UpdateInquiryStatus(ctx context.Context, id, status string) error {
	res, err := d.db.ExecContext(ctx, `UPDATE inquiries SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update inquiry status: %w", err)
	}
	return requireRow(res)
}

// DeleteInquiry removes an inquiry.
func (d *DB) DeleteInquiry(ctx context.Context, id string) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM inquiries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete inquiry: %w", err)
	}
	return requireRow(res)
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanMediaItem(s scanner) (*models.MediaItem, error) {
	item := &models.MediaItem{}
	var description sql.NullString
	var createdAt, updatedAt time.Time
	err := s.Scan(&item.ID, &item.Title, &description, &item.Category, &item.MediaType,
		&item.CDNPublicID, &item.CDNURL, &item.DisplayOrder, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	item.Description = description.String
	item.CreatedAt = createdAt
	item.UpdatedAt = updatedAt
	return item, nil
}

func scanInquiry(s scanner) (*models.Inquiry, error) {
	inq := &models.Inquiry{}
	var phone sql.NullString
	var createdAt time.Time
	err := s.Scan(&inq.ID, &inq.Name, &inq.Email, &phone, &inq.Message, &inq.Status, &createdAt)
	if err != nil {
		return nil, err
	}
	inq.Phone = phone.String
	inq.CreatedAt = createdAt
	return inq, nil
}

// requireRow converts a zero-row update/delete into ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
