// Package repository contains data access logic separated from HTTP
// handlers.  This file covers tempat (fishing venues): public lookup and
// search plus the admin CRUD.  The booking core treats venues as read-only.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/ZharfanFw/kailku-mobile-sub000/internal/model"
)

// ErrTempatNotFound is returned when a venue cannot be found in the DB.
var ErrTempatNotFound = errors.New("tempat not found")

// TempatRepo encapsulates all database queries related to venues.
type TempatRepo struct {
	db *sql.DB
}

// NewTempatRepo constructs a TempatRepo with the provided DB handle.
func NewTempatRepo(db *sql.DB) *TempatRepo { return &TempatRepo{db: db} }

const tempatCols = "id, nama, lokasi, harga_per_jam, fasilitas, rating, created_at, updated_at"

func scanTempat(row interface{ Scan(...interface{}) error }, t *model.Tempat) error {
	return row.Scan(&t.ID, &t.Nama, &t.Lokasi, &t.HargaPerJam, &t.Fasilitas, &t.Rating, &t.CreatedAt, &t.UpdatedAt)
}

// Create inserts a new venue.  On success the ID field is populated and a
// follow-up SELECT fills the timestamp defaults.
func (r *TempatRepo) Create(ctx context.Context, t *model.Tempat) error {
	const q = "INSERT INTO tempat (nama, lokasi, harga_per_jam, fasilitas) VALUES (?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q, t.Nama, t.Lokasi, t.HargaPerJam, t.Fasilitas)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return scanTempat(r.db.QueryRowContext(ctx, "SELECT "+tempatCols+" FROM tempat WHERE id = ?", t.ID), t)
}

// GetByID fetches a venue by its ID.  ErrTempatNotFound is returned when no
// row matches.
func (r *TempatRepo) GetByID(ctx context.Context, id uint64) (*model.Tempat, error) {
	var t model.Tempat
	if err := scanTempat(r.db.QueryRowContext(ctx, "SELECT "+tempatCols+" FROM tempat WHERE id = ?", id), &t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTempatNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns all venues ordered by id.
func (r *TempatRepo) List(ctx context.Context) ([]model.Tempat, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+tempatCols+" FROM tempat ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Tempat, 0)
	for rows.Next() {
		var t model.Tempat
		if err := scanTempat(rows, &t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Search returns venues whose name or location matches the query,
// case-insensitively, best rated first.
func (r *TempatRepo) Search(ctx context.Context, query string, limit int) ([]model.Tempat, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	like := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	const q = `SELECT ` + tempatCols + ` FROM tempat
	           WHERE LOWER(nama) LIKE ? OR LOWER(lokasi) LIKE ?
	           ORDER BY rating DESC, id LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, like, like, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Tempat, 0)
	for rows.Next() {
		var t model.Tempat
		if err := scanTempat(rows, &t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update overwrites the mutable venue fields.  ErrTempatNotFound is
// returned when the venue does not exist.
func (r *TempatRepo) Update(ctx context.Context, t *model.Tempat) error {
	const q = "UPDATE tempat SET nama = ?, lokasi = ?, harga_per_jam = ?, fasilitas = ? WHERE id = ?"
	res, err := r.db.ExecContext(ctx, q, t.Nama, t.Lokasi, t.HargaPerJam, t.Fasilitas, t.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, "SELECT 1 FROM tempat WHERE id = ? LIMIT 1", t.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrTempatNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes a venue.  Venues with existing bookings cannot be removed;
// the FK restriction surfaces as ErrConflict.
func (r *TempatRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM tempat WHERE id = ?", id)
	if err != nil {
		// MySQL 1451: row is referenced by a foreign key
		if strings.Contains(err.Error(), "1451") {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTempatNotFound
	}
	return nil
}
