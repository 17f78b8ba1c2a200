package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/ZharfanFw/kailku-mobile-sub000/internal/model"
)

// ErrAlatNotFound is returned when a tool cannot be found in the DB.
var ErrAlatNotFound = errors.New("alat not found")

// AlatRepo encapsulates database queries for the tool catalog.  Prices in
// this table are the current catalog prices; order lines snapshot them at
// transaction time and are never updated from here.
type AlatRepo struct {
	db *sql.DB
}

// NewAlatRepo constructs an AlatRepo with the provided DB handle.
func NewAlatRepo(db *sql.DB) *AlatRepo { return &AlatRepo{db: db} }

const alatCols = "id, nama, harga_sewa, harga_beli, stok, created_at, updated_at"

func scanAlat(row interface{ Scan(...interface{}) error }, a *model.Alat) error {
	return row.Scan(&a.ID, &a.Nama, &a.HargaSewa, &a.HargaBeli, &a.Stok, &a.CreatedAt, &a.UpdatedAt)
}

// Create inserts a new tool and populates its generated ID.
func (r *AlatRepo) Create(ctx context.Context, a *model.Alat) error {
	const q = "INSERT INTO alat (nama, harga_sewa, harga_beli, stok) VALUES (?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q, a.Nama, a.HargaSewa, a.HargaBeli, a.Stok)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return scanAlat(r.db.QueryRowContext(ctx, "SELECT "+alatCols+" FROM alat WHERE id = ?", a.ID), a)
}

// GetByID fetches a tool by id.
func (r *AlatRepo) GetByID(ctx context.Context, id uint64) (*model.Alat, error) {
	var a model.Alat
	if err := scanAlat(r.db.QueryRowContext(ctx, "SELECT "+alatCols+" FROM alat WHERE id = ?", id), &a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAlatNotFound
		}
		return nil, err
	}
	return &a, nil
}

// List returns the whole catalog ordered by id.
func (r *AlatRepo) List(ctx context.Context) ([]model.Alat, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+alatCols+" FROM alat ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Alat, 0)
	for rows.Next() {
		var a model.Alat
		if err := scanAlat(rows, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Update overwrites the mutable tool fields.
func (r *AlatRepo) Update(ctx context.Context, a *model.Alat) error {
	const q = "UPDATE alat SET nama = ?, harga_sewa = ?, harga_beli = ?, stok = ? WHERE id = ?"
	res, err := r.db.ExecContext(ctx, q, a.Nama, a.HargaSewa, a.HargaBeli, a.Stok, a.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, "SELECT 1 FROM alat WHERE id = ? LIMIT 1", a.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrAlatNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes a tool from the catalog.  Historical order lines keep
// their snapshotted prices; only new orders are affected.
func (r *AlatRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM alat WHERE id = ?", id)
	if err != nil {
		if strings.Contains(err.Error(), "1451") {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAlatNotFound
	}
	return nil
}
