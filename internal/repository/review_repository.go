package repository

import (
	"context"
	"database/sql"
	"time"
)

// ReviewRepo persists venue reviews and keeps the venue's aggregate rating
// in sync.
type ReviewRepo struct {
	db *sql.DB
}

// NewReviewRepo returns a new ReviewRepo bound to the given database.
func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// DB exposes the underlying handle for handler-owned transactions.
func (r *ReviewRepo) DB() *sql.DB { return r.db }

// ReviewDetail is a review joined with the author's display name.
type ReviewDetail struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	UserNama  string    `json:"user_nama"`
	Rating    uint8     `json:"rating"`
	Komentar  string    `json:"komentar"`
	CreatedAt time.Time `json:"created_at"`
}

// ListByTempat returns a venue's reviews, newest first.
func (r *ReviewRepo) ListByTempat(ctx context.Context, tempatID uint64) ([]ReviewDetail, error) {
	const q = `SELECT rv.id, rv.user_id, u.nama, rv.rating, rv.komentar, rv.created_at
	           FROM reviews rv
	           JOIN users u ON u.id = rv.user_id
	           WHERE rv.tempat_id = ?
	           ORDER BY rv.created_at DESC, rv.id DESC`
	rows, err := r.db.QueryContext(ctx, q, tempatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ReviewDetail, 0)
	for rows.Next() {
		var d ReviewDetail
		if err := rows.Scan(&d.ID, &d.UserID, &d.UserNama, &d.Rating, &d.Komentar, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// CreateTx inserts a review and refreshes the venue's aggregate rating in
// the same transaction, so the tempat.rating column never drifts from the
// review rows.
func (r *ReviewRepo) CreateTx(ctx context.Context, tx *sql.Tx, userID, tempatID uint64, rating uint8, komentar string) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO reviews (user_id, tempat_id, rating, komentar) VALUES (?, ?, ?, ?)`,
		userID, tempatID, rating, komentar)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE tempat SET rating = (SELECT AVG(rating) FROM reviews WHERE tempat_id = ?) WHERE id = ?`,
		tempatID, tempatID); err != nil {
		return 0, err
	}
	return uint64(id), nil
}
