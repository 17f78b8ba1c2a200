package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ZharfanFw/kailku-mobile-sub000/internal/model"
)

// PaymentRepo persists tagihan (invoice) rows.  A payment aggregates one or
// more bookings and/or orders which reference it by payment_id.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// DB exposes the underlying handle for handler-owned transactions.
func (r *PaymentRepo) DB() *sql.DB { return r.db }

// NormalizeMethod maps a client-supplied payment method onto its canonical
// form: "qris" and "cod" pass through, anything else is treated as a bank
// code and becomes "transfer_<code>".  Input is trimmed and lower-cased
// first so the transfer branch cannot collide with the fixed tags; empty
// input is the caller's responsibility to reject.
func NormalizeMethod(method string) string {
	m := strings.ToLower(strings.TrimSpace(method))
	switch m {
	case "qris", "cod":
		return m
	default:
		return "transfer_" + m
	}
}

// CreateTx inserts a payment with status menunggu_verifikasi inside an open
// transaction and returns the generated ID.  The row is created in the same
// transaction that links bookings and orders to it, so a failed linkage
// rolls the payment back and never leaves it orphaned.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, userID uint64, method string, amount float64) (uint64, error) {
	const q = `INSERT INTO payments (user_id, metode_pembayaran, jumlah, status) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, userID, method, amount, model.PaymentStatusMenunggu)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByIDForUser returns a payment scoped to its owner.  sql.ErrNoRows is
// returned both when the payment does not exist and when it belongs to a
// different user, so handlers answer 404 in either case.
func (r *PaymentRepo) GetByIDForUser(ctx context.Context, paymentID, userID uint64) (model.Payment, error) {
	const q = `SELECT id, user_id, metode_pembayaran, jumlah, status, created_at
	           FROM payments WHERE id = ? AND user_id = ?`
	var p model.Payment
	err := r.db.QueryRowContext(ctx, q, paymentID, userID).Scan(
		&p.ID, &p.UserID, &p.MetodePembayaran, &p.Jumlah, &p.Status, &p.CreatedAt)
	return p, err
}

// GetByID returns a payment regardless of owner.  Callers must have settled
// authorization already; the confirmation event assembly uses this because
// the confirming user is not always the payment's owner.
func (r *PaymentRepo) GetByID(ctx context.Context, paymentID uint64) (model.Payment, error) {
	const q = `SELECT id, user_id, metode_pembayaran, jumlah, status, created_at
	           FROM payments WHERE id = ?`
	var p model.Payment
	err := r.db.QueryRowContext(ctx, q, paymentID).Scan(
		&p.ID, &p.UserID, &p.MetodePembayaran, &p.Jumlah, &p.Status, &p.CreatedAt)
	return p, err
}

// LockForConfirmTx loads a payment's owner and status inside an open
// transaction, locking the row.  It returns sql.ErrNoRows when the payment
// does not exist, ErrForbidden when it belongs to a different user (unless
// admin is set) and ErrConflict when the payment is already terminal.
func (r *PaymentRepo) LockForConfirmTx(ctx context.Context, tx *sql.Tx, paymentID, userID uint64, admin bool) error {
	const q = `SELECT user_id, status FROM payments WHERE id = ? FOR UPDATE`
	var ownerID uint64
	var status string
	if err := tx.QueryRowContext(ctx, q, paymentID).Scan(&ownerID, &status); err != nil {
		return err
	}
	if !admin && ownerID != userID {
		return ErrForbidden
	}
	if status == model.PaymentStatusBerhasil {
		return ErrConflict
	}
	return nil
}

// SetStatusTx updates a payment's status inside an open transaction.
func (r *PaymentRepo) SetStatusTx(ctx context.Context, tx *sql.Tx, paymentID uint64, status string) error {
	_, err := tx.ExecContext(ctx, `UPDATE payments SET status = ? WHERE id = ?`, status, paymentID)
	return err
}

// LinkedIDs returns the booking and order IDs referencing a payment.  Used
// to assemble the confirmation event after the fan-out commits.
func (r *PaymentRepo) LinkedIDs(ctx context.Context, paymentID uint64) (bookingIDs, orderIDs []uint64, err error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM bookings WHERE payment_id = ? ORDER BY id`, paymentID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, nil, err
		}
		bookingIDs = append(bookingIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	orows, err := r.db.QueryContext(ctx, `SELECT id FROM orders WHERE payment_id = ? ORDER BY id`, paymentID)
	if err != nil {
		return nil, nil, err
	}
	defer orows.Close()
	for orows.Next() {
		var id uint64
		if err := orows.Scan(&id); err != nil {
			return nil, nil, err
		}
		orderIDs = append(orderIDs, id)
	}
	return bookingIDs, orderIDs, orows.Err()
}
