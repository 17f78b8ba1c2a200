package repository

import (
	"context"
	"database/sql"
	"strings"
)

// OrderRepo persists tool carts (orders) and their line items.  Orders are
// only ever created inside the booking transaction, so every mutation here
// is a ...Tx method.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// OrderRecord mirrors the orders table for insertion.  The generated ID is
// populated by CreateTx.
type OrderRecord struct {
	ID         uint64
	UserID     uint64
	TempatID   uint64
	Status     string
	TotalHarga float64
}

// OrderDetailRecord is one cart line: a tool, whether it is rented or
// bought, an explicit quantity and the unit price snapshotted at
// transaction time.
type OrderDetailRecord struct {
	OrderID       uint64
	AlatID        uint64
	TipeTransaksi string
	Jumlah        uint32
	HargaSatuan   float64
}

// CreateTx inserts an order within the scope of an existing transaction and
// populates the generated ID on the record.  The caller must commit or roll
// back.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, rec *OrderRecord) error {
	const q = `INSERT INTO orders (user_id, tempat_id, status, total_harga) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, rec.UserID, rec.TempatID, rec.Status, rec.TotalHarga)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)
	return nil
}

// CreateDetailsBulkTx inserts multiple order_details rows in a single
// statement.  The caller must supply the order ID in each record.  Passing
// an empty slice has no effect and returns nil.
func (r *OrderRepo) CreateDetailsBulkTx(ctx context.Context, tx *sql.Tx, details []OrderDetailRecord) error {
	if len(details) == 0 {
		return nil
	}
	query := `INSERT INTO order_details (order_id, alat_id, tipe_transaksi, jumlah, harga_satuan) VALUES `
	args := make([]interface{}, 0, len(details)*5)
	for i, d := range details {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, d.OrderID, d.AlatID, d.TipeTransaksi, d.Jumlah, d.HargaSatuan)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// LinkPaymentTx assigns a payment to the given order IDs, scoped to the
// owning user.  It returns the number of rows updated.
func (r *OrderRepo) LinkPaymentTx(ctx context.Context, tx *sql.Tx, paymentID, userID uint64, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := make([]string, 0, len(ids))
	args := make([]interface{}, 0, len(ids)+2)
	args = append(args, paymentID)
	for _, id := range ids {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	args = append(args, userID)
	q := `UPDATE orders SET payment_id = ? WHERE id IN (` + strings.Join(placeholders, ",") + `) AND user_id = ?`
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SetStatusByPaymentTx flips the status of every order linked to a payment.
func (r *OrderRepo) SetStatusByPaymentTx(ctx context.Context, tx *sql.Tx, paymentID uint64, status string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = ? WHERE payment_id = ?`, status, paymentID)
	return err
}

// GetByIDForUser returns an order scoped to its owner.  sql.ErrNoRows is
// returned both for missing and foreign orders.
func (r *OrderRepo) GetByIDForUser(ctx context.Context, orderID, userID uint64) (OrderRecord, error) {
	const q = `SELECT id, user_id, tempat_id, status, total_harga FROM orders WHERE id = ? AND user_id = ?`
	var rec OrderRecord
	err := r.db.QueryRowContext(ctx, q, orderID, userID).Scan(
		&rec.ID, &rec.UserID, &rec.TempatID, &rec.Status, &rec.TotalHarga)
	return rec, err
}

// OrderDetailLine is a line item as returned when listing an order.
type OrderDetailLine struct {
	AlatID        uint64  `json:"alat_id"`
	AlatNama      string  `json:"alat_nama"`
	TipeTransaksi string  `json:"tipe_transaksi"`
	Jumlah        uint32  `json:"jumlah"`
	HargaSatuan   float64 `json:"harga_satuan"`
}

// ListDetails returns the line items of an order joined with tool names.
func (r *OrderRepo) ListDetails(ctx context.Context, orderID uint64) ([]OrderDetailLine, error) {
	const q = `SELECT od.alat_id, a.nama, od.tipe_transaksi, od.jumlah, od.harga_satuan
	           FROM order_details od
	           JOIN alat a ON a.id = od.alat_id
	           WHERE od.order_id = ?
	           ORDER BY od.id`
	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	lines := make([]OrderDetailLine, 0)
	for rows.Next() {
		var l OrderDetailLine
		if err := rows.Scan(&l.AlatID, &l.AlatNama, &l.TipeTransaksi, &l.Jumlah, &l.HargaSatuan); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
