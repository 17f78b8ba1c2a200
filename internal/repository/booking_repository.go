package repository

import (
	"context"
	"database/sql"
	"strings"
)

// BookingRepo provides persistence for seat bookings.  A booking reserves
// one seat at one venue for a half-open time interval on a given date.
// Mutations run inside transactions owned by the caller; all ...Tx methods
// require an open *sql.Tx and never commit or roll back themselves.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions that
// span several repositories.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// overlapCond is the half-open interval intersection test shared by the
// availability read and the in-transaction recheck.  A stored interval
// [jam_mulai, jam_selesai) overlaps the request [start, end) exactly when
// jam_mulai < end AND jam_selesai > start; adjacent intervals do not match.
const overlapCond = `tempat_id = ? AND tanggal_booking = ? AND status <> 'cancelled'
	           AND jam_mulai < ? AND jam_selesai > ?`

// OccupiedSeats returns the distinct seat numbers whose non-cancelled
// bookings overlap the requested interval at a venue on a date.  Pure read;
// safe to call concurrently and repeatedly.
func (r *BookingRepo) OccupiedSeats(ctx context.Context, tempatID uint64, tanggal, start, end string) ([]uint32, error) {
	const q = `SELECT DISTINCT no_kursi FROM bookings
	           WHERE ` + overlapCond + `
	           ORDER BY no_kursi`
	rows, err := r.db.QueryContext(ctx, q, tempatID, tanggal, end, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]uint32, 0)
	for rows.Next() {
		var s uint32
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

// OccupiedSeatsTx re-runs the overlap check inside an open transaction and
// locks the matching rows.  Running the same predicate under the insert's
// transaction closes the race where two callers pass the unauthenticated
// availability read and then both insert.
func (r *BookingRepo) OccupiedSeatsTx(ctx context.Context, tx *sql.Tx, tempatID uint64, tanggal, start, end string) (map[uint32]struct{}, error) {
	const q = `SELECT DISTINCT no_kursi FROM bookings
	           WHERE ` + overlapCond + `
	           FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, tempatID, tanggal, end, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	occupied := make(map[uint32]struct{})
	for rows.Next() {
		var s uint32
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		occupied[s] = struct{}{}
	}
	return occupied, rows.Err()
}

// BookingRecord carries the per-call fields shared by every seat row written
// in one createBooking transaction.
type BookingRecord struct {
	UserID     uint64
	TempatID   uint64
	Tanggal    string
	JamMulai   string
	JamSelesai string
	Status     string
	HargaKursi float64 // per-seat price, already divided by the caller
}

// CreateSeatsTx inserts one booking row per seat number within the provided
// transaction and returns the generated IDs in seat order.  Any insert
// failure is returned as-is so the caller can roll back the whole batch;
// no partial-seat success is possible.
func (r *BookingRepo) CreateSeatsTx(ctx context.Context, tx *sql.Tx, rec BookingRecord, seats []uint32) ([]uint64, error) {
	const q = `INSERT INTO bookings
	           (user_id, tempat_id, no_kursi, tanggal_booking, jam_mulai, jam_selesai, total_harga, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	ids := make([]uint64, 0, len(seats))
	for _, seat := range seats {
		res, err := tx.ExecContext(ctx, q,
			rec.UserID, rec.TempatID, seat, rec.Tanggal, rec.JamMulai, rec.JamSelesai, rec.HargaKursi, rec.Status)
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint64(id))
	}
	return ids, nil
}

// LinkPaymentTx assigns a payment to the given booking IDs.  The update is
// scoped to the owning user so a caller can never attach someone else's
// bookings to their invoice.  It returns the number of rows updated; a
// count below len(ids) means some rows were missing or foreign.
func (r *BookingRepo) LinkPaymentTx(ctx context.Context, tx *sql.Tx, paymentID, userID uint64, ids []uint64) (int64, error) {
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
	q := `UPDATE bookings SET payment_id = ? WHERE id IN (` + strings.Join(placeholders, ",") + `) AND user_id = ?`
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SetStatusByPaymentTx flips the status of every booking linked to a
// payment.  Used by the payment confirm fan-out.
func (r *BookingRepo) SetStatusByPaymentTx(ctx context.Context, tx *sql.Tx, paymentID uint64, status string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE payment_id = ?`, status, paymentID)
	return err
}

// BookingDetail is a booking row joined with its venue's name and location,
// as returned to customers listing their own bookings.
type BookingDetail struct {
	ID             uint64  `json:"id"`
	TempatID       uint64  `json:"tempat_id"`
	TempatNama     string  `json:"tempat_nama"`
	TempatLokasi   string  `json:"tempat_lokasi"`
	NoKursi        uint32  `json:"no_kursi"`
	TanggalBooking string  `json:"tanggal_booking"`
	JamMulai       string  `json:"jam_mulai"`
	JamSelesai     string  `json:"jam_selesai"`
	TotalHarga     float64 `json:"total_harga"`
	Status         string  `json:"status"`
	PaymentID      *uint64 `json:"payment_id,omitempty"`
}

// ListByUser returns all bookings for the given user joined with venue
// name and location, newest first.  When no bookings exist, an empty slice
// is returned.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	const q = `SELECT b.id, b.tempat_id, t.nama, t.lokasi,
	                  b.no_kursi, b.tanggal_booking, b.jam_mulai, b.jam_selesai,
	                  b.total_harga, b.status, b.payment_id
	           FROM bookings b
	           JOIN tempat t ON t.id = b.tempat_id
	           WHERE b.user_id = ?
	           ORDER BY b.created_at DESC, b.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		var paymentID sql.NullInt64
		if err := rows.Scan(
			&d.ID, &d.TempatID, &d.TempatNama, &d.TempatLokasi,
			&d.NoKursi, &d.TanggalBooking, &d.JamMulai, &d.JamSelesai,
			&d.TotalHarga, &d.Status, &paymentID,
		); err != nil {
			return nil, err
		}
		if paymentID.Valid {
			pid := uint64(paymentID.Int64)
			d.PaymentID = &pid
		}
		details = append(details, d)
	}
	return details, rows.Err()
}
