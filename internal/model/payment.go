package model

import "time"

// Payment statuses.  The lifecycle is one-way: a payment waits for
// verification and terminally becomes berhasil on confirmation.
const (
	PaymentStatusMenunggu = "menunggu_verifikasi"
	PaymentStatusBerhasil = "berhasil"
)

// Payment is a single tagihan (invoice) covering one or more bookings
// and/or orders.  Bookings and orders reference a payment by id, so one
// payment can cover many rows.
//
// Fields:
//
//	ID               – primary key identifier.
//	UserID           – user the invoice is billed to.
//	MetodePembayaran – normalized payment method (qris, cod, transfer_<bank>).
//	Jumlah           – invoice amount.
//	Status           – menunggu_verifikasi or berhasil.
//	CreatedAt        – creation timestamp.
type Payment struct {
	ID               uint64    // payments.id
	UserID           uint64    // payments.user_id
	MetodePembayaran string    // payments.metode_pembayaran
	Jumlah           float64   // payments.jumlah
	Status           string    // payments.status
	CreatedAt        time.Time // payments.created_at
}
