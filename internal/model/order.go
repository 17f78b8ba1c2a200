package model

import "time"

// Transaction types for order lines.  Tools can be rented for the session
// or bought outright.
const (
	TransaksiSewa = "sewa"
	TransaksiBeli = "beli"
)

// Order is a cart of rented or purchased tools tied to one user and one
// venue, created atomically with its details alongside a booking batch.
//
// Fields:
//
//	ID         – primary key identifier.
//	UserID     – user owning the cart.
//	TempatID   – venue the cart belongs to.
//	Status     – same lifecycle as bookings (pending then paid).
//	TotalHarga – sum of line totals at creation time.
//	PaymentID  – invoice covering this order (nullable until linked).
//	CreatedAt  – creation timestamp.
type Order struct {
	ID         uint64    // orders.id
	UserID     uint64    // orders.user_id
	TempatID   uint64    // orders.tempat_id
	Status     string    // orders.status
	TotalHarga float64   // orders.total_harga
	PaymentID  *uint64   // orders.payment_id (nullable)
	CreatedAt  time.Time // orders.created_at
}

// OrderDetail is one line item of an order.  HargaSatuan is the unit price
// snapshotted at transaction time; later changes to the tool catalog must
// never retroactively alter historical orders.
type OrderDetail struct {
	ID            uint64  // order_details.id
	OrderID       uint64  // order_details.order_id
	AlatID        uint64  // order_details.alat_id
	TipeTransaksi string  // order_details.tipe_transaksi (sewa|beli)
	Jumlah        uint32  // order_details.jumlah
	HargaSatuan   float64 // order_details.harga_satuan
}
