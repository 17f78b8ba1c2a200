// Package queue defines message payloads exchanged over the message broker.
package queue

// PaymentConfirmedEvent is published when a payment is confirmed and its
// linked bookings and orders have been flipped to paid.  It carries enough
// information for downstream consumers to log, notify, or trigger analytics
// without querying the primary database.
type PaymentConfirmedEvent struct {
	PaymentID        uint64   `json:"payment_id"`
	UserID           uint64   `json:"user_id"`
	MetodePembayaran string   `json:"metode_pembayaran"`
	Jumlah           float64  `json:"jumlah"`
	BookingIDs       []uint64 `json:"booking_ids"`
	OrderIDs         []uint64 `json:"order_ids"`
	ConfirmedAt      string   `json:"confirmed_at"`
}
