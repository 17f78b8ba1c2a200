package model

import "time"

// Booking statuses.  A booking is created as pending, flips to paid when
// its payment is confirmed and may later become completed.  Cancellation
// is a status change, never a hard delete.
const (
	BookingStatusPending   = "pending"
	BookingStatusPaid      = "paid"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// Booking records one seat reserved for one time interval at one venue.
// Intervals are half-open [JamMulai, JamSelesai): two bookings on the same
// seat and date conflict when one's start lies before the other's end and
// vice versa.  Adjacent intervals do not conflict.
//
// Fields:
//
//	ID             – primary key identifier.
//	UserID         – user who made the booking.
//	TempatID       – venue being booked.
//	NoKursi        – seat number within the venue.
//	TanggalBooking – calendar date of the booking (venue-local).
//	JamMulai       – interval start, stored as HH:MM:SS.
//	JamSelesai     – interval end, stored as HH:MM:SS (exclusive).
//	TotalHarga     – price for this seat.
//	Status         – pending, paid, cancelled or completed.
//	PaymentID      – invoice covering this booking (nullable until linked).
//	CreatedAt      – creation timestamp.
type Booking struct {
	ID             uint64    // bookings.id
	UserID         uint64    // bookings.user_id
	TempatID       uint64    // bookings.tempat_id
	NoKursi        uint32    // bookings.no_kursi
	TanggalBooking string    // bookings.tanggal_booking (YYYY-MM-DD)
	JamMulai       string    // bookings.jam_mulai
	JamSelesai     string    // bookings.jam_selesai
	TotalHarga     float64   // bookings.total_harga
	Status         string    // bookings.status
	PaymentID      *uint64   // bookings.payment_id (nullable)
	CreatedAt      time.Time // bookings.created_at
}
