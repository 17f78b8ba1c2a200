package model

import "time"

// Tempat is a fishing venue offering bookable seats.  The booking core
// treats venues as read-only; rows are managed by admins.
type Tempat struct {
	ID          uint64    `json:"id"`            // tempat.id
	Nama        string    `json:"nama"`          // tempat.nama
	Lokasi      string    `json:"lokasi"`        // tempat.lokasi
	HargaPerJam float64   `json:"harga_per_jam"` // tempat.harga_per_jam
	Fasilitas   string    `json:"fasilitas"`     // tempat.fasilitas
	Rating      float64   `json:"rating"`        // tempat.rating (aggregate from reviews)
	CreatedAt   time.Time `json:"created_at"`    // tempat.created_at
	UpdatedAt   time.Time `json:"updated_at"`    // tempat.updated_at
}

// Review is a user's rating and comment for a venue.
type Review struct {
	ID        uint64    // reviews.id
	UserID    uint64    // reviews.user_id
	TempatID  uint64    // reviews.tempat_id
	Rating    uint8     // reviews.rating (1..5)
	Komentar  string    // reviews.komentar
	CreatedAt time.Time // reviews.created_at
}
