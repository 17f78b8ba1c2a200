package model

import "time"

// Alat is a fishing tool that can be rented per session or bought.
type Alat struct {
	ID        uint64    `json:"id"`         // alat.id
	Nama      string    `json:"nama"`       // alat.nama
	HargaSewa float64   `json:"harga_sewa"` // alat.harga_sewa
	HargaBeli float64   `json:"harga_beli"` // alat.harga_beli
	Stok      uint32    `json:"stok"`       // alat.stok
	CreatedAt time.Time `json:"created_at"` // alat.created_at
	UpdatedAt time.Time `json:"updated_at"` // alat.updated_at
}
