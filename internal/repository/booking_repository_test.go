package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOccupiedSeats_QueriesHalfOpenInterval(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewBookingRepo(db)

	// The predicate compares jam_mulai against the request END and
	// jam_selesai against the request START, so the args are swapped
	// relative to the function parameters.
	mock.ExpectQuery("SELECT DISTINCT no_kursi FROM bookings").
		WithArgs(1, "2026-09-01", "10:00:00", "08:00:00").
		WillReturnRows(sqlmock.NewRows([]string{"no_kursi"}).AddRow(2).AddRow(5))

	seats, err := repo.OccupiedSeats(context.Background(), 1, "2026-09-01", "08:00:00", "10:00:00")
	require.NoError(t, err)
	assert.Equal(t, []uint32{2, 5}, seats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOccupiedSeats_EmptyWhenNoOverlap(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewBookingRepo(db)

	mock.ExpectQuery("SELECT DISTINCT no_kursi FROM bookings").
		WithArgs(1, "2026-09-01", "08:00:00", "06:00:00").
		WillReturnRows(sqlmock.NewRows([]string{"no_kursi"}))

	seats, err := repo.OccupiedSeats(context.Background(), 1, "2026-09-01", "06:00:00", "08:00:00")
	require.NoError(t, err)
	assert.Empty(t, seats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSeatsTx_StopsOnFirstFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewBookingRepo(db)
	rec := BookingRecord{
		UserID: 7, TempatID: 1, Tanggal: "2026-09-01",
		JamMulai: "08:00:00", JamSelesai: "10:00:00",
		Status: "pending", HargaKursi: 10000,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(7, 1, 3, "2026-09-01", "08:00:00", "10:00:00", 10000.0, "pending").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(7, 1, 4, "2026-09-01", "08:00:00", "10:00:00", 10000.0, "pending").
		WillReturnError(errors.New("Error 1062: Duplicate entry"))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)

	ids, err := repo.CreateSeatsTx(context.Background(), tx, rec, []uint32{3, 4})
	assert.Error(t, err)
	assert.Nil(t, ids)

	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLinkPaymentTx_ScopedToOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewBookingRepo(db)

	mock.ExpectBegin()
	// Only one of the two IDs belongs to user 7; the row count exposes the
	// shortfall to the caller.
	mock.ExpectExec("UPDATE bookings SET payment_id").
		WithArgs(9, 11, 12, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)

	n, err := repo.LinkPaymentTx(context.Background(), tx, 9, 7, []uint64{11, 12})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}
