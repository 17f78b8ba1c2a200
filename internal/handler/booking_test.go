package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZharfanFw/kailku-mobile-sub000/internal/repository"
)

func newBookingTest(t *testing.T) (*BookingHandler, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	h := NewBookingHandler(
		repository.NewBookingRepo(db),
		repository.NewOrderRepo(db),
		repository.NewTempatRepo(db),
	)
	return h, mock, func() { db.Close() }
}

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestParseStartHour(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"08:00", 8, true},
		{"08:00:00", 8, true},
		{"8:30", 8, true}, // minutes truncate to the hour
		{"23:59:59", 23, true},
		{"24:00", 0, false},
		{"-1:00", 0, false},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseStartHour(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, "input %q", tc.in)
		}
	}
}

func TestHourString_PastMidnight(t *testing.T) {
	assert.Equal(t, "08:00:00", hourString(8))
	// A session ending past midnight keeps counting hours so string
	// comparison against same-day intervals stays ordered.
	assert.Equal(t, "25:00:00", hourString(25))
}

func TestCheckSeats_MissingParams(t *testing.T) {
	h, mock, done := newBookingTest(t)
	defer done()

	c, rec := newJSONContext(http.MethodGet, "/bookings/check-seats?tempat_id=1&tanggal=2026-09-01", "")
	require.NoError(t, h.CheckSeats(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckSeats_ReturnsOccupiedSeats(t *testing.T) {
	h, mock, done := newBookingTest(t)
	defer done()

	mock.ExpectQuery("SELECT DISTINCT no_kursi FROM bookings").
		WithArgs(1, "2026-09-01", "10:00:00", "08:00:00").
		WillReturnRows(sqlmock.NewRows([]string{"no_kursi"}).AddRow(5))

	c, rec := newJSONContext(http.MethodGet,
		"/bookings/check-seats?tempat_id=1&tanggal=2026-09-01&start_time=08:00&duration=2", "")
	require.NoError(t, h.CheckSeats(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		BookedSeats []uint32 `json:"bookedSeats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []uint32{5}, resp.BookedSeats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBooking_MissingDate(t *testing.T) {
	h, mock, done := newBookingTest(t)
	defer done()

	body := `{"tempat_id":1,"start_time":"08:00","duration":2,"no_kursi_list":[1]}`
	c, rec := newJSONContext(http.MethodPost, "/bookings", body)
	c.Set("user_id", uint64(7))

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func tempatRow() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "nama", "lokasi", "harga_per_jam", "fasilitas", "rating", "created_at", "updated_at",
	}).AddRow(1, "Kolam Pancing A", "Bogor", 10000.0, "gazebo", 4.5, now, now)
}

func TestCreateBooking_SplitsSpotPriceAcrossSeats(t *testing.T) {
	h, mock, done := newBookingTest(t)
	defer done()

	mock.ExpectQuery("SELECT (.+) FROM tempat WHERE id = ").
		WithArgs(1).
		WillReturnRows(tempatRow())
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT DISTINCT no_kursi FROM bookings").
		WithArgs(1, "2026-09-01", "10:00:00", "08:00:00").
		WillReturnRows(sqlmock.NewRows([]string{"no_kursi"}))
	// 20000 across two seats becomes 10000 per row.
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(7, 1, 1, "2026-09-01", "08:00:00", "10:00:00", 10000.0, "pending").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(7, 1, 2, "2026-09-01", "08:00:00", "10:00:00", 10000.0, "pending").
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectCommit()

	body := `{"tempat_id":1,"tanggal_booking":"2026-09-01","start_time":"08:00","duration":2,` +
		`"no_kursi_list":[1,2],"total_harga_spot":20000}`
	c, rec := newJSONContext(http.MethodPost, "/bookings", body)
	c.Set("user_id", uint64(7))

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		BookingIDs []uint64 `json:"booking_ids"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []uint64{11, 12}, resp.BookingIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBooking_ConflictRollsBack(t *testing.T) {
	h, mock, done := newBookingTest(t)
	defer done()

	mock.ExpectQuery("SELECT (.+) FROM tempat WHERE id = ").
		WithArgs(1).
		WillReturnRows(tempatRow())
	mock.ExpectBegin()
	// Seat 2 is already held inside the transaction; nothing gets inserted.
	mock.ExpectQuery("SELECT DISTINCT no_kursi FROM bookings").
		WithArgs(1, "2026-09-01", "10:00:00", "08:00:00").
		WillReturnRows(sqlmock.NewRows([]string{"no_kursi"}).AddRow(2))
	mock.ExpectRollback()

	body := `{"tempat_id":1,"tanggal_booking":"2026-09-01","start_time":"08:00","duration":2,` +
		`"no_kursi_list":[1,2],"total_harga_spot":20000}`
	c, rec := newJSONContext(http.MethodPost, "/bookings", body)
	c.Set("user_id", uint64(7))

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp struct {
		Seats []uint32 `json:"seats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []uint32{2}, resp.Seats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBooking_WithCartCreatesOrder(t *testing.T) {
	h, mock, done := newBookingTest(t)
	defer done()

	mock.ExpectQuery("SELECT (.+) FROM tempat WHERE id = ").
		WithArgs(1).
		WillReturnRows(tempatRow())
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT DISTINCT no_kursi FROM bookings").
		WithArgs(1, "2026-09-01", "10:00:00", "08:00:00").
		WillReturnRows(sqlmock.NewRows([]string{"no_kursi"}))
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(7, 1, 3, "2026-09-01", "08:00:00", "10:00:00", 20000.0, "pending").
		WillReturnResult(sqlmock.NewResult(11, 1))
	// Two rods rented at 5000 each: order total 10000, quantity carried to
	// a single line item.
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(7, 1, "pending", 10000.0).
		WillReturnResult(sqlmock.NewResult(21, 1))
	mock.ExpectExec("INSERT INTO order_details").
		WithArgs(21, 9, "sewa", 2, 5000.0).
		WillReturnResult(sqlmock.NewResult(31, 1))
	mock.ExpectCommit()

	body := `{"tempat_id":1,"tanggal_booking":"2026-09-01","start_time":"08:00","duration":2,` +
		`"no_kursi_list":[3],"total_harga_spot":20000,` +
		`"cart_items":[{"alat_id":9,"tipe_transaksi":"sewa","jumlah":2,"harga_transaksi":5000}]}`
	c, rec := newJSONContext(http.MethodPost, "/bookings", body)
	c.Set("user_id", uint64(7))

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		BookingIDs []uint64 `json:"booking_ids"`
		OrderID    uint64   `json:"order_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []uint64{11}, resp.BookingIDs)
	assert.Equal(t, uint64(21), resp.OrderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBooking_InvalidCartType(t *testing.T) {
	h, mock, done := newBookingTest(t)
	defer done()

	body := `{"tempat_id":1,"tanggal_booking":"2026-09-01","start_time":"08:00","duration":2,` +
		`"no_kursi_list":[3],"total_harga_spot":20000,` +
		`"cart_items":[{"alat_id":9,"tipe_transaksi":"pinjam","jumlah":1,"harga_transaksi":5000}]}`
	c, rec := newJSONContext(http.MethodPost, "/bookings", body)
	c.Set("user_id", uint64(7))

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
