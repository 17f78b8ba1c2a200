package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZharfanFw/kailku-mobile-sub000/internal/model"
	"github.com/ZharfanFw/kailku-mobile-sub000/internal/queue"
	"github.com/ZharfanFw/kailku-mobile-sub000/internal/repository"
)

func newPaymentTest(t *testing.T) (*PaymentHandler, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	h := NewPaymentHandler(
		repository.NewPaymentRepo(db),
		repository.NewBookingRepo(db),
		repository.NewOrderRepo(db),
	)
	// Keep the post-commit work synchronous and off the broker so the mock
	// db sees only the expectations each test declares.
	h.confirmed = func(uint64) {}
	h.publish = func(context.Context, queue.PaymentConfirmedEvent) error { return nil }
	return h, mock, func() { db.Close() }
}

func TestCreatePayment_LinksBookingsAndOrders(t *testing.T) {
	h, mock, done := newPaymentTest(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO payments").
		WithArgs(7, "qris", 30000.0, model.PaymentStatusMenunggu).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec("UPDATE bookings SET payment_id").
		WithArgs(5, 11, 12, 7).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE orders SET payment_id").
		WithArgs(5, 21, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	body := `{"booking_ids":[11,12],"order_ids":[21],"payment_method":"QRIS","total_amount":30000}`
	c, rec := newJSONContext(http.MethodPost, "/payment/create", body)
	c.Set("user_id", uint64(7))

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		PaymentID uint64 `json:"payment_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(5), resp.PaymentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePayment_LinkShortfallRollsBack(t *testing.T) {
	h, mock, done := newPaymentTest(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO payments").
		WithArgs(7, "transfer_bca", 30000.0, model.PaymentStatusMenunggu).
		WillReturnResult(sqlmock.NewResult(5, 1))
	// One of the two bookings belongs to another user; the whole
	// transaction, payment row included, is rolled back.
	mock.ExpectExec("UPDATE bookings SET payment_id").
		WithArgs(5, 11, 12, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	body := `{"booking_ids":[11,12],"payment_method":"bca","total_amount":30000}`
	c, rec := newJSONContext(http.MethodPost, "/payment/create", body)
	c.Set("user_id", uint64(7))

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePayment_RequiresTargets(t *testing.T) {
	h, mock, done := newPaymentTest(t)
	defer done()

	body := `{"payment_method":"qris","total_amount":30000}`
	c, rec := newJSONContext(http.MethodPost, "/payment/create", body)
	c.Set("user_id", uint64(7))

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPayment_FanOutInOneTransaction(t *testing.T) {
	h, mock, done := newPaymentTest(t)
	defer done()

	var triggered uint64
	h.confirmed = func(paymentID uint64) { triggered = paymentID }

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT user_id, status FROM payments").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "status"}).AddRow(7, model.PaymentStatusMenunggu))
	mock.ExpectExec("UPDATE payments SET status").
		WithArgs(model.PaymentStatusBerhasil, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs(model.BookingStatusPaid, 5).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE orders SET status").
		WithArgs(model.BookingStatusPaid, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c, rec := newJSONContext(http.MethodPost, "/payment/5/pay", "")
	c.SetParamNames("id")
	c.SetParamValues("5")
	c.Set("user_id", uint64(7))

	require.NoError(t, h.Confirm(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(5), triggered)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPayment_ForeignOwnerForbidden(t *testing.T) {
	h, mock, done := newPaymentTest(t)
	defer done()

	var triggered bool
	h.confirmed = func(uint64) { triggered = true }

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT user_id, status FROM payments").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "status"}).AddRow(99, model.PaymentStatusMenunggu))
	mock.ExpectRollback()

	c, rec := newJSONContext(http.MethodPost, "/payment/5/pay", "")
	c.SetParamNames("id")
	c.SetParamValues("5")
	c.Set("user_id", uint64(7))

	require.NoError(t, h.Confirm(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, triggered)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPayment_AdminRoleBypassesOwnership(t *testing.T) {
	h, mock, done := newPaymentTest(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT user_id, status FROM payments").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "status"}).AddRow(99, model.PaymentStatusMenunggu))
	mock.ExpectExec("UPDATE payments SET status").
		WithArgs(model.PaymentStatusBerhasil, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs(model.BookingStatusPaid, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE orders SET status").
		WithArgs(model.BookingStatusPaid, 5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	c, rec := newJSONContext(http.MethodPost, "/payment/5/pay", "")
	c.SetParamNames("id")
	c.SetParamValues("5")
	c.Set("user_id", uint64(7))
	c.Set("role", "ADMIN")

	require.NoError(t, h.Confirm(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPayment_AlreadyConfirmed(t *testing.T) {
	h, mock, done := newPaymentTest(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT user_id, status FROM payments").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "status"}).AddRow(7, model.PaymentStatusBerhasil))
	mock.ExpectRollback()

	c, rec := newJSONContext(http.MethodPost, "/payment/5/pay", "")
	c.SetParamNames("id")
	c.SetParamValues("5")
	c.Set("user_id", uint64(7))

	require.NoError(t, h.Confirm(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPublishConfirmed_NotScopedToConfirmingUser(t *testing.T) {
	h, mock, done := newPaymentTest(t)
	defer done()

	var published *queue.PaymentConfirmedEvent
	h.publish = func(_ context.Context, ev queue.PaymentConfirmedEvent) error {
		published = &ev
		return nil
	}

	// The payment belongs to user 99; the event assembly must still find it
	// and its linked rows when someone else (an admin) drove the confirm.
	mock.ExpectQuery("SELECT id, user_id, metode_pembayaran, jumlah, status, created_at").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "metode_pembayaran", "jumlah", "status", "created_at"}).
			AddRow(5, 99, "qris", 30000.0, model.PaymentStatusBerhasil, time.Now()))
	mock.ExpectQuery("SELECT id FROM bookings WHERE payment_id").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11).AddRow(12))
	mock.ExpectQuery("SELECT id FROM orders WHERE payment_id").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))

	h.publishConfirmed(5)

	require.NotNil(t, published)
	assert.Equal(t, uint64(5), published.PaymentID)
	assert.Equal(t, uint64(99), published.UserID)
	assert.Equal(t, []uint64{11, 12}, published.BookingIDs)
	assert.Equal(t, []uint64{21}, published.OrderIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPayment_NotFoundForForeignOwner(t *testing.T) {
	h, mock, done := newPaymentTest(t)
	defer done()

	// The owner-scoped read returns no row for someone else's payment, so
	// the handler cannot distinguish it from a missing one.
	mock.ExpectQuery("SELECT id, user_id, metode_pembayaran, jumlah, status, created_at").
		WithArgs(5, 7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "metode_pembayaran", "jumlah", "status", "created_at"}))

	c, rec := newJSONContext(http.MethodGet, "/payment/5", "")
	c.SetParamNames("id")
	c.SetParamValues("5")
	c.Set("user_id", uint64(7))

	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
