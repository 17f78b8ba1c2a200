package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZharfanFw/kailku-mobile-sub000/internal/model"
)

func TestNormalizeMethod(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"qris", "qris"},
		{"QRIS", "qris"},
		{"cod", "cod"},
		{" CoD ", "cod"},
		{"bca", "transfer_bca"},
		{"Mandiri", "transfer_mandiri"},
		{" bni ", "transfer_bni"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeMethod(tc.in), "input %q", tc.in)
	}
}

func lockTestTx(t *testing.T) (*PaymentRepo, sqlmock.Sqlmock, *sql.Tx, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)
	return NewPaymentRepo(db), mock, tx, func() { db.Close() }
}

func TestLockForConfirmTx_OwnerAllowed(t *testing.T) {
	repo, mock, tx, done := lockTestTx(t)
	defer done()

	mock.ExpectQuery("SELECT user_id, status FROM payments").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "status"}).AddRow(7, model.PaymentStatusMenunggu))

	err := repo.LockForConfirmTx(context.Background(), tx, 5, 7, false)
	assert.NoError(t, err)
}

func TestLockForConfirmTx_ForeignOwnerForbidden(t *testing.T) {
	repo, mock, tx, done := lockTestTx(t)
	defer done()

	mock.ExpectQuery("SELECT user_id, status FROM payments").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "status"}).AddRow(99, model.PaymentStatusMenunggu))

	err := repo.LockForConfirmTx(context.Background(), tx, 5, 7, false)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestLockForConfirmTx_AdminBypassesOwnership(t *testing.T) {
	repo, mock, tx, done := lockTestTx(t)
	defer done()

	mock.ExpectQuery("SELECT user_id, status FROM payments").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "status"}).AddRow(99, model.PaymentStatusMenunggu))

	err := repo.LockForConfirmTx(context.Background(), tx, 5, 7, true)
	assert.NoError(t, err)
}

func TestLockForConfirmTx_AlreadyConfirmed(t *testing.T) {
	repo, mock, tx, done := lockTestTx(t)
	defer done()

	mock.ExpectQuery("SELECT user_id, status FROM payments").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "status"}).AddRow(7, model.PaymentStatusBerhasil))

	err := repo.LockForConfirmTx(context.Background(), tx, 5, 7, false)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestLockForConfirmTx_MissingPayment(t *testing.T) {
	repo, mock, tx, done := lockTestTx(t)
	defer done()

	mock.ExpectQuery("SELECT user_id, status FROM payments").
		WithArgs(5).
		WillReturnError(sql.ErrNoRows)

	err := repo.LockForConfirmTx(context.Background(), tx, 5, 7, false)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
