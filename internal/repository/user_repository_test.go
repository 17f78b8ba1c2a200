package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUpdateProfile_OnlyProvidedColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET nama=? WHERE id=?")).
		WithArgs("Budi", 4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.UpdateProfile(context.Background(), 4, ProfilePatch{Nama: strPtr("Budi")})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfile_AllColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET nama=?, no_hp=?, alamat=? WHERE id=?")).
		WithArgs("Budi", "0812", "Bogor", 4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.UpdateProfile(context.Background(), 4, ProfilePatch{
		Nama: strPtr("Budi"), NoHP: strPtr("0812"), Alamat: strPtr("Bogor"),
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfile_EmptyPatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserRepo(db)

	// No SQL is ever issued for an empty patch.
	err = repo.UpdateProfile(context.Background(), 4, ProfilePatch{})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
