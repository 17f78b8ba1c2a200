package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/ZharfanFw/kailku-mobile-sub000/internal/model"
	"github.com/ZharfanFw/kailku-mobile-sub000/internal/utils"
)

// UserRepo persists application users.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

// Create inserts a user and returns its ID.
func (r *UserRepo) Create(ctx context.Context, email, password, role, nama string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role, nama) VALUES (?,?,?,?)",
		email, hash, role, nama)
	if err != nil {
		// MySQL duplicate-key error code
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,role,nama,no_hp,alamat,is_active,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Nama, &u.NoHP, &u.Alamat, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,role,nama,no_hp,alamat,is_active,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Nama, &u.NoHP, &u.Alamat, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// ProfilePatch carries optional profile fields for a partial update.  A nil
// field is left untouched.  The update statement is assembled only from the
// fixed column names below with parameter placeholders for every value, so
// no client-supplied text is ever concatenated into SQL.
type ProfilePatch struct {
	Nama   *string
	NoHP   *string
	Alamat *string
}

// UpdateProfile applies a ProfilePatch to the given user.  It returns
// sql.ErrNoRows when the patch is empty or the user does not exist.
func (r *UserRepo) UpdateProfile(ctx context.Context, userID uint64, p ProfilePatch) error {
	sets := make([]string, 0, 3)
	args := make([]interface{}, 0, 4)
	if p.Nama != nil {
		sets = append(sets, "nama=?")
		args = append(args, *p.Nama)
	}
	if p.NoHP != nil {
		sets = append(sets, "no_hp=?")
		args = append(args, *p.NoHP)
	}
	if p.Alamat != nil {
		sets = append(sets, "alamat=?")
		args = append(args, *p.Alamat)
	}
	if len(sets) == 0 {
		return sql.ErrNoRows
	}
	args = append(args, userID)
	q := "UPDATE users SET " + strings.Join(sets, ", ") + " WHERE id=?"
	res, err := r.DB.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// The row may exist with identical values; check existence before
		// reporting not found.
		var one int
		if err2 := r.DB.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id=? LIMIT 1", userID).Scan(&one); err2 != nil {
			return err2
		}
	}
	return nil
}
