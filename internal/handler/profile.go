package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ZharfanFw/kailku-mobile-sub000/internal/repository"
)

// ProfileHandler serves the authenticated user's own profile.
type ProfileHandler struct {
	Users *repository.UserRepo
}

func NewProfileHandler(u *repository.UserRepo) *ProfileHandler {
	if u == nil {
		panic("nil repository passed to NewProfileHandler")
	}
	return &ProfileHandler{Users: u}
}

type profileResp struct {
	ID     uint64 `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Nama   string `json:"nama"`
	NoHP   string `json:"no_hp"`
	Alamat string `json:"alamat"`
}

// Me handles GET /v1/me.
func (h *ProfileHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, profileResp{
		ID: u.ID, Email: u.Email, Role: u.Role,
		Nama: u.Nama, NoHP: u.NoHP, Alamat: u.Alamat,
	})
}

type updateProfileReq struct {
	Nama   *string `json:"nama"`
	NoHP   *string `json:"no_hp"`
	Alamat *string `json:"alamat"`
}

// Update handles PATCH /v1/me.  Only the fields present in the body are
// touched; pointer fields distinguish "absent" from "set to empty".  The
// repository assembles the statement from fixed column names, so the request
// never influences SQL text.
func (h *ProfileHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Nama == nil && req.NoHP == nil && req.Alamat == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no fields to update"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	patch := repository.ProfilePatch{Nama: req.Nama, NoHP: req.NoHP, Alamat: req.Alamat}
	if err := h.Users.UpdateProfile(ctx, uid, patch); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, profileResp{
		ID: u.ID, Email: u.Email, Role: u.Role,
		Nama: u.Nama, NoHP: u.NoHP, Alamat: u.Alamat,
	})
}
