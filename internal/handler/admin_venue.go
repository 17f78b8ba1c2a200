package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ZharfanFw/kailku-mobile-sub000/internal/model"
	"github.com/ZharfanFw/kailku-mobile-sub000/internal/repository"
)

// AdminVenueHandler exposes the admin-only CRUD for venues.  Routes are
// mounted behind the ADMIN role middleware.
type AdminVenueHandler struct {
	TempatRepo *repository.TempatRepo
}

func NewAdminVenueHandler(r *repository.TempatRepo) *AdminVenueHandler {
	if r == nil {
		panic("nil repository passed to NewAdminVenueHandler")
	}
	return &AdminVenueHandler{TempatRepo: r}
}

type venueReq struct {
	Nama        string  `json:"nama"`
	Lokasi      string  `json:"lokasi"`
	HargaPerJam float64 `json:"harga_per_jam"`
	Fasilitas   string  `json:"fasilitas"`
}

func (req *venueReq) validate() string {
	if strings.TrimSpace(req.Nama) == "" {
		return "nama is required"
	}
	if strings.TrimSpace(req.Lokasi) == "" {
		return "lokasi is required"
	}
	if req.HargaPerJam < 0 {
		return "harga_per_jam cannot be negative"
	}
	return ""
}

// Create handles POST /v1/admin/tempat.
func (h *AdminVenueHandler) Create(c echo.Context) error {
	var req venueReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	t := model.Tempat{
		Nama:        strings.TrimSpace(req.Nama),
		Lokasi:      strings.TrimSpace(req.Lokasi),
		HargaPerJam: req.HargaPerJam,
		Fasilitas:   strings.TrimSpace(req.Fasilitas),
	}
	if err := h.TempatRepo.Create(c.Request().Context(), &t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create venue"})
	}
	return c.JSON(http.StatusCreated, t)
}

// Update handles PUT /v1/admin/tempat/:id.
func (h *AdminVenueHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tempat id"})
	}
	var req venueReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	t := model.Tempat{
		ID:          id,
		Nama:        strings.TrimSpace(req.Nama),
		Lokasi:      strings.TrimSpace(req.Lokasi),
		HargaPerJam: req.HargaPerJam,
		Fasilitas:   strings.TrimSpace(req.Fasilitas),
	}
	if err := h.TempatRepo.Update(c.Request().Context(), &t); err != nil {
		if err == repository.ErrTempatNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tempat not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update venue"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "tempat updated"})
}

// Delete handles DELETE /v1/admin/tempat/:id.  Venues referenced by bookings
// cannot be deleted.
func (h *AdminVenueHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tempat id"})
	}
	if err := h.TempatRepo.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case repository.ErrTempatNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tempat not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "tempat has existing bookings"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete venue"})
	}
	return c.NoContent(http.StatusNoContent)
}
