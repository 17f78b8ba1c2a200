package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ZharfanFw/kailku-mobile-sub000/internal/model"
	"github.com/ZharfanFw/kailku-mobile-sub000/internal/repository"
)

// AdminToolHandler exposes the admin-only CRUD for the tool catalog.
type AdminToolHandler struct {
	AlatRepo *repository.AlatRepo
}

func NewAdminToolHandler(r *repository.AlatRepo) *AdminToolHandler {
	if r == nil {
		panic("nil repository passed to NewAdminToolHandler")
	}
	return &AdminToolHandler{AlatRepo: r}
}

type toolReq struct {
	Nama      string  `json:"nama"`
	HargaSewa float64 `json:"harga_sewa"`
	HargaBeli float64 `json:"harga_beli"`
	Stok      uint32  `json:"stok"`
}

func (req *toolReq) validate() string {
	if strings.TrimSpace(req.Nama) == "" {
		return "nama is required"
	}
	if req.HargaSewa < 0 || req.HargaBeli < 0 {
		return "prices cannot be negative"
	}
	return ""
}

// Create handles POST /v1/admin/alat.
func (h *AdminToolHandler) Create(c echo.Context) error {
	var req toolReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	a := model.Alat{
		Nama:      strings.TrimSpace(req.Nama),
		HargaSewa: req.HargaSewa,
		HargaBeli: req.HargaBeli,
		Stok:      req.Stok,
	}
	if err := h.AlatRepo.Create(c.Request().Context(), &a); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create tool"})
	}
	return c.JSON(http.StatusCreated, a)
}

// Update handles PUT /v1/admin/alat/:id.
func (h *AdminToolHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid alat id"})
	}
	var req toolReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	a := model.Alat{
		ID:        id,
		Nama:      strings.TrimSpace(req.Nama),
		HargaSewa: req.HargaSewa,
		HargaBeli: req.HargaBeli,
		Stok:      req.Stok,
	}
	if err := h.AlatRepo.Update(c.Request().Context(), &a); err != nil {
		if err == repository.ErrAlatNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "alat not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update tool"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "alat updated"})
}

// Delete handles DELETE /v1/admin/alat/:id.
func (h *AdminToolHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid alat id"})
	}
	if err := h.AlatRepo.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case repository.ErrAlatNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "alat not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "alat is referenced by existing orders"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete tool"})
	}
	return c.NoContent(http.StatusNoContent)
}
