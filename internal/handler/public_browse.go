package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ZharfanFw/kailku-mobile-sub000/internal/repository"
)

// BrowseHandler serves the public catalog: venue list/detail/search, the
// tool catalog, and venue reviews.  All reads; the only write is posting a
// review, which requires auth.
type BrowseHandler struct {
	TempatRepo *repository.TempatRepo
	AlatRepo   *repository.AlatRepo
	ReviewRepo *repository.ReviewRepo
}

func NewBrowseHandler(tempatRepo *repository.TempatRepo, alatRepo *repository.AlatRepo, reviewRepo *repository.ReviewRepo) *BrowseHandler {
	if tempatRepo == nil || alatRepo == nil || reviewRepo == nil {
		panic("nil repository passed to NewBrowseHandler")
	}
	return &BrowseHandler{TempatRepo: tempatRepo, AlatRepo: alatRepo, ReviewRepo: reviewRepo}
}

// ListTempat handles GET /v1/tempat.
func (h *BrowseHandler) ListTempat(c echo.Context) error {
	items, err := h.TempatRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load venues"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetTempat handles GET /v1/tempat/:id.
func (h *BrowseHandler) GetTempat(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tempat id"})
	}
	t, err := h.TempatRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrTempatNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tempat not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load venue"})
	}
	return c.JSON(http.StatusOK, t)
}

// SearchTempat handles GET /v1/search/tempat?q=...&limit=...
func (h *BrowseHandler) SearchTempat(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "q is required"})
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	items, err := h.TempatRepo.Search(c.Request().Context(), q, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListAlat handles GET /v1/alat.
func (h *BrowseHandler) ListAlat(c echo.Context) error {
	items, err := h.AlatRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load tools"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListReviews handles GET /v1/tempat/:id/reviews.
func (h *BrowseHandler) ListReviews(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tempat id"})
	}
	ctx := c.Request().Context()
	if _, err := h.TempatRepo.GetByID(ctx, id); err != nil {
		if err == repository.ErrTempatNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tempat not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	items, err := h.ReviewRepo.ListByTempat(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reviews"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

type createReviewReq struct {
	Rating   uint8  `json:"rating"`
	Komentar string `json:"komentar"`
}

// CreateReview handles POST /v1/tempat/:id/reviews (auth required).  The
// insert and the venue rating refresh share one transaction.
func (h *BrowseHandler) CreateReview(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	tempatID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || tempatID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tempat id"})
	}
	var req createReviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	}

	ctx := c.Request().Context()
	if _, err := h.TempatRepo.GetByID(ctx, tempatID); err != nil {
		if err == repository.ErrTempatNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tempat not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	tx, err := h.ReviewRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	id, err := h.ReviewRepo.CreateTx(ctx, tx, userID, tempatID, req.Rating, strings.TrimSpace(req.Komentar))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create review"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}
