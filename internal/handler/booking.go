package handler

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ZharfanFw/kailku-mobile-sub000/internal/model"
	"github.com/ZharfanFw/kailku-mobile-sub000/internal/repository"
)

// BookingHandler groups the repositories needed to answer seat availability
// queries and to run the booking/order transaction.  All interval math is
// done in whole hours over half-open [start, end) windows.  Mutating
// methods run inside a single transaction owned by the handler so a failed
// step never leaves partial rows behind.
type BookingHandler struct {
	BookingRepo *repository.BookingRepo
	OrderRepo   *repository.OrderRepo
	TempatRepo  *repository.TempatRepo
}

// NewBookingHandler constructs a BookingHandler.  All dependencies must be
// non-nil.
func NewBookingHandler(bookingRepo *repository.BookingRepo, orderRepo *repository.OrderRepo, tempatRepo *repository.TempatRepo) *BookingHandler {
	if bookingRepo == nil || orderRepo == nil || tempatRepo == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{BookingRepo: bookingRepo, OrderRepo: orderRepo, TempatRepo: tempatRepo}
}

// parseStartHour extracts the whole hour from an HH:MM or HH:MM:SS string.
// Minutes are truncated; bookings are aligned to hour boundaries.
func parseStartHour(s string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 3)
	if parts[0] == "" {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	return h, true
}

// hourString renders an hour count as a TIME literal.  End times past
// midnight are kept as-is (e.g. "25:00:00") so that same-day string
// comparison against stored intervals stays monotonic.
func hourString(h int) string {
	return fmt.Sprintf("%02d:00:00", h)
}

// CheckSeats handles GET /bookings/check-seats.  Given a venue, date,
// start time and duration it returns the seat numbers already occupied for
// the requested interval.  Pure read; no authentication required so
// clients can preview availability before logging in.
func (h *BookingHandler) CheckSeats(c echo.Context) error {
	tempatStr := c.QueryParam("tempat_id")
	tanggal := c.QueryParam("tanggal")
	startStr := c.QueryParam("start_time")
	durStr := c.QueryParam("duration")
	if tempatStr == "" || tanggal == "" || startStr == "" || durStr == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tempat_id, tanggal, start_time and duration are required"})
	}
	tempatID, err := strconv.ParseUint(tempatStr, 10, 64)
	if err != nil || tempatID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tempat_id"})
	}
	startHour, ok := parseStartHour(startStr)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_time"})
	}
	duration, err := strconv.Atoi(durStr)
	if err != nil || duration < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration must be a positive number of hours"})
	}

	seats, err := h.BookingRepo.OccupiedSeats(c.Request().Context(), tempatID, tanggal,
		hourString(startHour), hourString(startHour+duration))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check seats"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookedSeats": seats})
}

type cartItemReq struct {
	AlatID         uint64  `json:"alat_id"`
	TipeTransaksi  string  `json:"tipe_transaksi"`
	Jumlah         uint32  `json:"jumlah"`
	HargaTransaksi float64 `json:"harga_transaksi"`
}

type createBookingReq struct {
	TempatID       uint64        `json:"tempat_id"`
	TanggalBooking string        `json:"tanggal_booking"`
	StartTime      string        `json:"start_time"`
	Duration       int           `json:"duration"`
	NoKursiList    []uint32      `json:"no_kursi_list"`
	TotalHargaSpot float64       `json:"total_harga_spot"`
	CartItems      []cartItemReq `json:"cart_items"`
}

// Create handles POST /bookings.  It writes one booking row per requested
// seat plus, when the cart is non-empty, one order with its line items, all
// inside a single transaction.  The availability check is re-run inside
// that transaction so two racing callers cannot both book the same seat:
// the loser sees the winner's rows and gets 409.  Bookings start as pending
// and flip to paid only when their payment is confirmed.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.TanggalBooking) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tanggal_booking is required"})
	}
	if req.TempatID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tempat_id is required"})
	}
	startHour, ok := parseStartHour(req.StartTime)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_time"})
	}
	if req.Duration < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration must be a positive number of hours"})
	}
	if len(req.NoKursiList) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no_kursi_list is required"})
	}
	// Deduplicate seat numbers so a double-submitted seat cannot produce two
	// rows in one call.
	seats := make([]uint32, 0, len(req.NoKursiList))
	seen := make(map[uint32]struct{})
	for _, s := range req.NoKursiList {
		if s == 0 {
			continue
		}
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			seats = append(seats, s)
		}
	}
	if len(seats) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no valid seat numbers provided"})
	}
	for _, item := range req.CartItems {
		if item.TipeTransaksi != model.TransaksiSewa && item.TipeTransaksi != model.TransaksiBeli {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "tipe_transaksi must be sewa or beli"})
		}
		if item.AlatID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "alat_id is required for cart items"})
		}
	}

	ctx := c.Request().Context()
	// Ensure the venue exists before opening the transaction.
	if _, err := h.TempatRepo.GetByID(ctx, req.TempatID); err != nil {
		if err == repository.ErrTempatNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tempat not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	jamMulai := hourString(startHour)
	jamSelesai := hourString(startHour + req.Duration)

	tx, err := h.BookingRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Recheck availability under the transaction's locks.
	occupied, err := h.BookingRepo.OccupiedSeatsTx(ctx, tx, req.TempatID, req.TanggalBooking, jamMulai, jamSelesai)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check seat availability"})
	}
	taken := make([]uint32, 0)
	for _, s := range seats {
		if _, ok := occupied[s]; ok {
			taken = append(taken, s)
		}
	}
	if len(taken) > 0 {
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "some seats are already booked",
			"seats": taken,
		})
	}

	rec := repository.BookingRecord{
		UserID:     userID,
		TempatID:   req.TempatID,
		Tanggal:    req.TanggalBooking,
		JamMulai:   jamMulai,
		JamSelesai: jamSelesai,
		Status:     model.BookingStatusPending,
		HargaKursi: req.TotalHargaSpot / float64(len(seats)),
	}
	bookingIDs, err := h.BookingRepo.CreateSeatsTx(ctx, tx, rec, seats)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create bookings"})
	}

	var orderID uint64
	if len(req.CartItems) > 0 {
		total := 0.0
		details := make([]repository.OrderDetailRecord, 0, len(req.CartItems))
		for _, item := range req.CartItems {
			qty := item.Jumlah
			if qty == 0 {
				qty = 1
			}
			total += float64(qty) * item.HargaTransaksi
			details = append(details, repository.OrderDetailRecord{
				AlatID:        item.AlatID,
				TipeTransaksi: item.TipeTransaksi,
				Jumlah:        qty,
				HargaSatuan:   item.HargaTransaksi,
			})
		}
		order := repository.OrderRecord{
			UserID:     userID,
			TempatID:   req.TempatID,
			Status:     model.BookingStatusPending,
			TotalHarga: total,
		}
		if err := h.OrderRepo.CreateTx(ctx, tx, &order); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create order"})
		}
		for i := range details {
			details[i].OrderID = order.ID
		}
		if err := h.OrderRepo.CreateDetailsBulkTx(ctx, tx, details); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create order details"})
		}
		orderID = order.ID
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	resp := echo.Map{
		"message":     "booking created",
		"booking_ids": bookingIDs,
	}
	if orderID != 0 {
		resp["order_id"] = orderID
	}
	return c.JSON(http.StatusCreated, resp)
}

// GetOrder handles GET /orders/:id.  It returns the caller's order with its
// line items; someone else's order looks identical to a missing one.
func (h *BookingHandler) GetOrder(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	ctx := c.Request().Context()
	order, err := h.OrderRepo.GetByIDForUser(ctx, orderID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load order"})
	}
	lines, err := h.OrderRepo.ListDetails(ctx, orderID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load order details"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":          order.ID,
		"tempat_id":   order.TempatID,
		"status":      order.Status,
		"total_harga": order.TotalHarga,
		"items":       lines,
	})
}

// ListMine handles GET /bookings/my.  It returns the caller's bookings
// joined with venue name and location, newest first.
func (h *BookingHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.BookingRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}
