package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ZharfanFw/kailku-mobile-sub000/internal/model"
	"github.com/ZharfanFw/kailku-mobile-sub000/internal/queue"
	"github.com/ZharfanFw/kailku-mobile-sub000/internal/repository"
	"github.com/ZharfanFw/kailku-mobile-sub000/internal/service/queue_publisher"
)

// PaymentHandler implements the payment lifecycle: creating a tagihan that
// links existing bookings/orders, reading it back, and confirming it.  The
// confirm fan-out (payment becomes berhasil, linked rows become paid) runs
// in one transaction; the broker publish happens only after commit, when
// the database connection has been returned to the pool.
type PaymentHandler struct {
	PaymentRepo *repository.PaymentRepo
	BookingRepo *repository.BookingRepo
	OrderRepo   *repository.OrderRepo

	// publish sends the assembled confirmation event to the broker.
	publish func(ctx context.Context, ev queue.PaymentConfirmedEvent) error
	// confirmed runs after a confirm transaction commits.  The default
	// assembles and publishes the event in the background; tests swap it
	// out to observe the trigger without touching the broker.
	confirmed func(paymentID uint64)
}

// NewPaymentHandler constructs a PaymentHandler.  All dependencies must be
// non-nil.
func NewPaymentHandler(paymentRepo *repository.PaymentRepo, bookingRepo *repository.BookingRepo, orderRepo *repository.OrderRepo) *PaymentHandler {
	if paymentRepo == nil || bookingRepo == nil || orderRepo == nil {
		panic("nil repository passed to NewPaymentHandler")
	}
	h := &PaymentHandler{PaymentRepo: paymentRepo, BookingRepo: bookingRepo, OrderRepo: orderRepo}
	h.publish = queue_publisher.PublishPaymentConfirmed
	h.confirmed = func(paymentID uint64) { go h.publishConfirmed(paymentID) }
	return h
}

type createPaymentReq struct {
	BookingIDs    []uint64 `json:"booking_ids"`
	OrderIDs      []uint64 `json:"order_ids"`
	PaymentMethod string   `json:"payment_method"`
	TotalAmount   float64  `json:"total_amount"`
}

// Create handles POST /payment/create.  In one transaction it inserts a
// payment with status menunggu_verifikasi and links the caller's bookings
// and orders to it.  A linkage shortfall (unknown IDs, or rows owned by
// someone else) rolls everything back, including the payment row itself.
func (h *PaymentHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.PaymentMethod) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_method is required"})
	}
	if len(req.BookingIDs) == 0 && len(req.OrderIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one booking or order id is required"})
	}
	if req.TotalAmount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_amount must be positive"})
	}
	method := repository.NormalizeMethod(req.PaymentMethod)

	ctx := c.Request().Context()
	tx, err := h.PaymentRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	paymentID, err := h.PaymentRepo.CreateTx(ctx, tx, userID, method, req.TotalAmount)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create payment"})
	}
	if len(req.BookingIDs) > 0 {
		n, err := h.BookingRepo.LinkPaymentTx(ctx, tx, paymentID, userID, req.BookingIDs)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to link bookings"})
		}
		if n != int64(len(req.BookingIDs)) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "some bookings were not found for this user"})
		}
	}
	if len(req.OrderIDs) > 0 {
		n, err := h.OrderRepo.LinkPaymentTx(ctx, tx, paymentID, userID, req.OrderIDs)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to link orders"})
		}
		if n != int64(len(req.OrderIDs)) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "some orders were not found for this user"})
		}
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	return c.JSON(http.StatusCreated, echo.Map{"payment_id": paymentID})
}

// Get handles GET /payment/:id.  The read is scoped to the payment's owner;
// a payment belonging to someone else is indistinguishable from a missing
// one.
func (h *PaymentHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	paymentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || paymentID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}
	p, err := h.PaymentRepo.GetByIDForUser(c.Request().Context(), paymentID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch payment"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":                p.ID,
		"user_id":           p.UserID,
		"metode_pembayaran": p.MetodePembayaran,
		"jumlah":            p.Jumlah,
		"status":            p.Status,
		"created_at":        p.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// Confirm handles POST /payment/:id/pay.  In one transaction it flips the
// payment to berhasil and every linked booking and order to paid.  Only the
// payment's owner (or an ADMIN) may confirm, and a terminal payment cannot
// be confirmed twice.
func (h *PaymentHandler) Confirm(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	paymentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || paymentID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}

	ctx := c.Request().Context()
	tx, err := h.PaymentRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.PaymentRepo.LockForConfirmTx(ctx, tx, paymentID, userID, isAdmin(c)); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payment not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "payment already confirmed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load payment"})
	}
	if err := h.PaymentRepo.SetStatusTx(ctx, tx, paymentID, model.PaymentStatusBerhasil); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update payment"})
	}
	if err := h.BookingRepo.SetStatusByPaymentTx(ctx, tx, paymentID, model.BookingStatusPaid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update bookings"})
	}
	if err := h.OrderRepo.SetStatusByPaymentTx(ctx, tx, paymentID, model.BookingStatusPaid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update orders"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	// Best-effort event publish; the confirmation itself already committed.
	h.confirmed(paymentID)

	return c.JSON(http.StatusOK, echo.Map{"message": "payment confirmed"})
}

func (h *PaymentHandler) publishConfirmed(paymentID uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	// Authorization was settled before the commit, so the load is keyed on
	// the payment alone.  An owner-scoped read here would drop the event
	// whenever an admin confirmed someone else's payment.
	p, err := h.PaymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return
	}
	bookingIDs, orderIDs, err := h.PaymentRepo.LinkedIDs(ctx, paymentID)
	if err != nil {
		return
	}
	_ = h.publish(ctx, queue.PaymentConfirmedEvent{
		PaymentID:        p.ID,
		UserID:           p.UserID,
		MetodePembayaran: p.MetodePembayaran,
		Jumlah:           p.Jumlah,
		BookingIDs:       bookingIDs,
		OrderIDs:         orderIDs,
		ConfirmedAt:      time.Now().UTC().Format(time.RFC3339),
	})
}
