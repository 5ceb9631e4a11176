package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/inventory"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// AdminLifecycle covers the staff-side booking operations.
type AdminLifecycle interface {
	Confirm(ctx context.Context, bookingNumber string) (*model.Booking, error)
	Complete(ctx context.Context, bookingNumber string) (*model.Booking, error)
	MarkNoShow(ctx context.Context, bookingNumber string) (*model.Booking, error)
	ExpireStalePending(ctx context.Context) ([]model.Booking, error)
}

// BookingLister loads bookings for the admin listing surfaces.
type BookingLister interface {
	ListBookings(ctx context.Context) ([]model.Booking, error)
	BookingsByGuestEmail(ctx context.Context, email string) ([]model.Booking, error)
}

// BookingAdminHandler exposes the staff booking surface: the grouped
// reservation listing, status transitions by booking number, and the
// stale-PENDING sweep.
type BookingAdminHandler struct {
	Lifecycle AdminLifecycle
	Store     BookingLister
}

func NewBookingAdminHandler(lifecycle AdminLifecycle, store BookingLister) *BookingAdminHandler {
	return &BookingAdminHandler{Lifecycle: lifecycle, Store: store}
}

// List handles GET /v1/admin/bookings, folding the flat rows into
// reservation groups so a three-room checkout reads as one reservation.
// An optional ?guest_email filter narrows the listing to one guest's
// history.
func (h *BookingAdminHandler) List(c echo.Context) error {
	var (
		bookings []model.Booking
		err      error
	)
	if email := strings.TrimSpace(c.QueryParam("guest_email")); email != "" {
		bookings, err = h.Store.BookingsByGuestEmail(c.Request().Context(), email)
	} else {
		bookings, err = h.Store.ListBookings(c.Request().Context())
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	groups := inventory.GroupByReservation(bookings)
	return c.JSON(http.StatusOK, echo.Map{"items": groups})
}

// Confirm handles POST /v1/admin/bookings/:number/confirm.
func (h *BookingAdminHandler) Confirm(c echo.Context) error {
	return h.transition(c, h.Lifecycle.Confirm)
}

// Complete handles POST /v1/admin/bookings/:number/complete.
func (h *BookingAdminHandler) Complete(c echo.Context) error {
	return h.transition(c, h.Lifecycle.Complete)
}

// NoShow handles POST /v1/admin/bookings/:number/no-show.  Rejected until
// the booking's check-in date has passed.
func (h *BookingAdminHandler) NoShow(c echo.Context) error {
	return h.transition(c, h.Lifecycle.MarkNoShow)
}

func (h *BookingAdminHandler) transition(c echo.Context, op func(context.Context, string) (*model.Booking, error)) error {
	number := strings.TrimSpace(c.Param("number"))
	if number == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking number required"})
	}
	b, err := op(c.Request().Context(), number)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// ExpirePending handles POST /v1/admin/bookings/expire-pending: cancels
// PENDING bookings whose check-in date has passed, freeing their units.
func (h *BookingAdminHandler) ExpirePending(c echo.Context) error {
	expired, err := h.Lifecycle.ExpireStalePending(c.Request().Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"expired": len(expired),
		"items":   expired,
	})
}
