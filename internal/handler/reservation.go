package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/calendar"
	"github.com/iliyamo/hotel-reservation/internal/inventory"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	queue_publisher "github.com/iliyamo/hotel-reservation/internal/service"
)

// Admitter admits new reservations.
type Admitter interface {
	CreateReservation(ctx context.Context, selections []inventory.Selection, checkIn, checkOut time.Time, guest inventory.GuestInfo) (*inventory.ReservationResult, error)
}

// GuestLifecycle covers the guest self-service operations addressed by
// booking number plus guest email.
type GuestLifecycle interface {
	LookupReservation(ctx context.Context, bookingNumber, guestEmail string) ([]model.Booking, error)
	CancelReservation(ctx context.Context, bookingNumber, guestEmail string) (*inventory.CancelledGroup, error)
}

// ReservationHandler serves the public reservation endpoints: checkout,
// lookup and cancellation.  No guest accounts exist; possession of the
// booking number and the matching email authorizes lookup and cancel.
type ReservationHandler struct {
	Admission Admitter
	Lifecycle GuestLifecycle
}

func NewReservationHandler(admission Admitter, lifecycle GuestLifecycle) *ReservationHandler {
	return &ReservationHandler{Admission: admission, Lifecycle: lifecycle}
}

type createReservationReq struct {
	CheckIn    string                `json:"check_in"`
	CheckOut   string                `json:"check_out"`
	Selections []inventory.Selection `json:"selections"`
	GuestName  string                `json:"guest_name"`
	GuestEmail string                `json:"guest_email"`
	GuestPhone string                `json:"guest_phone"`
}

type lookupReq struct {
	BookingNumber string `json:"booking_number"`
	GuestEmail    string `json:"guest_email"`
}

// Create handles POST /v1/reservations.  On success the booking rows are
// PENDING and already occupy inventory; a created event is published to
// the broker on a best-effort basis, off the request path.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	checkIn, err := parseDay(req.CheckIn)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in, want YYYY-MM-DD"})
	}
	checkOut, err := parseDay(req.CheckOut)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_out, want YYYY-MM-DD"})
	}

	guest := inventory.GuestInfo{
		Name:  strings.TrimSpace(req.GuestName),
		Email: strings.TrimSpace(req.GuestEmail),
		Phone: strings.TrimSpace(req.GuestPhone),
	}
	result, err := h.Admission.CreateReservation(c.Request().Context(), req.Selections, checkIn, checkOut, guest)
	if err != nil {
		return writeDomainError(c, err)
	}

	go publishCreatedFn(result)

	return c.JSON(http.StatusCreated, result)
}

// Lookup handles POST /v1/reservations/lookup.  POST rather than GET so
// the guest email never lands in access logs or proxy caches.
func (h *ReservationHandler) Lookup(c echo.Context) error {
	var req lookupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.BookingNumber = strings.TrimSpace(req.BookingNumber)
	if req.BookingNumber == "" || strings.TrimSpace(req.GuestEmail) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_number and guest_email required"})
	}
	bookings, err := h.Lifecycle.LookupReservation(c.Request().Context(), req.BookingNumber, req.GuestEmail)
	if err != nil {
		return writeDomainError(c, err)
	}
	groups := inventory.GroupByReservation(bookings)
	return c.JSON(http.StatusOK, echo.Map{"reservation": groups[0]})
}

// Cancel handles POST /v1/reservations/cancel.  Cancellation covers the
// whole reservation group of the named booking; the freed units are
// visible to availability queries as soon as the call returns.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	var req lookupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.BookingNumber = strings.TrimSpace(req.BookingNumber)
	if req.BookingNumber == "" || strings.TrimSpace(req.GuestEmail) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_number and guest_email required"})
	}
	cancelled, err := h.Lifecycle.CancelReservation(c.Request().Context(), req.BookingNumber, req.GuestEmail)
	if err != nil {
		return writeDomainError(c, err)
	}

	go publishCancelledFn(cancelled)

	return c.JSON(http.StatusOK, cancelled)
}

// Indirection for tests; broker publishing is fire-and-forget.
var (
	publishCreatedFn   = publishCreated
	publishCancelledFn = publishCancelled
)

func publishCreated(result *inventory.ReservationResult) {
	if len(result.Bookings) == 0 {
		return
	}
	first := result.Bookings[0]
	ev := queue.ReservationCreatedEvent{
		GroupKey:     first.GroupKey(),
		GuestName:    first.GuestName,
		GuestEmail:   first.GuestEmail,
		CheckInDate:  first.CheckInDate.Format(calendar.DayFormat),
		CheckOutDate: first.CheckOutDate.Format(calendar.DayFormat),
		Units:        len(result.Bookings),
		CreatedAt:    first.CreatedAt.Format(time.RFC3339),
	}
	for _, b := range result.Bookings {
		ev.BookingNumbers = append(ev.BookingNumbers, b.BookingNumber)
		ev.TotalPriceCents += b.TotalPriceCents
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = queue_publisher.PublishReservationCreated(ctx, ev)
}

func publishCancelled(group *inventory.CancelledGroup) {
	if len(group.Bookings) == 0 {
		return
	}
	ev := queue.ReservationCancelledEvent{
		GroupKey:    group.GroupKey,
		GuestEmail:  group.Bookings[0].GuestEmail,
		CancelledAt: group.CancelledAt.Format(time.RFC3339),
	}
	for _, b := range group.Bookings {
		ev.BookingNumbers = append(ev.BookingNumbers, b.BookingNumber)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = queue_publisher.PublishReservationCancelled(ctx, ev)
}
