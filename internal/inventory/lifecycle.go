package inventory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/calendar"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Lifecycle manages booking state after creation: guest self-service
// cancellation and lookup, admin transitions, the stale-PENDING sweep, and
// the grouped-reservation projection used by every listing surface.
type Lifecycle struct {
	store Store
	now   func() time.Time
}

// NewLifecycle returns a Lifecycle mutating through store.
func NewLifecycle(store Store) *Lifecycle {
	return &Lifecycle{store: store, now: time.Now}
}

// CancelledGroup reports the outcome of a group cancellation.
type CancelledGroup struct {
	GroupKey    string          `json:"group_key"`
	CancelledAt time.Time       `json:"cancelled_at"`
	Bookings    []model.Booking `json:"bookings"`
}

// authorize loads the booking by number and checks the guest email shared
// secret.  The comparison is case-insensitive on the email.
func (m *Lifecycle) authorize(ctx context.Context, bookingNumber, guestEmail string) (*model.Booking, error) {
	b, err := m.store.BookingByNumber(ctx, bookingNumber)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(strings.TrimSpace(guestEmail), b.GuestEmail) {
		return nil, ErrForbidden
	}
	return b, nil
}

// LookupReservation returns every booking in the group of the named
// booking, after verifying the guest email.  Read-only.
func (m *Lifecycle) LookupReservation(ctx context.Context, bookingNumber, guestEmail string) ([]model.Booking, error) {
	b, err := m.authorize(ctx, bookingNumber, guestEmail)
	if err != nil {
		return nil, err
	}
	return m.store.BookingsInGroup(ctx, b)
}

// CancelReservation cancels the whole reservation group of the named
// booking: every member still occupying inventory transitions to CANCELLED
// with one shared cancelledAt timestamp.  Cancelling frees the occupied
// units for subsequent availability queries immediately.  It fails with
// *InvalidStateError when the group is already terminal.
func (m *Lifecycle) CancelReservation(ctx context.Context, bookingNumber, guestEmail string) (*CancelledGroup, error) {
	b, err := m.authorize(ctx, bookingNumber, guestEmail)
	if err != nil {
		return nil, err
	}
	cancelledAt := m.now().UTC()
	n, err := m.store.CancelGroup(ctx, b, cancelledAt)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, &InvalidStateError{From: b.Status, To: model.StatusCancelled}
	}
	members, err := m.store.BookingsInGroup(ctx, b)
	if err != nil {
		return nil, err
	}
	return &CancelledGroup{GroupKey: b.GroupKey(), CancelledAt: cancelledAt, Bookings: members}, nil
}

// Confirm moves a PENDING booking to CONFIRMED (admin action).
func (m *Lifecycle) Confirm(ctx context.Context, bookingNumber string) (*model.Booking, error) {
	return m.transition(ctx, bookingNumber, model.StatusConfirmed, nil)
}

// Complete moves a CONFIRMED booking to COMPLETED, typically after
// checkout (admin action).
func (m *Lifecycle) Complete(ctx context.Context, bookingNumber string) (*model.Booking, error) {
	return m.transition(ctx, bookingNumber, model.StatusCompleted, nil)
}

// MarkNoShow moves an active booking to NO_SHOW.  Only permitted once the
// check-in date has passed.
func (m *Lifecycle) MarkNoShow(ctx context.Context, bookingNumber string) (*model.Booking, error) {
	guard := func(b *model.Booking) error {
		if !calendar.Normalize(m.now()).After(calendar.Normalize(b.CheckInDate)) {
			return validationf("booking %s cannot be marked no-show before its check-in date has passed", b.BookingNumber)
		}
		return nil
	}
	return m.transition(ctx, bookingNumber, model.StatusNoShow, guard)
}

func (m *Lifecycle) transition(ctx context.Context, bookingNumber string, to model.BookingStatus, guard func(*model.Booking) error) (*model.Booking, error) {
	b, err := m.store.BookingByNumber(ctx, bookingNumber)
	if err != nil {
		return nil, err
	}
	if !b.Status.CanTransition(to) {
		return nil, &InvalidStateError{From: b.Status, To: to}
	}
	if guard != nil {
		if err := guard(b); err != nil {
			return nil, err
		}
	}
	ok, err := m.store.TransitionBooking(ctx, b.ID, b.Status, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Someone else moved the booking between our read and the update.
		return nil, ErrConflict
	}
	return m.store.BookingByNumber(ctx, bookingNumber)
}

// ExpireStalePending cancels PENDING bookings whose check-in date has
// already passed without confirmation, freeing their units.  This is the
// policy hook for the open question of indefinitely occupying un-confirmed
// requests; when and how often it runs is an external scheduling concern.
// It returns the bookings it cancelled.
func (m *Lifecycle) ExpireStalePending(ctx context.Context) ([]model.Booking, error) {
	cutoff := calendar.Normalize(m.now())
	stale, err := m.store.StalePendingBookings(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	cancelledAt := m.now().UTC()
	var expired []model.Booking
	for i := range stale {
		ok, err := m.store.TransitionBooking(ctx, stale[i].ID, model.StatusPending, model.StatusCancelled)
		if err != nil {
			return expired, err
		}
		if ok {
			stale[i].Status = model.StatusCancelled
			at := cancelledAt
			stale[i].CancelledAt = &at
			expired = append(expired, stale[i])
		}
	}
	return expired, nil
}

// GroupByReservation folds a flat booking list into reservation groups,
// keyed by the shared group id or the booking number for singletons.  The
// projection is pure and deterministic: groups are ordered by the creation
// time of their first booking, newest first, and members keep ascending id
// order.
func GroupByReservation(bookings []model.Booking) []model.ReservationGroup {
	byKey := make(map[string]*model.ReservationGroup)
	order := make([]string, 0)
	for _, b := range bookings {
		key := b.GroupKey()
		g, ok := byKey[key]
		if !ok {
			g = &model.ReservationGroup{
				GroupKey:     key,
				GuestName:    b.GuestName,
				GuestEmail:   b.GuestEmail,
				GuestPhone:   b.GuestPhone,
				CheckInDate:  b.CheckInDate,
				CheckOutDate: b.CheckOutDate,
				Status:       b.Status,
				CreatedAt:    b.CreatedAt,
			}
			byKey[key] = g
			order = append(order, key)
		}
		g.TotalPriceCents += b.TotalPriceCents
		g.Bookings = append(g.Bookings, b)
	}
	groups := make([]model.ReservationGroup, 0, len(byKey))
	for _, key := range order {
		g := byKey[key]
		sort.Slice(g.Bookings, func(i, j int) bool { return g.Bookings[i].ID < g.Bookings[j].ID })
		groups = append(groups, *g)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].CreatedAt.After(groups[j].CreatedAt) })
	return groups
}
