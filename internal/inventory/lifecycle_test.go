package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

func reserve(t *testing.T, s *memStore, qty int, in, out string) *ReservationResult {
	t.Helper()
	ac := NewAdmissionController(s)
	res, err := ac.CreateReservation(context.Background(), []Selection{{RoomTypeID: 1, Quantity: qty}},
		day(in), day(out), testGuest)
	require.NoError(t, err)
	return res
}

func TestLookupRequiresMatchingEmail(t *testing.T) {
	s := newMemStore()
	seedStandardRoom(s, 10)
	res := reserve(t, s, 1, "2026-07-01", "2026-07-03")
	lc := NewLifecycle(s)

	number := res.Bookings[0].BookingNumber

	_, err := lc.LookupReservation(context.Background(), number, "intruder@example.com")
	assert.ErrorIs(t, err, ErrForbidden)

	// Case-insensitive match on the shared secret.
	members, err := lc.LookupReservation(context.Background(), number, "ADA@example.COM")
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestLookupUnknownBooking(t *testing.T) {
	s := newMemStore()
	lc := NewLifecycle(s)

	_, err := lc.LookupReservation(context.Background(), "HB-19700101000000-000000", "ada@example.com")
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestCancelGroupIsAtomicAndFreesInventory(t *testing.T) {
	s := newMemStore()
	seedStandardRoom(s, 3)
	res := reserve(t, s, 3, "2026-07-01", "2026-07-03")
	lc := NewLifecycle(s)
	r := NewResolver(s)

	avail, err := r.UnitsAvailableRange(context.Background(), 1, day("2026-07-01"), day("2026-07-03"))
	require.NoError(t, err)
	require.Equal(t, 0, avail)

	// Cancelling via any member's number cancels the whole group.
	cancelled, err := lc.CancelReservation(context.Background(), res.Bookings[1].BookingNumber, "ada@example.com")
	require.NoError(t, err)
	require.Len(t, cancelled.Bookings, 3)
	for _, b := range cancelled.Bookings {
		assert.Equal(t, model.StatusCancelled, b.Status)
		require.NotNil(t, b.CancelledAt)
		assert.Equal(t, cancelled.CancelledAt, *b.CancelledAt, "one shared timestamp for the group")
	}

	avail, err = r.UnitsAvailableRange(context.Background(), 1, day("2026-07-01"), day("2026-07-03"))
	require.NoError(t, err)
	assert.Equal(t, 3, avail, "units freed immediately")
}

func TestCancelRequiresMatchingEmail(t *testing.T) {
	s := newMemStore()
	seedStandardRoom(s, 10)
	res := reserve(t, s, 1, "2026-07-01", "2026-07-03")
	lc := NewLifecycle(s)

	_, err := lc.CancelReservation(context.Background(), res.Bookings[0].BookingNumber, "intruder@example.com")
	assert.ErrorIs(t, err, ErrForbidden)

	b, err := s.BookingByNumber(context.Background(), res.Bookings[0].BookingNumber)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, b.Status, "booking untouched")
}

func TestCancelTwiceIsInvalidState(t *testing.T) {
	s := newMemStore()
	seedStandardRoom(s, 10)
	res := reserve(t, s, 2, "2026-07-01", "2026-07-03")
	lc := NewLifecycle(s)
	number := res.Bookings[0].BookingNumber

	_, err := lc.CancelReservation(context.Background(), number, "ada@example.com")
	require.NoError(t, err)

	_, err = lc.CancelReservation(context.Background(), number, "ada@example.com")
	var is *InvalidStateError
	assert.ErrorAs(t, err, &is)
}

func TestConfirmAndComplete(t *testing.T) {
	s := newMemStore()
	seedStandardRoom(s, 10)
	res := reserve(t, s, 1, "2026-07-01", "2026-07-03")
	lc := NewLifecycle(s)
	number := res.Bookings[0].BookingNumber

	b, err := lc.Confirm(context.Background(), number)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, b.Status)

	// Confirming twice violates the state machine.
	_, err = lc.Confirm(context.Background(), number)
	var is *InvalidStateError
	assert.ErrorAs(t, err, &is)

	b, err = lc.Complete(context.Background(), number)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, b.Status)
}

func TestCompleteRequiresConfirmed(t *testing.T) {
	s := newMemStore()
	seedStandardRoom(s, 10)
	res := reserve(t, s, 1, "2026-07-01", "2026-07-03")
	lc := NewLifecycle(s)

	_, err := lc.Complete(context.Background(), res.Bookings[0].BookingNumber)
	var is *InvalidStateError
	assert.ErrorAs(t, err, &is)
}

func TestNoShowOnlyAfterCheckInDate(t *testing.T) {
	s := newMemStore()
	seedStandardRoom(s, 10)
	res := reserve(t, s, 1, "2026-07-01", "2026-07-03")
	lc := NewLifecycle(s)
	number := res.Bookings[0].BookingNumber

	// On the check-in day itself the guest may still arrive.
	lc.now = func() time.Time { return day("2026-07-01").Add(23 * time.Hour) }
	_, err := lc.MarkNoShow(context.Background(), number)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)

	lc.now = func() time.Time { return day("2026-07-02").Add(9 * time.Hour) }
	b, err := lc.MarkNoShow(context.Background(), number)
	require.NoError(t, err)
	assert.Equal(t, model.StatusNoShow, b.Status)
}

func TestNoShowFreesInventory(t *testing.T) {
	s := newMemStore()
	seedStandardRoom(s, 1)
	res := reserve(t, s, 1, "2026-07-01", "2026-07-05")
	lc := NewLifecycle(s)
	lc.now = func() time.Time { return day("2026-07-02") }
	r := NewResolver(s)

	_, err := lc.MarkNoShow(context.Background(), res.Bookings[0].BookingNumber)
	require.NoError(t, err)

	avail, err := r.UnitsAvailable(context.Background(), 1, day("2026-07-03"))
	require.NoError(t, err)
	assert.Equal(t, 1, avail)
}

func TestExpireStalePending(t *testing.T) {
	s := newMemStore()
	seedStandardRoom(s, 10)
	stale := reserve(t, s, 1, "2026-07-01", "2026-07-03")
	future := reserve(t, s, 1, "2026-09-01", "2026-09-03")
	confirmed := reserve(t, s, 1, "2026-07-01", "2026-07-02")

	lc := NewLifecycle(s)
	_, err := lc.Confirm(context.Background(), confirmed.Bookings[0].BookingNumber)
	require.NoError(t, err)

	lc.now = func() time.Time { return day("2026-07-10") }
	expired, err := lc.ExpireStalePending(context.Background())
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, stale.Bookings[0].BookingNumber, expired[0].BookingNumber)
	assert.Equal(t, model.StatusCancelled, expired[0].Status)

	b, _ := s.BookingByNumber(context.Background(), future.Bookings[0].BookingNumber)
	assert.Equal(t, model.StatusPending, b.Status, "future bookings untouched")
	b, _ = s.BookingByNumber(context.Background(), confirmed.Bookings[0].BookingNumber)
	assert.Equal(t, model.StatusConfirmed, b.Status, "confirmed bookings untouched")
}

func TestGroupByReservation(t *testing.T) {
	gid := "5f1c9b1e-0000-4000-8000-00000000abcd"
	older := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)
	bookings := []model.Booking{
		{ID: 3, BookingNumber: "HB-3", ReservationGroupID: &gid, GuestName: "Ada", TotalPriceCents: 100, CreatedAt: older, Status: model.StatusPending},
		{ID: 5, BookingNumber: "HB-5", GuestName: "Grace", TotalPriceCents: 700, CreatedAt: newer, Status: model.StatusConfirmed},
		{ID: 2, BookingNumber: "HB-2", ReservationGroupID: &gid, GuestName: "Ada", TotalPriceCents: 100, CreatedAt: older, Status: model.StatusPending},
	}

	groups := GroupByReservation(bookings)
	require.Len(t, groups, 2)

	assert.Equal(t, "HB-5", groups[0].GroupKey, "newest reservation first")
	assert.Equal(t, int64(700), groups[0].TotalPriceCents)

	g := groups[1]
	assert.Equal(t, gid, g.GroupKey)
	assert.Equal(t, int64(200), g.TotalPriceCents, "price summed over members")
	require.Len(t, g.Bookings, 2)
	assert.Equal(t, uint64(2), g.Bookings[0].ID, "members in ascending id order")
	assert.Equal(t, uint64(3), g.Bookings[1].ID)
}

func TestGroupByReservationDeterministic(t *testing.T) {
	bookings := []model.Booking{
		{ID: 1, BookingNumber: "HB-1", CreatedAt: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 2, BookingNumber: "HB-2", CreatedAt: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	first := GroupByReservation(bookings)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, GroupByReservation(bookings))
	}
}
