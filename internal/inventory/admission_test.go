package inventory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

var testGuest = GuestInfo{Name: "Ada Lovelace", Email: "Ada@Example.com", Phone: "+44 20 7946 0000"}

func TestCreateReservationSingleUnit(t *testing.T) {
	s := newMemStore()
	seedStandardRoom(s, 10)
	ac := NewAdmissionController(s)

	res, err := ac.CreateReservation(context.Background(), []Selection{{RoomTypeID: 1, Quantity: 1}},
		day("2026-07-01"), day("2026-07-04"), testGuest)
	require.NoError(t, err)

	require.Len(t, res.Bookings, 1)
	assert.Nil(t, res.ReservationGroupID, "single unit needs no group")
	b := res.Bookings[0]
	assert.Equal(t, model.StatusPending, b.Status)
	assert.Equal(t, 3, b.NumberOfNights)
	assert.Equal(t, int64(36000), b.TotalPriceCents, "base price times nights")
	assert.Equal(t, "ada@example.com", b.GuestEmail, "email stored lowercased")
	assert.True(t, strings.HasPrefix(b.BookingNumber, "HB-"))
}

func TestCreateReservationMultiUnitSharesGroup(t *testing.T) {
	s := newMemStore()
	seedStandardRoom(s, 10)
	s.addRoomType(model.RoomType{ID: 2, Name: "Suite", TotalUnits: 4, BasePriceCents: 30000, Active: true})
	ac := NewAdmissionController(s)

	res, err := ac.CreateReservation(context.Background(),
		[]Selection{{RoomTypeID: 1, Quantity: 2}, {RoomTypeID: 2, Quantity: 1}},
		day("2026-07-01"), day("2026-07-03"), testGuest)
	require.NoError(t, err)

	require.NotNil(t, res.ReservationGroupID)
	require.Len(t, res.Bookings, 3, "one row per unit")
	numbers := map[string]struct{}{}
	for _, b := range res.Bookings {
		require.NotNil(t, b.ReservationGroupID)
		assert.Equal(t, *res.ReservationGroupID, *b.ReservationGroupID)
		numbers[b.BookingNumber] = struct{}{}
	}
	assert.Len(t, numbers, 3, "booking numbers are unique")
}

func TestCreateReservationConsumesInventory(t *testing.T) {
	s := newMemStore()
	seedStandardRoom(s, 2)
	ac := NewAdmissionController(s)
	r := NewResolver(s)

	_, err := ac.CreateReservation(context.Background(), []Selection{{RoomTypeID: 1, Quantity: 2}},
		day("2026-07-01"), day("2026-07-03"), testGuest)
	require.NoError(t, err)

	avail, err := r.UnitsAvailableRange(context.Background(), 1, day("2026-07-01"), day("2026-07-03"))
	require.NoError(t, err)
	assert.Equal(t, 0, avail)

	// The next admission for any overlapping night must fail.
	_, err = ac.CreateReservation(context.Background(), []Selection{{RoomTypeID: 1, Quantity: 1}},
		day("2026-07-02"), day("2026-07-03"), testGuest)
	var ia *InsufficientAvailabilityError
	require.ErrorAs(t, err, &ia)
	assert.Equal(t, 1, ia.Requested)
	assert.Equal(t, 0, ia.Available)
}

func TestCreateReservationInsufficientReportsFigures(t *testing.T) {
	s := newMemStore()
	seedStandardRoom(s, 3)
	occupy(s, 1, model.StatusConfirmed, "2026-07-01", "2026-07-02")
	ac := NewAdmissionController(s)

	_, err := ac.CreateReservation(context.Background(), []Selection{{RoomTypeID: 1, Quantity: 3}},
		day("2026-07-01"), day("2026-07-02"), testGuest)
	var ia *InsufficientAvailabilityError
	require.ErrorAs(t, err, &ia)
	assert.Equal(t, uint64(1), ia.RoomTypeID)
	assert.Equal(t, "Standard Double", ia.RoomTypeName)
	assert.Equal(t, 3, ia.Requested)
	assert.Equal(t, 2, ia.Available)
}

func TestCreateReservationValidation(t *testing.T) {
	s := newMemStore()
	seedStandardRoom(s, 10)
	ac := NewAdmissionController(s)
	ctx := context.Background()

	cases := []struct {
		name       string
		selections []Selection
		in, out    string
		guest      GuestInfo
	}{
		{"empty range", []Selection{{1, 1}}, "2026-07-01", "2026-07-01", testGuest},
		{"inverted range", []Selection{{1, 1}}, "2026-07-04", "2026-07-01", testGuest},
		{"no selections", nil, "2026-07-01", "2026-07-02", testGuest},
		{"zero quantity", []Selection{{1, 0}}, "2026-07-01", "2026-07-02", testGuest},
		{"duplicate room type", []Selection{{1, 1}, {1, 2}}, "2026-07-01", "2026-07-02", testGuest},
		{"missing name", []Selection{{1, 1}}, "2026-07-01", "2026-07-02", GuestInfo{Email: "a@b.c", Phone: "1"}},
		{"bad email", []Selection{{1, 1}}, "2026-07-01", "2026-07-02", GuestInfo{Name: "A", Email: "not-an-email", Phone: "1"}},
		{"missing phone", []Selection{{1, 1}}, "2026-07-01", "2026-07-02", GuestInfo{Name: "A", Email: "a@b.c"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ac.CreateReservation(ctx, tc.selections, day(tc.in), day(tc.out), tc.guest)
			var ve *ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
}

func TestCreateReservationUnknownOrInactiveRoomType(t *testing.T) {
	s := newMemStore()
	seedStandardRoom(s, 10)
	s.addRoomType(model.RoomType{ID: 2, Name: "Retired", TotalUnits: 5, Active: false})
	ac := NewAdmissionController(s)

	var nf *NotFoundError
	_, err := ac.CreateReservation(context.Background(), []Selection{{RoomTypeID: 42, Quantity: 1}},
		day("2026-07-01"), day("2026-07-02"), testGuest)
	assert.ErrorAs(t, err, &nf)

	_, err = ac.CreateReservation(context.Background(), []Selection{{RoomTypeID: 2, Quantity: 1}},
		day("2026-07-01"), day("2026-07-02"), testGuest)
	assert.ErrorAs(t, err, &nf, "inactive types are not bookable")
}

func TestCreateReservationRollsBackOnInsertFailure(t *testing.T) {
	s := newMemStore()
	seedStandardRoom(s, 10)
	s.insertErr = errors.New("write failed")
	ac := NewAdmissionController(s)
	r := NewResolver(s)

	_, err := ac.CreateReservation(context.Background(), []Selection{{RoomTypeID: 1, Quantity: 3}},
		day("2026-07-01"), day("2026-07-02"), testGuest)
	require.Error(t, err)

	avail, err := r.UnitsAvailable(context.Background(), 1, day("2026-07-01"))
	require.NoError(t, err)
	assert.Equal(t, 10, avail, "no partial reservation is ever visible")
	bookings, _ := s.ListBookings(context.Background())
	assert.Empty(t, bookings)
}

func TestConcurrentAdmissionsLastUnit(t *testing.T) {
	s := newMemStore()
	seedStandardRoom(s, 1)
	ac := NewAdmissionController(s)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = ac.CreateReservation(context.Background(),
				[]Selection{{RoomTypeID: 1, Quantity: 1}},
				day("2026-07-01"), day("2026-07-02"), testGuest)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var ia *InsufficientAvailabilityError
		assert.ErrorAs(t, err, &ia)
	}
	assert.Equal(t, 1, succeeded, "exactly one admission wins the last unit")

	bookings, _ := s.ListBookings(context.Background())
	assert.Len(t, bookings, 1)
}

// Mirrors a season-opening scenario: 5 units, one night overridden down to
// 3, one unit blocked and one already booked on that night.  A request for
// 2 units must fail against the tightest night and report 1 available.
func TestAdmissionBoundByTightestNight(t *testing.T) {
	s := newMemStore()
	s.addRoomType(model.RoomType{ID: 1, Name: "Garden Twin", TotalUnits: 5, BasePriceCents: 15000, Active: true})
	s.setOverride(1, day("2026-08-15"), 3)
	s.setBlock(1, day("2026-08-15"), 1)
	occupy(s, 1, model.StatusConfirmed, "2026-08-14", "2026-08-16")
	ac := NewAdmissionController(s)

	_, err := ac.CreateReservation(context.Background(), []Selection{{RoomTypeID: 1, Quantity: 2}},
		day("2026-08-13"), day("2026-08-17"), testGuest)
	var ia *InsufficientAvailabilityError
	require.ErrorAs(t, err, &ia)
	assert.Equal(t, 1, ia.Available)

	res, err := ac.CreateReservation(context.Background(), []Selection{{RoomTypeID: 1, Quantity: 1}},
		day("2026-08-13"), day("2026-08-17"), testGuest)
	require.NoError(t, err)
	assert.Len(t, res.Bookings, 1)
}

func TestBookingNumbersSortableByCreationTime(t *testing.T) {
	early, err := newBookingNumber(time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	late, err := newBookingNumber(time.Date(2026, 7, 1, 11, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Less(t, early, late)
}
