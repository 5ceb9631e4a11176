package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-reservation/internal/calendar"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

func seedStandardRoom(s *memStore, totalUnits int) model.RoomType {
	rt := model.RoomType{ID: 1, Name: "Standard Double", TotalUnits: totalUnits, BasePriceCents: 12000, Active: true}
	s.addRoomType(rt)
	return rt
}

func occupy(s *memStore, roomTypeID uint64, status model.BookingStatus, checkIn, checkOut string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.bookings = append(s.bookings, &model.Booking{
		ID:            s.nextID,
		BookingNumber: newTestNumber(s.nextID),
		RoomTypeID:    roomTypeID,
		CheckInDate:   day(checkIn),
		CheckOutDate:  day(checkOut),
		Status:        status,
	})
}

func newTestNumber(id uint64) string {
	return "HB-20260701000000-" + string(rune('a'+id%26)) + "00000"
}

func TestUnitsAvailableDefaultCapacity(t *testing.T) {
	s := newMemStore()
	seedStandardRoom(s, 10)
	r := NewResolver(s)

	avail, err := r.UnitsAvailable(context.Background(), 1, day("2026-07-01"))
	require.NoError(t, err)
	assert.Equal(t, 10, avail)
}

func TestUnitsAvailableSubtractsOccupyingStatusesOnly(t *testing.T) {
	s := newMemStore()
	seedStandardRoom(s, 10)
	occupy(s, 1, model.StatusPending, "2026-07-01", "2026-07-03")
	occupy(s, 1, model.StatusConfirmed, "2026-07-01", "2026-07-02")
	occupy(s, 1, model.StatusCancelled, "2026-07-01", "2026-07-02")
	occupy(s, 1, model.StatusCompleted, "2026-07-01", "2026-07-02")
	occupy(s, 1, model.StatusNoShow, "2026-07-01", "2026-07-02")
	r := NewResolver(s)

	avail, err := r.UnitsAvailable(context.Background(), 1, day("2026-07-01"))
	require.NoError(t, err)
	assert.Equal(t, 8, avail, "only PENDING and CONFIRMED occupy")
}

func TestUnitsAvailableCheckOutDayIsFree(t *testing.T) {
	s := newMemStore()
	seedStandardRoom(s, 1)
	occupy(s, 1, model.StatusConfirmed, "2026-07-01", "2026-07-03")
	r := NewResolver(s)

	avail, err := r.UnitsAvailable(context.Background(), 1, day("2026-07-03"))
	require.NoError(t, err)
	assert.Equal(t, 1, avail, "departure day is not occupied")
}

func TestOverrideReplacesCeilingEntirely(t *testing.T) {
	s := newMemStore()
	seedStandardRoom(s, 10)
	s.setOverride(1, day("2026-07-01"), 3)
	r := NewResolver(s)

	avail, err := r.UnitsAvailable(context.Background(), 1, day("2026-07-01"))
	require.NoError(t, err)
	assert.Equal(t, 3, avail)

	// Zero closes the night outright.
	s.setOverride(1, day("2026-07-02"), 0)
	avail, err = r.UnitsAvailable(context.Background(), 1, day("2026-07-02"))
	require.NoError(t, err)
	assert.Equal(t, 0, avail)
}

func TestOverrideStillSubtractsBookedAndBlocked(t *testing.T) {
	s := newMemStore()
	seedStandardRoom(s, 10)
	s.setOverride(1, day("2026-07-01"), 5)
	s.setBlock(1, day("2026-07-01"), 2)
	occupy(s, 1, model.StatusConfirmed, "2026-07-01", "2026-07-02")
	r := NewResolver(s)

	avail, err := r.UnitsAvailable(context.Background(), 1, day("2026-07-01"))
	require.NoError(t, err)
	assert.Equal(t, 2, avail, "override is the ceiling, not the result")
}

func TestAvailabilityClampedAtZero(t *testing.T) {
	s := newMemStore()
	seedStandardRoom(s, 2)
	// Admin lowered capacity below existing occupancy.
	occupy(s, 1, model.StatusConfirmed, "2026-07-01", "2026-07-02")
	occupy(s, 1, model.StatusConfirmed, "2026-07-01", "2026-07-02")
	s.setOverride(1, day("2026-07-01"), 1)
	r := NewResolver(s)

	avail, err := r.UnitsAvailable(context.Background(), 1, day("2026-07-01"))
	require.NoError(t, err)
	assert.Equal(t, 0, avail, "never negative")
}

func TestRangeAvailabilityIsMinimumOverNights(t *testing.T) {
	s := newMemStore()
	seedStandardRoom(s, 10)
	s.setOverride(1, day("2026-07-02"), 4)
	s.setBlock(1, day("2026-07-03"), 7)
	r := NewResolver(s)

	avail, err := r.UnitsAvailableRange(context.Background(), 1, day("2026-07-01"), day("2026-07-04"))
	require.NoError(t, err)
	assert.Equal(t, 3, avail, "tightest night (10-7 blocked) bounds the stay")
}

func TestRangeAvailabilityZeroNightShortCircuits(t *testing.T) {
	s := newMemStore()
	seedStandardRoom(s, 10)
	s.setOverride(1, day("2026-07-02"), 0)
	r := NewResolver(s)

	avail, err := r.UnitsAvailableRange(context.Background(), 1, day("2026-07-01"), day("2026-07-05"))
	require.NoError(t, err)
	assert.Equal(t, 0, avail)
}

func TestRangeAvailabilityRejectsEmptyRange(t *testing.T) {
	s := newMemStore()
	seedStandardRoom(s, 10)
	r := NewResolver(s)

	_, err := r.UnitsAvailableRange(context.Background(), 1, day("2026-07-01"), day("2026-07-01"))
	assert.ErrorIs(t, err, calendar.ErrInvalidRange)
}

func TestNightDetailReportsDerivation(t *testing.T) {
	s := newMemStore()
	seedStandardRoom(s, 10)
	s.setOverride(1, day("2026-07-01"), 6)
	s.setBlock(1, day("2026-07-01"), 1)
	occupy(s, 1, model.StatusPending, "2026-07-01", "2026-07-02")
	r := NewResolver(s)

	d, err := r.NightDetail(context.Background(), 1, day("2026-07-01"))
	require.NoError(t, err)
	assert.Equal(t, "Standard Double", d.RoomTypeName)
	assert.Equal(t, 10, d.TotalUnits)
	assert.Equal(t, 6, d.CapacityCeiling)
	assert.Equal(t, 1, d.OccupiedUnits)
	assert.Equal(t, 1, d.BlockedUnits)
	assert.Equal(t, 4, d.Available)
	assert.True(t, d.HasOverride)
}

func TestCatalogIncludesZeroAvailability(t *testing.T) {
	s := newMemStore()
	seedStandardRoom(s, 10)
	s.addRoomType(model.RoomType{ID: 2, Name: "Suite", TotalUnits: 1, Active: true})
	s.addRoomType(model.RoomType{ID: 3, Name: "Retired", TotalUnits: 5, Active: false})
	occupy(s, 2, model.StatusConfirmed, "2026-07-01", "2026-07-05")
	r := NewResolver(s)

	rows, err := r.AvailabilityForCatalog(context.Background(), day("2026-07-01"), day("2026-07-03"))
	require.NoError(t, err)
	require.Len(t, rows, 2, "inactive types are excluded")
	assert.Equal(t, 10, rows[0].AvailableUnits)
	assert.Equal(t, 0, rows[1].AvailableUnits, "sold out is a result, not an error")
}

func TestUnknownRoomTypeIsNotFound(t *testing.T) {
	s := newMemStore()
	r := NewResolver(s)

	_, err := r.UnitsAvailable(context.Background(), 42, day("2026-07-01"))
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}
