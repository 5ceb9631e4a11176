package inventory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/calendar"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// memStore is an in-memory Store used by the engine tests.  Reserve holds
// a dedicated admission mutex for the whole callback, mirroring the
// serialization the SQL implementation gets from row locks: two
// overlapping admissions never interleave their re-check and insert.
type memStore struct {
	mu        sync.Mutex
	admit     sync.Mutex
	roomTypes map[uint64]*model.RoomType
	overrides map[string]int
	blocks    map[string]int
	bookings  []*model.Booking
	nextID    uint64

	insertErr error // injected failure for rollback tests
}

func newMemStore() *memStore {
	return &memStore{
		roomTypes: make(map[uint64]*model.RoomType),
		overrides: make(map[string]int),
		blocks:    make(map[string]int),
	}
}

var _ Store = (*memStore)(nil)

func nightKey(roomTypeID uint64, night time.Time) string {
	return fmt.Sprintf("%d|%s", roomTypeID, calendar.Normalize(night).Format(calendar.DayFormat))
}

func (s *memStore) addRoomType(rt model.RoomType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := rt
	s.roomTypes[rt.ID] = &cp
}

func (s *memStore) setOverride(roomTypeID uint64, night time.Time, units int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[nightKey(roomTypeID, night)] = units
}

func (s *memStore) setBlock(roomTypeID uint64, night time.Time, units int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks[nightKey(roomTypeID, night)] = units
}

func (s *memStore) RoomTypeByID(_ context.Context, id uint64) (*model.RoomType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rt, ok := s.roomTypes[id]
	if !ok {
		return nil, &NotFoundError{Resource: "room type"}
	}
	cp := *rt
	return &cp, nil
}

func (s *memStore) ActiveRoomTypes(_ context.Context) ([]model.RoomType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.RoomType, 0, len(s.roomTypes))
	for id := uint64(1); id <= s.nextRoomTypeID(); id++ {
		if rt, ok := s.roomTypes[id]; ok && rt.Active {
			out = append(out, *rt)
		}
	}
	return out, nil
}

func (s *memStore) nextRoomTypeID() uint64 {
	var max uint64
	for id := range s.roomTypes {
		if id > max {
			max = id
		}
	}
	return max
}

func (s *memStore) CapacityCeiling(_ context.Context, roomTypeID uint64, night time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rt, ok := s.roomTypes[roomTypeID]
	if !ok {
		return 0, &NotFoundError{Resource: "room type"}
	}
	if units, ok := s.overrides[nightKey(roomTypeID, night)]; ok {
		return units, nil
	}
	return rt.TotalUnits, nil
}

func (s *memStore) BookedUnits(_ context.Context, roomTypeID uint64, night time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.bookings {
		if b.RoomTypeID == roomTypeID && b.Status.Occupies() &&
			calendar.Contains(b.CheckInDate, b.CheckOutDate, night) {
			n++
		}
	}
	return n, nil
}

func (s *memStore) BlockedUnits(_ context.Context, roomTypeID uint64, night time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blocks[nightKey(roomTypeID, night)], nil
}

func (s *memStore) HasOverride(_ context.Context, roomTypeID uint64, night time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.overrides[nightKey(roomTypeID, night)]
	return ok, nil
}

// stagedWriter buffers inserts until Reserve commits them, so a failed
// callback leaves no partial reservation behind.
type stagedWriter struct {
	s    *memStore
	rows []*model.Booking
}

func (w *stagedWriter) InsertBookings(_ context.Context, bookings []*model.Booking) error {
	if w.s.insertErr != nil {
		return w.s.insertErr
	}
	w.rows = append(w.rows, bookings...)
	return nil
}

func (s *memStore) Reserve(_ context.Context, _ []uint64, fn func(l Ledger, w BookingWriter) error) error {
	s.admit.Lock()
	defer s.admit.Unlock()
	staged := &stagedWriter{s: s}
	if err := fn(s, staged); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range staged.rows {
		s.nextID++
		b.ID = s.nextID
		cp := *b
		s.bookings = append(s.bookings, &cp)
	}
	return nil
}

func (s *memStore) BookingByNumber(_ context.Context, number string) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.BookingNumber == number {
			cp := *b
			return &cp, nil
		}
	}
	return nil, &NotFoundError{Resource: "booking"}
}

func (s *memStore) BookingsInGroup(_ context.Context, b *model.Booking) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Booking, 0)
	for _, m := range s.bookings {
		if m.GroupKey() == b.GroupKey() {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s *memStore) ListBookings(_ context.Context) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, *b)
	}
	return out, nil
}

func (s *memStore) CancelGroup(_ context.Context, b *model.Booking, cancelledAt time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, m := range s.bookings {
		if m.GroupKey() == b.GroupKey() && m.Status.Occupies() {
			m.Status = model.StatusCancelled
			at := cancelledAt
			m.CancelledAt = &at
			n++
		}
	}
	return n, nil
}

func (s *memStore) TransitionBooking(_ context.Context, id uint64, from, to model.BookingStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.bookings {
		if m.ID == id && m.Status == from {
			m.Status = to
			if to == model.StatusCancelled {
				at := time.Now().UTC()
				m.CancelledAt = &at
			}
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) StalePendingBookings(_ context.Context, cutoff time.Time) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Booking, 0)
	for _, b := range s.bookings {
		if b.Status == model.StatusPending && calendar.Normalize(b.CheckInDate).Before(calendar.Normalize(cutoff)) {
			out = append(out, *b)
		}
	}
	return out, nil
}

// day parses a YYYY-MM-DD literal; tests only use valid constants.
func day(s string) time.Time {
	t, err := time.Parse(calendar.DayFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}
