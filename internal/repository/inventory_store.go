package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/calendar"
	"github.com/iliyamo/hotel-reservation/internal/inventory"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// InventoryStore implements inventory.Store on MySQL.  Plain ledger reads
// run against the pool; Reserve runs its callback inside a transaction
// that holds FOR UPDATE locks on the affected room_types rows, which
// serializes conflicting admissions so the availability re-check and the
// booking inserts cannot interleave with a competing reservation.
type InventoryStore struct {
	db        *sql.DB
	roomTypes *RoomTypeRepo
	bookings  *BookingRepo
}

// NewInventoryStore wires the store from the shared repositories.
func NewInventoryStore(db *sql.DB, roomTypes *RoomTypeRepo, bookings *BookingRepo) *InventoryStore {
	return &InventoryStore{db: db, roomTypes: roomTypes, bookings: bookings}
}

var _ inventory.Store = (*InventoryStore)(nil)

// ledgerQueries implements inventory.Ledger over any querier, so the same
// code serves the pool and an open admission transaction.
type ledgerQueries struct {
	q querier
}

func (l ledgerQueries) RoomTypeByID(ctx context.Context, id uint64) (*model.RoomType, error) {
	rt, err := scanRoomType(l.q.QueryRowContext(ctx,
		`SELECT `+roomTypeColumns+` FROM room_types WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &inventory.NotFoundError{Resource: "room type"}
	}
	return rt, err
}

func (l ledgerQueries) ActiveRoomTypes(ctx context.Context) ([]model.RoomType, error) {
	rows, err := l.q.QueryContext(ctx,
		`SELECT `+roomTypeColumns+` FROM room_types WHERE is_active = 1 ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.RoomType, 0)
	for rows.Next() {
		rt, err := scanRoomType(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rt)
	}
	return out, rows.Err()
}

func (l ledgerQueries) CapacityCeiling(ctx context.Context, roomTypeID uint64, night time.Time) (int, error) {
	var ceiling int
	err := l.q.QueryRowContext(ctx,
		`SELECT COALESCE(ao.available_units, rt.total_units)
		 FROM room_types rt
		 LEFT JOIN availability_overrides ao ON ao.room_type_id = rt.id AND ao.stay_date = ?
		 WHERE rt.id = ?`,
		calendar.Normalize(night), roomTypeID).Scan(&ceiling)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, &inventory.NotFoundError{Resource: "room type"}
	}
	return ceiling, err
}

func (l ledgerQueries) BookedUnits(ctx context.Context, roomTypeID uint64, night time.Time) (int, error) {
	return bookedUnits(ctx, l.q, roomTypeID, night)
}

func (l ledgerQueries) BlockedUnits(ctx context.Context, roomTypeID uint64, night time.Time) (int, error) {
	var n int
	err := l.q.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(units_blocked), 0) FROM blocked_dates WHERE room_type_id = ? AND stay_date = ?`,
		roomTypeID, calendar.Normalize(night)).Scan(&n)
	return n, err
}

func (l ledgerQueries) HasOverride(ctx context.Context, roomTypeID uint64, night time.Time) (bool, error) {
	var one int
	err := l.q.QueryRowContext(ctx,
		`SELECT 1 FROM availability_overrides WHERE room_type_id = ? AND stay_date = ?`,
		roomTypeID, calendar.Normalize(night)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// Plain ledger reads delegate to the pool-backed queries.

func (s *InventoryStore) RoomTypeByID(ctx context.Context, id uint64) (*model.RoomType, error) {
	return ledgerQueries{q: s.db}.RoomTypeByID(ctx, id)
}

func (s *InventoryStore) ActiveRoomTypes(ctx context.Context) ([]model.RoomType, error) {
	return ledgerQueries{q: s.db}.ActiveRoomTypes(ctx)
}

func (s *InventoryStore) CapacityCeiling(ctx context.Context, roomTypeID uint64, night time.Time) (int, error) {
	return ledgerQueries{q: s.db}.CapacityCeiling(ctx, roomTypeID, night)
}

func (s *InventoryStore) BookedUnits(ctx context.Context, roomTypeID uint64, night time.Time) (int, error) {
	return ledgerQueries{q: s.db}.BookedUnits(ctx, roomTypeID, night)
}

func (s *InventoryStore) BlockedUnits(ctx context.Context, roomTypeID uint64, night time.Time) (int, error) {
	return ledgerQueries{q: s.db}.BlockedUnits(ctx, roomTypeID, night)
}

func (s *InventoryStore) HasOverride(ctx context.Context, roomTypeID uint64, night time.Time) (bool, error) {
	return ledgerQueries{q: s.db}.HasOverride(ctx, roomTypeID, night)
}

// txWriter satisfies inventory.BookingWriter inside a reservation
// transaction.
type txWriter struct {
	tx *sql.Tx
}

func (w txWriter) InsertBookings(ctx context.Context, bookings []*model.Booking) error {
	return InsertBookingsTx(ctx, w.tx, bookings)
}

// Reserve implements the admission critical section.  Lock conflicts
// (deadlock, lock wait timeout) and duplicate booking numbers are
// translated into inventory.ErrConflict so the controller can tell the
// client to retry with fresh availability instead of surfacing a generic
// storage failure.
func (s *InventoryStore) Reserve(ctx context.Context, roomTypeIDs []uint64, fn func(l inventory.Ledger, w inventory.BookingWriter) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := s.roomTypes.LockTx(ctx, tx, roomTypeIDs); err != nil {
		return translateReserveErr(err)
	}
	if err := fn(ledgerQueries{q: tx}, txWriter{tx: tx}); err != nil {
		return translateReserveErr(err)
	}
	if err := tx.Commit(); err != nil {
		return translateReserveErr(err)
	}
	committed = true
	return nil
}

func translateReserveErr(err error) error {
	if isLockConflict(err) || isDuplicateEntry(err) {
		return inventory.ErrConflict
	}
	return err
}

func (s *InventoryStore) BookingByNumber(ctx context.Context, number string) (*model.Booking, error) {
	return s.bookings.GetByNumber(ctx, number)
}

func (s *InventoryStore) BookingsInGroup(ctx context.Context, b *model.Booking) ([]model.Booking, error) {
	return s.bookings.ListGroup(ctx, b)
}

func (s *InventoryStore) ListBookings(ctx context.Context) ([]model.Booking, error) {
	return s.bookings.List(ctx)
}

func (s *InventoryStore) BookingsByGuestEmail(ctx context.Context, email string) ([]model.Booking, error) {
	return s.bookings.ListByGuestEmail(ctx, email)
}

func (s *InventoryStore) CancelGroup(ctx context.Context, b *model.Booking, cancelledAt time.Time) (int, error) {
	return s.bookings.CancelGroup(ctx, b, cancelledAt)
}

func (s *InventoryStore) TransitionBooking(ctx context.Context, id uint64, from, to model.BookingStatus) (bool, error) {
	return s.bookings.Transition(ctx, id, from, to)
}

func (s *InventoryStore) StalePendingBookings(ctx context.Context, cutoff time.Time) ([]model.Booking, error) {
	return s.bookings.StalePendingBefore(ctx, cutoff)
}
