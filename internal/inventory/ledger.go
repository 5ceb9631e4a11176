package inventory

import (
	"context"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Ledger answers the raw per-night bookkeeping questions for a room type:
// what is the capacity ceiling, how many units are consumed by active
// bookings, and how many are withheld by manual blocks.  It owns no policy
// beyond these lookups; the resolver combines them.  Implementations must
// treat all dates as midnight-UTC calendar days.
type Ledger interface {
	// RoomTypeByID returns the room type or a *NotFoundError.
	RoomTypeByID(ctx context.Context, id uint64) (*model.RoomType, error)

	// ActiveRoomTypes returns every room type with the active flag set,
	// ordered by id.
	ActiveRoomTypes(ctx context.Context) ([]model.RoomType, error)

	// CapacityCeiling returns the override value stored for (roomTypeID,
	// night) when one exists, else the room type's TotalUnits.  The stored
	// override is authoritative and is not re-clamped at read time even if
	// TotalUnits has since been lowered beneath it.
	CapacityCeiling(ctx context.Context, roomTypeID uint64, night time.Time) (int, error)

	// BookedUnits counts bookings of the room type in an occupying status
	// (PENDING or CONFIRMED) whose [checkIn, checkOut) interval contains
	// night.
	BookedUnits(ctx context.Context, roomTypeID uint64, night time.Time) (int, error)

	// BlockedUnits returns the UnitsBlocked of the block stored for
	// (roomTypeID, night), or 0 when none exists.
	BlockedUnits(ctx context.Context, roomTypeID uint64, night time.Time) (int, error)

	// HasOverride reports whether an availability override exists for
	// (roomTypeID, night).
	HasOverride(ctx context.Context, roomTypeID uint64, night time.Time) (bool, error)
}

// BookingWriter persists booking rows.  It is handed to the admission
// callback inside a reservation transaction; all rows written through it
// commit or roll back together.
type BookingWriter interface {
	InsertBookings(ctx context.Context, bookings []*model.Booking) error
}

// Store is the full persistence surface the engine needs.  Plain reads go
// through the embedded Ledger; admission runs inside Reserve, which must
// serialize conflicting admissions for the same room types (the
// implementation decides how — the MySQL store locks the room_types rows
// for the duration of the transaction).  Lifecycle mutations are atomic
// conditional updates.
type Store interface {
	Ledger

	// Reserve runs fn inside a transaction that holds exclusive locks on
	// the given room types, so that the availability re-check and the
	// booking inserts performed by fn are not interleaved with a competing
	// admission.  The ledger passed to fn reads through the transaction.
	// Implementations translate storage-level lock conflicts into
	// ErrConflict.
	Reserve(ctx context.Context, roomTypeIDs []uint64, fn func(l Ledger, w BookingWriter) error) error

	// BookingByNumber returns the booking or a *NotFoundError.
	BookingByNumber(ctx context.Context, number string) (*model.Booking, error)

	// BookingsInGroup returns every booking sharing b's reservation group,
	// or just b itself when it is ungrouped, ordered by id.
	BookingsInGroup(ctx context.Context, b *model.Booking) ([]model.Booking, error)

	// ListBookings returns all bookings ordered by creation time descending.
	ListBookings(ctx context.Context) ([]model.Booking, error)

	// CancelGroup transitions every member of b's group that is still in an
	// occupying status to CANCELLED, stamping all of them with the same
	// cancelledAt timestamp in one atomic update.  It returns the number of
	// bookings cancelled; zero means the group was already terminal.
	CancelGroup(ctx context.Context, b *model.Booking, cancelledAt time.Time) (int, error)

	// TransitionBooking moves one booking from the expected status to the
	// next one in a single conditional update.  It reports false when the
	// booking was not in the expected status anymore.
	TransitionBooking(ctx context.Context, id uint64, from, to model.BookingStatus) (bool, error)

	// StalePendingBookings returns PENDING bookings whose check-in date is
	// strictly before cutoff.  Used by the expiry sweep.
	StalePendingBookings(ctx context.Context, cutoff time.Time) ([]model.Booking, error)
}
