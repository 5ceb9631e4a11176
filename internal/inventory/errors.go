// Package inventory implements the room inventory engine: the per-night
// availability ledger, the resolver that turns raw counters into a bookable
// figure, the admission controller that commits new reservations without
// overbooking, and the lifecycle manager for status transitions.
package inventory

import (
	"errors"
	"fmt"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// ErrConflict signals that a concurrent admission raced this one and won.
// The caller should re-query availability and retry rather than treat the
// failure as permanent.
var ErrConflict = errors.New("inventory: conflicting concurrent update")

// ErrForbidden is returned when the guest-supplied email does not match the
// booking's stored guest email during self-service lookup or cancellation.
var ErrForbidden = errors.New("inventory: guest identity does not match")

// ValidationError reports malformed input.  It is always returned before
// any write is attempted.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return "inventory: " + e.Msg }

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a reference to a nonexistent room type, override,
// block or booking number.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return "inventory: " + e.Resource + " not found" }

// InsufficientAvailabilityError is returned when a requested quantity
// exceeds the availability resolved at commit time.  Available carries the
// maximum currently satisfiable quantity so the client can offer a reduced
// booking.
type InsufficientAvailabilityError struct {
	RoomTypeID   uint64
	RoomTypeName string
	Requested    int
	Available    int
}

func (e *InsufficientAvailabilityError) Error() string {
	return fmt.Sprintf("inventory: room type %d (%s): requested %d units, only %d available",
		e.RoomTypeID, e.RoomTypeName, e.Requested, e.Available)
}

// InvalidStateError reports a booking status transition the state machine
// does not permit, e.g. cancelling an already-cancelled group.
type InvalidStateError struct {
	From model.BookingStatus
	To   model.BookingStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("inventory: cannot transition booking from %s to %s", e.From, e.To)
}
