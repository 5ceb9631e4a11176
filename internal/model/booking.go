package model

import "time"

// BookingStatus is the closed set of booking states.  Using a dedicated
// type instead of free-form strings makes illegal transitions detectable
// at validation time.
type BookingStatus string

const (
	StatusPending   BookingStatus = "PENDING"
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCancelled BookingStatus = "CANCELLED"
	StatusCompleted BookingStatus = "COMPLETED"
	StatusNoShow    BookingStatus = "NO_SHOW"
)

// Occupies reports whether a booking in this status consumes inventory.
// Only PENDING and CONFIRMED bookings occupy units; leaving these states
// frees the units immediately, there is no separate release step.
func (s BookingStatus) Occupies() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Terminal reports whether no further transitions are allowed from s.
func (s BookingStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted || s == StatusNoShow
}

// CanTransition reports whether the state machine permits moving from s to
// next.  Time-based guards (e.g. NO_SHOW only after the check-in date has
// passed) are enforced by the lifecycle manager, not here.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled || next == StatusNoShow
	case StatusConfirmed:
		return next == StatusCancelled || next == StatusNoShow || next == StatusCompleted
	default:
		return false
	}
}

// Valid reports whether s is a member of the closed status set.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

// Booking is one unit of one room type occupied for every night in the
// half-open interval [CheckInDate, CheckOutDate).  A reservation for N
// units is represented as N rows sharing a ReservationGroupID.
//
// Fields:
//  ID                 – primary key identifier.
//  BookingNumber      – unique human-readable number, sortable by creation time.
//  ReservationGroupID – ties bookings created in one guest checkout; nil for
//                       a single-unit reservation.
//  RoomTypeID         – the room type whose unit is occupied.
//  CheckInDate        – first occupied night (midnight UTC).
//  CheckOutDate       – day of departure, never occupied (midnight UTC).
//  GuestName/Email/Phone – guest identity; the email doubles as the shared
//                       secret for self-service lookup and cancellation.
//  NumberOfNights     – derived: checkOut - checkIn in days.
//  TotalPriceCents    – price for the whole stay of this one unit.
//  Status             – current state, see BookingStatus.
//  CreatedAt          – creation timestamp.
//  CancelledAt        – set when the booking is cancelled; nil otherwise.
type Booking struct {
	ID                 uint64        `json:"id"`
	BookingNumber      string        `json:"booking_number"`
	ReservationGroupID *string       `json:"reservation_group_id,omitempty"`
	RoomTypeID         uint64        `json:"room_type_id"`
	CheckInDate        time.Time     `json:"check_in_date"`
	CheckOutDate       time.Time     `json:"check_out_date"`
	GuestName          string        `json:"guest_name"`
	GuestEmail         string        `json:"guest_email"`
	GuestPhone         string        `json:"guest_phone"`
	NumberOfNights     int           `json:"number_of_nights"`
	TotalPriceCents    int64         `json:"total_price_cents"`
	Status             BookingStatus `json:"status"`
	CreatedAt          time.Time     `json:"created_at"`
	CancelledAt        *time.Time    `json:"cancelled_at,omitempty"`
}

// GroupKey returns the identifier under which this booking is grouped: the
// shared reservation group id when present, otherwise the booking's own
// number so that an ungrouped booking forms a singleton group.
func (b *Booking) GroupKey() string {
	if b.ReservationGroupID != nil && *b.ReservationGroupID != "" {
		return *b.ReservationGroupID
	}
	return b.BookingNumber
}
