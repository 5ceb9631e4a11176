// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationCreatedEvent is published when a reservation is admitted.
// It carries enough information for downstream consumers to log, notify,
// or trigger analytics without querying the primary database.
type ReservationCreatedEvent struct {
	GroupKey        string   `json:"group_key"`
	BookingNumbers  []string `json:"booking_numbers"`
	GuestName       string   `json:"guest_name"`
	GuestEmail      string   `json:"guest_email"`
	CheckInDate     string   `json:"check_in_date"`
	CheckOutDate    string   `json:"check_out_date"`
	Units           int      `json:"units"`
	TotalPriceCents int64    `json:"total_price_cents"`
	CreatedAt       string   `json:"created_at"`
}

// ReservationCancelledEvent is published when a reservation group is
// cancelled, either by the guest or by the stale-PENDING sweep.
type ReservationCancelledEvent struct {
	GroupKey       string   `json:"group_key"`
	BookingNumbers []string `json:"booking_numbers"`
	GuestEmail     string   `json:"guest_email"`
	CancelledAt    string   `json:"cancelled_at"`
}
