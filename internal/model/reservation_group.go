package model

import "time"

// ReservationGroup is a derived view over bookings that were created in one
// guest checkout.  It is never stored: the projection is recomputed from the
// booking rows so the group view cannot drift from its members.
// Representative guest fields come from the first booking in the group;
// TotalPriceCents is summed across all members.
type ReservationGroup struct {
	GroupKey        string        `json:"group_key"`
	GuestName       string        `json:"guest_name"`
	GuestEmail      string        `json:"guest_email"`
	GuestPhone      string        `json:"guest_phone"`
	CheckInDate     time.Time     `json:"check_in_date"`
	CheckOutDate    time.Time     `json:"check_out_date"`
	Status          BookingStatus `json:"status"`
	TotalPriceCents int64         `json:"total_price_cents"`
	Bookings        []Booking     `json:"bookings"`
	CreatedAt       time.Time     `json:"created_at"`
}
