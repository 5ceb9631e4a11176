package model

import "time"

// BlockedDate removes units from sale on one night without involving a
// booking, e.g. for maintenance.  Blocks subtract directly from the
// capacity ceiling and are additive with booking occupancy.  There is at
// most one block per room type and date; UnitsBlocked is always >= 1.
type BlockedDate struct {
	ID           uint64    `json:"id"`
	RoomTypeID   uint64    `json:"room_type_id"`
	Date         time.Time `json:"date"`
	UnitsBlocked int       `json:"units_blocked"`
	Reason       string    `json:"reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
