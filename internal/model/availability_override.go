package model

import "time"

// AvailabilityOverride pins the capacity ceiling of one room type on one
// calendar night.  When a row exists for (RoomTypeID, Date) its
// AvailableUnits value replaces RoomType.TotalUnits as the ceiling for that
// night; deleting the row reverts the night to the default capacity.
// There is at most one override per room type and date.
type AvailabilityOverride struct {
	ID             uint64    `json:"id"`
	RoomTypeID     uint64    `json:"room_type_id"`
	Date           time.Time `json:"date"`
	AvailableUnits int       `json:"available_units"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
