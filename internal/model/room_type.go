package model

import "time"

// RoomType describes one pool of physically interchangeable rooms.  The
// property keeps a fixed catalog of room types; each type carries its own
// unit count which acts as the default capacity ceiling for every night.
//
// Fields:
//  ID             – primary key identifier.
//  Name           – display name shown to guests.
//  Description    – optional marketing text.
//  TotalUnits     – number of physical units; always >= 1.
//  BasePriceCents – nightly base price in cents.
//  Active         – soft-delete flag; inactive types are hidden from the
//                   catalog but keep their booking history.
//  CreatedAt      – timestamp when the record was created.
//  UpdatedAt      – timestamp when the record was last updated.
type RoomType struct {
	ID             uint64    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	TotalUnits     int       `json:"total_units"`
	BasePriceCents int64     `json:"base_price_cents"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
