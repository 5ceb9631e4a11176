package inventory

import (
	"context"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/calendar"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Resolver combines the ledger's raw counters into the single externally
// meaningful number: how many units a guest can still book.  Occupancy may
// legitimately exceed the ceiling (an admin can lower capacity below the
// already-booked count), so results are clamped at zero and never negative.
type Resolver struct {
	ledger Ledger
}

// NewResolver returns a Resolver reading from the given ledger.
func NewResolver(l Ledger) *Resolver {
	return &Resolver{ledger: l}
}

// NightAvailability is the per-night detail returned to admin tooling.
type NightAvailability struct {
	RoomTypeID      uint64 `json:"room_type_id"`
	RoomTypeName    string `json:"room_type_name"`
	TotalUnits      int    `json:"total_units"`
	CapacityCeiling int    `json:"capacity_ceiling"`
	OccupiedUnits   int    `json:"occupied_units"`
	BlockedUnits    int    `json:"blocked_units"`
	Available       int    `json:"actually_available"`
	HasOverride     bool   `json:"has_override"`
}

// RoomAvailability is one row of the guest-facing catalog search result.
type RoomAvailability struct {
	RoomType       model.RoomType `json:"room_type"`
	AvailableUnits int            `json:"available_units"`
}

// UnitsAvailable resolves availability for one room type on one night:
// max(0, ceiling - booked - blocked).
func (r *Resolver) UnitsAvailable(ctx context.Context, roomTypeID uint64, night time.Time) (int, error) {
	night = calendar.Normalize(night)
	ceiling, err := r.ledger.CapacityCeiling(ctx, roomTypeID, night)
	if err != nil {
		return 0, err
	}
	booked, err := r.ledger.BookedUnits(ctx, roomTypeID, night)
	if err != nil {
		return 0, err
	}
	blocked, err := r.ledger.BlockedUnits(ctx, roomTypeID, night)
	if err != nil {
		return 0, err
	}
	avail := ceiling - booked - blocked
	if avail < 0 {
		avail = 0
	}
	return avail, nil
}

// UnitsAvailableRange resolves availability over a stay as the minimum of
// the per-night figures: a multi-night stay is only as available as its
// tightest night.  It short-circuits once any night yields zero.
func (r *Resolver) UnitsAvailableRange(ctx context.Context, roomTypeID uint64, checkIn, checkOut time.Time) (int, error) {
	nights := calendar.Nights(checkIn, checkOut)
	if len(nights) == 0 {
		return 0, calendar.ErrInvalidRange
	}
	min := -1
	for _, night := range nights {
		avail, err := r.UnitsAvailable(ctx, roomTypeID, night)
		if err != nil {
			return 0, err
		}
		if min < 0 || avail < min {
			min = avail
		}
		if min == 0 {
			return 0, nil
		}
	}
	return min, nil
}

// NightDetail returns the full per-night breakdown for one room type.
func (r *Resolver) NightDetail(ctx context.Context, roomTypeID uint64, night time.Time) (*NightAvailability, error) {
	night = calendar.Normalize(night)
	rt, err := r.ledger.RoomTypeByID(ctx, roomTypeID)
	if err != nil {
		return nil, err
	}
	ceiling, err := r.ledger.CapacityCeiling(ctx, roomTypeID, night)
	if err != nil {
		return nil, err
	}
	booked, err := r.ledger.BookedUnits(ctx, roomTypeID, night)
	if err != nil {
		return nil, err
	}
	blocked, err := r.ledger.BlockedUnits(ctx, roomTypeID, night)
	if err != nil {
		return nil, err
	}
	hasOverride, err := r.ledger.HasOverride(ctx, roomTypeID, night)
	if err != nil {
		return nil, err
	}
	avail := ceiling - booked - blocked
	if avail < 0 {
		avail = 0
	}
	return &NightAvailability{
		RoomTypeID:      rt.ID,
		RoomTypeName:    rt.Name,
		TotalUnits:      rt.TotalUnits,
		CapacityCeiling: ceiling,
		OccupiedUnits:   booked,
		BlockedUnits:    blocked,
		Available:       avail,
		HasOverride:     hasOverride,
	}, nil
}

// AvailabilityForCatalog resolves the stay range for every active room
// type.  Room types with zero availability are still included so the
// caller decides display policy; zero available is a normal result, not an
// error.
func (r *Resolver) AvailabilityForCatalog(ctx context.Context, checkIn, checkOut time.Time) ([]RoomAvailability, error) {
	if len(calendar.Nights(checkIn, checkOut)) == 0 {
		return nil, calendar.ErrInvalidRange
	}
	types, err := r.ledger.ActiveRoomTypes(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RoomAvailability, 0, len(types))
	for _, rt := range types {
		avail, err := r.UnitsAvailableRange(ctx, rt.ID, checkIn, checkOut)
		if err != nil {
			return nil, err
		}
		out = append(out, RoomAvailability{RoomType: rt, AvailableUnits: avail})
	}
	return out, nil
}
