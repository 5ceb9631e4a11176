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

// OverrideRepo manages availability_overrides: at most one row per
// (room type, night), upserted through Set and removed through Clear so
// the one-row-per-key invariant stays centralized here.
type OverrideRepo struct {
	db *sql.DB
}

// NewOverrideRepo returns an OverrideRepo bound to the given database.
func NewOverrideRepo(db *sql.DB) *OverrideRepo { return &OverrideRepo{db: db} }

// Set upserts the capacity ceiling for one night.  The value is validated
// against the room type's current total units at write time; it is not
// re-validated later if total units change (the resolver clamps instead).
func (r *OverrideRepo) Set(ctx context.Context, roomTypeID uint64, date time.Time, availableUnits int) (*model.AvailabilityOverride, error) {
	if availableUnits < 0 {
		return nil, &inventory.ValidationError{Msg: "available units must not be negative"}
	}
	var totalUnits int
	err := r.db.QueryRowContext(ctx, `SELECT total_units FROM room_types WHERE id = ?`, roomTypeID).Scan(&totalUnits)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &inventory.NotFoundError{Resource: "room type"}
	}
	if err != nil {
		return nil, err
	}
	if availableUnits > totalUnits {
		return nil, &inventory.ValidationError{Msg: "available units must not exceed the room type's total units"}
	}
	day := calendar.Normalize(date)
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO availability_overrides (room_type_id, stay_date, available_units) VALUES (?, ?, ?)
		 ON DUPLICATE KEY UPDATE available_units = VALUES(available_units)`,
		roomTypeID, day, availableUnits)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, roomTypeID, day)
}

// Get returns the override for one night or *inventory.NotFoundError.
func (r *OverrideRepo) Get(ctx context.Context, roomTypeID uint64, date time.Time) (*model.AvailabilityOverride, error) {
	var o model.AvailabilityOverride
	err := r.db.QueryRowContext(ctx,
		`SELECT id, room_type_id, stay_date, available_units, created_at, updated_at
		 FROM availability_overrides WHERE room_type_id = ? AND stay_date = ?`,
		roomTypeID, calendar.Normalize(date)).
		Scan(&o.ID, &o.RoomTypeID, &o.Date, &o.AvailableUnits, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &inventory.NotFoundError{Resource: "availability override"}
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Clear deletes the override, reverting the night to the default capacity.
// It returns *inventory.NotFoundError when no row existed.
func (r *OverrideRepo) Clear(ctx context.Context, roomTypeID uint64, date time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM availability_overrides WHERE room_type_id = ? AND stay_date = ?`,
		roomTypeID, calendar.Normalize(date))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &inventory.NotFoundError{Resource: "availability override"}
	}
	return nil
}
