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

// BlockedDateRepo manages blocked_dates: manual unit holds per
// (room type, night), e.g. maintenance.  Like overrides, the table carries
// at most one row per key; Set upserts instead of inserting duplicates.
type BlockedDateRepo struct {
	db *sql.DB
}

// NewBlockedDateRepo returns a BlockedDateRepo bound to the given database.
func NewBlockedDateRepo(db *sql.DB) *BlockedDateRepo { return &BlockedDateRepo{db: db} }

// Set upserts the block for one night.  unitsBlocked must be >= 1; a block
// of zero units is expressed by deleting the row.
func (r *BlockedDateRepo) Set(ctx context.Context, roomTypeID uint64, date time.Time, unitsBlocked int, reason string) (*model.BlockedDate, error) {
	if unitsBlocked < 1 {
		return nil, &inventory.ValidationError{Msg: "units blocked must be at least 1"}
	}
	var exists uint64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM room_types WHERE id = ?`, roomTypeID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &inventory.NotFoundError{Resource: "room type"}
	}
	if err != nil {
		return nil, err
	}
	day := calendar.Normalize(date)
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO blocked_dates (room_type_id, stay_date, units_blocked, reason) VALUES (?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE units_blocked = VALUES(units_blocked), reason = VALUES(reason)`,
		roomTypeID, day, unitsBlocked, nullableString(reason))
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, roomTypeID, day)
}

// Get returns the block for one night or *inventory.NotFoundError.
func (r *BlockedDateRepo) Get(ctx context.Context, roomTypeID uint64, date time.Time) (*model.BlockedDate, error) {
	var b model.BlockedDate
	var reason sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, room_type_id, stay_date, units_blocked, reason, created_at
		 FROM blocked_dates WHERE room_type_id = ? AND stay_date = ?`,
		roomTypeID, calendar.Normalize(date)).
		Scan(&b.ID, &b.RoomTypeID, &b.Date, &b.UnitsBlocked, &reason, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &inventory.NotFoundError{Resource: "blocked date"}
	}
	if err != nil {
		return nil, err
	}
	b.Reason = reason.String
	return &b, nil
}

// Delete removes a block by id.  *inventory.NotFoundError when the id is
// unknown.
func (r *BlockedDateRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blocked_dates WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &inventory.NotFoundError{Resource: "blocked date"}
	}
	return nil
}

// ListByRoomType returns all blocks for a room type ordered by night.
func (r *BlockedDateRepo) ListByRoomType(ctx context.Context, roomTypeID uint64) ([]model.BlockedDate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, room_type_id, stay_date, units_blocked, reason, created_at
		 FROM blocked_dates WHERE room_type_id = ? ORDER BY stay_date`, roomTypeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.BlockedDate, 0)
	for rows.Next() {
		var b model.BlockedDate
		var reason sql.NullString
		if err := rows.Scan(&b.ID, &b.RoomTypeID, &b.Date, &b.UnitsBlocked, &reason, &b.CreatedAt); err != nil {
			return nil, err
		}
		b.Reason = reason.String
		out = append(out, b)
	}
	return out, rows.Err()
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
