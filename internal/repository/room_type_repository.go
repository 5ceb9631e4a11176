package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/hotel-reservation/internal/inventory"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// RoomTypeRepo provides CRUD access to the room_types table.  Room types
// are never deleted while bookings reference them; admins deactivate them
// instead, which hides them from the catalog but keeps history intact.
type RoomTypeRepo struct {
	db *sql.DB
}

// NewRoomTypeRepo returns a RoomTypeRepo bound to the given database.
func NewRoomTypeRepo(db *sql.DB) *RoomTypeRepo { return &RoomTypeRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions.
func (r *RoomTypeRepo) DB() *sql.DB { return r.db }

const roomTypeColumns = `id, name, description, total_units, base_price_cents, is_active, created_at, updated_at`

func scanRoomType(row interface{ Scan(...interface{}) error }) (*model.RoomType, error) {
	var rt model.RoomType
	var desc sql.NullString
	err := row.Scan(&rt.ID, &rt.Name, &desc, &rt.TotalUnits, &rt.BasePriceCents, &rt.Active, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		return nil, err
	}
	rt.Description = desc.String
	return &rt, nil
}

// Create inserts a new room type and populates the generated ID.
func (r *RoomTypeRepo) Create(ctx context.Context, rt *model.RoomType) error {
	if rt.TotalUnits < 1 {
		return &inventory.ValidationError{Msg: "total units must be at least 1"}
	}
	if strings.TrimSpace(rt.Name) == "" {
		return &inventory.ValidationError{Msg: "room type name is required"}
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO room_types (name, description, total_units, base_price_cents, is_active) VALUES (?, ?, ?, ?, ?)`,
		rt.Name, rt.Description, rt.TotalUnits, rt.BasePriceCents, rt.Active)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rt.ID = uint64(id)
	return nil
}

// Update rewrites the mutable fields of a room type.  Existing overrides
// are not reconciled when total_units is lowered; the resolver's clamping
// absorbs any override that now exceeds capacity.
func (r *RoomTypeRepo) Update(ctx context.Context, rt *model.RoomType) error {
	if rt.TotalUnits < 1 {
		return &inventory.ValidationError{Msg: "total units must be at least 1"}
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE room_types SET name = ?, description = ?, total_units = ?, base_price_cents = ?, is_active = ? WHERE id = ?`,
		rt.Name, rt.Description, rt.TotalUnits, rt.BasePriceCents, rt.Active, rt.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, rt.ID); err != nil {
			return err
		}
	}
	return nil
}

// Deactivate clears the active flag, removing the room type from the
// guest-facing catalog without touching its bookings.
func (r *RoomTypeRepo) Deactivate(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE room_types SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// GetByID returns the room type or *inventory.NotFoundError.
func (r *RoomTypeRepo) GetByID(ctx context.Context, id uint64) (*model.RoomType, error) {
	rt, err := scanRoomType(r.db.QueryRowContext(ctx,
		`SELECT `+roomTypeColumns+` FROM room_types WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &inventory.NotFoundError{Resource: "room type"}
	}
	return rt, err
}

// List returns all room types ordered by id.  When activeOnly is set,
// deactivated types are skipped.
func (r *RoomTypeRepo) List(ctx context.Context, activeOnly bool) ([]model.RoomType, error) {
	q := `SELECT ` + roomTypeColumns + ` FROM room_types`
	if activeOnly {
		q += ` WHERE is_active = 1`
	}
	q += ` ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.RoomType, 0)
	for rows.Next() {
		rt, err := scanRoomType(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rt)
	}
	return out, rows.Err()
}

// LockTx takes exclusive row locks on the given room types inside tx,
// serializing concurrent admissions that touch the same types.  The caller
// must pass the ids in a stable (sorted) order to avoid lock cycles.  It
// returns *inventory.NotFoundError when any id does not exist.
func (r *RoomTypeRepo) LockTx(ctx context.Context, tx *sql.Tx, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	rows, err := tx.QueryContext(ctx,
		`SELECT id FROM room_types WHERE id IN (`+strings.Join(placeholders, ",")+`) FOR UPDATE`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	locked := 0
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return err
		}
		locked++
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if locked != len(ids) {
		return &inventory.NotFoundError{Resource: "room type"}
	}
	return nil
}
