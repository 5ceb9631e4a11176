package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/calendar"
	"github.com/iliyamo/hotel-reservation/internal/inventory"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx,
// letting the same queries serve plain reads and transactional re-checks.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// BookingRepo provides access to the bookings table.  Status filters rely
// on the closed status enumeration; only PENDING and CONFIRMED rows count
// toward occupancy.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, booking_number, reservation_group_id, room_type_id, check_in_date, check_out_date,
	guest_name, guest_email, guest_phone, number_of_nights, total_price_cents, status, created_at, cancelled_at`

func scanBooking(row interface{ Scan(...interface{}) error }) (*model.Booking, error) {
	var b model.Booking
	var groupID sql.NullString
	var status string
	var cancelledAt sql.NullTime
	err := row.Scan(&b.ID, &b.BookingNumber, &groupID, &b.RoomTypeID, &b.CheckInDate, &b.CheckOutDate,
		&b.GuestName, &b.GuestEmail, &b.GuestPhone, &b.NumberOfNights, &b.TotalPriceCents, &status, &b.CreatedAt, &cancelledAt)
	if err != nil {
		return nil, err
	}
	if groupID.Valid {
		gid := groupID.String
		b.ReservationGroupID = &gid
	}
	b.Status = model.BookingStatus(status)
	if cancelledAt.Valid {
		at := cancelledAt.Time
		b.CancelledAt = &at
	}
	return &b, nil
}

// bookedUnits counts occupying bookings of a room type whose half-open
// stay interval contains the night.  Shared by the plain ledger and the
// in-transaction re-check.
func bookedUnits(ctx context.Context, q querier, roomTypeID uint64, night time.Time) (int, error) {
	var n int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings
		 WHERE room_type_id = ? AND status IN ('PENDING','CONFIRMED')
		   AND check_in_date <= ? AND check_out_date > ?`,
		roomTypeID, calendar.Normalize(night), calendar.Normalize(night)).Scan(&n)
	return n, err
}

// InsertBookingsTx writes all rows of one reservation in a single
// multi-row INSERT inside tx, then queries the generated ids back.  The
// caller commits or rolls back; a failure on any row therefore never
// leaves a partial reservation visible.
func InsertBookingsTx(ctx context.Context, tx *sql.Tx, bookings []*model.Booking) error {
	if len(bookings) == 0 {
		return nil
	}
	query := `INSERT INTO bookings (booking_number, reservation_group_id, room_type_id, check_in_date, check_out_date,
		guest_name, guest_email, guest_phone, number_of_nights, total_price_cents, status, created_at) VALUES `
	args := make([]interface{}, 0, len(bookings)*12)
	for i, b := range bookings {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
		var groupID interface{}
		if b.ReservationGroupID != nil {
			groupID = *b.ReservationGroupID
		}
		args = append(args, b.BookingNumber, groupID, b.RoomTypeID, b.CheckInDate, b.CheckOutDate,
			b.GuestName, b.GuestEmail, b.GuestPhone, b.NumberOfNights, b.TotalPriceCents, string(b.Status), b.CreatedAt)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	// MySQL returns the first generated id of a multi-row insert; the rest
	// follow consecutively within one statement.
	first, err := res.LastInsertId()
	if err != nil {
		return err
	}
	for i, b := range bookings {
		b.ID = uint64(first) + uint64(i)
	}
	return nil
}

// GetByNumber returns the booking or *inventory.NotFoundError.
func (r *BookingRepo) GetByNumber(ctx context.Context, number string) (*model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE booking_number = ?`, number))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &inventory.NotFoundError{Resource: "booking"}
	}
	return b, err
}

// ListGroup returns every booking in b's reservation group ordered by id,
// or the booking itself when ungrouped.
func (r *BookingRepo) ListGroup(ctx context.Context, b *model.Booking) ([]model.Booking, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if b.ReservationGroupID != nil {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+bookingColumns+` FROM bookings WHERE reservation_group_id = ? ORDER BY id`,
			*b.ReservationGroupID)
	} else {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, b.ID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

// List returns all bookings, newest first.
func (r *BookingRepo) List(ctx context.Context) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func collectBookings(rows *sql.Rows) ([]model.Booking, error) {
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// CancelGroup cancels every occupying member of b's group in one
// conditional UPDATE so all of them receive the identical cancelled_at
// timestamp.  The affected count is zero when the group was already
// terminal.
func (r *BookingRepo) CancelGroup(ctx context.Context, b *model.Booking, cancelledAt time.Time) (int, error) {
	var (
		res sql.Result
		err error
	)
	set := `UPDATE bookings SET status = 'CANCELLED', cancelled_at = ? WHERE status IN ('PENDING','CONFIRMED')`
	if b.ReservationGroupID != nil {
		res, err = r.db.ExecContext(ctx, set+` AND reservation_group_id = ?`, cancelledAt.UTC(), *b.ReservationGroupID)
	} else {
		res, err = r.db.ExecContext(ctx, set+` AND id = ?`, cancelledAt.UTC(), b.ID)
	}
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// Transition moves one booking from the expected status to the next in a
// single conditional UPDATE.  It reports false when the booking was no
// longer in the expected status.
func (r *BookingRepo) Transition(ctx context.Context, id uint64, from, to model.BookingStatus) (bool, error) {
	q := `UPDATE bookings SET status = ?`
	args := []interface{}{string(to)}
	if to == model.StatusCancelled {
		q += `, cancelled_at = ?`
		args = append(args, time.Now().UTC())
	}
	q += ` WHERE id = ? AND status = ?`
	args = append(args, id, string(from))
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// StalePendingBefore returns PENDING bookings whose check-in date is
// strictly before cutoff, oldest first.
func (r *BookingRepo) StalePendingBefore(ctx context.Context, cutoff time.Time) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE status = 'PENDING' AND check_in_date < ? ORDER BY created_at`,
		calendar.Normalize(cutoff))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

// ListByGuestEmail returns all bookings for a guest, newest first.  Used
// by guest-facing dashboards.
func (r *BookingRepo) ListByGuestEmail(ctx context.Context, email string) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE guest_email = ? ORDER BY created_at DESC, id DESC`,
		strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}
