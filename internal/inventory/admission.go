package inventory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/hotel-reservation/internal/calendar"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Selection is one requested line of a reservation: a quantity of units of
// a single room type for the stay range shared by the whole request.
type Selection struct {
	RoomTypeID uint64 `json:"room_type_id"`
	Quantity   int    `json:"quantity"`
}

// GuestInfo carries the guest identity attached to every booking created in
// one checkout.  The email doubles as the shared secret for self-service
// lookup and cancellation.
type GuestInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ReservationResult is the outcome of a successful admission: every created
// booking plus the group id shared by them when more than one row was
// written.
type ReservationResult struct {
	ReservationGroupID *string         `json:"reservation_group_id,omitempty"`
	Bookings           []model.Booking `json:"bookings"`
}

// AdmissionController validates a reservation request and commits its
// booking rows against current inventory.  The availability check and the
// inserts run inside one Store.Reserve transaction, so two concurrent
// admissions for the last unit of the same night cannot both succeed: one
// commits, the other re-reads the updated counts and fails with
// InsufficientAvailabilityError (or ErrConflict when the storage layer
// reports a lock conflict).
type AdmissionController struct {
	store Store
	now   func() time.Time
}

// NewAdmissionController returns a controller committing through store.
func NewAdmissionController(store Store) *AdmissionController {
	return &AdmissionController{store: store, now: time.Now}
}

// CreateReservation admits one guest checkout.  All selections share the
// same stay range and guest identity; each selection expands into Quantity
// booking rows, each occupying one unit.  The rows are written
// all-or-nothing: a failure on any row rolls the whole reservation back so
// no partial reservation is ever visible as confirmed inventory.
func (a *AdmissionController) CreateReservation(ctx context.Context, selections []Selection, checkIn, checkOut time.Time, guest GuestInfo) (*ReservationResult, error) {
	nights, err := validateRequest(selections, checkIn, checkOut, guest)
	if err != nil {
		return nil, err
	}
	checkIn, checkOut = calendar.Normalize(checkIn), calendar.Normalize(checkOut)

	// Lock room types in a stable order so two multi-selection admissions
	// cannot deadlock each other.
	lockIDs := make([]uint64, 0, len(selections))
	for _, sel := range selections {
		lockIDs = append(lockIDs, sel.RoomTypeID)
	}
	sort.Slice(lockIDs, func(i, j int) bool { return lockIDs[i] < lockIDs[j] })

	totalUnits := 0
	for _, sel := range selections {
		totalUnits += sel.Quantity
	}
	var groupID *string
	if totalUnits > 1 {
		gid := uuid.NewString()
		groupID = &gid
	}

	var created []model.Booking
	err = a.store.Reserve(ctx, lockIDs, func(l Ledger, w BookingWriter) error {
		resolver := NewResolver(l)
		now := a.now().UTC()
		bookings := make([]*model.Booking, 0, totalUnits)
		for _, sel := range selections {
			rt, err := l.RoomTypeByID(ctx, sel.RoomTypeID)
			if err != nil {
				return err
			}
			if !rt.Active {
				return &NotFoundError{Resource: "room type"}
			}
			// Authoritative re-check at commit time; any figure the client
			// saw earlier in its session is display only.
			avail, err := resolver.UnitsAvailableRange(ctx, rt.ID, checkIn, checkOut)
			if err != nil {
				return err
			}
			if avail < sel.Quantity {
				return &InsufficientAvailabilityError{
					RoomTypeID:   rt.ID,
					RoomTypeName: rt.Name,
					Requested:    sel.Quantity,
					Available:    avail,
				}
			}
			for i := 0; i < sel.Quantity; i++ {
				number, err := newBookingNumber(now)
				if err != nil {
					return err
				}
				bookings = append(bookings, &model.Booking{
					BookingNumber:      number,
					ReservationGroupID: groupID,
					RoomTypeID:         rt.ID,
					CheckInDate:        checkIn,
					CheckOutDate:       checkOut,
					GuestName:          guest.Name,
					GuestEmail:         strings.ToLower(strings.TrimSpace(guest.Email)),
					GuestPhone:         guest.Phone,
					NumberOfNights:     nights,
					TotalPriceCents:    rt.BasePriceCents * int64(nights),
					Status:             model.StatusPending,
					CreatedAt:          now,
				})
			}
		}
		if err := w.InsertBookings(ctx, bookings); err != nil {
			return err
		}
		created = make([]model.Booking, 0, len(bookings))
		for _, b := range bookings {
			created = append(created, *b)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ReservationResult{ReservationGroupID: groupID, Bookings: created}, nil
}

func validateRequest(selections []Selection, checkIn, checkOut time.Time, guest GuestInfo) (int, error) {
	nights, err := calendar.NightsBetween(checkIn, checkOut)
	if err != nil {
		return 0, validationf("check-out date must be after check-in date")
	}
	if len(selections) == 0 {
		return 0, validationf("at least one room selection is required")
	}
	seen := make(map[uint64]struct{}, len(selections))
	for _, sel := range selections {
		if sel.RoomTypeID == 0 {
			return 0, validationf("room type id is required")
		}
		if sel.Quantity < 1 {
			return 0, validationf("quantity must be at least 1")
		}
		if _, dup := seen[sel.RoomTypeID]; dup {
			return 0, validationf("duplicate selection for room type %d", sel.RoomTypeID)
		}
		seen[sel.RoomTypeID] = struct{}{}
	}
	if strings.TrimSpace(guest.Name) == "" {
		return 0, validationf("guest name is required")
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(guest.Email)); err != nil {
		return 0, validationf("a valid guest email is required")
	}
	if strings.TrimSpace(guest.Phone) == "" {
		return 0, validationf("guest phone is required")
	}
	return nights, nil
}

// newBookingNumber builds a booking number of the form
// HB-20260701150405-a1b2c3: the timestamp prefix keeps numbers sortable by
// creation time, the random suffix makes them unique.
func newBookingNumber(now time.Time) (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "HB-" + now.UTC().Format("20060102150405") + "-" + hex.EncodeToString(buf), nil
}
