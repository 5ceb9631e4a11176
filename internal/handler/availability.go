package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/calendar"
	"github.com/iliyamo/hotel-reservation/internal/inventory"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// AvailabilityHandler serves guest-facing availability search and the
// public room type catalog.  Responses may be served through the redis
// cache middleware with a short TTL: stale figures only affect display,
// the admission controller re-resolves authoritatively at commit time.
type AvailabilityHandler struct {
	Resolver  *inventory.Resolver
	RoomTypes *repository.RoomTypeRepo
}

// NewAvailabilityHandler constructs the handler; dependencies must be
// non-nil.
func NewAvailabilityHandler(resolver *inventory.Resolver, roomTypes *repository.RoomTypeRepo) *AvailabilityHandler {
	if resolver == nil || roomTypes == nil {
		panic("nil dependency passed to NewAvailabilityHandler")
	}
	return &AvailabilityHandler{Resolver: resolver, RoomTypes: roomTypes}
}

// GetAvailability handles GET /v1/availability.  Two query shapes are
// accepted:
//
//	?date=2026-07-01[&room_type_id=N]         per-night detail rows
//	?check_in=...&check_out=...[&room_type_id=N]  stay-range catalog rows
//
// Zero availability is a normal result, never an error, and room types
// with nothing left are still returned so the caller decides how to
// display them.
func (h *AvailabilityHandler) GetAvailability(c echo.Context) error {
	ctx := c.Request().Context()

	if day := c.QueryParam("date"); day != "" {
		night, err := parseDay(day)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, want YYYY-MM-DD"})
		}
		var ids []uint64
		if raw := c.QueryParam("room_type_id"); raw != "" {
			id, err := parseID(raw)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room_type_id"})
			}
			ids = []uint64{id}
		} else {
			types, err := h.RoomTypes.List(ctx, true)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load room types"})
			}
			for _, rt := range types {
				ids = append(ids, rt.ID)
			}
		}
		items := make([]inventory.NightAvailability, 0, len(ids))
		for _, id := range ids {
			detail, err := h.Resolver.NightDetail(ctx, id, night)
			if err != nil {
				return writeDomainError(c, err)
			}
			items = append(items, *detail)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"date":  night.Format(calendar.DayFormat),
			"items": items,
		})
	}

	checkIn, err := parseDay(c.QueryParam("check_in"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in, want YYYY-MM-DD"})
	}
	checkOut, err := parseDay(c.QueryParam("check_out"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_out, want YYYY-MM-DD"})
	}

	if raw := c.QueryParam("room_type_id"); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room_type_id"})
		}
		avail, err := h.Resolver.UnitsAvailableRange(ctx, id, checkIn, checkOut)
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"check_in":        checkIn.Format(calendar.DayFormat),
			"check_out":       checkOut.Format(calendar.DayFormat),
			"room_type_id":    id,
			"available_units": avail,
		})
	}

	catalog, err := h.Resolver.AvailabilityForCatalog(ctx, checkIn, checkOut)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"check_in":  checkIn.Format(calendar.DayFormat),
		"check_out": checkOut.Format(calendar.DayFormat),
		"items":     catalog,
	})
}

// ListRoomTypes handles GET /v1/room-types: the active catalog shown on
// the booking UI.
func (h *AvailabilityHandler) ListRoomTypes(c echo.Context) error {
	types, err := h.RoomTypes.List(c.Request().Context(), true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load room types"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": types})
}
