package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/calendar"
	"github.com/iliyamo/hotel-reservation/internal/inventory"
)

// writeDomainError maps engine errors onto HTTP responses.  Conflicts are
// reported distinctly from validation failures because the client's
// recovery differs: a conflicting admission should be retried with fresh
// availability, a validation error should not.
func writeDomainError(c echo.Context, err error) error {
	var (
		ve *inventory.ValidationError
		ia *inventory.InsufficientAvailabilityError
		nf *inventory.NotFoundError
		is *inventory.InvalidStateError
	)
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Msg})
	case errors.Is(err, calendar.ErrInvalidRange):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check-out date must be after check-in date"})
	case errors.As(err, &ia):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":          "insufficient availability",
			"room_type_id":   ia.RoomTypeID,
			"room_type_name": ia.RoomTypeName,
			"requested":      ia.Requested,
			"available":      ia.Available,
		})
	case errors.Is(err, inventory.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "a concurrent booking won this request; re-check availability and retry"})
	case errors.As(err, &nf):
		return c.JSON(http.StatusNotFound, echo.Map{"error": nf.Resource + " not found"})
	case errors.Is(err, inventory.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "booking number and guest email do not match"})
	case errors.As(err, &is):
		return c.JSON(http.StatusConflict, echo.Map{"error": is.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// parseDay parses a calendar day in 2006-01-02 form and normalizes it to
// midnight UTC.
func parseDay(s string) (time.Time, error) {
	t, err := time.Parse(calendar.DayFormat, s)
	if err != nil {
		return time.Time{}, err
	}
	return calendar.Normalize(t), nil
}

// parseID parses a positive uint64 path or query parameter.
func parseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
