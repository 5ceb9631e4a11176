package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/inventory"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// InventoryAdminHandler exposes the per-night inventory controls:
// availability overrides, blocked dates, and the per-night detail view
// that explains how a figure was derived.
type InventoryAdminHandler struct {
	Resolver  *inventory.Resolver
	Overrides *repository.OverrideRepo
	Blocks    *repository.BlockedDateRepo
}

func NewInventoryAdminHandler(resolver *inventory.Resolver, overrides *repository.OverrideRepo, blocks *repository.BlockedDateRepo) *InventoryAdminHandler {
	return &InventoryAdminHandler{Resolver: resolver, Overrides: overrides, Blocks: blocks}
}

type overrideReq struct {
	Date           string `json:"date"`
	AvailableUnits int    `json:"available_units"`
}

type blockReq struct {
	Date         string `json:"date"`
	UnitsBlocked int    `json:"units_blocked"`
	Reason       string `json:"reason"`
}

// NightDetail handles GET /v1/admin/room-types/:id/availability?date=...,
// returning the full derivation for one night: ceiling, booked, blocked,
// whether an override is in force, and the resulting available figure.
func (h *InventoryAdminHandler) NightDetail(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	night, err := parseDay(c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, want YYYY-MM-DD"})
	}
	detail, err := h.Resolver.NightDetail(c.Request().Context(), id, night)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// SetOverride handles PUT /v1/admin/room-types/:id/overrides.  The value
// becomes the authoritative ceiling for that night, replacing the default
// capacity entirely; units already booked or blocked still subtract from
// it.
func (h *InventoryAdminHandler) SetOverride(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req overrideReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	day, err := parseDay(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, want YYYY-MM-DD"})
	}
	o, err := h.Overrides.Set(c.Request().Context(), id, day, req.AvailableUnits)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

// ClearOverride handles DELETE /v1/admin/room-types/:id/overrides?date=...,
// reverting the night to the room type's default capacity.
func (h *InventoryAdminHandler) ClearOverride(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	day, err := parseDay(c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, want YYYY-MM-DD"})
	}
	if err := h.Overrides.Clear(c.Request().Context(), id, day); err != nil {
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SetBlock handles POST /v1/admin/room-types/:id/blocked-dates, holding
// units out of sale for one night (maintenance, renovation).
func (h *InventoryAdminHandler) SetBlock(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req blockReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	day, err := parseDay(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, want YYYY-MM-DD"})
	}
	b, err := h.Blocks.Set(c.Request().Context(), id, day, req.UnitsBlocked, req.Reason)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// ListBlocks handles GET /v1/admin/room-types/:id/blocked-dates.
func (h *InventoryAdminHandler) ListBlocks(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	blocks, err := h.Blocks.ListByRoomType(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load blocked dates"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": blocks})
}

// DeleteBlock handles DELETE /v1/admin/blocked-dates/:id.
func (h *InventoryAdminHandler) DeleteBlock(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Blocks.Delete(c.Request().Context(), id); err != nil {
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
