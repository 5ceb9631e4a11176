package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// RoomTypeHandler exposes the admin CRUD surface for room types.  Types
// are deactivated rather than deleted so historical bookings keep a valid
// reference.
type RoomTypeHandler struct {
	RoomTypes *repository.RoomTypeRepo
}

func NewRoomTypeHandler(roomTypes *repository.RoomTypeRepo) *RoomTypeHandler {
	return &RoomTypeHandler{RoomTypes: roomTypes}
}

type roomTypeReq struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	TotalUnits     int    `json:"total_units"`
	BasePriceCents int64  `json:"base_price_cents"`
	Active         *bool  `json:"is_active"`
}

// Create handles POST /v1/admin/room-types.
func (h *RoomTypeHandler) Create(c echo.Context) error {
	var req roomTypeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	rt := &model.RoomType{
		Name:           req.Name,
		Description:    req.Description,
		TotalUnits:     req.TotalUnits,
		BasePriceCents: req.BasePriceCents,
		Active:         true,
	}
	if req.Active != nil {
		rt.Active = *req.Active
	}
	if err := h.RoomTypes.Create(c.Request().Context(), rt); err != nil {
		return writeDomainError(c, err)
	}
	created, err := h.RoomTypes.GetByID(c.Request().Context(), rt.ID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// Get handles GET /v1/admin/room-types/:id.
func (h *RoomTypeHandler) Get(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	rt, err := h.RoomTypes.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, rt)
}

// List handles GET /v1/admin/room-types; inactive types are included so
// admins can reactivate them.
func (h *RoomTypeHandler) List(c echo.Context) error {
	types, err := h.RoomTypes.List(c.Request().Context(), false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load room types"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": types})
}

// Update handles PUT /v1/admin/room-types/:id.  Lowering total_units does
// not rewrite existing overrides; the availability resolver clamps them.
func (h *RoomTypeHandler) Update(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	rt, err := h.RoomTypes.GetByID(ctx, id)
	if err != nil {
		return writeDomainError(c, err)
	}
	var req roomTypeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	rt.Name = req.Name
	rt.Description = req.Description
	rt.TotalUnits = req.TotalUnits
	rt.BasePriceCents = req.BasePriceCents
	if req.Active != nil {
		rt.Active = *req.Active
	}
	if err := h.RoomTypes.Update(ctx, rt); err != nil {
		return writeDomainError(c, err)
	}
	updated, err := h.RoomTypes.GetByID(ctx, id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Deactivate handles DELETE /v1/admin/room-types/:id.
func (h *RoomTypeHandler) Deactivate(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.RoomTypes.Deactivate(c.Request().Context(), id); err != nil {
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
