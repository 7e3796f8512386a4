package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/event-lodging/internal/model"
	"github.com/iliyamo/event-lodging/internal/service"
)

// AccommodationHandler serves the inventory browse and management routes
// and the availability queries.
type AccommodationHandler struct {
	inventory    *service.InventoryService
	availability *service.AvailabilityChecker
	log          *zap.Logger
}

// NewAccommodationHandler panics if a dependency is missing.
func NewAccommodationHandler(inv *service.InventoryService, avail *service.AvailabilityChecker, log *zap.Logger) *AccommodationHandler {
	if inv == nil || avail == nil || log == nil {
		panic("nil dependency passed to NewAccommodationHandler")
	}
	return &AccommodationHandler{inventory: inv, availability: avail, log: log}
}

type accommodationRequest struct {
	Name               string  `json:"name"`
	Location           string  `json:"location"`
	Description        *string `json:"description"`
	PricePerNightCents int64   `json:"price_per_night_cents"`
	TotalRooms         int     `json:"total_rooms"`
	IsActive           *bool   `json:"is_active"`
}

type roomRequest struct {
	RoomNumber         string `json:"room_number"`
	RoomType           string `json:"room_type"`
	Capacity           int    `json:"capacity"`
	IsAvailable        *bool  `json:"is_available"`
	PricePerNightCents *int64 `json:"price_per_night_cents"`
}

// ListAccommodations handles GET /v1/accommodations.  Query parameters:
// active_only, min_price_cents, max_price_cents, location.
func (h *AccommodationHandler) ListAccommodations(c echo.Context) error {
	var f model.AccommodationFilter
	if v := c.QueryParam("active_only"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return badRequest(c, "active_only must be a boolean")
		}
		f.ActiveOnly = b
	}
	var err error
	if f.MinPriceCents, err = queryCents(c, "min_price_cents"); err != nil {
		return badRequest(c, "min_price_cents must be an integer")
	}
	if f.MaxPriceCents, err = queryCents(c, "max_price_cents"); err != nil {
		return badRequest(c, "max_price_cents must be an integer")
	}
	f.Location = c.QueryParam("location")

	list, err := h.inventory.ListAccommodations(c.Request().Context(), f)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, list)
}

// GetAccommodation handles GET /v1/accommodations/:id.
func (h *AccommodationHandler) GetAccommodation(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid accommodation id")
	}
	a, err := h.inventory.GetAccommodation(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, a)
}

// CreateAccommodation handles POST /v1/accommodations.  New
// accommodations are active unless is_active is false.
func (h *AccommodationHandler) CreateAccommodation(c echo.Context) error {
	var body accommodationRequest
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	a := &model.Accommodation{
		Name:               body.Name,
		Location:           body.Location,
		PricePerNightCents: body.PricePerNightCents,
		TotalRooms:         body.TotalRooms,
		IsActive:           body.IsActive == nil || *body.IsActive,
	}
	if body.Description != nil && strings.TrimSpace(*body.Description) != "" {
		d := strings.TrimSpace(*body.Description)
		a.Description = &d
	}
	if err := h.inventory.CreateAccommodation(c.Request().Context(), caller(c), a); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, a)
}

// UpdateAccommodation handles PUT /v1/accommodations/:id as a partial
// update.
func (h *AccommodationHandler) UpdateAccommodation(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid accommodation id")
	}
	var patch model.AccommodationPatch
	if err := c.Bind(&patch); err != nil {
		return badRequest(c, "invalid request body")
	}
	a, err := h.inventory.UpdateAccommodation(c.Request().Context(), caller(c), id, patch)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, a)
}

// DeleteAccommodation handles DELETE /v1/accommodations/:id.
func (h *AccommodationHandler) DeleteAccommodation(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid accommodation id")
	}
	if err := h.inventory.DeleteAccommodation(c.Request().Context(), caller(c), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "accommodation deleted"})
}

// ListRooms handles GET /v1/accommodations/:id/rooms.
func (h *AccommodationHandler) ListRooms(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid accommodation id")
	}
	rooms, err := h.inventory.ListRooms(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, rooms)
}

func (h *AccommodationHandler) roomIDs(c echo.Context) (uint64, uint64, bool) {
	accID, ok := pathID(c, "id")
	if !ok {
		return 0, 0, false
	}
	roomID, ok := pathID(c, "room_id")
	return accID, roomID, ok
}

// GetRoom handles GET /v1/accommodations/:id/rooms/:room_id.
func (h *AccommodationHandler) GetRoom(c echo.Context) error {
	accID, roomID, ok := h.roomIDs(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	rm, err := h.inventory.GetRoom(c.Request().Context(), accID, roomID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, rm)
}

// AddRoom handles POST /v1/accommodations/:id/rooms.
func (h *AccommodationHandler) AddRoom(c echo.Context) error {
	accID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid accommodation id")
	}
	var body roomRequest
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	rm := &model.Room{
		RoomNumber:         body.RoomNumber,
		RoomType:           body.RoomType,
		Capacity:           body.Capacity,
		IsAvailable:        body.IsAvailable == nil || *body.IsAvailable,
		PricePerNightCents: body.PricePerNightCents,
	}
	if err := h.inventory.AddRoom(c.Request().Context(), caller(c), accID, rm); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, rm)
}

// UpdateRoom handles PUT /v1/accommodations/:id/rooms/:room_id.  A
// negative price_per_night_cents clears the room's override.
func (h *AccommodationHandler) UpdateRoom(c echo.Context) error {
	accID, roomID, ok := h.roomIDs(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	var patch model.RoomPatch
	if err := c.Bind(&patch); err != nil {
		return badRequest(c, "invalid request body")
	}
	rm, err := h.inventory.UpdateRoom(c.Request().Context(), caller(c), accID, roomID, patch)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, rm)
}

// DeleteRoom handles DELETE /v1/accommodations/:id/rooms/:room_id.
// Deleting a room that does not exist answers 200 with deleted=false.
func (h *AccommodationHandler) DeleteRoom(c echo.Context) error {
	accID, roomID, ok := h.roomIDs(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	deleted, err := h.inventory.DeleteRoom(c.Request().Context(), caller(c), accID, roomID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": deleted})
}

func stayParams(c echo.Context) (time.Time, time.Time, error) {
	in, err := model.ParseDate(c.QueryParam("check_in_date"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	out, err := model.ParseDate(c.QueryParam("check_out_date"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return in, out, nil
}

// AvailableRooms handles GET /v1/accommodations/:id/available-rooms.
func (h *AccommodationHandler) AvailableRooms(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid accommodation id")
	}
	in, out, err := stayParams(c)
	if err != nil {
		return badRequest(c, "check_in_date and check_out_date must be dates (YYYY-MM-DD)")
	}
	rooms, err := h.availability.FindAvailableRooms(c.Request().Context(), id, in, out)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, rooms)
}

// RoomAvailability handles GET
// /v1/accommodations/:id/rooms/:room_id/availability and reports whether
// the room is free for the stay.
func (h *AccommodationHandler) RoomAvailability(c echo.Context) error {
	accID, roomID, ok := h.roomIDs(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	in, out, err := stayParams(c)
	if err != nil {
		return badRequest(c, "check_in_date and check_out_date must be dates (YYYY-MM-DD)")
	}
	ctx := c.Request().Context()
	rm, err := h.inventory.GetRoom(ctx, accID, roomID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	conflict, err := h.availability.HasConflict(ctx, roomID, in, out)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"room_id":   roomID,
		"available": rm.IsAvailable && !conflict,
	})
}
