package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/event-lodging/internal/model"
	"github.com/iliyamo/event-lodging/internal/service"
)

// BookingHandler serves the booking lifecycle routes.
type BookingHandler struct {
	bookings *service.BookingService
	log      *zap.Logger
}

// NewBookingHandler panics if a dependency is missing.
func NewBookingHandler(bookings *service.BookingService, log *zap.Logger) *BookingHandler {
	if bookings == nil || log == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{bookings: bookings, log: log}
}

type createBookingRequest struct {
	EventID         uint64  `json:"event_id"`
	RoomID          uint64  `json:"room_id"`
	CheckInDate     string  `json:"check_in_date"`
	CheckOutDate    string  `json:"check_out_date"`
	PaymentMethod   *string `json:"payment_method"`
	SpecialRequests *string `json:"special_requests"`
}

// CreateBooking handles POST /v1/bookings for the authenticated caller.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var body createBookingRequest
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.EventID == 0 || body.RoomID == 0 {
		return badRequest(c, "event_id and room_id are required")
	}
	in, err := model.ParseDate(body.CheckInDate)
	if err != nil {
		return badRequest(c, "check_in_date must be a date (YYYY-MM-DD)")
	}
	out, err := model.ParseDate(body.CheckOutDate)
	if err != nil {
		return badRequest(c, "check_out_date must be a date (YYYY-MM-DD)")
	}
	b, err := h.bookings.Create(c.Request().Context(), caller(c), service.CreateBookingInput{
		EventID:         body.EventID,
		RoomID:          body.RoomID,
		CheckIn:         in,
		CheckOut:        out,
		PaymentMethod:   body.PaymentMethod,
		SpecialRequests: body.SpecialRequests,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, b)
}

func bookingFilter(c echo.Context) (model.BookingFilter, string) {
	var f model.BookingFilter
	var err error
	if f.EventID, err = queryID(c, "event_id", "eventId"); err != nil {
		return f, "event_id must be numeric"
	}
	if f.AccommodationID, err = queryID(c, "accommodation_id", "accommodationId"); err != nil {
		return f, "accommodation_id must be numeric"
	}
	if f.RoomID, err = queryID(c, "room_id", "roomId"); err != nil {
		return f, "room_id must be numeric"
	}
	if f.UserID, err = queryID(c, "user_id", "userId"); err != nil {
		return f, "user_id must be numeric"
	}
	f.Status = model.BookingStatus(strings.TrimSpace(c.QueryParam("status")))
	f.PaymentStatus = model.PaymentStatus(firstQuery(c, "payment_status", "paymentStatus"))
	if f.CheckInFrom, err = queryDate(c, "start_date", "startDate"); err != nil {
		return f, "start_date must be a date (YYYY-MM-DD)"
	}
	if f.CheckInTo, err = queryDate(c, "end_date", "endDate"); err != nil {
		return f, "end_date must be a date (YYYY-MM-DD)"
	}
	return f, ""
}

// ListBookings handles GET /v1/bookings.  Operators and organizers may
// filter by any field; other callers only ever see their own bookings.
func (h *BookingHandler) ListBookings(c echo.Context) error {
	f, msg := bookingFilter(c)
	if msg != "" {
		return badRequest(c, msg)
	}
	page, limit, ok := pagination(c)
	if !ok {
		return badRequest(c, "page and limit must be positive integers")
	}
	f.Limit = limit
	f.Offset = (page - 1) * limit

	items, total, err := h.bookings.List(c.Request().Context(), caller(c), f)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": items,
		"count": total,
		"page":  page,
		"limit": limit,
	})
}

// ListMyBookings handles GET /v1/bookings/my.
func (h *BookingHandler) ListMyBookings(c echo.Context) error {
	items, err := h.bookings.ListMine(c.Request().Context(), caller(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, items)
}

// GetBooking handles GET /v1/bookings/:id.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid booking id")
	}
	b, err := h.bookings.Get(c.Request().Context(), caller(c), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, b)
}

// UpdateStatus handles PUT /v1/bookings/:id/status with {"status": ...}.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid booking id")
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	status := model.BookingStatus(strings.TrimSpace(body.Status))
	b, err := h.bookings.UpdateStatus(c.Request().Context(), caller(c), id, status)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, b)
}

// CancelBooking handles PUT /v1/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid booking id")
	}
	b, err := h.bookings.Cancel(c.Request().Context(), caller(c), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, b)
}
