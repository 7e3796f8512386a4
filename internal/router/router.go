// Package router registers the HTTP routes of the lodging API on echo.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-lodging/internal/handler"
	"github.com/iliyamo/event-lodging/internal/middleware"
	"github.com/iliyamo/event-lodging/internal/model"
)

// Options carries the cross-cutting middleware chosen at startup.  Nil
// middleware entries are skipped.
type Options struct {
	JWTSecret  string
	RateLimit  echo.MiddlewareFunc
	Cache      echo.MiddlewareFunc // browse responses
	Invalidate echo.MiddlewareFunc // inventory writes
}

func (o Options) protected() []echo.MiddlewareFunc {
	mws := []echo.MiddlewareFunc{middleware.JWTAuth(o.JWTSecret)}
	if o.RateLimit != nil {
		mws = append(mws, o.RateLimit)
	}
	return mws
}

func optional(mws ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := make([]echo.MiddlewareFunc, 0, len(mws))
	for _, m := range mws {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

// RegisterRoutes registers the unauthenticated routes.
func RegisterRoutes(e *echo.Echo, health echo.HandlerFunc) {
	e.GET("/healthz", health)
}

// RegisterAccommodations registers inventory browse, availability and
// operator management routes under /v1/accommodations.
func RegisterAccommodations(e *echo.Echo, h *handler.AccommodationHandler, opts Options) {
	g := e.Group("/v1/accommodations", opts.protected()...)

	cached := optional(opts.Cache)
	g.GET("", h.ListAccommodations, cached...)
	g.GET("/:id", h.GetAccommodation, cached...)
	g.GET("/:id/rooms", h.ListRooms, cached...)
	g.GET("/:id/rooms/:room_id", h.GetRoom, cached...)

	// availability depends on bookings and is never cached
	g.GET("/:id/available-rooms", h.AvailableRooms)
	g.GET("/:id/rooms/:room_id/availability", h.RoomAvailability)

	write := optional(middleware.RequireRole(model.RoleAdmin), opts.Invalidate)
	g.POST("", h.CreateAccommodation, write...)
	g.PUT("/:id", h.UpdateAccommodation, write...)
	g.DELETE("/:id", h.DeleteAccommodation, write...)
	g.POST("/:id/rooms", h.AddRoom, write...)
	g.PUT("/:id/rooms/:room_id", h.UpdateRoom, write...)
	g.DELETE("/:id/rooms/:room_id", h.DeleteRoom, write...)
}

// RegisterBookings registers the booking lifecycle and payment ledger
// routes.  Ownership checks happen in the service layer; only the
// status endpoint is restricted by role here.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, p *handler.PaymentHandler, opts Options) {
	g := e.Group("/v1/bookings", opts.protected()...)
	g.POST("", b.CreateBooking)
	g.GET("", b.ListBookings)
	g.GET("/my", b.ListMyBookings)
	g.GET("/:id", b.GetBooking)
	g.PUT("/:id/status", b.UpdateStatus, middleware.RequireRole(model.RoleAdmin, model.RoleOrganizer))
	g.PUT("/:id/cancel", b.CancelBooking)
	g.POST("/:id/payments", p.AddPayment)
	g.GET("/:id/payments", p.ListPayments)
}

// RegisterReports registers the operator report.
func RegisterReports(e *echo.Echo, h *handler.ReportHandler, opts Options) {
	mws := append(opts.protected(), middleware.RequireRole(model.RoleAdmin))
	e.GET("/v1/reports", h.GetReport, mws...)
}
