package main

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/event-lodging/internal/config"
	"github.com/iliyamo/event-lodging/internal/handler"
	"github.com/iliyamo/event-lodging/internal/middleware"
	"github.com/iliyamo/event-lodging/internal/repository"
	"github.com/iliyamo/event-lodging/internal/router"
	"github.com/iliyamo/event-lodging/internal/service"
)

type serverDeps struct {
	store  repository.Store
	pinger handler.Pinger // nil skips the database ping
	events service.EventPublisher
	redis  *redis.Client // nil disables caching and selects local rate limiting
	log    *zap.Logger
}

// newServer builds the echo instance with every route and middleware.
func newServer(cfg config.Config, d serverDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(d.log))

	inventory := service.NewInventoryService(d.store, d.log)
	availability := service.NewAvailabilityChecker(d.store)
	bookings := service.NewBookingService(d.store, d.events, d.log)
	payments := service.NewPaymentService(d.store, d.events, d.log)
	reports := service.NewReportService(d.store, d.log)

	opts := router.Options{
		JWTSecret:  cfg.JWTSecret,
		RateLimit:  middleware.NewRateLimiter(cfg.RateLimit, d.redis, d.log),
		Cache:      middleware.NewRedisCache(cfg.Cache, d.redis),
		Invalidate: middleware.InvalidateCache(cfg.Cache, d.redis, d.log),
	}
	router.RegisterRoutes(e, handler.Health(d.pinger))
	router.RegisterAccommodations(e, handler.NewAccommodationHandler(inventory, availability, d.log), opts)
	router.RegisterBookings(e, handler.NewBookingHandler(bookings, d.log), handler.NewPaymentHandler(payments, d.log), opts)
	router.RegisterReports(e, handler.NewReportHandler(reports, d.log), opts)
	return e
}
