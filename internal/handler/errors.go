package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/event-lodging/internal/service"
)

func statusOf(k service.Kind) int {
	switch k {
	case service.KindValidation, service.KindPolicy:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindAuthorization:
		return http.StatusForbidden
	case service.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeError renders a service error as {"error": message}.  Anything
// that is not a service error is logged and hidden behind a 500.
func writeError(c echo.Context, log *zap.Logger, err error) error {
	if k := service.KindOf(err); k != 0 {
		return c.JSON(statusOf(k), echo.Map{"error": err.Error()})
	}
	log.Error("request failed",
		zap.String("method", c.Request().Method),
		zap.String("path", c.Path()),
		zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}
