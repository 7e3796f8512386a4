package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-lodging/internal/model"
)

const callerKey = "caller"

func setCaller(c echo.Context, caller model.Caller) {
	c.Set(callerKey, caller)
}

// CallerFrom returns the caller stored by JWTAuth.
func CallerFrom(c echo.Context) (model.Caller, bool) {
	caller, ok := c.Get(callerKey).(model.Caller)
	return caller, ok
}

// userKey identifies the caller in rate-limit keys; "anon" before auth.
func userKey(c echo.Context) string {
	if caller, ok := CallerFrom(c); ok && caller.UserID != 0 {
		return strconv.FormatUint(caller.UserID, 10)
	}
	return "anon"
}
