package handler

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-lodging/internal/middleware"
	"github.com/iliyamo/event-lodging/internal/model"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// firstQuery returns the first non-empty value among the given names,
// so a parameter can be spelled in camelCase or snake_case.
func firstQuery(c echo.Context, names ...string) string {
	for _, n := range names {
		if v := strings.TrimSpace(c.QueryParam(n)); v != "" {
			return v
		}
	}
	return ""
}

// queryID parses an optional numeric filter; absent means 0.
func queryID(c echo.Context, names ...string) (uint64, error) {
	v := firstQuery(c, names...)
	if v == "" {
		return 0, nil
	}
	return strconv.ParseUint(v, 10, 64)
}

func queryCents(c echo.Context, name string) (*int64, error) {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func queryDate(c echo.Context, names ...string) (*time.Time, error) {
	v := firstQuery(c, names...)
	if v == "" {
		return nil, nil
	}
	d, err := model.ParseDate(v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

var errAmount = errors.New("amount must be a decimal with at most two fraction digits")

// parseAmount converts a decimal amount in major units ("150", "150.5",
// "150.25") to cents without going through floating point.
func parseAmount(v string) (int64, error) {
	v = strings.TrimSpace(v)
	neg := strings.HasPrefix(v, "-")
	v = strings.TrimPrefix(v, "-")
	whole, frac, _ := strings.Cut(v, ".")
	if whole == "" || len(frac) > 2 {
		return 0, errAmount
	}
	for _, r := range whole + frac {
		if r < '0' || r > '9' {
			return 0, errAmount
		}
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || w > math.MaxInt64/100-1 {
		return 0, errAmount
	}
	cents := w * 100
	if frac != "" {
		f, _ := strconv.ParseInt(frac+strings.Repeat("0", 2-len(frac)), 10, 64)
		cents += f
	}
	if neg {
		cents = -cents
	}
	return cents, nil
}

// pagination reads page (1-based) and limit.
func pagination(c echo.Context) (page, limit int, ok bool) {
	page, limit = 1, defaultPageSize
	if v := c.QueryParam("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return 0, 0, false
		}
		page = n
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return 0, 0, false
		}
		limit = min(n, maxPageSize)
	}
	return page, limit, true
}

func caller(c echo.Context) model.Caller {
	cl, _ := middleware.CallerFrom(c)
	return cl
}
