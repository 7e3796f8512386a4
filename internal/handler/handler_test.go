package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iliyamo/event-lodging/internal/service"
)

func TestWriteErrorStatus(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{&service.Error{Kind: service.KindValidation, Message: "bad"}, http.StatusBadRequest},
		{&service.Error{Kind: service.KindPolicy, Message: "illegal"}, http.StatusBadRequest},
		{&service.Error{Kind: service.KindNotFound, Message: "booking not found"}, http.StatusNotFound},
		{&service.Error{Kind: service.KindAuthorization, Message: "no"}, http.StatusForbidden},
		{&service.Error{Kind: service.KindConflict, Message: "taken"}, http.StatusConflict},
	}
	e := echo.New()
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		require.NoError(t, writeError(c, zap.NewNop(), tc.err))
		assert.Equal(t, tc.code, rec.Code, tc.err.Error())
		assert.JSONEq(t, `{"error":"`+tc.err.Error()+`"}`, rec.Body.String())
	}
}

func TestWriteErrorHidesInternalFailures(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/v1/bookings", nil), rec)

	require.NoError(t, writeError(c, zap.New(core), errors.New("create booking: connection reset")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "request failed", logs.All()[0].Message)
}

func TestPagination(t *testing.T) {
	e := echo.New()
	ctx := func(query string) echo.Context {
		return e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/bookings?"+query, nil), httptest.NewRecorder())
	}

	page, limit, ok := pagination(ctx(""))
	require.True(t, ok)
	assert.Equal(t, 1, page)
	assert.Equal(t, defaultPageSize, limit)

	page, limit, ok = pagination(ctx("page=3&limit=500"))
	require.True(t, ok)
	assert.Equal(t, 3, page)
	assert.Equal(t, maxPageSize, limit)

	for _, q := range []string{"page=0", "limit=-1", "page=x"} {
		_, _, ok = pagination(ctx(q))
		assert.False(t, ok, q)
	}
}

func TestBookingFilterParsing(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet,
		"/v1/bookings?event_id=4&status=confirmed&start_date=2025-05-01&end_date=2025-05-31", nil), httptest.NewRecorder())
	f, msg := bookingFilter(c)
	require.Empty(t, msg)
	assert.EqualValues(t, 4, f.EventID)
	assert.EqualValues(t, "confirmed", f.Status)
	require.NotNil(t, f.CheckInFrom)
	assert.Equal(t, "2025-05-01", f.CheckInFrom.Format("2006-01-02"))

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/bookings?room_id=abc", nil), httptest.NewRecorder())
	_, msg = bookingFilter(c)
	assert.Equal(t, "room_id must be numeric", msg)
}

func TestCamelCaseQueryNames(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet,
		"/v1/bookings?eventId=4&paymentStatus=partial&startDate=2025-05-01&endDate=2025-05-31", nil), httptest.NewRecorder())
	f, msg := bookingFilter(c)
	require.Empty(t, msg)
	assert.EqualValues(t, 4, f.EventID)
	assert.EqualValues(t, "partial", f.PaymentStatus)
	require.NotNil(t, f.CheckInTo)
	assert.Equal(t, "2025-05-31", f.CheckInTo.Format("2006-01-02"))

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/reports?startDate=2025-06-01&start_date=2025-01-01", nil), httptest.NewRecorder())
	d, err := queryDate(c, "startDate", "start_date")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", d.Format("2006-01-02"))

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/reports?eventId=x", nil), httptest.NewRecorder())
	_, err = queryID(c, "eventId", "event_id")
	assert.Error(t, err)
}

func TestParseAmount(t *testing.T) {
	cases := map[string]int64{
		"150":    15000,
		"150.5":  15050,
		"150.25": 15025,
		"0.01":   1,
		"-3.10":  -310,
	}
	for in, want := range cases {
		got, err := parseAmount(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"", ".5", "1.234", "1e3", "12a", "99999999999999999999"} {
		_, err := parseAmount(in)
		assert.Error(t, err, in)
	}
}

func TestPaymentRequestCents(t *testing.T) {
	num := func(s string) *json.Number { n := json.Number(s); return &n }
	cents := func(v int64) *int64 { return &v }

	got, msg := paymentRequest{Amount: num("250.75")}.cents()
	require.Empty(t, msg)
	assert.EqualValues(t, 25075, got)

	got, msg = paymentRequest{AmountCents: cents(900)}.cents()
	require.Empty(t, msg)
	assert.EqualValues(t, 900, got)

	got, msg = paymentRequest{Amount: num("9"), AmountCents: cents(900)}.cents()
	require.Empty(t, msg)
	assert.EqualValues(t, 900, got)

	_, msg = paymentRequest{Amount: num("9"), AmountCents: cents(1)}.cents()
	assert.Equal(t, "amount and amount_cents disagree", msg)
	_, msg = paymentRequest{Amount: num("1.999")}.cents()
	assert.NotEmpty(t, msg)
}
