package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/event-lodging/internal/model"
	"github.com/iliyamo/event-lodging/internal/service"
)

// PaymentHandler serves the payment ledger of a booking.
type PaymentHandler struct {
	payments *service.PaymentService
	log      *zap.Logger
}

// NewPaymentHandler panics if a dependency is missing.
func NewPaymentHandler(payments *service.PaymentService, log *zap.Logger) *PaymentHandler {
	if payments == nil || log == nil {
		panic("nil dependency passed to NewPaymentHandler")
	}
	return &PaymentHandler{payments: payments, log: log}
}

// paymentRequest takes the amount either as a decimal in major units
// (amount) or as integer cents (amount_cents).
type paymentRequest struct {
	Amount          *json.Number `json:"amount"`
	AmountCents     *int64       `json:"amount_cents"`
	PaymentDate     string       `json:"payment_date"`
	PaymentMethod   string       `json:"payment_method"`
	ReferenceNumber *string      `json:"reference_number"`
	ReceiptURL      *string      `json:"receipt_url"`
	Notes           *string      `json:"notes"`
}

// cents resolves the two amount spellings; an absent amount is 0 and
// left for the service to reject.
func (r paymentRequest) cents() (int64, string) {
	var cents int64
	if r.AmountCents != nil {
		cents = *r.AmountCents
	}
	if r.Amount == nil {
		return cents, ""
	}
	a, err := parseAmount(r.Amount.String())
	if err != nil {
		return 0, err.Error()
	}
	if r.AmountCents != nil && a != cents {
		return 0, "amount and amount_cents disagree"
	}
	return a, ""
}

// AddPayment handles POST /v1/bookings/:id/payments and answers with the
// recorded payment and the reconciled booking.
func (h *PaymentHandler) AddPayment(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid booking id")
	}
	var body paymentRequest
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	amount, msg := body.cents()
	if msg != "" {
		return badRequest(c, msg)
	}
	var date time.Time
	if body.PaymentDate != "" {
		d, err := model.ParseDate(body.PaymentDate)
		if err != nil {
			return badRequest(c, "payment_date must be a date (YYYY-MM-DD)")
		}
		date = d
	}
	p, b, err := h.payments.AddPayment(c.Request().Context(), caller(c), id, service.PaymentInput{
		AmountCents:     amount,
		PaymentDate:     date,
		PaymentMethod:   body.PaymentMethod,
		ReferenceNumber: body.ReferenceNumber,
		ReceiptURL:      body.ReceiptURL,
		Notes:           body.Notes,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"payment": p, "booking": b})
}

// ListPayments handles GET /v1/bookings/:id/payments.
func (h *PaymentHandler) ListPayments(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid booking id")
	}
	ps, err := h.payments.ListPayments(c.Request().Context(), caller(c), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, ps)
}
