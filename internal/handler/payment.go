package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/museum-reservation/internal/middleware"
	"github.com/iliyamo/museum-reservation/internal/payment"
)

// PaymentHandler serves the payment step of a visit.
type PaymentHandler struct{}

type payReq struct {
	Method string               `json:"method"` // e.g. "upi:gpay", "card", "wallet:paytm"
	Card   *payment.CardDetails `json:"card,omitempty"`
}

// Get handles GET /v1/payment: the submitted draft awaiting payment.
func (h *PaymentHandler) Get(c echo.Context) error {
	v, ok := middleware.VisitFrom(c)
	if !ok {
		return missingVisit(c)
	}
	s, fx, err := v.PendingPayment(c.Request().Context())
	if err != nil {
		return failure(c, err, fx)
	}
	return reply(c, http.StatusOK, echo.Map{"booking": snapshotView(s)}, fx)
}

// Pay handles POST /v1/payment.  It blocks while the provider authorizes.
func (h *PaymentHandler) Pay(c echo.Context) error {
	v, ok := middleware.VisitFrom(c)
	if !ok {
		return missingVisit(c)
	}
	var req payReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	b, fx, err := v.Pay(c.Request().Context(), req.Method, req.Card)
	if err != nil {
		return failure(c, err, fx)
	}
	return reply(c, http.StatusOK, echo.Map{"booking": b}, fx)
}
