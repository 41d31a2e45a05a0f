package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/client"
	"storefront/internal/middleware"
	"storefront/internal/service"
)

type PaymentHandler struct {
	payments *service.PaymentService
}

func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type paymentResponse struct {
	Payment  any    `json:"payment"`
	Outcome  string `json:"outcome"`
	Degraded bool   `json:"degraded"`
}

func (h *PaymentHandler) Process(c echo.Context) error {
	ctx := c.Request().Context()

	var req client.PaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.OrderID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "orderId is required")
	}

	payment, outcome, err := h.payments.Process(ctx, middleware.SessionFrom(c), &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, paymentResponse{
		Payment:  payment,
		Outcome:  outcome.String(),
		Degraded: outcome == service.OutcomeLocal,
	})
}

// Status accepts a payment id or the order/<id> form.
func (h *PaymentHandler) Status(c echo.Context) error {
	ctx := c.Request().Context()

	payment, err := h.payments.Status(ctx, middleware.SessionFrom(c), c.Param("paymentID"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, payment)
}

// StatusByOrder mirrors the backend's /payments/order/{orderId} shape.
func (h *PaymentHandler) StatusByOrder(c echo.Context) error {
	ctx := c.Request().Context()

	payment, err := h.payments.Status(ctx, middleware.SessionFrom(c), "order/"+c.Param("orderID"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandler) Refund(c echo.Context) error {
	ctx := c.Request().Context()

	restoreStock := c.QueryParam("restoreStock") != "false"
	payment, outcome, err := h.payments.Refund(ctx, middleware.SessionFrom(c), c.Param("orderID"), restoreStock)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, paymentResponse{
		Payment:  payment,
		Outcome:  outcome.String(),
		Degraded: outcome == service.OutcomeLocal,
	})
}
