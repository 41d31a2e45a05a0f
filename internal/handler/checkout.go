package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/middleware"
	"storefront/internal/service"
)

type CheckoutHandler struct {
	checkout *service.CheckoutService
}

func NewCheckoutHandler(checkout *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// Quote returns the cart with subtotal, shipping and total, rejecting empty
// or anonymous carts before the buyer fills in the form.
func (h *CheckoutHandler) Quote(c echo.Context) error {
	ctx := c.Request().Context()

	quote, err := h.checkout.Load(ctx, middleware.SessionFrom(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, quote)
}

func (h *CheckoutHandler) Submit(c echo.Context) error {
	ctx := c.Request().Context()

	var req service.SubmitInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	result, err := h.checkout.Submit(ctx, middleware.SessionFrom(c), &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, result)
}
