package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"
)

type CartHandler struct {
	cart *service.CartService
}

func NewCartHandler(cart *service.CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) Items(c echo.Context) error {
	ctx := c.Request().Context()

	items, err := h.cart.Items(ctx, middleware.SessionFrom(c))
	if err != nil {
		return httpError(err)
	}
	if items == nil {
		items = []model.CartItem{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CartHandler) Count(c echo.Context) error {
	ctx := c.Request().Context()

	count, err := h.cart.Count(ctx, middleware.SessionFrom(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]int{"count": count})
}

func (h *CartHandler) Add(c echo.Context) error {
	ctx := c.Request().Context()

	var req addItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	if err := h.cart.Add(ctx, middleware.SessionFrom(c), req.ProductID, req.Quantity); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusCreated)
}

func (h *CartHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	var req updateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if err := h.cart.UpdateQuantity(ctx, middleware.SessionFrom(c), c.Param("itemID"), req.Quantity); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) Remove(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.cart.Remove(ctx, middleware.SessionFrom(c), c.Param("itemID")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) Clear(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.cart.Clear(ctx, middleware.SessionFrom(c)); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
