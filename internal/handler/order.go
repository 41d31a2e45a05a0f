package handler

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"storefront/internal/client"
	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"
)

type OrderHandler struct {
	gateway    client.Gateway
	auth       *service.AuthService
	reconciler *service.OrderReconciler
	upgrader   websocket.Upgrader
}

func NewOrderHandler(gateway client.Gateway, auth *service.AuthService, reconciler *service.OrderReconciler) *OrderHandler {
	return &OrderHandler{
		gateway:    gateway,
		auth:       auth,
		reconciler: reconciler,
		upgrader:   websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
	}
}

// List returns the session's demo orders first, then whatever the backend
// knows about; in demo mode the backend is skipped entirely.
func (h *OrderHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	sess := middleware.SessionFrom(c)

	demo, err := sess.DemoOrders(ctx)
	if err != nil {
		return httpError(err)
	}
	orders := demo
	if orders == nil {
		orders = []model.Order{}
	}

	if !sess.DemoMode(ctx) {
		token := sess.Token(ctx)
		if token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
		}
		backend, err := h.gateway.ListOrders(ctx, token)
		if err != nil {
			return httpError(err)
		}
		orders = append(orders, backend...)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.reconciler.Resolve(ctx, middleware.SessionFrom(c), c.Param("orderID"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, order)
}

type updateStatusRequest struct {
	Status model.OrderStatus `json:"status"`
}

// UpdateStatus forces an order status transition. Admin only.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	sess := middleware.SessionFrom(c)

	if !h.auth.IsAdmin(ctx, sess) {
		return echo.NewHTTPError(http.StatusForbidden, "admin role required")
	}

	status := model.OrderStatus(c.QueryParam("status"))
	if status == "" {
		var req updateStatusRequest
		if err := c.Bind(&req); err != nil || req.Status == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "missing status")
		}
		status = req.Status
	}

	order, err := h.gateway.UpdateOrderStatus(ctx, sess.Token(ctx), c.Param("orderID"), status)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, order)
}

// PaymentStatus resolves the current payment state for an order.
func (h *OrderHandler) PaymentStatus(c echo.Context) error {
	ctx := c.Request().Context()

	payment, err := h.reconciler.ResolvePayment(ctx, middleware.SessionFrom(c), c.Param("orderID"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, payment)
}

// WatchPayment upgrades to a websocket and relays payment status updates
// until a terminal state, client disconnect, or watch timeout.
func (h *OrderHandler) WatchPayment(c echo.Context) error {
	ctx := c.Request().Context()
	sess := middleware.SessionFrom(c)

	updates, cancel, err := h.reconciler.WatchPayment(ctx, sess, c.Param("orderID"))
	if err != nil {
		return httpError(err)
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	for update := range updates {
		if err := conn.WriteJSON(update); err != nil {
			return nil
		}
	}
	return nil
}
