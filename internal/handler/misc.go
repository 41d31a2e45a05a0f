package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"storefront/internal/card"
	"storefront/internal/client"
	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"
)

// MiscHandler covers the smaller surfaces: CEP lookup, card brand hints,
// notifications and recommendations.
type MiscHandler struct {
	address         client.AddressLookup
	notifications   *service.NotificationService
	recommendations *service.RecommendationService
}

func NewMiscHandler(address client.AddressLookup, notifications *service.NotificationService, recommendations *service.RecommendationService) *MiscHandler {
	return &MiscHandler{
		address:         address,
		notifications:   notifications,
		recommendations: recommendations,
	}
}

func (h *MiscHandler) LookupCEP(c echo.Context) error {
	ctx := c.Request().Context()

	addr, err := h.address.LookupCEP(ctx, c.Param("cep"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, addr)
}

func (h *MiscHandler) CardBrand(c echo.Context) error {
	number := c.QueryParam("number")
	return c.JSON(http.StatusOK, map[string]string{
		"brand":     string(card.DetectBrand(number)),
		"formatted": card.FormatNumber(number),
	})
}

// -------- demo mode --------

func (h *MiscHandler) DemoMode(c echo.Context) error {
	ctx := c.Request().Context()
	sess := middleware.SessionFrom(c)
	return c.JSON(http.StatusOK, map[string]bool{"demoMode": sess.DemoMode(ctx)})
}

// ResetDemoMode is the explicit way out of the demo-mode latch.
func (h *MiscHandler) ResetDemoMode(c echo.Context) error {
	ctx := c.Request().Context()
	if err := middleware.SessionFrom(c).ResetDemoMode(ctx); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -------- notifications --------

func (h *MiscHandler) Notifications(c echo.Context) error {
	ctx := c.Request().Context()
	ns := h.notifications.List(ctx, middleware.SessionFrom(c))
	if ns == nil {
		ns = []model.Notification{}
	}
	return c.JSON(http.StatusOK, ns)
}

func (h *MiscHandler) UnreadNotifications(c echo.Context) error {
	ctx := c.Request().Context()
	ns := h.notifications.Unread(ctx, middleware.SessionFrom(c))
	if ns == nil {
		ns = []model.Notification{}
	}
	return c.JSON(http.StatusOK, ns)
}

func (h *MiscHandler) UnreadNotificationCount(c echo.Context) error {
	ctx := c.Request().Context()
	count := h.notifications.UnreadCount(ctx, middleware.SessionFrom(c))
	return c.JSON(http.StatusOK, map[string]int{"count": count})
}

func (h *MiscHandler) MarkNotificationRead(c echo.Context) error {
	ctx := c.Request().Context()
	ok := h.notifications.MarkRead(ctx, middleware.SessionFrom(c), c.Param("notificationID"))
	return c.JSON(http.StatusOK, map[string]bool{"ok": ok})
}

func (h *MiscHandler) MarkAllNotificationsRead(c echo.Context) error {
	ctx := c.Request().Context()
	ok := h.notifications.MarkAllRead(ctx, middleware.SessionFrom(c))
	return c.JSON(http.StatusOK, map[string]bool{"ok": ok})
}

// -------- recommendations --------

func maxResults(c echo.Context) int {
	n, err := strconv.Atoi(c.QueryParam("maxResults"))
	if err != nil {
		return 0
	}
	return n
}

func (h *MiscHandler) ProductRecommendations(c echo.Context) error {
	ctx := c.Request().Context()
	products := h.recommendations.ForProduct(ctx, c.Param("productID"), maxResults(c))
	return c.JSON(http.StatusOK, products)
}

func (h *MiscHandler) UserRecommendations(c echo.Context) error {
	ctx := c.Request().Context()
	products := h.recommendations.ForUser(ctx, middleware.SessionFrom(c), maxResults(c))
	return c.JSON(http.StatusOK, products)
}
