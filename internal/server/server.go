package server

import (
	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/internal/session"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo            *echo.Echo
	authHandler     *handler.AuthHandler
	cartHandler     *handler.CartHandler
	checkoutHandler *handler.CheckoutHandler
	orderHandler    *handler.OrderHandler
	paymentHandler  *handler.PaymentHandler
	miscHandler     *handler.MiscHandler
}

func NewServer(
	sessions *session.Manager,
	authHandler *handler.AuthHandler,
	cartHandler *handler.CartHandler,
	checkoutHandler *handler.CheckoutHandler,
	orderHandler *handler.OrderHandler,
	paymentHandler *handler.PaymentHandler,
	miscHandler *handler.MiscHandler,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.Session(sessions))

	s := &Server{
		echo:            e,
		authHandler:     authHandler,
		cartHandler:     cartHandler,
		checkoutHandler: checkoutHandler,
		orderHandler:    orderHandler,
		paymentHandler:  paymentHandler,
		miscHandler:     miscHandler,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- auth --------
	auth := api.Group("/auth")
	auth.POST("/login", s.authHandler.Login)
	auth.POST("/register", s.authHandler.Register)
	auth.POST("/logout", s.authHandler.Logout)
	auth.GET("/me", s.authHandler.Me)

	// -------- cart --------
	cart := api.Group("/cart")
	cart.GET("", s.cartHandler.Items)
	cart.GET("/count", s.cartHandler.Count)
	cart.POST("/items", s.cartHandler.Add)
	cart.PUT("/items/:itemID", s.cartHandler.Update)
	cart.DELETE("/items/:itemID", s.cartHandler.Remove)
	cart.DELETE("", s.cartHandler.Clear)

	// -------- checkout --------
	checkout := api.Group("/checkout")
	checkout.GET("", s.checkoutHandler.Quote)
	checkout.POST("", s.checkoutHandler.Submit)

	// -------- orders --------
	orders := api.Group("/orders")
	orders.GET("", s.orderHandler.List)
	orders.GET("/:orderID", s.orderHandler.Get)
	orders.PUT("/:orderID/status", s.orderHandler.UpdateStatus)
	orders.GET("/:orderID/payment", s.orderHandler.PaymentStatus)

	// -------- payments --------
	payments := api.Group("/payments")
	payments.POST("", s.paymentHandler.Process)
	payments.GET("/order/:orderID", s.paymentHandler.StatusByOrder)
	payments.GET("/:paymentID", s.paymentHandler.Status)
	payments.POST("/refund/:orderID", s.paymentHandler.Refund)

	// -------- payment status push --------
	api.GET("/ws/payments/:orderID", s.orderHandler.WatchPayment)

	// -------- session / demo mode --------
	sess := api.Group("/session")
	sess.GET("/demo-mode", s.miscHandler.DemoMode)
	sess.POST("/demo-mode/reset", s.miscHandler.ResetDemoMode)

	// -------- addresses / cards --------
	api.GET("/addresses/cep/:cep", s.miscHandler.LookupCEP)
	api.GET("/cards/brand", s.miscHandler.CardBrand)

	// -------- notifications --------
	notifications := api.Group("/notifications")
	notifications.GET("", s.miscHandler.Notifications)
	notifications.GET("/unread", s.miscHandler.UnreadNotifications)
	notifications.GET("/count", s.miscHandler.UnreadNotificationCount)
	notifications.PUT("/:notificationID/read", s.miscHandler.MarkNotificationRead)
	notifications.PUT("/read-all", s.miscHandler.MarkAllNotificationsRead)

	// -------- recommendations --------
	recommendations := api.Group("/recommendations")
	recommendations.GET("/products/:productID", s.miscHandler.ProductRecommendations)
	recommendations.GET("/users", s.miscHandler.UserRecommendations)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
