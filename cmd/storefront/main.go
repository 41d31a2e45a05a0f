package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/client"
	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/server"
	"storefront/internal/service"
	"storefront/internal/session"
	"storefront/internal/store"
	"storefront/internal/watch"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	st, err := openStore(&cfg.Store)
	if err != nil {
		log.Fatal("open session store: ", err)
	}
	defer st.Close()

	sessions := session.NewManager(st)
	gateway := client.NewGateway(&cfg.Gateway)
	addresses := client.NewViaCEPClient(&cfg.ViaCEP)

	events := service.NewNotifier()
	authService := service.NewAuthService(gateway)
	cartService := service.NewCartService(gateway, events)
	paymentService := service.NewPaymentService(gateway)
	checkoutService := service.NewCheckoutService(gateway, cartService, paymentService, cfg.Checkout.ShippingPrice)
	notificationService := service.NewNotificationService(gateway)
	recommendationService := service.NewRecommendationService(gateway)

	pushWatcher := watch.NewPushWatcher(cfg.Gateway.WSURL)
	reconciler := service.NewOrderReconciler(
		gateway, paymentService, pushWatcher,
		cfg.Watch.PollInterval, cfg.Watch.Timeout,
	)

	srv := server.NewServer(
		sessions,
		handler.NewAuthHandler(authService),
		handler.NewCartHandler(cartService),
		handler.NewCheckoutHandler(checkoutService),
		handler.NewOrderHandler(gateway, authService, reconciler),
		handler.NewPaymentHandler(paymentService),
		handler.NewMiscHandler(addresses, notificationService, recommendationService),
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	log.Println("Starting HTTP server on", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
}

func openStore(cfg *config.Store) (store.Store, error) {
	switch cfg.Driver {
	case "sqlite":
		return store.NewSQLiteStore(cfg.SQLitePath)
	case "redis":
		return store.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case "memory", "":
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
