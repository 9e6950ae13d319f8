package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sneakerwears-be/internal/address"
	"sneakerwears-be/internal/cart"
	"sneakerwears-be/internal/config"
	"sneakerwears-be/internal/db"
	"sneakerwears-be/internal/delivery"
	"sneakerwears-be/internal/logger"
	"sneakerwears-be/internal/notification"
	"sneakerwears-be/internal/order"
	"sneakerwears-be/internal/payment"
	"sneakerwears-be/internal/product"
	"sneakerwears-be/internal/transport"
	"sneakerwears-be/internal/user"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	database := db.InitDB(cfg)
	defer database.Close()

	rdb, err := db.InitRedis(cfg)
	if err != nil {
		// The product cache degrades to pass-through without redis.
		log.Warn("redis unavailable, product cache disabled", zap.Error(err))
		rdb = nil
	} else {
		defer rdb.Close()
	}

	userRepo := user.NewRepository(database)
	productRepo := product.NewRepository(database)
	addressRepo := address.NewRepository(database)
	cartRepo := cart.NewRepository(database)
	orderRepo := order.NewRepository(database)

	userSvc := user.NewService(userRepo)
	productSvc := product.NewService(productRepo, product.NewCache(rdb))
	addressSvc := address.NewService(addressRepo)
	cartSvc := cart.NewService(cartRepo, productRepo)

	gateway := payment.NewPaystackGateway(cfg.PaystackSecretKey, cfg.PaystackWebhookSecret)
	fees := delivery.NewProvider(cfg)
	mailer := notification.NewResendMailer(cfg.ResendAPIKey, cfg.EmailFrom)
	dispatcher := notification.NewDispatcher(mailer, cfg.OwnerEmail)

	orderSvc := order.NewService(
		orderRepo, cartRepo, addressRepo, userRepo,
		productSvc, gateway, fees, dispatcher, cfg.AppBaseURL,
	)

	router := transport.NewRouter(transport.Handlers{
		Auth:     transport.NewAuthHandler(userSvc, cfg.JWTSecret, cfg.AppEnv == "production"),
		User:     transport.NewUserHandler(userSvc),
		Product:  transport.NewProductHandler(productSvc),
		Cart:     transport.NewCartHandler(cartSvc),
		Address:  transport.NewAddressHandler(addressSvc),
		Checkout: transport.NewCheckoutHandler(orderSvc),
		Webhook:  transport.NewWebhookHandler(orderSvc, gateway),
		Order:    transport.NewOrderHandler(orderSvc),
	}, cfg.JWTSecret, cfg.AppEnv)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: router,
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Unpaid orders hold reserved stock; the sweep gives it back.
	go runStaleOrderSweep(rootCtx, orderSvc, cfg.StaleOrderSweepEvery, cfg.StaleOrderAge)

	go func() {
		log.Info("server listening", zap.String("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	<-rootCtx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

func runStaleOrderSweep(ctx context.Context, orders order.Service, every, maxAge time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweepCtx, cancel := context.WithTimeout(ctx, time.Minute)
			if err := orders.ReleaseStaleOrders(sweepCtx, maxAge); err != nil {
				logger.L().Error("stale order sweep failed", zap.Error(err))
			}
			cancel()
		}
	}
}
