package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"friterie/internal/auth"
	"friterie/internal/config"
	httpapi "friterie/internal/http"
	"friterie/internal/payment"
	"friterie/internal/repository"
	"friterie/internal/service"

	_ "friterie/docs"
)

// @title Friterie ordering API
// @version 1.0
// @description Online ordering backend: catalog, checkout, kiosk intake and order lifecycle.
// @BasePath /api/v1
func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("configuration error", "error", err)
		os.Exit(1)
	}

	db, err := gorm.Open(sqlite.Open(cfg.DatabaseURI), &gorm.Config{})
	if err != nil {
		log.Error("could not open database", "uri", cfg.DatabaseURI, "error", err)
		os.Exit(1)
	}
	store := repository.NewGormStore(db)
	if err := store.AutoMigrate(); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	orders := repository.NewGormOrders(store)
	tokens := repository.NewGormTokens(store)

	provider := payment.NewStripeProvider(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	authMgr := auth.NewManager(cfg.JWTSecret)

	srv := httpapi.NewServer(httpapi.Services{
		Checkout:  service.NewCheckoutService(store, orders, provider, cfg.PublicBaseURL, log),
		Kiosk:     service.NewKioskService(store, orders, tokens, store, log),
		Orders:    service.NewOrderService(orders, log),
		Catalog:   service.NewCatalogService(store),
		Terminals: service.NewTerminalService(tokens, log),
		Settings:  service.NewSettingsService(store),
		Webhooks:  service.NewWebhookService(orders, provider, log),
	}, authMgr, httpapi.AdminCredentials{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}, log)

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Engine(),
	}

	go func() {
		log.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "error", err)
	}
}
