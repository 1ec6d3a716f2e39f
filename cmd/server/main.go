package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dimalbek/farmer-market/internal/config"
	"github.com/dimalbek/farmer-market/internal/httpserver"
	"github.com/dimalbek/farmer-market/internal/logging"
	"github.com/dimalbek/farmer-market/internal/middleware"
	"github.com/dimalbek/farmer-market/internal/mykafka"
	"github.com/dimalbek/farmer-market/internal/payments"
	"github.com/dimalbek/farmer-market/internal/redisx"
	"github.com/dimalbek/farmer-market/internal/repo"
	"github.com/dimalbek/farmer-market/internal/service"
	"github.com/dimalbek/farmer-market/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger := logging.New(cfg.LogLevel)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = mykafka.NewProducer(cfg.KafkaBrokers)
	} else {
		logger.Warn("kafka disabled, no brokers configured")
	}

	var dedup service.Deduper
	if cfg.RedisAddr != "" {
		dedup = &redisx.Dedup{RDB: redisx.New(cfg.RedisAddr)}
	} else {
		logger.Warn("webhook dedup disabled, no redis configured")
	}

	gormRepo := &repo.GormRepo{DB: db}
	gateway := payments.NewClient(cfg.PaymentSecretKey, cfg.PaymentBaseURL)

	authSvc := &service.AuthService{Repo: gormRepo, JWTSecret: cfg.JWTSecret, Producer: producer}
	catalogSvc := &service.CatalogService{Repo: gormRepo}
	cartSvc := &service.CartService{Repo: gormRepo}
	orderSvc := &service.OrderService{Repo: gormRepo}
	checkoutSvc := &service.CheckoutService{
		Repo:       gormRepo,
		Gateway:    gateway,
		SuccessURL: cfg.CheckoutSuccessURL,
		CancelURL:  cfg.CheckoutCancelURL,
		Producer:   producer,
	}
	webhookSvc := &service.WebhookService{
		Repo:          gormRepo,
		WebhookSecret: []byte(cfg.PaymentWebhookSecret),
		Dedup:         dedup,
		Producer:      producer,
	}
	chatSvc := &service.ChatService{Repo: gormRepo}
	adminSvc := &service.AdminService{Repo: gormRepo}

	registry := ws.NewRegistry(logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		Auth:      &httpserver.AuthHTTP{Svc: authSvc},
		Products:  &httpserver.ProductHTTP{Svc: catalogSvc},
		Cart:      &httpserver.CartHTTP{Svc: cartSvc},
		Orders:    &httpserver.OrderHTTP{Svc: orderSvc},
		Checkout:  &httpserver.CheckoutHTTP{Svc: checkoutSvc},
		Webhook:   &httpserver.WebhookHTTP{Svc: webhookSvc},
		Chats:     &httpserver.ChatHTTP{Svc: chatSvc},
		Admin:     &httpserver.AdminHTTP{Svc: adminSvc},
		WSChat:    ws.NewChatHandler(registry, chatSvc, cfg.JWTSecret),
		JWTSecret: cfg.JWTSecret,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
