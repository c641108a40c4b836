package main

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/rashadk/barberai-platform/internal/api/router"
	"github.com/rashadk/barberai-platform/internal/appointments"
	"github.com/rashadk/barberai-platform/internal/catalog"
	"github.com/rashadk/barberai-platform/internal/chat"
	appconfig "github.com/rashadk/barberai-platform/internal/config"
	"github.com/rashadk/barberai-platform/internal/dialogue"
	"github.com/rashadk/barberai-platform/internal/hours"
	"github.com/rashadk/barberai-platform/internal/http/handlers"
	"github.com/rashadk/barberai-platform/internal/observability/metrics"
	"github.com/rashadk/barberai-platform/pkg/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting barberai-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Appointment storage: Postgres when configured, in-memory otherwise
	// so the server stays usable for local development.
	var repo appointments.Repository
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		repo = appointments.NewPGRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory appointment store")
		repo = appointments.NewMemoryRepository()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOptions)

	var sessions *chat.SessionStore
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available, sessions will not persist", "error", err)
	} else {
		sessions = chat.NewSessionStore(redisClient, cfg.DraftTTL, nil)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("invalid SHOP_TIMEZONE, falling back to UTC", "timezone", cfg.Timezone, "error", err)
		loc = time.UTC
	}

	cat := catalog.Default()
	planner := dialogue.NewPlanner(hours.Default(), logger,
		dialogue.WithLeadBuffer(cfg.SameDayLeadBuffer),
		dialogue.WithClock(func() time.Time { return time.Now().In(loc) }),
	)

	dialogueMetrics := metrics.NewDialogueMetrics(nil)

	shop := chat.ShopInfo{
		Name:     cfg.ShopName,
		Location: cfg.ShopLocation,
		Phone:    cfg.ShopPhone,
	}
	chatService := chat.NewService(planner, repo, sessions, cat, shop, dialogueMetrics, logger)
	chatHandler := chat.NewHandler(chatService, logger)
	adminHandler := handlers.NewAdminHandler(repo, nil, logger)

	if cfg.AdminJWTSecret == "" {
		logger.Warn("ADMIN_JWT_SECRET not set, admin endpoints are disabled")
	}

	routerCfg := &router.Config{
		Logger:             logger,
		ChatHandler:        chatHandler,
		AdminHandler:       adminHandler,
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
