package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tableorder/api-service/internal/auth"
	"tableorder/api-service/internal/config"
	"tableorder/api-service/internal/httpapi"
	"tableorder/api-service/internal/store/postgres"
	"tableorder/api-service/internal/telemetry"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}

	shutdownTelemetry := telemetry.Setup("api-service", cfg.OTLPEndpoint, cfg.OTLPInsecure)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(ctx)
	}()

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	st := postgres.NewStore(pool)
	codec := auth.NewTokenCodec([]byte(cfg.JWTSecret), time.Duration(cfg.TokenTTLHours)*time.Hour)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	authService := auth.NewService(st, hasher, codec)
	handler := httpapi.NewHandler(authService, st)
	limiter := httpapi.NewRateLimiter(httpapi.RateLimitConfig{
		IPPerMinute:    cfg.RateLimitPerMinute,
		IPBurst:        cfg.RateLimitBurst,
		OwnerPerMinute: cfg.OwnerRateLimitPerMinute,
		OwnerBurst:     cfg.OwnerRateLimitBurst,
	})

	chain := httpapi.LoggingMiddleware(limiter.IPMiddleware(httpapi.AuthMiddleware(codec, limiter.OwnerMiddleware(handler.Routes()))))
	otelHandler := otelhttp.NewHandler(chain, "api-service")
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("api-service listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
