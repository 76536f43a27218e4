package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"carpool-service/internal/auth"
	"carpool-service/internal/reviews"
	"carpool-service/internal/rides"
	"carpool-service/migrations"
	"carpool-service/pkg/config"
	"carpool-service/pkg/db"
	"carpool-service/pkg/jwt"
	"carpool-service/pkg/kafka"
	"carpool-service/pkg/logger"
	"carpool-service/pkg/metrics"
	rredis "carpool-service/pkg/redis"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── 1. Config & logger ──
	cfg := config.Load()
	zlog, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()

	// ── 2. JWT manager ──
	tokens, err := jwt.NewManager(cfg)
	if err != nil {
		zlog.Fatal("jwt init failed", zap.Error(err))
	}

	// ── 3. PostgreSQL ──
	database, err := db.Connect(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("postgres connect failed", zap.Error(err))
	}
	defer database.Close()

	if err := database.RunMigrations(ctx, migrations.FS); err != nil {
		zlog.Fatal("migrations failed", zap.Error(err))
	}

	// ── 4. Redis ──
	redisClient, err := rredis.NewClient(cfg, zlog)
	if err != nil {
		zlog.Fatal("redis connect failed", zap.Error(err))
	}
	defer redisClient.Close()

	// ── 5. Kafka ──
	brokers := strings.Split(cfg.Kafka.Brokers, ",")
	kafkaClient := kafka.NewClient(brokers, zlog)

	if err := kafkaClient.EnsureTopics(ctx,
		kafka.TopicRideCreated,
		kafka.TopicRideBooked,
		kafka.TopicRideCancelled,
	); err != nil {
		zlog.Fatal("kafka init failed", zap.Error(err))
	}

	// ── 6. Services ──
	authSvc := auth.NewService(auth.NewPGStore(database.Pool), tokens, redisClient, cfg.Redis.StatsTTL, zlog)
	rideSvc := rides.NewService(rides.NewPGStore(database.Pool), kafkaClient, zlog)
	reviewSvc := reviews.NewService(reviews.NewPGStore(database.Pool), zlog)

	// ── 7. Background consumers ──
	authSvc.StartStatsInvalidation(ctx, kafkaClient)

	// ── 8. HTTP router ──
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logger.RequestLogger(zlog))
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"OK","message":"Server is running"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Mount("/auth", auth.NewHandler(authSvc, tokens, zlog).Routes())
	r.Mount("/rides", rides.NewHandler(rideSvc, tokens, zlog).Routes())
	r.Mount("/reviews", reviews.NewHandler(reviewSvc, tokens, zlog).Routes())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Route not found"}`))
	})

	// ── 9. Start server ──
	srv := &http.Server{Addr: ":" + cfg.Server.Port, Handler: r}

	go func() {
		zlog.Info("carpool-service listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	// ── 10. Graceful shutdown ──
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("shutting down...")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutCancel()
	srv.Shutdown(shutCtx)
	cancel() // stop consumers
}
