package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/daybook-app/daybook/internal/adapters/cache"
	"github.com/daybook-app/daybook/internal/adapters/gateway"
	adapterHTTP "github.com/daybook-app/daybook/internal/adapters/handler/http"
	"github.com/daybook-app/daybook/internal/adapters/repository"
	"github.com/daybook-app/daybook/internal/core/domain"
	"github.com/daybook-app/daybook/internal/core/services"
	"github.com/daybook-app/daybook/internal/core/workers"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	startTime := time.Now()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	serverPort := envOr("PORT", "8080")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("Critical: JWT_SECRET is not set")
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	log.Println("Connecting to database...")

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Fatalf("Critical: Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Println("Database connected successfully.")

	rdb, err := cache.NewRedisClient(
		envOr("REDIS_HOST", "localhost"),
		envOr("REDIS_PORT", "6379"),
		os.Getenv("REDIS_PASSWORD"),
		0,
	)
	if err != nil {
		log.Printf("Redis unavailable, continuing without cache and rate limiting: %v", err)
		rdb = nil
	}

	userRepo := repository.NewPostgresUserRepository(db)
	var habitRepo domain.HabitRepository = repository.NewPostgresHabitRepository(db)
	if rdb != nil {
		habitRepo = repository.NewCachedHabitRepository(habitRepo, rdb)
	}
	completionRepo := repository.NewPostgresCompletionRepository(db)
	taskRepo := repository.NewPostgresTaskRepository(db)
	metricRepo := repository.NewPostgresMetricRepository(db)
	quotaRepo := repository.NewPostgresQuotaRepository(db)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	streakWorker := workers.NewStreakWorker(habitRepo, completionRepo, userRepo)
	streakWorker.Start(ctx)

	scheduler := workers.NewStreakScheduler(habitRepo, streakWorker, os.Getenv("STREAK_SWEEP_SPEC"))
	if err := scheduler.Start(ctx); err != nil {
		log.Fatalf("Critical: %v", err)
	}
	defer scheduler.Stop()

	authService := services.NewAuthService(userRepo)
	tokenService := services.NewTokenService(jwtSecret, "daybook", 24*time.Hour, userRepo)
	habitService := services.NewHabitService(habitRepo)
	completionService := services.NewCompletionService(completionRepo, habitRepo, streakWorker)
	taskService := services.NewTaskService(taskRepo)
	metricService := services.NewMetricService(metricRepo, userRepo)
	analyticsService := services.NewAnalyticsService(habitRepo, completionRepo, taskRepo, userRepo)

	insightsLimit := 700
	if raw := os.Getenv("INSIGHTS_DAILY_LIMIT"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			log.Fatalf("Critical: INSIGHTS_DAILY_LIMIT must be an integer: %v", err)
		}
		insightsLimit = parsed
	}
	quotaService := services.NewQuotaService(quotaRepo, insightsLimit, time.UTC)

	var insightsClient *gateway.InsightsClient
	if baseURL := os.Getenv("INSIGHTS_API_URL"); baseURL != "" {
		insightsClient = gateway.NewInsightsClient(baseURL, os.Getenv("INSIGHTS_API_KEY"), quotaService)
	}

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:       adapterHTTP.NewAuthHandler(authService, tokenService),
		HabitHandler:      adapterHTTP.NewHabitHandler(habitService),
		CompletionHandler: adapterHTTP.NewCompletionHandler(completionService),
		TaskHandler:       adapterHTTP.NewTaskHandler(taskService),
		MetricHandler:     adapterHTTP.NewMetricHandler(metricService),
		AnalyticsHandler:  adapterHTTP.NewAnalyticsHandler(analyticsService, insightsClient),
		TokenService:      tokenService,
		DB:                db,
		Redis:             rdb,
		StartTime:         startTime,
	})

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Daybook API running on http://localhost:%s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	<-ctx.Done()

	log.Println("Stop signal received. Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}
